package calculation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Page selects a window of a listing.
type Page struct {
	Limit  int
	Offset int
}

const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// Normalize clamps p to sane bounds.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// Store persists calculations. Update and Delete run guard on the current
// row inside a transaction and abort with its error.
type Store interface {
	Save(ctx context.Context, c *Calculation) error
	Fetch(ctx context.Context, id uuid.UUID) (*Calculation, error)
	ListByOwner(ctx context.Context, owner uuid.UUID, page Page) ([]Calculation, int64, error)
	Update(ctx context.Context, id uuid.UUID, mutate func(*Calculation) error) (*Calculation, error)
	Delete(ctx context.Context, id uuid.UUID, guard func(*Calculation) error) error
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Save inserts a new record.
func (s *GormStore) Save(ctx context.Context, c *Calculation) error {
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *GormStore) Fetch(ctx context.Context, id uuid.UUID) (*Calculation, error) {
	return fetch(s.db.WithContext(ctx), id)
}

func fetch(db *gorm.DB, id uuid.UUID) (*Calculation, error) {
	var c Calculation
	err := db.Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *GormStore) ListByOwner(ctx context.Context, owner uuid.UUID, page Page) ([]Calculation, int64, error) {
	page = page.Normalize()
	query := s.db.WithContext(ctx).Model(&Calculation{}).Where("user_id = ?", owner)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	calcs := make([]Calculation, 0)
	err := query.
		Order("created_at DESC").
		Order("id").
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&calcs).Error
	return calcs, total, err
}

func (s *GormStore) Update(ctx context.Context, id uuid.UUID, mutate func(*Calculation) error) (*Calculation, error) {
	var updated *Calculation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := fetch(tx, id)
		if err != nil {
			return err
		}
		if err := mutate(c); err != nil {
			return err
		}
		if err := tx.Save(c).Error; err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *GormStore) Delete(ctx context.Context, id uuid.UUID, guard func(*Calculation) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := fetch(tx, id)
		if err != nil {
			return err
		}
		if err := guard(c); err != nil {
			return err
		}
		res := tx.Where("id = ?", c.ID).Delete(&Calculation{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
