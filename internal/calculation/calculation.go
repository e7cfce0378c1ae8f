// Package calculation stores users' calculation records and keeps each
// record's result consistent with its type and inputs.
package calculation

import (
	"errors"
	"slices"
	"time"

	"go-chi-calculator/internal/calculator"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var (
	ErrNotFound  = errors.New("calculation not found")
	ErrForbidden = errors.New("calculation belongs to another user")
)

// Calculation is one user's request: Result is always the left fold of
// Inputs under Type. UserID and Type never change after New.
type Calculation struct {
	ID        uuid.UUID                    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    uuid.UUID                    `gorm:"type:varchar(36);not null;index:idx_calculations_user_created" json:"user_id"`
	Type      calculator.Type              `gorm:"size:20;not null" json:"type"`
	Inputs    datatypes.JSONSlice[float64] `gorm:"not null" json:"inputs"`
	Result    float64                      `gorm:"not null" json:"result"`
	CreatedAt time.Time                    `gorm:"index:idx_calculations_user_created" json:"created_at"`
	UpdatedAt time.Time                    `json:"updated_at"`
}

func (Calculation) TableName() string {
	return "calculations"
}

// New validates t and inputs, computes the result and returns a record with a
// fresh id owned by owner.
func New(owner uuid.UUID, t calculator.Type, inputs []float64) (*Calculation, error) {
	result, err := calculator.Reduce(t, inputs)
	if err != nil {
		return nil, err
	}
	return &Calculation{
		ID:     uuid.New(),
		UserID: owner,
		Type:   t,
		Inputs: datatypes.NewJSONSlice(slices.Clone(inputs)),
		Result: result,
	}, nil
}

// SetInputs replaces the inputs and recomputes the result with the record's
// existing type. On error the record is left unchanged.
func (c *Calculation) SetInputs(inputs []float64) error {
	result, err := calculator.Reduce(c.Type, inputs)
	if err != nil {
		return err
	}
	c.Inputs = datatypes.NewJSONSlice(slices.Clone(inputs))
	c.Result = result
	return nil
}

// AuthorizeFor returns ErrForbidden unless caller owns c.
func (c *Calculation) AuthorizeFor(caller uuid.UUID) error {
	if c.UserID != caller {
		return ErrForbidden
	}
	return nil
}
