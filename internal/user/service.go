package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-chi-calculator/internal/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput is the payload accepted by Register.
type RegisterInput struct {
	FirstName       string `json:"first_name" validate:"required,max=50"`
	LastName        string `json:"last_name" validate:"required,max=50"`
	Email           string `json:"email" validate:"required,email,max=120"`
	Username        string `json:"username" validate:"required,min=3,max=50"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

type Service struct {
	store      Store
	bcryptCost int
	now        func() time.Time

	// dummyHash is compared against when the login does not exist so
	// unknown and known users take the same time to reject.
	dummyHash string
}

func NewService(store Store, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	dummy, _ := HashPassword("not-a-real-password", bcryptCost)
	return &Service{
		store:      store,
		bcryptCost: bcryptCost,
		now:        time.Now,
		dummyHash:  dummy,
	}
}

// Register validates in, hashes the password and stores a new active user.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := checkStrength(in.Password); err != nil {
		return nil, err
	}

	exists, err := s.store.Exists(ctx, in.Username, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if exists {
		return nil, ErrDuplicate
	}

	hash, err := HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		ID:           uuid.New(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.store.Create(ctx, u); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Authenticate checks login (username or email) and password and records the
// login time. Every mismatch is reported as ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, login, password string) (*User, error) {
	u, err := s.store.FindByLogin(ctx, login)
	if errors.Is(err, ErrNotFound) {
		_, _ = VerifyPassword(s.dummyHash, password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	ok, err := VerifyPassword(u.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrInactive
	}

	now := s.now().UTC()
	if err := s.store.TouchLastLogin(ctx, u.ID, now); err != nil {
		return nil, fmt.Errorf("record last login: %w", err)
	}
	u.LastLogin = &now

	return u, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.store.FindByID(ctx, id)
}
