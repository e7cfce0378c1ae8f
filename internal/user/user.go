// Package user manages registered accounts and their credentials.
package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrDuplicate          = errors.New("username or email is already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInactive           = errors.New("account is disabled")
)

type User struct {
	ID           uuid.UUID  `gorm:"type:varchar(36);primaryKey" json:"id"`
	FirstName    string     `gorm:"size:50;not null" json:"first_name"`
	LastName     string     `gorm:"size:50;not null" json:"last_name"`
	Email        string     `gorm:"size:120;not null;uniqueIndex" json:"email"`
	Username     string     `gorm:"size:50;not null;uniqueIndex" json:"username"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	IsActive     bool       `gorm:"not null" json:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
