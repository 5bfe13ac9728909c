package users

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email is already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User is the identity attached to authenticated requests. PasswordHash is
// never serialized; handlers build their own response payloads.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	PhoneNumber  string
	Role         string
	IsVerified   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type OrganizerCreateParams struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	PhoneNumber  string
}

type Repository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	FindOrganizerByEmail(ctx context.Context, email string) (*User, error)
	CreateOrganizer(ctx context.Context, params OrganizerCreateParams) (*User, error)
}
