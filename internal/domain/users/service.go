package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/domain/ids"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the cost factor for organizer password hashing.
const BcryptCost = 12

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

type RegisterInput struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`
}

var validate = validator.New()

// Service manages organizer accounts. Participants never log in; their
// accounts exist only through the registration workflow.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	if err := validate.Struct(input); err != nil {
		return nil, ValidationError{Message: "name, email, password and phoneNumber are required"}
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	existing, err := s.repo.FindOrganizerByEmail(ctx, email)
	if err != nil && err != ErrNotFound {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	id, err := ids.NewULID()
	if err != nil {
		return nil, fmt.Errorf("generate user id: %w", err)
	}

	return s.repo.CreateOrganizer(ctx, OrganizerCreateParams{
		ID:           id,
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: string(hash),
		PhoneNumber:  strings.TrimSpace(input.PhoneNumber),
	})
}

// Authenticate verifies an organizer's credentials. Unknown email and a
// wrong password are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.FindOrganizerByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if err == ErrNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find organizer: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}
