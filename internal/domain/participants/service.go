package participants

import (
	"context"
	"fmt"
	"strings"

	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/domain/events"
	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/domain/ids"
	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/sanitize"
	"github.com/go-playground/validator/v10"
)

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
	Name        string `json:"name"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber"`
}

type UpdateInput struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phoneNumber"`
}

var validate = validator.New()

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register enrolls a participant, identified by email, into an event. The
// participant user is created lazily on first registration and reused for
// later ones. Every store write happens inside one transaction, and the
// ticket counter is claimed with a conditional decrement, so two callers
// racing for the last ticket cannot both win: the loser's transaction rolls
// back without a trace.
func (s *Service) Register(ctx context.Context, eventID string, input RegisterInput) error {
	if err := validate.Struct(input); err != nil {
		return ValidationError{Field: "email", Message: "a valid email is required"}
	}
	if strings.TrimSpace(input.Name) == "" && strings.TrimSpace(input.PhoneNumber) == "" {
		return ValidationError{Message: "name or phoneNumber is required"}
	}

	return s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		event, err := repo.GetEvent(ctx, eventID)
		if err != nil {
			return err
		}
		if event.Status == events.StatusCancelled {
			return ValidationError{Field: "event", Message: "event is cancelled"}
		}
		if event.TicketsNumber == 0 {
			return ErrSoldOut
		}

		participant, err := repo.FindByEmail(ctx, strings.TrimSpace(input.Email))
		if err != nil && err != ErrNotFound {
			return err
		}

		if participant != nil {
			registered, err := repo.IsRegistered(ctx, eventID, participant.ID)
			if err != nil {
				return err
			}
			if registered {
				return ErrAlreadyRegistered
			}
			if err := repo.AddRegistration(ctx, eventID, participant.ID); err != nil {
				return err
			}
		} else {
			id, err := ids.NewULID()
			if err != nil {
				return fmt.Errorf("generate participant id: %w", err)
			}
			participant, err = repo.Create(ctx, CreateParams{
				ID:          id,
				Name:        sanitize.Text(input.Name),
				Email:       strings.TrimSpace(input.Email),
				PhoneNumber: strings.TrimSpace(input.PhoneNumber),
				IsVerified:  true,
			})
			if err != nil {
				return err
			}
			if err := repo.AddRegistration(ctx, eventID, participant.ID); err != nil {
				return err
			}
		}

		claimed, err := repo.DecrementTickets(ctx, eventID)
		if err != nil {
			return err
		}
		if !claimed {
			return ErrSoldOut
		}
		return nil
	})
}

// ListByEvent returns every participant registered to the event. The roster
// is returned whole; there is no pagination on this path.
func (s *Service) ListByEvent(ctx context.Context, eventID string) ([]Participant, error) {
	if _, err := s.repo.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return s.repo.ListByEvent(ctx, eventID)
}

// Remove takes a participant off an event's roster, returns the ticket to
// the pool, and deletes the participant account entirely when this was their
// last event. The increment is unconditional: capacity above the original
// ticketsNumber is possible through this path, as it always has been.
func (s *Service) Remove(ctx context.Context, participantID, eventID string) error {
	if strings.TrimSpace(eventID) == "" {
		return ValidationError{Field: "eventId", Message: "eventId is required"}
	}

	return s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		participant, err := repo.GetByID(ctx, participantID)
		if err != nil {
			return err
		}

		removed, err := repo.RemoveRegistration(ctx, eventID, participant.ID)
		if err != nil {
			return err
		}
		if !removed {
			return ErrEventNotRegistered
		}

		if err := repo.IncrementTickets(ctx, eventID); err != nil {
			return err
		}

		remaining, err := repo.CountRegistrations(ctx, participant.ID)
		if err != nil {
			return err
		}
		if remaining == 0 {
			if err := repo.Delete(ctx, participant.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

// Update merges the contact fields over the stored participant. Role and
// registrations are not client-assignable.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*Participant, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if err := validate.Var(email, "required,email"); err != nil {
			return nil, ValidationError{Field: "email", Message: "must be a valid email"}
		}
		input.Email = &email
	}
	if input.Name != nil {
		name := sanitize.Text(*input.Name)
		if name == "" {
			return nil, ValidationError{Field: "name", Message: "must not be empty"}
		}
		input.Name = &name
	}
	return s.repo.Update(ctx, id, UpdateParams{
		Name:        input.Name,
		Email:       input.Email,
		PhoneNumber: input.PhoneNumber,
	})
}

func (s *Service) GetByID(ctx context.Context, id string) (*Participant, error) {
	return s.repo.GetByID(ctx, id)
}
