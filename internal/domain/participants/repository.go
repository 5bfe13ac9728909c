package participants

import (
	"context"
	"errors"
	"time"

	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/domain/events"
)

var (
	ErrNotFound = errors.New("Participant not found")

	// ErrAlreadyRegistered and ErrSoldOut keep the exact wording the API has
	// always returned for these cases.
	ErrAlreadyRegistered = errors.New("Participant already registered for this event")
	ErrSoldOut           = errors.New("No tickets available for this event")

	// ErrEventNotRegistered is returned when a removal names an event the
	// participant never registered for.
	ErrEventNotRegistered = errors.New("Event not found for participant")
)

type Participant struct {
	ID          string
	Name        string
	Email       string
	PhoneNumber string
	IsVerified  bool
	EventIDs    []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CreateParams struct {
	ID          string
	Name        string
	Email       string
	PhoneNumber string
	IsVerified  bool
}

type UpdateParams struct {
	Name        *string
	Email       *string
	PhoneNumber *string
}

// Repository covers every store operation the registration workflow touches:
// the participant users, the registration rows linking them to events, and
// the ticket counter on the event itself. WithTx runs fn against a
// repository bound to a single transaction.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error

	GetEvent(ctx context.Context, eventID string) (*events.Event, error)
	FindByEmail(ctx context.Context, email string) (*Participant, error)
	GetByID(ctx context.Context, id string) (*Participant, error)
	Create(ctx context.Context, params CreateParams) (*Participant, error)
	Update(ctx context.Context, id string, params UpdateParams) (*Participant, error)
	Delete(ctx context.Context, id string) error

	ListByEvent(ctx context.Context, eventID string) ([]Participant, error)
	IsRegistered(ctx context.Context, eventID, participantID string) (bool, error)
	AddRegistration(ctx context.Context, eventID, participantID string) error
	// RemoveRegistration reports whether a registration row actually existed.
	RemoveRegistration(ctx context.Context, eventID, participantID string) (bool, error)
	CountRegistrations(ctx context.Context, participantID string) (int, error)

	// DecrementTickets performs the conditional decrement
	// (tickets_number > 0) and reports whether a ticket was claimed.
	DecrementTickets(ctx context.Context, eventID string) (bool, error)
	IncrementTickets(ctx context.Context, eventID string) error
}
