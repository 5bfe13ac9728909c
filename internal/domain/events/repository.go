package events

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("event not found")

const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"
)

type Event struct {
	ID             string
	Title          string
	Description    string
	StartDate      time.Time
	EndDate        time.Time
	Location       string
	Price          float64
	Image          string
	OrganizerID    string
	ParticipantIDs []string
	TicketsNumber  int
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type EventCreateParams struct {
	ID            string
	Title         string
	Description   string
	StartDate     time.Time
	EndDate       time.Time
	Location      string
	Price         float64
	Image         string
	OrganizerID   string
	TicketsNumber int
	Status        string
}

// EventUpdateParams carries the whitelisted mutable fields. Nil pointers keep
// the stored value; the organizer is deliberately absent.
type EventUpdateParams struct {
	Title         *string
	Description   *string
	StartDate     *time.Time
	EndDate       *time.Time
	Location      *string
	Price         *float64
	Image         *string
	TicketsNumber *int
	Status        *string
}

type Filters struct {
	Status      string
	OrganizerID string
	Limit       int
}

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	List(ctx context.Context, filters Filters) ([]Event, error)
	ListByOrganizer(ctx context.Context, organizerID string) ([]Event, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	Create(ctx context.Context, params EventCreateParams) (*Event, error)
	Update(ctx context.Context, id string, params EventUpdateParams) (*Event, error)
	Delete(ctx context.Context, id string) error
	// DeleteOrphanParticipants removes participant users left without any
	// registration, returning how many were deleted.
	DeleteOrphanParticipants(ctx context.Context) (int64, error)
}
