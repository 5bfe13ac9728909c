package events

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/domain/ids"
	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/sanitize"
	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/validation"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters Filters) ([]Event, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) ListByOrganizer(ctx context.Context, organizerID string) ([]Event, error) {
	return s.repo.ListByOrganizer(ctx, organizerID)
}

func (s *Service) GetByID(ctx context.Context, id string) (*Event, error) {
	return s.repo.GetByID(ctx, id)
}

// Create validates the input and persists a new event owned by organizerID.
// The organizer always comes from the authenticated caller, never the payload.
func (s *Service) Create(ctx context.Context, organizerID string, input EventInput) (*Event, error) {
	params, err := validateEventInput(input)
	if err != nil {
		return nil, err
	}

	id, err := ids.NewULID()
	if err != nil {
		return nil, fmt.Errorf("generate event id: %w", err)
	}
	params.ID = id
	params.OrganizerID = organizerID

	return s.repo.Create(ctx, params)
}

// Update merges the whitelisted fields over the stored event. The date-order
// invariant is re-checked against the merged result, so a partial update
// cannot leave endDate at or before startDate.
func (s *Service) Update(ctx context.Context, id string, input EventUpdateInput) (*Event, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	params := EventUpdateParams{
		Price:         input.Price,
		TicketsNumber: input.TicketsNumber,
	}

	if input.Title != nil {
		title := sanitize.Text(*input.Title)
		if title == "" {
			return nil, ValidationError{Field: "title", Message: "must not be empty"}
		}
		params.Title = &title
	}
	if input.Location != nil {
		location := sanitize.Text(*input.Location)
		if location == "" {
			return nil, ValidationError{Field: "location", Message: "must not be empty"}
		}
		params.Location = &location
	}
	if input.Description != nil {
		description := sanitize.Description(*input.Description)
		if description == "" {
			return nil, ValidationError{Field: "description", Message: "must not be empty"}
		}
		params.Description = &description
	}
	if input.Image != nil {
		if err := validation.ValidateImageURL(*input.Image, "image"); err != nil {
			return nil, ValidationError{Field: "image", Message: "must be a valid http(s) URL"}
		}
		params.Image = input.Image
	}

	startDate := existing.StartDate
	if input.StartDate != nil {
		parsed, err := parseDate("startDate", *input.StartDate)
		if err != nil {
			return nil, err
		}
		startDate = parsed
		params.StartDate = &parsed
	}
	endDate := existing.EndDate
	if input.EndDate != nil {
		parsed, err := parseDate("endDate", *input.EndDate)
		if err != nil {
			return nil, err
		}
		endDate = parsed
		params.EndDate = &parsed
	}
	if !endDate.After(startDate) {
		return nil, ValidationError{Field: "endDate", Message: "End date must be after the start date!"}
	}

	if input.Price != nil && *input.Price < 0 {
		return nil, ValidationError{Field: "price", Message: "must not be negative"}
	}
	if input.TicketsNumber != nil && *input.TicketsNumber < 0 {
		return nil, ValidationError{Field: "ticketsNumber", Message: "must not be negative"}
	}
	if input.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*input.Status))
		if !isAllowedStatus(status) {
			return nil, ValidationError{Field: "status", Message: "must be active or cancelled"}
		}
		params.Status = &status
	}

	return s.repo.Update(ctx, id, params)
}

// Delete removes the event together with its registrations, then deletes any
// participant account whose last registration just disappeared. Without the
// second step a deleted event would strand passwordless participant users
// no removal path can ever reach again.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		if _, err := repo.DeleteOrphanParticipants(ctx); err != nil {
			return fmt.Errorf("cleanup orphan participants: %w", err)
		}
		return nil
	})
}

type FilterError struct {
	Field   string
	Message string
}

func (e FilterError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func ParseFilters(values url.Values) (Filters, error) {
	filters := Filters{Limit: 50}

	status := strings.ToLower(strings.TrimSpace(values.Get("status")))
	if status != "" && !isAllowedStatus(status) {
		return filters, FilterError{Field: "status", Message: "must be active or cancelled"}
	}
	filters.Status = status

	organizerID := strings.TrimSpace(values.Get("organizerId"))
	if organizerID != "" {
		if err := ids.ValidateULID(organizerID); err != nil {
			return filters, FilterError{Field: "organizerId", Message: "invalid ULID"}
		}
	}
	filters.OrganizerID = organizerID

	rawLimit := strings.TrimSpace(values.Get("limit"))
	if rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil {
			return filters, FilterError{Field: "limit", Message: "must be a number"}
		}
		if parsed < 1 || parsed > 200 {
			return filters, FilterError{Field: "limit", Message: "must be between 1 and 200"}
		}
		filters.Limit = parsed
	}

	return filters, nil
}
