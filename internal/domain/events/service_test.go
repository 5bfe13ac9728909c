package events

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubEventsRepo struct {
	events         map[string]*Event
	updateParams   *EventUpdateParams
	deleted        []string
	orphansDeleted int
	txCalls        int
}

func newStubEventsRepo() *stubEventsRepo {
	return &stubEventsRepo{events: make(map[string]*Event)}
}

func (s *stubEventsRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	s.txCalls++
	return fn(ctx, s)
}

func (s *stubEventsRepo) List(_ context.Context, _ Filters) ([]Event, error) {
	var all []Event
	for _, e := range s.events {
		all = append(all, *e)
	}
	return all, nil
}

func (s *stubEventsRepo) ListByOrganizer(_ context.Context, organizerID string) ([]Event, error) {
	var owned []Event
	for _, e := range s.events {
		if e.OrganizerID == organizerID {
			owned = append(owned, *e)
		}
	}
	return owned, nil
}

func (s *stubEventsRepo) GetByID(_ context.Context, id string) (*Event, error) {
	event, ok := s.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *event
	return &copied, nil
}

func (s *stubEventsRepo) Create(_ context.Context, params EventCreateParams) (*Event, error) {
	event := &Event{
		ID:            params.ID,
		Title:         params.Title,
		Description:   params.Description,
		StartDate:     params.StartDate,
		EndDate:       params.EndDate,
		Location:      params.Location,
		Price:         params.Price,
		Image:         params.Image,
		OrganizerID:   params.OrganizerID,
		TicketsNumber: params.TicketsNumber,
		Status:        params.Status,
	}
	s.events[event.ID] = event
	copied := *event
	return &copied, nil
}

func (s *stubEventsRepo) Update(_ context.Context, id string, params EventUpdateParams) (*Event, error) {
	event, ok := s.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	s.updateParams = &params
	if params.Title != nil {
		event.Title = *params.Title
	}
	if params.StartDate != nil {
		event.StartDate = *params.StartDate
	}
	if params.EndDate != nil {
		event.EndDate = *params.EndDate
	}
	if params.Status != nil {
		event.Status = *params.Status
	}
	if params.TicketsNumber != nil {
		event.TicketsNumber = *params.TicketsNumber
	}
	copied := *event
	return &copied, nil
}

func (s *stubEventsRepo) Delete(_ context.Context, id string) error {
	if _, ok := s.events[id]; !ok {
		return ErrNotFound
	}
	delete(s.events, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubEventsRepo) DeleteOrphanParticipants(_ context.Context) (int64, error) {
	s.orphansDeleted++
	return 0, nil
}

func validInput() EventInput {
	return EventInput{
		Title:         "Marathon de Casablanca",
		Description:   "Course annuelle",
		StartDate:     "2026-10-01T09:00:00Z",
		EndDate:       "2026-10-01T15:00:00Z",
		Location:      "Casablanca",
		Price:         150,
		TicketsNumber: 500,
	}
}

func TestCreate_Success(t *testing.T) {
	repo := newStubEventsRepo()
	service := NewService(repo)

	event, err := service.Create(context.Background(), "organizer-1", validInput())
	require.NoError(t, err)

	require.NotEmpty(t, event.ID)
	require.Equal(t, "organizer-1", event.OrganizerID)
	require.Equal(t, StatusActive, event.Status)
	require.Equal(t, 500, event.TicketsNumber)
}

func TestCreate_MissingFieldFailsWithRequiredMessage(t *testing.T) {
	repo := newStubEventsRepo()
	service := NewService(repo)

	missingPrice := validInput()
	missingPrice.Price = 0

	_, err := service.Create(context.Background(), "organizer-1", missingPrice)
	require.EqualError(t, err, "Tous les champs sont requis.")
	require.Empty(t, repo.events)
}

func TestCreate_EveryFieldRequired(t *testing.T) {
	mutations := map[string]func(*EventInput){
		"title":         func(i *EventInput) { i.Title = "" },
		"description":   func(i *EventInput) { i.Description = "" },
		"startDate":     func(i *EventInput) { i.StartDate = "" },
		"endDate":       func(i *EventInput) { i.EndDate = "" },
		"location":      func(i *EventInput) { i.Location = "" },
		"price":         func(i *EventInput) { i.Price = 0 },
		"ticketsNumber": func(i *EventInput) { i.TicketsNumber = 0 },
	}

	for field, mutate := range mutations {
		t.Run(field, func(t *testing.T) {
			repo := newStubEventsRepo()
			service := NewService(repo)

			input := validInput()
			mutate(&input)

			_, err := service.Create(context.Background(), "organizer-1", input)
			require.EqualError(t, err, "Tous les champs sont requis.")
		})
	}
}

func TestCreate_StripsHTMLFromTitle(t *testing.T) {
	repo := newStubEventsRepo()
	service := NewService(repo)

	input := validInput()
	input.Title = `Marathon <script>alert('xss')</script>de Casablanca`

	event, err := service.Create(context.Background(), "organizer-1", input)
	require.NoError(t, err)
	require.NotContains(t, event.Title, "<script>")
}

func TestCreate_HTMLOnlyTitleRejected(t *testing.T) {
	repo := newStubEventsRepo()
	service := NewService(repo)

	input := validInput()
	input.Title = `<img src=x onerror="alert(1)">`

	_, err := service.Create(context.Background(), "organizer-1", input)
	require.EqualError(t, err, "Tous les champs sont requis.")
}

func TestCreate_RejectsInvalidImageURL(t *testing.T) {
	repo := newStubEventsRepo()
	service := NewService(repo)

	input := validInput()
	input.Image = "not-a-url"

	_, err := service.Create(context.Background(), "organizer-1", input)
	var vErr ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "image", vErr.Field)
}

func TestCreate_AcceptsHTTPSImageURL(t *testing.T) {
	repo := newStubEventsRepo()
	service := NewService(repo)

	input := validInput()
	input.Image = "https://cdn.example.com/banner.png"

	event, err := service.Create(context.Background(), "organizer-1", input)
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/banner.png", event.Image)
}

func TestCreate_EndDateMustFollowStartDate(t *testing.T) {
	repo := newStubEventsRepo()
	service := NewService(repo)

	input := validInput()
	input.EndDate = input.StartDate

	_, err := service.Create(context.Background(), "organizer-1", input)
	var vErr ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "endDate", vErr.Field)
}

func TestCreate_AcceptsDateOnly(t *testing.T) {
	repo := newStubEventsRepo()
	service := NewService(repo)

	input := validInput()
	input.StartDate = "2026-10-01"
	input.EndDate = "2026-10-02"

	event, err := service.Create(context.Background(), "organizer-1", input)
	require.NoError(t, err)
	require.True(t, event.EndDate.After(event.StartDate))
}

func TestUpdate_WhitelistedMerge(t *testing.T) {
	repo := newStubEventsRepo()
	service := NewService(repo)

	created, err := service.Create(context.Background(), "organizer-1", validInput())
	require.NoError(t, err)

	title := "Marathon International"
	status := "cancelled"
	updated, err := service.Update(context.Background(), created.ID, EventUpdateInput{
		Title:  &title,
		Status: &status,
	})
	require.NoError(t, err)
	require.Equal(t, "Marathon International", updated.Title)
	require.Equal(t, StatusCancelled, updated.Status)
	// Organizer is not reachable through updates at any layer.
	require.Equal(t, "organizer-1", updated.OrganizerID)
}

func TestUpdate_RejectsDateInversion(t *testing.T) {
	repo := newStubEventsRepo()
	service := NewService(repo)

	created, err := service.Create(context.Background(), "organizer-1", validInput())
	require.NoError(t, err)

	// Moving startDate past the stored endDate must fail even though
	// endDate itself is untouched.
	start := "2026-12-01T09:00:00Z"
	_, err = service.Update(context.Background(), created.ID, EventUpdateInput{StartDate: &start})
	var vErr ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestUpdate_RejectsUnknownStatus(t *testing.T) {
	repo := newStubEventsRepo()
	service := NewService(repo)

	created, err := service.Create(context.Background(), "organizer-1", validInput())
	require.NoError(t, err)

	status := "postponed"
	_, err = service.Update(context.Background(), created.ID, EventUpdateInput{Status: &status})
	var vErr ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestUpdate_RejectsEmptyTitle(t *testing.T) {
	repo := newStubEventsRepo()
	service := NewService(repo)
	created, err := service.Create(context.Background(), "organizer-1", validInput())
	require.NoError(t, err)

	empty := "  "
	_, err = service.Update(context.Background(), created.ID, EventUpdateInput{Title: &empty})
	var vErr ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "title", vErr.Field)
}

func TestUpdate_RejectsInvalidImageURL(t *testing.T) {
	repo := newStubEventsRepo()
	service := NewService(repo)
	created, err := service.Create(context.Background(), "organizer-1", validInput())
	require.NoError(t, err)

	bad := "ftp://example.com/img.png"
	_, err = service.Update(context.Background(), created.ID, EventUpdateInput{Image: &bad})
	var vErr ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "image", vErr.Field)
}

func TestUpdate_NotFound(t *testing.T) {
	repo := newStubEventsRepo()
	service := NewService(repo)

	title := "Anything"
	_, err := service.Update(context.Background(), "missing", EventUpdateInput{Title: &title})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_RunsInTxAndCleansOrphans(t *testing.T) {
	repo := newStubEventsRepo()
	service := NewService(repo)

	created, err := service.Create(context.Background(), "organizer-1", validInput())
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), created.ID))
	require.Equal(t, 1, repo.txCalls)
	require.Equal(t, []string{created.ID}, repo.deleted)
	require.Equal(t, 1, repo.orphansDeleted)
}

func TestDelete_NotFound(t *testing.T) {
	repo := newStubEventsRepo()
	service := NewService(repo)

	err := service.Delete(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestParseFilters(t *testing.T) {
	filters, err := ParseFilters(url.Values{})
	require.NoError(t, err)
	require.Equal(t, 50, filters.Limit)

	filters, err = ParseFilters(url.Values{"status": {"ACTIVE"}, "limit": {"10"}})
	require.NoError(t, err)
	require.Equal(t, StatusActive, filters.Status)
	require.Equal(t, 10, filters.Limit)

	_, err = ParseFilters(url.Values{"status": {"archived"}})
	var fErr FilterError
	require.ErrorAs(t, err, &fErr)

	_, err = ParseFilters(url.Values{"limit": {"0"}})
	require.ErrorAs(t, err, &fErr)

	_, err = ParseFilters(url.Values{"limit": {"abc"}})
	require.ErrorAs(t, err, &fErr)

	_, err = ParseFilters(url.Values{"organizerId": {"not-a-ulid"}})
	require.ErrorAs(t, err, &fErr)
}

func TestParseFilters_OrganizerULID(t *testing.T) {
	filters, err := ParseFilters(url.Values{"organizerId": {"01HQZX3Y4K6F7G8H9J0K1M2N3P"}})
	require.NoError(t, err)
	require.Equal(t, "01HQZX3Y4K6F7G8H9J0K1M2N3P", filters.OrganizerID)
}

func TestParseDate(t *testing.T) {
	parsed, err := parseDate("startDate", "2026-10-01T09:00:00Z")
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC), parsed)

	_, err = parseDate("startDate", "01/10/2026")
	var vErr ValidationError
	require.ErrorAs(t, err, &vErr)
}
