package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/domain/events"
	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/domain/participants"
	"github.com/stretchr/testify/require"
)

type stubParticipantsRepo struct {
	events        map[string]*events.Event
	participants  map[string]*participants.Participant
	registrations map[string]map[string]bool
}

func newStubParticipantsRepo() *stubParticipantsRepo {
	return &stubParticipantsRepo{
		events:        make(map[string]*events.Event),
		participants:  make(map[string]*participants.Participant),
		registrations: make(map[string]map[string]bool),
	}
}

func (s *stubParticipantsRepo) addEvent(id string, tickets int, status string) {
	s.events[id] = &events.Event{
		ID:            id,
		Title:         "Course",
		StartDate:     time.Now().Add(24 * time.Hour),
		EndDate:       time.Now().Add(30 * time.Hour),
		TicketsNumber: tickets,
		Status:        status,
	}
}

func (s *stubParticipantsRepo) WithTx(ctx context.Context, fn func(context.Context, participants.Repository) error) error {
	return fn(ctx, s)
}

func (s *stubParticipantsRepo) GetEvent(_ context.Context, eventID string) (*events.Event, error) {
	event, ok := s.events[eventID]
	if !ok {
		return nil, events.ErrNotFound
	}
	copied := *event
	return &copied, nil
}

func (s *stubParticipantsRepo) FindByEmail(_ context.Context, email string) (*participants.Participant, error) {
	for _, participant := range s.participants {
		if participant.Email == email {
			copied := *participant
			return &copied, nil
		}
	}
	return nil, participants.ErrNotFound
}

func (s *stubParticipantsRepo) GetByID(_ context.Context, id string) (*participants.Participant, error) {
	participant, ok := s.participants[id]
	if !ok {
		return nil, participants.ErrNotFound
	}
	copied := *participant
	return &copied, nil
}

func (s *stubParticipantsRepo) Create(_ context.Context, params participants.CreateParams) (*participants.Participant, error) {
	participant := &participants.Participant{
		ID:          params.ID,
		Name:        params.Name,
		Email:       params.Email,
		PhoneNumber: params.PhoneNumber,
		IsVerified:  params.IsVerified,
	}
	s.participants[participant.ID] = participant
	copied := *participant
	return &copied, nil
}

func (s *stubParticipantsRepo) Update(_ context.Context, id string, params participants.UpdateParams) (*participants.Participant, error) {
	participant, ok := s.participants[id]
	if !ok {
		return nil, participants.ErrNotFound
	}
	if params.Name != nil {
		participant.Name = *params.Name
	}
	if params.Email != nil {
		participant.Email = *params.Email
	}
	if params.PhoneNumber != nil {
		participant.PhoneNumber = *params.PhoneNumber
	}
	copied := *participant
	return &copied, nil
}

func (s *stubParticipantsRepo) Delete(_ context.Context, id string) error {
	if _, ok := s.participants[id]; !ok {
		return participants.ErrNotFound
	}
	delete(s.participants, id)
	return nil
}

func (s *stubParticipantsRepo) ListByEvent(_ context.Context, eventID string) ([]participants.Participant, error) {
	var items []participants.Participant
	for participantID := range s.registrations[eventID] {
		if participant, ok := s.participants[participantID]; ok {
			items = append(items, *participant)
		}
	}
	return items, nil
}

func (s *stubParticipantsRepo) IsRegistered(_ context.Context, eventID, participantID string) (bool, error) {
	return s.registrations[eventID][participantID], nil
}

func (s *stubParticipantsRepo) AddRegistration(_ context.Context, eventID, participantID string) error {
	if s.registrations[eventID] == nil {
		s.registrations[eventID] = make(map[string]bool)
	}
	s.registrations[eventID][participantID] = true
	return nil
}

func (s *stubParticipantsRepo) RemoveRegistration(_ context.Context, eventID, participantID string) (bool, error) {
	if !s.registrations[eventID][participantID] {
		return false, nil
	}
	delete(s.registrations[eventID], participantID)
	return true, nil
}

func (s *stubParticipantsRepo) CountRegistrations(_ context.Context, participantID string) (int, error) {
	count := 0
	for _, registered := range s.registrations {
		if registered[participantID] {
			count++
		}
	}
	return count, nil
}

func (s *stubParticipantsRepo) DecrementTickets(_ context.Context, eventID string) (bool, error) {
	event, ok := s.events[eventID]
	if !ok || event.TicketsNumber <= 0 {
		return false, nil
	}
	event.TicketsNumber--
	return true, nil
}

func (s *stubParticipantsRepo) IncrementTickets(_ context.Context, eventID string) error {
	if event, ok := s.events[eventID]; ok {
		event.TicketsNumber++
	}
	return nil
}

func registerRequest(eventID, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/participants/create/"+eventID, strings.NewReader(body))
	req.SetPathValue("id", eventID)
	return req
}

func TestParticipantsCreate_Success(t *testing.T) {
	repo := newStubParticipantsRepo()
	repo.addEvent("evt-1", 10, events.StatusActive)
	handler := NewParticipantsHandler(participants.NewService(repo), "test")

	rec := httptest.NewRecorder()
	handler.Create(rec, registerRequest("evt-1", `{"name":"Amina","email":"amina@example.com"}`))

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, "Participant created/added to event successfully", body["message"])
	require.Equal(t, 9, repo.events["evt-1"].TicketsNumber)
}

func TestParticipantsCreate_EventNotFound(t *testing.T) {
	handler := NewParticipantsHandler(participants.NewService(newStubParticipantsRepo()), "test")

	rec := httptest.NewRecorder()
	handler.Create(rec, registerRequest("missing", `{"name":"Amina","email":"amina@example.com"}`))

	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, "Evenement non trouve", body["detail"])
}

func TestParticipantsCreate_SoldOut(t *testing.T) {
	repo := newStubParticipantsRepo()
	repo.addEvent("evt-1", 0, events.StatusActive)
	handler := NewParticipantsHandler(participants.NewService(repo), "test")

	rec := httptest.NewRecorder()
	handler.Create(rec, registerRequest("evt-1", `{"name":"Amina","email":"amina@example.com"}`))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, "No tickets available for this event", body["detail"])
}

func TestParticipantsCreate_AlreadyRegistered(t *testing.T) {
	repo := newStubParticipantsRepo()
	repo.addEvent("evt-1", 10, events.StatusActive)
	handler := NewParticipantsHandler(participants.NewService(repo), "test")

	rec := httptest.NewRecorder()
	handler.Create(rec, registerRequest("evt-1", `{"name":"Amina","email":"amina@example.com"}`))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	handler.Create(rec, registerRequest("evt-1", `{"name":"Amina","email":"amina@example.com"}`))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, "Participant already registered for this event", body["detail"])
}

func TestParticipantsCreate_MissingEmail(t *testing.T) {
	repo := newStubParticipantsRepo()
	repo.addEvent("evt-1", 10, events.StatusActive)
	handler := NewParticipantsHandler(participants.NewService(repo), "test")

	rec := httptest.NewRecorder()
	handler.Create(rec, registerRequest("evt-1", `{"name":"Amina"}`))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParticipantsListByEvent(t *testing.T) {
	repo := newStubParticipantsRepo()
	repo.addEvent("evt-1", 10, events.StatusActive)
	handler := NewParticipantsHandler(participants.NewService(repo), "test")

	rec := httptest.NewRecorder()
	handler.Create(rec, registerRequest("evt-1", `{"name":"Amina","email":"amina@example.com"}`))
	require.Equal(t, http.StatusCreated, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/participants/event/evt-1", nil)
	req.SetPathValue("id", "evt-1")
	rec = httptest.NewRecorder()
	handler.ListByEvent(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, "Participants obtained successfully", body["message"])
	require.Len(t, body["participants"], 1)
}

func TestParticipantsDelete_MissingEventID(t *testing.T) {
	repo := newStubParticipantsRepo()
	repo.addEvent("evt-1", 10, events.StatusActive)
	handler := NewParticipantsHandler(participants.NewService(repo), "test")

	rec := httptest.NewRecorder()
	handler.Create(rec, registerRequest("evt-1", `{"name":"Amina","email":"amina@example.com"}`))
	require.Equal(t, http.StatusCreated, rec.Code)

	var participantID string
	for id := range repo.participants {
		participantID = id
	}

	req := httptest.NewRequest(http.MethodDelete, "/participants/delete/"+participantID, strings.NewReader(`{}`))
	req.SetPathValue("id", participantID)
	rec = httptest.NewRecorder()
	handler.Delete(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParticipantsDelete_Success(t *testing.T) {
	repo := newStubParticipantsRepo()
	repo.addEvent("evt-1", 10, events.StatusActive)
	handler := NewParticipantsHandler(participants.NewService(repo), "test")

	rec := httptest.NewRecorder()
	handler.Create(rec, registerRequest("evt-1", `{"name":"Amina","email":"amina@example.com"}`))
	require.Equal(t, http.StatusCreated, rec.Code)

	var participantID string
	for id := range repo.participants {
		participantID = id
	}

	req := httptest.NewRequest(http.MethodDelete, "/participants/delete/"+participantID, strings.NewReader(`{"eventId":"evt-1"}`))
	req.SetPathValue("id", participantID)
	rec = httptest.NewRecorder()
	handler.Delete(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, "Participant removed from event successfully", body["message"])
	require.Equal(t, 10, repo.events["evt-1"].TicketsNumber)
	require.Empty(t, repo.participants)
}

func TestParticipantsDelete_NotFound(t *testing.T) {
	handler := NewParticipantsHandler(participants.NewService(newStubParticipantsRepo()), "test")

	req := httptest.NewRequest(http.MethodDelete, "/participants/delete/missing", strings.NewReader(`{"eventId":"evt-1"}`))
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	handler.Delete(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, "Participant not found", body["detail"])
}

func TestParticipantsUpdate_Success(t *testing.T) {
	repo := newStubParticipantsRepo()
	repo.addEvent("evt-1", 10, events.StatusActive)
	handler := NewParticipantsHandler(participants.NewService(repo), "test")

	rec := httptest.NewRecorder()
	handler.Create(rec, registerRequest("evt-1", `{"name":"Amina","email":"amina@example.com"}`))
	require.Equal(t, http.StatusCreated, rec.Code)

	var participantID string
	for id := range repo.participants {
		participantID = id
	}

	req := httptest.NewRequest(http.MethodPut, "/participants/update/"+participantID, strings.NewReader(`{"name":"Amina B."}`))
	req.SetPathValue("id", participantID)
	rec = httptest.NewRecorder()
	handler.Update(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	participant := body["participant"].(map[string]any)
	require.Equal(t, "Amina B.", participant["name"])
}

func TestParticipantsGet_NotFound(t *testing.T) {
	handler := NewParticipantsHandler(participants.NewService(newStubParticipantsRepo()), "test")

	req := httptest.NewRequest(http.MethodGet, "/participants/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	handler.Get(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
