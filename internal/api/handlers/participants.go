package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/api/problem"
	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/domain/events"
	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/domain/participants"
	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/metrics"
)

type ParticipantsHandler struct {
	Service *participants.Service
	Env     string
}

func NewParticipantsHandler(service *participants.Service, env string) *ParticipantsHandler {
	return &ParticipantsHandler{Service: service, Env: env}
}

// Create registers a participant for the event in the path, creating the
// participant account on first contact.
func (h *ParticipantsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input participants.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}

	if err := h.Service.Register(r.Context(), r.PathValue("id"), input); err != nil {
		h.writeRegisterError(w, r, err)
		return
	}

	metrics.RegistrationsTotal.Inc()

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Participant created/added to event successfully",
	})
}

func (h *ParticipantsHandler) writeRegisterError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, events.ErrNotFound):
		metrics.RegistrationFailures.WithLabelValues(metrics.ReasonEventNotFound).Inc()
		problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Not found", err, h.Env,
			problem.WithDetail("Evenement non trouve"))
	case errors.Is(err, participants.ErrSoldOut):
		metrics.RegistrationFailures.WithLabelValues(metrics.ReasonSoldOut).Inc()
		problem.Write(w, r, http.StatusBadRequest, problem.TypeCapacity, "Sold out", err, h.Env,
			problem.WithDetail(err.Error()))
	case errors.Is(err, participants.ErrAlreadyRegistered):
		metrics.RegistrationFailures.WithLabelValues(metrics.ReasonAlreadyRegistered).Inc()
		problem.Write(w, r, http.StatusBadRequest, problem.TypeConflict, "Already registered", err, h.Env,
			problem.WithDetail(err.Error()))
	default:
		var vErr participants.ValidationError
		if errors.As(err, &vErr) {
			metrics.RegistrationFailures.WithLabelValues(metrics.ReasonValidation).Inc()
			problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env,
				problem.WithDetail(vErr.Error()))
			return
		}
		metrics.RegistrationFailures.WithLabelValues(metrics.ReasonInternal).Inc()
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
	}
}

func (h *ParticipantsHandler) ListByEvent(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListByEvent(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, events.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Not found", err, h.Env,
				problem.WithDetail("Evenement non trouve"))
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	payload := make([]map[string]any, 0, len(items))
	for i := range items {
		payload = append(payload, participantJSON(&items[i]))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"participants": payload,
		"message":      "Participants obtained successfully",
	})
}

type removeParticipantInput struct {
	EventID string `json:"eventId"`
}

// Delete unregisters a participant from one event, restores the ticket, and
// removes the account when no registrations remain.
func (h *ParticipantsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var input removeParticipantInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}

	if err := h.Service.Remove(r.Context(), r.PathValue("id"), input.EventID); err != nil {
		switch {
		case errors.Is(err, participants.ErrNotFound):
			problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Not found", err, h.Env,
				problem.WithDetail(err.Error()))
		case errors.Is(err, participants.ErrEventNotRegistered):
			problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env,
				problem.WithDetail(err.Error()))
		default:
			var vErr participants.ValidationError
			if errors.As(err, &vErr) {
				problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env,
					problem.WithDetail(vErr.Error()))
				return
			}
			problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Participant removed from event successfully",
	})
}

func (h *ParticipantsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input participants.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}

	participant, err := h.Service.Update(r.Context(), r.PathValue("id"), input)
	if err != nil {
		if errors.Is(err, participants.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Not found", err, h.Env,
				problem.WithDetail(err.Error()))
			return
		}
		var vErr participants.ValidationError
		if errors.As(err, &vErr) {
			problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env,
				problem.WithDetail(vErr.Error()))
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"participant": participantJSON(participant),
		"message":     "Participant updated successfully",
	})
}

func (h *ParticipantsHandler) Get(w http.ResponseWriter, r *http.Request) {
	participant, err := h.Service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, participants.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Not found", err, h.Env,
				problem.WithDetail(err.Error()))
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"participant": participantJSON(participant),
		"message":     "Participant obtained successfully",
	})
}
