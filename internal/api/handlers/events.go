package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/api/middleware"
	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/api/problem"
	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/domain/events"
	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/metrics"
)

type EventsHandler struct {
	Service *events.Service
	Env     string
}

func NewEventsHandler(service *events.Service, env string) *EventsHandler {
	return &EventsHandler{Service: service, Env: env}
}

func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	filters, err := events.ParseFilters(r.URL.Query())
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}

	items, err := h.Service.List(r.Context(), filters)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"events":  eventListJSON(items),
		"message": "Tous les evenements ont ete obtenus avec succes",
	})
}

func (h *EventsHandler) ListByOrganizer(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Unauthorized", nil, h.Env)
		return
	}

	items, err := h.Service.ListByOrganizer(r.Context(), user.ID)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}
	if len(items) == 0 {
		problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Not found", nil, h.Env,
			problem.WithDetail("Aucun evenement trouve"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"events":  eventListJSON(items),
		"message": "Tous les evenements de l'organisateur ont ete obtenus avec succes",
	})
}

func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	event, err := h.Service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, events.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Not found", err, h.Env,
				problem.WithDetail("Evenement non trouve"))
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"event":   eventJSON(event),
		"message": "Evenement obtenu avec succes",
	})
}

func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Unauthorized", nil, h.Env)
		return
	}

	var input events.EventInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}

	event, err := h.Service.Create(r.Context(), user.ID, input)
	if err != nil {
		var vErr events.ValidationError
		if errors.As(err, &vErr) {
			problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env,
				problem.WithDetail(vErr.Message))
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	metrics.EventsCreatedTotal.Inc()
	metrics.TicketsRemaining.WithLabelValues(event.ID).Set(float64(event.TicketsNumber))

	writeJSON(w, http.StatusCreated, map[string]any{
		"newEvent": eventJSON(event),
		"message":  "Evenement cree avec succes",
	})
}

func (h *EventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input events.EventUpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}

	event, err := h.Service.Update(r.Context(), r.PathValue("id"), input)
	if err != nil {
		if errors.Is(err, events.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Not found", err, h.Env,
				problem.WithDetail("Evenement non trouve"))
			return
		}
		var vErr events.ValidationError
		if errors.As(err, &vErr) {
			problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env,
				problem.WithDetail(vErr.Error()))
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	metrics.TicketsRemaining.WithLabelValues(event.ID).Set(float64(event.TicketsNumber))

	writeJSON(w, http.StatusOK, map[string]any{
		"updatedEvent": eventJSON(event),
		"message":      "Evenement mis a jour avec succes",
	})
}

func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.Service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, events.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Not found", err, h.Env,
				problem.WithDetail("Evenement non trouve"))
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	metrics.TicketsRemaining.DeleteLabelValues(id)

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Evenement supprime avec succes",
	})
}
