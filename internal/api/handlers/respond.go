package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/domain/events"
	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/domain/participants"
	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/domain/users"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func eventJSON(event *events.Event) map[string]any {
	participantIDs := event.ParticipantIDs
	if participantIDs == nil {
		participantIDs = []string{}
	}
	payload := map[string]any{
		"id":            event.ID,
		"title":         event.Title,
		"description":   event.Description,
		"startDate":     event.StartDate.UTC().Format(time.RFC3339),
		"endDate":       event.EndDate.UTC().Format(time.RFC3339),
		"location":      event.Location,
		"price":         event.Price,
		"organizer":     event.OrganizerID,
		"participants":  participantIDs,
		"ticketsNumber": event.TicketsNumber,
		"status":        event.Status,
		"createdAt":     event.CreatedAt.UTC().Format(time.RFC3339),
		"updatedAt":     event.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if event.Image != "" {
		payload["image"] = event.Image
	}
	return payload
}

func eventListJSON(items []events.Event) []map[string]any {
	payload := make([]map[string]any, 0, len(items))
	for i := range items {
		payload = append(payload, eventJSON(&items[i]))
	}
	return payload
}

func participantJSON(participant *participants.Participant) map[string]any {
	eventIDs := participant.EventIDs
	if eventIDs == nil {
		eventIDs = []string{}
	}
	return map[string]any{
		"id":          participant.ID,
		"name":        participant.Name,
		"email":       participant.Email,
		"phoneNumber": participant.PhoneNumber,
		"role":        "participant",
		"isVerified":  participant.IsVerified,
		"events":      eventIDs,
		"createdAt":   participant.CreatedAt.UTC().Format(time.RFC3339),
		"updatedAt":   participant.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func userJSON(user *users.User) map[string]any {
	return map[string]any{
		"id":          user.ID,
		"name":        user.Name,
		"email":       user.Email,
		"phoneNumber": user.PhoneNumber,
		"role":        user.Role,
		"isVerified":  user.IsVerified,
	}
}
