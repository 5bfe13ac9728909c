package events

import (
	"fmt"
	"strings"
	"time"

	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/sanitize"
	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/validation"
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

// EventInput is the create payload. The required rule rejects zero values,
// matching the original backend's truthiness check on every field.
type EventInput struct {
	Title         string  `json:"title" validate:"required"`
	Description   string  `json:"description" validate:"required"`
	StartDate     string  `json:"startDate" validate:"required"`
	EndDate       string  `json:"endDate" validate:"required"`
	Location      string  `json:"location" validate:"required"`
	Price         float64 `json:"price" validate:"required"`
	TicketsNumber int     `json:"ticketsNumber" validate:"required"`
	Image         string  `json:"image"`
}

type EventUpdateInput struct {
	Title         *string  `json:"title"`
	Description   *string  `json:"description"`
	StartDate     *string  `json:"startDate"`
	EndDate       *string  `json:"endDate"`
	Location      *string  `json:"location"`
	Price         *float64 `json:"price"`
	TicketsNumber *int     `json:"ticketsNumber"`
	Status        *string  `json:"status"`
	Image         *string  `json:"image"`
}

var validate = validator.New()

func validateEventInput(input EventInput) (EventCreateParams, error) {
	if err := validate.Struct(input); err != nil {
		return EventCreateParams{}, ValidationError{Message: "Tous les champs sont requis."}
	}

	startDate, err := parseDate("startDate", input.StartDate)
	if err != nil {
		return EventCreateParams{}, err
	}
	endDate, err := parseDate("endDate", input.EndDate)
	if err != nil {
		return EventCreateParams{}, err
	}
	if !endDate.After(startDate) {
		return EventCreateParams{}, ValidationError{Field: "endDate", Message: "End date must be after the start date!"}
	}
	if input.Price < 0 {
		return EventCreateParams{}, ValidationError{Field: "price", Message: "must not be negative"}
	}
	if input.TicketsNumber < 0 {
		return EventCreateParams{}, ValidationError{Field: "ticketsNumber", Message: "must not be negative"}
	}
	if err := validation.ValidateImageURL(input.Image, "image"); err != nil {
		return EventCreateParams{}, ValidationError{Field: "image", Message: "must be a valid http(s) URL"}
	}

	// Titles and locations are plain text; descriptions keep safe formatting.
	title := sanitize.Text(input.Title)
	location := sanitize.Text(input.Location)
	description := sanitize.Description(input.Description)
	if title == "" || location == "" || description == "" {
		return EventCreateParams{}, ValidationError{Message: "Tous les champs sont requis."}
	}

	return EventCreateParams{
		Title:         title,
		Description:   description,
		StartDate:     startDate,
		EndDate:       endDate,
		Location:      location,
		Price:         input.Price,
		Image:         input.Image,
		TicketsNumber: input.TicketsNumber,
		Status:        StatusActive,
	}, nil
}

func parseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	if parsed, err := time.Parse("2006-01-02", value); err == nil {
		return parsed, nil
	}
	return time.Time{}, ValidationError{Field: field, Message: "must be an ISO8601 date"}
}

func isAllowedStatus(value string) bool {
	switch value {
	case StatusActive, StatusCancelled:
		return true
	default:
		return false
	}
}
