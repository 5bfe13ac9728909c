package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/domain/events"
	"github.com/jackc/pgx/v5"
)

var _ events.Repository = (*EventRepository)(nil)

const eventColumns = `id, title, description, start_date, end_date, location, price, image,
       organizer_id, tickets_number, status, created_at, updated_at`

type eventRow struct {
	ID            string
	Title         string
	Description   string
	StartDate     time.Time
	EndDate       time.Time
	Location      string
	Price         float64
	Image         *string
	OrganizerID   string
	TicketsNumber int
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func scanEvent(row pgx.Row) (*events.Event, error) {
	var data eventRow
	if err := row.Scan(
		&data.ID,
		&data.Title,
		&data.Description,
		&data.StartDate,
		&data.EndDate,
		&data.Location,
		&data.Price,
		&data.Image,
		&data.OrganizerID,
		&data.TicketsNumber,
		&data.Status,
		&data.CreatedAt,
		&data.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return eventRowToDomain(&data), nil
}

func eventRowToDomain(data *eventRow) *events.Event {
	return &events.Event{
		ID:            data.ID,
		Title:         data.Title,
		Description:   data.Description,
		StartDate:     data.StartDate,
		EndDate:       data.EndDate,
		Location:      data.Location,
		Price:         data.Price,
		Image:         derefString(data.Image),
		OrganizerID:   data.OrganizerID,
		TicketsNumber: data.TicketsNumber,
		Status:        data.Status,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}

func (r *EventRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

func (r *EventRepository) WithTx(ctx context.Context, fn func(context.Context, events.Repository) error) error {
	return runInTx(ctx, r.pool, r.tx, func(tx pgx.Tx) error {
		return fn(ctx, &EventRepository{pool: r.pool, tx: tx})
	})
}

func (r *EventRepository) List(ctx context.Context, filters events.Filters) ([]events.Event, error) {
	var (
		conditions []string
		args       []any
	)
	if filters.Status != "" {
		args = append(args, filters.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filters.OrganizerID != "" {
		args = append(args, filters.OrganizerID)
		conditions = append(conditions, fmt.Sprintf("organizer_id = $%d", len(args)))
	}

	query := `SELECT ` + eventColumns + ` FROM events`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY start_date ASC, id ASC"
	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.queryer().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var items []events.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		items = append(items, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return items, nil
}

func (r *EventRepository) ListByOrganizer(ctx context.Context, organizerID string) ([]events.Event, error) {
	return r.List(ctx, events.Filters{OrganizerID: organizerID})
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*events.Event, error) {
	queryer := r.queryer()
	event, err := scanEvent(queryer.QueryRow(ctx, `
SELECT `+eventColumns+`
  FROM events
 WHERE id = $1
`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, events.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	rows, err := queryer.Query(ctx, `
SELECT participant_id
  FROM event_registrations
 WHERE event_id = $1
 ORDER BY created_at ASC
`, id)
	if err != nil {
		return nil, fmt.Errorf("get event registrations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var participantID string
		if err := rows.Scan(&participantID); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		event.ParticipantIDs = append(event.ParticipantIDs, participantID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get event registrations: %w", err)
	}
	return event, nil
}

func (r *EventRepository) Create(ctx context.Context, params events.EventCreateParams) (*events.Event, error) {
	var image *string
	if params.Image != "" {
		image = &params.Image
	}
	event, err := scanEvent(r.queryer().QueryRow(ctx, `
INSERT INTO events (id, title, description, start_date, end_date, location, price, image,
                    organizer_id, tickets_number, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING `+eventColumns+`
`,
		params.ID,
		params.Title,
		params.Description,
		params.StartDate,
		params.EndDate,
		params.Location,
		params.Price,
		image,
		params.OrganizerID,
		params.TicketsNumber,
		params.Status,
	))
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (r *EventRepository) Update(ctx context.Context, id string, params events.EventUpdateParams) (*events.Event, error) {
	event, err := scanEvent(r.queryer().QueryRow(ctx, `
UPDATE events
   SET title          = COALESCE($2, title),
       description    = COALESCE($3, description),
       start_date     = COALESCE($4, start_date),
       end_date       = COALESCE($5, end_date),
       location       = COALESCE($6, location),
       price          = COALESCE($7, price),
       image          = COALESCE($8, image),
       tickets_number = COALESCE($9, tickets_number),
       status         = COALESCE($10, status),
       updated_at     = now()
 WHERE id = $1
RETURNING `+eventColumns+`
`,
		id,
		params.Title,
		params.Description,
		params.StartDate,
		params.EndDate,
		params.Location,
		params.Price,
		params.Image,
		params.TicketsNumber,
		params.Status,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, events.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.queryer().Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return events.ErrNotFound
	}
	return nil
}

func (r *EventRepository) DeleteOrphanParticipants(ctx context.Context) (int64, error) {
	tag, err := r.queryer().Exec(ctx, `
DELETE FROM users
 WHERE role = 'participant'
   AND NOT EXISTS (
       SELECT 1 FROM event_registrations WHERE participant_id = users.id
   )
`)
	if err != nil {
		return 0, fmt.Errorf("delete orphan participants: %w", err)
	}
	return tag.RowsAffected(), nil
}
