package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/auth"
	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/domain/events"
	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/domain/participants"
	"github.com/jackc/pgx/v5"
)

var _ participants.Repository = (*ParticipantRepository)(nil)

const participantColumns = `id, name, email, phone_number, is_verified, created_at, updated_at`

func scanParticipant(row pgx.Row) (*participants.Participant, error) {
	var data struct {
		ID          string
		Name        string
		Email       string
		PhoneNumber *string
		IsVerified  bool
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}
	if err := row.Scan(
		&data.ID,
		&data.Name,
		&data.Email,
		&data.PhoneNumber,
		&data.IsVerified,
		&data.CreatedAt,
		&data.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &participants.Participant{
		ID:          data.ID,
		Name:        data.Name,
		Email:       data.Email,
		PhoneNumber: derefString(data.PhoneNumber),
		IsVerified:  data.IsVerified,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}, nil
}

func (r *ParticipantRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

func (r *ParticipantRepository) WithTx(ctx context.Context, fn func(context.Context, participants.Repository) error) error {
	return runInTx(ctx, r.pool, r.tx, func(tx pgx.Tx) error {
		return fn(ctx, &ParticipantRepository{pool: r.pool, tx: tx})
	})
}

func (r *ParticipantRepository) GetEvent(ctx context.Context, eventID string) (*events.Event, error) {
	eventRepo := &EventRepository{pool: r.pool, tx: r.tx}
	return eventRepo.GetByID(ctx, eventID)
}

func (r *ParticipantRepository) FindByEmail(ctx context.Context, email string) (*participants.Participant, error) {
	participant, err := scanParticipant(r.queryer().QueryRow(ctx, `
SELECT `+participantColumns+`
  FROM users
 WHERE email = $1 AND role = $2
`, email, string(auth.RoleParticipant)))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, participants.ErrNotFound
		}
		return nil, fmt.Errorf("find participant by email: %w", err)
	}
	return r.attachEventIDs(ctx, participant)
}

func (r *ParticipantRepository) GetByID(ctx context.Context, id string) (*participants.Participant, error) {
	participant, err := scanParticipant(r.queryer().QueryRow(ctx, `
SELECT `+participantColumns+`
  FROM users
 WHERE id = $1 AND role = $2
`, id, string(auth.RoleParticipant)))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, participants.ErrNotFound
		}
		return nil, fmt.Errorf("get participant: %w", err)
	}
	return r.attachEventIDs(ctx, participant)
}

func (r *ParticipantRepository) attachEventIDs(ctx context.Context, participant *participants.Participant) (*participants.Participant, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT event_id
  FROM event_registrations
 WHERE participant_id = $1
 ORDER BY created_at ASC
`, participant.ID)
	if err != nil {
		return nil, fmt.Errorf("list participant events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var eventID string
		if err := rows.Scan(&eventID); err != nil {
			return nil, fmt.Errorf("scan participant event: %w", err)
		}
		participant.EventIDs = append(participant.EventIDs, eventID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list participant events: %w", err)
	}
	return participant, nil
}

func (r *ParticipantRepository) Create(ctx context.Context, params participants.CreateParams) (*participants.Participant, error) {
	var phone *string
	if params.PhoneNumber != "" {
		phone = &params.PhoneNumber
	}
	participant, err := scanParticipant(r.queryer().QueryRow(ctx, `
INSERT INTO users (id, name, email, phone_number, role, is_verified)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING `+participantColumns+`
`,
		params.ID,
		params.Name,
		params.Email,
		phone,
		string(auth.RoleParticipant),
		params.IsVerified,
	))
	if err != nil {
		return nil, fmt.Errorf("create participant: %w", err)
	}
	return participant, nil
}

func (r *ParticipantRepository) Update(ctx context.Context, id string, params participants.UpdateParams) (*participants.Participant, error) {
	participant, err := scanParticipant(r.queryer().QueryRow(ctx, `
UPDATE users
   SET name         = COALESCE($2, name),
       email        = COALESCE($3, email),
       phone_number = COALESCE($4, phone_number),
       updated_at   = now()
 WHERE id = $1 AND role = $5
RETURNING `+participantColumns+`
`, id, params.Name, params.Email, params.PhoneNumber, string(auth.RoleParticipant)))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, participants.ErrNotFound
		}
		return nil, fmt.Errorf("update participant: %w", err)
	}
	return r.attachEventIDs(ctx, participant)
}

func (r *ParticipantRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.queryer().Exec(ctx, `
DELETE FROM users WHERE id = $1 AND role = $2
`, id, string(auth.RoleParticipant))
	if err != nil {
		return fmt.Errorf("delete participant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return participants.ErrNotFound
	}
	return nil
}

func (r *ParticipantRepository) ListByEvent(ctx context.Context, eventID string) ([]participants.Participant, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT u.id, u.name, u.email, u.phone_number, u.is_verified, u.created_at, u.updated_at
  FROM users u
  JOIN event_registrations er ON er.participant_id = u.id
 WHERE er.event_id = $1
 ORDER BY er.created_at ASC
`, eventID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	var items []participants.Participant
	for rows.Next() {
		participant, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		items = append(items, *participant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return items, nil
}

func (r *ParticipantRepository) IsRegistered(ctx context.Context, eventID, participantID string) (bool, error) {
	var exists bool
	err := r.queryer().QueryRow(ctx, `
SELECT EXISTS (
    SELECT 1 FROM event_registrations WHERE event_id = $1 AND participant_id = $2
)
`, eventID, participantID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check registration: %w", err)
	}
	return exists, nil
}

func (r *ParticipantRepository) AddRegistration(ctx context.Context, eventID, participantID string) error {
	_, err := r.queryer().Exec(ctx, `
INSERT INTO event_registrations (event_id, participant_id)
VALUES ($1, $2)
`, eventID, participantID)
	if err != nil {
		if isUniqueViolation(err) {
			return participants.ErrAlreadyRegistered
		}
		return fmt.Errorf("add registration: %w", err)
	}
	return nil
}

func (r *ParticipantRepository) RemoveRegistration(ctx context.Context, eventID, participantID string) (bool, error) {
	tag, err := r.queryer().Exec(ctx, `
DELETE FROM event_registrations WHERE event_id = $1 AND participant_id = $2
`, eventID, participantID)
	if err != nil {
		return false, fmt.Errorf("remove registration: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ParticipantRepository) CountRegistrations(ctx context.Context, participantID string) (int, error) {
	var count int
	err := r.queryer().QueryRow(ctx, `
SELECT count(*) FROM event_registrations WHERE participant_id = $1
`, participantID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count registrations: %w", err)
	}
	return count, nil
}

// DecrementTickets only succeeds while tickets remain, so concurrent
// registrations can never drive tickets_number below zero.
func (r *ParticipantRepository) DecrementTickets(ctx context.Context, eventID string) (bool, error) {
	tag, err := r.queryer().Exec(ctx, `
UPDATE events
   SET tickets_number = tickets_number - 1,
       updated_at     = now()
 WHERE id = $1 AND tickets_number > 0
`, eventID)
	if err != nil {
		return false, fmt.Errorf("decrement tickets: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ParticipantRepository) IncrementTickets(ctx context.Context, eventID string) error {
	_, err := r.queryer().Exec(ctx, `
UPDATE events
   SET tickets_number = tickets_number + 1,
       updated_at     = now()
 WHERE id = $1
`, eventID)
	if err != nil {
		return fmt.Errorf("increment tickets: %w", err)
	}
	return nil
}
