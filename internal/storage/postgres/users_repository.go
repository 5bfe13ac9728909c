package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/auth"
	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/domain/users"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var _ users.Repository = (*UserRepository)(nil)

const userColumns = `id, name, email, password_hash, phone_number, role, is_verified,
       created_at, updated_at`

func scanUser(row pgx.Row) (*users.User, error) {
	var data struct {
		ID           string
		Name         string
		Email        string
		PasswordHash *string
		PhoneNumber  *string
		Role         string
		IsVerified   bool
		CreatedAt    time.Time
		UpdatedAt    time.Time
	}
	if err := row.Scan(
		&data.ID,
		&data.Name,
		&data.Email,
		&data.PasswordHash,
		&data.PhoneNumber,
		&data.Role,
		&data.IsVerified,
		&data.CreatedAt,
		&data.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &users.User{
		ID:           data.ID,
		Name:         data.Name,
		Email:        data.Email,
		PasswordHash: derefString(data.PasswordHash),
		PhoneNumber:  derefString(data.PhoneNumber),
		Role:         data.Role,
		IsVerified:   data.IsVerified,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}, nil
}

func (r *UserRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*users.User, error) {
	user, err := scanUser(r.queryer().QueryRow(ctx, `
SELECT `+userColumns+`
  FROM users
 WHERE id = $1
`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, users.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) FindOrganizerByEmail(ctx context.Context, email string) (*users.User, error) {
	user, err := scanUser(r.queryer().QueryRow(ctx, `
SELECT `+userColumns+`
  FROM users
 WHERE email = $1 AND role = $2
`, email, string(auth.RoleOrganizer)))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, users.ErrNotFound
		}
		return nil, fmt.Errorf("find organizer: %w", err)
	}
	return user, nil
}

func (r *UserRepository) CreateOrganizer(ctx context.Context, params users.OrganizerCreateParams) (*users.User, error) {
	user, err := scanUser(r.queryer().QueryRow(ctx, `
INSERT INTO users (id, name, email, password_hash, phone_number, role, is_verified)
VALUES ($1, $2, $3, $4, $5, $6, TRUE)
RETURNING `+userColumns+`
`,
		params.ID,
		params.Name,
		params.Email,
		params.PasswordHash,
		params.PhoneNumber,
		string(auth.RoleOrganizer),
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, users.ErrEmailTaken
		}
		return nil, fmt.Errorf("create organizer: %w", err)
	}
	return user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
