package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/api/problem"
	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/auth"
	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/domain/users"
)

const currentUserKey contextKey = "current_user"

// UserLoader resolves the subject of a validated token to a stored account.
type UserLoader interface {
	GetByID(ctx context.Context, id string) (*users.User, error)
}

// BearerAuth validates the Authorization header and attaches the
// authenticated user to the request context. Requests with a missing,
// malformed, expired, or orphaned token get 401.
func BearerAuth(manager *auth.JWTManager, loader UserLoader, env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.TokenFromHeader(r.Header.Get("Authorization"))
			if err != nil {
				problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Unauthorized", err, env)
				return
			}

			claims, err := manager.Validate(token)
			if err != nil {
				problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Unauthorized", err, env)
				return
			}

			user, err := loader.GetByID(r.Context(), claims.Subject)
			if err != nil {
				if errors.Is(err, users.ErrNotFound) {
					problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Unauthorized", err, env)
					return
				}
				problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, env)
				return
			}

			ctx := context.WithValue(r.Context(), currentUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireOrganizer rejects authenticated callers whose role is not organizer.
func RequireOrganizer(env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Unauthorized", auth.ErrMissingToken, env)
				return
			}
			if !auth.IsOrganizer(user.Role) {
				problem.Write(w, r, http.StatusForbidden, problem.TypeForbidden, "Forbidden", errors.New("organizer role required"), env,
					problem.WithDetail("organizer role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserFromContext returns the user attached by BearerAuth.
func UserFromContext(ctx context.Context) (*users.User, bool) {
	user, ok := ctx.Value(currentUserKey).(*users.User)
	return user, ok
}

// WithUser is a test hook for handler tests that bypass BearerAuth.
func WithUser(ctx context.Context, user *users.User) context.Context {
	return context.WithValue(ctx, currentUserKey, user)
}
