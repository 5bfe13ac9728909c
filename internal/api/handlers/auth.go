package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/api/problem"
	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/auth"
	"github.com/CHERKAOUIfatimazahra/EventSportify/internal/domain/users"
)

type AuthHandler struct {
	Users *users.Service
	JWT   *auth.JWTManager
	Env   string
}

func NewAuthHandler(service *users.Service, manager *auth.JWTManager, env string) *AuthHandler {
	return &AuthHandler{Users: service, JWT: manager, Env: env}
}

// Register creates an organizer account. Participants are created through
// the registration workflow, never here.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input users.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}

	user, err := h.Users.Register(r.Context(), input)
	if err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			problem.Write(w, r, http.StatusBadRequest, problem.TypeConflict, "Email taken", err, h.Env,
				problem.WithDetail(err.Error()))
			return
		}
		var vErr users.ValidationError
		if errors.As(err, &vErr) {
			problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env,
				problem.WithDetail(vErr.Error()))
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"user":    userJSON(user),
		"message": "Utilisateur cree avec succes",
	})
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input loginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}

	user, err := h.Users.Authenticate(r.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Unauthorized", err, h.Env,
				problem.WithDetail("Email ou mot de passe incorrect"))
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	token, err := h.JWT.Generate(user.ID, user.Role)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token":      token,
		"expires_at": time.Now().Add(h.JWT.Expiry()).UTC().Format(time.RFC3339),
		"user":       userJSON(user),
	})
}
