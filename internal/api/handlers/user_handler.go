package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/mwhitt/warbler-be/internal/services"
)

// UserHandler handles HTTP requests for login, registration and profiles.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Login handles credential verification.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.service.Login(payload.Email, payload.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			http.Error(w, "Missing email or password", http.StatusBadRequest)
		case errors.Is(err, services.ErrInvalidCredentials):
			log.Warn().Str("email", payload.Email).Msg("Failed authentication attempt")
			http.Error(w, "Invalid credentials", http.StatusForbidden)
		default:
			log.Error().Err(err).Str("email", payload.Email).Msg("Login failed")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"user": user})
}

// Register handles new user registration.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.service.Register(payload.Email, payload.Password, payload.Username, payload.Name)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			http.Error(w, "Missing required fields", http.StatusBadRequest)
		case errors.Is(err, services.ErrEmailTaken):
			http.Error(w, "Email address already exists", http.StatusForbidden)
		case errors.Is(err, services.ErrUsernameTaken):
			http.Error(w, "User name already exists", http.StatusConflict)
		default:
			log.Error().Err(err).Str("email", payload.Email).Msg("Failed to register user")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"user": user})
}

// Get handles retrieving a user's public profile by their ID.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	user, err := h.service.GetUserByID(id)
	if err != nil {
		if errors.Is(err, services.ErrUnknownUser) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Int64("user_id", id).Msg("Failed to get user by ID")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"user": user})
}
