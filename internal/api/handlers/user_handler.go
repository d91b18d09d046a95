package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/precisionhealth/skinsight-be/internal/apperrors"
	"github.com/precisionhealth/skinsight-be/internal/auth"
	"github.com/precisionhealth/skinsight-be/internal/services"
)

// UserHandler handles HTTP requests for the credential lifecycle.
type UserHandler struct {
	service  services.UserServiceProvider
	eventSvc services.EventServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider, eventSvc services.EventServiceProvider) *UserHandler {
	return &UserHandler{service: service, eventSvc: eventSvc}
}

// Login handles POST /token. The form accepts a username or an email in the
// "username" field, matching the OAuth2 password-flow shape the frontends use.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	identifier := r.FormValue("username")
	password := r.FormValue("password")
	if identifier == "" || password == "" {
		http.Error(w, "Missing username or password", http.StatusBadRequest)
		return
	}

	account, err := h.service.Authenticate(identifier, password)
	if err != nil {
		log.Warn().Str("identifier", identifier).Msg("Failed authentication attempt")
		writeError(w, err)
		return
	}

	token, err := h.service.IssueToken(account.Username)
	if err != nil {
		log.Error().Err(err).Str("username", account.Username).Msg("Failed to issue token")
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	h.eventSvc.Record("user.login", "info", "User logged in: "+account.Username)

	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

// Signup handles POST /signup.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")
	email := r.FormValue("email")
	fullName := r.FormValue("full_name")
	if username == "" || password == "" || email == "" {
		http.Error(w, "Missing username, password or email", http.StatusBadRequest)
		return
	}

	if _, err := h.service.Register(username, password, email, fullName); err != nil {
		log.Warn().Err(err).Str("username", username).Msg("Failed to register user")
		writeError(w, err)
		return
	}

	h.eventSvc.Record("user.register", "info", "New user registered: "+username)

	writeJSON(w, http.StatusCreated, map[string]string{"message": "User created successfully"})
}

// GetMe retrieves the currently authenticated user from the token subject.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	subject, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve token subject from context")
		writeError(w, apperrors.ErrInvalidCredential)
		return
	}

	account, err := h.service.GetAccount(subject)
	if err != nil {
		log.Warn().Str("username", subject).Msg("Token subject not found in store")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, account.Sanitized())
}
