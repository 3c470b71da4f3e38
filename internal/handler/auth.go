package handler

import (
	"log/slog"
	"net/http"

	"github.com/jobportal/jobportal-go/internal/middleware"
	"github.com/jobportal/jobportal-go/internal/model"
	"github.com/jobportal/jobportal-go/internal/service"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	service *service.AuthService
	logger  *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: svc, logger: logger}
}

// HandleRegister handles POST /api/auth/register requests.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.service.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.AuthResponse{
		Success: true,
		Message: "User registered successfully",
		User:    model.NewUserResponse(res.User),
		Token:   res.Token,
	})
}

// HandleLogin handles POST /api/auth/login requests. A body without a
// password but with a name and an email is a federated login.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var body model.LoginBody
	if !decodeJSON(w, r, &body) {
		return
	}

	login := body.LoginRequest()
	res, err := h.service.Login(r.Context(), login)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	msg := "Login successful"
	if _, ok := login.(model.FederatedLogin); ok {
		msg = "Google login successful"
	}

	writeJSON(w, http.StatusOK, model.AuthResponse{
		Success: true,
		Message: msg,
		User:    model.NewUserResponse(res.User),
		Token:   res.Token,
		Created: res.Created,
	})
}

// HandleProfile handles GET /api/auth/profile requests.
func (h *AuthHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	writeJSON(w, http.StatusOK, model.NewUserResponse(user))
}
