package http

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/utafrali/DogWalkGo/internal/domain"
	"github.com/utafrali/DogWalkGo/internal/service"
	"github.com/utafrali/DogWalkGo/internal/session"
	"github.com/utafrali/DogWalkGo/pkg/httputil"
	"github.com/utafrali/DogWalkGo/pkg/logger"
	"github.com/utafrali/DogWalkGo/pkg/middleware"
	"github.com/utafrali/DogWalkGo/pkg/validator"
)

// Redirect targets after login and logout.
const (
	pathIndex           = "/"
	pathOwnerDashboard  = "/owner-dashboard"
	pathWalkerDashboard = "/walker-dashboard"
)

// AuthHandler handles login, logout, registration and the current user.
type AuthHandler struct {
	service  *service.AuthService
	sessions *session.Manager
	logger   *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(svc *service.AuthService, sessions *session.Manager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: svc, sessions: sessions, logger: logger}
}

// RegisterRequest is the JSON request body for user registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required,oneof=owner walker"`
}

// CurrentUserResponse is the body of GET /api/users/me.
type CurrentUserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Login handles POST /login with form fields username and password. Both
// outcomes are redirects: to the role's dashboard, or back to the index page
// with the error text.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, validator.MaxBodyBytes)
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "invalid login form")
		return
	}

	user, err := h.service.Login(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			logger.FromContext(r.Context()).InfoContext(r.Context(), "login rejected")
			redirectWithError(w, r, service.ErrInvalidCredentials.Message)
			return
		}
		writeAppError(w, r, err, msgLogin)
		return
	}

	if _, err := h.sessions.Start(w, r, user); err != nil {
		writeAppError(w, r, err, msgLogin)
		return
	}

	http.Redirect(w, r, dashboardFor(user.Role), http.StatusSeeOther)
}

// Logout handles GET /logout. It always ends on the index page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Destroy(w, r)
	http.Redirect(w, r, pathIndex, http.StatusSeeOther)
}

// Register handles POST /api/users/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	user, err := h.service.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		writeAppError(w, r, err, msgRegister)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, user)
}

// Me handles GET /api/users/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFromContext(r.Context())

	user, err := h.service.GetUser(r.Context(), id.UserID)
	if err != nil {
		writeAppError(w, r, err, msgCurrentUser)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, CurrentUserResponse{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
}

func dashboardFor(role string) string {
	switch role {
	case domain.RoleOwner:
		return pathOwnerDashboard
	case domain.RoleWalker:
		return pathWalkerDashboard
	}
	return pathIndex
}

func redirectWithError(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, pathIndex+"?error="+url.QueryEscape(msg), http.StatusSeeOther)
}
