package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/DogWalkGo/internal/service"
	"github.com/utafrali/DogWalkGo/pkg/httputil"
	"github.com/utafrali/DogWalkGo/pkg/middleware"
	"github.com/utafrali/DogWalkGo/pkg/validator"
)

// WalkHandler handles HTTP requests for walk requests, applications,
// ratings and the walker summary.
type WalkHandler struct {
	service *service.WalkService
	logger  *slog.Logger
}

// NewWalkHandler creates a new walk HTTP handler.
func NewWalkHandler(svc *service.WalkService, logger *slog.Logger) *WalkHandler {
	return &WalkHandler{service: svc, logger: logger}
}

// CreateWalkRequestRequest is the JSON request body for posting a walk request.
type CreateWalkRequestRequest struct {
	DogID           int64     `json:"dog_id" validate:"required,gt=0"`
	RequestedTime   time.Time `json:"requested_time" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"required,gt=0,lte=1440"`
	Location        string    `json:"location" validate:"required,max=255"`
}

// RateWalkRequest is the JSON request body for rating a walker.
type RateWalkRequest struct {
	WalkerID int64  `json:"walker_id" validate:"required,gt=0"`
	Rating   int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comments string `json:"comments" validate:"max=1000"`
}

// ListOpen handles GET /api/walkrequests/open
func (h *WalkHandler) ListOpen(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.service.ListOpen(r.Context())
	if err != nil {
		writeAppError(w, r, err, msgListOpenRequests)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, reqs)
}

// Summary handles GET /api/walkers/summary
func (h *WalkHandler) Summary(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.WalkerSummaries(r.Context())
	if err != nil {
		writeAppError(w, r, err, msgWalkerSummary)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rows)
}

// Create handles POST /api/walkrequests
func (h *WalkHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateWalkRequestRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	id, _ := middleware.IdentityFromContext(r.Context())
	wr, err := h.service.CreateWalkRequest(r.Context(), service.CreateWalkRequestInput{
		OwnerID:         id.UserID,
		DogID:           req.DogID,
		RequestedTime:   req.RequestedTime,
		DurationMinutes: req.DurationMinutes,
		Location:        req.Location,
	})
	if err != nil {
		writeAppError(w, r, err, msgCreateRequest)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, wr)
}

// Apply handles POST /api/walkrequests/{id}/apply
func (h *WalkHandler) Apply(w http.ResponseWriter, r *http.Request) {
	requestID, ok := httputil.ParseID(w, "walk request id", chi.URLParam(r, "id"))
	if !ok {
		return
	}

	id, _ := middleware.IdentityFromContext(r.Context())
	app, err := h.service.Apply(r.Context(), requestID, id.UserID)
	if err != nil {
		writeAppError(w, r, err, msgApply)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, app)
}

// Rate handles POST /api/walkrequests/{id}/ratings
func (h *WalkHandler) Rate(w http.ResponseWriter, r *http.Request) {
	requestID, ok := httputil.ParseID(w, "walk request id", chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req RateWalkRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	id, _ := middleware.IdentityFromContext(r.Context())
	rating, err := h.service.RateWalk(r.Context(), service.RateWalkInput{
		RequestID: requestID,
		OwnerID:   id.UserID,
		WalkerID:  req.WalkerID,
		Rating:    req.Rating,
		Comments:  req.Comments,
	})
	if err != nil {
		writeAppError(w, r, err, msgRate)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, rating)
}
