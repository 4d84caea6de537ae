package http

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/DogWalkGo/internal/service"
	"github.com/utafrali/DogWalkGo/pkg/httputil"
	"github.com/utafrali/DogWalkGo/pkg/middleware"
	"github.com/utafrali/DogWalkGo/pkg/validator"
)

// DogHandler handles HTTP requests for dog endpoints.
type DogHandler struct {
	service *service.DogService
	logger  *slog.Logger
}

// NewDogHandler creates a new dog HTTP handler.
func NewDogHandler(svc *service.DogService, logger *slog.Logger) *DogHandler {
	return &DogHandler{service: svc, logger: logger}
}

// CreateDogRequest is the JSON request body for registering a dog.
type CreateDogRequest struct {
	Name string `json:"name" validate:"required,max=50"`
	Size string `json:"size" validate:"required,oneof=small medium large"`
}

// MyDogResponse is one element of GET /api/my-dogs.
type MyDogResponse struct {
	DogID int64  `json:"dog_id"`
	Name  string `json:"name"`
	Size  string `json:"size"`
}

// List handles GET /api/dogs
func (h *DogHandler) List(w http.ResponseWriter, r *http.Request) {
	dogs, err := h.service.ListDogs(r.Context())
	if err != nil {
		writeAppError(w, r, err, msgListDogs)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dogs)
}

// ListMine handles GET /api/my-dogs
func (h *DogHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFromContext(r.Context())

	dogs, err := h.service.ListOwnerDogs(r.Context(), id.UserID)
	if err != nil {
		writeAppError(w, r, err, msgListMyDogs)
		return
	}

	resp := make([]MyDogResponse, 0, len(dogs))
	for _, d := range dogs {
		resp = append(resp, MyDogResponse{DogID: d.ID, Name: d.Name, Size: d.Size})
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// Create handles POST /api/dogs
func (h *DogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateDogRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	id, _ := middleware.IdentityFromContext(r.Context())
	dog, err := h.service.CreateDog(r.Context(), service.CreateDogInput{
		OwnerID: id.UserID,
		Name:    req.Name,
		Size:    req.Size,
	})
	if err != nil {
		writeAppError(w, r, err, msgCreateDog)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, dog)
}
