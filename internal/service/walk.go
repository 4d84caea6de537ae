package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/utafrali/DogWalkGo/internal/domain"
	"github.com/utafrali/DogWalkGo/internal/repository"
	apperrors "github.com/utafrali/DogWalkGo/pkg/errors"
)

// WalkService implements the walk request marketplace: posting requests,
// applying to them, rating walkers and the walker summary.
type WalkService struct {
	requests     repository.WalkRequestRepository
	applications repository.WalkApplicationRepository
	ratings      repository.WalkRatingRepository
	summaries    repository.WalkerSummaryRepository
	dogs         repository.DogRepository
	users        repository.UserRepository
	producer     EventPublisher
	logger       *slog.Logger
}

// WalkRepositories groups the repositories WalkService reads and writes.
type WalkRepositories struct {
	Requests     repository.WalkRequestRepository
	Applications repository.WalkApplicationRepository
	Ratings      repository.WalkRatingRepository
	Summaries    repository.WalkerSummaryRepository
	Dogs         repository.DogRepository
	Users        repository.UserRepository
}

// NewWalkService creates a new walk service.
func NewWalkService(repos WalkRepositories, producer EventPublisher, logger *slog.Logger) *WalkService {
	return &WalkService{
		requests:     repos.Requests,
		applications: repos.Applications,
		ratings:      repos.Ratings,
		summaries:    repos.Summaries,
		dogs:         repos.Dogs,
		users:        repos.Users,
		producer:     producer,
		logger:       logger,
	}
}

// ListOpen returns the open walk requests, earliest first.
func (s *WalkService) ListOpen(ctx context.Context) ([]domain.OpenWalkRequest, error) {
	reqs, err := s.requests.ListOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("list open walk requests: %w", err)
	}
	return reqs, nil
}

// WalkerSummaries returns the per-walker completed walk and rating summary.
func (s *WalkService) WalkerSummaries(ctx context.Context) ([]domain.WalkerSummary, error) {
	rows, err := s.summaries.ListWalkerSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list walker summaries: %w", err)
	}
	return rows, nil
}

// CreateWalkRequestInput holds the parameters for posting a walk request.
type CreateWalkRequestInput struct {
	OwnerID         int64
	DogID           int64
	RequestedTime   time.Time
	DurationMinutes int
	Location        string
}

// CreateWalkRequest posts an open walk request for one of the owner's dogs.
func (s *WalkService) CreateWalkRequest(ctx context.Context, input CreateWalkRequestInput) (*domain.WalkRequest, error) {
	location := strings.TrimSpace(input.Location)
	if location == "" {
		return nil, apperrors.InvalidInput("location is required")
	}
	if input.DurationMinutes <= 0 {
		return nil, apperrors.InvalidInput("duration_minutes must be greater than 0")
	}
	if input.RequestedTime.IsZero() {
		return nil, apperrors.InvalidInput("requested_time is required")
	}

	dog, err := s.dogs.GetByID(ctx, input.DogID)
	if err != nil {
		return nil, fmt.Errorf("get dog: %w", err)
	}
	if dog.OwnerID != input.OwnerID {
		return nil, apperrors.Forbidden("dog does not belong to you")
	}

	req := &domain.WalkRequest{
		DogID:           dog.ID,
		OwnerID:         dog.OwnerID,
		RequestedTime:   input.RequestedTime.UTC(),
		DurationMinutes: input.DurationMinutes,
		Location:        location,
		Status:          domain.WalkStatusOpen,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("create walk request: %w", err)
	}

	if err := s.producer.PublishWalkRequestCreated(ctx, req); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish walkrequest.created event",
			slog.Int64("request_id", req.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "walk request created",
		slog.Int64("request_id", req.ID),
		slog.Int64("dog_id", req.DogID),
	)
	return req, nil
}

// Apply submits a walker's application for an open walk request.
func (s *WalkService) Apply(ctx context.Context, requestID, walkerID int64) (*domain.WalkApplication, error) {
	walker, err := s.users.GetByID(ctx, walkerID)
	if err != nil {
		return nil, fmt.Errorf("get walker: %w", err)
	}
	if !walker.IsWalker() {
		return nil, apperrors.Forbidden("only walkers can apply to walk requests")
	}

	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("get walk request: %w", err)
	}
	if !req.IsOpen() {
		return nil, apperrors.Conflict(fmt.Sprintf("walk request %d is %s, not open", req.ID, req.Status))
	}

	app := &domain.WalkApplication{
		RequestID: req.ID,
		WalkerID:  walker.ID,
		Status:    domain.ApplicationStatusPending,
	}
	if err := s.applications.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("create walk application: %w", err)
	}

	if err := s.producer.PublishWalkApplicationSubmitted(ctx, app); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish walkapplication.submitted event",
			slog.Int64("application_id", app.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "walk application submitted",
		slog.Int64("application_id", app.ID),
		slog.Int64("request_id", app.RequestID),
	)
	return app, nil
}

// RateWalkInput holds the parameters for rating the walker of a walk.
type RateWalkInput struct {
	RequestID int64
	OwnerID   int64
	WalkerID  int64
	Rating    int
	Comments  string
}

// RateWalk records the owner's rating of the walker of a completed walk.
// The walker must hold an accepted application for the request.
func (s *WalkService) RateWalk(ctx context.Context, input RateWalkInput) (*domain.WalkRating, error) {
	if !domain.IsValidRating(input.Rating) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("rating must be between %d and %d", domain.MinRating, domain.MaxRating))
	}

	req, err := s.requests.GetByID(ctx, input.RequestID)
	if err != nil {
		return nil, fmt.Errorf("get walk request: %w", err)
	}
	if req.OwnerID != input.OwnerID {
		return nil, apperrors.Forbidden("walk request does not belong to you")
	}
	if !req.IsCompleted() {
		return nil, apperrors.Conflict(fmt.Sprintf("walk request %d is %s, not completed", req.ID, req.Status))
	}

	walked, err := s.applications.HasAccepted(ctx, req.ID, input.WalkerID)
	if err != nil {
		return nil, fmt.Errorf("check accepted application: %w", err)
	}
	if !walked {
		return nil, apperrors.InvalidInput(fmt.Sprintf("walker %d did not walk request %d", input.WalkerID, req.ID))
	}

	rating := &domain.WalkRating{
		RequestID: req.ID,
		WalkerID:  input.WalkerID,
		OwnerID:   input.OwnerID,
		Rating:    input.Rating,
		Comments:  strings.TrimSpace(input.Comments),
	}
	if err := s.ratings.Create(ctx, rating); err != nil {
		return nil, fmt.Errorf("create walk rating: %w", err)
	}

	if err := s.producer.PublishWalkRatingSubmitted(ctx, rating); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish walkrating.submitted event",
			slog.Int64("rating_id", rating.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "walk rated",
		slog.Int64("request_id", rating.RequestID),
		slog.Int64("walker_id", rating.WalkerID),
		slog.Int("rating", rating.Rating),
	)
	return rating, nil
}
