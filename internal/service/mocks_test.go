package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"github.com/utafrali/DogWalkGo/internal/domain"
)

// --- Mock User Repository ---

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- Mock Dog Repository ---

type mockDogRepository struct {
	mock.Mock
}

func (m *mockDogRepository) Create(ctx context.Context, dog *domain.Dog) error {
	args := m.Called(ctx, dog)
	return args.Error(0)
}

func (m *mockDogRepository) GetByID(ctx context.Context, id int64) (*domain.Dog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dog), args.Error(1)
}

func (m *mockDogRepository) ListAll(ctx context.Context) ([]domain.DogListing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DogListing), args.Error(1)
}

func (m *mockDogRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Dog, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Dog), args.Error(1)
}

// --- Mock Walk Repositories ---

type mockWalkRequestRepository struct {
	mock.Mock
}

func (m *mockWalkRequestRepository) Create(ctx context.Context, req *domain.WalkRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *mockWalkRequestRepository) GetByID(ctx context.Context, id int64) (*domain.WalkRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WalkRequest), args.Error(1)
}

func (m *mockWalkRequestRepository) ListOpen(ctx context.Context) ([]domain.OpenWalkRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OpenWalkRequest), args.Error(1)
}

type mockWalkApplicationRepository struct {
	mock.Mock
}

func (m *mockWalkApplicationRepository) Create(ctx context.Context, app *domain.WalkApplication) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

func (m *mockWalkApplicationRepository) HasAccepted(ctx context.Context, requestID, walkerID int64) (bool, error) {
	args := m.Called(ctx, requestID, walkerID)
	return args.Bool(0), args.Error(1)
}

type mockWalkRatingRepository struct {
	mock.Mock
}

func (m *mockWalkRatingRepository) Create(ctx context.Context, rating *domain.WalkRating) error {
	args := m.Called(ctx, rating)
	return args.Error(0)
}

type mockWalkerSummaryRepository struct {
	mock.Mock
}

func (m *mockWalkerSummaryRepository) ListWalkerSummaries(ctx context.Context) ([]domain.WalkerSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WalkerSummary), args.Error(1)
}

// --- Mock Event Publisher ---

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishUserRegistered(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockPublisher) PublishWalkRequestCreated(ctx context.Context, wr *domain.WalkRequest) error {
	return m.Called(ctx, wr).Error(0)
}

func (m *mockPublisher) PublishWalkApplicationSubmitted(ctx context.Context, a *domain.WalkApplication) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockPublisher) PublishWalkRatingSubmitted(ctx context.Context, r *domain.WalkRating) error {
	return m.Called(ctx, r).Error(0)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
