package http

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/utafrali/DogWalkGo/internal/domain"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type mockDogRepo struct {
	mock.Mock
}

func (m *mockDogRepo) Create(ctx context.Context, dog *domain.Dog) error {
	args := m.Called(ctx, dog)
	return args.Error(0)
}

func (m *mockDogRepo) GetByID(ctx context.Context, id int64) (*domain.Dog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dog), args.Error(1)
}

func (m *mockDogRepo) ListAll(ctx context.Context) ([]domain.DogListing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DogListing), args.Error(1)
}

func (m *mockDogRepo) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Dog, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Dog), args.Error(1)
}

type mockWalkRequestRepo struct {
	mock.Mock
}

func (m *mockWalkRequestRepo) Create(ctx context.Context, req *domain.WalkRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *mockWalkRequestRepo) GetByID(ctx context.Context, id int64) (*domain.WalkRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WalkRequest), args.Error(1)
}

func (m *mockWalkRequestRepo) ListOpen(ctx context.Context) ([]domain.OpenWalkRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OpenWalkRequest), args.Error(1)
}

type mockWalkApplicationRepo struct {
	mock.Mock
}

func (m *mockWalkApplicationRepo) Create(ctx context.Context, app *domain.WalkApplication) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

func (m *mockWalkApplicationRepo) HasAccepted(ctx context.Context, requestID, walkerID int64) (bool, error) {
	args := m.Called(ctx, requestID, walkerID)
	return args.Bool(0), args.Error(1)
}

type mockWalkRatingRepo struct {
	mock.Mock
}

func (m *mockWalkRatingRepo) Create(ctx context.Context, rating *domain.WalkRating) error {
	args := m.Called(ctx, rating)
	return args.Error(0)
}

type mockWalkerSummaryRepo struct {
	mock.Mock
}

func (m *mockWalkerSummaryRepo) ListWalkerSummaries(ctx context.Context) ([]domain.WalkerSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WalkerSummary), args.Error(1)
}
