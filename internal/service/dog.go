package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/utafrali/DogWalkGo/internal/domain"
	"github.com/utafrali/DogWalkGo/internal/repository"
	apperrors "github.com/utafrali/DogWalkGo/pkg/errors"
)

// DogService implements dog listing and registration.
type DogService struct {
	dogs   repository.DogRepository
	users  repository.UserRepository
	logger *slog.Logger
}

// NewDogService creates a new dog service.
func NewDogService(dogs repository.DogRepository, users repository.UserRepository, logger *slog.Logger) *DogService {
	return &DogService{dogs: dogs, users: users, logger: logger}
}

// ListDogs returns every dog with its owner's username.
func (s *DogService) ListDogs(ctx context.Context) ([]domain.DogListing, error) {
	dogs, err := s.dogs.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list dogs: %w", err)
	}
	return dogs, nil
}

// ListOwnerDogs returns the dogs of one owner ordered by name.
func (s *DogService) ListOwnerDogs(ctx context.Context, ownerID int64) ([]domain.Dog, error) {
	dogs, err := s.dogs.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list dogs of owner %d: %w", ownerID, err)
	}
	return dogs, nil
}

// CreateDogInput holds the parameters for registering a dog.
type CreateDogInput struct {
	OwnerID int64
	Name    string
	Size    string
}

// CreateDog registers a dog for an owner. The user must have the owner role.
func (s *DogService) CreateDog(ctx context.Context, input CreateDogInput) (*domain.Dog, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.InvalidInput("dog name is required")
	}
	if !domain.IsValidDogSize(input.Size) {
		return nil, apperrors.InvalidInput("size must be one of: small, medium, large")
	}

	owner, err := s.users.GetByID(ctx, input.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("get owner: %w", err)
	}
	if !owner.IsOwner() {
		return nil, apperrors.Forbidden("only owners can register dogs")
	}

	dog := &domain.Dog{OwnerID: owner.ID, Name: name, Size: input.Size}
	if err := s.dogs.Create(ctx, dog); err != nil {
		return nil, fmt.Errorf("create dog: %w", err)
	}

	s.logger.InfoContext(ctx, "dog registered",
		slog.Int64("dog_id", dog.ID),
		slog.Int64("owner_id", dog.OwnerID),
	)
	return dog, nil
}
