package service

import (
	"context"

	"github.com/utafrali/DogWalkGo/internal/domain"
	"github.com/utafrali/DogWalkGo/internal/event"
)

// EventPublisher publishes domain events after a successful write.
// *event.Producer is the production implementation.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, u *domain.User) error
	PublishWalkRequestCreated(ctx context.Context, wr *domain.WalkRequest) error
	PublishWalkApplicationSubmitted(ctx context.Context, a *domain.WalkApplication) error
	PublishWalkRatingSubmitted(ctx context.Context, r *domain.WalkRating) error
}

var _ EventPublisher = (*event.Producer)(nil)
