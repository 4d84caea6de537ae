package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/utafrali/DogWalkGo/internal/domain"
	pkgkafka "github.com/utafrali/DogWalkGo/pkg/kafka"
	"github.com/utafrali/DogWalkGo/pkg/logger"
)

// Kafka topic constants for dog walking domain events.
const (
	TopicUserRegistered           = pkgkafka.TopicPrefix + ".user.registered"
	TopicWalkRequestCreated       = pkgkafka.TopicPrefix + ".walkrequest.created"
	TopicWalkApplicationSubmitted = pkgkafka.TopicPrefix + ".walkapplication.submitted"
	TopicWalkRatingSubmitted      = pkgkafka.TopicPrefix + ".walkrating.submitted"
)

// Event type names carried in the envelope.
const (
	EventUserRegistered           = "user.registered"
	EventWalkRequestCreated       = "walkrequest.created"
	EventWalkApplicationSubmitted = "walkapplication.submitted"
	EventWalkRatingSubmitted      = "walkrating.submitted"
)

// Aggregate type constants.
const (
	AggregateTypeUser        = "user"
	AggregateTypeWalkRequest = "walk_request"
)

// SourceDogWalkService identifies events originating from this service.
const SourceDogWalkService = "dogwalk-service"

// Metadata keys naming the signed-in user who caused an event.
const (
	MetadataActorID   = "actor_id"
	MetadataActorRole = "actor_role"
)

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// WalkRequestCreatedData is the payload for a walkrequest.created event.
type WalkRequestCreatedData struct {
	RequestID       int64     `json:"request_id"`
	DogID           int64     `json:"dog_id"`
	OwnerID         int64     `json:"owner_id"`
	RequestedTime   time.Time `json:"requested_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Location        string    `json:"location"`
}

// WalkApplicationSubmittedData is the payload for a walkapplication.submitted event.
type WalkApplicationSubmittedData struct {
	ApplicationID int64 `json:"application_id"`
	RequestID     int64 `json:"request_id"`
	WalkerID      int64 `json:"walker_id"`
}

// WalkRatingSubmittedData is the payload for a walkrating.submitted event.
type WalkRatingSubmittedData struct {
	RatingID  int64 `json:"rating_id"`
	RequestID int64 `json:"request_id"`
	WalkerID  int64 `json:"walker_id"`
	OwnerID   int64 `json:"owner_id"`
	Rating    int   `json:"rating"`
}

// publisher is the part of *pkgkafka.Producer used here.
type publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes dog walking domain events to Kafka.
type Producer struct {
	kafka  publisher
	logger *slog.Logger
}

// NewProducer creates a new event producer. A nil kafka producer turns
// publishing into a no-op.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	p := &Producer{logger: logger}
	if kafka != nil {
		p.kafka = kafka
	}
	return p
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, u *domain.User) error {
	return p.publish(ctx, TopicUserRegistered, EventUserRegistered, u.ID, AggregateTypeUser, UserRegisteredData{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
	})
}

// PublishWalkRequestCreated publishes a walkrequest.created event.
func (p *Producer) PublishWalkRequestCreated(ctx context.Context, wr *domain.WalkRequest) error {
	return p.publish(ctx, TopicWalkRequestCreated, EventWalkRequestCreated, wr.ID, AggregateTypeWalkRequest, WalkRequestCreatedData{
		RequestID:       wr.ID,
		DogID:           wr.DogID,
		OwnerID:         wr.OwnerID,
		RequestedTime:   wr.RequestedTime,
		DurationMinutes: wr.DurationMinutes,
		Location:        wr.Location,
	})
}

// PublishWalkApplicationSubmitted publishes a walkapplication.submitted
// event, keyed by the walk request so it orders with the request's events.
func (p *Producer) PublishWalkApplicationSubmitted(ctx context.Context, a *domain.WalkApplication) error {
	return p.publish(ctx, TopicWalkApplicationSubmitted, EventWalkApplicationSubmitted, a.RequestID, AggregateTypeWalkRequest, WalkApplicationSubmittedData{
		ApplicationID: a.ID,
		RequestID:     a.RequestID,
		WalkerID:      a.WalkerID,
	})
}

// PublishWalkRatingSubmitted publishes a walkrating.submitted event.
func (p *Producer) PublishWalkRatingSubmitted(ctx context.Context, r *domain.WalkRating) error {
	return p.publish(ctx, TopicWalkRatingSubmitted, EventWalkRatingSubmitted, r.RequestID, AggregateTypeWalkRequest, WalkRatingSubmittedData{
		RatingID:  r.ID,
		RequestID: r.RequestID,
		WalkerID:  r.WalkerID,
		OwnerID:   r.OwnerID,
		Rating:    r.Rating,
	})
}

func (p *Producer) publish(ctx context.Context, topic, eventType string, aggregateID int64, aggregateType string, data any) error {
	if p.kafka == nil {
		return nil
	}

	id := strconv.FormatInt(aggregateID, 10)
	ev, err := pkgkafka.NewEvent(eventType, id, aggregateType, SourceDogWalkService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", eventType, err)
	}
	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		ev.WithCorrelationID(cid)
	}
	if uid, role, ok := logger.UserFromContext(ctx); ok {
		ev.WithMetadata(MetadataActorID, strconv.FormatInt(uid, 10)).
			WithMetadata(MetadataActorRole, role)
	}

	if err := p.kafka.Publish(ctx, topic, ev); err != nil {
		return fmt.Errorf("publish %s event: %w", eventType, err)
	}

	p.logger.DebugContext(ctx, "published "+eventType+" event",
		slog.String("aggregate_id", id),
	)
	return nil
}
