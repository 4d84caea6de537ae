package event

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/DogWalkGo/internal/domain"
	pkgkafka "github.com/utafrali/DogWalkGo/pkg/kafka"
	"github.com/utafrali/DogWalkGo/pkg/logger"
)

type published struct {
	topic string
	event *pkgkafka.Event
}

type fakePublisher struct {
	sent []published
	err  error
}

func (f *fakePublisher) Publish(_ context.Context, topic string, ev *pkgkafka.Event) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, published{topic: topic, event: ev})
	return nil
}

func newTestProducer() (*Producer, *fakePublisher) {
	fp := &fakePublisher{}
	return &Producer{kafka: fp, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}, fp
}

func TestProducer_PublishUserRegistered(t *testing.T) {
	p, fp := newTestProducer()
	ctx := logger.WithCorrelationID(context.Background(), "corr-42")

	err := p.PublishUserRegistered(ctx, &domain.User{ID: 3, Username: "carol123", Role: domain.RoleOwner})

	require.NoError(t, err)
	require.Len(t, fp.sent, 1)
	assert.Equal(t, "dogwalk.user.registered", fp.sent[0].topic)

	ev := fp.sent[0].event
	assert.Equal(t, EventUserRegistered, ev.EventType)
	assert.Equal(t, "3", ev.AggregateID)
	assert.Equal(t, AggregateTypeUser, ev.AggregateType)
	assert.Equal(t, SourceDogWalkService, ev.Source)
	assert.Equal(t, "corr-42", ev.CorrelationID)
	assert.Nil(t, ev.Metadata, "registration happens before sign-in")

	var data UserRegisteredData
	require.NoError(t, ev.UnmarshalData(&data))
	assert.Equal(t, UserRegisteredData{UserID: 3, Username: "carol123", Role: "owner"}, data)
}

func TestProducer_PublishWalkEvents(t *testing.T) {
	p, fp := newTestProducer()
	ctx := context.Background()
	at := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)

	require.NoError(t, p.PublishWalkRequestCreated(ctx, &domain.WalkRequest{
		ID: 7, DogID: 1, OwnerID: 1, RequestedTime: at, DurationMinutes: 30, Location: "Parklands",
	}))
	require.NoError(t, p.PublishWalkApplicationSubmitted(ctx, &domain.WalkApplication{ID: 2, RequestID: 7, WalkerID: 2}))
	require.NoError(t, p.PublishWalkRatingSubmitted(ctx, &domain.WalkRating{ID: 1, RequestID: 7, WalkerID: 2, OwnerID: 1, Rating: 5}))

	require.Len(t, fp.sent, 3)
	assert.Equal(t, TopicWalkRequestCreated, fp.sent[0].topic)
	assert.Equal(t, TopicWalkApplicationSubmitted, fp.sent[1].topic)
	assert.Equal(t, TopicWalkRatingSubmitted, fp.sent[2].topic)

	// Every walk event is keyed by its request.
	for _, s := range fp.sent {
		assert.Equal(t, "7", s.event.AggregateID)
		assert.Equal(t, AggregateTypeWalkRequest, s.event.AggregateType)
		assert.Empty(t, s.event.CorrelationID)
	}

	var created WalkRequestCreatedData
	require.NoError(t, fp.sent[0].event.UnmarshalData(&created))
	assert.True(t, at.Equal(created.RequestedTime))
	assert.Equal(t, "Parklands", created.Location)

	var rating WalkRatingSubmittedData
	require.NoError(t, fp.sent[2].event.UnmarshalData(&rating))
	assert.Equal(t, 5, rating.Rating)
}

func TestProducer_RecordsActingUser(t *testing.T) {
	p, fp := newTestProducer()
	ctx := logger.WithUser(context.Background(), 2, domain.RoleWalker)

	require.NoError(t, p.PublishWalkApplicationSubmitted(ctx, &domain.WalkApplication{ID: 4, RequestID: 7, WalkerID: 2}))

	require.Len(t, fp.sent, 1)
	assert.Equal(t, map[string]string{
		MetadataActorID:   "2",
		MetadataActorRole: "walker",
	}, fp.sent[0].event.Metadata)
}

func TestProducer_PublishError(t *testing.T) {
	p, fp := newTestProducer()
	fp.err = errors.New("leader not available")

	err := p.PublishWalkApplicationSubmitted(context.Background(), &domain.WalkApplication{RequestID: 1, WalkerID: 2})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish walkapplication.submitted event")
}

func TestProducer_DisabledIsNoop(t *testing.T) {
	p := NewProducer(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.NoError(t, p.PublishUserRegistered(context.Background(), &domain.User{ID: 1}))
	assert.NoError(t, p.PublishWalkRatingSubmitted(context.Background(), &domain.WalkRating{ID: 1}))
}

func TestTopicsUsePrefix(t *testing.T) {
	assert.Equal(t, pkgkafka.Topic("walkrequest", "created"), TopicWalkRequestCreated)
	assert.Equal(t, pkgkafka.Topic("user", "registered"), TopicUserRegistered)
}
