package repository

import (
	"context"
	"time"

	"github.com/utafrali/DogWalkGo/internal/domain"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user and fills in its ID and creation time.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByUsername retrieves a user by their username.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// DogRepository defines the interface for dog persistence operations.
type DogRepository interface {
	Create(ctx context.Context, dog *domain.Dog) error
	GetByID(ctx context.Context, id int64) (*domain.Dog, error)

	// ListAll returns every dog with its owner, ordered by dog ID.
	ListAll(ctx context.Context) ([]domain.DogListing, error)

	// ListByOwner returns one owner's dogs ordered by name.
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Dog, error)
}

// WalkRequestRepository defines the interface for walk request persistence.
type WalkRequestRepository interface {
	Create(ctx context.Context, req *domain.WalkRequest) error

	// GetByID returns the request with the owner of its dog filled in.
	GetByID(ctx context.Context, id int64) (*domain.WalkRequest, error)

	// ListOpen returns requests with status open, earliest first.
	ListOpen(ctx context.Context) ([]domain.OpenWalkRequest, error)
}

// WalkApplicationRepository defines the interface for walk application persistence.
type WalkApplicationRepository interface {
	// Create inserts a pending application. A second application by the same
	// walker for the same request is an ErrAlreadyExists.
	Create(ctx context.Context, app *domain.WalkApplication) error

	// HasAccepted reports whether walkerID holds an accepted application
	// for requestID.
	HasAccepted(ctx context.Context, requestID, walkerID int64) (bool, error)
}

// WalkRatingRepository defines the interface for walk rating persistence.
type WalkRatingRepository interface {
	// Create inserts a rating. Each request can be rated once.
	Create(ctx context.Context, rating *domain.WalkRating) error
}

// WalkerSummaryRepository computes the per-walker aggregate.
type WalkerSummaryRepository interface {
	// ListWalkerSummaries returns one row per walker ordered by username,
	// including walkers with no walks or ratings.
	ListWalkerSummaries(ctx context.Context) ([]domain.WalkerSummary, error)
}

// SessionRepository stores login sessions keyed by their opaque ID.
type SessionRepository interface {
	Save(ctx context.Context, s *domain.Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}
