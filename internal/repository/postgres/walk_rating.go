package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/utafrali/DogWalkGo/internal/domain"
	"github.com/utafrali/DogWalkGo/pkg/database"
	apperrors "github.com/utafrali/DogWalkGo/pkg/errors"
)

// WalkRatingRepository implements repository.WalkRatingRepository using PostgreSQL.
type WalkRatingRepository struct {
	db database.DBTX
}

// NewWalkRatingRepository creates a new PostgreSQL-backed rating repository.
func NewWalkRatingRepository(db database.DBTX) *WalkRatingRepository {
	return &WalkRatingRepository{db: db}
}

// Create inserts a rating and sets its ID and time.
func (r *WalkRatingRepository) Create(ctx context.Context, wr *domain.WalkRating) (err error) {
	query := `
		INSERT INTO walk_ratings (request_id, walker_id, owner_id, rating, comments)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		RETURNING rating_id, rated_at`

	ctx, end := database.TraceQuery(ctx, "CreateWalkRating", query)
	defer func() { end(spanError(err)) }()

	err = r.db.QueryRow(ctx, query, wr.RequestID, wr.WalkerID, wr.OwnerID, wr.Rating, wr.Comments).
		Scan(&wr.ID, &wr.RatedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return apperrors.AlreadyExists("walk rating", "request_id", strconv.FormatInt(wr.RequestID, 10))
		case isCheckViolation(err):
			return apperrors.InvalidInput(fmt.Sprintf("rating must be between %d and %d", domain.MinRating, domain.MaxRating))
		case isForeignKeyViolation(err):
			return apperrors.InvalidInput("walk request, walker or owner does not exist")
		}
		return fmt.Errorf("insert walk rating: %w", err)
	}

	return nil
}
