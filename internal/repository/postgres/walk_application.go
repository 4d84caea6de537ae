package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/utafrali/DogWalkGo/internal/domain"
	"github.com/utafrali/DogWalkGo/pkg/database"
	apperrors "github.com/utafrali/DogWalkGo/pkg/errors"
)

// WalkApplicationRepository implements repository.WalkApplicationRepository
// using PostgreSQL.
type WalkApplicationRepository struct {
	db database.DBTX
}

// NewWalkApplicationRepository creates a new PostgreSQL-backed application repository.
func NewWalkApplicationRepository(db database.DBTX) *WalkApplicationRepository {
	return &WalkApplicationRepository{db: db}
}

// Create inserts a pending application and sets its ID, status and time.
func (r *WalkApplicationRepository) Create(ctx context.Context, a *domain.WalkApplication) (err error) {
	query := `
		INSERT INTO walk_applications (request_id, walker_id)
		VALUES ($1, $2)
		RETURNING application_id, applied_at, status`

	ctx, end := database.TraceQuery(ctx, "CreateWalkApplication", query)
	defer func() { end(spanError(err)) }()

	err = r.db.QueryRow(ctx, query, a.RequestID, a.WalkerID).Scan(&a.ID, &a.AppliedAt, &a.Status)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return apperrors.AlreadyExists("walk application", "request_id", strconv.FormatInt(a.RequestID, 10))
		case isForeignKeyViolation(err):
			return apperrors.InvalidInput("walk request or walker does not exist")
		}
		return fmt.Errorf("insert walk application: %w", err)
	}

	return nil
}

// HasAccepted reports whether walkerID holds an accepted application for requestID.
func (r *WalkApplicationRepository) HasAccepted(ctx context.Context, requestID, walkerID int64) (_ bool, err error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM walk_applications
			WHERE request_id = $1 AND walker_id = $2 AND status = 'accepted'
		)`

	ctx, end := database.TraceQuery(ctx, "HasAcceptedApplication", query)
	defer func() { end(err) }()

	var ok bool
	if err = r.db.QueryRow(ctx, query, requestID, walkerID).Scan(&ok); err != nil {
		return false, fmt.Errorf("check accepted application: %w", err)
	}
	return ok, nil
}
