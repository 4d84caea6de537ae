package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/DogWalkGo/internal/domain"
	"github.com/utafrali/DogWalkGo/pkg/database"
	apperrors "github.com/utafrali/DogWalkGo/pkg/errors"
)

// WalkRequestRepository implements repository.WalkRequestRepository using PostgreSQL.
type WalkRequestRepository struct {
	db database.DBTX
}

// NewWalkRequestRepository creates a new PostgreSQL-backed walk request repository.
func NewWalkRequestRepository(db database.DBTX) *WalkRequestRepository {
	return &WalkRequestRepository{db: db}
}

// Create inserts an open walk request and sets its ID, status and creation time.
func (r *WalkRequestRepository) Create(ctx context.Context, wr *domain.WalkRequest) (err error) {
	query := `
		INSERT INTO walk_requests (dog_id, requested_time, duration_minutes, location)
		VALUES ($1, $2, $3, $4)
		RETURNING request_id, status, created_at`

	ctx, end := database.TraceQuery(ctx, "CreateWalkRequest", query)
	defer func() { end(err) }()

	err = r.db.QueryRow(ctx, query, wr.DogID, wr.RequestedTime, wr.DurationMinutes, wr.Location).
		Scan(&wr.ID, &wr.Status, &wr.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.InvalidInput("dog does not exist")
		}
		return fmt.Errorf("insert walk request: %w", err)
	}

	return nil
}

// GetByID retrieves a walk request with the owner of its dog.
func (r *WalkRequestRepository) GetByID(ctx context.Context, id int64) (_ *domain.WalkRequest, err error) {
	query := `
		SELECT wr.request_id, wr.dog_id, d.owner_id, wr.requested_time, wr.duration_minutes,
		       wr.location, wr.status, wr.created_at
		FROM walk_requests wr
		JOIN dogs d ON d.dog_id = wr.dog_id
		WHERE wr.request_id = $1`

	ctx, end := database.TraceQuery(ctx, "GetWalkRequestByID", query)
	defer func() { end(spanError(err)) }()

	var wr domain.WalkRequest
	err = r.db.QueryRow(ctx, query, id).Scan(
		&wr.ID,
		&wr.DogID,
		&wr.OwnerID,
		&wr.RequestedTime,
		&wr.DurationMinutes,
		&wr.Location,
		&wr.Status,
		&wr.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("walk request", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("scan walk request: %w", err)
	}

	return &wr, nil
}

// ListOpen returns open walk requests joined with dog name and owner
// username, earliest requested time first.
func (r *WalkRequestRepository) ListOpen(ctx context.Context) (_ []domain.OpenWalkRequest, err error) {
	query := `
		SELECT wr.request_id, d.name, wr.requested_time, wr.duration_minutes, wr.location, u.username
		FROM walk_requests wr
		JOIN dogs d ON d.dog_id = wr.dog_id
		JOIN users u ON u.user_id = d.owner_id
		WHERE wr.status = 'open'
		ORDER BY wr.requested_time, wr.request_id`

	ctx, end := database.TraceQuery(ctx, "ListOpenWalkRequests", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list open walk requests: %w", err)
	}
	defer rows.Close()

	requests := make([]domain.OpenWalkRequest, 0)
	for rows.Next() {
		var o domain.OpenWalkRequest
		if err := rows.Scan(
			&o.RequestID,
			&o.DogName,
			&o.RequestedTime,
			&o.DurationMinutes,
			&o.Location,
			&o.OwnerUsername,
		); err != nil {
			return nil, fmt.Errorf("scan walk request row: %w", err)
		}
		requests = append(requests, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate walk request rows: %w", err)
	}

	return requests, nil
}
