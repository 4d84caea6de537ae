package postgres

import (
	"context"
	"fmt"

	"github.com/utafrali/DogWalkGo/internal/domain"
	"github.com/utafrali/DogWalkGo/pkg/database"
)

// walkerSummaryQuery yields one row per walker. A walk counts as completed
// only when the walker's application was accepted and the request itself is
// completed. The average is rounded half away from zero on the exact numeric
// mean. Usernames sort byte-wise.
const walkerSummaryQuery = `
		SELECT
			u.username AS walker_username,
			(
				SELECT COUNT(DISTINCT wa.request_id)
				FROM walk_applications wa
				JOIN walk_requests wr ON wr.request_id = wa.request_id
				WHERE wa.walker_id = u.user_id
				  AND wa.status = 'accepted'
				  AND wr.status = 'completed'
			) AS completed_walks,
			COUNT(DISTINCT r.rating_id) AS total_ratings,
			ROUND(AVG(r.rating)::numeric, 2)::float8 AS average_rating
		FROM users u
		LEFT JOIN walk_ratings r ON r.walker_id = u.user_id
		WHERE u.role = 'walker'
		GROUP BY u.user_id, u.username
		ORDER BY u.username COLLATE "C"`

// WalkerSummaryRepository implements repository.WalkerSummaryRepository
// using PostgreSQL.
type WalkerSummaryRepository struct {
	db database.DBTX
}

// NewWalkerSummaryRepository creates a new PostgreSQL-backed summary repository.
func NewWalkerSummaryRepository(db database.DBTX) *WalkerSummaryRepository {
	return &WalkerSummaryRepository{db: db}
}

// ListWalkerSummaries runs the walker aggregate.
func (r *WalkerSummaryRepository) ListWalkerSummaries(ctx context.Context) (_ []domain.WalkerSummary, err error) {
	ctx, end := database.TraceQuery(ctx, "ListWalkerSummaries", walkerSummaryQuery)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, walkerSummaryQuery)
	if err != nil {
		return nil, fmt.Errorf("list walker summaries: %w", err)
	}
	defer rows.Close()

	summaries := make([]domain.WalkerSummary, 0)
	for rows.Next() {
		var (
			username       string
			completed, tot int
			avg            *float64
		)
		if err := rows.Scan(&username, &completed, &tot, &avg); err != nil {
			return nil, fmt.Errorf("scan walker summary row: %w", err)
		}
		summaries = append(summaries, domain.NewWalkerSummary(username, completed, tot, avg))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate walker summary rows: %w", err)
	}

	return summaries, nil
}
