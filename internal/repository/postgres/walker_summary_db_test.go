package postgres

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/DogWalkGo/internal/domain"
	"github.com/utafrali/DogWalkGo/migrations"
	"github.com/utafrali/DogWalkGo/pkg/database"
)

// testDatabaseEnv names a PostgreSQL URL to run the summary query against.
// The tests skip when it is unset.
const testDatabaseEnv = "DOGWALK_TEST_DATABASE_URL"

// newSchemaPool returns a pool whose search_path is a fresh schema holding the
// migrated tables. The schema is dropped when the test ends.
func newSchemaPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv(testDatabaseEnv)
	if url == "" {
		t.Skipf("%s not set", testDatabaseEnv)
	}
	ctx := context.Background()

	admin, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(admin.Close)

	schema := fmt.Sprintf("dogwalk_test_%d", time.Now().UnixNano())
	_, err = admin.Exec(ctx, "CREATE SCHEMA "+schema)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = admin.Exec(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
	})

	cfg, err := pgxpool.ParseConfig(url)
	require.NoError(t, err)
	cfg.ConnConfig.RuntimeParams["search_path"] = schema
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, database.RunMigrations(ctx, pool, migrations.FS, logger))
	return pool
}

type summaryFixture struct {
	t    *testing.T
	pool *pgxpool.Pool
}

func (f summaryFixture) id(sql string, args ...any) int64 {
	f.t.Helper()
	var id int64
	require.NoError(f.t, f.pool.QueryRow(context.Background(), sql, args...).Scan(&id))
	return id
}

func (f summaryFixture) user(name, role string) int64 {
	return f.id(`INSERT INTO users (username, email, password_hash, role)
		VALUES ($1, $1 || '@example.com', 'x', $2) RETURNING user_id`, name, role)
}

func (f summaryFixture) request(dogID int64, status string) int64 {
	return f.id(`INSERT INTO walk_requests (dog_id, requested_time, duration_minutes, location, status)
		VALUES ($1, NOW(), 30, 'Parklands', $2) RETURNING request_id`, dogID, status)
}

func (f summaryFixture) apply(requestID, walkerID int64, status string) {
	f.id(`INSERT INTO walk_applications (request_id, walker_id, status)
		VALUES ($1, $2, $3) RETURNING application_id`, requestID, walkerID, status)
}

func (f summaryFixture) rate(requestID, walkerID, ownerID int64, rating int) {
	f.id(`INSERT INTO walk_ratings (request_id, walker_id, owner_id, rating)
		VALUES ($1, $2, $3, $4) RETURNING rating_id`, requestID, walkerID, ownerID, rating)
}

func TestListWalkerSummaries_AgainstPostgres(t *testing.T) {
	pool := newSchemaPool(t)
	f := summaryFixture{t: t, pool: pool}

	alice := f.user("alice123", domain.RoleOwner)
	bob := f.user("bobwalker", domain.RoleWalker)
	f.user("Zed", domain.RoleWalker)
	rex := f.id(`INSERT INTO dogs (owner_id, name, size) VALUES ($1, 'Rex', 'medium') RETURNING dog_id`, alice)

	// Only the first request counts: accepted application, completed request.
	done := f.request(rex, domain.WalkStatusCompleted)
	f.apply(done, bob, domain.ApplicationStatusAccepted)

	pending := f.request(rex, domain.WalkStatusCompleted)
	f.apply(pending, bob, domain.ApplicationStatusPending)

	rejected := f.request(rex, domain.WalkStatusCompleted)
	f.apply(rejected, bob, domain.ApplicationStatusRejected)

	open := f.request(rex, domain.WalkStatusOpen)
	f.apply(open, bob, domain.ApplicationStatusAccepted)

	f.rate(done, bob, alice, 5)
	f.rate(pending, bob, alice, 4)

	got, err := NewWalkerSummaryRepository(pool).ListWalkerSummaries(context.Background())
	require.NoError(t, err)

	// "Zed" sorts before "bobwalker" byte-wise.
	require.Len(t, got, 2)
	assert.Equal(t, domain.WalkerSummary{WalkerUsername: "Zed"}, got[0])
	assert.Equal(t, "bobwalker", got[1].WalkerUsername)
	assert.Equal(t, 1, got[1].CompletedWalks)
	assert.Equal(t, 2, got[1].TotalRatings)
	require.NotNil(t, got[1].AverageRating)
	assert.InDelta(t, 4.5, *got[1].AverageRating, 1e-9)
}

func TestListWalkerSummaries_AverageRoundsHalfAwayFromZero(t *testing.T) {
	pool := newSchemaPool(t)
	f := summaryFixture{t: t, pool: pool}

	owner := f.user("carol123", domain.RoleOwner)
	walker := f.user("davewalker", domain.RoleWalker)
	dog := f.id(`INSERT INTO dogs (owner_id, name, size) VALUES ($1, 'Bella', 'small') RETURNING dog_id`, owner)

	// 5, 4, 4 averages 4.333…; 5, 5, 4 would be 4.67.
	for _, r := range []int{5, 4, 4} {
		req := f.request(dog, domain.WalkStatusCompleted)
		f.apply(req, walker, domain.ApplicationStatusAccepted)
		f.rate(req, walker, owner, r)
	}

	got, err := NewWalkerSummaryRepository(pool).ListWalkerSummaries(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].CompletedWalks)
	require.NotNil(t, got[0].AverageRating)
	assert.Equal(t, 4.33, *got[0].AverageRating)
}
