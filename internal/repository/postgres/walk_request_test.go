package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/DogWalkGo/internal/domain"
	"github.com/utafrali/DogWalkGo/pkg/database"
	apperrors "github.com/utafrali/DogWalkGo/pkg/errors"
)

func openColumns() []string {
	return []string{"request_id", "name", "requested_time", "duration_minutes", "location", "username"}
}

const openQueryPattern = "SELECT .+ FROM walk_requests wr\\s+JOIN dogs d .+JOIN users u .+WHERE wr.status = 'open'"

// Rex's walk is listed while open and drops out once the store reports it
// completed.
func TestWalkRequestRepository_ListOpen_AliceRex(t *testing.T) {
	mock := database.NewMockPool(t)
	repo := NewWalkRequestRepository(mock)
	at := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(openQueryPattern).
		WillReturnRows(pgxmock.NewRows(openColumns()).
			AddRow(int64(1), "Rex", at, 30, "Parklands", "alice"))

	got, err := repo.ListOpen(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.OpenWalkRequest{
		RequestID:       1,
		DogName:         "Rex",
		RequestedTime:   at,
		DurationMinutes: 30,
		Location:        "Parklands",
		OwnerUsername:   "alice",
	}, got[0])

	mock.ExpectQuery(openQueryPattern).WillReturnRows(pgxmock.NewRows(openColumns()))

	got, err = repo.ListOpen(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWalkRequestRepository_ListOpen_Error(t *testing.T) {
	mock := database.NewMockPool(t)
	repo := NewWalkRequestRepository(mock)

	mock.ExpectQuery(openQueryPattern).WillReturnError(errors.New("connection refused"))

	_, err := repo.ListOpen(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list open walk requests")
}

func TestWalkRequestRepository_GetByID(t *testing.T) {
	mock := database.NewMockPool(t)
	repo := NewWalkRequestRepository(mock)
	at := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT .+ FROM walk_requests wr\\s+JOIN dogs d .+WHERE wr.request_id = \\$1").
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{
			"request_id", "dog_id", "owner_id", "requested_time", "duration_minutes", "location", "status", "created_at",
		}).AddRow(int64(3), int64(1), int64(1), at, 45, "Beachside Ave", "completed", at))

	got, err := repo.GetByID(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, int64(1), got.OwnerID)
	assert.True(t, got.IsCompleted())
}

func TestWalkRequestRepository_GetByID_NotFound(t *testing.T) {
	mock := database.NewMockPool(t)
	repo := NewWalkRequestRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM walk_requests").WithArgs(int64(3)).WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 3)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestWalkRequestRepository_Create(t *testing.T) {
	mock := database.NewMockPool(t)
	repo := NewWalkRequestRepository(mock)
	at := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	now := time.Now().UTC().Truncate(time.Microsecond)

	mock.ExpectQuery("INSERT INTO walk_requests").
		WithArgs(int64(1), at, 30, "Parklands").
		WillReturnRows(pgxmock.NewRows([]string{"request_id", "status", "created_at"}).
			AddRow(int64(8), "open", now))

	wr := &domain.WalkRequest{DogID: 1, RequestedTime: at, DurationMinutes: 30, Location: "Parklands"}
	require.NoError(t, repo.Create(context.Background(), wr))
	assert.Equal(t, int64(8), wr.ID)
	assert.True(t, wr.IsOpen())
	assert.Equal(t, now, wr.CreatedAt)
}

func TestWalkRequestRepository_Create_MissingDog(t *testing.T) {
	mock := database.NewMockPool(t)
	repo := NewWalkRequestRepository(mock)
	at := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO walk_requests").
		WithArgs(int64(99), at, 30, "Parklands").
		WillReturnError(&pgconn.PgError{Code: "23503"})

	err := repo.Create(context.Background(), &domain.WalkRequest{DogID: 99, RequestedTime: at, DurationMinutes: 30, Location: "Parklands"})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}
