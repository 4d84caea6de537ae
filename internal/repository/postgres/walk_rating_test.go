package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/DogWalkGo/internal/domain"
	"github.com/utafrali/DogWalkGo/pkg/database"
	apperrors "github.com/utafrali/DogWalkGo/pkg/errors"
)

func TestWalkRatingRepository_Create_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"already rated", &pgconn.PgError{Code: "23505"}, apperrors.ErrAlreadyExists},
		{"out of range", &pgconn.PgError{Code: "23514"}, apperrors.ErrInvalidInput},
		{"unknown request", &pgconn.PgError{Code: "23503"}, apperrors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := database.NewMockPool(t)
			repo := NewWalkRatingRepository(mock)

			mock.ExpectQuery("INSERT INTO walk_ratings").
				WithArgs(int64(3), int64(2), int64(1), 5, "").
				WillReturnError(tt.err)

			err := repo.Create(context.Background(), &domain.WalkRating{RequestID: 3, WalkerID: 2, OwnerID: 1, Rating: 5})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestWalkRatingRepository_Create_DBError(t *testing.T) {
	mock := database.NewMockPool(t)
	repo := NewWalkRatingRepository(mock)

	mock.ExpectQuery("INSERT INTO walk_ratings").
		WithArgs(int64(3), int64(2), int64(1), 5, "").
		WillReturnError(errors.New("connection reset"))

	err := repo.Create(context.Background(), &domain.WalkRating{RequestID: 3, WalkerID: 2, OwnerID: 1, Rating: 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert walk rating")
}
