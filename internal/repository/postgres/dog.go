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

// DogRepository implements repository.DogRepository using PostgreSQL.
type DogRepository struct {
	db database.DBTX
}

// NewDogRepository creates a new PostgreSQL-backed dog repository.
func NewDogRepository(db database.DBTX) *DogRepository {
	return &DogRepository{db: db}
}

// Create inserts a dog and sets its ID.
func (r *DogRepository) Create(ctx context.Context, d *domain.Dog) (err error) {
	query := `
		INSERT INTO dogs (owner_id, name, size)
		VALUES ($1, $2, $3)
		RETURNING dog_id`

	ctx, end := database.TraceQuery(ctx, "CreateDog", query)
	defer func() { end(err) }()

	err = r.db.QueryRow(ctx, query, d.OwnerID, d.Name, d.Size).Scan(&d.ID)
	if err != nil {
		switch {
		case isForeignKeyViolation(err):
			return apperrors.InvalidInput("owner does not exist")
		case isCheckViolation(err):
			return apperrors.InvalidInput("invalid dog size: " + d.Size)
		}
		return fmt.Errorf("insert dog: %w", err)
	}

	return nil
}

// GetByID retrieves a dog by its ID.
func (r *DogRepository) GetByID(ctx context.Context, id int64) (_ *domain.Dog, err error) {
	query := `
		SELECT dog_id, owner_id, name, size
		FROM dogs
		WHERE dog_id = $1`

	ctx, end := database.TraceQuery(ctx, "GetDogByID", query)
	defer func() { end(spanError(err)) }()

	var d domain.Dog
	err = r.db.QueryRow(ctx, query, id).Scan(&d.ID, &d.OwnerID, &d.Name, &d.Size)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("dog", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("scan dog: %w", err)
	}

	return &d, nil
}

// ListAll returns every dog joined with its owner, ordered by dog ID.
func (r *DogRepository) ListAll(ctx context.Context) (_ []domain.DogListing, err error) {
	query := `
		SELECT d.dog_id, d.name, d.size, d.owner_id, u.username
		FROM dogs d
		JOIN users u ON u.user_id = d.owner_id
		ORDER BY d.dog_id`

	ctx, end := database.TraceQuery(ctx, "ListDogs", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list dogs: %w", err)
	}
	defer rows.Close()

	dogs := make([]domain.DogListing, 0)
	for rows.Next() {
		var d domain.DogListing
		if err := rows.Scan(&d.DogID, &d.DogName, &d.Size, &d.OwnerID, &d.OwnerUsername); err != nil {
			return nil, fmt.Errorf("scan dog row: %w", err)
		}
		dogs = append(dogs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dog rows: %w", err)
	}

	return dogs, nil
}

// ListByOwner returns the dogs of one owner ordered by name.
func (r *DogRepository) ListByOwner(ctx context.Context, ownerID int64) (_ []domain.Dog, err error) {
	query := `
		SELECT dog_id, owner_id, name, size
		FROM dogs
		WHERE owner_id = $1
		ORDER BY name, dog_id`

	ctx, end := database.TraceQuery(ctx, "ListDogsByOwner", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list dogs by owner: %w", err)
	}
	defer rows.Close()

	dogs := make([]domain.Dog, 0)
	for rows.Next() {
		var d domain.Dog
		if err := rows.Scan(&d.ID, &d.OwnerID, &d.Name, &d.Size); err != nil {
			return nil, fmt.Errorf("scan dog row: %w", err)
		}
		dogs = append(dogs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dog rows: %w", err)
	}

	return dogs, nil
}
