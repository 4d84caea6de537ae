package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/DogWalkGo/internal/domain"
	"github.com/utafrali/DogWalkGo/pkg/database"
	apperrors "github.com/utafrali/DogWalkGo/pkg/errors"
)

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	db database.DBTX
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(db database.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user and sets its ID and CreatedAt.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) (err error) {
	query := `
		INSERT INTO users (username, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING user_id, created_at`

	ctx, end := database.TraceQuery(ctx, "CreateUser", query)
	defer func() { end(spanError(err)) }()

	err = r.db.QueryRow(ctx, query, u.Username, u.Email, u.PasswordHash, u.Role).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			if strings.Contains(constraintName(err), "email") {
				return apperrors.AlreadyExists("user", "email", u.Email)
			}
			return apperrors.AlreadyExists("user", "username", u.Username)
		case isCheckViolation(err):
			return apperrors.InvalidInput("invalid role: " + u.Role)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `
		SELECT user_id, username, email, password_hash, role, created_at
		FROM users
		WHERE user_id = $1`

	return r.scanUser(ctx, "GetUserByID", query, strconv.FormatInt(id, 10), id)
}

// GetByUsername retrieves a user by their username. Usernames are matched
// exactly.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `
		SELECT user_id, username, email, password_hash, role, created_at
		FROM users
		WHERE username = $1`

	return r.scanUser(ctx, "GetUserByUsername", query, username, username)
}

func (r *UserRepository) scanUser(ctx context.Context, op, query, key string, arg any) (_ *domain.User, err error) {
	ctx, end := database.TraceQuery(ctx, op, query)
	defer func() { end(spanError(err)) }()

	var u domain.User
	err = r.db.QueryRow(ctx, query, arg).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("user", key)
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	return &u, nil
}
