package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/utafrali/DogWalkGo/internal/domain"
	"github.com/utafrali/DogWalkGo/internal/repository"
	apperrors "github.com/utafrali/DogWalkGo/pkg/errors"
)

const (
	// minPasswordLength is the minimum password length required.
	minPasswordLength = 8
	// maxPasswordLength is the longest input bcrypt hashes in full.
	maxPasswordLength = 72
)

// ErrInvalidCredentials is returned by Login for an unknown username and for
// a wrong password alike.
var ErrInvalidCredentials = apperrors.Unauthorized("invalid username or password")

// AuthService implements registration and password login.
type AuthService struct {
	users      repository.UserRepository
	producer   EventPublisher
	bcryptCost int
	logger     *slog.Logger

	// dummyHash is compared against when the username is unknown, so that
	// path costs one bcrypt run like a wrong password does.
	dummyHash []byte
}

// NewAuthService creates a new auth service.
func NewAuthService(users repository.UserRepository, producer EventPublisher, bcryptCost int, logger *slog.Logger) *AuthService {
	dummy, err := bcrypt.GenerateFromPassword([]byte("dogwalk-dummy-password"), bcryptCost)
	if err != nil {
		logger.Error("failed to build dummy password hash", slog.String("error", err.Error()))
	}
	return &AuthService{
		users:      users,
		producer:   producer,
		bcryptCost: bcryptCost,
		logger:     logger,
		dummyHash:  dummy,
	}
}

// RegisterInput holds the parameters for registering a new user.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// Register creates a new user account with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)

	if input.Username == "" {
		return nil, apperrors.InvalidInput("username is required")
	}
	if input.Email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}
	if !domain.IsValidRole(input.Role) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("role must be one of: %s", strings.Join(domain.ValidRoles(), ", ")))
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         input.Role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.producer.PublishUserRegistered(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.registered event",
			slog.Int64("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.Int64("user_id", user.ID),
		slog.String("role", user.Role),
	)
	return user, nil
}

// Login checks username and password. Every credential failure returns
// ErrInvalidCredentials; only store failures return anything else.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Spend the same bcrypt work as a real comparison.
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user by username: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.Int64("user_id", user.ID),
		slog.String("role", user.Role),
	)
	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if len(password) > maxPasswordLength {
		return apperrors.InvalidInput(fmt.Sprintf("password must be at most %d bytes", maxPasswordLength))
	}
	return nil
}
