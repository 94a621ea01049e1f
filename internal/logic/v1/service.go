package v1

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"github.com/duynhne/mood-service/internal/core/domain"
	"github.com/duynhne/mood-service/middleware"
)

// bcrypt ignores everything past 72 bytes; longer passwords are rejected instead.
const maxPasswordBytes = 72

// AuthService implements account business rules: signup, login and profile
// management. It depends on repository interfaces (injected via constructor)
// and MUST NOT access the database or SQL directly.
type AuthService struct {
	users      domain.UserRepository
	tokens     *TokenService
	bcryptCost int

	// compared against when the email is unknown, so both login failures cost the same
	dummyHash []byte
}

// NewAuthService creates a new AuthService with the given dependencies.
func NewAuthService(users domain.UserRepository, tokens *TokenService, bcryptCost int) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcryptCost)
	return &AuthService{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		dummyHash:  dummy,
	}
}

// NormalizeEmail is applied on every write and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account and returns its ID.
func (s *AuthService) Register(ctx context.Context, req domain.SignupRequest) (int64, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.register", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	fullName := strings.TrimSpace(req.FullName)
	email := NormalizeEmail(req.Email)
	if fullName == "" || email == "" || req.Password == "" {
		return 0, validationError("fullname, email and password are required")
	}
	if len(req.Password) > maxPasswordBytes {
		return 0, validationError(fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		return 0, storageError("check existing user", err)
	}
	if exists {
		span.SetAttributes(attribute.Bool("registration.success", false))
		return 0, fmt.Errorf("register %q: %w", email, ErrUserExists)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("hash password: %w", err)
	}

	userID, err := s.users.Create(ctx, fullName, email, string(passwordHash))
	if err != nil {
		// Lost a race with a concurrent signup for the same email.
		if errors.Is(err, domain.ErrDuplicate) {
			return 0, fmt.Errorf("register %q: %w", email, ErrUserExists)
		}
		span.RecordError(err)
		return 0, storageError("insert user", err)
	}

	span.SetAttributes(
		attribute.Int64("user.id", userID),
		attribute.Bool("registration.success", true),
	)
	span.AddEvent("user.registered")

	return userID, nil
}

// Login verifies credentials and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.login", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	email := NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, validationError("email and password are required")
	}

	row, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		return nil, storageError("query user", err)
	}

	hash := s.dummyHash
	if row != nil {
		hash = []byte(row.PasswordHash)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(req.Password)); err != nil || row == nil {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return nil, fmt.Errorf("authenticate %q: %w", email, ErrInvalidCredentials)
	}

	token, err := s.tokens.Issue(row.ID, row.Email)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("issue token: %w", err)
	}

	span.SetAttributes(
		attribute.Int64("user.id", row.ID),
		attribute.Bool("auth.success", true),
	)
	span.AddEvent("user.authenticated")

	return &domain.AuthResponse{
		Message: "Login successful",
		Token:   token,
		User: domain.User{
			ID:       row.ID,
			FullName: row.FullName,
			Email:    row.Email,
		},
	}, nil
}
