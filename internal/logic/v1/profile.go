package v1

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/mood-service/internal/core/domain"
	"github.com/duynhne/mood-service/middleware"
)

// GetProfile returns the public profile of the user.
func (s *AuthService) GetProfile(ctx context.Context, userID int64) (*domain.Profile, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.get_profile", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("user.id", userID),
	))
	defer span.End()

	row, err := s.users.GetByID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, storageError("query user", err)
	}
	if row == nil {
		return nil, fmt.Errorf("get user %d: %w", userID, ErrNotFound)
	}

	profile := row.ToProfile()
	return &profile, nil
}

// UpdateProfile changes the full name. An empty name leaves the account untouched.
// Email and password are never changed here.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, req domain.UpdateUserRequest) error {
	ctx, span := middleware.StartSpan(ctx, "auth.update_profile", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("user.id", userID),
	))
	defer span.End()

	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		span.AddEvent("profile.noop")
		return nil
	}

	ok, err := s.users.UpdateFullName(ctx, userID, fullName)
	if err != nil {
		span.RecordError(err)
		return storageError("update user", err)
	}
	if !ok {
		return fmt.Errorf("update user %d: %w", userID, ErrNotFound)
	}
	return nil
}

// DeleteAccount removes the user and everything it owns in one transaction.
func (s *AuthService) DeleteAccount(ctx context.Context, userID int64) error {
	ctx, span := middleware.StartSpan(ctx, "auth.delete_account", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("user.id", userID),
	))
	defer span.End()

	ok, err := s.users.Delete(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return storageError("delete user", err)
	}
	if !ok {
		return fmt.Errorf("delete user %d: %w", userID, ErrNotFound)
	}

	span.AddEvent("user.deleted")
	return nil
}
