package v1

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/mood-service/internal/core/domain"
	"github.com/duynhne/mood-service/middleware"
)

// SessionService implements detection session rules.
type SessionService struct {
	sessions domain.SessionRepository
}

// NewSessionService creates a new SessionService.
func NewSessionService(sessions domain.SessionRepository) *SessionService {
	return &SessionService{sessions: sessions}
}

// CreateSession starts a session with a zero counter and no end time.
func (s *SessionService) CreateSession(ctx context.Context, userID int64) (*domain.Session, error) {
	ctx, span := middleware.StartSpan(ctx, "session.create", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("user.id", userID),
	))
	defer span.End()

	row, err := s.sessions.Create(ctx, userID)
	if err != nil {
		if isOwnerMissing(err) {
			return nil, fmt.Errorf("create session for user %d: %w", userID, ErrNotFound)
		}
		span.RecordError(err)
		return nil, storageError("insert session", err)
	}

	span.SetAttributes(attribute.Int64("session.id", row.ID))
	sess := row.ToSession()
	return &sess, nil
}

// UpdateSession overwrites the counter (last write wins) and ends the
// session. Ending an already ended session keeps the first end time.
func (s *SessionService) UpdateSession(ctx context.Context, userID, sessionID int64, req domain.UpdateSessionRequest) (*domain.Session, error) {
	ctx, span := middleware.StartSpan(ctx, "session.update", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("user.id", userID),
		attribute.Int64("session.id", sessionID),
		attribute.Bool("session.end", req.EndSession),
	))
	defer span.End()

	if req.EmotionsDetected != nil && *req.EmotionsDetected < 0 {
		return nil, validationError("emotions_detected must not be negative")
	}

	existing, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		span.RecordError(err)
		return nil, storageError("query session", err)
	}
	if existing == nil {
		return nil, fmt.Errorf("session %d: %w", sessionID, ErrNotFound)
	}
	if existing.UserID != userID {
		return nil, fmt.Errorf("session %d: %w", sessionID, ErrForbidden)
	}

	row, err := s.sessions.Update(ctx, sessionID, userID, domain.SessionUpdate{
		EmotionsDetected: req.EmotionsDetected,
		End:              req.EndSession,
	})
	if err != nil {
		span.RecordError(err)
		return nil, storageError("update session", err)
	}
	if row == nil {
		return nil, fmt.Errorf("session %d: %w", sessionID, ErrNotFound)
	}

	sess := row.ToSession()
	return &sess, nil
}

// ListSessions returns the user's sessions, most recently started first.
func (s *SessionService) ListSessions(ctx context.Context, userID int64) ([]domain.Session, error) {
	ctx, span := middleware.StartSpan(ctx, "session.list", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("user.id", userID),
	))
	defer span.End()

	rows, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, storageError("list sessions", err)
	}

	out := make([]domain.Session, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToSession())
	}
	return out, nil
}
