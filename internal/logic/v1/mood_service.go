package v1

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/mood-service/internal/core/domain"
	"github.com/duynhne/mood-service/middleware"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

// MoodService implements mood record storage rules and emotion statistics.
type MoodService struct {
	records domain.MoodRecordRepository
}

// NewMoodService creates a new MoodService.
func NewMoodService(records domain.MoodRecordRepository) *MoodService {
	return &MoodService{records: records}
}

// NormalizeLimit maps non-positive limits to the default and caps large ones.
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}

// parseConfidence accepts JSON numbers and numeric strings.
func parseConfidence(v any) (float64, error) {
	var f float64
	switch c := v.(type) {
	case nil:
		return 0, validationError("confidence is required")
	case float64:
		f = c
	case float32:
		f = float64(c)
	case int:
		f = float64(c)
	case int64:
		f = float64(c)
	case json.Number:
		parsed, err := c.Float64()
		if err != nil {
			return 0, validationError("confidence must be numeric")
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			return 0, validationError("confidence must be numeric")
		}
		f = parsed
	default:
		return 0, validationError("confidence must be numeric")
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, validationError("confidence must be a finite number")
	}
	return f, nil
}

// CreateMoodRecord stores a new observation for the user.
func (s *MoodService) CreateMoodRecord(ctx context.Context, userID int64, req domain.CreateMoodRecordRequest) (int64, error) {
	ctx, span := middleware.StartSpan(ctx, "mood.create", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("user.id", userID),
	))
	defer span.End()

	emotion := strings.TrimSpace(req.Emotion)
	if emotion == "" {
		return 0, validationError("emotion is required")
	}
	confidence, err := parseConfidence(req.Confidence)
	if err != nil {
		return 0, err
	}

	id, err := s.records.Create(ctx, userID, emotion, confidence)
	if err != nil {
		if isOwnerMissing(err) {
			return 0, fmt.Errorf("create mood record for user %d: %w", userID, ErrNotFound)
		}
		span.RecordError(err)
		return 0, storageError("insert mood record", err)
	}

	span.SetAttributes(attribute.Int64("record.id", id), attribute.String("emotion", emotion))
	return id, nil
}

// ListMoodRecords returns the user's newest records first.
func (s *MoodService) ListMoodRecords(ctx context.Context, userID int64, limit int) ([]domain.MoodRecord, error) {
	ctx, span := middleware.StartSpan(ctx, "mood.list", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("user.id", userID),
	))
	defer span.End()

	rows, err := s.records.ListByUser(ctx, userID, NormalizeLimit(limit))
	if err != nil {
		span.RecordError(err)
		return nil, storageError("list mood records", err)
	}

	out := make([]domain.MoodRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToMoodRecord())
	}
	return out, nil
}

// ownedRecord distinguishes a missing record from one owned by someone else.
func (s *MoodService) ownedRecord(ctx context.Context, userID, recordID int64) (*domain.MoodRecordRow, error) {
	row, err := s.records.GetByID(ctx, recordID)
	if err != nil {
		return nil, storageError("query mood record", err)
	}
	if row == nil {
		return nil, fmt.Errorf("mood record %d: %w", recordID, ErrNotFound)
	}
	if row.UserID != userID {
		return nil, fmt.Errorf("mood record %d: %w", recordID, ErrForbidden)
	}
	return row, nil
}

// GetMoodRecord returns one record owned by the user.
func (s *MoodService) GetMoodRecord(ctx context.Context, userID, recordID int64) (*domain.MoodRecord, error) {
	ctx, span := middleware.StartSpan(ctx, "mood.get", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("user.id", userID),
		attribute.Int64("record.id", recordID),
	))
	defer span.End()

	row, err := s.ownedRecord(ctx, userID, recordID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	rec := row.ToMoodRecord()
	return &rec, nil
}

// DeleteMoodRecord removes one record owned by the user.
func (s *MoodService) DeleteMoodRecord(ctx context.Context, userID, recordID int64) error {
	ctx, span := middleware.StartSpan(ctx, "mood.delete", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("user.id", userID),
		attribute.Int64("record.id", recordID),
	))
	defer span.End()

	if _, err := s.ownedRecord(ctx, userID, recordID); err != nil {
		span.RecordError(err)
		return err
	}

	ok, err := s.records.Delete(ctx, recordID, userID)
	if err != nil {
		span.RecordError(err)
		return storageError("delete mood record", err)
	}
	if !ok {
		// Removed by a concurrent request after the ownership check.
		return fmt.Errorf("mood record %d: %w", recordID, ErrNotFound)
	}
	return nil
}

// EmotionStats groups the user's records by emotion.
func (s *MoodService) EmotionStats(ctx context.Context, userID int64) ([]domain.EmotionStat, error) {
	ctx, span := middleware.StartSpan(ctx, "mood.emotion_stats", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("user.id", userID),
	))
	defer span.End()

	aggs, err := s.records.AggregateByEmotion(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, storageError("aggregate mood records", err)
	}

	stats := aggregateStats(aggs)
	span.SetAttributes(attribute.Int("stats.groups", len(stats)))
	return stats, nil
}
