package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/duynhne/mood-service/internal/core/domain"
	logicv1 "github.com/duynhne/mood-service/internal/logic/v1"
)

// CreateMoodRecord handles POST /mood-records.
func (h *Handler) CreateMoodRecord(c *gin.Context) {
	ctx, span := startRequestSpan(c)
	defer span.End()

	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req domain.CreateMoodRecordRequest
	if err := bindJSON(c, &req); err != nil {
		badRequest(c, span, err)
		return
	}

	recordID, err := h.moods.CreateMoodRecord(ctx, userID, req)
	if err != nil {
		respondError(c, span, err, "Record")
		return
	}

	span.SetAttributes(attribute.Int64("record.id", recordID))
	c.JSON(http.StatusCreated, gin.H{
		"message":   "Mood record created successfully",
		"record_id": recordID,
	})
}

// ListMoodRecords handles GET /mood-records?limit=N.
// A missing or unparsable limit falls back to the default.
func (h *Handler) ListMoodRecords(c *gin.Context) {
	ctx, span := startRequestSpan(c)
	defer span.End()

	userID, ok := currentUser(c)
	if !ok {
		return
	}

	limit := logicv1.DefaultListLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	records, err := h.moods.ListMoodRecords(ctx, userID, limit)
	if err != nil {
		respondError(c, span, err, "Record")
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetMoodRecord handles GET /mood-records/:id.
func (h *Handler) GetMoodRecord(c *gin.Context) {
	ctx, span := startRequestSpan(c)
	defer span.End()

	userID, ok := currentUser(c)
	if !ok {
		return
	}
	recordID, ok := pathID(c)
	if !ok {
		return
	}

	record, err := h.moods.GetMoodRecord(ctx, userID, recordID)
	if err != nil {
		respondError(c, span, err, "Record")
		return
	}
	c.JSON(http.StatusOK, record)
}

// DeleteMoodRecord handles DELETE /mood-records/:id.
func (h *Handler) DeleteMoodRecord(c *gin.Context) {
	ctx, span := startRequestSpan(c)
	defer span.End()

	userID, ok := currentUser(c)
	if !ok {
		return
	}
	recordID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.moods.DeleteMoodRecord(ctx, userID, recordID); err != nil {
		respondError(c, span, err, "Record")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Record deleted successfully"})
}

// EmotionStats handles GET /stats/emotions.
func (h *Handler) EmotionStats(c *gin.Context) {
	ctx, span := startRequestSpan(c)
	defer span.End()

	userID, ok := currentUser(c)
	if !ok {
		return
	}

	stats, err := h.moods.EmotionStats(ctx, userID)
	if err != nil {
		respondError(c, span, err, "Record")
		return
	}
	c.JSON(http.StatusOK, stats)
}
