package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/duynhne/mood-service/internal/core/domain"
)

// CreateSession handles POST /sessions.
func (h *Handler) CreateSession(c *gin.Context) {
	ctx, span := startRequestSpan(c)
	defer span.End()

	userID, ok := currentUser(c)
	if !ok {
		return
	}

	session, err := h.sessions.CreateSession(ctx, userID)
	if err != nil {
		respondError(c, span, err, "Session")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":    "Session started",
		"session_id": session.ID,
	})
}

// UpdateSession handles PUT /sessions/:id.
func (h *Handler) UpdateSession(c *gin.Context) {
	ctx, span := startRequestSpan(c)
	defer span.End()

	userID, ok := currentUser(c)
	if !ok {
		return
	}
	sessionID, ok := pathID(c)
	if !ok {
		return
	}

	var req domain.UpdateSessionRequest
	if err := bindJSON(c, &req); err != nil {
		badRequest(c, span, err)
		return
	}

	session, err := h.sessions.UpdateSession(ctx, userID, sessionID, req)
	if err != nil {
		respondError(c, span, err, "Session")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Session updated",
		"session": session,
	})
}

// ListSessions handles GET /sessions, newest first.
func (h *Handler) ListSessions(c *gin.Context) {
	ctx, span := startRequestSpan(c)
	defer span.End()

	userID, ok := currentUser(c)
	if !ok {
		return
	}

	sessions, err := h.sessions.ListSessions(ctx, userID)
	if err != nil {
		respondError(c, span, err, "Session")
		return
	}
	c.JSON(http.StatusOK, sessions)
}
