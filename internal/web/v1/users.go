package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/duynhne/mood-service/internal/core/domain"
	"github.com/duynhne/mood-service/internal/logger"
)

// Signup handles POST /signup.
func (h *Handler) Signup(c *gin.Context) {
	ctx, span := startRequestSpan(c)
	defer span.End()

	var req domain.SignupRequest
	if err := bindJSON(c, &req); err != nil {
		badRequest(c, span, err)
		return
	}

	userID, err := h.auth.Register(ctx, req)
	if err != nil {
		respondError(c, span, err, "User")
		return
	}

	span.SetAttributes(attribute.Int64("user.id", userID))
	logger.FromContext(ctx).Info().Int64("user_id", userID).Msg("User registered")
	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user_id": userID,
	})
}

// Login handles POST /login.
func (h *Handler) Login(c *gin.Context) {
	ctx, span := startRequestSpan(c)
	defer span.End()

	var req domain.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		badRequest(c, span, err)
		return
	}

	resp, err := h.auth.Login(ctx, req)
	if err != nil {
		respondError(c, span, err, "User")
		return
	}

	logger.FromContext(ctx).Info().Int64("user_id", resp.User.ID).Msg("User logged in")
	c.JSON(http.StatusOK, resp)
}

// ownAccount resolves :id and rejects access to any account but the caller's.
func ownAccount(c *gin.Context) (int64, bool) {
	userID, ok := currentUser(c)
	if !ok {
		return 0, false
	}
	id, ok := pathID(c)
	if !ok {
		return 0, false
	}
	if id != userID {
		logger.FromContext(c.Request.Context()).Warn().
			Int64("target_user_id", id).
			Msg("Access to another account rejected")
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	return id, true
}

// GetUser handles GET /users/:id.
func (h *Handler) GetUser(c *gin.Context) {
	ctx, span := startRequestSpan(c)
	defer span.End()

	id, ok := ownAccount(c)
	if !ok {
		return
	}

	profile, err := h.auth.GetProfile(ctx, id)
	if err != nil {
		respondError(c, span, err, "User")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateUser handles PUT /users/:id. Only the full name can change.
func (h *Handler) UpdateUser(c *gin.Context) {
	ctx, span := startRequestSpan(c)
	defer span.End()

	id, ok := ownAccount(c)
	if !ok {
		return
	}

	var req domain.UpdateUserRequest
	if err := bindJSON(c, &req); err != nil {
		badRequest(c, span, err)
		return
	}

	if err := h.auth.UpdateProfile(ctx, id, req); err != nil {
		respondError(c, span, err, "User")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully"})
}

// DeleteUser handles DELETE /users/:id, removing the account with all its
// mood records and sessions.
func (h *Handler) DeleteUser(c *gin.Context) {
	ctx, span := startRequestSpan(c)
	defer span.End()

	id, ok := ownAccount(c)
	if !ok {
		return
	}

	if err := h.auth.DeleteAccount(ctx, id); err != nil {
		respondError(c, span, err, "User")
		return
	}

	logger.FromContext(ctx).Info().Msg("Account deleted")
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
