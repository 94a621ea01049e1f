package v1

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	logicv1 "github.com/duynhne/mood-service/internal/logic/v1"
	"github.com/duynhne/mood-service/internal/logger"
	"github.com/duynhne/mood-service/middleware"
)

// Handler groups HTTP handlers for the mood API v1.
// Dependencies are injected via the constructor, no global state.
type Handler struct {
	auth     *logicv1.AuthService
	moods    *logicv1.MoodService
	sessions *logicv1.SessionService
}

// NewHandler creates a new Handler with the given services.
func NewHandler(auth *logicv1.AuthService, moods *logicv1.MoodService, sessions *logicv1.SessionService) *Handler {
	return &Handler{auth: auth, moods: moods, sessions: sessions}
}

// RegisterRoutes registers all API v1 routes on the given router group.
// Every route except health, signup and login is guarded by verifier;
// throttle, if non-nil, runs in front of signup and login.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, verifier middleware.TokenVerifier, throttle gin.HandlerFunc) {
	rg.GET("/health", h.Health)

	credentials := rg.Group("")
	if throttle != nil {
		credentials.Use(throttle)
	}
	credentials.POST("/signup", h.Signup)
	credentials.POST("/login", h.Login)

	protected := rg.Group("", middleware.AuthRequired(verifier, RejectRequest))
	{
		protected.GET("/users/:id", h.GetUser)
		protected.PUT("/users/:id", h.UpdateUser)
		protected.DELETE("/users/:id", h.DeleteUser)

		protected.POST("/sessions", h.CreateSession)
		protected.PUT("/sessions/:id", h.UpdateSession)
		protected.GET("/sessions", h.ListSessions)

		protected.POST("/mood-records", h.CreateMoodRecord)
		protected.GET("/mood-records", h.ListMoodRecords)
		protected.GET("/mood-records/:id", h.GetMoodRecord)
		protected.DELETE("/mood-records/:id", h.DeleteMoodRecord)

		protected.GET("/stats/emotions", h.EmotionStats)
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "message": "API is running"})
}

func startRequestSpan(c *gin.Context) (context.Context, trace.Span) {
	return middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.FullPath()),
	))
}

// bindJSON treats an empty body as an empty request; the logic layer decides
// which fields are required.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func badRequest(c *gin.Context, span trace.Span, err error) {
	span.SetAttributes(attribute.Bool("request.valid", false))
	span.RecordError(err)
	logger.FromContext(c.Request.Context()).Warn().Err(err).Msg("Invalid request")
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
}

// pathID parses the :id parameter.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return id, true
}

// currentUser returns the identity injected by the auth guard.
func currentUser(c *gin.Context) (int64, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is missing"})
	}
	return id, ok
}

// respondError records err on the span and the gin context, then answers
// with writeError. resource names the entity for 404 messages.
func respondError(c *gin.Context, span trace.Span, err error, resource string) {
	span.RecordError(err)
	_ = c.Error(err)
	writeError(c, err, resource)
}

// RejectRequest answers for a request refused by the authorization guard,
// which has already recorded err.
func RejectRequest(c *gin.Context, err error) {
	writeError(c, err, "")
}

// writeError is the single mapping from logic errors to status codes.
func writeError(c *gin.Context, err error, resource string) {
	log := logger.FromContext(c.Request.Context())

	switch {
	case errors.Is(err, logicv1.ErrValidation):
		log.Warn().Err(err).Msg("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
	case errors.Is(err, logicv1.ErrUserExists):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
	case errors.Is(err, logicv1.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	case errors.Is(err, logicv1.ErrMissingToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is missing"})
	case errors.Is(err, logicv1.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is invalid"})
	case errors.Is(err, logicv1.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
	case errors.Is(err, logicv1.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": resource + " not found"})
	case errors.Is(err, logicv1.ErrStorage):
		log.Error().Err(err).Msg("Storage failure")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
	default:
		log.Error().Err(err).Msg("Unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// validationMessage drops the sentinel prefix from validation errors.
func validationMessage(err error) string {
	return strings.TrimPrefix(err.Error(), logicv1.ErrValidation.Error()+": ")
}
