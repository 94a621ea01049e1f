package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/mood-service/internal/core/domain"
)

const (
	AuthorizationHeader = "Authorization"

	userIDKey    = "user_id"
	bearerPrefix = "Bearer "
)

// TokenVerifier turns a bearer token into the authenticated user ID.
// Verification must be pure: no storage lookups.
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

// RejectFunc writes the response for a request the guard refused. err wraps
// domain.ErrMissingToken or domain.ErrInvalidToken.
type RejectFunc func(c *gin.Context, err error)

// AuthRequired is the single authentication gate for protected routes.
// It records the typed rejection on the gin context, hands the response to
// reject and aborts; otherwise it exposes the user ID via UserID.
func AuthRequired(verifier TokenVerifier, reject RejectFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		span := trace.SpanFromContext(ctx)
		logger := zerolog.Ctx(ctx)

		token := BearerToken(c.GetHeader(AuthorizationHeader))
		if token == "" {
			span.SetAttributes(attribute.Bool("auth.present", false))
			authRejectionsTotal.WithLabelValues(rejectionReason(domain.ErrMissingToken)).Inc()
			_ = c.Error(domain.ErrMissingToken)
			reject(c, domain.ErrMissingToken)
			c.Abort()
			return
		}
		span.SetAttributes(attribute.Bool("auth.present", true))

		userID, err := verifier.Verify(token)
		if err != nil {
			if !errors.Is(err, domain.ErrInvalidToken) {
				err = fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
			}
			reason := rejectionReason(err)
			// Detailed cause stays in logs and metrics; the client gets one generic answer.
			span.SetAttributes(attribute.Bool("auth.valid", false), attribute.String("auth.reject_reason", reason))
			authRejectionsTotal.WithLabelValues(reason).Inc()
			logger.Warn().Err(err).Str("reason", reason).Msg("Token rejected")
			_ = c.Error(err)
			reject(c, err)
			c.Abort()
			return
		}

		span.SetAttributes(attribute.Bool("auth.valid", true), attribute.Int64("user.id", userID))
		c.Set(userIDKey, userID)

		scoped := logger.With().Int64("user_id", userID).Logger()
		c.Request = c.Request.WithContext(scoped.WithContext(ctx))

		c.Next()
	}
}

// rejectionReason is the auth_rejections_total label for err.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingToken):
		return "missing"
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenSignature):
		return "signature"
	case errors.Is(err, domain.ErrTokenMalformed):
		return "malformed"
	default:
		return "invalid"
	}
}

// BearerToken strips an optional "Bearer " prefix from an Authorization header value.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if strings.EqualFold(header, strings.TrimSpace(bearerPrefix)) {
		return ""
	}
	if len(header) >= len(bearerPrefix) && strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		header = header[len(bearerPrefix):]
	}
	return strings.TrimSpace(header)
}

// UserID returns the identity set by AuthRequired.
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
