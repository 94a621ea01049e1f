package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duynhne/mood-service/internal/core/domain"
)

type stubVerifier struct {
	tokens map[string]int64
}

func (s stubVerifier) Verify(token string) (int64, error) {
	id, ok := s.tokens[token]
	if !ok {
		return 0, fmt.Errorf("%w: %w", domain.ErrInvalidToken, domain.ErrTokenExpired)
	}
	return id, nil
}

func statusReject(c *gin.Context, err error) {
	msg := "Token is invalid"
	if errors.Is(err, domain.ErrMissingToken) {
		msg = "Token is missing"
	}
	c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
}

func newGuardedRouter(verifier TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthRequired(verifier, statusReject), func(c *gin.Context) {
		id, ok := UserID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})
	return r
}

func TestAuthRequired(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized, wantBody: `{"error":"Token is missing"}`},
		{name: "bare prefix", header: "Bearer ", wantStatus: http.StatusUnauthorized, wantBody: `{"error":"Token is missing"}`},
		{name: "invalid token", header: "Bearer forged", wantStatus: http.StatusUnauthorized, wantBody: `{"error":"Token is invalid"}`},
		{name: "bearer prefix", header: "Bearer good", wantStatus: http.StatusOK, wantBody: `{"user_id":7}`},
		{name: "lowercase prefix", header: "bearer good", wantStatus: http.StatusOK, wantBody: `{"user_id":7}`},
		{name: "raw token", header: "good", wantStatus: http.StatusOK, wantBody: `{"user_id":7}`},
	}

	r := newGuardedRouter(stubVerifier{tokens: map[string]int64{"good": 7}})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(AuthorizationHeader, tt.header)
			}
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			require.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("  Bearer   abc "))
	assert.Equal(t, "abc", BearerToken("abc"))
	assert.Equal(t, "", BearerToken("Bearer"))
	assert.Equal(t, "", BearerToken(""))
}

type errVerifier struct{ err error }

func (v errVerifier) Verify(string) (int64, error) { return 0, v.err }

func TestAuthRequired_RejectsWithTypedError(t *testing.T) {
	var got error
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthRequired(errVerifier{err: errors.New("boom")}, func(c *gin.Context, err error) {
		got = err
		statusReject(c, err)
	}), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.ErrorIs(t, got, domain.ErrMissingToken)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(AuthorizationHeader, "Bearer whatever")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	// A bare verifier error is still reported as an invalid token.
	assert.ErrorIs(t, got, domain.ErrInvalidToken)
}

func TestRejectionReason(t *testing.T) {
	invalid := func(cause error) error { return fmt.Errorf("%w: %w", domain.ErrInvalidToken, cause) }

	tests := []struct {
		err  error
		want string
	}{
		{domain.ErrMissingToken, "missing"},
		{invalid(domain.ErrTokenExpired), "expired"},
		{invalid(domain.ErrTokenSignature), "signature"},
		{invalid(domain.ErrTokenMalformed), "malformed"},
		{invalid(errors.New("other")), "invalid"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, rejectionReason(tt.err), tt.err.Error())
	}
}
