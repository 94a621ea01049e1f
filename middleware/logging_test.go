package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func traceIDFor(headers map[string]string) string {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range headers {
		c.Request.Header.Set(k, v)
	}
	return GetTraceID(c)
}

func TestGetTraceID(t *testing.T) {
	fromParent := traceIDFor(map[string]string{
		TraceParentHeader: "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01",
		TraceIDHeader:     "ignored",
	})
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", fromParent)

	fromHeader := traceIDFor(map[string]string{TraceIDHeader: "abc123"})
	assert.Equal(t, "abc123", fromHeader)

	generated := traceIDFor(nil)
	assert.Len(t, generated, 32)
	assert.NotEqual(t, generated, traceIDFor(nil))
}

func TestLoggingMiddleware_EchoesTraceID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(LoggingMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(TraceIDHeader, "trace-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "trace-1", w.Header().Get(TraceIDHeader))
}
