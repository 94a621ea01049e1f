package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newCORSRouter(origins ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS(origins))
	r.GET("/api/mood-records", func(c *gin.Context) { c.JSON(http.StatusOK, []string{}) })
	return r
}

func TestCORS_Preflight(t *testing.T) {
	r := newCORSRouter("http://localhost:3000")

	req := httptest.NewRequest(http.MethodOptions, "/api/mood-records", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), AuthorizationHeader)
}

func TestCORS_Origins(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		origin     string
		wantStatus int
		wantHeader string
	}{
		{name: "listed origin", allowed: []string{"http://localhost:3000"}, origin: "http://localhost:3000", wantStatus: http.StatusOK, wantHeader: "http://localhost:3000"},
		{name: "unlisted origin", allowed: []string{"http://localhost:3000"}, origin: "https://evil.example.com", wantStatus: http.StatusForbidden},
		{name: "wildcard", allowed: []string{"*"}, origin: "https://anywhere.example.com", wantStatus: http.StatusOK, wantHeader: "*"},
		{name: "no origin header", allowed: []string{"http://localhost:3000"}, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newCORSRouter(tt.allowed...)
			req := httptest.NewRequest(http.MethodGet, "/api/mood-records", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantHeader, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
