package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupRateLimitedRouter(rps float64, burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := gin.New()
	router.POST("/v1/tokens/validate",
		ValidateRateLimitMiddleware(rps, burst, logger),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})
	return router
}

func TestValidateRateLimitMiddleware(t *testing.T) {
	t.Run("AllowsWithinBurst", func(t *testing.T) {
		router := setupRateLimitedRouter(1, 3)

		for i := 0; i < 3; i++ {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/v1/tokens/validate", nil)
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})

	t.Run("RejectsBeyondBurst", func(t *testing.T) {
		router := setupRateLimitedRouter(0.001, 1)

		first := httptest.NewRecorder()
		router.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/v1/tokens/validate", nil))
		assert.Equal(t, http.StatusOK, first.Code)

		second := httptest.NewRecorder()
		router.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/v1/tokens/validate", nil))
		assert.Equal(t, http.StatusTooManyRequests, second.Code)
		assert.NotEmpty(t, second.Header().Get("Retry-After"))
	})

	t.Run("IndependentBucketsPerIP", func(t *testing.T) {
		router := setupRateLimitedRouter(0.001, 1)

		first := httptest.NewRecorder()
		reqA := httptest.NewRequest(http.MethodPost, "/v1/tokens/validate", nil)
		reqA.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(first, reqA)
		assert.Equal(t, http.StatusOK, first.Code)

		second := httptest.NewRecorder()
		reqB := httptest.NewRequest(http.MethodPost, "/v1/tokens/validate", nil)
		reqB.RemoteAddr = "10.0.0.2:1234"
		router.ServeHTTP(second, reqB)
		assert.Equal(t, http.StatusOK, second.Code)
	})
}
