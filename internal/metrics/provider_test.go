package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	provider, err := NewProvider("sharetoken")
	require.NoError(t, err)
	require.NotNil(t, provider)

	assert.NotNil(t, provider.MeterProvider())

	t.Cleanup(func() {
		_ = provider.Shutdown(context.Background())
	})
}

func TestProviderHandler(t *testing.T) {
	provider, err := NewProvider("sharetoken")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = provider.Shutdown(context.Background())
	})

	// Record something so the exposition output is non-trivial
	business, err := NewBusinessMetrics(provider.MeterProvider(), "sharetoken")
	require.NoError(t, err)
	business.RecordOperation(context.Background(), "token", "validate_and_consume", "success")

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sharetoken_operations_total")
}

func TestNoOpBusinessMetrics(t *testing.T) {
	noop := NewNoOpBusinessMetrics()

	// Must be safe to call with any arguments
	noop.RecordOperation(context.Background(), "token", "issue", "success")
	noop.RecordDuration(context.Background(), "token", "issue", 0, "error")
}
