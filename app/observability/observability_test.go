package observability

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestMetricsHandlerExposesRegisteredCollectors(t *testing.T) {
	obs := Init(Config{ServiceName: "strategy-ledger", Environment: "test"})
	require.NotNil(t, obs.Tracer)

	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "probe_total", Help: "probe"})
	obs.Registry.MustRegister(counter)
	counter.Inc()

	rr := httptest.NewRecorder()
	obs.MetricsHandler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.True(t, strings.Contains(body, "probe_total 1"), body)
	assert.Contains(t, body, "go_goroutines")
}
