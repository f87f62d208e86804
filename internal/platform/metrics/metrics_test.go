package metrics

import (
	"errors"
	"itinerary-route-service/internal/reconcile"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnSequencedCountsOutcomes(t *testing.T) {
	m := New()

	m.OnSequenced(reconcile.Event{Outcome: reconcile.OutcomeApplied, Duration: 30 * time.Millisecond})
	m.OnSequenced(reconcile.Event{Outcome: reconcile.OutcomeApplied, Duration: 10 * time.Millisecond})
	m.OnSequenced(reconcile.Event{
		Outcome: reconcile.OutcomeFailed,
		Err:     &reconcile.OracleError{Kind: reconcile.KindTimeout, Day: 1, Err: errors.New("deadline")},
	})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.attempts.WithLabelValues("applied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.attempts.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.oracleErrors.WithLabelValues("timeout")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.attemptLatency))
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodGet, "GET /health", http.StatusOK, time.Millisecond)
	m.ObserveRequest(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `itinerary_http_requests_total{method="GET",route="GET /health",status="200"} 1`))
	assert.True(t, strings.Contains(body, `route="unmatched"`))
	assert.True(t, strings.Contains(body, "go_goroutines"))
}
