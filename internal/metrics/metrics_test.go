package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRequest(t *testing.T) {
	m := New()
	m.RecordRequest("/api/leaderboard", http.MethodGet, http.StatusOK, 10*time.Millisecond)
	m.RecordRequest("/api/leaderboard", http.MethodGet, http.StatusOK, 20*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("/api/leaderboard", "GET", "200")))
}

func TestRecordGateAndScore(t *testing.T) {
	m := New()
	m.RecordGate(GateAccepted, "")
	m.RecordGate(GateRejected, "incorrect password")
	m.RecordScore("hard")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.GateOutcomes.WithLabelValues(GateAccepted, "")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GateOutcomes.WithLabelValues(GateRejected, "incorrect password")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScoresRecorded.WithLabelValues("hard")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.RecordScore("easy")

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `ftd_scores_recorded_total{difficulty="easy"} 1`)
	assert.Contains(t, rr.Body.String(), "go_goroutines")
}

func TestInstancesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.RecordScore("easy")

	assert.Equal(t, 0.0, testutil.ToFloat64(b.ScoresRecorded.WithLabelValues("easy")))
}
