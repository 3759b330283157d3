package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timercraft/internal/core/model"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.IncAction(model.ActionStart, ResultApplied)
	pr.IncAction(model.ActionStart, ResultApplied)
	pr.IncAction(model.ActionCancel, ResultIgnored)
	pr.SetElapsed(90 * time.Second)
	pr.SetRunState(model.StateStarted)
	pr.IncStoreError("save_session")

	assert.Equal(t, 2.0, testutil.ToFloat64(pr.actions.WithLabelValues("start", ResultApplied)))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.actions.WithLabelValues("cancel", ResultIgnored)))
	assert.Equal(t, 90.0, testutil.ToFloat64(pr.elapsed))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.runState.WithLabelValues("started")))
	assert.Equal(t, 0.0, testutil.ToFloat64(pr.runState.WithLabelValues("idle")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.storeErrors.WithLabelValues("save_session")))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestPrometheusRecorderHandler(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.SetElapsed(3 * time.Second)

	rec := httptest.NewRecorder()
	pr.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "timercraft_elapsed_seconds 3"))
}

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var recorder Recorder = NoopRecorder{}
	recorder.IncAction(model.ActionStop, ResultApplied)
	recorder.SetElapsed(time.Second)
	recorder.SetRunState(model.StateStopped)
	recorder.IncStoreError("load_session")
}
