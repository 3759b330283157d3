package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"timercraft/internal/core/model"
)

var runStates = []model.RunState{model.StateIdle, model.StateStarted, model.StateStopped}

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry    *prom.Registry
	actions     *prom.CounterVec
	elapsed     prom.Gauge
	runState    *prom.GaugeVec
	storeErrors *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the stopwatch metrics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		registry: reg,
		actions: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "timercraft",
			Name:      "actions_total",
			Help:      "Actions received by the stopwatch by outcome",
		}, []string{"action", "result"}),
		elapsed: prom.NewGauge(prom.GaugeOpts{
			Namespace: "timercraft",
			Name:      "elapsed_seconds",
			Help:      "Elapsed time currently shown by the stopwatch",
		}),
		runState: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: "timercraft",
			Name:      "run_state",
			Help:      "1 for the current run state, 0 otherwise",
		}, []string{"state"}),
		storeErrors: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "timercraft",
			Name:      "store_errors_total",
			Help:      "Session store failures by operation",
		}, []string{"op"}),
	}
	reg.MustRegister(pr.actions, pr.elapsed, pr.runState, pr.storeErrors)
	pr.SetRunState(model.StateIdle)
	return pr
}

func (pr *PrometheusRecorder) IncAction(action model.Action, result string) {
	pr.actions.WithLabelValues(action.Short(), result).Inc()
}

func (pr *PrometheusRecorder) SetElapsed(d time.Duration) {
	pr.elapsed.Set(d.Seconds())
}

func (pr *PrometheusRecorder) SetRunState(state model.RunState) {
	for _, candidate := range runStates {
		value := 0.0
		if candidate == state {
			value = 1
		}
		pr.runState.WithLabelValues(string(candidate)).Set(value)
	}
}

func (pr *PrometheusRecorder) IncStoreError(op string) {
	pr.storeErrors.WithLabelValues(op).Inc()
}

// Handler exposes the recorder's registry over HTTP.
func (pr *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(pr.registry, promhttp.HandlerOpts{})
}
