package metrics

import (
	"time"

	"timercraft/internal/core/model"
)

// Result labels for action counters.
const (
	ResultApplied = "applied"
	ResultIgnored = "ignored"
)

// Recorder defines observability hooks for the stopwatch. Implementations may
// forward to Prometheus; NoopRecorder is used when metrics are disabled.
type Recorder interface {
	IncAction(action model.Action, result string)
	SetElapsed(d time.Duration)
	SetRunState(state model.RunState)
	IncStoreError(op string)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) IncAction(model.Action, string) {}
func (NoopRecorder) SetElapsed(time.Duration) {}
func (NoopRecorder) SetRunState(model.RunState) {}
func (NoopRecorder) IncStoreError(string) {}
