package stopwatch

import (
	"time"

	"timercraft/internal/core/model"
)

// EventType defines the type of stopwatch event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventTick        EventType = "tick"
)

// Snapshot is the observable state of the stopwatch at one instant.
type Snapshot struct {
	State   model.RunState     `json:"state"`
	Reading model.TimerReading `json:"reading"`
	Elapsed time.Duration      `json:"elapsed_ns"`
}

// Event represents a stopwatch update for observers.
type Event struct {
	Type     EventType
	Action   model.Action
	Snapshot Snapshot
	At       time.Time
}
