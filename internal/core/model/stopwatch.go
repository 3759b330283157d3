package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownAction indicates an action identifier that does not map to an Action.
var ErrUnknownAction = errors.New("unknown action")

// RunState is the run status of the stopwatch.
type RunState string

const (
	StateIdle    RunState = "idle"
	StateStarted RunState = "started"
	StateStopped RunState = "stopped"
)

// Valid reports whether the state is one of the known variants.
func (state RunState) Valid() bool {
	switch state {
	case StateIdle, StateStarted, StateStopped:
		return true
	}
	return false
}

// Action is a command sent to the stopwatch service.
type Action string

const (
	ActionStart  Action = "ACTION_SERVICE_START"
	ActionStop   Action = "ACTION_SERVICE_STOP"
	ActionCancel Action = "ACTION_SERVICE_CANCEL"
)

// Short returns the lower-case verb for the action.
func (action Action) Short() string {
	switch action {
	case ActionStart:
		return "start"
	case ActionStop:
		return "stop"
	case ActionCancel:
		return "cancel"
	}
	return ""
}

// ParseAction accepts either the full identifier or the short verb.
func ParseAction(value string) (Action, error) {
	trimmed := strings.TrimSpace(value)
	switch strings.ToLower(trimmed) {
	case "start", strings.ToLower(string(ActionStart)):
		return ActionStart, nil
	case "stop", strings.ToLower(string(ActionStop)):
		return ActionStop, nil
	case "cancel", strings.ToLower(string(ActionCancel)):
		return ActionCancel, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, value)
}

// TimerReading holds the rendered elapsed-time fields.
type TimerReading struct {
	Hours   string `json:"hours"`
	Minutes string `json:"minutes"`
	Seconds string `json:"seconds"`
}

// ZeroReading is the reading of a stopwatch that has not counted anything.
var ZeroReading = TimerReading{Hours: "00", Minutes: "00", Seconds: "00"}

// NewTimerReading splits an elapsed duration into zero-padded fields.
// Hours are not wrapped, so a reading can exceed "99".
func NewTimerReading(elapsed time.Duration) TimerReading {
	if elapsed < 0 {
		elapsed = 0
	}
	total := int64(elapsed / time.Second)
	return TimerReading{
		Hours:   fmt.Sprintf("%02d", total/3600),
		Minutes: fmt.Sprintf("%02d", (total/60)%60),
		Seconds: fmt.Sprintf("%02d", total%60),
	}
}

// String renders the reading as HH:MM:SS.
func (reading TimerReading) String() string {
	return reading.Hours + ":" + reading.Minutes + ":" + reading.Seconds
}

// StopwatchConfig contains runtime settings for the stopwatch service.
type StopwatchConfig struct {
	TickInterval time.Duration
}
