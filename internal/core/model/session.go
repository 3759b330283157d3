package model

import "time"

// Session is the persisted state of a stopwatch.
type Session struct {
	State       RunState
	Accumulated time.Duration
	StartedAt   time.Time
	UpdatedAt   time.Time
}

// ActionRecord is a single applied action in the stopwatch history.
type ActionRecord struct {
	ID         string        `json:"id"`
	Action     Action        `json:"action"`
	From       RunState      `json:"from"`
	To         RunState      `json:"to"`
	Elapsed    time.Duration `json:"elapsed_ns"`
	OccurredAt time.Time     `json:"occurred_at"`
}
