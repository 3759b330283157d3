package stopwatch

import "time"

// Clock abstracts wall time so elapsed time can be tested.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
