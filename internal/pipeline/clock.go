package pipeline

import "time"

// Clock abstracts wall time and the flush ticker so tests can drive the
// timer trigger without waiting out the interval.
type Clock interface {
	Now() time.Time
	// Tick returns a channel that delivers at every interval and a stop
	// function releasing the underlying resources.
	Tick(interval time.Duration) (<-chan time.Time, func())
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Tick(interval time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(interval)
	return t.C, t.Stop
}
