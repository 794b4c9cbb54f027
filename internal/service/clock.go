package service

import "time"

// Clock schedules poll ticks. The poller only ever waits through this
// interface, so tests can substitute an immediate or scripted clock and run
// the full state machine without real delays.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
