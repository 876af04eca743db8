package room

import "time"

// Scheduler drives the periodic broadcast of every room. It is defined here,
// not in the timer package, so tests can substitute a manual clock.
type Scheduler interface {
	AddTimer(delay, interval time.Duration, callback func()) int64
	RemoveTimer(timerID int64)
}
