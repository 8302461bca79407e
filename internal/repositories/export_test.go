package repositories

import "time"

// SetTimeNow swaps the repository clock, forgets the last handed out stamp
// and returns a func restoring both.
func SetTimeNow(now func() time.Time) func() {
	stampMu.Lock()
	prevClock, prevStamp := clock, lastStamp
	clock, lastStamp = now, time.Time{}
	stampMu.Unlock()

	return func() {
		stampMu.Lock()
		clock, lastStamp = prevClock, prevStamp
		stampMu.Unlock()
	}
}
