package power

import "time"

// waitForWake blocks until intLow reports the RTC interrupt or the fallback
// deadline passes, polling every step. A nil intLow means INT is not wired
// to a GPIO and only the deadline counts; a zero deadline means no fallback
// timer is armed. It reports whether INT fired.
func waitForWake(deadline time.Time, intLow func() bool, now func() time.Time, sleep func(time.Duration), step time.Duration) bool {
	for {
		if intLow != nil && intLow() {
			return true
		}
		d := step
		switch {
		case !deadline.IsZero():
			left := deadline.Sub(now())
			if left <= 0 {
				return false
			}
			if intLow == nil || left < d {
				d = left
			}
		case intLow == nil:
			return false
		}
		sleep(d)
	}
}
