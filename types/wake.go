package types

// WakeCause is the coarse reason for the current boot. It informs logging
// only; control flow is identical for every cause.
type WakeCause uint8

const (
	WakeUndefined WakeCause = iota // cold boot, external reset, RTC power gate
	WakeTimer                      // fallback wake timer expired
)

func (c WakeCause) String() string {
	if c == WakeTimer {
		return "timer"
	}
	return "undefined"
}

// WakeContext is the state retained across deep sleep. It is absent after a
// cold boot, written once per cycle right before sleep and read once per
// cycle after wake. Diagnostic only.
type WakeContext struct {
	SleepEnterMs int64 // wall clock (RTC-derived) Unix ms at sleep entry
	Valid        bool
}
