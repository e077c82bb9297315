//go:build rp2040 || rp2350

package power

import (
	"device/rp"
	"machine"
	"time"

	"envlogger-go/types"
)

// Watchdog scratch registers survive a watchdog reset but not a power cut,
// which is what retained state needs here.
const (
	scratchMagic = 0x4C4F4721 // "LOG!"
	timerMagic   = 0x54494D52 // "TIMR"
)

// intPoll is how often DeepSleep samples INT while waiting.
const intPoll = 10 * time.Millisecond

// RP2Hardware waits for DS3231 INT (active low on intPin) or the fallback
// deadline, whichever comes first, then resets through the watchdog. On a
// power-gated board the RTC cuts power long before that and intPin is -1.
type RP2Hardware struct {
	intPin   int
	deadline time.Time
}

func NewRP2Hardware(intPin int) *RP2Hardware { return &RP2Hardware{intPin: intPin} }

// ResetReason reads back what DeepSleep left behind: the timer magic means
// the fallback fired, anything else (INT, power-up) is undefined.
func (h *RP2Hardware) ResetReason() types.WakeCause {
	if rp.WATCHDOG.REASON.HasBits(rp.WATCHDOG_REASON_TIMER) && rp.WATCHDOG.SCRATCH3.Get() == timerMagic {
		rp.WATCHDOG.SCRATCH3.Set(0)
		return types.WakeTimer
	}
	return types.WakeUndefined
}

func (h *RP2Hardware) ArmWakeTimer(d time.Duration) error {
	h.deadline = time.Now().Add(d)
	return nil
}

// IsolatePin floats the pin so no current flows into external pulls.
func (h *RP2Hardware) IsolatePin(pin int) error {
	machine.Pin(pin).Configure(machine.PinConfig{Mode: machine.PinInput})
	return nil
}

func (h *RP2Hardware) DeepSleep() error {
	var intLow func() bool
	if h.intPin >= 0 {
		p := machine.Pin(h.intPin)
		p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
		intLow = func() bool { return !p.Get() }
	}
	magic := uint32(timerMagic)
	if waitForWake(h.deadline, intLow, time.Now, time.Sleep, intPoll) {
		magic = 0
	}
	rp.WATCHDOG.SCRATCH3.Set(magic)
	machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 1})
	machine.Watchdog.Start()
	for {
	}
}

// ScratchStore is the RetainedStore in watchdog scratch 0..2.
type ScratchStore struct{}

func (ScratchStore) Load() (types.WakeContext, bool) {
	if rp.WATCHDOG.SCRATCH0.Get() != scratchMagic {
		return types.WakeContext{}, false
	}
	ms := int64(uint64(rp.WATCHDOG.SCRATCH2.Get())<<32 | uint64(rp.WATCHDOG.SCRATCH1.Get()))
	return types.WakeContext{SleepEnterMs: ms, Valid: true}, true
}

func (ScratchStore) Save(wc types.WakeContext) error {
	if !wc.Valid {
		rp.WATCHDOG.SCRATCH0.Set(0)
		return nil
	}
	rp.WATCHDOG.SCRATCH1.Set(uint32(wc.SleepEnterMs))
	rp.WATCHDOG.SCRATCH2.Set(uint32(uint64(wc.SleepEnterMs) >> 32))
	rp.WATCHDOG.SCRATCH0.Set(scratchMagic)
	return nil
}
