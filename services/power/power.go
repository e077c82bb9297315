// Package power is the duty cycle's PowerController: wake-cause
// classification, elapsed-sleep diagnostics, the fallback wake timer,
// leakage-pin isolation and deep-sleep entry.
package power

import (
	"errors"
	"time"

	"envlogger-go/errcode"
	"envlogger-go/types"
	"envlogger-go/x/logx"
)

// Hardware is the MCU seam. DeepSleep does not return on a board; a host
// implementation returns once the first wake source fires.
type Hardware interface {
	ResetReason() types.WakeCause
	ArmWakeTimer(d time.Duration) error
	IsolatePin(pin int) error
	DeepSleep() error
}

// RetainedStore keeps the WakeContext across deep sleep.
type RetainedStore interface {
	Load() (types.WakeContext, bool)
	Save(types.WakeContext) error
}

var ErrTimerRange = errors.New("power: wake timer out of range")

type Controller struct {
	hw   Hardware
	pins []int
	log  *logx.Logger
}

func New(hw Hardware, leakagePins []int, log *logx.Logger) *Controller {
	return &Controller{hw: hw, pins: leakagePins, log: log}
}

// ElapsedSinceLastSleep is nowMs minus the recorded sleep entry. It is not
// applicable without a valid context or when the clock went backwards.
func (c *Controller) ElapsedSinceLastSleep(wc types.WakeContext, nowMs int64) (time.Duration, bool) {
	if !wc.Valid || nowMs < wc.SleepEnterMs {
		return 0, false
	}
	return time.Duration(nowMs-wc.SleepEnterMs) * time.Millisecond, true
}

// ClassifyWakeCause is diagnostic only; the cycle runs the same either way.
func (c *Controller) ClassifyWakeCause() types.WakeCause {
	return c.hw.ResetReason()
}

// ArmFallbackTimer arms the MCU wake timer, the backstop for a missed RTC
// alarm.
func (c *Controller) ArmFallbackTimer(d time.Duration) error {
	if d <= 0 {
		return errcode.Wrap(errcode.WakeTimer, "power.arm_fallback_timer", ErrTimerRange)
	}
	return errcode.Wrap(errcode.WakeTimer, "power.arm_fallback_timer", c.hw.ArmWakeTimer(d))
}

// IsolateLeakagePins disconnects every configured pin. All pins are tried;
// the failures come back joined.
func (c *Controller) IsolateLeakagePins() error {
	var errs []error
	for _, p := range c.pins {
		if err := c.hw.IsolatePin(p); err != nil {
			c.log.Warn("isolate pin", p, err)
			errs = append(errs, err)
		}
	}
	return errcode.Wrap(errcode.PinIsolate, "power.isolate_leakage_pins", errors.Join(errs...))
}

func (c *Controller) EnterDeepSleep() error {
	return c.hw.DeepSleep()
}

// MemStore is a RetainedStore in ordinary memory: it survives a simulated
// sleep, not a power cut.
type MemStore struct {
	wc  types.WakeContext
	set bool
}

func (m *MemStore) Load() (types.WakeContext, bool) { return m.wc, m.set && m.wc.Valid }

func (m *MemStore) Save(wc types.WakeContext) error {
	m.wc, m.set = wc, true
	return nil
}

// Clear forgets the stored context, as a cold boot would.
func (m *MemStore) Clear() { m.wc, m.set = types.WakeContext{}, false }
