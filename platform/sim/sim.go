// Package sim is a logger board in virtual time: a ds3231sim RTC on the I2C
// bus, an afero volume standing in for the SD card and a power stage whose
// deep sleep runs the RTC forward until INT or the fallback timer fires.
//
// Each Cycle is one wake. Settle delays and sleep advance the same virtual
// clock, so the RTC, the retained sleep-entry timestamp and the elapsed
// sleep diagnostic agree with each other.
package sim

import (
	"errors"
	"io"
	"time"

	"github.com/spf13/afero"

	"envlogger-go/drivers/ds3231/ds3231sim"
	"envlogger-go/errcode"
	"envlogger-go/services/dutycycle"
	"envlogger-go/services/logsink"
	"envlogger-go/services/power"
	"envlogger-go/services/rtc"
	"envlogger-go/types"
	"envlogger-go/x/logx"
)

// Retained is a RetainedStore that a power cut can wipe.
type Retained interface {
	power.RetainedStore
	Clear() error
}

type Options struct {
	Config types.Config
	Fs     afero.Fs  // log volume backing; MemMapFs when nil
	Start  time.Time // initial RTC time
	Temp   types.CentiCelsius

	Console  io.Writer // nil discards
	Retained Retained  // in-memory when nil

	// PowerGated boards lose retained state when the RTC alarm brings power
	// back; only a fallback-timer wake keeps it.
	PowerGated bool
}

type Board struct {
	opt  Options
	RTC  *ds3231sim.Device
	Vol  *logsink.AferoVolume
	log  *logx.Logger
	ret  Retained
	mono time.Duration
	sub  time.Duration // sub-second remainder not yet applied to the RTC

	// BusFault fails OpenTimeSource, for Boot-failure runs.
	BusFault error

	deadline time.Duration // fallback timer, in mono time
	armed    bool
	cause    types.WakeCause
	opened   bool
	isolated []int
	sleeps   int
}

type memRetained struct{ power.MemStore }

func (m *memRetained) Clear() error { m.MemStore.Clear(); return nil }

func New(opt Options) *Board {
	if opt.Fs == nil {
		opt.Fs = afero.NewMemMapFs()
	}
	if opt.Start.IsZero() {
		opt.Start = time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	if opt.Retained == nil {
		opt.Retained = &memRetained{}
	}
	b := &Board{
		opt: opt,
		RTC: ds3231sim.New(opt.Start),
		Vol: logsink.NewAferoVolume(opt.Fs),
		log: logx.New(opt.Console, "sim"),
		ret: opt.Retained,
	}
	b.RTC.SetTemperature(int32(opt.Temp))
	return b
}

// Orchestrator assembles one wake's cycle on this board.
func (b *Board) Orchestrator() (*dutycycle.Orchestrator, error) {
	cfg := b.opt.Config
	return dutycycle.New(cfg, dutycycle.Deps{
		Board:    b,
		Sink:     logsink.New(b.Vol, b.log.With("logsink")),
		Power:    power.New(b, cfg.LeakagePins, b.log.With("power")),
		Retained: b.ret,
		Log:      b.log.With("cycle"),
		Sleep:    b.elapse,
		Mono:     func() time.Duration { return b.mono },
	})
}

// Cycle runs one wake.
func (b *Board) Cycle() (*dutycycle.Report, error) {
	o, err := b.Orchestrator()
	if err != nil {
		return nil, err
	}
	return o.Run(), nil
}

var ErrHalted = errors.New("sim: board halted")

// Run executes n cycles, stopping at the first Halted one: a halted board
// has no wake source left.
func (b *Board) Run(n int, each func(*dutycycle.Report)) error {
	for i := 0; i < n; i++ {
		rep, err := b.Cycle()
		if err != nil {
			return err
		}
		if each != nil {
			each(rep)
		}
		if rep.Final == dutycycle.Halted {
			return ErrHalted
		}
	}
	return nil
}

// elapse advances the virtual clock, carrying sub-second time until it adds
// up to whole RTC seconds.
func (b *Board) elapse(d time.Duration) {
	if d <= 0 {
		return
	}
	b.mono += d
	b.sub += d
	if s := b.sub.Truncate(time.Second); s > 0 {
		b.RTC.Advance(s)
		b.sub -= s
	}
}

// Mono is the virtual time since the board was created.
func (b *Board) Mono() time.Duration { return b.mono }

// ---- dutycycle.Board ----

func (b *Board) OpenTimeSource() (dutycycle.TimeSource, error) {
	if b.BusFault != nil {
		return nil, errcode.Wrap(errcode.BusFault, "sim.i2c", b.BusFault)
	}
	b.opened = true
	b.elapse(b.opt.Config.Delays.BusSettle)
	src, err := rtc.Open(b.RTC, b.opt.Config.RTCAddress)
	if err != nil {
		return nil, err
	}
	return src, nil
}

func (b *Board) ReleaseBuses() { b.opened = false }

// ---- power.Hardware ----

func (b *Board) ResetReason() types.WakeCause { return b.cause }

func (b *Board) ArmWakeTimer(d time.Duration) error {
	b.deadline, b.armed = b.mono+d, true
	return nil
}

func (b *Board) IsolatePin(pin int) error {
	b.isolated = append(b.isolated, pin)
	return nil
}

// ErrNoWakeSource is returned by DeepSleep when neither the RTC interrupt
// nor the fallback timer is armed.
var ErrNoWakeSource = errors.New("sim: no wake source armed")

// maxSleep bounds a sleep with only the RTC alarm armed.
const maxSleep = 48 * time.Hour

// DeepSleep runs the RTC forward to the first wake source.
func (b *Board) DeepSleep() error {
	if b.opened {
		b.log.Warn("deep sleep with buses open")
	}
	b.sleeps++
	if !b.armed && !b.alarmEnabled() {
		return ErrNoWakeSource
	}
	limit := maxSleep
	if b.armed {
		limit = b.deadline - b.mono
	}
	// Wakes land on RTC ticks.
	if b.sub > 0 {
		b.mono += time.Second - b.sub
		limit -= time.Second - b.sub
		b.sub = 0
		b.RTC.Advance(time.Second)
	}
	if limit < 0 {
		limit = 0
	}
	var d time.Duration
	fired := b.RTC.Interrupt()
	if !fired {
		d, fired = b.RTC.AdvanceUntilInterrupt(limit)
	}
	b.mono += d
	b.armed = false
	if fired {
		b.cause = types.WakeUndefined
		if b.opt.PowerGated {
			_ = b.ret.Clear()
		}
		return nil
	}
	b.cause = types.WakeTimer
	return nil
}

// alarmEnabled reads INTCN and A1IE/A2IE from the control register.
func (b *Board) alarmEnabled() bool {
	c := b.RTC.Register(0x0E)
	return c&0x04 != 0 && c&0x03 != 0
}

// Isolated returns the pins isolated so far, in order.
func (b *Board) Isolated() []int { return append([]int(nil), b.isolated...) }

// Sleeps counts deep-sleep entries.
func (b *Board) Sleeps() int { return b.sleeps }
