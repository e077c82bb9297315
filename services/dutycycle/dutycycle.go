// Package dutycycle runs one wake → measure → log → arm → sleep pass.
//
// A cycle is a straight line through the states below. It never loops: on a
// board EnterDeepSleep does not return and the next wake starts a fresh
// process at Boot. Every failure after Boot is logged and the cycle goes on,
// because a cycle that does not re-arm its wake sources never runs again.
package dutycycle

import (
	"time"

	"envlogger-go/drivers/ds3231"
	"envlogger-go/errcode"
	"envlogger-go/services/logsink"
	"envlogger-go/types"
	"envlogger-go/x/logx"
)

type State uint8

const (
	Boot State = iota
	Measuring
	Logging
	Arming
	Sleeping
	Halted
)

var stateNames = [...]string{"boot", "measuring", "logging", "arming", "sleeping", "halted"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "state?"
}

// ---- collaborators ----

type TimeSource interface {
	ReadTime() (time.Time, error)
	ReadTemperature() (types.CentiCelsius, error)
	SetStatusFlag(bits uint8, mode types.FlagMode) error
	OscillatorStopped() (bool, error)
	ClearAlarmFlags(id types.AlarmID) error
	SetAlarm(spec types.AlarmSpec) error
	EnableAlarmInterrupt(id types.AlarmID) error
	DisableAlarmInterrupt(id types.AlarmID) error
}

type LogSink interface {
	Mount(cfg types.VolumeConfig) (*logsink.Handle, error)
	Append(h *logsink.Handle, record string) error
	Unmount(h *logsink.Handle) error
}

type PowerController interface {
	ElapsedSinceLastSleep(wc types.WakeContext, nowMs int64) (time.Duration, bool)
	ClassifyWakeCause() types.WakeCause
	ArmFallbackTimer(d time.Duration) error
	IsolateLeakagePins() error
	EnterDeepSleep() error
}

type RetainedStore interface {
	Load() (types.WakeContext, bool)
	Save(types.WakeContext) error
}

// Board owns the buses. OpenTimeSource brings up I2C and probes the RTC;
// ReleaseBuses tears down whatever was brought up.
type Board interface {
	OpenTimeSource() (TimeSource, error)
	ReleaseBuses()
}

type Deps struct {
	Board    Board
	Sink     LogSink
	Power    PowerController
	Retained RetainedStore
	Log      *logx.Logger

	// Sleep blocks for a settle delay. Mono is a monotonic clock used to
	// carry the RTC time forward to the moment of sleep entry.
	Sleep func(time.Duration)
	Mono  func() time.Duration
}

type Orchestrator struct {
	cfg  types.Config
	rate types.AlarmRate
	d    Deps
}

// New checks what a cycle cannot run without: every collaborator and a
// programmable alarm.
func New(cfg types.Config, d Deps) (*Orchestrator, error) {
	const op = "dutycycle.new"
	if d.Board == nil || d.Sink == nil || d.Power == nil || d.Retained == nil {
		return nil, errcode.New(errcode.InvalidConfig, op, "missing collaborator")
	}
	rate, ok := types.ParseAlarmRate(cfg.AlarmRate)
	if !ok || !rate.Valid(cfg.AlarmID) {
		return nil, errcode.New(errcode.InvalidConfig, op, "alarm "+cfg.AlarmID.String()+" cannot run "+cfg.AlarmRate)
	}
	if d.Log == nil {
		d.Log = logx.Discard()
	}
	if d.Sleep == nil {
		d.Sleep = time.Sleep
	}
	if d.Mono == nil {
		start := time.Now()
		d.Mono = func() time.Duration { return time.Since(start) }
	}
	return &Orchestrator{cfg: cfg, rate: rate, d: d}, nil
}

// cycle is the state of one pass.
type cycle struct {
	*Orchestrator
	r       *Report
	ts      TimeSource
	capture time.Duration // Mono at time read
}

// Run executes one cycle and returns what happened. On a board it only
// returns when Boot halts or EnterDeepSleep fails.
func (o *Orchestrator) Run() *Report {
	c := &cycle{Orchestrator: o, r: &Report{}}
	if !c.boot() {
		c.r.Final = Halted
		c.d.Log.Error("halted: no time source")
		return c.r
	}
	c.measure()
	c.logging()
	c.arm()
	c.sleep()
	return c.r
}

func (c *cycle) enter(s State) {
	c.r.Final = s
	c.d.Log.Info("state", s)
}

func (c *cycle) step(name string) { c.r.Steps = append(c.r.Steps, name) }

// fail records err against the current state and returns the table's
// verdict. A nil err is Continue.
func (c *cycle) fail(step string, err error) Action {
	if err == nil {
		return Continue
	}
	code := errcode.Of(err)
	c.r.Failures = append(c.r.Failures, Failure{Stage: c.r.Final, Step: step, Code: code, Err: err})
	a := Decide(c.r.Final, code)
	c.d.Log.Warn(step, code, err, a)
	return a
}

func (c *cycle) boot() bool {
	c.enter(Boot)
	c.step("boot.settle")
	c.d.Sleep(c.cfg.Delays.BootSettle)
	c.step("boot.open_time_source")
	ts, err := c.d.Board.OpenTimeSource()
	if err == nil && ts == nil {
		err = errcode.New(errcode.BusFault, "dutycycle.boot", "no time source")
	}
	if c.fail("boot.open_time_source", err) == Halt {
		c.d.Board.ReleaseBuses()
		return false
	}
	c.ts = ts
	return true
}

func (c *cycle) measure() {
	c.enter(Measuring)
	s := &c.r.Sample

	c.step("measure.temperature")
	temp, err := c.ts.ReadTemperature()
	c.fail("measure.temperature", err)
	if err == nil {
		s.Temp, s.TempOK = temp, true
	}

	c.step("measure.time")
	now, err := c.ts.ReadTime()
	c.capture = c.d.Mono()
	c.fail("measure.time", err)
	if err == nil {
		s.Time, s.TimeOK = now, true
	}

	if stopped, err := c.ts.OscillatorStopped(); err == nil && stopped {
		c.d.Log.Warn("rtc oscillator stopped; time is suspect")
	}

	c.r.Cause = c.d.Power.ClassifyWakeCause()
	wc, _ := c.d.Retained.Load()
	if ms, ok := s.UnixMilli(); ok {
		c.r.Slept, c.r.SleptOK = c.d.Power.ElapsedSinceLastSleep(wc, ms)
	}
	if c.r.SleptOK {
		c.d.Log.Info("wake", c.r.Cause, "slept", c.r.Slept)
	} else {
		c.d.Log.Info("wake", c.r.Cause, "slept n/a")
	}
	if s.TimeOK {
		c.d.Log.Info("time", s.Time)
	}
	if s.TempOK {
		c.d.Log.Info("temp", s.Temp, "C")
	}
}

func (c *cycle) logging() {
	c.enter(Logging)

	if c.cfg.BackupSquareWave {
		c.step("log.backup_square_wave")
		c.fail("log.backup_square_wave", c.ts.SetStatusFlag(ds3231.CtrlBBSQW, types.FlagSet))
	}

	c.step("log.mount")
	h, err := c.d.Sink.Mount(c.cfg.Volume)
	if c.fail("log.mount", err) == SkipStage {
		return
	}

	if rec, ok := Record(c.r.Sample, c.cfg.Policy); ok {
		c.step("log.append")
		c.r.Record = rec
		err := c.d.Sink.Append(h, rec)
		c.fail("log.append", err)
		c.r.Appended = err == nil
	} else {
		c.d.Log.Warn("record skipped by policy")
	}

	c.step("log.unmount")
	c.fail("log.unmount", errcode.Wrap(errcode.Write, "logsink.unmount", c.d.Sink.Unmount(h)))
	c.step("log.power_down")
	c.d.Sleep(c.cfg.Delays.StoragePowerDown)
}

// arm runs every step whatever happened before it.
func (c *cycle) arm() {
	c.enter(Arming)
	spec := NextAlarm(c.r.Sample, c.cfg.AlarmID, c.rate, c.cfg.WakePeriod)
	c.r.Alarm = spec

	// The alarm that woke us may not be the one armed now (a match rate
	// degrades to alarm 2 without a time). Its enable and flag would hold
	// INT asserted, so it is disabled and both flags are cleared.
	if other := types.AlarmBoth &^ spec.ID; other != 0 {
		c.step("arm.disable_other_alarm")
		c.fail("arm.disable_other_alarm", c.ts.DisableAlarmInterrupt(other))
	}
	c.step("arm.clear_alarm_flags")
	c.fail("arm.clear_alarm_flags", c.ts.ClearAlarmFlags(types.AlarmBoth))
	c.step("arm.set_alarm")
	c.fail("arm.set_alarm", c.ts.SetAlarm(spec))
	c.step("arm.enable_alarm_interrupt")
	c.fail("arm.enable_alarm_interrupt", c.ts.EnableAlarmInterrupt(spec.ID))
	c.step("arm.fallback_timer")
	c.fail("arm.fallback_timer", c.d.Power.ArmFallbackTimer(c.cfg.FallbackTimer))
	c.step("arm.isolate_pins")
	c.fail("arm.isolate_pins", c.d.Power.IsolateLeakagePins())
	c.step("arm.pre_sleep")
	c.d.Sleep(c.cfg.Delays.PreSleep)
}

func (c *cycle) sleep() {
	c.enter(Sleeping)

	// RTC time carried forward by the monotonic time spent since capture.
	wc := types.WakeContext{}
	if ms, ok := c.r.Sample.UnixMilli(); ok {
		wc = types.WakeContext{SleepEnterMs: ms + (c.d.Mono() - c.capture).Milliseconds(), Valid: true}
	}
	c.r.Entry = wc
	c.step("sleep.save_wake_context")
	c.fail("sleep.save_wake_context", errcode.Wrap(errcode.Retained, "dutycycle.sleep", c.d.Retained.Save(wc)))

	c.step("sleep.release_buses")
	c.d.Board.ReleaseBuses()
	c.step("sleep.enter")
	c.d.Log.Info("sleeping; alarm", c.r.Alarm.ID, c.r.Alarm.Rate, "fallback", c.cfg.FallbackTimer)
	c.fail("sleep.enter", c.d.Power.EnterDeepSleep())
}
