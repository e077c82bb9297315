// Package rtc is the duty cycle's TimeSource: wall-clock time, temperature,
// the control/status flags and the alarm-arming protocol of a DS3231.
//
// Every failure comes back as an errcode.E whose code names the operation
// (time_read, temp_read, register_access, alarm_program); bus-level causes
// are wrapped as bus_fault underneath.
package rtc

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"

	"envlogger-go/drivers/ds3231"
	"envlogger-go/errcode"
	"envlogger-go/types"
)

// ErrProtocol rejects an arming step issued out of order. The order is
// clear flags, program alarm, enable interrupt; enabling against a stale
// flag asserts INT at once and wakes the board straight back up.
var ErrProtocol = errors.New("rtc: alarm steps out of order (want clear, set, enable)")

// Arming stages per alarm. A stage advances when the step is attempted, even
// if the bus transaction fails, so later steps still run best-effort.
const (
	stageIdle uint8 = iota
	stageCleared
	stageSet
)

type Source struct {
	dev   *ds3231.Device
	stage [2]uint8 // index 0 = alarm 1, 1 = alarm 2
}

// Open binds a DS3231 on an initialised bus and probes it. A failure here
// means there is no RTC to run a cycle against.
func Open(bus drivers.I2C, addr uint16) (*Source, error) {
	dev := ds3231.New(bus, ds3231.Config{Address: addr})
	if err := dev.Probe(); err != nil {
		return nil, errcode.Wrap(errcode.BusFault, "rtc.open", err)
	}
	return &Source{dev: dev}, nil
}

func (s *Source) ReadTime() (time.Time, error) {
	t, err := s.dev.ReadTime()
	if err != nil {
		return time.Time{}, wrap(errcode.TimeRead, "rtc.read_time", err)
	}
	return t, nil
}

func (s *Source) ReadTemperature() (types.CentiCelsius, error) {
	q, err := s.dev.ReadTemperature()
	if err != nil {
		return 0, wrap(errcode.TempRead, "rtc.read_temperature", err)
	}
	return types.FromQuarterCelsius(q), nil
}

// SetStatusFlag read-modify-writes the control register (BBSQW, INTCN, the
// alarm enables).
func (s *Source) SetStatusFlag(bits uint8, mode types.FlagMode) error {
	return wrap(errcode.RegisterAccess, "rtc.set_status_flag", s.dev.SetFlag(ds3231.RegControl, bits, mode))
}

// OscillatorStopped reports whether the RTC lost its oscillator since the
// time was last set.
func (s *Source) OscillatorStopped() (bool, error) {
	stopped, err := s.dev.OscillatorStopped()
	return stopped, wrap(errcode.RegisterAccess, "rtc.oscillator_stopped", err)
}

// ---- alarm protocol ----

func (s *Source) ClearAlarmFlags(id types.AlarmID) error {
	s.advance(id, stageCleared)
	return wrap(errcode.AlarmProgram, "rtc.clear_alarm_flags", s.dev.ClearAlarmFlags(id))
}

func (s *Source) SetAlarm(spec types.AlarmSpec) error {
	if !s.reached(spec.ID, stageCleared) {
		return errcode.Wrap(errcode.AlarmProgram, "rtc.set_alarm", ErrProtocol)
	}
	s.advance(spec.ID, stageSet)
	return wrap(errcode.AlarmProgram, "rtc.set_alarm", s.dev.SetAlarm(spec))
}

func (s *Source) EnableAlarmInterrupt(id types.AlarmID) error {
	if !s.reached(id, stageSet) {
		return errcode.Wrap(errcode.AlarmProgram, "rtc.enable_alarm_interrupt", ErrProtocol)
	}
	s.advance(id, stageIdle)
	return wrap(errcode.AlarmProgram, "rtc.enable_alarm_interrupt", s.dev.EnableAlarmInterrupt(id))
}

// DisableAlarmInterrupt turns off AxIE for id. Always allowed, since a
// disabled alarm cannot assert INT; it drops id back to the start of the
// protocol.
func (s *Source) DisableAlarmInterrupt(id types.AlarmID) error {
	s.advance(id, stageIdle)
	return wrap(errcode.AlarmProgram, "rtc.disable_alarm_interrupt", s.dev.DisableAlarmInterrupt(id))
}

func (s *Source) advance(id types.AlarmID, st uint8) {
	for i := range s.stage {
		if id&(1<<i) != 0 {
			s.stage[i] = st
		}
	}
}

func (s *Source) reached(id types.AlarmID, st uint8) bool {
	if id&types.AlarmBoth == 0 {
		return false
	}
	for i := range s.stage {
		if id&(1<<i) != 0 && s.stage[i] != st {
			return false
		}
	}
	return true
}

// wrap tags err with c. Driver validation errors stay as they are; anything
// else came off the bus.
func wrap(c errcode.Code, op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ds3231.ErrInvalidTime),
		errors.Is(err, ds3231.ErrInvalidAlarm),
		errors.Is(err, ds3231.ErrInvalidReg):
	default:
		err = errcode.Wrap(errcode.BusFault, "i2c", err)
	}
	return errcode.Wrap(c, op, err)
}
