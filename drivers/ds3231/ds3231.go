// Package ds3231 provides a minimal TinyGo driver for the DS3231 RTC.
//
// Design notes (datasheet references):
// • I2C, 400kHz, register pointer auto-increment; time and alarms in BCD.
// • Status flags A1F/A2F/OSF are cleared by writing 0; writing 1 is ignored.
// • Temperature is a 10-bit two's complement value in 0.25 °C steps.
// • INT/SQW is open drain; with INTCN set it asserts low on an enabled alarm.
// • BBSQW keeps INT/SQW active while running from VBAT.
package ds3231

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"

	"envlogger-go/types"
)

var (
	ErrInvalidTime  = errors.New("ds3231: invalid time")
	ErrInvalidAlarm = errors.New("ds3231: invalid alarm")
	ErrInvalidReg   = errors.New("ds3231: invalid register")
)

type Config struct {
	// Address defaults to 0x68 if zero.
	Address uint16
}

type Device struct {
	i2c  drivers.I2C
	addr uint16

	// Fixed buffers to avoid per-call heap allocations.
	w [8]byte
	r [7]byte
}

// New creates a driver for an RTC on an already configured bus. It does not
// touch the device.
func New(i2c drivers.I2C, cfg Config) *Device {
	addr := cfg.Address
	if addr == 0 {
		addr = Address
	}
	return &Device{i2c: i2c, addr: addr}
}

// Addr returns the 7-bit bus address in use.
func (d *Device) Addr() uint16 { return d.addr }

// Probe reads the status register once to confirm the device answers.
func (d *Device) Probe() error {
	_, err := d.readReg(RegStatus)
	return err
}

// ---------------- Timekeeping ----------------

func (d *Device) ReadTime() (time.Time, error) {
	r, err := d.readBurst(regSeconds, 7)
	if err != nil {
		return time.Time{}, err
	}
	return decodeTime(r)
}

// SetTime programs the calendar in 24 h mode and clears OSF.
func (d *Device) SetTime(t time.Time) error {
	var buf [7]byte
	if err := encodeTime(t, buf[:]); err != nil {
		return err
	}
	if err := d.writeBurst(regSeconds, buf[:]); err != nil {
		return err
	}
	return d.modifyReg(RegStatus, 0, StatOSF)
}

// OscillatorStopped reports OSF: the oscillator stopped at some point (first
// power-up, VBAT loss) and the time is suspect.
func (d *Device) OscillatorStopped() (bool, error) {
	st, err := d.readReg(RegStatus)
	if err != nil {
		return false, err
	}
	return st&StatOSF != 0, nil
}

// ---------------- Temperature ----------------

// ReadTemperature returns the last TCXO conversion in quarter degrees.
func (d *Device) ReadTemperature() (int16, error) {
	r, err := d.readBurst(regTempMSB, 2)
	if err != nil {
		return 0, err
	}
	return decodeTemp(r[0], r[1]), nil
}

// ---------------- Generic register control ----------------

func (d *Device) ReadRegister(reg byte) (byte, error) {
	if reg > regTempLSB {
		return 0, ErrInvalidReg
	}
	return d.readReg(reg)
}

func (d *Device) WriteRegister(reg, val byte) error {
	if reg > regTempLSB {
		return ErrInvalidReg
	}
	return d.writeReg(reg, val)
}

// SetFlag updates bits of a single register. FlagReplace overwrites the
// whole register; FlagSet/FlagClear merge with the current value.
func (d *Device) SetFlag(reg, bits byte, mode types.FlagMode) error {
	if reg > regTempLSB {
		return ErrInvalidReg
	}
	cur, err := d.readReg(reg)
	if err != nil {
		return err
	}
	return d.writeReg(reg, mode.Apply(cur, bits))
}
