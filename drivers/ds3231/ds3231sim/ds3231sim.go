// Package ds3231sim emulates a DS3231 behind the tinygo drivers.I2C Tx shape.
//
// The register file tracks a virtual clock: reads of 0x00..0x06 return the
// current time, writes to them set it. Advance steps the clock one second at
// a time, raising A1F/A2F on alarm matches; Interrupt reports the INT/SQW
// line as the MOSFET gate or wake pin would see it. Faults can be injected
// per register so that tests can break a single bus transaction.
package ds3231sim

import (
	"errors"
	"sync"
	"time"

	"envlogger-go/x/mathx"
)

const Address = 0x68

const (
	nRegs = 0x13

	regControl = 0x0E
	regStatus  = 0x0F
	regTempMSB = 0x11
	regTempLSB = 0x12

	ctrlA1IE  = 1 << 0
	ctrlA2IE  = 1 << 1
	ctrlINTCN = 1 << 2

	statA1F = 1 << 0
	statA2F = 1 << 1
	statOSF = 1 << 7

	// Bits that can only be cleared by the host.
	statClearOnly = statA1F | statA2F | statOSF
)

// ErrNack is returned for transactions addressed to anything but 0x68.
var ErrNack = errors.New("ds3231sim: nack")

// Write records one register write burst.
type Write struct {
	Reg  byte
	Data []byte
}

type Device struct {
	mu     sync.Mutex
	regs   [nRegs]byte
	now    time.Time
	faults map[byte]error
	all    error
	writes []Write
}

// New returns an emulator whose clock starts at start (truncated to whole
// seconds). Power-on defaults: INTCN|RS2|RS1 in control, OSF|EN32kHz in
// status.
func New(start time.Time) *Device {
	d := &Device{
		now:    start.UTC().Truncate(time.Second),
		faults: make(map[byte]error),
	}
	d.regs[regControl] = 0x1C
	d.regs[regStatus] = 0x88
	return d
}

// Tx implements drivers.I2C.
func (d *Device) Tx(addr uint16, w, r []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if addr != Address {
		return ErrNack
	}
	if d.all != nil {
		return d.all
	}
	if len(w) == 0 {
		return ErrNack
	}
	ptr := w[0]
	if ptr >= nRegs {
		return ErrNack
	}
	data := w[1:]
	if err := d.faultIn(ptr, len(data)); err != nil {
		return err
	}
	if err := d.faultIn(ptr, len(r)); err != nil {
		return err
	}

	if len(data) > 0 {
		d.writes = append(d.writes, Write{Reg: ptr, Data: append([]byte(nil), data...)})
		d.syncTime()
		touchesTime := false
		for i, b := range data {
			reg := (int(ptr) + i) % nRegs
			if reg <= 0x06 {
				touchesTime = true
			}
			d.store(byte(reg), b)
		}
		if touchesTime {
			if t, ok := decodeTime(d.regs[:7]); ok {
				d.now = t
			}
		}
	}
	if len(r) > 0 {
		d.syncTime()
		for i := range r {
			r[i] = d.regs[(int(ptr)+i)%nRegs]
		}
	}
	return nil
}

func (d *Device) faultIn(ptr byte, n int) error {
	for i := 0; i < n; i++ {
		if err := d.faults[byte((int(ptr)+i)%nRegs)]; err != nil {
			return err
		}
	}
	return nil
}

func (d *Device) store(reg, b byte) {
	switch reg {
	case regStatus:
		old := d.regs[regStatus]
		d.regs[regStatus] = (b &^ statClearOnly) | (old & b & statClearOnly)
	case regTempMSB, regTempLSB:
		// read-only
	default:
		d.regs[reg] = b
	}
}

func (d *Device) syncTime() { encodeTime(d.now, d.regs[:7]) }

// ---- Test and simulator controls ----

func (d *Device) Now() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.now
}

// SetTime moves the clock without touching flags.
func (d *Device) SetTime(t time.Time) {
	d.mu.Lock()
	d.now = t.UTC().Truncate(time.Second)
	d.mu.Unlock()
}

// SetTemperature loads the temperature registers; centi is rounded down to
// the device's 0.25 °C resolution and held to its -128..127.75 °C range.
func (d *Device) SetTemperature(centi int32) {
	q := centi / 25
	if centi < 0 && centi%25 != 0 {
		q--
	}
	q = mathx.Clamp(q, -512, 511)
	d.mu.Lock()
	d.regs[regTempMSB] = byte(int8(q >> 2))
	d.regs[regTempLSB] = byte((q & 3) << 6)
	d.mu.Unlock()
}

func (d *Device) Register(reg byte) byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.syncTime()
	return d.regs[reg%nRegs]
}

// SetRegister writes a raw value, bypassing the clear-only rules.
func (d *Device) SetRegister(reg, v byte) {
	d.mu.Lock()
	d.regs[reg%nRegs] = v
	d.mu.Unlock()
}

// FailRegister makes every transaction touching reg fail with err. A nil err
// removes the fault.
func (d *Device) FailRegister(reg byte, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err == nil {
		delete(d.faults, reg)
		return
	}
	d.faults[reg] = err
}

// FailAll makes every transaction fail with err (nil restores the bus).
func (d *Device) FailAll(err error) {
	d.mu.Lock()
	d.all = err
	d.mu.Unlock()
}

// Writes returns a copy of the write log.
func (d *Device) Writes() []Write {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Write(nil), d.writes...)
}

// Interrupt reports whether INT/SQW is asserted (active low on the pin).
func (d *Device) Interrupt() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.interrupt()
}

func (d *Device) interrupt() bool {
	c, s := d.regs[regControl], d.regs[regStatus]
	if c&ctrlINTCN == 0 {
		return false
	}
	return (c&ctrlA1IE != 0 && s&statA1F != 0) || (c&ctrlA2IE != 0 && s&statA2F != 0)
}

// Advance moves the clock forward by whole seconds, evaluating the alarms at
// every tick.
func (d *Device) Advance(dur time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for n := int64(dur / time.Second); n > 0; n-- {
		d.tick()
	}
}

// AdvanceUntilInterrupt steps until INT asserts or limit has elapsed. It
// returns the time advanced and whether the interrupt fired.
func (d *Device) AdvanceUntilInterrupt(limit time.Duration) (time.Duration, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var elapsed time.Duration
	for elapsed < limit {
		d.tick()
		elapsed += time.Second
		if d.interrupt() {
			return elapsed, true
		}
	}
	return elapsed, false
}

func (d *Device) tick() {
	d.now = d.now.Add(time.Second)
	if d.alarm1Match() {
		d.regs[regStatus] |= statA1F
	}
	if d.alarm2Match() {
		d.regs[regStatus] |= statA2F
	}
}

func (d *Device) alarm1Match() bool {
	r := d.regs[0x07:0x0B]
	return fieldMatch(r[0], d.now.Second()) &&
		fieldMatch(r[1], d.now.Minute()) &&
		hourMatch(r[2], d.now.Hour()) &&
		dayMatch(r[3], d.now)
}

func (d *Device) alarm2Match() bool {
	if d.now.Second() != 0 {
		return false
	}
	r := d.regs[0x0B:0x0E]
	return fieldMatch(r[0], d.now.Minute()) &&
		hourMatch(r[1], d.now.Hour()) &&
		dayMatch(r[2], d.now)
}

func fieldMatch(reg byte, v int) bool {
	if reg&0x80 != 0 {
		return true
	}
	return int(bcd(reg&0x7F)) == v
}

func hourMatch(reg byte, h int) bool {
	if reg&0x80 != 0 {
		return true
	}
	return int(hour(reg)) == h
}

func dayMatch(reg byte, t time.Time) bool {
	if reg&0x80 != 0 {
		return true
	}
	if reg&0x40 != 0 {
		return int(reg&0x0F) == int(t.Weekday())+1
	}
	return int(bcd(reg&0x3F)) == t.Day()
}

func bcd(b byte) uint8 { return (b>>4)*10 + b&0x0F }

func toBCD(v int) byte { return byte((v/10)<<4 | v%10) }

func hour(b byte) uint8 {
	if b&0x40 == 0 {
		return bcd(b & 0x3F)
	}
	h := bcd(b & 0x1F)
	if h == 12 {
		h = 0
	}
	if b&0x20 != 0 {
		h += 12
	}
	return h
}

func encodeTime(t time.Time, out []byte) {
	y := t.Year()
	out[0] = toBCD(t.Second())
	out[1] = toBCD(t.Minute())
	out[2] = toBCD(t.Hour())
	out[3] = byte(t.Weekday()) + 1
	out[4] = toBCD(t.Day())
	out[5] = toBCD(int(t.Month()))
	if y >= 2100 {
		out[5] |= 0x80
		y -= 100
	}
	out[6] = toBCD(y - 2000)
}

func decodeTime(r []byte) (time.Time, bool) {
	year := 2000 + int(bcd(r[6]))
	if r[5]&0x80 != 0 {
		year += 100
	}
	mon := int(bcd(r[5] & 0x1F))
	day := int(bcd(r[4] & 0x3F))
	h := int(hour(r[2]))
	m := int(bcd(r[1] & 0x7F))
	s := int(bcd(r[0] & 0x7F))
	if mon < 1 || mon > 12 || day < 1 || day > 31 || h > 23 || m > 59 || s > 59 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(mon), day, h, m, s, 0, time.UTC), true
}
