package ds3231_test

import (
	"errors"
	"testing"
	"time"

	"tinygo.org/x/drivers"

	"envlogger-go/drivers/ds3231"
	"envlogger-go/drivers/ds3231/ds3231sim"
	"envlogger-go/types"
)

// Compile-time check.
var _ drivers.I2C = (*ds3231sim.Device)(nil)

var t0 = time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)

func newPair(t *testing.T) (*ds3231.Device, *ds3231sim.Device) {
	t.Helper()
	sim := ds3231sim.New(t0)
	return ds3231.New(sim, ds3231.Config{}), sim
}

func TestReadTime(t *testing.T) {
	d, sim := newPair(t)
	got, err := d.ReadTime()
	if err != nil {
		t.Fatalf("ReadTime: %v", err)
	}
	if !got.Equal(t0) {
		t.Fatalf("ReadTime = %v, want %v", got, t0)
	}

	sim.Advance(90 * time.Second)
	got, _ = d.ReadTime()
	if want := t0.Add(90 * time.Second); !got.Equal(want) {
		t.Fatalf("after advance ReadTime = %v, want %v", got, want)
	}
}

func TestSetTimeClearsOSF(t *testing.T) {
	d, sim := newPair(t)
	if stopped, err := d.OscillatorStopped(); err != nil || !stopped {
		t.Fatalf("power-on OSF = %v, %v; want true", stopped, err)
	}
	want := time.Date(2104, 2, 29, 23, 59, 58, 0, time.UTC)
	if err := d.SetTime(want); err != nil {
		t.Fatalf("SetTime: %v", err)
	}
	if got := sim.Now(); !got.Equal(want) {
		t.Fatalf("sim clock = %v, want %v", got, want)
	}
	if sim.Register(0x05)&0x80 == 0 {
		t.Fatal("century bit not set for 2104")
	}
	if stopped, _ := d.OscillatorStopped(); stopped {
		t.Fatal("OSF still set after SetTime")
	}
	if err := d.SetTime(time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)); !errors.Is(err, ds3231.ErrInvalidTime) {
		t.Fatalf("SetTime(1999) err = %v, want ErrInvalidTime", err)
	}
}

func TestReadTemperature(t *testing.T) {
	d, sim := newPair(t)
	for _, c := range []struct {
		centi int32
		want  int16
	}{
		{2150, 86},
		{0, 0},
		{-25, -1},
		{-1075, -43},
		{2575, 103},
	} {
		sim.SetTemperature(c.centi)
		q, err := d.ReadTemperature()
		if err != nil {
			t.Fatalf("ReadTemperature: %v", err)
		}
		if q != c.want {
			t.Fatalf("ReadTemperature(%d) = %d quarters, want %d", c.centi, q, c.want)
		}
		if got := types.FromQuarterCelsius(q); int32(got) != c.centi {
			t.Fatalf("centi = %d, want %d", got, c.centi)
		}
	}
}

func TestSetFlagModes(t *testing.T) {
	d, sim := newPair(t)

	sim.SetRegister(ds3231.RegControl, 0x00)
	if err := d.SetFlag(ds3231.RegControl, 0x40, types.FlagSet); err != nil {
		t.Fatalf("SetFlag(SET): %v", err)
	}
	if got := sim.Register(ds3231.RegControl); got != 0x40 {
		t.Fatalf("SET: control = 0x%02x, want 0x40", got)
	}

	if err := d.SetFlag(ds3231.RegControl, 0x40, types.FlagClear); err != nil {
		t.Fatalf("SetFlag(CLEAR): %v", err)
	}
	if got := sim.Register(ds3231.RegControl); got != 0x00 {
		t.Fatalf("CLEAR: control = 0x%02x, want 0x00", got)
	}

	sim.SetRegister(ds3231.RegControl, 0xFF)
	if err := d.SetFlag(ds3231.RegControl, 0x10, types.FlagReplace); err != nil {
		t.Fatalf("SetFlag(REPLACE): %v", err)
	}
	if got := sim.Register(ds3231.RegControl); got != 0x10 {
		t.Fatalf("REPLACE: control = 0x%02x, want 0x10", got)
	}
}

func TestSetFlagNoPartialStateOnWriteFault(t *testing.T) {
	d, sim := newPair(t)
	sim.SetRegister(ds3231.RegControl, 0x1C)
	boom := errors.New("bus fault")
	sim.FailRegister(ds3231.RegControl, boom)

	if err := d.SetFlag(ds3231.RegControl, ds3231.CtrlBBSQW, types.FlagSet); !errors.Is(err, boom) {
		t.Fatalf("SetFlag err = %v, want %v", err, boom)
	}
	sim.FailRegister(ds3231.RegControl, nil)
	if got := sim.Register(ds3231.RegControl); got != 0x1C {
		t.Fatalf("control = 0x%02x after failed RMW, want unchanged 0x1C", got)
	}
}

func TestInvalidRegister(t *testing.T) {
	d, _ := newPair(t)
	if err := d.SetFlag(0x20, 1, types.FlagSet); !errors.Is(err, ds3231.ErrInvalidReg) {
		t.Fatalf("err = %v, want ErrInvalidReg", err)
	}
	if _, err := d.ReadRegister(0x13); !errors.Is(err, ds3231.ErrInvalidReg) {
		t.Fatalf("err = %v, want ErrInvalidReg", err)
	}
}

func TestProbeWrongAddress(t *testing.T) {
	sim := ds3231sim.New(t0)
	d := ds3231.New(sim, ds3231.Config{Address: 0x57})
	if err := d.Probe(); !errors.Is(err, ds3231sim.ErrNack) {
		t.Fatalf("Probe err = %v, want nack", err)
	}
	if d.Addr() != 0x57 {
		t.Fatalf("Addr = 0x%02x", d.Addr())
	}
}
