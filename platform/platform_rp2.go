//go:build rp2040 || rp2350

package platform

import (
	"io"
	"machine"
	"time"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"envlogger-go/errcode"
	"envlogger-go/platform/boards"
	"envlogger-go/services/dutycycle"
	"envlogger-go/services/logsink"
	"envlogger-go/services/power"
	"envlogger-go/services/rtc"
	"envlogger-go/types"
	"envlogger-go/x/logx"
)

func Open() (*Platform, error) {
	cfg := boards.Selected()
	log := logx.New(console(cfg.Console), "main")

	vol := logsink.NewFATVolume(spiBus(cfg.SPI.ID), cfg.SPI)
	o, err := dutycycle.New(cfg, dutycycle.Deps{
		Board:    &rp2Board{plan: cfg.I2C, spi: cfg.SPI, addr: cfg.RTCAddress, settle: cfg.Delays.BusSettle},
		Sink:     logsink.New(vol, log.With("logsink")),
		Power:    power.New(power.NewRP2Hardware(cfg.IntPin), cfg.LeakagePins, log.With("power")),
		Retained: power.ScratchStore{},
		Log:      log.With("cycle"),
	})
	if err != nil {
		return nil, err
	}
	return &Platform{Config: cfg, Log: log, Cycle: o}, nil
}

// Halt parks the core. Without an RTC there is nothing to wake for.
func Halt() {
	for {
		time.Sleep(time.Hour)
	}
}

func console(c types.ConsolePlan) io.Writer {
	var hw *uartx.UART
	switch c.UART {
	case "uart0":
		hw = uartx.UART0
	case "uart1":
		hw = uartx.UART1
	default:
		return machine.Serial
	}
	// Defaults inside uartx apply if zero.
	_ = hw.Configure(uartx.UARTConfig{
		BaudRate: c.Baud,
		TX:       machine.Pin(c.TX),
		RX:       machine.Pin(c.RX),
	})
	return hw
}

func spiBus(id string) *machine.SPI {
	if id == "spi0" {
		return machine.SPI0
	}
	return machine.SPI1
}

// rp2Board brings I2C up for the cycle. ReleaseBuses floats the I2C and SPI
// pins so nothing back-powers the card or the RTC through them.
type rp2Board struct {
	plan   types.I2CPlan
	spi    types.SPIPlan
	addr   uint16
	settle time.Duration
}

func (b *rp2Board) OpenTimeSource() (dutycycle.TimeSource, error) {
	var hw *machine.I2C
	switch b.plan.ID {
	case "i2c0":
		hw = machine.I2C0
	case "i2c1":
		hw = machine.I2C1
	default:
		return nil, errcode.New(errcode.BusFault, "rp2.i2c", "unknown bus "+b.plan.ID)
	}
	sda := machine.Pin(b.plan.SDA)
	scl := machine.Pin(b.plan.SCL)
	sda.Configure(machine.PinConfig{Mode: machine.PinI2C})
	scl.Configure(machine.PinConfig{Mode: machine.PinI2C})
	err := hw.Configure(machine.I2CConfig{
		SCL:       scl,
		SDA:       sda,
		Frequency: b.plan.Hz,
	})
	if err != nil {
		return nil, errcode.Wrap(errcode.BusFault, "rp2.i2c", err)
	}
	time.Sleep(b.settle)
	src, err := rtc.Open(hw, b.addr)
	if err != nil {
		return nil, err
	}
	return src, nil
}

func (b *rp2Board) ReleaseBuses() {
	for _, p := range []int{b.plan.SDA, b.plan.SCL, b.spi.SCK, b.spi.SDO, b.spi.SDI, b.spi.CS} {
		machine.Pin(p).Configure(machine.PinConfig{Mode: machine.PinInput})
	}
}
