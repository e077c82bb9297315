//go:build rp2040 || rp2350

// Command rtcset brings up the RTC on a logger board. It optionally sets the
// DS3231 from a build-time timestamp (clearing OSF), disarms both alarms and
// then prints time, temperature and the control/status registers once a
// second.
//
//	tinygo flash -target pico -tags board_pico_logger \
//	    -ldflags "-X main.setTime=2021-06-01T12:00:00Z" ./cmd/rtcset
package main

import (
	"machine"
	"time"

	"envlogger-go/drivers/ds3231"
	"envlogger-go/platform/boards"
	"envlogger-go/types"
	"envlogger-go/x/logx"
)

// setTime is RFC 3339; empty leaves the clock alone.
var setTime string

func main() {
	time.Sleep(1500 * time.Millisecond)
	log := logx.New(machine.Serial, "rtcset")
	log.Info("boot …")

	cfg := boards.Selected()
	hw := machine.I2C0
	if cfg.I2C.ID == "i2c1" {
		hw = machine.I2C1
	}
	sda, scl := machine.Pin(cfg.I2C.SDA), machine.Pin(cfg.I2C.SCL)
	sda.Configure(machine.PinConfig{Mode: machine.PinI2C})
	scl.Configure(machine.PinConfig{Mode: machine.PinI2C})
	if err := hw.Configure(machine.I2CConfig{SDA: sda, SCL: scl, Frequency: cfg.I2C.Hz}); err != nil {
		log.Error("i2c:", err)
		halt()
	}

	dev := ds3231.New(hw, ds3231.Config{Address: cfg.RTCAddress})
	if err := dev.Probe(); err != nil {
		log.Error("no ds3231 at", cfg.RTCAddress, err)
		halt()
	}

	if setTime != "" {
		t, err := time.Parse(time.RFC3339, setTime)
		if err != nil {
			log.Error("bad setTime", setTime, err)
			halt()
		}
		if err := dev.SetTime(t); err != nil {
			log.Error("set time:", err)
			halt()
		}
		log.Info("clock set to", t.UTC())
	}

	// A board fresh off the bench should not wake on a stale alarm.
	if err := dev.DisableAlarmInterrupt(types.AlarmBoth); err != nil {
		log.Warn("disable alarms:", err)
	}
	if err := dev.ClearAlarmFlags(types.AlarmBoth); err != nil {
		log.Warn("clear alarm flags:", err)
	}

	for {
		now, terr := dev.ReadTime()
		q, qerr := dev.ReadTemperature()
		ctrl, _ := dev.ReadRegister(ds3231.RegControl)
		stat, _ := dev.ReadRegister(ds3231.RegStatus)
		switch {
		case terr != nil:
			log.Warn("time:", terr)
		case qerr != nil:
			log.Warn("temp:", qerr)
		default:
			log.Info(now, types.FromQuarterCelsius(q), "C ctrl", ctrl, "stat", stat)
		}
		time.Sleep(time.Second)
	}
}

func halt() {
	for {
		time.Sleep(time.Hour)
	}
}
