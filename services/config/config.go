// Package config loads a logger configuration from YAML for host runs: the
// simulator, logtool and tests. Firmware takes its configuration from
// platform/boards at compile time.
package config

import (
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"envlogger-go/errcode"
	"envlogger-go/platform/boards"
	"envlogger-go/types"
	"envlogger-go/x/mathx"
)

// Load reads path from fs. The file may name a board profile; fields it
// does not set keep that profile's values (types.DefaultConfig when none).
func Load(fs afero.Fs, path string) (types.Config, error) {
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return types.Config{}, errcode.Wrap(errcode.InvalidConfig, "config.load", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (types.Config, error) {
	var head struct {
		Board string `yaml:"board"`
	}
	if err := yaml.Unmarshal(raw, &head); err != nil {
		return types.Config{}, errcode.Wrap(errcode.InvalidConfig, "config.parse", err)
	}
	cfg, ok := boards.ByName(head.Board)
	if !ok {
		cfg = types.DefaultConfig()
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return types.Config{}, errcode.Wrap(errcode.InvalidConfig, "config.parse", err)
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// applyDefaults fills fields a file zeroed out explicitly.
func applyDefaults(c *types.Config) {
	def := types.DefaultConfig()
	if c.RTCAddress == 0 {
		c.RTCAddress = def.RTCAddress
	}
	if c.WakePeriod == 0 {
		c.WakePeriod = def.WakePeriod
	}
	if c.FallbackTimer == 0 {
		c.FallbackTimer = def.FallbackTimer
	}
	if c.AlarmID == 0 {
		c.AlarmID = def.AlarmID
	}
	if c.AlarmRate == "" {
		c.AlarmRate = def.AlarmRate
	}
	if c.Volume.MountPoint == "" {
		c.Volume.MountPoint = def.Volume.MountPoint
	}
	if c.Volume.FileName == "" {
		c.Volume.FileName = def.Volume.FileName
	}
	if c.Volume.MaxOpenFiles == 0 {
		c.Volume.MaxOpenFiles = def.Volume.MaxOpenFiles
	}
	if c.Volume.AllocationUnit == 0 {
		c.Volume.AllocationUnit = def.Volume.AllocationUnit
	}
	if c.Policy.OnTimeReadFailure == "" {
		c.Policy.OnTimeReadFailure = def.Policy.OnTimeReadFailure
	}
	if c.Policy.OnTempReadFailure == "" {
		c.Policy.OnTempReadFailure = def.Policy.OnTempReadFailure
	}
}

func validate(c *types.Config) error {
	bad := func(msg string) error { return errcode.New(errcode.InvalidConfig, "config.validate", msg) }

	rate, ok := types.ParseAlarmRate(c.AlarmRate)
	switch {
	case c.AlarmID != types.Alarm1 && c.AlarmID != types.Alarm2:
		return bad("alarm_id must be 1 or 2")
	case !ok:
		return bad("unknown alarm_rate " + c.AlarmRate)
	case !rate.Valid(c.AlarmID):
		return bad("alarm_rate " + c.AlarmRate + " not available on " + c.AlarmID.String())
	case c.WakePeriod < time.Second:
		return bad("wake_period must be at least 1s")
	case !rate.Expresses(c.WakePeriod):
		return bad("alarm_rate " + c.AlarmRate + " cannot wake every " + c.WakePeriod.String())
	case c.FallbackTimer < c.WakePeriod:
		return bad("fallback_timer must not be shorter than wake_period")
	case !mathx.Between(c.RTCAddress, 0x08, 0x77):
		return bad("rtc_address outside the 7-bit device range")
	case c.Volume.MaxOpenFiles < 0:
		return bad("volume.max_open_files must be positive")
	case !policyOK(c.Policy.OnTimeReadFailure) || !policyOK(c.Policy.OnTempReadFailure):
		return bad("policy values are skip or placeholder")
	}
	if c.IntPin < -1 {
		return bad("int_pin must be a GPIO or -1")
	}
	for _, p := range c.LeakagePins {
		if p == c.IntPin {
			return bad("int_pin is listed in leakage_pins")
		}
	}
	for _, d := range []time.Duration{c.Delays.BootSettle, c.Delays.BusSettle, c.Delays.StoragePowerDown, c.Delays.PreSleep} {
		if d < 0 {
			return bad("delays must not be negative")
		}
	}
	return nil
}

func policyOK(p types.ReadFailure) bool {
	return p == types.FailureSkip || p == types.FailurePlaceholder
}
