package config

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"envlogger-go/errcode"
	"envlogger-go/types"
)

func TestLoadAppliesDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()
	data := `
board: lab
wake_period: 5m
fallback_timer: 6m
alarm_rate: match_minutes
volume:
  file_name: lab.txt
  max_open_files: 0
leakage_pins: [7]
`
	require.NoError(t, afero.WriteFile(fs, "/etc/envlogger.yaml", []byte(data), 0o600))

	cfg, err := Load(fs, "/etc/envlogger.yaml")
	require.NoError(t, err)

	assert.Equal(t, "lab", cfg.Board)
	assert.Equal(t, 5*time.Minute, cfg.WakePeriod)
	assert.Equal(t, 6*time.Minute, cfg.FallbackTimer)
	assert.Equal(t, "lab.txt", cfg.Volume.FileName)
	assert.Equal(t, "/sdcard", cfg.Volume.MountPoint)
	assert.Equal(t, 5, cfg.Volume.MaxOpenFiles)
	assert.Equal(t, 16*1024, cfg.Volume.AllocationUnit)
	assert.Equal(t, []int{7}, cfg.LeakagePins)
	assert.Equal(t, types.Alarm2, cfg.AlarmID)
	assert.Equal(t, "match_minutes", cfg.AlarmRate)
	assert.Equal(t, types.FailureSkip, cfg.Policy.OnTimeReadFailure)
	assert.Equal(t, types.FailurePlaceholder, cfg.Policy.OnTempReadFailure)
	assert.Equal(t, uint16(0x68), cfg.RTCAddress)
	assert.Equal(t, 400_000, int(cfg.I2C.Hz))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), "/nope.yaml")
	require.Error(t, err)
	assert.Equal(t, errcode.InvalidConfig, errcode.Of(err))
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"bad yaml":           "wake_period: [",
		"alarm 2 per second": "alarm_rate: every_second",
		"unknown rate":       "alarm_rate: hourly",
		"alarm 3":            "alarm_id: 3",
		"short period":       "wake_period: 500ms",
		"short fallback":     "alarm_rate: match_minutes\nwake_period: 2m\nfallback_timer: 1m",
		"minute rate slow":   "wake_period: 10m\nfallback_timer: 11m",
		"seconds too long":   "alarm_id: 1\nalarm_rate: match_seconds\nwake_period: 90s\nfallback_timer: 2m",
		"minutes too long":   "alarm_rate: match_minutes\nwake_period: 1h\nfallback_timer: 2h",
		"hours too long":     "alarm_rate: match_hours\nwake_period: 24h\nfallback_timer: 25h",
		"fractional period":  "alarm_rate: match_minutes\nwake_period: 90500ms\nfallback_timer: 2m",
		"wide address":       "rtc_address: 0x1FF",
		"negative int pin":   "int_pin: -2",
		"int pin isolated":   "int_pin: 3\nleakage_pins: [3, 22]",
		"bad policy":         "policy: {on_time_read_failure: guess}",
		"negative delay":     "delays: {pre_sleep: -1s}",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.Error(t, err)
			assert.Equal(t, errcode.InvalidConfig, errcode.Of(err))
		})
	}
}

func TestParseAcceptsRepresentablePeriods(t *testing.T) {
	for _, doc := range []string{
		"alarm_id: 1\nalarm_rate: match_seconds\nwake_period: 30s\nfallback_timer: 45s",
		"alarm_rate: match_minutes\nwake_period: 90s\nfallback_timer: 2m",
		"alarm_rate: match_hours\nwake_period: 6h\nfallback_timer: 7h",
		"alarm_id: 1\nalarm_rate: every_second\nwake_period: 1s\nfallback_timer: 5s",
	} {
		_, err := Parse([]byte(doc))
		require.NoError(t, err, doc)
	}
}

func TestLoadStartsFromBoardProfile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/bench.yaml", []byte("board: pico_bench\nvolume: {file_name: bench.txt}\n"), 0o600))

	cfg, err := Load(fs, "/bench.yaml")
	require.NoError(t, err)
	assert.Equal(t, "pico_bench", cfg.Board)
	assert.Equal(t, types.Alarm1, cfg.AlarmID)
	assert.True(t, cfg.Volume.FormatIfMountFailed, "profile value kept")
	assert.Equal(t, "bench.txt", cfg.Volume.FileName)
	assert.Equal(t, 3, cfg.IntPin, "bench wakes on INT")
	assert.Equal(t, "/sdcard", cfg.Volume.MountPoint)
}

func TestUnknownBoardUsesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("board: toaster\n"))
	require.NoError(t, err)
	assert.Equal(t, -1, cfg.IntPin)
	assert.Equal(t, "toaster", cfg.Board)
	assert.Equal(t, 60*time.Second, cfg.WakePeriod)
}
