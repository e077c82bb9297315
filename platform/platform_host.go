//go:build !rp2040 && !rp2350

package platform

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"envlogger-go/platform/boards"
	"envlogger-go/platform/sim"
	"envlogger-go/services/config"
	"envlogger-go/services/power"
	"envlogger-go/x/logx"
)

// Host runs are one wake per process, like the board. State that would
// outlive a wake on hardware lives under ENVLOGGER_DIR: the volume at
// <dir>/sdcard, the retained context in <dir>/retained.yaml and, optionally,
// <dir>/envlogger.yaml. The RTC starts at the host clock.
const (
	dirEnv     = "ENVLOGGER_DIR"
	defaultDir = "envlogger-sim"
	configName = "envlogger.yaml"
	retained   = "retained.yaml"
)

func Open() (*Platform, error) {
	dir := os.Getenv(dirEnv)
	if dir == "" {
		dir = defaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	fs := afero.NewBasePathFs(afero.NewOsFs(), dir)

	cfg := boards.Selected()
	if ok, _ := afero.Exists(fs, configName); ok {
		c, err := config.Load(fs, configName)
		if err != nil {
			return nil, err
		}
		cfg = c
	}
	// The host has a real filesystem; let a fresh directory become a volume.
	cfg.Volume.FormatIfMountFailed = true

	log := logx.New(os.Stdout, "main")
	b := sim.New(sim.Options{
		Config:   cfg,
		Fs:       fs,
		Start:    time.Now().UTC(),
		Temp:     2150,
		Console:  os.Stdout,
		Retained: power.NewFileStore(fs, retained),
	})
	o, err := b.Orchestrator()
	if err != nil {
		return nil, err
	}
	log.Info("host wake, state in", filepath.Clean(dir))
	return &Platform{Config: cfg, Log: log, Cycle: o}, nil
}

// Halt returns on a host; the process exits after one wake.
func Halt() {}
