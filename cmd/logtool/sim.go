package main

import (
	"fmt"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"envlogger-go/errcode"
	"envlogger-go/platform/boards"
	"envlogger-go/platform/sim"
	"envlogger-go/services/config"
	"envlogger-go/services/dutycycle"
	"envlogger-go/services/power"
	"envlogger-go/types"
	"envlogger-go/x/conv"
)

type simOptions struct {
	config     string
	board      string
	dir        string
	cycles     int
	start      string
	temp       string
	powerGated bool
	blankCard  bool
	quiet      bool
}

func newSimCmd(fs afero.Fs) *cobra.Command {
	var o simOptions

	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Run duty cycles on the simulated board",
		Long: "Runs N wakes against an emulated DS3231 in virtual time. The log\n" +
			"volume lives at DIR/<mount point> and the retained wake context at\n" +
			"DIR/retained.yaml, so repeated runs append to the same log.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSim(cmd, fs, o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.config, "config", "", "YAML config file (defaults to the board profile)")
	f.StringVar(&o.board, "board", "default", "board profile when no config file is given")
	f.StringVar(&o.dir, "dir", "envlogger-sim", "directory holding the simulated card and retained state")
	f.IntVar(&o.cycles, "cycles", 10, "number of wakes to run")
	f.StringVar(&o.start, "start", "2021-06-01T12:00:00Z", "initial RTC time (RFC 3339)")
	f.StringVar(&o.temp, "temp", "21.50", "RTC temperature in °C, two decimals")
	f.BoolVar(&o.powerGated, "power-gated", false, "RTC alarm wakes cut power and lose retained state")
	f.BoolVar(&o.blankCard, "blank-card", false, "start without a filesystem at the mount point")
	f.BoolVar(&o.quiet, "quiet", false, "print only the summary")

	return cmd
}

func runSim(cmd *cobra.Command, fs afero.Fs, o simOptions) error {
	cfg, err := simConfig(fs, o)
	if err != nil {
		return err
	}
	start, err := time.Parse(time.RFC3339, o.start)
	if err != nil {
		return fmt.Errorf("--start: %w", err)
	}
	temp, ok := conv.ParseFixed(o.temp, 2)
	if !ok {
		return fmt.Errorf("--temp: want a value like 21.50, got %q", o.temp)
	}
	if o.cycles < 1 {
		return fmt.Errorf("--cycles must be at least 1")
	}
	if err := fs.MkdirAll(o.dir, 0o755); err != nil {
		return err
	}
	root := afero.NewBasePathFs(fs, o.dir)
	if !o.blankCard {
		if err := root.MkdirAll(cfg.Volume.MountPoint, 0o755); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	opt := sim.Options{
		Config:     cfg,
		Fs:         root,
		Start:      start.UTC(),
		Temp:       types.CentiCelsius(temp),
		Retained:   power.NewFileStore(root, "retained.yaml"),
		PowerGated: o.powerGated,
	}
	if !o.quiet {
		opt.Console = out
	}
	b := sim.New(opt)

	var appended, failed int
	err = b.Run(o.cycles, func(r *dutycycle.Report) {
		if r.Appended {
			appended++
		}
		if r.Outcome() != errcode.OK {
			failed++
		}
	})
	fmt.Fprintf(out, "board %s: %d records appended, %d cycles with failures, rtc now %s\n",
		cfg.Board, appended, failed, b.RTC.Now().Format("2006-01-02 15:04:05"))
	return err
}

func simConfig(fs afero.Fs, o simOptions) (types.Config, error) {
	if o.config != "" {
		return config.Load(fs, o.config)
	}
	cfg, ok := boards.ByName(o.board)
	if !ok {
		return types.Config{}, fmt.Errorf("unknown board %q (have %v)", o.board, boards.Names())
	}
	return cfg, nil
}
