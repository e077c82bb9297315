// Package platform assembles one wake of the logger for the target it is
// built for: the RP2 board with TinyGo, or the simulated board on a host.
package platform

import (
	"envlogger-go/services/dutycycle"
	"envlogger-go/types"
	"envlogger-go/x/logx"
)

type Platform struct {
	Config types.Config
	Log    *logx.Logger
	Cycle  *dutycycle.Orchestrator
}

// Report prints the one-line summary of a finished cycle.
func (p *Platform) Report(r *dutycycle.Report) {
	p.Log.Info("cycle", r.Final, "outcome", r.Outcome(), "failures", len(r.Failures))
	for _, f := range r.Failures {
		p.Log.Info("  ", f.Stage, f.Step, f.Code)
	}
}
