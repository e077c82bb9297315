package dutycycle

import (
	"time"

	"envlogger-go/errcode"
	"envlogger-go/types"
)

// Failure is one failed step.
type Failure struct {
	Stage State
	Step  string
	Code  errcode.Code
	Err   error
}

// Report is the record of one cycle. It lives only until the cycle ends; on
// a board nobody reads it.
type Report struct {
	Final State
	Cause types.WakeCause

	// Slept is the diagnostic time since the previous sleep entry.
	Slept   time.Duration
	SleptOK bool

	Sample   types.Sample
	Record   string
	Appended bool

	Alarm types.AlarmSpec
	Entry types.WakeContext

	Failures []Failure
	Steps    []string
}

// Outcome is OK or the code of the first failure.
func (r *Report) Outcome() errcode.Code {
	if len(r.Failures) == 0 {
		return errcode.OK
	}
	return r.Failures[0].Code
}

// Ran reports whether step appears in the trace.
func (r *Report) Ran(step string) bool {
	return r.index(step) >= 0
}

// Before reports whether step a ran, and ran before step b.
func (r *Report) Before(a, b string) bool {
	i, j := r.index(a), r.index(b)
	return i >= 0 && j >= 0 && i < j
}

func (r *Report) index(step string) int {
	for i, s := range r.Steps {
		if s == step {
			return i
		}
	}
	return -1
}
