package dutycycle

import (
	"envlogger-go/errcode"
	"envlogger-go/services/logsink"
	"envlogger-go/types"
)

// Action is what the orchestrator does after a failed step.
type Action uint8

const (
	Continue  Action = iota // log it, run the next step
	SkipStage               // log it, jump to the next stage
	Halt                    // no RTC: stop without arming
)

func (a Action) String() string {
	switch a {
	case SkipStage:
		return "skip_stage"
	case Halt:
		return "halt"
	}
	return "continue"
}

// Decide is the single failure table of a cycle. Only Boot may halt, and
// nothing after Boot may keep the cycle from reaching Arming.
func Decide(stage State, code errcode.Code) Action {
	if code == errcode.OK {
		return Continue
	}
	switch stage {
	case Boot:
		return Halt
	case Logging:
		if errcode.IsMount(code) {
			return SkipStage
		}
	}
	return Continue
}

// Record returns the line to append for s under p, or false to append
// nothing this cycle.
func Record(s types.Sample, p types.Policy) (string, bool) {
	if !s.TimeOK && p.OnTimeReadFailure != types.FailurePlaceholder {
		return "", false
	}
	if !s.TempOK && p.OnTempReadFailure != types.FailurePlaceholder {
		return "", false
	}
	return logsink.FormatRecord(s), true
}
