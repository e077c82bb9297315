package types

import "time"

// AlarmID selects one or both DS3231 alarms. Values are bit positions in the
// control (AxIE) and status (AxF) registers.
type AlarmID uint8

const (
	Alarm1    AlarmID = 1 << 0
	Alarm2    AlarmID = 1 << 1
	AlarmBoth AlarmID = Alarm1 | Alarm2
)

func (a AlarmID) String() string {
	switch a {
	case Alarm1:
		return "alarm1"
	case Alarm2:
		return "alarm2"
	case AlarmBoth:
		return "alarm1+2"
	}
	return "alarm?"
}

// AlarmRate is the repeat rule for an alarm.
type AlarmRate uint8

const (
	RateNone AlarmRate = iota
	// EverySecond fires once per second (alarm 1 only).
	RateEverySecond
	// EveryMinute fires at second 00 of every minute (alarm 2 only).
	RateEveryMinute
	// MatchSeconds fires when seconds match (alarm 1 only).
	RateMatchSeconds
	// MatchMinutes fires when minutes (and seconds, for alarm 1) match.
	RateMatchMinutes
	// MatchHours fires when hours, minutes (and seconds, for alarm 1) match.
	RateMatchHours
)

var rateNames = [...]string{
	RateNone:         "none",
	RateEverySecond:  "every_second",
	RateEveryMinute:  "every_minute",
	RateMatchSeconds: "match_seconds",
	RateMatchMinutes: "match_minutes",
	RateMatchHours:   "match_hours",
}

func (r AlarmRate) String() string {
	if int(r) < len(rateNames) {
		return rateNames[r]
	}
	return "rate?"
}

// ParseAlarmRate is the inverse of String.
func ParseAlarmRate(s string) (AlarmRate, bool) {
	for i, n := range rateNames {
		if n == s && i != int(RateNone) {
			return AlarmRate(i), true
		}
	}
	return RateNone, false
}

// Valid reports whether the rate can be programmed on alarm id.
func (r AlarmRate) Valid(id AlarmID) bool {
	switch id {
	case Alarm1:
		return r == RateEverySecond || r == RateMatchSeconds || r == RateMatchMinutes || r == RateMatchHours
	case Alarm2:
		return r == RateEveryMinute || r == RateMatchMinutes || r == RateMatchHours
	}
	return false
}

// Expresses reports whether the rate can produce wakes period apart.
// Periodic rates have one fixed interval. A match rate repeats once per
// minute, hour or day, so the period must be whole seconds and shorter
// than that cycle.
func (r AlarmRate) Expresses(period time.Duration) bool {
	switch r {
	case RateEverySecond:
		return period == time.Second
	case RateEveryMinute:
		return period == time.Minute
	}
	if period < time.Second || period%time.Second != 0 {
		return false
	}
	switch r {
	case RateMatchSeconds:
		return period < time.Minute
	case RateMatchMinutes:
		return period < time.Hour
	case RateMatchHours:
		return period < 24*time.Hour
	}
	return false
}

// AlarmSpec says when the RTC must next assert its interrupt line.
// It has to be programmed, and its interrupt enabled, before deep sleep.
type AlarmSpec struct {
	ID     AlarmID
	Hour   uint8
	Minute uint8
	Second uint8 // ignored by alarm 2
	Rate   AlarmRate
}

// FlagMode selects how a status/control register update is applied.
type FlagMode uint8

const (
	FlagSet     FlagMode = iota // OR bits into the current value
	FlagClear                   // AND-NOT bits out of the current value
	FlagReplace                 // overwrite with bits
)

// Apply returns the register value after applying bits to cur.
func (m FlagMode) Apply(cur, bits uint8) uint8 {
	switch m {
	case FlagReplace:
		return bits
	case FlagSet:
		return cur | bits
	default:
		return cur &^ bits
	}
}
