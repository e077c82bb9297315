package dutycycle

import (
	"time"

	"envlogger-go/types"
)

// NextAlarm picks the alarm to arm before sleep. Periodic rates need no
// target. Match rates aim at sample time + period; without a time there is
// nothing to aim from, so they fall back to alarm 2 once a minute.
func NextAlarm(s types.Sample, id types.AlarmID, rate types.AlarmRate, period time.Duration) types.AlarmSpec {
	switch rate {
	case types.RateEverySecond, types.RateEveryMinute:
		return types.AlarmSpec{ID: id, Rate: rate}
	}
	if !s.TimeOK {
		return types.AlarmSpec{ID: types.Alarm2, Rate: types.RateEveryMinute}
	}
	t := s.Time.Add(period)
	return types.AlarmSpec{
		ID:     id,
		Hour:   uint8(t.Hour()),
		Minute: uint8(t.Minute()),
		Second: uint8(t.Second()),
		Rate:   rate,
	}
}
