package dutycycle

import (
	"testing"
	"time"

	"envlogger-go/errcode"
	"envlogger-go/types"
)

func TestDecideTable(t *testing.T) {
	cases := []struct {
		stage State
		code  errcode.Code
		want  Action
	}{
		{Boot, errcode.BusFault, Halt},
		{Boot, errcode.OK, Continue},
		{Measuring, errcode.TimeRead, Continue},
		{Measuring, errcode.TempRead, Continue},
		{Logging, errcode.RegisterAccess, Continue},
		{Logging, errcode.MountFormatRequired, SkipStage},
		{Logging, errcode.MountDeviceInit, SkipStage},
		{Logging, errcode.MountBusInit, SkipStage},
		{Logging, errcode.Write, Continue},
		{Arming, errcode.AlarmProgram, Continue},
		{Arming, errcode.WakeTimer, Continue},
		{Arming, errcode.MountDeviceInit, Continue},
		{Sleeping, errcode.Retained, Continue},
	}
	for _, c := range cases {
		if got := Decide(c.stage, c.code); got != c.want {
			t.Fatalf("Decide(%v, %v) = %v, want %v", c.stage, c.code, got, c.want)
		}
	}
}

func TestRecordPolicy(t *testing.T) {
	full := types.Sample{Time: time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC), Temp: 2150, TimeOK: true, TempOK: true}
	skip := types.Policy{OnTimeReadFailure: types.FailureSkip, OnTempReadFailure: types.FailureSkip}
	hold := types.Policy{OnTimeReadFailure: types.FailurePlaceholder, OnTempReadFailure: types.FailurePlaceholder}

	if rec, ok := Record(full, skip); !ok || rec != "2021-06-01 12:00:00, 21.50 deg Cel\n" {
		t.Fatalf("full sample: %q %v", rec, ok)
	}
	noTime := full
	noTime.TimeOK = false
	if _, ok := Record(noTime, skip); ok {
		t.Fatal("skip policy produced a record")
	}
	if rec, ok := Record(noTime, hold); !ok || rec != "0000-00-00 00:00:00, 21.50 deg Cel\n" {
		t.Fatalf("placeholder: %q %v", rec, ok)
	}
	if rec, ok := Record(types.Sample{}, hold); !ok || rec != "0000-00-00 00:00:00, nan deg Cel\n" {
		t.Fatalf("empty sample: %q %v", rec, ok)
	}
}

func TestNextAlarm(t *testing.T) {
	s := types.Sample{Time: time.Date(2021, 6, 1, 23, 59, 30, 0, time.UTC), TimeOK: true}

	if got := NextAlarm(s, types.Alarm2, types.RateEveryMinute, time.Minute); got != (types.AlarmSpec{ID: types.Alarm2, Rate: types.RateEveryMinute}) {
		t.Fatalf("every minute = %+v", got)
	}
	got := NextAlarm(s, types.Alarm1, types.RateMatchHours, 90*time.Second)
	want := types.AlarmSpec{ID: types.Alarm1, Hour: 0, Minute: 1, Second: 0, Rate: types.RateMatchHours}
	if got != want {
		t.Fatalf("match hours = %+v, want %+v", got, want)
	}
	got = NextAlarm(types.Sample{}, types.Alarm1, types.RateMatchSeconds, time.Minute)
	if got != (types.AlarmSpec{ID: types.Alarm2, Rate: types.RateEveryMinute}) {
		t.Fatalf("no time = %+v", got)
	}
}
