package types

import (
	"testing"
	"time"
)

func TestFlagModeApply(t *testing.T) {
	type C struct {
		mode      FlagMode
		cur, bits uint8
		want      uint8
	}
	for _, c := range []C{
		{FlagSet, 0x00, 0x40, 0x40},
		{FlagSet, 0x1C, 0x40, 0x5C},
		{FlagClear, 0x40, 0x40, 0x00},
		{FlagClear, 0x5C, 0x40, 0x1C},
		{FlagReplace, 0xFF, 0x10, 0x10},
		{FlagReplace, 0x00, 0x10, 0x10},
	} {
		if got := c.mode.Apply(c.cur, c.bits); got != c.want {
			t.Fatalf("mode %d Apply(0x%02x, 0x%02x) = 0x%02x, want 0x%02x", c.mode, c.cur, c.bits, got, c.want)
		}
	}
}

func TestAlarmRateValidity(t *testing.T) {
	if !RateEveryMinute.Valid(Alarm2) || RateEveryMinute.Valid(Alarm1) {
		t.Fatal("every_minute is an alarm 2 rate")
	}
	if !RateEverySecond.Valid(Alarm1) || RateEverySecond.Valid(Alarm2) {
		t.Fatal("every_second is an alarm 1 rate")
	}
	if RateMatchMinutes.Valid(AlarmBoth) {
		t.Fatal("rates are programmed per alarm")
	}
}

func TestAlarmRateExpresses(t *testing.T) {
	type C struct {
		rate   AlarmRate
		period time.Duration
		want   bool
	}
	for _, c := range []C{
		{RateEverySecond, time.Second, true},
		{RateEverySecond, 2 * time.Second, false},
		{RateEveryMinute, time.Minute, true},
		{RateEveryMinute, 10 * time.Minute, false},
		{RateMatchSeconds, 30 * time.Second, true},
		{RateMatchSeconds, 90 * time.Second, false},
		{RateMatchMinutes, 10 * time.Minute, true},
		{RateMatchMinutes, 90 * time.Second, true},
		{RateMatchMinutes, time.Hour, false},
		{RateMatchMinutes, 90500 * time.Millisecond, false},
		{RateMatchHours, 90 * time.Minute, true},
		{RateMatchHours, 24 * time.Hour, false},
		{RateNone, time.Minute, false},
	} {
		if got := c.rate.Expresses(c.period); got != c.want {
			t.Fatalf("%s.Expresses(%v) = %v, want %v", c.rate, c.period, got, c.want)
		}
	}
}

func TestParseAlarmRate(t *testing.T) {
	for _, r := range []AlarmRate{RateEverySecond, RateEveryMinute, RateMatchSeconds, RateMatchMinutes, RateMatchHours} {
		got, ok := ParseAlarmRate(r.String())
		if !ok || got != r {
			t.Fatalf("ParseAlarmRate(%q) = %v,%v", r.String(), got, ok)
		}
	}
	if _, ok := ParseAlarmRate("none"); ok {
		t.Fatal("none must not parse")
	}
}

func TestQuarterCelsius(t *testing.T) {
	if got := FromQuarterCelsius(86); got != 2150 {
		t.Fatalf("86 quarters = %d, want 2150", got)
	}
	if got := FromQuarterCelsius(-1); got != -25 {
		t.Fatalf("-1 quarter = %d, want -25", got)
	}
}

func TestCentiCelsiusString(t *testing.T) {
	if got := CentiCelsius(2150).String(); got != "21.50" {
		t.Fatalf("String = %q", got)
	}
	if got := CentiCelsius(-25).String(); got != "-0.25" {
		t.Fatalf("String = %q", got)
	}
}
