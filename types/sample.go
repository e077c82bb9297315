package types

import (
	"time"

	"envlogger-go/x/conv"
)

// CentiCelsius is a temperature in hundredths of °C (2150 => 21.50 °C).
// DS3231 readings are quarter degrees and map onto it exactly.
type CentiCelsius int32

// FromQuarterCelsius converts a count of 0.25 °C steps.
func FromQuarterCelsius(q int16) CentiCelsius { return CentiCelsius(int32(q) * 25) }

// String renders two decimals: "21.50", "-0.25".
func (c CentiCelsius) String() string { return string(conv.AppendFixed(nil, int64(c), 2)) }

// Sample is one wall-clock + temperature capture. It is taken once per cycle
// and never mutated afterwards.
type Sample struct {
	Time   time.Time // UTC, second resolution
	Temp   CentiCelsius
	TimeOK bool
	TempOK bool
}

// UnixMilli returns the capture time in Unix milliseconds, or false if the
// time half was not captured.
func (s Sample) UnixMilli() (int64, bool) {
	if !s.TimeOK {
		return 0, false
	}
	return s.Time.UnixMilli(), true
}
