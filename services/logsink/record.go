package logsink

import (
	"errors"
	"strings"
	"time"

	"envlogger-go/types"
	"envlogger-go/x/conv"
)

// Record layout: "YYYY-MM-DD HH:MM:SS, <temp> deg Cel\n".
const (
	sep        = ", "
	unit       = " deg Cel"
	stampLen   = len("2006-01-02 15:04:05")
	noTime     = "0000-00-00 00:00:00"
	noTemp     = "nan"
	tempDigits = 2
)

var ErrMalformed = errors.New("logsink: malformed record")

// FormatRecord renders one log line, newline included. A missing half is
// written as its placeholder.
func FormatRecord(s types.Sample) string {
	return string(AppendRecord(make([]byte, 0, 40), s))
}

func AppendRecord(dst []byte, s types.Sample) []byte {
	if s.TimeOK {
		dst = appendStamp(dst, s.Time)
	} else {
		dst = append(dst, noTime...)
	}
	dst = append(dst, sep...)
	if s.TempOK {
		dst = conv.AppendFixed(dst, int64(s.Temp), tempDigits)
	} else {
		dst = append(dst, noTemp...)
	}
	dst = append(dst, unit...)
	return append(dst, '\n')
}

func appendStamp(dst []byte, t time.Time) []byte {
	t = t.UTC()
	dst = conv.AppendPadded(dst, uint64(t.Year()), 4)
	dst = append(dst, '-')
	dst = conv.AppendPadded(dst, uint64(t.Month()), 2)
	dst = append(dst, '-')
	dst = conv.AppendPadded(dst, uint64(t.Day()), 2)
	dst = append(dst, ' ')
	dst = conv.AppendPadded(dst, uint64(t.Hour()), 2)
	dst = append(dst, ':')
	dst = conv.AppendPadded(dst, uint64(t.Minute()), 2)
	dst = append(dst, ':')
	return conv.AppendPadded(dst, uint64(t.Second()), 2)
}

// ParseRecord is the inverse of FormatRecord. The trailing newline is
// optional; placeholders come back as TimeOK/TempOK false.
func ParseRecord(line string) (types.Sample, error) {
	var s types.Sample
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	if !strings.HasSuffix(line, unit) {
		return s, ErrMalformed
	}
	line = line[:len(line)-len(unit)]
	if len(line) < stampLen+len(sep) || line[stampLen:stampLen+len(sep)] != sep {
		return s, ErrMalformed
	}
	stamp, temp := line[:stampLen], line[stampLen+len(sep):]

	if stamp != noTime {
		t, ok := parseStamp(stamp)
		if !ok {
			return s, ErrMalformed
		}
		s.Time, s.TimeOK = t, true
	}
	if temp != noTemp {
		v, ok := conv.ParseFixed(temp, tempDigits)
		if !ok || v < -1<<31 || v > 1<<31-1 {
			return s, ErrMalformed
		}
		s.Temp, s.TempOK = types.CentiCelsius(v), true
	}
	return s, nil
}

func parseStamp(s string) (time.Time, bool) {
	// positions of separators in "2006-01-02 15:04:05"
	if s[4] != '-' || s[7] != '-' || s[10] != ' ' || s[13] != ':' || s[16] != ':' {
		return time.Time{}, false
	}
	var f [6]int
	for i, r := range [6][2]int{{0, 4}, {5, 7}, {8, 10}, {11, 13}, {14, 16}, {17, 19}} {
		v, ok := conv.ParseDigits(s[r[0]:r[1]])
		if !ok {
			return time.Time{}, false
		}
		f[i] = int(v)
	}
	if f[1] < 1 || f[1] > 12 || f[2] < 1 || f[2] > 31 || f[3] > 23 || f[4] > 59 || f[5] > 59 {
		return time.Time{}, false
	}
	t := time.Date(f[0], time.Month(f[1]), f[2], f[3], f[4], f[5], 0, time.UTC)
	if t.Day() != f[2] {
		return time.Time{}, false
	}
	return t, true
}
