// Package logx writes bracket-tagged diagnostic lines ("[tag] a b c") to a
// one-way console. Arguments are joined with spaces like println, without
// pulling fmt into MCU builds.
package logx

import (
	"io"
	"time"

	"envlogger-go/x/conv"
)

type Logger struct {
	w   io.Writer
	tag string
}

// New returns a logger writing to w. A nil w discards output.
func New(w io.Writer, tag string) *Logger {
	if w == nil {
		w = io.Discard
	}
	return &Logger{w: w, tag: tag}
}

// Discard returns a logger that drops everything.
func Discard() *Logger { return New(nil, "") }

// With returns a logger sharing the writer under a different tag.
func (l *Logger) With(tag string) *Logger {
	if l == nil {
		return Discard()
	}
	return &Logger{w: l.w, tag: tag}
}

func (l *Logger) Info(a ...any)  { l.line("", a) }
func (l *Logger) Warn(a ...any)  { l.line("warn: ", a) }
func (l *Logger) Error(a ...any) { l.line("error: ", a) }

func (l *Logger) line(level string, a []any) {
	if l == nil {
		return
	}
	buf := make([]byte, 0, 96)
	if l.tag != "" {
		buf = append(buf, '[')
		buf = append(buf, l.tag...)
		buf = append(buf, "] "...)
	}
	buf = append(buf, level...)
	for i, v := range a {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = appendValue(buf, v)
	}
	buf = append(buf, '\n')
	// One write per line keeps lines whole on a shared UART.
	_, _ = l.w.Write(buf)
}

type stringer interface{ String() string }

func appendValue(buf []byte, v any) []byte {
	switch x := v.(type) {
	case nil:
		return append(buf, "<nil>"...)
	case string:
		return append(buf, x...)
	case error:
		return append(buf, x.Error()...)
	case bool:
		if x {
			return append(buf, "true"...)
		}
		return append(buf, "false"...)
	case int:
		return conv.AppendInt(buf, int64(x))
	case int8:
		return conv.AppendInt(buf, int64(x))
	case int16:
		return conv.AppendInt(buf, int64(x))
	case int32:
		return conv.AppendInt(buf, int64(x))
	case int64:
		return conv.AppendInt(buf, x)
	case uint:
		return conv.AppendUint(buf, uint64(x))
	case uint8:
		return conv.AppendUint(buf, uint64(x))
	case uint16:
		return conv.AppendUint(buf, uint64(x))
	case uint32:
		return conv.AppendUint(buf, uint64(x))
	case uint64:
		return conv.AppendUint(buf, x)
	case time.Duration:
		buf = conv.AppendInt(buf, x.Milliseconds())
		return append(buf, "ms"...)
	case stringer:
		return append(buf, x.String()...)
	}
	return append(buf, '?')
}
