package errcode

import "errors"

// Code is a stable error identifier reported on the console and in cycle
// reports. It is a string newtype, comparable, allocation-free, and
// implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	// Bus and register level.
	BusFault       Code = "bus_fault"
	RegisterAccess Code = "register_access"

	// TimeSource.
	TimeRead     Code = "time_read"
	TempRead     Code = "temp_read"
	AlarmProgram Code = "alarm_program"

	// LogSink. Format-required is kept apart from the init failures: only a
	// blank or foreign medium may be formatted.
	MountFormatRequired Code = "mount_format_required"
	MountDeviceInit     Code = "mount_device_init"
	MountBusInit        Code = "mount_bus_init"
	Write               Code = "write"

	// PowerController.
	WakeTimer  Code = "wake_timer"
	PinIsolate Code = "pin_isolate"
	Retained   Code = "retained_state"

	InvalidConfig Code = "invalid_config"

	Error Code = "error" // generic fallback
)

// E wraps a cause with a code and the operation that failed.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Wrap returns nil for a nil cause, otherwise an *E carrying c.
func Wrap(c Code, op string, err error) error {
	if err == nil {
		return nil
	}
	return &E{C: c, Op: op, Err: err}
}

// New builds an *E without a cause.
func New(c Code, op, msg string) error {
	return &E{C: c, Op: op, Msg: msg}
}

// Of extracts a Code from an error, defaulting to Error. The outermost code
// in a wrap chain wins.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	var x coder
	if errors.As(err, &x) {
		return x.Code()
	}
	return Error
}

// Is reports whether err carries code c anywhere in its chain.
func Is(err error, c Code) bool {
	for err != nil {
		if Of(err) == c {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// IsMount reports whether c is one of the mount failure kinds.
func IsMount(c Code) bool {
	switch c {
	case MountFormatRequired, MountDeviceInit, MountBusInit:
		return true
	}
	return false
}
