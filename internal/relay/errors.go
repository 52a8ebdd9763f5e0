package relay

import (
	"errors"
	"fmt"
)

// Kind classifies how an invocation failed.
type Kind string

const (
	KindSpawn     Kind = "spawn"
	KindExit      Kind = "exit"
	KindParse     Kind = "parse"
	KindTimeout   Kind = "timeout"
	KindCanceled  Kind = "canceled"
	KindSaturated Kind = "saturated"
)

// Error is the terminal failure of a single invocation.
type Error struct {
	Kind     Kind
	Endpoint string
	// Detail carries captured stderr for KindExit and the start error for KindSpawn.
	Detail string
	// RawOutput is the unparsed stdout for KindParse.
	RawOutput string
	ExitCode  int
	Err       error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindSpawn:
		return fmt.Sprintf("%s: process failed to start: %v", e.Endpoint, e.Err)
	case KindExit:
		return fmt.Sprintf("%s: process exited with code %d: %s", e.Endpoint, e.ExitCode, e.Detail)
	case KindParse:
		return fmt.Sprintf("%s: invalid process output: %v", e.Endpoint, e.Err)
	case KindTimeout:
		return fmt.Sprintf("%s: process exceeded time budget", e.Endpoint)
	case KindCanceled:
		return fmt.Sprintf("%s: request canceled", e.Endpoint)
	case KindSaturated:
		return fmt.Sprintf("%s: no free process slot", e.Endpoint)
	default:
		return fmt.Sprintf("%s: relay error", e.Endpoint)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError extracts a relay error from err.
func AsError(err error) (*Error, bool) {
	var re *Error
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// KindOf returns the relay kind of err, or an empty kind when err is not a relay error.
func KindOf(err error) Kind {
	if re, ok := AsError(err); ok {
		return re.Kind
	}
	return ""
}
