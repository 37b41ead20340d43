// Package engineerr defines the closed error taxonomy raised by the
// routing engine. Every error the realtime path can produce carries one
// of these codes so callers can branch with errors.Is instead of string
// matching.
package engineerr

import "fmt"

// Code identifies a class of engine failure.
type Code int

const (
	// CONFIG: invalid sample rate, block size, or worker count at init.
	CONFIG Code = iota
	// GraphCyclic: build detected a cycle; the previous graph is retained.
	GraphCyclic
	// GraphSwapped: a worker observed a mid-cycle graph swap.
	GraphSwapped
	// XRun: a cycle exceeded its wall-clock budget.
	XRun
	// PluginFault: a hosted plugin raised an error or timed out.
	PluginFault
	// BufferUnderrun: backend delivered fewer frames than declared.
	BufferUnderrun
	// BackendLost: the audio backend disconnected.
	BackendLost
)

func (c Code) String() string {
	switch c {
	case CONFIG:
		return "CONFIG"
	case GraphCyclic:
		return "GRAPH_CYCLIC"
	case GraphSwapped:
		return "GRAPH_SWAPPED"
	case XRun:
		return "XRUN"
	case PluginFault:
		return "PLUGIN_FAULT"
	case BufferUnderrun:
		return "BUFFER_UNDERRUN"
	case BackendLost:
		return "BACKEND_LOST"
	default:
		return "UNKNOWN"
	}
}

// Error wraps a Code with context and an optional underlying cause.
type Error struct {
	Code Code
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Code, allowing
// errors.Is(err, engineerr.New(engineerr.GraphCyclic, "")) style checks
// against a template error carrying only the wanted Code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New constructs an *Error with the given code and message.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// Wrap constructs an *Error with the given code, message, and cause.
func Wrap(code Code, msg string, err error) *Error {
	return &Error{Code: code, Msg: msg, Err: err}
}

// HasCode reports whether err is (or wraps) an *Error with the given code.
func HasCode(err error, code Code) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Code == code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
