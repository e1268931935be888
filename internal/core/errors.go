package core

import "fmt"

// DefaultSpyLabel is the marker used when a configuration helper is invoked
// without a caller-supplied description.
const DefaultSpyLabel = "(description not provided)"

// NotASpyError reports that a configuration helper was invoked on a value
// that is not a recognized stand-in.
type NotASpyError struct {
	Op    string
	Label string
}

func (e *NotASpyError) Error() string {
	return fmt.Sprintf("%s expected a spy for %s, but the given value is not one", e.Op, e.Label)
}

// ArgumentError reports a missing or unusable required argument.
type ArgumentError struct {
	Op       string
	Argument string
	Reason   string
}

func (e *ArgumentError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: argument %q: %s", e.Op, e.Argument, e.Reason)
	}

	return fmt.Sprintf("%s: required argument %q is missing", e.Op, e.Argument)
}

// UnexpectedSignalError reports that a reader expected one signal kind at
// the target position but observed a different kind first. It wraps the
// offending payload.
type UnexpectedSignalError struct {
	Op       string
	Expected string
	Payload  any
}

func (e *UnexpectedSignalError) Error() string {
	return fmt.Sprintf("%s expected %s signal, but observed %#v first", e.Op, e.Expected, e.Payload)
}

// EmissionDeficitError reports that fewer signals occurred than the
// requested skip position required. Observed counts the signals that
// actually reached the target position, past the skip; the message carries
// both counts for diagnosability.
type EmissionDeficitError struct {
	Op       string
	Skip     int
	Observed int
}

func (e *EmissionDeficitError) Error() string {
	return fmt.Sprintf(
		"%s requested a skip of %d signals, but only %d signals were observed past the skip",
		e.Op, e.Skip, e.Observed,
	)
}
