// Package vrerr defines the three error kinds the solver ever exits
// non-zero for (spec.md §7): a malformed or contradictory problem input,
// an unreachable or misbehaving routing backend, and an internal
// invariant violation. Each carries a stable process exit code so
// cmd/vroom's final os.Exit and jsonio's Solution.Code field agree on
// what happened without string-matching error text.
package vrerr

import "fmt"

// Kind tags which of the three sentinel categories an error belongs to.
type Kind int

const (
	Input Kind = iota
	Routing
	Internal
)

// Error wraps an underlying cause with a Kind, an exit code and a short
// machine-readable code string.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// ExitCode returns the process exit code for this error's kind, per
// spec.md §6.5: 1 internal, 2 input, 3 routing.
func (e *Error) ExitCode() int {
	switch e.Kind {
	case Input:
		return 2
	case Routing:
		return 3
	default:
		return 1
	}
}

// Code returns the machine-readable tag jsonio.Solution.Code and
// cmd/vroom's diagnostics report.
func (e *Error) Code() string {
	switch e.Kind {
	case Input:
		return "input_error"
	case Routing:
		return "routing_error"
	default:
		return "internal_error"
	}
}

// InputError wraps err as a spec.md §7 input error: malformed JSON,
// contradictory constraints, an unknown profile reference. These abort
// before construction starts.
func InputError(op string, err error) *Error { return &Error{Kind: Input, Op: op, Err: err} }

// RoutingError wraps err as a spec.md §7 routing-service error: an
// unreachable OSRM/ORS backend or a null matrix entry for a
// required pair. These abort before any solver worker starts.
func RoutingError(op string, err error) *Error { return &Error{Kind: Routing, Op: op, Err: err} }

// InternalError wraps err as a spec.md §7 internal error: an invariant
// violation caught by a debug-mode assertion or a recovered panic. These
// propagate and terminate the whole solve — they are never retried.
func InternalError(op string, err error) *Error { return &Error{Kind: Internal, Op: op, Err: err} }

// InputErrorf and its siblings build a formatted error directly, mirroring
// the fmt.Errorf convenience the teacher's codebase uses throughout.
func InputErrorf(op, format string, args ...any) *Error {
	return InputError(op, fmt.Errorf(format, args...))
}

func RoutingErrorf(op, format string, args ...any) *Error {
	return RoutingError(op, fmt.Errorf(format, args...))
}

func InternalErrorf(op, format string, args ...any) *Error {
	return InternalError(op, fmt.Errorf(format, args...))
}
