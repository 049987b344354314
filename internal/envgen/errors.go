package envgen

import (
	"errors"
	"fmt"
)

// Kind classifies where a run failed.
type Kind int

const (
	KindRead     Kind = iota + 1 // an input file is missing or unreadable
	KindParse                    // an input is not valid structured data
	KindEvaluate                 // rule evaluation faulted or strict mode tripped
	KindWrite                    // the output file could not be written
)

func (k Kind) String() string {
	switch k {
	case KindRead:
		return "read"
	case KindParse:
		return "parse"
	case KindEvaluate:
		return "evaluate"
	case KindWrite:
		return "write"
	default:
		return "unknown"
	}
}

// Error is returned by Run for every failure.
type Error struct {
	Kind Kind
	Path string // file involved, empty for evaluation faults
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the Kind from err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// ErrMissingSecrets is wrapped by strict-mode evaluation failures.
var ErrMissingSecrets = errors.New("referenced secrets are not defined")
