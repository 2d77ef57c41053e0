package types

import (
	"strings"

	"github.com/pkg/errors"
)

// Error kinds shared by the payload generators, the statistics reducer
// and the benchmark runners. Match them with errors.Is.
var (
	// ErrInvalidArgument is returned for negative sizes or counts.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrEmptyInput is returned when reducing an empty sample set.
	ErrEmptyInput = errors.New("empty input")

	// ErrExternalInvocation marks a single failed run of the target
	// (non-zero exit, missing executable).
	ErrExternalInvocation = errors.New("external invocation failed")

	// ErrAllAttemptsFailed marks a sub-case in which no attempt succeeded.
	ErrAllAttemptsFailed = errors.New("all attempts failed")

	// ErrUnsupported marks an operation the target has no procedure for.
	ErrUnsupported = errors.New("unsupported operation")
)

// Errors is an error type that concatenates multiple errors.
type Errors []error

// Error returns a string containing all the errors in e.
func (e Errors) Error() string {
	var errs []string
	for _, err := range e {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	return strings.Join(errs, "; ")
}

// Empty returns whether e has any non-nil errors in it.
func (e Errors) Empty() bool {
	for _, err := range e {
		if err != nil {
			return false
		}
	}
	return true
}
