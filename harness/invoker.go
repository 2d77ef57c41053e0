// Package harness runs external commands a number of times and times
// each invocation, keeping payload setup and teardown outside of the
// measured interval.
package harness

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrTimeout is returned by an Invoker when a command outlived
	// its Timeout and was killed.
	ErrTimeout = errors.New("command timed out")

	// ErrTransientStorage is returned when a payload could not be
	// staged in temporary storage. It aborts the whole invocation.
	ErrTransientStorage = errors.New("transient storage unavailable")
)

// Command is one external program invocation.
type Command struct {
	Name string
	Args []string

	// Timeout bounds a single invocation. Zero means no limit.
	Timeout time.Duration
}

// String returns the command line of c.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// NewCommand builds a Command from an argv slice.
func NewCommand(argv []string) Command {
	if len(argv) == 0 {
		return Command{}
	}
	return Command{Name: argv[0], Args: argv[1:]}
}

// Invoker runs a command to completion. An error means the
// invocation did not succeed; its duration is still observable
// by the caller.
type Invoker interface {
	Invoke(ctx context.Context, cmd Command) error
}

// InvokerFunc adapts a function to the Invoker interface.
type InvokerFunc func(ctx context.Context, cmd Command) error

// Invoke calls f(ctx, cmd).
func (f InvokerFunc) Invoke(ctx context.Context, cmd Command) error {
	return f(ctx, cmd)
}

// Default is the Invoker used by benchmarks that were not given one.
var Default Invoker = Exec{}

// Or returns inv, or Default when inv is nil.
func Or(inv Invoker) Invoker {
	if inv == nil {
		return Default
	}
	return inv
}
