// Package harnesstest provides an Invoker for tests that never starts
// a process.
package harnesstest

import (
	"context"
	"sync"
	"time"

	"github.com/sourcegraph/termbench/harness"
)

// Invoker records every command it is given, sleeps for Delay and
// returns whatever Fail returns for the call.
type Invoker struct {
	// Delay is slept on every call, or DelayFor when set.
	Delay    time.Duration
	DelayFor func(cmd harness.Command) time.Duration

	// Fail decides the outcome of call number n (0-based) of cmd.
	// Nil means every call succeeds.
	Fail func(cmd harness.Command, n int) error

	mu    sync.Mutex
	calls []harness.Command
}

// Invoke implements harness.Invoker.
func (inv *Invoker) Invoke(ctx context.Context, cmd harness.Command) error {
	inv.mu.Lock()
	n := 0
	for _, c := range inv.calls {
		if c.String() == cmd.String() {
			n++
		}
	}
	inv.calls = append(inv.calls, cmd)
	inv.mu.Unlock()

	d := inv.Delay
	if inv.DelayFor != nil {
		d = inv.DelayFor(cmd)
	}
	if d > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d):
		}
	}
	if inv.Fail != nil {
		return inv.Fail(cmd, n)
	}
	return nil
}

// Calls returns the commands invoked so far.
func (inv *Invoker) Calls() []harness.Command {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return append([]harness.Command(nil), inv.calls...)
}
