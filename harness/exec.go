package harness

import (
	"context"
	"os/exec"

	"github.com/pkg/errors"

	"github.com/sourcegraph/termbench/types"
)

// Exec invokes commands with os/exec. Output of the command is
// discarded.
type Exec struct{}

// Invoke starts cmd and waits for it. A command that outlives its
// Timeout is killed and ErrTimeout is returned.
func (Exec) Invoke(ctx context.Context, cmd Command) error {
	if cmd.Name == "" {
		return errors.Wrap(types.ErrInvalidArgument, "empty command")
	}

	runCtx := ctx
	if cmd.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, cmd.Timeout)
		defer cancel()
	}

	// #nosec G204
	c := exec.CommandContext(runCtx, cmd.Name, cmd.Args...)
	err := c.Run()
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if runCtx.Err() == context.DeadlineExceeded {
		return errors.Wrapf(ErrTimeout, "%s after %s", cmd, cmd.Timeout)
	}
	return errors.Wrapf(types.ErrExternalInvocation, "%s: %v", cmd, err)
}
