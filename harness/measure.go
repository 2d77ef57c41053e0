package harness

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/sourcegraph/termbench/types"
)

// Plan describes how a command is measured.
type Plan struct {
	// Runs is how many times the command is invoked.
	Runs int

	// Unit is the unit of the returned samples.
	Unit types.Unit

	// Spacing is slept between attempts, outside of the
	// measured interval.
	Spacing time.Duration

	// KeepTimeouts counts an attempt that ended with ErrTimeout as
	// a successful sample of its full duration.
	KeepTimeouts bool
}

// Measure invokes cmd plan.Runs times and returns the wall-clock
// duration of every successful invocation. Only the Invoke call is
// timed. Failed attempts are logged and left out; if no attempt
// succeeds, the returned error wraps types.ErrAllAttemptsFailed.
//
// Cancelling ctx stops between attempts and returns ctx.Err().
func Measure(ctx context.Context, inv Invoker, cmd Command, plan Plan) (types.Samples, error) {
	attempts, err := Attempt(ctx, inv, cmd, plan)
	if err != nil {
		return types.Samples{Unit: plan.Unit}, err
	}

	samples := attempts.Samples(plan.Unit)
	if samples.Len() == 0 {
		errs := make(types.Errors, 0, len(attempts))
		for _, a := range attempts {
			errs = append(errs, errors.New(a.Error))
		}
		return samples, errors.Wrapf(types.ErrAllAttemptsFailed, "%s (%d runs): %v", cmd, len(attempts), errs)
	}
	return samples, nil
}

// Attempt invokes cmd plan.Runs times and returns every attempt,
// failed or not, in order.
func Attempt(ctx context.Context, inv Invoker, cmd Command, plan Plan) (types.Attempts, error) {
	if plan.Runs < 1 {
		return nil, errors.Wrapf(types.ErrInvalidArgument, "runs %d", plan.Runs)
	}
	inv = Or(inv)

	attempts := make(types.Attempts, 0, plan.Runs)
	for i := 0; i < plan.Runs; i++ {
		if err := ctx.Err(); err != nil {
			return attempts, err
		}
		if i > 0 && plan.Spacing > 0 {
			select {
			case <-ctx.Done():
				return attempts, ctx.Err()
			case <-time.After(plan.Spacing):
			}
		}

		start := time.Now()
		err := inv.Invoke(ctx, cmd)
		elapsed := time.Since(start)

		attempt := types.Attempt{Duration: elapsed}
		if err != nil && !(plan.KeepTimeouts && errors.Is(err, ErrTimeout)) {
			if ctx.Err() != nil {
				return attempts, ctx.Err()
			}
			attempt.Error = err.Error()
			log.WithFields(log.Fields{
				"command": cmd.String(),
				"attempt": fmt.Sprintf("%d/%d", i+1, plan.Runs),
			}).Warnf("attempt failed: %v", err)
		}
		attempts = append(attempts, attempt)
	}
	return attempts, nil
}

// Recoverable reports whether err only affects the sub-case that
// produced it, so sibling sub-cases may continue.
func Recoverable(err error) bool {
	return errors.Is(err, types.ErrAllAttemptsFailed) ||
		errors.Is(err, types.ErrInvalidArgument)
}
