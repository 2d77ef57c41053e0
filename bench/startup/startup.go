package startup

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sourcegraph/termbench/harness"
	"github.com/sourcegraph/termbench/types"
)

// Type should match the package name
const Type = "startup"

// Defaults used when the configuration leaves a field empty.
var (
	DefaultRuns     = 3
	DefaultTimeout  = 10 * time.Second
	DefaultCooldown = time.Second
)

// Benchmark measures how long a target takes to launch and exit.
type Benchmark struct {
	Runs int `json:"runs,omitempty"`

	// Timeout bounds every launch. A launch that is killed after
	// Timeout still counts as a sample of Timeout.
	Timeout time.Duration `json:"timeout,omitempty"`

	// Cooldown is waited between launches.
	Cooldown time.Duration `json:"cooldown,omitempty"`

	Invoker harness.Invoker `json:"-"`
}

// New creates a new Benchmark instance based on json config
func New(config json.RawMessage) (Benchmark, error) {
	var b Benchmark
	if len(config) == 0 {
		return b, nil
	}
	err := json.Unmarshal(config, &b)
	return b, err
}

// Type returns the benchmark package name
func (Benchmark) Type() string {
	return Type
}

// Run launches target repeatedly using its launch procedure. Targets
// without one produce an unsupported result, not an error.
func (b Benchmark) Run(ctx context.Context, target types.Target) (types.Result, error) {
	if b.Runs < 1 {
		b.Runs = DefaultRuns
	}
	if b.Timeout == 0 {
		b.Timeout = DefaultTimeout
	}
	if b.Cooldown == 0 {
		b.Cooldown = DefaultCooldown
	}

	result := types.NewResult(Type, target.Name, b.Runs)
	if len(target.Launch) == 0 {
		result.MarkUnsupported(fmt.Sprintf("startup benchmark not supported for %s", target.Name))
		result.Conclude()
		return result, nil
	}

	cmd := harness.NewCommand(target.Launch)
	cmd.Timeout = b.Timeout
	samples, err := harness.Measure(ctx, b.Invoker, cmd, harness.Plan{
		Runs:         b.Runs,
		Unit:         types.Seconds,
		Spacing:      b.Cooldown,
		KeepTimeouts: true,
	})
	if err != nil {
		if !harness.Recoverable(err) {
			return result, err
		}
		result.Fail("launch", err)
		result.Conclude()
		return result, nil
	}

	stats, err := types.Reduce(samples)
	if err != nil {
		result.Fail("launch", err)
		result.Conclude()
		return result, nil
	}
	result.Metrics = stats.Group("")
	result.RawSamples = samples.Values
	result.RawUnit = types.Seconds

	result.Conclude()
	return result, nil
}
