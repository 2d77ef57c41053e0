package latency

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/sourcegraph/termbench/harness"
	"github.com/sourcegraph/termbench/types"
)

// Type should match the package name
const Type = "latency"

// DefaultRuns is the number of invocations per operation.
var DefaultRuns = 100

// Operation is one short command whose round trip is timed.
type Operation struct {
	Name    string   `json:"name"`
	Command []string `json:"command"`
}

// DefaultOperations are a minimal echo and an 80 character line.
func DefaultOperations() []Operation {
	return []Operation{
		{Name: "echo", Command: []string{"echo", "x"}},
		{Name: "printf_80chars", Command: []string{"printf", `%s\n`, strings.Repeat("x", 80)}},
	}
}

// Benchmark measures the latency of short commands. Each operation is
// invoked directly, without a payload file.
type Benchmark struct {
	// Runs is how many times each operation is invoked.
	Runs int `json:"runs,omitempty"`

	// Operations replaces DefaultOperations when set.
	Operations []Operation `json:"operations,omitempty"`

	// Invoker runs the commands. Defaults to harness.Default.
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

// Run times every operation and reports millisecond statistics per
// operation. The samples of the first operation are kept as the raw
// samples of the result.
func (b Benchmark) Run(ctx context.Context, target types.Target) (types.Result, error) {
	if b.Runs < 1 {
		b.Runs = DefaultRuns
	}
	if len(b.Operations) == 0 {
		b.Operations = DefaultOperations()
	}

	result := types.NewResult(Type, target.Name, b.Runs)
	result.RawUnit = types.Milliseconds
	for i, op := range b.Operations {
		samples, err := harness.Measure(ctx, b.Invoker, harness.NewCommand(op.Command),
			harness.Plan{Runs: b.Runs, Unit: types.Milliseconds})
		if err != nil {
			if harness.Recoverable(err) {
				result.Fail(op.Name, err)
				continue
			}
			return result, err
		}
		stats, err := types.Reduce(samples)
		if err != nil {
			result.Fail(op.Name, err)
			continue
		}
		if i == 0 {
			result.RawSamples = samples.Values
		}
		result.Metrics.Set(op.Name, stats.Group("_ms"))
	}

	result.Conclude()
	return result, nil
}
