package ansi

import (
	"context"
	"encoding/json"

	"github.com/sourcegraph/termbench/harness"
	"github.com/sourcegraph/termbench/payload"
	"github.com/sourcegraph/termbench/types"
)

// Type should match the package name
const Type = "ansi"

// DefaultRuns is the number of times each sequence set is driven.
var DefaultRuns = 5

// Benchmark measures how a target processes color escape sequences.
type Benchmark struct {
	Runs int `json:"runs,omitempty"`

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

// Run drives the 256 color palette and a truecolor sample through
// target. Both payloads are generated before anything is timed.
func (b Benchmark) Run(ctx context.Context, target types.Target) (types.Result, error) {
	if b.Runs < 1 {
		b.Runs = DefaultRuns
	}

	cases := []struct {
		name string
		data string
	}{
		{"256_colors", payload.ANSI256Colors()},
		{"truecolor", payload.ANSITruecolor()},
	}

	result := types.NewResult(Type, target.Name, b.Runs)
	for _, c := range cases {
		samples, err := harness.MeasurePayload(ctx, b.Invoker, target, []byte(c.data),
			harness.Plan{Runs: b.Runs, Unit: types.Milliseconds})
		if err != nil {
			if harness.Recoverable(err) {
				result.Fail(c.name, err)
				continue
			}
			return result, err
		}
		stats, err := types.Reduce(samples)
		if err != nil {
			result.Fail(c.name, err)
			continue
		}
		result.Metrics.Set(c.name, types.Group(
			types.F("sequences", types.Count(payload.CountIntroducers(c.data))),
			types.F("escapes", types.Count(payload.CountEscapes(c.data))),
			types.F("mean_ms", types.Leaf(stats.Mean)),
			types.F("stdev_ms", types.Leaf(stats.Stdev)),
		))
	}

	result.Conclude()
	return result, nil
}
