package scrollback

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sourcegraph/termbench/harness"
	"github.com/sourcegraph/termbench/payload"
	"github.com/sourcegraph/termbench/types"
)

// Type should match the package name
const Type = "scrollback"

// Defaults used when the configuration leaves a field empty.
var (
	DefaultRuns       = 5
	DefaultLineCounts = []int{1000, 5000, 10000, 50000}
)

// Benchmark measures how fast a target pushes lines into its
// scrollback buffer.
type Benchmark struct {
	Runs int `json:"runs,omitempty"`

	// LineCounts lists the payload sizes in lines. Each count is
	// a sub-case named "<n>_lines".
	LineCounts []int `json:"line_counts,omitempty"`

	// LineLength is the width of every line. Defaults to
	// payload.DefaultLineLength.
	LineLength int `json:"line_length,omitempty"`

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

// Run drives each block of lines through target.
func (b Benchmark) Run(ctx context.Context, target types.Target) (types.Result, error) {
	if b.Runs < 1 {
		b.Runs = DefaultRuns
	}
	if len(b.LineCounts) == 0 {
		b.LineCounts = DefaultLineCounts
	}
	if b.LineLength == 0 {
		b.LineLength = payload.DefaultLineLength
	}

	result := types.NewResult(Type, target.Name, b.Runs)
	for _, count := range b.LineCounts {
		name := fmt.Sprintf("%d_lines", count)

		text, err := payload.Lines(count, b.LineLength)
		if err != nil {
			result.Fail(name, err)
			continue
		}
		samples, err := harness.MeasurePayload(ctx, b.Invoker, target, []byte(text),
			harness.Plan{Runs: b.Runs, Unit: types.Seconds})
		if err != nil {
			if harness.Recoverable(err) {
				result.Fail(name, err)
				continue
			}
			return result, err
		}
		stats, err := types.Reduce(samples)
		if err != nil {
			result.Fail(name, err)
			continue
		}
		result.Metrics.Set(name, types.Group(
			types.F("mean_seconds", types.Leaf(stats.Mean)),
			types.F("stdev_seconds", types.Leaf(stats.Stdev)),
			types.F("lines_per_second", types.Leaf(harness.PerSecond(float64(count), stats.Mean))),
		))
	}

	result.Conclude()
	return result, nil
}
