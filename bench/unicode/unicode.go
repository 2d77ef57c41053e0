package unicode

import (
	"context"
	"encoding/json"
	"unicode/utf8"

	"github.com/sourcegraph/termbench/harness"
	"github.com/sourcegraph/termbench/payload"
	"github.com/sourcegraph/termbench/types"
)

// Type should match the package name
const Type = "unicode"

// DefaultRuns is the number of times each catalog is driven.
var DefaultRuns = 5

// Benchmark measures how a target renders Unicode edge cases: variation
// selectors, joiner sequences, skin tones, astral code points, CJK text
// and a mix of everything.
type Benchmark struct {
	Runs int `json:"runs,omitempty"`

	// Cases restricts the run to the named catalogs.
	Cases []string `json:"cases,omitempty"`

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

func (b Benchmark) selected(name string) bool {
	if len(b.Cases) == 0 {
		return true
	}
	for _, c := range b.Cases {
		if c == name {
			return true
		}
	}
	return false
}

// Run drives each catalog through target.
func (b Benchmark) Run(ctx context.Context, target types.Target) (types.Result, error) {
	if b.Runs < 1 {
		b.Runs = DefaultRuns
	}

	result := types.NewResult(Type, target.Name, b.Runs)
	for _, c := range payload.UnicodeCases() {
		if !b.selected(c.Name) {
			continue
		}
		text := c.Generate()
		samples, err := harness.MeasurePayload(ctx, b.Invoker, target, []byte(text),
			harness.Plan{Runs: b.Runs, Unit: types.Milliseconds})
		if err != nil {
			if harness.Recoverable(err) {
				result.Fail(c.Name, err)
				continue
			}
			return result, err
		}
		stats, err := types.Reduce(samples)
		if err != nil {
			result.Fail(c.Name, err)
			continue
		}

		chars := utf8.RuneCountInString(text)
		result.Metrics.Set(c.Name, types.Group(
			types.F("chars", types.Count(chars)),
			types.F("bytes", types.Count(len(text))),
			types.F("mean_ms", types.Leaf(stats.Mean)),
			types.F("stdev_ms", types.Leaf(stats.Stdev)),
			types.F("chars_per_second", types.Leaf(harness.PerSecond(float64(chars), stats.Mean/1000))),
		))
	}

	result.Conclude()
	return result, nil
}
