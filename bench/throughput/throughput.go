package throughput

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sourcegraph/termbench/harness"
	"github.com/sourcegraph/termbench/payload"
	"github.com/sourcegraph/termbench/types"
)

// Type should match the package name
const Type = "throughput"

// Defaults used when the configuration leaves a field empty.
var (
	DefaultRuns    = 5
	DefaultSizesMB = []int{1, 5, 10, 25}
)

// Benchmark measures how fast a target consumes bulk random ASCII.
type Benchmark struct {
	// Runs is how many times each payload is driven through
	// the target.
	Runs int `json:"runs,omitempty"`

	// SizesMB lists the payload sizes, in megabytes. Each size is
	// a sub-case named "<n>MB".
	SizesMB []int `json:"sizes_mb,omitempty"`

	// Invoker runs the driver command. Defaults to harness.Default.
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

// Run drives every payload size through target and reports the
// throughput in MB/s next to the raw transfer times. An error is
// only returned if payloads could not be staged.
func (b Benchmark) Run(ctx context.Context, target types.Target) (types.Result, error) {
	if b.Runs < 1 {
		b.Runs = DefaultRuns
	}
	if len(b.SizesMB) == 0 {
		b.SizesMB = DefaultSizesMB
	}

	result := types.NewResult(Type, target.Name, b.Runs)
	for _, size := range b.SizesMB {
		name := fmt.Sprintf("%dMB", size)

		data, err := payload.RandomASCII(size * payload.MB)
		if err != nil {
			result.Fail(name, err)
			continue
		}
		times, err := harness.MeasurePayload(ctx, b.Invoker, target, data,
			harness.Plan{Runs: b.Runs, Unit: types.Seconds})
		if err != nil {
			if harness.Recoverable(err) {
				result.Fail(name, err)
				continue
			}
			return result, err
		}

		mb := float64(size)
		rates := times.Map(types.Unit("MB/s"), func(seconds float64) float64 {
			return harness.PerSecond(mb, seconds)
		})
		rateStats, err := types.Reduce(rates)
		if err != nil {
			result.Fail(name, err)
			continue
		}
		timeStats, err := types.Reduce(times)
		if err != nil {
			result.Fail(name, err)
			continue
		}

		result.Metrics.Set(name, types.Group(
			types.F("throughput_mbps_mean", types.Leaf(rateStats.Mean)),
			types.F("throughput_mbps_stdev", types.Leaf(rateStats.Stdev)),
			types.F("time_seconds_mean", types.Leaf(timeStats.Mean)),
			types.F("time_seconds_stdev", types.Leaf(timeStats.Stdev)),
		))
	}

	result.Conclude()
	return result, nil
}
