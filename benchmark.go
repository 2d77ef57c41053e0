package termbench

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/sourcegraph/termbench/bench/ansi"
	"github.com/sourcegraph/termbench/bench/latency"
	"github.com/sourcegraph/termbench/bench/memory"
	"github.com/sourcegraph/termbench/bench/scrollback"
	"github.com/sourcegraph/termbench/bench/startup"
	"github.com/sourcegraph/termbench/bench/throughput"
	"github.com/sourcegraph/termbench/bench/unicode"
)

func benchmarkDecode(typeName string, config json.RawMessage) (Benchmark, error) {
	switch typeName {
	case throughput.Type:
		return throughput.New(config)
	case latency.Type:
		return latency.New(config)
	case unicode.Type:
		return unicode.New(config)
	case ansi.Type:
		return ansi.New(config)
	case scrollback.Type:
		return scrollback.New(config)
	case memory.Type:
		return memory.New(config)
	case startup.Type:
		return startup.New(config)
	default:
		return nil, errors.New(strings.Replace(errUnknownBenchmarkType, "%T", typeName, -1))
	}
}

func benchmarkType(b interface{}) (string, error) {
	var typeName string
	switch b.(type) {
	case throughput.Benchmark, *throughput.Benchmark:
		typeName = throughput.Type
	case latency.Benchmark, *latency.Benchmark:
		typeName = latency.Type
	case unicode.Benchmark, *unicode.Benchmark:
		typeName = unicode.Type
	case ansi.Benchmark, *ansi.Benchmark:
		typeName = ansi.Type
	case scrollback.Benchmark, *scrollback.Benchmark:
		typeName = scrollback.Type
	case memory.Benchmark, *memory.Benchmark:
		typeName = memory.Type
	case startup.Benchmark, *startup.Benchmark:
		typeName = startup.Type
	default:
		return "", fmt.Errorf(errUnknownBenchmarkType, b)
	}
	return typeName, nil
}

// NewBenchmark returns the benchmark of the given kind with its
// default configuration. If runs is positive it replaces the
// default number of runs.
func NewBenchmark(kind string, runs int) (Benchmark, error) {
	config := json.RawMessage(`{}`)
	if runs > 0 {
		config = json.RawMessage(fmt.Sprintf(`{"runs":%d}`, runs))
	}
	return benchmarkDecode(kind, config)
}

// NewBenchmarks is NewBenchmark for a list of kinds.
func NewBenchmarks(kinds []string, runs int) ([]Benchmark, error) {
	benchmarks := make([]Benchmark, 0, len(kinds))
	for _, kind := range kinds {
		b, err := NewBenchmark(kind, runs)
		if err != nil {
			return nil, err
		}
		benchmarks = append(benchmarks, b)
	}
	return benchmarks, nil
}

// WithRuns returns b with its number of runs set to runs, if runs is
// positive. The memory benchmark always drives its payload once and
// is returned unchanged.
func WithRuns(b Benchmark, runs int) Benchmark {
	if runs <= 0 {
		return b
	}
	switch v := b.(type) {
	case throughput.Benchmark:
		v.Runs = runs
		return v
	case latency.Benchmark:
		v.Runs = runs
		return v
	case unicode.Benchmark:
		v.Runs = runs
		return v
	case ansi.Benchmark:
		v.Runs = runs
		return v
	case scrollback.Benchmark:
		v.Runs = runs
		return v
	case startup.Benchmark:
		v.Runs = runs
		return v
	}
	return b
}
