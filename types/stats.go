package types

import (
	"math"
	"sort"
	"time"

	"github.com/pkg/errors"
)

// Unit is the unit a sample set is expressed in.
type Unit string

// Units used by the benchmarks.
const (
	Seconds      Unit = "seconds"
	Milliseconds Unit = "ms"
	Nanoseconds  Unit = "ns"
	Megabytes    Unit = "MB"
)

// FromDuration converts d to a value in u. Non-time units
// receive the duration in seconds.
func (u Unit) FromDuration(d time.Duration) float64 {
	switch u {
	case Milliseconds:
		return float64(d) / float64(time.Millisecond)
	case Nanoseconds:
		return float64(d)
	default:
		return d.Seconds()
	}
}

// Samples is one measurement per trial, in capture order.
type Samples struct {
	Unit   Unit      `json:"unit"`
	Values []float64 `json:"values"`
}

// Len returns the number of samples.
func (s Samples) Len() int { return len(s.Values) }

// Map returns a new sample set with fn applied to each value.
func (s Samples) Map(unit Unit, fn func(float64) float64) Samples {
	out := Samples{Unit: unit, Values: make([]float64, len(s.Values))}
	for i, v := range s.Values {
		out.Values[i] = fn(v)
	}
	return out
}

// Summary holds descriptive statistics computed from one Samples.
type Summary struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Stdev  float64 `json:"stdev"`
	P95    float64 `json:"p95"`
	P99    float64 `json:"p99"`
	Unit   Unit    `json:"unit"`
}

// Minimum sample counts below which a percentile is reported as the
// maximum instead of indexing a low-order statistic.
const (
	MinSamplesP95 = 20
	MinSamplesP99 = 100
)

// Reduce computes the summary statistics of s. The input is not
// modified. It returns ErrEmptyInput when s holds no values.
func Reduce(s Samples) (Summary, error) {
	n := len(s.Values)
	if n == 0 {
		return Summary{}, errors.Wrap(ErrEmptyInput, "reduce")
	}

	sorted := make([]float64, n)
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	var total float64
	for _, v := range sorted {
		total += v
	}

	sum := Summary{
		Min:  sorted[0],
		Max:  sorted[n-1],
		Mean: total / float64(n),
		Unit: s.Unit,
	}

	half := n / 2
	if n%2 == 0 {
		sum.Median = (sorted[half-1] + sorted[half]) / 2
	} else {
		sum.Median = sorted[half]
	}

	if n >= 2 {
		var sq float64
		for _, v := range sorted {
			d := v - sum.Mean
			sq += d * d
		}
		sum.Stdev = math.Sqrt(sq / float64(n-1))
	}

	// floor(n*0.95) and floor(n*0.99) in integer arithmetic.
	sum.P95 = sum.Max
	if n >= MinSamplesP95 {
		sum.P95 = sorted[n*95/100]
	}
	sum.P99 = sum.Max
	if n >= MinSamplesP99 {
		sum.P99 = sorted[n*99/100]
	}

	return sum, nil
}

// Group projects s into a metric group keyed min, max, mean, median,
// stdev, p95 and p99, each name followed by suffix. Without a suffix
// the unit is added as a text field.
func (s Summary) Group(suffix string) Metric {
	g := Group(
		F("min"+suffix, Leaf(s.Min)),
		F("max"+suffix, Leaf(s.Max)),
		F("mean"+suffix, Leaf(s.Mean)),
		F("median"+suffix, Leaf(s.Median)),
		F("stdev"+suffix, Leaf(s.Stdev)),
		F("p95"+suffix, Leaf(s.P95)),
		F("p99"+suffix, Leaf(s.P99)),
	)
	if suffix == "" {
		g.Set("unit", Text(string(s.Unit)))
	}
	return g
}
