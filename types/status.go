package types

// StatusText is the textual representation of the
// outcome of a benchmark.
type StatusText string

// PriorityOver returns whether s has priority over other.
// For example, a Down status has priority over Degraded.
func (s StatusText) PriorityOver(other StatusText) bool {
	if s == other {
		return false
	}
	switch s {
	case StatusDown:
		return true
	case StatusDegraded:
		if other == StatusDown {
			return false
		}
		return true
	case StatusHealthy:
		if other == StatusUnknown {
			return true
		}
		return false
	}
	return false
}

// Text representations for the outcome of a benchmark. Healthy means
// every sub-case produced samples, Degraded that some sub-cases were
// aborted, Down that all of them were. Unknown covers benchmarks the
// target does not support.
const (
	StatusHealthy  StatusText = "healthy"
	StatusDegraded StatusText = "degraded"
	StatusDown     StatusText = "down"
	StatusUnknown  StatusText = "unknown"
)
