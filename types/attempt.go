package types

import (
	"time"
)

// Attempt is one timed invocation of a target.
type Attempt struct {
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// Attempts is a list of Attempt that can be sorted by Duration.
type Attempts []Attempt

func (a Attempts) Len() int           { return len(a) }
func (a Attempts) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a Attempts) Less(i, j int) bool { return a[i].Duration < a[j].Duration }

// Failed returns how many attempts in a carry an error.
func (a Attempts) Failed() int {
	var n int
	for _, attempt := range a {
		if attempt.Error != "" {
			n++
		}
	}
	return n
}

// Samples converts the successful attempts in a to a sample set
// expressed in unit, preserving attempt order.
func (a Attempts) Samples(unit Unit) Samples {
	s := Samples{Unit: unit, Values: make([]float64, 0, len(a))}
	for _, attempt := range a {
		if attempt.Error != "" {
			continue
		}
		s.Values = append(s.Values, unit.FromDuration(attempt.Duration))
	}
	return s
}
