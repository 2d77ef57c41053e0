package types

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
)

// Result is the result of running one benchmark against one target.
type Result struct {
	// Name is the benchmark kind, e.g. "throughput".
	Name string `json:"name"`

	// Target is the id of the terminal that was measured.
	Target string `json:"target"`

	// Timestamp is when the benchmark started; UTC UnixNano format.
	Timestamp int64 `json:"timestamp"`

	// Runs is the configured number of attempts per sub-case.
	Runs int `json:"runs"`

	// Metrics is either a summary group or a group keyed by
	// sub-case name.
	Metrics Metric `json:"metrics"`

	// RawSamples holds the unreduced samples of the benchmark's
	// primary measurement, in RawUnit.
	RawSamples []float64 `json:"raw_samples"`
	RawUnit    Unit      `json:"raw_unit,omitempty"`

	// Failures lists the sub-cases that were aborted because
	// none of their attempts succeeded.
	Failures []Failure `json:"failures,omitempty"`

	// Healthy, Degraded, and Down contain the conclusion about the
	// run. At most one of these should be true; all three are false
	// when the benchmark is Unsupported.
	Healthy     bool `json:"healthy,omitempty"`
	Degraded    bool `json:"degraded,omitempty"`
	Down        bool `json:"down,omitempty"`
	Unsupported bool `json:"unsupported,omitempty"`

	// Notice describes a condition that affected the result, for
	// example why it is unsupported.
	Notice string `json:"notice,omitempty"`
}

// Failure records an aborted sub-case.
type Failure struct {
	SubCase string `json:"sub_case"`
	Error   string `json:"error"`
}

// NewResult returns an empty result for benchmark name on target.
func NewResult(name, target string, runs int) Result {
	return Result{
		Name:       name,
		Target:     target,
		Timestamp:  Timestamp(),
		Runs:       runs,
		Metrics:    Group(),
		RawSamples: []float64{},
	}
}

// Fail records that subCase was aborted because of err.
func (r *Result) Fail(subCase string, err error) {
	log.WithFields(log.Fields{
		"benchmark": r.Name,
		"target":    r.Target,
		"sub_case":  subCase,
	}).Warnf("sub-case aborted: %v", err)
	r.Failures = append(r.Failures, Failure{SubCase: subCase, Error: err.Error()})
}

// MarkUnsupported records that the target has no procedure for this
// benchmark. The reason is kept both as Notice and as an "error"
// metric so reports show it.
func (r *Result) MarkUnsupported(reason string) {
	r.Unsupported = true
	r.Notice = reason
	r.Metrics = Group(F("error", Text(reason)))
}

// Conclude sets the Healthy, Degraded, and Down fields from the
// recorded metrics and failures.
func (r *Result) Conclude() {
	r.Healthy, r.Degraded, r.Down = false, false, false
	switch {
	case r.Unsupported:
	case len(r.Failures) == 0:
		r.Healthy = true
	case r.Metrics.Len() == 0:
		r.Down = true
	default:
		r.Degraded = true
	}
	if len(r.Failures) > 0 && r.Notice == "" {
		names := make([]string, len(r.Failures))
		for i, f := range r.Failures {
			names[i] = f.SubCase
		}
		r.Notice = fmt.Sprintf("aborted sub-cases: %s", strings.Join(names, ", "))
	}
}

// Status returns a text representation of the overall status
// indicated in r.
func (r Result) Status() StatusText {
	switch {
	case r.Down:
		return StatusDown
	case r.Degraded:
		return StatusDegraded
	case r.Healthy:
		return StatusHealthy
	}
	return StatusUnknown
}

// DisableColor disables ANSI colors in the Result default string.
func DisableColor() {
	color.NoColor = true
}

// String returns a human-readable rendering of r.
func (r Result) String() string {
	s := fmt.Sprintf("== %s - %s (%d runs)\n", r.Name, r.Target, r.Runs)
	for _, f := range r.Metrics.Fields() {
		if f.Value.Kind() != GroupKind {
			s += fmt.Sprintf("  %16s: %s\n", f.Name, f.Value)
			continue
		}
		s += fmt.Sprintf("  %s\n", f.Name)
		for _, sub := range f.Value.Fields() {
			s += fmt.Sprintf("    %24s: %s\n", sub.Name, sub.Value)
		}
	}
	for _, f := range r.Failures {
		s += fmt.Sprintf("  failed %s: %s\n", f.SubCase, f.Error)
	}
	statusLine := fmt.Sprintf(" Assessment: %v\n", r.Status())
	switch r.Status() {
	case StatusHealthy:
		statusLine = color.GreenString(statusLine)
	case StatusDegraded:
		statusLine = color.YellowString(statusLine)
	case StatusDown:
		statusLine = color.RedString(statusLine)
	}
	s += statusLine
	return s
}
