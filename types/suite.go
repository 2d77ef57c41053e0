package types

// Suite collects the results of every benchmark run against one
// target during one invocation, in execution order.
type Suite struct {
	Target    string   `json:"target"`
	Host      string   `json:"host"`
	OS        string   `json:"os_info"`
	Timestamp int64    `json:"timestamp"`
	Results   []Result `json:"results"`
}

// NewSuite returns an empty suite for target.
func NewSuite(target, host, os string) Suite {
	return Suite{
		Target:    target,
		Host:      host,
		OS:        os,
		Timestamp: Timestamp(),
		Results:   []Result{},
	}
}

// Add appends r to the suite.
func (s *Suite) Add(r Result) {
	s.Results = append(s.Results, r)
}

// Result returns the result of the benchmark called name.
func (s Suite) Result(name string) (Result, bool) {
	for _, r := range s.Results {
		if r.Name == name {
			return r, true
		}
	}
	return Result{}, false
}

// Status returns the status with the highest priority among the
// suite's results.
func (s Suite) Status() StatusText {
	status := StatusUnknown
	for _, r := range s.Results {
		if r.Status().PriorityOver(status) {
			status = r.Status()
		}
	}
	return status
}

// Issues returns the results that are degraded or down.
func (s Suite) Issues() []Result {
	var issues []Result
	for _, r := range s.Results {
		if r.Down || r.Degraded {
			issues = append(issues, r)
		}
	}
	return issues
}

// AllIssues returns the degraded or down results of every suite, in
// order.
func AllIssues(suites []Suite) []Result {
	var issues []Result
	for _, s := range suites {
		issues = append(issues, s.Issues()...)
	}
	return issues
}
