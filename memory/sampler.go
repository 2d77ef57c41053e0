// Package memory samples the resident memory of running terminal
// processes.
package memory

import (
	"runtime"
)

// Sampler reports the resident memory, in megabytes, of the first
// running process matching pattern. ok is false when no process
// matches or the process table cannot be read.
type Sampler interface {
	Sample(pattern string) (mb float64, ok bool)
}

// New returns the Sampler for the running operating system.
func New() Sampler {
	return ForOS(runtime.GOOS)
}

// ForOS returns the Sampler used on goos.
func ForOS(goos string) Sampler {
	switch goos {
	case "linux":
		// like pgrep -f, match anywhere in the command line
		return ProcessTable{MatchCmdline: true}
	case "darwin", "windows", "freebsd":
		return ProcessTable{}
	}
	return Unsupported{}
}

// Unsupported is the Sampler of systems without a process table
// implementation. It never reports a value.
type Unsupported struct{}

// Sample implements Sampler.
func (Unsupported) Sample(string) (float64, bool) { return 0, false }

// Func adapts a function to the Sampler interface.
type Func func(pattern string) (float64, bool)

// Sample calls f(pattern).
func (f Func) Sample(pattern string) (float64, bool) { return f(pattern) }
