package memory

import (
	"os"
	"strings"

	"github.com/shirou/gopsutil/v3/process"
	log "github.com/sirupsen/logrus"
)

// proc is the part of a gopsutil process the sampler reads.
type proc interface {
	PID() int32
	Ppid() (int32, error)
	Name() (string, error)
	Cmdline() (string, error)
	MemoryInfo() (*process.MemoryInfoStat, error)
}

type gopsProc struct {
	*process.Process
}

func (p gopsProc) PID() int32 { return p.Pid }

// listProcesses returns the current process table. Tests replace it.
var listProcesses = func() ([]proc, error) {
	ps, err := process.Processes()
	if err != nil {
		return nil, err
	}
	procs := make([]proc, len(ps))
	for i, p := range ps {
		procs[i] = gopsProc{p}
	}
	return procs, nil
}

// selfPID is the pid whose ancestry is never sampled.
var selfPID = func() int32 { return int32(os.Getpid()) }

// ProcessTable samples memory by scanning the process table.
type ProcessTable struct {
	// MatchCmdline also matches pattern against the full
	// command line, not only the command name.
	MatchCmdline bool
}

// Sample returns the resident set size of the first process whose
// name (or command line) contains pattern, ignoring case. The running
// process and its ancestors are skipped: their command lines carry
// the terminal names given on the command line.
func (t ProcessTable) Sample(pattern string) (float64, bool) {
	procs, err := listProcesses()
	if err != nil {
		log.WithField("pattern", pattern).Debugf("reading process table: %v", err)
		return 0, false
	}
	self := lineage(procs, selfPID())
	needle := strings.ToLower(pattern)
	for _, p := range procs {
		if self[p.PID()] || !t.matches(p, needle) {
			continue
		}
		mem, err := p.MemoryInfo()
		if err != nil || mem == nil {
			// the process may have exited or be unreadable
			continue
		}
		return float64(mem.RSS) / 1024 / 1024, true
	}
	return 0, false
}

// lineage returns pid and the pids of its ancestors found in procs.
func lineage(procs []proc, pid int32) map[int32]bool {
	byPID := make(map[int32]proc, len(procs))
	for _, p := range procs {
		byPID[p.PID()] = p
	}
	seen := map[int32]bool{pid: true}
	for {
		p, ok := byPID[pid]
		if !ok {
			return seen
		}
		ppid, err := p.Ppid()
		if err != nil || ppid <= 0 || seen[ppid] {
			return seen
		}
		seen[ppid] = true
		pid = ppid
	}
}

func (t ProcessTable) matches(p proc, needle string) bool {
	if name, err := p.Name(); err == nil && strings.Contains(strings.ToLower(name), needle) {
		return true
	}
	if !t.MatchCmdline {
		return false
	}
	cmdline, err := p.Cmdline()
	return err == nil && strings.Contains(strings.ToLower(cmdline), needle)
}
