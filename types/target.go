package types

import (
	"strings"
)

// FilePlaceholder is replaced by the payload path in Target.Driver.
const FilePlaceholder = "{file}"

// Target describes how to drive and observe one terminal.
type Target struct {
	// Name is the target id, e.g. "kitty".
	Name string `json:"name"`

	// Driver is the argv used to push a payload file through the
	// target. FilePlaceholder is replaced by the payload path; if it
	// does not appear the path is appended. Defaults to cat.
	Driver []string `json:"driver,omitempty"`

	// ProcessPatterns are matched against the process table when
	// sampling memory. Defaults to the target name.
	ProcessPatterns []string `json:"process_patterns,omitempty"`

	// Launch is the argv that starts a fresh instance of the target
	// and exits. Empty means startup cannot be measured.
	Launch []string `json:"launch,omitempty"`
}

// DriverArgs returns the argv that pushes the file at path through t.
func (t Target) DriverArgs(path string) []string {
	driver := t.Driver
	if len(driver) == 0 {
		driver = []string{"cat", FilePlaceholder}
	}
	args := make([]string, 0, len(driver)+1)
	replaced := false
	for _, a := range driver {
		if strings.Contains(a, FilePlaceholder) {
			a = strings.Replace(a, FilePlaceholder, path, -1)
			replaced = true
		}
		args = append(args, a)
	}
	if !replaced {
		args = append(args, path)
	}
	return args
}

// Patterns returns the process name patterns of t.
func (t Target) Patterns() []string {
	if len(t.ProcessPatterns) == 0 {
		return []string{t.Name}
	}
	return t.ProcessPatterns
}

// Targets maps target ids to their configuration.
type Targets map[string]Target

// Lookup returns the configuration of id. Unknown ids are their own
// process pattern and have no launch procedure.
func (ts Targets) Lookup(id string) Target {
	if t, ok := ts[id]; ok {
		if t.Name == "" {
			t.Name = id
		}
		return t
	}
	return Target{Name: id, ProcessPatterns: []string{id}}
}

// Merge returns a copy of ts with the entries of other added,
// replacing entries with the same id.
func (ts Targets) Merge(other Targets) Targets {
	out := make(Targets, len(ts)+len(other))
	for id, t := range ts {
		out[id] = t
	}
	for id, t := range other {
		out[id] = t
	}
	return out
}

// DefaultTargets returns the terminals known out of the box.
func DefaultTargets() Targets {
	return Targets{
		"bossterm": {
			Name:            "bossterm",
			ProcessPatterns: []string{"java", "BossTerm"},
		},
		"iterm2": {
			Name:            "iterm2",
			ProcessPatterns: []string{"iTerm2"},
			Launch:          []string{"open", "-a", "iTerm"},
		},
		"terminal": {
			Name:            "terminal",
			ProcessPatterns: []string{"Terminal"},
			Launch:          []string{"open", "-a", "Terminal"},
		},
		"alacritty": {
			Name:            "alacritty",
			ProcessPatterns: []string{"alacritty"},
			Launch:          []string{"alacritty", "-e", "/bin/sh", "-c", "exit"},
		},
		"kitty": {
			Name:            "kitty",
			ProcessPatterns: []string{"kitty"},
			Launch:          []string{"kitty", "-e", "/bin/sh", "-c", "exit"},
		},
		"wezterm": {
			Name:            "wezterm",
			ProcessPatterns: []string{"wezterm"},
			Launch:          []string{"wezterm", "start", "--", "/bin/sh", "-c", "exit"},
		},
	}
}
