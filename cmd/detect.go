package cmd

import (
	"os"
	"os/exec"
	"strings"
)

// statPath and lookPath find installed terminals, but may be replaced
// in tests.
var (
	statPath = os.Stat
	lookPath = exec.LookPath
)

// installation describes where a terminal is found when installed.
type installation struct {
	id          string
	paths       []string
	executables []string
}

var installations = []installation{
	{id: "iterm2", paths: []string{"/Applications/iTerm.app"}},
	{id: "terminal", paths: []string{"/System/Applications/Utilities/Terminal.app"}},
	{id: "alacritty", executables: []string{"alacritty"}},
	{id: "kitty", executables: []string{"kitty"}},
	{id: "wezterm", paths: []string{"/Applications/WezTerm.app"}, executables: []string{"wezterm"}},
}

// detectTerminals returns the ids of the terminals installed on this
// machine.
func detectTerminals() []string {
	var found []string
	for _, inst := range installations {
		if inst.installed() {
			found = append(found, inst.id)
		}
	}
	return found
}

func (inst installation) installed() bool {
	for _, p := range inst.paths {
		if _, err := statPath(p); err == nil {
			return true
		}
	}
	for _, e := range inst.executables {
		if _, err := lookPath(e); err == nil {
			return true
		}
	}
	return false
}

// resolveTerminals turns the --terminal value into target ids. "all"
// means every detected terminal.
func resolveTerminals(list string) []string {
	if strings.TrimSpace(list) == "all" {
		return detectTerminals()
	}
	var ids []string
	for _, id := range strings.Split(list, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
