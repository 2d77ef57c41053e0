package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sourcegraph/termbench/types"
)

// Compare renders one table per benchmark name listing every numeric
// metric of every suite. Benchmarks are ordered by name, rows keep the
// order of suites and metrics.
func Compare(suites []types.Suite, now time.Time) string {
	var b strings.Builder
	b.WriteString("# Terminal Benchmark Comparison\n\n")
	fmt.Fprintf(&b, "**Date:** %s\n\n", now.Format(DateFormat))
	b.WriteString("## Terminals\n\n")
	for _, s := range suites {
		fmt.Fprintf(&b, "- %s\n", s.Target)
	}
	b.WriteString("\n")

	for _, name := range benchmarkNames(suites) {
		fmt.Fprintf(&b, "## %s\n\n", Title(name))
		b.WriteString("| Target | Metric | Value |\n")
		b.WriteString("|--------|--------|-------|\n")
		for _, s := range suites {
			for _, r := range s.Results {
				if r.Name != name {
					continue
				}
				r.Metrics.Leaves(func(path []string, v types.Metric) {
					fmt.Fprintf(&b, "| %s | %s | %s |\n", s.Target, strings.Join(path, "/"), v)
				})
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func benchmarkNames(suites []types.Suite) []string {
	seen := make(map[string]bool)
	var names []string
	for _, s := range suites {
		for _, r := range s.Results {
			if !seen[r.Name] {
				seen[r.Name] = true
				names = append(names, r.Name)
			}
		}
	}
	sort.Strings(names)
	return names
}
