// Package report renders benchmark suites as Markdown and JSON.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/termbench/types"
)

// DateFormat is how report dates are printed.
const DateFormat = time.RFC3339

// Markdown renders suite as a Markdown document with one section per
// benchmark result.
func Markdown(suite types.Suite) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Terminal Benchmark Report: %s\n\n", suite.Target)
	fmt.Fprintf(&b, "**Host:** %s\n", suite.Host)
	fmt.Fprintf(&b, "**OS:** %s\n", suite.OS)
	fmt.Fprintf(&b, "**Date:** %s\n\n", types.TimeOf(suite.Timestamp).Format(DateFormat))

	for _, r := range suite.Results {
		fmt.Fprintf(&b, "## %s Benchmark\n\n", Title(r.Name))
		writeGroup(&b, r.Metrics, 3)
		if len(r.Failures) > 0 {
			b.WriteString("### Failures\n")
			for _, f := range r.Failures {
				fmt.Fprintf(&b, "- %s failed: %s\n", f.SubCase, f.Error)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// writeGroup writes the leaves of g as bullets, then each nested
// group under a heading of the given depth.
func writeGroup(b *strings.Builder, g types.Metric, depth int) {
	for _, f := range g.Fields() {
		if f.Value.Kind() == types.GroupKind {
			fmt.Fprintf(b, "%s %s\n", strings.Repeat("#", depth), f.Name)
			writeGroup(b, f.Value, depth+1)
			continue
		}
		fmt.Fprintf(b, "- %s: %s\n", f.Name, f.Value)
	}
}

// Title upper-cases the first letter of a benchmark name.
func Title(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
