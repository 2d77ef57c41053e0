package types

import (
	"strings"

	"github.com/pkg/errors"
)

// Benchmark kind identifiers.
const (
	KindThroughput = "throughput"
	KindLatency    = "latency"
	KindUnicode    = "unicode"
	KindANSI       = "ansi"
	KindScrollback = "scrollback"
	KindMemory     = "memory"
	KindStartup    = "startup"
)

// Kinds returns every benchmark kind in the default execution order.
func Kinds() []string {
	return []string{
		KindThroughput,
		KindLatency,
		KindUnicode,
		KindANSI,
		KindScrollback,
		KindMemory,
		KindStartup,
	}
}

// DefaultKinds is what "all" expands to. Startup is left out because
// it launches windows on the host.
func DefaultKinds() []string {
	return Kinds()[:6]
}

// ParseKinds splits a comma separated list of benchmark kinds. The
// word "all" expands to DefaultKinds.
func ParseKinds(list string) ([]string, error) {
	if strings.TrimSpace(list) == "all" {
		return DefaultKinds(), nil
	}
	known := make(map[string]bool)
	for _, k := range Kinds() {
		known[k] = true
	}
	var kinds []string
	for _, k := range strings.Split(list, ",") {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if !known[k] {
			return nil, errors.Wrapf(ErrInvalidArgument, "unknown benchmark %q", k)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}
