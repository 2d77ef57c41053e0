package fs

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sourcegraph/termbench/types"
)

// IndexName is the name of the file mapping result files to the time
// their suite was run.
const IndexName = "index.json"

// FilenameFormatString is the format string used
// by GenerateFilename to create a filename.
const FilenameFormatString = "%d-bench.json"

// FileTimeFormat stamps suite file names, in UTC.
const FileTimeFormat = "20060102_150405"

// GenerateFilename returns a filename that sorts by the time it was
// generated. It returns a string pointer to be used by the AWS SDK.
func GenerateFilename() *string {
	s := fmt.Sprintf(FilenameFormatString, types.Timestamp())
	return &s
}

// SuiteFilename names the file holding suite:
// <target>_<YYYYMMDD_HHMMSS>.json, like the reports the CLI writes.
func SuiteFilename(suite types.Suite) string {
	ts := suite.Timestamp
	if ts == 0 {
		ts = types.Timestamp()
	}
	return fmt.Sprintf("%s_%s.json", suite.Target, types.TimeOf(ts).UTC().Format(FileTimeFormat))
}

// TargetOf returns the target of a file named by SuiteFilename, or ""
// for any other name.
func TargetOf(name string) string {
	stem := strings.TrimSuffix(name, ".json")
	if stem == name || len(stem) <= len(FileTimeFormat)+1 {
		return ""
	}
	cut := len(stem) - len(FileTimeFormat) - 1
	if stem[cut] != '_' {
		return ""
	}
	if _, err := time.Parse(FileTimeFormat, stem[cut+1:]); err != nil {
		return ""
	}
	return stem[:cut]
}

// Index maps suite file names to the time, in Unix nanoseconds, their
// suite was run.
type Index map[string]int64

// Add records suite under its file name and returns the name.
func (idx Index) Add(suite types.Suite) string {
	name := SuiteFilename(suite)
	ts := suite.Timestamp
	if ts == 0 {
		ts = types.Timestamp()
	}
	idx[name] = ts
	return name
}

// Latest returns the newest file of target.
func (idx Index) Latest(target string) (string, bool) {
	var (
		latest string
		newest int64
	)
	for name, ts := range idx {
		if TargetOf(name) != target {
			continue
		}
		if latest == "" || ts > newest || (ts == newest && name > latest) {
			latest, newest = name, ts
		}
	}
	return latest, latest != ""
}

// Targets returns the targets with at least one file, sorted.
func (idx Index) Targets() []string {
	seen := make(map[string]bool)
	var targets []string
	for name := range idx {
		if t := TargetOf(name); t != "" && !seen[t] {
			seen[t] = true
			targets = append(targets, t)
		}
	}
	sort.Strings(targets)
	return targets
}

// Expired returns the files run more than expiry before now, sorted.
func (idx Index) Expired(now time.Time, expiry time.Duration) []string {
	var names []string
	for name, ts := range idx {
		if now.Sub(time.Unix(0, ts)) > expiry {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
