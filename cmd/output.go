package cmd

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/sourcegraph/termbench/report"
	"github.com/sourcegraph/termbench/types"
)

// fileTimeFormat stamps report file names.
const fileTimeFormat = "20060102_150405"

// output writes report files to a directory.
type output struct {
	Dir  string
	JSON bool
}

// writeSuite writes the report of s as <target>_<time>.md, or .json
// if o.JSON is set, and returns its path.
func (o output) writeSuite(s types.Suite, now time.Time) (string, error) {
	ext, data := "md", []byte(report.Markdown(s))
	if o.JSON {
		var err error
		ext = "json"
		if data, err = report.JSON(s); err != nil {
			return "", err
		}
	}
	return o.write(fmt.Sprintf("%s_%s.%s", s.Target, now.Format(fileTimeFormat), ext), data)
}

// writeComparison writes the comparison of suites as
// comparison_<time>.md and returns its path.
func (o output) writeComparison(suites []types.Suite, now time.Time) (string, error) {
	name := fmt.Sprintf("comparison_%s.md", now.Format(fileTimeFormat))
	return o.write(name, []byte(report.Compare(suites, now)))
}

func (o output) write(name string, data []byte) (string, error) {
	if err := os.MkdirAll(o.Dir, 0755); err != nil {
		return "", errors.Wrap(err, "creating output directory")
	}
	path := filepath.Join(o.Dir, name)
	if err := ioutil.WriteFile(path, data, 0644); err != nil {
		return "", errors.Wrapf(err, "writing %s", name)
	}
	return path, nil
}
