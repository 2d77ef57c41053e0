package harness

import (
	"context"
	"io/ioutil"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/sourcegraph/termbench/types"
)

// TempDir is the directory payload files are staged in. Empty means
// the operating system default.
var TempDir = ""

// WithPayload writes data to a fresh temporary file, calls fn with
// its path and removes the file afterwards, whatever fn returns.
// Failing to stage the file returns an error wrapping
// ErrTransientStorage.
func WithPayload(data []byte, fn func(path string) error) error {
	f, err := ioutil.TempFile(TempDir, "termbench-*")
	if err != nil {
		return errors.Wrapf(ErrTransientStorage, "creating payload file: %v", err)
	}
	path := f.Name()
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.WithField("path", path).Warnf("removing payload file: %v", err)
		}
	}()

	if _, err := f.Write(data); err != nil {
		f.Close()
		return errors.Wrapf(ErrTransientStorage, "writing payload file: %v", err)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(ErrTransientStorage, "closing payload file: %v", err)
	}

	return fn(path)
}

// DriverCommand returns the command that pushes the file at path
// through target.
func DriverCommand(target types.Target, path string) Command {
	return NewCommand(target.DriverArgs(path))
}

// MeasurePayload stages data, drives it through target according to
// plan and removes the staged file again. Staging is not timed.
func MeasurePayload(ctx context.Context, inv Invoker, target types.Target, data []byte, plan Plan) (types.Samples, error) {
	var samples types.Samples
	err := WithPayload(data, func(path string) error {
		var err error
		samples, err = Measure(ctx, inv, DriverCommand(target, path), plan)
		return err
	})
	return samples, err
}

// PerSecond returns amount divided by seconds, or zero when no time
// elapsed.
func PerSecond(amount, seconds float64) float64 {
	if seconds <= 0 {
		return 0
	}
	return amount / seconds
}
