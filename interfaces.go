package termbench

import (
	"context"

	"github.com/sourcegraph/termbench/types"
)

// Benchmark can measure one aspect of a target terminal.
type Benchmark interface {
	Type() string
	Run(ctx context.Context, target types.Target) (types.Result, error)
}

// Storage can store suites.
type Storage interface {
	Type() string
	Store([]types.Suite) error
}

// StorageReader can read suites from the Storage.
type StorageReader interface {
	// Fetch returns the contents of a result file.
	Fetch(name string) ([]types.Suite, error)
	// GetIndex returns the storage index, as a map where keys are
	// result filenames and values are the associated timestamps.
	GetIndex() (map[string]int64, error)
}

// Maintainer can maintain a store of results by
// deleting old result files that are no longer
// needed or performing other required tasks.
type Maintainer interface {
	Maintain() error
}

// Notifier can tell someone about benchmarks that
// were degraded or down.
type Notifier interface {
	Type() string
	Notify([]types.Suite) error
}

// Exporter is a service to send
// suite data for additional processing.
type Exporter interface {
	Type() string
	Export([]types.Suite) error
}
