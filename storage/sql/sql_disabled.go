// +build !sql

package sql

import (
	"encoding/json"
	"errors"

	"github.com/sourcegraph/termbench/types"
)

// Storage is a stub used when the binary was built without the sql tag.
type Storage struct{}

var errStoreDisabled = errors.New("sql data store is disabled")

// New creates a new Storage instance based on json config
func New(_ json.RawMessage) (Storage, error) {
	return Storage{}, errStoreDisabled
}

// Type returns the storage driver package name
func (Storage) Type() string {
	return Type
}

// Store always fails with errStoreDisabled.
func (Storage) Store([]types.Suite) error {
	return errStoreDisabled
}
