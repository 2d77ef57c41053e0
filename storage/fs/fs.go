package fs

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/sourcegraph/termbench/types"
)

// Type should match the package name
const Type = "fs"

// Storage keeps benchmark suites as JSON files in a local directory,
// one file per suite named by SuiteFilename.
type Storage struct {
	// Dir is the directory result files are written to. It is
	// created on the first Store.
	Dir string `json:"dir"`

	// Suite files run more than ResultExpiry ago are deleted by
	// Maintain. Zero keeps every file.
	ResultExpiry time.Duration `json:"result_expiry,omitempty"`
}

// New creates a new Storage instance based on json config
func New(config json.RawMessage) (Storage, error) {
	var storage Storage
	err := json.Unmarshal(config, &storage)
	return storage, err
}

// Type returns the storage driver package name
func (Storage) Type() string {
	return Type
}

// GetIndex returns the index from filesystem.
func (fs Storage) GetIndex() (map[string]int64, error) {
	return fs.readIndex()
}

func (fs Storage) readIndex() (Index, error) {
	index := Index{}

	f, err := os.Open(filepath.Join(fs.Dir, IndexName))
	if os.IsNotExist(err) {
		return index, nil
	} else if err != nil {
		return nil, err
	}
	defer f.Close()

	err = json.NewDecoder(f).Decode(&index)
	return index, errors.Wrap(err, "decoding index")
}

func (fs Storage) writeIndex(index Index) error {
	f, err := os.Create(filepath.Join(fs.Dir, IndexName))
	if err != nil {
		return err
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(index)
}

// Fetch reads the suites stored under name.
func (fs Storage) Fetch(name string) ([]types.Suite, error) {
	b, err := ioutil.ReadFile(filepath.Join(fs.Dir, filepath.Base(name)))
	if err != nil {
		return nil, err
	}
	var suites []types.Suite
	if err := json.Unmarshal(b, &suites); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", name)
	}
	return suites, nil
}

// Store writes each suite to its own file and adds the files to the
// index.
func (fs Storage) Store(suites []types.Suite) error {
	if err := os.MkdirAll(fs.Dir, 0755); err != nil {
		return err
	}

	index, err := fs.readIndex()
	if err != nil {
		return err
	}
	for _, suite := range suites {
		b, err := json.Marshal([]types.Suite{suite})
		if err != nil {
			return err
		}
		name := index.Add(suite)
		if err := ioutil.WriteFile(filepath.Join(fs.Dir, name), b, 0644); err != nil {
			return err
		}
		log.WithFields(log.Fields{"file": name, "target": suite.Target}).Debug("fs: stored suite")
	}

	return fs.writeIndex(index)
}

// Maintain deletes suite files that were run more than
// fs.ResultExpiry ago.
func (fs Storage) Maintain() error {
	if fs.ResultExpiry == 0 {
		return nil
	}

	index, err := fs.readIndex()
	if err != nil {
		return err
	}

	for _, name := range index.Expired(time.Now(), fs.ResultExpiry) {
		err := os.Remove(filepath.Join(fs.Dir, name))
		if err != nil && !os.IsNotExist(err) {
			return err
		}
		delete(index, name)
	}

	return fs.writeIndex(index)
}
