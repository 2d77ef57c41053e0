// +build sql

package sql

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sourcegraph/termbench/types"
)

func TestSQL(t *testing.T) {
	suites := []types.Suite{{Target: "kitty", Results: []types.Result{{Name: "startup", Unsupported: true}}}}

	// Create temporary directory for the tests
	dir, err := ioutil.TempDir("", "termbench")
	if err != nil {
		t.Fatalf("Cannot create temporary directory: %v", err)
	}
	defer os.RemoveAll(dir)

	dbFile := filepath.Join(dir, "termbenchtest.db")

	specimen := Storage{
		SqliteDBFile: dbFile,
	}

	if err := specimen.initialize(); err != nil {
		t.Fatalf("Could not initialize test database, got: %v", err)
	}

	if err := specimen.Store(suites); err != nil {
		t.Fatalf("Expected no error from Store(), got: %v", err)
	}

	// Test GetIndex (StorageReader interface)
	index, err := specimen.GetIndex()
	if err != nil {
		t.Fatalf("StoreReader: cannot read index: %v", err)
	}

	if len(index) != 1 {
		t.Fatalf("Expected length of index to be 1, but got %v", len(index))
	}

	var (
		name string
		nsec int64
	)
	for name, nsec = range index {
	}

	// Make sure index has timestamp of the run
	ts := time.Unix(0, nsec)
	if time.Since(ts) > 1*time.Second {
		t.Errorf("Timestamp of run is %s but expected something very recent", ts)
	}

	// Make sure stored data are correct
	fetched, err := specimen.Fetch(name)
	if err != nil {
		t.Fatalf("Could not fetch data, got: %v", err)
	}
	if len(fetched) != 1 {
		t.Fatalf("StoreReader: expected length of []Suite to be 1, but got %v", len(fetched))
	}

	if fetched[0].Target != suites[0].Target {
		t.Fatalf("Expected suite target to be '%s', but got '%s'", suites[0].Target, fetched[0].Target)
	}
	if !fetched[0].Results[0].Unsupported {
		t.Errorf("Expected the startup result to stay unsupported")
	}

	// Make sure the run is not deleted after maintain with ResultExpiry == 0
	if err := specimen.Maintain(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := specimen.Fetch(name); err != nil {
		t.Fatalf("Expected the run to be present in the DB, got: %v", err)
	}

	// Make sure the run is not deleted after maintain with ResultExpiry == 1 day
	specimen.ResultExpiry = 24 * time.Hour
	if err := specimen.Maintain(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := specimen.Fetch(name); err != nil {
		t.Fatalf("Expected the run to be present in the DB, got: %v", err)
	}

	// Make sure the run is deleted after maintain with ResultExpiry > 0
	specimen.ResultExpiry = 1 * time.Nanosecond
	if err := specimen.Maintain(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := specimen.Fetch(name); err == nil {
		t.Fatalf("Expected not to be able to fetch the result from the DB")
	}
}
