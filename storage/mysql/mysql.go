package mysql

import (
	"encoding/json"
	"errors"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/sourcegraph/termbench/storage/fs"
	"github.com/sourcegraph/termbench/types"
)

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

func (opts Storage) connectionString() (string, error) {
	if opts.DSN == "" {
		return "", errors.New("missing MySQL DSN")
	}
	return opts.DSN, nil
}

func (opts Storage) dbConnect() (*sqlx.DB, error) {
	dsn, err := opts.connectionString()
	if err != nil {
		return nil, err
	}
	handle, err := sqlx.Connect(opts.Type(), dsn)
	if err != nil {
		return nil, err
	}
	if opts.Create {
		_, err = handle.Exec(schema)
		if err != nil {
			handle.Close()
			return nil, err
		}
	}
	return handle, err
}

// GetIndex returns the stored run names and their timestamps.
func (opts Storage) GetIndex() (map[string]int64, error) {
	db, err := opts.dbConnect()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	idx := make(map[string]int64)
	var run struct {
		Name      string `db:"name"`
		Timestamp int64  `db:"timestamp"`
	}

	rows, err := db.Queryx(`SELECT name,timestamp FROM runs`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		if err := rows.StructScan(&run); err != nil {
			return nil, err
		}
		idx[run.Name] = run.Timestamp
	}

	return idx, rows.Err()
}

// Fetch returns the suites of the run with the given name.
func (opts Storage) Fetch(name string) ([]types.Suite, error) {
	db, err := opts.dbConnect()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var contents []byte
	var suites []types.Suite

	err = db.Get(&contents, db.Rebind(`SELECT suites FROM runs WHERE name=? LIMIT 1`), name)
	if err != nil {
		return nil, err
	}
	if err = json.Unmarshal(contents, &suites); err != nil {
		return nil, err
	}
	return suites, nil
}

// Store stores suites in the database.
func (opts Storage) Store(suites []types.Suite) error {
	db, err := opts.dbConnect()
	if err != nil {
		return err
	}
	defer db.Close()

	name := *fs.GenerateFilename()
	contents, err := json.Marshal(suites)
	if err != nil {
		return err
	}

	const insertSuites = `INSERT INTO runs (name, timestamp, suites) VALUES (?, ?, ?)`
	_, err = db.Exec(db.Rebind(insertSuites), name, time.Now().UnixNano(), contents)
	return err
}

// Maintain deletes runs that are older than opts.ResultExpiry.
func (opts Storage) Maintain() error {
	if opts.ResultExpiry == 0 {
		return nil
	}

	db, err := opts.dbConnect()
	if err != nil {
		return err
	}
	defer db.Close()

	const query = `DELETE FROM runs WHERE timestamp < ?`
	ts := time.Now().Add(-1 * opts.ResultExpiry).UnixNano()
	_, err = db.Exec(db.Rebind(query), ts)
	return err
}
