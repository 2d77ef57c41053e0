// +build sql

package sql

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // Enable postgresql beckend
	_ "github.com/mattn/go-sqlite3" // Enable sqlite3 backend

	"github.com/sourcegraph/termbench/storage/fs"
	"github.com/sourcegraph/termbench/types"
)

// schema is the table schema expected by the SQL storage.
const schema = `
CREATE TABLE ` + table + ` (
    name TEXT NOT NULL PRIMARY KEY,
    timestamp INT8 NOT NULL,
    suites TEXT
);
CREATE UNIQUE INDEX idx_runs_timestamp ON ` + table + `(timestamp);
`

// Storage is a way to store benchmark suites in a SQL database.
type Storage struct {
	// SqliteDBFile is the sqlite3 DB where suites will be stored.
	SqliteDBFile string `json:"sqlite_db_file,omitempty"`

	// PostgreSQL contains the Postgres connection settings.
	PostgreSQL *struct {
		Host     string `json:"host,omitempty"`
		Port     int    `json:"port,omitempty"`
		User     string `json:"user"`
		Password string `json:"password,omitempty"`
		DBName   string `json:"dbname"`
		SSLMode  string `json:"sslmode,omitempty"`
	} `json:"postgresql"`

	// Runs older than ResultExpiry are deleted by Maintain.
	// Zero keeps every run.
	ResultExpiry time.Duration `json:"result_expiry,omitempty"`

	// Create issues the schema statements on first use.
	Create bool `json:"create,omitempty"`
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

func (sql Storage) dbConnect() (*sqlx.DB, error) {
	db, err := sql.open()
	if err != nil {
		return nil, err
	}
	if sql.Create {
		// the schema is not idempotent; an existing table is fine
		_, _ = db.Exec(schema)
	}
	return db, nil
}

func (sql Storage) open() (*sqlx.DB, error) {
	// Only one SQL backend can be present
	if sql.SqliteDBFile != "" && sql.PostgreSQL != nil {
		return nil, errors.New("several SQL backends are configured")
	}

	// SQLite3 configuration
	if sql.SqliteDBFile != "" {
		return sqlx.Connect("sqlite3", sql.SqliteDBFile)
	}

	// PostgreSQL configuration
	if sql.PostgreSQL != nil {
		var pgOptions string
		if sql.PostgreSQL.DBName == "" {
			return nil, errors.New("missing PostgreSQL database name")
		}
		if sql.PostgreSQL.User == "" {
			return nil, errors.New("missing PostgreSQL username")
		}
		if sql.PostgreSQL.Host != "" {
			pgOptions += " host=" + sql.PostgreSQL.Host
		}
		if sql.PostgreSQL.Port != 0 {
			pgOptions += " port=" + strconv.Itoa(sql.PostgreSQL.Port)
		}
		pgOptions += " user=" + sql.PostgreSQL.User
		if sql.PostgreSQL.Password != "" {
			pgOptions += " password=" + sql.PostgreSQL.Password
		}
		pgOptions += " dbname=" + sql.PostgreSQL.DBName
		if sql.PostgreSQL.SSLMode != "" {
			pgOptions += " sslmode=" + sql.PostgreSQL.SSLMode
		}
		return sqlx.Connect("postgres", pgOptions)
	}

	return nil, errors.New("no configured database backend")
}

// GetIndex returns the stored run names and their timestamps.
func (sql Storage) GetIndex() (map[string]int64, error) {
	db, err := sql.dbConnect()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	idx := make(map[string]int64)
	var run struct {
		Name      string `db:"name"`
		Timestamp int64  `db:"timestamp"`
	}

	rows, err := db.Queryx(`SELECT name,timestamp FROM "` + table + `"`)
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
func (sql Storage) Fetch(name string) ([]types.Suite, error) {
	db, err := sql.dbConnect()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var contents []byte
	var suites []types.Suite

	err = db.Get(&contents, db.Rebind(`SELECT suites FROM "`+table+`" WHERE name=? LIMIT 1`), name)
	if err != nil {
		return nil, err
	}
	if err = json.Unmarshal(contents, &suites); err != nil {
		return nil, err
	}
	return suites, nil
}

// Store stores suites in the database.
func (sql Storage) Store(suites []types.Suite) error {
	db, err := sql.dbConnect()
	if err != nil {
		return err
	}
	defer db.Close()

	name := *fs.GenerateFilename()
	contents, err := json.Marshal(suites)
	if err != nil {
		return err
	}

	const insertSuites = `INSERT INTO "` + table + `" (name, timestamp, suites) VALUES (?, ?, ?)`
	_, err = db.Exec(db.Rebind(insertSuites), name, time.Now().UnixNano(), contents)
	return err
}

// Maintain deletes runs that are older than sql.ResultExpiry.
func (sql Storage) Maintain() error {
	if sql.ResultExpiry == 0 {
		return nil
	}

	db, err := sql.dbConnect()
	if err != nil {
		return err
	}
	defer db.Close()

	const st = `DELETE FROM "` + table + `" WHERE timestamp < ?`
	ts := time.Now().Add(-1 * sql.ResultExpiry).UnixNano()
	_, err = db.Exec(db.Rebind(st), ts)
	return err
}

// initialize creates the runs table in the database.
func (sql Storage) initialize() error {
	db, err := sql.dbConnect()
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.Exec(schema)
	return err
}
