package mysql

import (
	"time"
)

// Type should match the package name
const Type = "mysql"

// Storage is a way to store benchmark suites in a MySQL database.
type Storage struct {
	DSN string `json:"dsn"`

	// Issue create statements for database schema
	Create bool `json:"create"`

	// Runs older than ResultExpiry are deleted by Maintain.
	// Zero keeps every run.
	ResultExpiry time.Duration `json:"result_expiry,omitempty"`
}

// schema is the expected table schema (can be re-applied)
const schema = "CREATE TABLE IF NOT EXISTS `runs` (`name` VARCHAR(512) NOT NULL, `timestamp` BIGINT NOT NULL, `suites` MEDIUMTEXT NULL, PRIMARY KEY (`name`), UNIQUE (`timestamp`)) ENGINE = InnoDB;"
