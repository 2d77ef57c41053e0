package termbench

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/sourcegraph/termbench/storage/fs"
	"github.com/sourcegraph/termbench/storage/github"
	"github.com/sourcegraph/termbench/storage/mysql"
	"github.com/sourcegraph/termbench/storage/s3"
	"github.com/sourcegraph/termbench/storage/sql"
)

func storageDecode(typeName string, config json.RawMessage) (Storage, error) {
	switch typeName {
	case s3.Type:
		return s3.New(config)
	case github.Type:
		return github.New(config)
	case fs.Type:
		return fs.New(config)
	case sql.Type:
		return sql.New(config)
	case mysql.Type:
		return mysql.New(config)
	default:
		return nil, errors.New(strings.Replace(errUnknownStorageType, "%T", typeName, -1))
	}
}

func storageType(ch interface{}) (string, error) {
	var typeName string
	switch ch.(type) {
	case s3.Storage, *s3.Storage:
		typeName = s3.Type
	case github.Storage, *github.Storage:
		typeName = github.Type
	case fs.Storage, *fs.Storage:
		typeName = fs.Type
	case sql.Storage, *sql.Storage:
		typeName = sql.Type
	case mysql.Storage, *mysql.Storage:
		typeName = mysql.Type
	default:
		return "", fmt.Errorf(errUnknownStorageType, ch)
	}
	return typeName, nil
}
