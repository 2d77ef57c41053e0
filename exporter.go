package termbench

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/sourcegraph/termbench/exporter/appinsights"
)

func exporterDecode(typeName string, config json.RawMessage) (Exporter, error) {
	switch typeName {
	case appinsights.Type:
		return appinsights.New(config)
	default:
		return nil, errors.New(strings.Replace(errUnknownExporterType, "%T", typeName, -1))
	}
}

func exporterType(e interface{}) (string, error) {
	switch e.(type) {
	case appinsights.Exporter, *appinsights.Exporter:
		return appinsights.Type, nil
	default:
		return "", fmt.Errorf(errUnknownExporterType, e)
	}
}
