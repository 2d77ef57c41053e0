package report

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/sourcegraph/termbench/types"
)

// JSON returns suite serialized with two-space indentation.
func JSON(suite types.Suite) ([]byte, error) {
	return json.MarshalIndent(suite, "", "  ")
}

// ParseJSON decodes a suite written by JSON.
func ParseJSON(data []byte) (types.Suite, error) {
	var suite types.Suite
	err := json.Unmarshal(data, &suite)
	return suite, err
}

// ParseSuites decodes either a single suite written by JSON or a list
// of suites as kept by the storage providers.
func ParseSuites(data []byte) ([]types.Suite, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var suites []types.Suite
		if err := json.Unmarshal(data, &suites); err != nil {
			return nil, errors.Wrap(err, "decoding suites")
		}
		return suites, nil
	}
	suite, err := ParseJSON(data)
	if err != nil {
		return nil, errors.Wrap(err, "decoding suite")
	}
	return []types.Suite{suite}, nil
}
