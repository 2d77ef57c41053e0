package appinsights

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sourcegraph/termbench/types"
)

const instrumentationKey = "11111111-1111-1111-1111-111111111111"

func testSuites() []types.Suite {
	s := types.NewSuite("kitty", "box", "Linux 6.1")
	r := types.NewResult("throughput", "kitty", 2)
	r.Metrics.Set("1MB", types.Group(
		types.F("throughput_mbps_mean", types.Leaf(120.5)),
		types.F("time_seconds_mean", types.Leaf(0.0083)),
	))
	r.RawSamples = []float64{0.008, 0.0086}
	r.RawUnit = types.Seconds
	r.Conclude()
	s.Add(r)

	u := types.NewResult("startup", "kitty", 3)
	u.MarkUnsupported("startup benchmark not supported for kitty")
	s.Add(u)
	return []types.Suite{s}
}

type collector struct {
	mu         sync.Mutex
	forceRetry bool
	items      []map[string]interface{}
}

func (c *collector) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.forceRetry {
			c.forceRetry = false
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		req, err := gzip.NewReader(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(fmt.Sprintf("gzip NewReader: %v", err)))
			return
		}
		b, _ := ioutil.ReadAll(req)
		parsed, err := parsePayload(b)
		if err != nil {
			t.Errorf("Parsing payload: %v", err)
		}
		c.items = append(c.items, parsed...)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"itemsReceived": %d, "itemsAccepted": %d, "errors": []}`, len(parsed), len(parsed))
	}
}

func (c *collector) byType() map[string][]map[string]interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := map[string][]map[string]interface{}{}
	for _, item := range c.items {
		data := item["data"].(map[string]interface{})
		baseType := data["baseType"].(string)
		out[baseType] = append(out[baseType], data["baseData"].(map[string]interface{}))
	}
	return out
}

func TestNew(t *testing.T) {
	tests := []struct {
		config  string
		wantErr bool
	}{
		{`{"max_retries": -1}`, true},
		{`{"retry_interval": -1}`, true},
		{`{"timeout": -1}`, true},
		{`{}`, false},
		{`{"max_retries": 1, "retry_interval": 1, "timeout": 1}`, false},
	}
	for _, tc := range tests {
		_, err := New(json.RawMessage(tc.config))
		if tc.wantErr && err == nil {
			t.Errorf("%s: expected an error, didn't get one", tc.config)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("%s: expected no error, got %v", tc.config, err)
		}
	}

	e, _ := New(json.RawMessage(`{}`))
	if got, want := e.TestLocation, "Termbench Exporter"; got != want {
		t.Errorf("Expected default location %q, got %q", want, got)
	}
}

func TestExport(t *testing.T) {
	c := new(collector)
	server := httptest.NewServer(c.handler(t))
	defer server.Close()

	e := Exporter{
		InstrumentationKey: instrumentationKey,
		TestLocation:       "test location",
		Tags:               map[string]string{"tag1": "test tag"},
		Endpoint:           server.URL,
		Timeout:            10,
	}
	if err := e.Export(testSuites()); err != nil {
		t.Fatalf("Expected no error from Export(), got: %v", err)
	}

	items := c.byType()
	availability := items["AvailabilityData"]
	if got, want := len(availability), 2; got != want {
		t.Fatalf("Expected %d availability items, got %d", want, got)
	}
	if got, want := availability[0]["name"], "kitty throughput"; got != want {
		t.Errorf("Expected name %q, got %q", want, got)
	}
	if got, want := availability[0]["success"], true; got != want {
		t.Errorf("Expected success %v, got %v", want, got)
	}
	props := availability[0]["properties"].(map[string]interface{})
	if props["tag1"] != "test tag" || props["benchmark"] != "throughput" || props["run_id"] == "" {
		t.Errorf("Unexpected properties: %v", props)
	}
	if got, want := availability[1]["success"], false; got != want {
		t.Errorf("Expected unsupported benchmark to be unsuccessful, got %v", got)
	}

	var names []string
	for _, m := range items["MetricData"] {
		for _, point := range m["metrics"].([]interface{}) {
			names = append(names, point.(map[string]interface{})["name"].(string))
		}
	}
	want := []string{
		"termbench.throughput.1MB.throughput_mbps_mean",
		"termbench.throughput.1MB.time_seconds_mean",
		"termbench.throughput.raw.seconds",
	}
	if fmt.Sprint(names) != fmt.Sprint(want) {
		t.Errorf("Expected metrics %v, got %v", want, names)
	}
}

func TestExportWithRetry(t *testing.T) {
	c := &collector{forceRetry: true}
	server := httptest.NewServer(c.handler(t))
	defer server.Close()

	e := Exporter{
		InstrumentationKey: instrumentationKey,
		Endpoint:           server.URL,
		MaxRetries:         2,
		RetryInterval:      2,
		Timeout:            30,
	}
	if err := e.Export(testSuites()); err != nil {
		t.Fatalf("Expected no error from Export() with retry, got: %v", err)
	}
}

func TestRawMean(t *testing.T) {
	r := types.Result{RawSamples: []float64{1, 2, 3}, RawUnit: types.Milliseconds}
	if got, want := rawMean(r), 2*time.Millisecond; got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
	r.RawUnit = "MB"
	if got := rawMean(r); got != 0 {
		t.Errorf("Expected zero for non-time samples, got %s", got)
	}
}

// Ref: https://github.com/microsoft/ApplicationInsights-Go/blob/master/appinsights/jsonserializer_test.go
func parsePayload(payload []byte) (result []map[string]interface{}, err error) {
	for _, item := range bytes.Split(payload, []byte("\n")) {
		if len(item) == 0 {
			continue
		}

		decoder := json.NewDecoder(bytes.NewReader(item))
		msg := make(map[string]interface{})
		if err := decoder.Decode(&msg); err == nil {
			result = append(result, msg)
		} else {
			return result, err
		}
	}

	return result, nil
}
