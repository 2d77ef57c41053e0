package appinsights

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microsoft/ApplicationInsights-Go/appinsights"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/sourcegraph/termbench/types"
)

// Type should match the package name
const Type = "appinsights"

// Exporter sends benchmark suites to Azure Application Insights: one
// availability item per benchmark, one metric per numeric value and an
// aggregate metric over the raw samples.
type Exporter struct {
	// InstrumentationKey is a GUID that identifies an app insights instance
	InstrumentationKey string `json:"instrumentation_key"`

	// TestLocation is the run location of availability items.
	TestLocation string `json:"test_location,omitempty"`

	// Tags will be applied to all telemetry items and
	// visible in the customProperties field when viewing the
	// submitted data
	Tags map[string]string `json:"tags,omitempty"`

	// Endpoint overrides the ingestion endpoint.
	Endpoint string `json:"endpoint,omitempty"`

	// MaxRetries and RetryInterval (in seconds) control how long
	// failed submissions are retried when the exporter is closed.
	MaxRetries    int `json:"max_retries,omitempty"`
	RetryInterval int `json:"retry_interval,omitempty"`

	// Timeout (in seconds) bounds the wait for queued telemetry to
	// be submitted. Defaults to 30.
	Timeout int `json:"timeout,omitempty"`
}

// New creates a new Exporter instance based on json config
func New(config json.RawMessage) (Exporter, error) {
	var exporter Exporter
	if err := json.Unmarshal(config, &exporter); err != nil {
		return exporter, err
	}
	if exporter.MaxRetries < 0 || exporter.RetryInterval < 0 || exporter.Timeout < 0 {
		return exporter, errors.Wrap(types.ErrInvalidArgument, "appinsights: retries, interval and timeout must not be negative")
	}
	if exporter.TestLocation == "" {
		exporter.TestLocation = "Termbench Exporter"
	}
	return exporter, nil
}

// Type returns the exporter package name
func (Exporter) Type() string {
	return Type
}

func (e Exporter) client() appinsights.TelemetryClient {
	config := appinsights.NewTelemetryConfiguration(e.InstrumentationKey)
	if e.Endpoint != "" {
		config.EndpointUrl = e.Endpoint
	}
	client := appinsights.NewTelemetryClientFromConfig(config)
	for k, v := range e.Tags {
		client.Context().CommonProperties[k] = v
	}
	return client
}

// Export sends every result of suites and waits until the telemetry
// was submitted. All items of one call share a run id.
func (e Exporter) Export(suites []types.Suite) error {
	client := e.client()
	runID := uuid.New().String()
	for _, suite := range suites {
		for _, result := range suite.Results {
			e.send(client, runID, suite, result)
		}
	}
	return e.close(client)
}

// close submits all queued telemetry.
// Ref: https://github.com/microsoft/ApplicationInsights-Go#shutdown
func (e Exporter) close(client appinsights.TelemetryClient) error {
	retry := time.Duration(e.MaxRetries*e.RetryInterval) * time.Second
	timeout := 30 * time.Second
	if e.Timeout > 0 {
		timeout = time.Duration(e.Timeout) * time.Second
	}
	select {
	case <-client.Channel().Close(retry):
		return nil
	case <-time.After(timeout):
		return errors.New("appinsights: failed to submit telemetry after retries")
	}
}

func (e Exporter) send(client appinsights.TelemetryClient, runID string, suite types.Suite, result types.Result) {
	properties := map[string]string{
		"run_id":    runID,
		"target":    result.Target,
		"benchmark": result.Name,
		"host":      suite.Host,
		"os":        suite.OS,
	}

	availability := appinsights.NewAvailabilityTelemetry(
		fmt.Sprintf("%s %s", result.Target, result.Name), rawMean(result), result.Healthy)
	availability.RunLocation = e.TestLocation
	availability.Message = message(result)
	availability.Id = uuid.New().String()
	availability.Timestamp = types.TimeOf(result.Timestamp)
	for k, v := range properties {
		availability.Properties[k] = v
	}
	availability.Properties["status"] = string(result.Status())
	client.Track(availability)

	result.Metrics.Leaves(func(path []string, value types.Metric) {
		v, ok := value.Float()
		if !ok {
			return
		}
		metric := appinsights.NewMetricTelemetry(metricName(result.Name, path), v)
		metric.Timestamp = types.TimeOf(result.Timestamp)
		for k, v := range properties {
			metric.Properties[k] = v
		}
		client.Track(metric)
	})

	if len(result.RawSamples) > 0 {
		aggregate := appinsights.NewAggregateMetricTelemetry(metricName(result.Name, []string{"raw", string(result.RawUnit)}))
		aggregate.AddData(result.RawSamples)
		aggregate.Timestamp = types.TimeOf(result.Timestamp)
		for k, v := range properties {
			aggregate.Properties[k] = v
		}
		client.Track(aggregate)
	}

	log.WithFields(log.Fields{
		"target":    result.Target,
		"benchmark": result.Name,
	}).Debug("appinsights: result queued")
}

// metricName joins the benchmark name and the path of a metric with
// dots, e.g. "termbench.throughput.1MB.throughput_mbps_mean".
func metricName(benchmark string, path []string) string {
	parts := append([]string{"termbench", benchmark}, path...)
	for i, p := range parts {
		parts[i] = strings.Replace(p, "/", "_", -1)
	}
	return strings.Join(parts, ".")
}

// rawMean is the mean raw sample as a duration, or zero when the raw
// samples are not times.
func rawMean(r types.Result) time.Duration {
	if len(r.RawSamples) == 0 {
		return 0
	}
	var total float64
	for _, v := range r.RawSamples {
		total += v
	}
	mean := total / float64(len(r.RawSamples))
	switch r.RawUnit {
	case types.Seconds:
		return time.Duration(mean * float64(time.Second))
	case types.Milliseconds:
		return time.Duration(mean * float64(time.Millisecond))
	case types.Nanoseconds:
		return time.Duration(mean)
	}
	return 0
}

func message(r types.Result) string {
	switch {
	case r.Unsupported:
		return "Unsupported: " + r.Notice
	case r.Notice != "":
		return fmt.Sprintf("%s: %s", r.Status(), r.Notice)
	}
	return "Passed"
}
