// Package termbench measures how terminal emulators perform by driving
// them with generated workloads and recording what can be observed
// from the outside: wall-clock time and process memory.
package termbench

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/sourcegraph/termbench/harness"
	"github.com/sourcegraph/termbench/types"
)

// Termbench runs a set of benchmarks against a set of terminals.
type Termbench struct {
	// Terminals lists the ids of the targets to benchmark, in order.
	Terminals []string `json:"terminals,omitempty"`

	// Targets adds to or replaces entries of types.DefaultTargets.
	Targets types.Targets `json:"targets,omitempty"`

	// Benchmarks run against every terminal, in order.
	Benchmarks []Benchmark `json:"-"`

	// Storage is the storage mechanism for saving the
	// suites. Required if calling Store().
	Storage Storage `json:"-"`

	// Notifiers are told about every stored run.
	Notifiers []Notifier `json:"-"`

	// Exporters receive every stored run.
	Exporters []Exporter `json:"-"`

	// Host and OS describe the machine in every suite. They are
	// read from the system when empty.
	Host string `json:"host,omitempty"`
	OS   string `json:"os_info,omitempty"`

	// Timestamp is the timestamp to force for all suites and
	// results.
	Timestamp time.Time `json:"-"`
}

// Run benchmarks every terminal, one benchmark at a time, and returns
// one suite per terminal. Benchmarks that could not run at all are
// recorded as down results. An error is only returned when the run
// cannot go on, e.g. because payloads cannot be staged or ctx is done;
// the suites gathered so far are returned with it.
func (t Termbench) Run(ctx context.Context) ([]types.Suite, error) {
	if len(t.Terminals) == 0 {
		return nil, errors.Wrap(types.ErrInvalidArgument, "no terminals configured")
	}
	if len(t.Benchmarks) == 0 {
		return nil, errors.Wrap(types.ErrInvalidArgument, "no benchmarks configured")
	}

	registry := types.DefaultTargets().Merge(t.Targets)
	host, osInfo := t.Host, t.OS
	if host == "" || osInfo == "" {
		h, o := describeHost()
		if host == "" {
			host = h
		}
		if osInfo == "" {
			osInfo = o
		}
	}

	suites := make([]types.Suite, 0, len(t.Terminals))
	for _, id := range t.Terminals {
		target := registry.Lookup(id)
		suite := types.NewSuite(target.Name, host, osInfo)
		if !t.Timestamp.IsZero() {
			suite.Timestamp = t.Timestamp.UTC().UnixNano()
		}

		for _, b := range t.Benchmarks {
			if err := ctx.Err(); err != nil {
				return append(suites, suite), err
			}
			log.WithFields(log.Fields{
				"target":    target.Name,
				"benchmark": b.Type(),
			}).Info("running benchmark")

			result, err := b.Run(ctx, target)
			if err != nil {
				if !harness.Recoverable(err) {
					return append(suites, suite), errors.Wrapf(err, "%s benchmark on %s", b.Type(), target.Name)
				}
				result = types.NewResult(b.Type(), target.Name, 0)
				result.Fail(b.Type(), err)
				result.Conclude()
			}
			if !t.Timestamp.IsZero() {
				result.Timestamp = t.Timestamp.UTC().UnixNano()
			}
			suite.Add(result)
		}
		suites = append(suites, suite)
	}
	return suites, nil
}

// RunAndStore runs the benchmarks and stores the suites if the run
// completed. Nothing is run if t.Storage is nil.
func (t Termbench) RunAndStore(ctx context.Context) error {
	if t.Storage == nil {
		return errors.New("no storage mechanism defined")
	}
	suites, err := t.Run(ctx)
	if err != nil {
		return err
	}
	return t.Store(suites)
}

// Store saves suites to t.Storage, then hands them to every notifier
// and exporter and finally maintains the storage. Failures after the
// suites were saved are collected and returned together.
func (t Termbench) Store(suites []types.Suite) error {
	if t.Storage == nil {
		return errors.New("no storage mechanism defined")
	}
	if err := t.Storage.Store(suites); err != nil {
		return errors.Wrapf(err, "%s storage", t.Storage.Type())
	}

	var errs types.Errors
	for _, n := range t.Notifiers {
		if err := n.Notify(suites); err != nil {
			errs = append(errs, errors.Wrapf(err, "%s notifier", n.Type()))
		}
	}
	for _, e := range t.Exporters {
		if err := e.Export(suites); err != nil {
			errs = append(errs, errors.Wrapf(err, "%s exporter", e.Type()))
		}
	}
	if m, ok := t.Storage.(Maintainer); ok {
		if err := m.Maintain(); err != nil {
			errs = append(errs, errors.Wrap(err, "maintaining storage"))
		}
	}
	if !errs.Empty() {
		return errs
	}
	return nil
}

// RunAndStoreEvery calls RunAndStore every interval until ctx is done.
// It returns the ticker that it's using so you can stop it when you
// don't want it to run anymore. This function does NOT block. Runs
// never overlap: a tick that arrives during a run is dropped. Any
// errors are written to the standard logger.
func (t Termbench) RunAndStoreEvery(ctx context.Context, interval time.Duration) *time.Ticker {
	ticker := time.NewTicker(interval)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := t.RunAndStore(ctx); err != nil {
					log.WithError(err).Error("scheduled run failed")
				}
			}
		}
	}()
	return ticker
}

// MarshalJSON marshals t into a config that UnmarshalJSON reads back,
// tagging every benchmark, notifier and exporter with its type and the
// storage with its provider.
func (t Termbench) MarshalJSON() ([]byte, error) {
	out := struct {
		Terminals  []string          `json:"terminals,omitempty"`
		Targets    types.Targets     `json:"targets,omitempty"`
		Host       string            `json:"host,omitempty"`
		OS         string            `json:"os_info,omitempty"`
		Benchmarks []json.RawMessage `json:"benchmarks,omitempty"`
		Storage    json.RawMessage   `json:"storage,omitempty"`
		Notifiers  []json.RawMessage `json:"notifiers,omitempty"`
		Exporters  []json.RawMessage `json:"exporters,omitempty"`
	}{
		Terminals: t.Terminals,
		Targets:   t.Targets,
		Host:      t.Host,
		OS:        t.OS,
	}

	for _, b := range t.Benchmarks {
		typeName, err := benchmarkType(b)
		if err != nil {
			return nil, err
		}
		raw, err := tagged(b, "type", typeName)
		if err != nil {
			return nil, err
		}
		out.Benchmarks = append(out.Benchmarks, raw)
	}
	if t.Storage != nil {
		typeName, err := storageType(t.Storage)
		if err != nil {
			return nil, err
		}
		if out.Storage, err = tagged(t.Storage, "provider", typeName); err != nil {
			return nil, err
		}
	}
	for _, n := range t.Notifiers {
		typeName, err := notifierType(n)
		if err != nil {
			return nil, err
		}
		raw, err := tagged(n, "type", typeName)
		if err != nil {
			return nil, err
		}
		out.Notifiers = append(out.Notifiers, raw)
	}
	for _, e := range t.Exporters {
		typeName, err := exporterType(e)
		if err != nil {
			return nil, err
		}
		raw, err := tagged(e, "type", typeName)
		if err != nil {
			return nil, err
		}
		out.Exporters = append(out.Exporters, raw)
	}

	return json.Marshal(out)
}

// tagged marshals v, which must encode as a JSON object, and adds key
// with the value typeName as its first member.
func tagged(v interface{}, key, typeName string) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	tag := fmt.Sprintf(`{%q:%q`, key, typeName)
	if len(data) <= 2 {
		return json.RawMessage(tag + "}"), nil
	}
	return json.RawMessage(tag + "," + string(data[1:])), nil
}

// UnmarshalJSON unmarshals b into t, decoding every typed component
// by its "type" (or, for storage, "provider") member.
func (t *Termbench) UnmarshalJSON(b []byte) error {
	type plain Termbench
	if err := json.Unmarshal(b, (*plain)(t)); err != nil {
		return err
	}

	t.Benchmarks = []Benchmark{}
	t.Notifiers = []Notifier{}
	t.Exporters = []Exporter{}
	t.Storage = nil

	raw := struct {
		Benchmarks []json.RawMessage `json:"benchmarks"`
		Storage    json.RawMessage   `json:"storage"`
		Notifiers  []json.RawMessage `json:"notifiers"`
		Exporters  []json.RawMessage `json:"exporters"`
	}{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	configTypes := struct {
		Benchmarks []struct {
			Type string `json:"type"`
		} `json:"benchmarks"`
		Storage struct {
			Provider string `json:"provider"`
		} `json:"storage"`
		Notifiers []struct {
			Type string `json:"type"`
		} `json:"notifiers"`
		Exporters []struct {
			Type string `json:"type"`
		} `json:"exporters"`
	}{}
	if err := json.Unmarshal(b, &configTypes); err != nil {
		return err
	}

	for i, c := range configTypes.Benchmarks {
		benchmark, err := benchmarkDecode(c.Type, raw.Benchmarks[i])
		if err != nil {
			return err
		}
		t.Benchmarks = append(t.Benchmarks, benchmark)
	}

	if len(raw.Storage) > 0 && string(raw.Storage) != "null" {
		storage, err := storageDecode(configTypes.Storage.Provider, raw.Storage)
		if err != nil {
			return err
		}
		t.Storage = storage
	}

	for i, c := range configTypes.Notifiers {
		notifier, err := notifierDecode(c.Type, raw.Notifiers[i])
		if err != nil {
			return err
		}
		t.Notifiers = append(t.Notifiers, notifier)
	}

	for i, c := range configTypes.Exporters {
		exporter, err := exporterDecode(c.Type, raw.Exporters[i])
		if err != nil {
			return err
		}
		t.Exporters = append(t.Exporters, exporter)
	}

	return nil
}
