package memory

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/sourcegraph/termbench/harness"
	"github.com/sourcegraph/termbench/memory"
	"github.com/sourcegraph/termbench/payload"
	"github.com/sourcegraph/termbench/types"
)

// Type should match the package name
const Type = "memory"

// Defaults used when the configuration leaves a field empty.
var (
	DefaultSizeMB      = 10
	DefaultSettleDelay = time.Second
)

// Benchmark samples the resident memory of a target before and after
// it renders a large payload. Unlike the timing benchmarks it drives
// the payload exactly once.
type Benchmark struct {
	// SizeMB is the size of the random ASCII payload.
	SizeMB int `json:"size_mb,omitempty"`

	// SettleDelay is waited after the payload was driven and before
	// memory is sampled again.
	SettleDelay time.Duration `json:"settle_delay,omitempty"`

	Invoker harness.Invoker `json:"-"`

	// Sampler reads process memory. Defaults to memory.New().
	Sampler memory.Sampler `json:"-"`
}

// New creates a new Benchmark instance based on json config
func New(config json.RawMessage) (Benchmark, error) {
	var b Benchmark
	if len(config) == 0 {
		return b, nil
	}
	err := json.Unmarshal(config, &b)
	return b, err
}

// Type returns the benchmark package name
func (Benchmark) Type() string {
	return Type
}

// Run samples every process pattern of target, drives the payload,
// waits for the target to settle and samples again. Patterns without
// a matching process are left out of the groups.
func (b Benchmark) Run(ctx context.Context, target types.Target) (types.Result, error) {
	if b.SizeMB < 1 {
		b.SizeMB = DefaultSizeMB
	}
	if b.SettleDelay == 0 {
		b.SettleDelay = DefaultSettleDelay
	}
	if b.Sampler == nil {
		b.Sampler = memory.New()
	}
	patterns := target.Patterns()

	result := types.NewResult(Type, target.Name, 1)
	result.RawUnit = types.Megabytes
	baseline := b.sample(patterns)
	result.Metrics.Set("baseline", baseline)

	data, err := payload.RandomASCII(b.SizeMB * payload.MB)
	if err != nil {
		return result, err
	}
	err = harness.WithPayload(data, func(path string) error {
		cmd := harness.DriverCommand(target, path)
		if err := harness.Or(b.Invoker).Invoke(ctx, cmd); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errors.Wrap(types.ErrAllAttemptsFailed, err.Error())
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(b.SettleDelay):
		}
		return nil
	})
	if err != nil {
		if !harness.Recoverable(err) {
			return result, err
		}
		result.Fail("after_output", err)
		result.Conclude()
		return result, nil
	}

	after := b.sample(patterns)
	result.Metrics.Set("after_output", after)

	var growth types.Metric
	for _, f := range after.Fields() {
		before, ok := baseline.Get(f.Name)
		if !ok {
			continue
		}
		a, _ := f.Value.Float()
		bv, _ := before.Float()
		growth.Set(f.Name, types.Leaf(a-bv))
		result.RawSamples = append(result.RawSamples, bv, a)
	}
	result.Metrics.Set("growth", growth)

	result.Conclude()
	return result, nil
}

func (b Benchmark) sample(patterns []string) types.Metric {
	var g types.Metric
	for _, p := range patterns {
		mb, ok := b.Sampler.Sample(p)
		if !ok {
			log.WithField("pattern", p).Debug("no process memory sample")
			continue
		}
		g.Set(p, types.Leaf(mb))
	}
	return g
}
