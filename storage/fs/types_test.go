package fs

import (
	"reflect"
	"testing"
	"time"

	"github.com/sourcegraph/termbench/types"
)

func TestSuiteFilename(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 5, 0, time.UTC).UnixNano()
	name := SuiteFilename(types.Suite{Target: "my_term", Timestamp: ts})
	if got, want := name, "my_term_20240301_123005.json"; got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
	if got, want := TargetOf(name), "my_term"; got != want {
		t.Errorf("Expected target %s, got %s", want, got)
	}
	for _, other := range []string{"index.json", "1501523631505010894-bench.json", "kitty.json", "x_20240301-123005.json"} {
		if got := TargetOf(other); got != "" {
			t.Errorf("Expected no target for %s, got %s", other, got)
		}
	}
}

func TestIndex(t *testing.T) {
	day := func(d int) int64 { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC).UnixNano() }
	index := Index{}
	for _, s := range []types.Suite{
		{Target: "kitty", Timestamp: day(1)},
		{Target: "kitty", Timestamp: day(3)},
		{Target: "wezterm", Timestamp: day(2)},
	} {
		index.Add(s)
	}

	if got, want := index.Targets(), []string{"kitty", "wezterm"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Expected targets %v, got %v", want, got)
	}
	latest, ok := index.Latest("kitty")
	if got, want := latest, "kitty_20240303_000000.json"; !ok || got != want {
		t.Errorf("Expected latest %s, got %s (%v)", want, got, ok)
	}
	if _, ok := index.Latest("alacritty"); ok {
		t.Error("Expected no file for alacritty")
	}

	now := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	expired := index.Expired(now, 36*time.Hour)
	if want := []string{"kitty_20240301_000000.json", "wezterm_20240302_000000.json"}; !reflect.DeepEqual(expired, want) {
		t.Errorf("Expected expired %v, got %v", want, expired)
	}
}
