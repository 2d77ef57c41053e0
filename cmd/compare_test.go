package cmd

import (
	"io/ioutil"
	"path/filepath"
	"testing"
)

func TestLoadSuites(t *testing.T) {
	dir := t.TempDir()
	single := filepath.Join(dir, "kitty.json")
	stored := filepath.Join(dir, "1-bench.json")
	if err := ioutil.WriteFile(single, []byte(`{"target": "kitty", "timestamp": 1, "results": []}`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ioutil.WriteFile(stored, []byte(`[{"target": "alacritty"}, {"target": "wezterm"}]`), 0644); err != nil {
		t.Fatal(err)
	}

	suites, err := loadSuites([]string{single, stored})
	if err != nil {
		t.Fatalf("Didn't expect an error: %v", err)
	}
	if got, want := len(suites), 3; got != want {
		t.Fatalf("Expected %d suites, got %d", want, got)
	}
	for i, want := range []string{"kitty", "alacritty", "wezterm"} {
		if got := suites[i].Target; got != want {
			t.Errorf("Suite %d: Expected target %s, got %s", i, want, got)
		}
	}

	if _, err := loadSuites([]string{filepath.Join(dir, "nope.json")}); err == nil {
		t.Error("Expected an error for a missing file")
	}
	bad := filepath.Join(dir, "bad.json")
	if err := ioutil.WriteFile(bad, []byte(`not json`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadSuites([]string{bad}); err == nil {
		t.Error("Expected an error for malformed JSON")
	}
}
