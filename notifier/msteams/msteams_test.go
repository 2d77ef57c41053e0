package msteams

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sourcegraph/termbench/types"
)

// messageCard is the part of the posted card the tests read.
type messageCard struct {
	Type       string `json:"@type"`
	Summary    string `json:"summary"`
	ThemeColor string `json:"themeColor"`
	Sections   []struct {
		ActivityTitle string `json:"activityTitle"`
		Facts         []struct {
			Name  string `json:"name"`
			Value string `json:"value"`
		} `json:"facts"`
	} `json:"sections"`
}

func TestNotify(t *testing.T) {
	var cards []messageCard
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var c messageCard
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			t.Errorf("Expected JSON body, got error: %v", err)
		}
		cards = append(cards, c)
		fmt.Fprint(w, "1")
	}))
	defer server.Close()

	s := types.NewSuite("wezterm", "box", "Linux")
	s.Add(types.Result{Name: "startup", Target: "wezterm", Down: true,
		Failures: []types.Failure{{SubCase: "launch", Error: "all attempts failed"}}})
	s.Add(types.Result{Name: "ansi", Target: "wezterm", Healthy: true})

	n := Notifier{Webhook: server.URL, SkipURLValidation: true}
	if err := n.Notify([]types.Suite{s}); err != nil {
		t.Fatalf("Expected no error from Notify(), got: %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("Expected 1 card, got %d", len(cards))
	}
	c := cards[0]
	if got, want := c.Type, "MessageCard"; got != want {
		t.Errorf("Expected card type %q, got %q", want, got)
	}
	if got, want := c.ThemeColor, "#FF0000"; got != want {
		t.Errorf("Expected theme color %q, got %q", want, got)
	}
	if got, want := c.Summary, "startup benchmark on wezterm"; got != want {
		t.Errorf("Expected summary %q, got %q", want, got)
	}
	if len(c.Sections) != 1 {
		t.Fatalf("Expected 1 section, got %d", len(c.Sections))
	}
	facts := c.Sections[0].Facts
	if got, want := len(facts), 3; got != want {
		t.Fatalf("Expected %d facts, got %d", want, got)
	}
	if got, want := facts[1].Value, "DOWN"; got != want {
		t.Errorf("Expected status %q, got %q", want, got)
	}
	if got, want := facts[2].Name, "launch"; got != want {
		t.Errorf("Expected failure fact %q, got %q", want, got)
	}
}

func TestCardDegraded(t *testing.T) {
	c := card(types.Result{Name: "ansi", Target: "kitty", Degraded: true})
	if got, want := c.ThemeColor, "#FFA500"; got != want {
		t.Errorf("Expected theme color %q, got %q", want, got)
	}
	if got, want := len(c.Sections), 1; got != want {
		t.Errorf("Expected %d section, got %d", want, got)
	}
}

func TestNotifyError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad card", http.StatusBadRequest)
	}))
	defer server.Close()

	s := types.NewSuite("kitty", "box", "Linux")
	s.Add(types.Result{Name: "ansi", Target: "kitty", Degraded: true})
	n := Notifier{Webhook: server.URL, SkipURLValidation: true}
	if err := n.Notify([]types.Suite{s}); err == nil {
		t.Error("Expected an error from Notify(), didn't get one")
	}
}
