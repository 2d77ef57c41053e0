package discord

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sourcegraph/termbench/types"
)

func TestNotify(t *testing.T) {
	var got []Payload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p Payload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Errorf("Expected JSON body, got error: %v", err)
		}
		got = append(got, p)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	s := types.NewSuite("alacritty", "box", "Linux")
	s.Add(types.Result{Name: "unicode", Target: "alacritty", Healthy: true})
	s.Add(types.Result{Name: "scrollback", Target: "alacritty", Degraded: true, Notice: "aborted sub-cases: 50000_lines",
		Failures: []types.Failure{{SubCase: "50000_lines", Error: "all attempts failed"}}})
	s.Add(types.Result{Name: "memory", Target: "alacritty", Down: true})

	n := Notifier{Webhook: server.URL}
	if err := n.Notify([]types.Suite{s}); err != nil {
		t.Fatalf("Expected no error from Notify(), got: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(got))
	}
	embed := got[0].Embeds[0]
	if want := "scrollback benchmark on alacritty"; embed.Title != want {
		t.Errorf("Expected title %q, got %q", want, embed.Title)
	}
	if embed.Color != colorDegraded {
		t.Errorf("Expected degraded color, got %x", embed.Color)
	}
	if len(embed.Fields) != 3 {
		t.Errorf("Expected 3 fields, got %d", len(embed.Fields))
	}
	if got[1].Embeds[0].Color != colorDown {
		t.Errorf("Expected down color, got %x", got[1].Embeds[0].Color)
	}
}

func TestNotifyError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	s := types.NewSuite("kitty", "box", "Linux")
	s.Add(types.Result{Name: "ansi", Target: "kitty", Down: true})
	if err := (Notifier{Webhook: server.URL}).Notify([]types.Suite{s}); err == nil {
		t.Error("Expected an error from Notify(), didn't get one")
	}
}
