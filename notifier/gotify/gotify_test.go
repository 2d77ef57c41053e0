package gotify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sourcegraph/termbench/types"
)

func TestNotify(t *testing.T) {
	var (
		token string
		body  struct {
			Title    string `json:"title"`
			Message  string `json:"message"`
			Priority int    `json:"priority"`
		}
		requests int
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		token = r.URL.Query().Get("token")
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("Expected JSON body, got error: %v", err)
		}
	}))
	defer server.Close()

	n, err := New(json.RawMessage(`{"token": "t0k", "webhook": "` + server.URL + `/message"}`))
	if err != nil {
		t.Fatalf("Expected no error from New(), got: %v", err)
	}

	s := types.NewSuite("iterm2", "mac", "Darwin 23.1.0")
	s.Add(types.Result{Name: "throughput", Target: "iterm2", Healthy: true})
	if err := n.Notify([]types.Suite{s}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if requests != 0 {
		t.Fatalf("Expected no request for a healthy suite, got %d", requests)
	}

	s.Add(types.Result{Name: "latency", Target: "iterm2", Runs: 100, Degraded: true})
	if err := n.Notify([]types.Suite{s}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if got, want := token, "t0k"; got != want {
		t.Errorf("Expected token %q, got %q", want, got)
	}
	if got, want := body.Priority, 5; got != want {
		t.Errorf("Expected default priority %d, got %d", want, got)
	}
	if !strings.Contains(body.Message, "iterm2 latency - Status: DEGRADED - Runs: 100") {
		t.Errorf("Unexpected message:\n%s", body.Message)
	}
}

func TestNotifyError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer server.Close()

	s := types.NewSuite("kitty", "box", "Linux")
	s.Add(types.Result{Name: "ansi", Target: "kitty", Down: true})
	if err := (Notifier{Webhook: server.URL}).Notify([]types.Suite{s}); err == nil {
		t.Error("Expected an error from Notify(), didn't get one")
	}
}
