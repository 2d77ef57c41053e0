package pushover

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gregdel/pushover"

	"github.com/sourcegraph/termbench/types"
)

func TestNotify(t *testing.T) {
	defer func(orig func(string, *pushover.Message, *pushover.Recipient) error) { sendMessage = orig }(sendMessage)

	var sent []*pushover.Message
	sendMessage = func(token string, msg *pushover.Message, recipient *pushover.Recipient) error {
		if got, want := token, "app-token"; got != want {
			t.Errorf("Expected token %s, got %s", want, got)
		}
		sent = append(sent, msg)
		return nil
	}

	n := Notifier{Token: "app-token", Recipient: "user-key", Subject: "bench"}
	s := types.NewSuite("kitty", "box", "Linux")
	s.Add(types.Result{Name: "throughput", Target: "kitty", Healthy: true})
	if err := n.Notify([]types.Suite{s}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(sent) != 0 {
		t.Fatalf("Expected nothing to be sent for a healthy suite, got %d", len(sent))
	}

	s.Add(types.Result{Name: "latency", Target: "kitty", Degraded: true})
	if err := n.Notify([]types.Suite{s}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if got, want := sent[0].Priority, 0; got != want {
		t.Errorf("Expected normal priority for a degraded benchmark, got %d", got)
	}
	if got, want := sent[0].Title, "bench"; got != want {
		t.Errorf("Expected title %q, got %q", want, got)
	}

	s.Add(types.Result{Name: "memory", Target: "kitty", Down: true})
	if err := n.Notify([]types.Suite{s}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if got, want := sent[1].Priority, pushover.PriorityHigh; got != want {
		t.Errorf("Expected priority %d for a down benchmark, got %d", want, got)
	}
}

func TestRenderMessageTruncates(t *testing.T) {
	var issues []types.Result
	for i := 0; i < 100; i++ {
		issues = append(issues, types.Result{Name: "ansi", Target: fmt.Sprintf("term%d", i), Down: true})
	}
	got := renderMessage(issues)
	if len(got) != maxMessageLength {
		t.Errorf("Expected message of %d bytes, got %d", maxMessageLength, len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Expected truncated message to end with ..., got %q", got[len(got)-10:])
	}
}
