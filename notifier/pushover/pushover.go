package pushover

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gregdel/pushover"

	"github.com/sourcegraph/termbench/types"
)

// Type should match the package name
const Type = "pushover"

// maxMessageLength is the longest message the Pushover API accepts.
const maxMessageLength = 1024

// Notifier sends notices to a Pushover user or group.
type Notifier struct {
	Token     string `json:"token"`
	Recipient string `json:"recipient"`
	Subject   string `json:"subject,omitempty"`
}

// New creates a new Notifier instance based on json config
func New(config json.RawMessage) (Notifier, error) {
	var notifier Notifier
	err := json.Unmarshal(config, &notifier)
	if strings.TrimSpace(notifier.Subject) == "" {
		notifier.Subject = "Termbench: Benchmark Failures"
	}
	return notifier, err
}

// Type returns the notifier package name
func (Notifier) Type() string {
	return Type
}

// sendMessage calls the Pushover API, but may be replaced in tests.
var sendMessage = func(token string, msg *pushover.Message, recipient *pushover.Recipient) error {
	_, err := pushover.New(token).SendMessage(msg, recipient)
	return err
}

// Notify pushes a list of the degraded or down benchmarks, if there
// are any. The message has high priority when a benchmark is down.
func (p Notifier) Notify(suites []types.Suite) error {
	issues := types.AllIssues(suites)
	if len(issues) == 0 {
		return nil
	}

	msg := pushover.NewMessageWithTitle(renderMessage(issues), p.Subject)
	for _, issue := range issues {
		if issue.Down {
			msg.Priority = pushover.PriorityHigh
			break
		}
	}
	return sendMessage(p.Token, msg, pushover.NewRecipient(p.Recipient))
}

func renderMessage(issues []types.Result) string {
	body := []string{"Termbench has detected the following issues:", ""}
	for _, issue := range issues {
		format := "%s %s - Status: %s"
		body = append(body, fmt.Sprintf(format, issue.Target, issue.Name, issue.Status()))
	}
	message := strings.Join(body, "\n")
	if len(message) > maxMessageLength {
		message = message[:maxMessageLength-3] + "..."
	}
	return message
}
