package slack

import (
	"encoding/json"
	"fmt"
	"strings"

	slack "github.com/ashwanthkumar/slack-go-webhook"
	log "github.com/sirupsen/logrus"

	"github.com/sourcegraph/termbench/types"
)

// Type should match the package name
const Type = "slack"

// Notifier consist of all the sub components required to use Slack API
type Notifier struct {
	// Name prefixes every message, e.g. the machine the
	// benchmarks ran on.
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
	Channel  string `json:"channel,omitempty"`
	Webhook  string `json:"webhook"`
}

// New creates a new Notifier instance based on json config
func New(config json.RawMessage) (Notifier, error) {
	var notifier Notifier
	err := json.Unmarshal(config, &notifier)
	return notifier, err
}

// Type returns the notifier package name
func (Notifier) Type() string {
	return Type
}

// Notify posts one message per degraded or down benchmark.
func (s Notifier) Notify(suites []types.Suite) error {
	var errs types.Errors
	for _, result := range types.AllIssues(suites) {
		if err := s.Send(result); err != nil {
			errs = append(errs, err)
		}
	}
	if !errs.Empty() {
		return errs
	}
	return nil
}

// Send posts a message about result to the webhook.
func (s Notifier) Send(result types.Result) error {
	color := "danger"
	if result.Degraded {
		color = "warning"
	}
	attach := slack.Attachment{}
	attach.AddField(slack.Field{Title: "Target", Value: result.Target})
	attach.AddField(slack.Field{Title: "Status", Value: strings.ToUpper(fmt.Sprint(result.Status()))})
	for _, f := range result.Failures {
		attach.AddField(slack.Field{Title: f.SubCase, Value: f.Error})
	}
	attach.Color = &color

	text := fmt.Sprintf("%s benchmark on %s", result.Name, result.Target)
	if s.Name != "" {
		text = fmt.Sprintf("[%s] %s", s.Name, text)
	}
	payload := slack.Payload{
		Text:        text,
		Username:    s.Username,
		Channel:     s.Channel,
		Attachments: []slack.Attachment{attach},
	}

	if errs := slack.Send(s.Webhook, "", payload); len(errs) > 0 {
		return types.Errors(errs)
	}
	log.WithFields(log.Fields{
		"target":    result.Target,
		"benchmark": result.Name,
	}).Debug("slack: notice sent")
	return nil
}
