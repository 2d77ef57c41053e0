package msteams

import (
	"encoding/json"
	"fmt"
	"strings"

	goteamsnotify "github.com/atc0005/go-teams-notify/v2"
	"github.com/pkg/errors"

	"github.com/sourcegraph/termbench/types"
)

// Type should match the package name
const Type = "msteams"

// Notifier posts notices to a Microsoft Teams incoming webhook.
type Notifier struct {
	Webhook string `json:"webhook"`

	// SkipURLValidation sends to webhooks outside the Office 365
	// domains, such as a relay.
	SkipURLValidation bool `json:"skip_url_validation,omitempty"`
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

// Notify posts one card per degraded or down benchmark.
func (s Notifier) Notify(suites []types.Suite) error {
	client := goteamsnotify.NewClient()
	client.SkipWebhookURLValidationOnSend(s.SkipURLValidation)

	errs := make(types.Errors, 0)
	for _, result := range types.AllIssues(suites) {
		if err := client.Send(s.Webhook, card(result)); err != nil {
			errs = append(errs, errors.Wrapf(err, "msteams: %s on %s", result.Name, result.Target))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// card describes result with one fact per failed sub-case.
func card(result types.Result) goteamsnotify.MessageCard {
	title := fmt.Sprintf("%s benchmark on %s", result.Name, result.Target)
	status := strings.ToUpper(fmt.Sprint(result.Status()))

	section := goteamsnotify.NewMessageCardSection()
	section.ActivityTitle = title
	section.Markdown = true
	section.Facts = append(section.Facts,
		goteamsnotify.MessageCardSectionFact{Name: "Target", Value: result.Target},
		goteamsnotify.MessageCardSectionFact{Name: "Status", Value: status},
	)
	for _, f := range result.Failures {
		section.Facts = append(section.Facts, goteamsnotify.MessageCardSectionFact{Name: f.SubCase, Value: f.Error})
	}

	msg := goteamsnotify.NewMessageCard()
	msg.Title = title
	msg.Summary = title
	msg.Text = fmt.Sprintf("%s is **%s**", result.Target, status)
	msg.ThemeColor = "#FF0000"
	if result.Degraded {
		msg.ThemeColor = "#FFA500"
	}
	msg.Sections = append(msg.Sections, section)
	return msg
}
