package mailgun

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strings"
	"time"

	mailgun "github.com/mailgun/mailgun-go/v4"
	log "github.com/sirupsen/logrus"

	"github.com/sourcegraph/termbench/types"
)

// Type should match the package name
const Type = "mailgun"

// Notifier sends notices through the Mailgun API.
type Notifier struct {
	APIKey  string `json:"apikey"`
	Domain  string `json:"domain"`
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject,omitempty"`

	// APIBase overrides the API endpoint, e.g. for the EU region.
	APIBase string `json:"api_base,omitempty"`
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

// Notify mails a list of the degraded or down benchmarks, if there
// are any.
func (m Notifier) Notify(suites []types.Suite) error {
	issues := types.AllIssues(suites)
	if len(issues) == 0 {
		return nil
	}

	mg := mailgun.NewMailgun(m.Domain, m.APIKey)
	if m.APIBase != "" {
		mg.SetAPIBase(m.APIBase)
	}
	msg := mg.NewMessage(m.From, m.Subject, renderText(issues), m.To)
	msg.SetHtml(renderMessage(issues))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	_, id, err := mg.Send(ctx, msg)
	if err != nil {
		return err
	}
	log.WithField("id", id).Debug("mailgun: notice queued")
	return nil
}

func renderMessage(issues []types.Result) string {
	body := []string{"<b>Termbench has detected the following issues:</b>", "<br/><br/>", "<ul>"}
	for _, issue := range issues {
		format := "<li>%s %s - Status <b>%s</b></li>"
		body = append(body, fmt.Sprintf(format,
			html.EscapeString(issue.Target), html.EscapeString(issue.Name), issue.Status()))
	}
	body = append(body, "</ul>")
	return strings.Join(body, "\n")
}

func renderText(issues []types.Result) string {
	body := []string{"Termbench has detected the following issues:", ""}
	for _, issue := range issues {
		line := fmt.Sprintf("%s %s - Status: %s", issue.Target, issue.Name, issue.Status())
		if issue.Notice != "" {
			line += " (" + issue.Notice + ")"
		}
		body = append(body, line)
	}
	return strings.Join(body, "\n")
}
