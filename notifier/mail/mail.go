package mail

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/sourcegraph/termbench/types"
)

// Type should match the package name
const Type = "mail"

// Notifier consist of all the sub components required to send E-mail notifications
type Notifier struct {
	// From contains the e-mail address notifications are sent from
	From string `json:"from"`

	// To contains a list of e-mail address destinations
	To []string `json:"to"`

	// Subject contains customizable subject line
	Subject string `json:"subject,omitempty"`

	// SMTP contains all relevant mail server settings
	SMTP struct {
		Server   string `json:"server"`
		Port     int    `json:"port,omitempty"`
		Username string `json:"username,omitempty"`
		Password string `json:"password,omitempty"`
	} `json:"smtp"`
}

// New creates a new Notifier instance based on json config
func New(config json.RawMessage) (Notifier, error) {
	var notifier Notifier
	err := json.Unmarshal(config, &notifier)
	// Fall back to port 25 if not defined
	if notifier.SMTP.Port == 0 {
		notifier.SMTP.Port = 25
	}
	if strings.TrimSpace(notifier.Subject) == "" {
		notifier.Subject = "Termbench: Benchmark Failures"
	}
	return notifier, err
}

// Type returns the notifier package name
func (Notifier) Type() string {
	return Type
}

// send delivers a message, but may be replaced in tests.
var send = func(n Notifier, message *gomail.Message) error {
	dialer := gomail.NewDialer(n.SMTP.Server, n.SMTP.Port, n.SMTP.Username, n.SMTP.Password)
	return dialer.DialAndSend(message)
}

// Notify mails a list of the degraded or down benchmarks, if there
// are any.
func (m Notifier) Notify(suites []types.Suite) error {
	issues := types.AllIssues(suites)
	if len(issues) == 0 {
		return nil
	}

	message := gomail.NewMessage()
	message.SetHeader("From", m.From)
	message.SetHeader("To", m.To...)
	message.SetHeader("Subject", m.Subject)
	message.SetBody("text/html", renderMessage(issues))

	return send(m, message)
}

func renderMessage(issues []types.Result) string {
	body := []string{"<b>Termbench has detected the following issues:</b>", "<br/><br/>", "<ul>"}
	for _, issue := range issues {
		format := "<li>%s %s - Status <b>%s</b>%s</li>"
		body = append(body, fmt.Sprintf(format,
			html.EscapeString(issue.Target), html.EscapeString(issue.Name), issue.Status(), notice(issue)))
	}
	body = append(body, "</ul>")
	return strings.Join(body, "\n")
}

func notice(r types.Result) string {
	if r.Notice == "" {
		return ""
	}
	return " (" + html.EscapeString(r.Notice) + ")"
}
