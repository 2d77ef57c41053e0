package gotify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/sourcegraph/termbench/types"
)

// Type should match the package name
const Type = "gotify"

// Notifier pushes notices to a Gotify server.
type Notifier struct {
	Token   string `json:"token"`
	Webhook string `json:"webhook"`

	// Priority of the message. Defaults to 5.
	Priority int `json:"priority,omitempty"`
}

// New creates a new Notifier instance based on json config
func New(config json.RawMessage) (Notifier, error) {
	var notifier Notifier
	err := json.Unmarshal(config, &notifier)
	if notifier.Priority == 0 {
		notifier.Priority = 5
	}
	return notifier, err
}

// Type returns the notifier package name
func (Notifier) Type() string {
	return Type
}

// Notify pushes a list of the degraded or down benchmarks, if there
// are any.
func (g Notifier) Notify(suites []types.Suite) error {
	issues := types.AllIssues(suites)
	if len(issues) == 0 {
		return nil
	}
	return g.Send(issues)
}

// Send pushes one message listing issues.
func (g Notifier) Send(issues []types.Result) error {
	requestBody, err := json.Marshal(struct {
		Title    string `json:"title"`
		Message  string `json:"message"`
		Priority int    `json:"priority"`
	}{"Termbench", renderMessage(issues), g.Priority})
	if err != nil {
		return errors.Wrap(err, "gotify: marshalling body")
	}

	webhookURL, err := url.Parse(g.Webhook)
	if err != nil {
		return errors.Wrap(err, "gotify: parsing webhook")
	}
	query := webhookURL.Query()
	query.Add("token", g.Token)
	webhookURL.RawQuery = query.Encode()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "POST", webhookURL.String(), bytes.NewBuffer(requestBody))
	if err != nil {
		return errors.Wrap(err, "gotify: creating request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "gotify: issuing request")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		bodyBytes, _ := ioutil.ReadAll(resp.Body)
		log.WithField("body", string(bodyBytes)).Debug("gotify: unexpected response")
		return errors.Errorf("gotify: expected status 200, got %d", resp.StatusCode)
	}
	return nil
}

func renderMessage(issues []types.Result) string {
	body := []string{"Termbench has detected the following issues:\n"}
	for _, issue := range issues {
		status := strings.ToUpper(fmt.Sprint(issue.Status()))
		text := fmt.Sprintf("%s %s - Status: %s - Runs: %d", issue.Target, issue.Name, status, issue.Runs)
		if issue.Notice != "" {
			text += " - " + issue.Notice
		}
		body = append(body, text)
	}
	return strings.Join(body, "\n")
}
