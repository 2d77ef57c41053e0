package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/sourcegraph/termbench/types"
)

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
	errs := make(types.Errors, 0)
	for _, result := range types.AllIssues(suites) {
		if err := s.Send(result); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Send posts a message about result to the webhook.
func (s Notifier) Send(result types.Result) error {
	status := strings.ToUpper(fmt.Sprint(result.Status()))

	attach := &Payload{Title: "Termbench"}
	embed := &Embed{
		Title: fmt.Sprintf("%s benchmark on %s", result.Name, result.Target),
		Color: colorDown,
	}
	if result.Degraded {
		embed.Color = colorDegraded
	}
	embed.Description = result.Notice
	embed.AddField(&Field{
		Name:   "Target",
		Value:  result.Target,
		Inline: true,
	})
	embed.AddField(&Field{
		Name:   "Status",
		Value:  fmt.Sprintf("**%s**", status),
		Inline: true,
	})
	for _, f := range result.Failures {
		embed.AddField(&Field{Name: f.SubCase, Value: f.Error})
	}
	attach.AddEmbed(embed)

	requestBody, err := json.Marshal(attach)
	if err != nil {
		return errors.Wrap(err, "discord: marshalling body")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "POST", s.Webhook, bytes.NewBuffer(requestBody))
	if err != nil {
		return errors.Wrap(err, "discord: creating request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "discord: issuing request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		bodyBytes, _ := ioutil.ReadAll(resp.Body)
		log.WithField("body", string(bodyBytes)).Debug("discord: unexpected response")
		return errors.Errorf("discord: expected status 204, got %d", resp.StatusCode)
	}
	return nil
}
