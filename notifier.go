package termbench

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/sourcegraph/termbench/notifier/discord"
	"github.com/sourcegraph/termbench/notifier/gotify"
	"github.com/sourcegraph/termbench/notifier/mail"
	"github.com/sourcegraph/termbench/notifier/mailgun"
	"github.com/sourcegraph/termbench/notifier/msteams"
	"github.com/sourcegraph/termbench/notifier/pushover"
	"github.com/sourcegraph/termbench/notifier/slack"
)

func notifierDecode(typeName string, config json.RawMessage) (Notifier, error) {
	switch typeName {
	case mail.Type:
		return mail.New(config)
	case slack.Type:
		return slack.New(config)
	case mailgun.Type:
		return mailgun.New(config)
	case pushover.Type:
		return pushover.New(config)
	case discord.Type:
		return discord.New(config)
	case gotify.Type:
		return gotify.New(config)
	case msteams.Type:
		return msteams.New(config)
	default:
		return nil, errors.New(strings.Replace(errUnknownNotifierType, "%T", typeName, -1))
	}
}

func notifierType(n interface{}) (string, error) {
	var typeName string
	switch n.(type) {
	case mail.Notifier, *mail.Notifier:
		typeName = mail.Type
	case slack.Notifier, *slack.Notifier:
		typeName = slack.Type
	case mailgun.Notifier, *mailgun.Notifier:
		typeName = mailgun.Type
	case pushover.Notifier, *pushover.Notifier:
		typeName = pushover.Type
	case discord.Notifier, *discord.Notifier:
		typeName = discord.Type
	case gotify.Notifier, *gotify.Notifier:
		typeName = gotify.Type
	case msteams.Notifier, *msteams.Notifier:
		typeName = msteams.Type
	default:
		return "", fmt.Errorf(errUnknownNotifierType, n)
	}
	return typeName, nil
}
