package discord

// Type should match the package name
const Type = "discord"

// Notifier posts notices to a Discord webhook.
type Notifier struct {
	Webhook string `json:"webhook"`
}

// Payload is the body of a webhook execution.
type Payload struct {
	Title   string   `json:"username"`
	Content string   `json:"content"`
	Avatar  string   `json:"avatar_url,omitempty"`
	Embeds  []*Embed `json:"embeds"`
}

// AddEmbed appends embed to the payload.
func (p *Payload) AddEmbed(embed *Embed) {
	p.Embeds = append(p.Embeds, embed)
}

// Embed is a rich content block of a message.
type Embed struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Color       int      `json:"color"`
	Fields      []*Field `json:"fields"`
}

// AddField appends field to the embed.
func (e *Embed) AddField(field *Field) {
	e.Fields = append(e.Fields, field)
}

// Field is a name/value pair shown in an embed.
type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// Embed colors.
const (
	colorDown     = 0xc21408
	colorDegraded = 0xe8a317
)
