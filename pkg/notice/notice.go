package notice

import (
	"bytes"
	"html/template"
	"time"
)

// Kind selects the styling of a message.
type Kind string

const (
	// KindInfo is a neutral message.
	KindInfo Kind = "info"
	// KindSuccess confirms a completed action.
	KindSuccess Kind = "success"
	// KindError reports a failed action.
	KindError Kind = "error"

	// DefaultDuration is how long a message box stays visible.
	DefaultDuration = 3 * time.Second
)

// Message is one transient notice.
type Message struct {
	Kind Kind
	Text string
}

// Config captures the markup hooks required to render the message boxes.
type Config struct {
	ElementID string
	BaseClass string
	Duration  time.Duration
	Messages  []Message
}

// ConfirmConfig captures the markup of a yes/no confirmation box backed by a form post.
type ConfirmConfig struct {
	ElementID    string
	BaseClass    string
	Question     string
	Action       string
	FieldName    string
	FieldValue   string
	ConfirmLabel string
	CancelLabel  string
	CancelHref   string
}

var (
	messageTemplate = template.Must(template.New("notice").Parse(`<div id="{{.ElementID}}" class="{{.BaseClass}}" data-duration-ms="{{.DurationMilliseconds}}">
  {{range .Messages}}
  <div class="{{$.BaseClass}}__item {{$.BaseClass}}__item--{{.Kind}}" role="{{if eq .Kind "error"}}alert{{else}}status{{end}}">{{.Text}}</div>
  {{end}}
</div>`))

	confirmTemplate = template.Must(template.New("confirm").Parse(`<div id="{{.ElementID}}" class="{{.BaseClass}}" role="dialog" aria-modal="true">
  <p class="{{.BaseClass}}__question">{{.Question}}</p>
  <form method="post" action="{{.Action}}">
    <input type="hidden" name="{{.FieldName}}" value="{{.FieldValue}}">
    <button id="{{.ElementID}}-yes" class="{{.BaseClass}}__yes" type="submit">{{.ConfirmLabel}}</button>
    <a id="{{.ElementID}}-no" class="{{.BaseClass}}__no" href="{{.CancelHref}}">{{.CancelLabel}}</a>
  </form>
</div>`))
)

type messageView struct {
	Config
	DurationMilliseconds int64
}

// Render returns the message box HTML, or an empty fragment when there is nothing to show.
func Render(config Config) (template.HTML, error) {
	if len(config.Messages) == 0 {
		return "", nil
	}
	duration := config.Duration
	if duration <= 0 {
		duration = DefaultDuration
	}
	var buffer bytes.Buffer
	if err := messageTemplate.Execute(&buffer, messageView{Config: config, DurationMilliseconds: duration.Milliseconds()}); err != nil {
		return "", err
	}
	return template.HTML(buffer.String()), nil
}

// RenderConfirm returns the confirmation box HTML.
func RenderConfirm(config ConfirmConfig) (template.HTML, error) {
	var buffer bytes.Buffer
	if err := confirmTemplate.Execute(&buffer, config); err != nil {
		return "", err
	}
	return template.HTML(buffer.String()), nil
}
