package notifications

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"github.com/SergeyKozhin/planner-calendar/internal/model"
)

const defaultTemplate = `{{.Title}} starts at {{.Start}}{{if .Location}} ({{.Location}}){{end}}`

type Message struct {
	Channel      model.NotificationChannel
	CalendarID   int64
	TaskID       int64
	OccurrenceID string
	Recipients   []*model.User
	At           time.Time
	Text         string
}

type templateData struct {
	Title    string
	Start    string
	Location string
	Calendar string
}

func renderMessage(cal *model.Calendar, o *model.Occurrence, loc *time.Location) (string, error) {
	text := cal.Notifications.Template
	if text == "" {
		text = defaultTemplate
	}

	tmpl, err := template.New("notification").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	layout := "2006-01-02 15:04"
	if o.IsAllDay {
		layout = model.DateLayout
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, templateData{
		Title:    o.Title,
		Start:    o.Date.In(loc).Format(layout),
		Location: o.Location,
		Calendar: cal.Name,
	}); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}

// recipients are the participants of the task plus its creator, without duplicates.
func recipients(o *model.Occurrence) []int64 {
	seen := make(map[int64]struct{})
	var res []int64

	add := func(id int64) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		res = append(res, id)
	}

	if o.CreatedBy != nil {
		add(*o.CreatedBy)
	}
	for _, id := range o.Participants {
		add(id)
	}

	return res
}
