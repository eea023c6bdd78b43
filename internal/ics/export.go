// Package ics renders stored tasks as an iCalendar feed.
package ics

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/SergeyKozhin/planner-calendar/internal/model"
)

const productID = "-//planner-calendar//tasks//EN"

var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("planner-calendar/tasks"))

// TaskUID derives a stable event UID from the task id.
func TaskUID(id int64) string {
	return uuid.NewSHA1(uidNamespace, []byte(fmt.Sprint(id))).String()
}

// Encode writes the source tasks of cal to w. stamp is used as DTSTAMP.
func Encode(w io.Writer, cal *model.Calendar, tasks []*model.Task, stamp time.Time) error {
	out := ical.NewCalendar()
	out.Props.SetText(ical.PropVersion, "2.0")
	out.Props.SetText(ical.PropProductID, productID)
	out.Props.SetText("X-WR-CALNAME", cal.Name)

	for _, t := range tasks {
		event, err := taskEvent(t, stamp)
		if err != nil {
			return fmt.Errorf("task %d: %w", t.ID, err)
		}
		out.Children = append(out.Children, event.Component)
	}

	if err := ical.NewEncoder(w).Encode(out); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}

	return nil
}

func taskEvent(t *model.Task, stamp time.Time) (*ical.Event, error) {
	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, TaskUID(t.ID))
	event.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
	event.Props.SetText(ical.PropSummary, t.Title)

	if t.Description != "" {
		event.Props.SetText(ical.PropDescription, t.Description)
	}
	if t.Location != "" {
		event.Props.SetText(ical.PropLocation, t.Location)
	}
	if t.Status != "" {
		event.Props.SetText(ical.PropStatus, strings.ToUpper(string(t.Status)))
	}

	if t.IsAllDay {
		event.Props.SetDate(ical.PropDateTimeStart, t.Date)
		end := t.Date
		if t.EndDate != nil {
			end = *t.EndDate
		}
		// DTEND of a DATE event is exclusive.
		event.Props.SetDate(ical.PropDateTimeEnd, end.AddDate(0, 0, 1))
	} else {
		event.Props.SetDateTime(ical.PropDateTimeStart, t.Date)
		if t.EndDate != nil {
			event.Props.SetDateTime(ical.PropDateTimeEnd, *t.EndDate)
		}
	}

	if t.IsRecurring() {
		if err := addRecurrence(event, t.RecurringRule); err != nil {
			return nil, err
		}
	}

	return event, nil
}

// addRecurrence copies RRULE and EXDATE lines of the stored rule text onto the event.
func addRecurrence(event *ical.Event, ruleText string) error {
	for _, line := range strings.Split(ruleText, "\n") {
		line = strings.TrimSpace(line)
		upper := strings.ToUpper(line)

		switch {
		case line == "", strings.HasPrefix(upper, "DTSTART"):
		case strings.HasPrefix(upper, "EXDATE"):
			i := strings.Index(line, ":")
			if i < 0 {
				return fmt.Errorf("malformed EXDATE %q", line)
			}
			prop := ical.NewProp(ical.PropExceptionDates)
			prop.Value = line[i+1:]
			event.Props.Add(prop)
		default:
			prop := ical.NewProp(ical.PropRecurrenceRule)
			prop.SetValueType(ical.ValueRecurrence)
			prop.Value = strings.TrimPrefix(upper, "RRULE:")
			event.Props.Set(prop)
		}
	}

	return nil
}
