package ics

import (
	"bytes"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SergeyKozhin/planner-calendar/internal/model"
	"github.com/SergeyKozhin/planner-calendar/internal/recurrence"
)

func TestEncodeRoundTrip(t *testing.T) {
	start := time.Date(2025, time.May, 5, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	allDay := time.Date(2025, time.May, 17, 0, 0, 0, 0, time.UTC)

	tasks := []*model.Task{
		{
			ID: 1,
			TaskCreate: model.TaskCreate{
				Title:         "Standup",
				Date:          start,
				EndDate:       &end,
				Status:        model.TaskStatusConfirmed,
				RecurringRule: "RRULE:FREQ=WEEKLY;BYDAY=MO,WE;COUNT=4\nEXDATE:20250507T090000Z",
			},
		},
		{
			ID: 2,
			TaskCreate: model.TaskCreate{
				Title:    "Holiday",
				Date:     allDay,
				IsAllDay: true,
				Location: "Home",
			},
		},
	}

	var buf bytes.Buffer
	err := Encode(&buf, &model.Calendar{ID: 3, CalendarCreate: model.CalendarCreate{Name: "Team"}}, tasks, start)
	require.NoError(t, err)

	cal, err := ical.NewDecoder(&buf).Decode()
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 2)

	uid, err := events[0].Props.Text(ical.PropUID)
	require.NoError(t, err)
	assert.Equal(t, TaskUID(1), uid)

	ropt, err := events[0].Props.RecurrenceRule()
	require.NoError(t, err)
	require.NotNil(t, ropt)
	assert.Equal(t, 4, ropt.Count)

	rruleText := events[0].Props.Get(ical.PropRecurrenceRule).Value
	exdate := events[0].Props.Get(ical.PropExceptionDates).Value
	got, err := recurrence.Evaluate(rruleText+"\nEXDATE:"+exdate, start, start, start.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Len(t, got, 3)

	status, err := events[0].Props.Text(ical.PropStatus)
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", status)

	dtstart := events[1].Props.Get(ical.PropDateTimeStart)
	assert.Equal(t, "20250517", dtstart.Value)
	dtend := events[1].Props.Get(ical.PropDateTimeEnd)
	assert.Equal(t, "20250518", dtend.Value)
}

func TestTaskUIDIsStable(t *testing.T) {
	assert.Equal(t, TaskUID(7), TaskUID(7))
	assert.NotEqual(t, TaskUID(7), TaskUID(8))
}
