package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/SergeyKozhin/planner-calendar/internal/model"
)

const dateTimeFormat = time.RFC3339

// flexID accepts ids sent either as JSON numbers or as strings.
type flexID int64

func (id *flexID) UnmarshalJSON(b []byte) error {
	var raw interface{} = json.Number(b)
	if len(b) > 0 && b[0] == '"' {
		s, err := strconv.Unquote(string(b))
		if err != nil {
			return fmt.Errorf("invalid id %s", b)
		}
		raw = s
	}

	v, err := model.NormalizeID(raw)
	if err != nil {
		return err
	}

	*id = flexID(v)
	return nil
}

func flexIDs(ids []flexID) []int64 {
	res, _ := mapSlice(ids, func(id flexID) (int64, error) {
		return int64(id), nil
	})
	return res
}

type dateTime time.Time

func (d *dateTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}

	s, err := strconv.Unquote(string(b))
	if err != nil {
		return fmt.Errorf("invalid time %s", b)
	}

	t, err := time.Parse(dateTimeFormat, s)
	if err != nil {
		return fmt.Errorf("invalid time format: %w", err)
	}

	*d = dateTime(t)
	return nil
}

type taskResp struct {
	ID            int64            `json:"id"`
	OccurrenceID  string           `json:"occurrence_id,omitempty"`
	IsInstance    bool             `json:"is_instance"`
	CalendarID    int64            `json:"calendar_id"`
	Title         string           `json:"title"`
	Description   string           `json:"description,omitempty"`
	Date          time.Time        `json:"date"`
	EndDate       *time.Time       `json:"end_date,omitempty"`
	IsAllDay      bool             `json:"is_all_day"`
	StartTime     string           `json:"start_time,omitempty"`
	EndTime       string           `json:"end_time,omitempty"`
	Color         string           `json:"color,omitempty"`
	Participants  []int64          `json:"participants"`
	Location      string           `json:"location,omitempty"`
	Status        model.TaskStatus `json:"status"`
	RecurringRule string           `json:"recurring_rule,omitempty"`
	CreatedBy     *int64           `json:"created_by,omitempty"`
}

func mapToTaskResp(t *model.Task) (*taskResp, error) {
	participants := t.Participants
	if participants == nil {
		participants = []int64{}
	}

	return &taskResp{
		ID:            t.ID,
		CalendarID:    t.CalendarID,
		Title:         t.Title,
		Description:   t.Description,
		Date:          t.Date,
		EndDate:       t.EndDate,
		IsAllDay:      t.IsAllDay,
		StartTime:     t.StartTime,
		EndTime:       t.EndTime,
		Color:         t.Color,
		Participants:  participants,
		Location:      t.Location,
		Status:        t.Status,
		RecurringRule: t.RecurringRule,
		CreatedBy:     t.CreatedBy,
	}, nil
}

func mapToOccurrenceResp(o *model.Occurrence) (*taskResp, error) {
	resp, _ := mapToTaskResp(&o.Task)
	resp.OccurrenceID = o.OccurrenceID
	resp.IsInstance = o.IsInstance()

	return resp, nil
}

type dayResp struct {
	Date           string      `json:"date"`
	IsCurrentMonth bool        `json:"is_current_month"`
	IsToday        bool        `json:"is_today"`
	Tasks          []*taskResp `json:"tasks"`
}

func mapToDayResp(d *model.DayInfo) (*dayResp, error) {
	tasks, _ := mapSlice(d.Tasks, mapToOccurrenceResp)

	return &dayResp{
		Date:           d.Date.Format(model.DateLayout),
		IsCurrentMonth: d.IsCurrentMonth,
		IsToday:        d.IsToday,
		Tasks:          tasks,
	}, nil
}

type dateGroupResp struct {
	Date  string      `json:"date"`
	Tasks []*taskResp `json:"tasks"`
}

func mapToDateGroupResp(g *model.DateGroup) (*dateGroupResp, error) {
	tasks, _ := mapSlice(g.Tasks, mapToOccurrenceResp)

	return &dateGroupResp{
		Date:  g.Key,
		Tasks: tasks,
	}, nil
}

type notificationsResp struct {
	Channel     model.NotificationChannel `json:"channel"`
	LeadTime    int64                     `json:"lead_time_minutes"`
	RepeatCount int                       `json:"repeat_count"`
	Template    string                    `json:"template,omitempty"`
}

type calendarResp struct {
	ID            int64             `json:"id"`
	Name          string            `json:"name"`
	Color         string            `json:"color"`
	Visible       bool              `json:"visible"`
	UserCount     int               `json:"user_count"`
	Notifications notificationsResp `json:"notifications"`
}

func mapToCalendarResp(c *model.UserCalendar) (*calendarResp, error) {
	return &calendarResp{
		ID:        c.ID,
		Name:      c.Name,
		Color:     "#" + c.Color.ToHTML(),
		Visible:   c.Visible,
		UserCount: len(c.UsersIDs),
		Notifications: notificationsResp{
			Channel:     c.Notifications.Channel,
			LeadTime:    int64(c.Notifications.LeadTime / time.Minute),
			RepeatCount: c.Notifications.RepeatCount,
			Template:    c.Notifications.Template,
		},
	}, nil
}
