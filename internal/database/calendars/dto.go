package calendars

import (
	"fmt"
	"time"

	"github.com/gerow/go-color"

	"github.com/SergeyKozhin/planner-calendar/internal/model"
)

type calendarDTO struct {
	ID                int64   `db:"id"`
	Name              string  `db:"name"`
	CreatorID         int64   `db:"creator_id"`
	NotifyChannel     string  `db:"notify_channel"`
	NotifyLeadSeconds int64   `db:"notify_lead_seconds"`
	NotifyRepeat      int     `db:"notify_repeat"`
	NotifyTemplate    string  `db:"notify_template"`
	UsersIDs          []int64 `db:"users_ids"`
}

func mapToCalendar(d *calendarDTO) *model.Calendar {
	return &model.Calendar{
		ID:       d.ID,
		UsersIDs: d.UsersIDs,
		CalendarCreate: model.CalendarCreate{
			Name:      d.Name,
			CreatorID: d.CreatorID,
			Notifications: model.NotificationSettings{
				Channel:     model.NotificationChannel(d.NotifyChannel),
				LeadTime:    time.Duration(d.NotifyLeadSeconds) * time.Second,
				RepeatCount: d.NotifyRepeat,
				Template:    d.NotifyTemplate,
			},
		},
	}
}

type userCalendarDTO struct {
	ID                int64   `db:"id"`
	Name              string  `db:"name"`
	CreatorID         int64   `db:"creator_id"`
	NotifyChannel     string  `db:"notify_channel"`
	NotifyLeadSeconds int64   `db:"notify_lead_seconds"`
	NotifyRepeat      int     `db:"notify_repeat"`
	NotifyTemplate    string  `db:"notify_template"`
	UsersIDs          []int64 `db:"users_ids"`
	Color             string  `db:"color"`
	Visible           bool    `db:"visible"`
}

func mapToUserCalendar(d *userCalendarDTO) (*model.UserCalendar, error) {
	colorRGB, err := color.HTMLToRGB(d.Color)
	if err != nil {
		return nil, fmt.Errorf("map color from %v", d.Color)
	}

	return &model.UserCalendar{
		Calendar: *mapToCalendar(&calendarDTO{
			ID:                d.ID,
			Name:              d.Name,
			CreatorID:         d.CreatorID,
			NotifyChannel:     d.NotifyChannel,
			NotifyLeadSeconds: d.NotifyLeadSeconds,
			NotifyRepeat:      d.NotifyRepeat,
			NotifyTemplate:    d.NotifyTemplate,
			UsersIDs:          d.UsersIDs,
		}),
		Color:   colorRGB,
		Visible: d.Visible,
	}, nil
}

func notificationValues(n model.NotificationSettings) map[string]interface{} {
	return map[string]interface{}{
		"notify_channel":      string(n.Channel),
		"notify_lead_seconds": int64(n.LeadTime / time.Second),
		"notify_repeat":       n.RepeatCount,
		"notify_template":     n.Template,
	}
}
