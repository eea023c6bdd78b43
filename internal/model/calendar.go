package model

import (
	"time"

	"github.com/gerow/go-color"
)

type NotificationChannel string

const (
	NotificationChannelNone     NotificationChannel = ""
	NotificationChannelPush     NotificationChannel = "push"
	NotificationChannelEmail    NotificationChannel = "email"
	NotificationChannelWhatsApp NotificationChannel = "whatsapp"
)

func (c NotificationChannel) Valid() bool {
	switch c {
	case NotificationChannelNone, NotificationChannelPush, NotificationChannelEmail, NotificationChannelWhatsApp:
		return true
	}
	return false
}

// Bounds for NotificationSettings.
const (
	MaxRepeatCount = 10
	MaxLeadTime    = 4 * 7 * 24 * time.Hour
)

type NotificationSettings struct {
	Channel     NotificationChannel
	LeadTime    time.Duration
	RepeatCount int
	Template    string
}

type CalendarCreate struct {
	Name          string
	CreatorID     int64
	Notifications NotificationSettings
}

type Calendar struct {
	ID       int64
	UsersIDs []int64
	CalendarCreate
}

// CalendarSettings is the per-user view state of a calendar.
type CalendarSettings struct {
	UserID     int64
	CalendarID int64
	Color      color.RGB
	Visible    bool
}

// UserCalendar is a calendar as seen by one of its members.
type UserCalendar struct {
	Calendar
	Color   color.RGB
	Visible bool
}
