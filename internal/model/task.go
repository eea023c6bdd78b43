package model

import "time"

type TaskStatus string

const (
	TaskStatusConfirmed TaskStatus = "confirmed"
	TaskStatusTentative TaskStatus = "tentative"
	TaskStatusCancelled TaskStatus = "cancelled"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusConfirmed, TaskStatusTentative, TaskStatusCancelled:
		return true
	}
	return false
}

type TaskCreate struct {
	CalendarID   int64
	Title        string
	Description  string
	Date         time.Time
	EndDate      *time.Time
	IsAllDay     bool
	StartTime    string
	EndTime      string
	Color        string
	Participants []int64
	Location     string
	Status       TaskStatus
	// RecurringRule is RFC 5545 RRULE text anchored at Date. Empty for one-off tasks.
	RecurringRule string
	CreatedBy     *int64
}

type Task struct {
	ID int64
	TaskCreate
}

func (t *Task) IsRecurring() bool {
	return t.RecurringRule != ""
}

// Duration is the span replicated onto every occurrence. Zero without an end date.
func (t *Task) Duration() time.Duration {
	if t.EndDate == nil {
		return 0
	}
	return t.EndDate.Sub(t.Date)
}

// StartClock returns the wall-clock start used for ordering timed tasks.
func (t *Task) StartClock() string {
	if t.StartTime != "" {
		return t.StartTime
	}
	return t.Date.Format(ClockLayout)
}

func (t *Task) EndClock() string {
	if t.EndTime != "" {
		return t.EndTime
	}
	if t.EndDate != nil {
		return t.EndDate.Format(ClockLayout)
	}
	return ""
}

const (
	ClockLayout = "15:04"
	DateLayout  = "2006-01-02"
)

type TasksFilter struct {
	CalendarIDs []int64
	From        time.Time
	To          time.Time
}

// DeleteScope selects which part of a recurring series a deletion targets.
type DeleteScope string

const (
	DeleteScopeThis   DeleteScope = "this"
	DeleteScopeFuture DeleteScope = "future"
	DeleteScopeAll    DeleteScope = "all"
)
