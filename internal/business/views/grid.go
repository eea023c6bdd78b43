package views

import (
	"time"

	"github.com/SergeyKozhin/planner-calendar/internal/model"
)

type Kind string

const (
	KindMonth Kind = "month"
	KindWeek  Kind = "week"
	KindDay   Kind = "day"
	KindList  Kind = "list"
)

func (k Kind) Valid() bool {
	switch k {
	case KindMonth, KindWeek, KindDay, KindList:
		return true
	}
	return false
}

// Builder lays occurrences out for the month, week, day and list views.
type Builder struct {
	WeekStart time.Weekday
	Location  *time.Location
}

func NewBuilder(weekStart time.Weekday, loc *time.Location) *Builder {
	if loc == nil {
		loc = time.UTC
	}
	return &Builder{WeekStart: weekStart, Location: loc}
}

func (b *Builder) startOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) - int(b.WeekStart) + 7) % 7
	return startOfDay(t).AddDate(0, 0, -offset)
}

// Month returns whole weeks covering the month of current.
func (b *Builder) Month(current, today time.Time, occurrences []*model.Occurrence) []*model.DayInfo {
	current = current.In(b.Location)
	first := time.Date(current.Year(), current.Month(), 1, 0, 0, 0, 0, b.Location)
	last := first.AddDate(0, 1, -1)

	from := b.startOfWeek(first)
	to := b.startOfWeek(last).AddDate(0, 0, 6)

	return b.days(from, to, current, today, occurrences)
}

func (b *Builder) Week(current, today time.Time, occurrences []*model.Occurrence) []*model.DayInfo {
	current = current.In(b.Location)
	from := b.startOfWeek(current)

	return b.days(from, from.AddDate(0, 0, 6), current, today, occurrences)
}

func (b *Builder) Day(current, today time.Time, occurrences []*model.Occurrence) *model.DayInfo {
	current = current.In(b.Location)
	day := startOfDay(current)

	return b.days(day, day, current, today, occurrences)[0]
}

// List groups all occurrences by date.
func (b *Builder) List(occurrences []*model.Occurrence) []*model.DateGroup {
	return GroupByDate(occurrences, b.Location)
}

func (b *Builder) days(from, to, current, today time.Time, occurrences []*model.Occurrence) []*model.DayInfo {
	today = today.In(b.Location)

	var res []*model.DayInfo
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		res = append(res, &model.DayInfo{
			Date:           d,
			IsCurrentMonth: d.Year() == current.Year() && d.Month() == current.Month(),
			IsToday:        sameDay(d, today),
			Tasks:          ForDay(occurrences, d),
		})
	}

	return res
}
