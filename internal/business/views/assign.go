// Package views assigns occurrences to calendar days and orders them for display.
package views

import (
	"time"

	"github.com/SergeyKozhin/planner-calendar/internal/model"
)

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// OccursOn reports whether o falls on the calendar day of day, evaluated in day's location.
func OccursOn(o *model.Occurrence, day time.Time) bool {
	loc := day.Location()

	if o.EndDate == nil {
		return sameDay(o.Date.In(loc), day)
	}

	dayStart := startOfDay(day)
	from := startOfDay(o.Date.In(loc))
	to := endOfDay(o.EndDate.In(loc))

	return !dayStart.Before(from) && !dayStart.After(to)
}

// ForDay returns the occurrences falling on day in within-day order.
func ForDay(occurrences []*model.Occurrence, day time.Time) []*model.Occurrence {
	var res []*model.Occurrence
	for _, o := range occurrences {
		if OccursOn(o, day) {
			res = append(res, o)
		}
	}

	SortWithinDay(res)
	return res
}
