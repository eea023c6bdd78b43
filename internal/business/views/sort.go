package views

import (
	"sort"
	"time"

	"github.com/SergeyKozhin/planner-calendar/internal/model"
)

// SortWithinDay orders occurrences in place: all-day first, then by start clock.
// Clocks are fixed width 24h strings so they compare lexicographically.
func SortWithinDay(occurrences []*model.Occurrence) {
	sort.SliceStable(occurrences, func(i, j int) bool {
		return lessWithinDay(occurrences[i], occurrences[j], false)
	})
}

func lessWithinDay(a, b *model.Occurrence, byEnd bool) bool {
	if a.IsAllDay != b.IsAllDay {
		return a.IsAllDay
	}
	if a.IsAllDay {
		return false
	}

	as, bs := a.StartClock(), b.StartClock()
	if as != bs {
		return as < bs
	}

	if byEnd {
		return a.EndClock() < b.EndClock()
	}
	return false
}

// GroupByDate buckets occurrences by their own start date in loc. Groups are ascending and
// each group uses within-day order with end time as tie-break.
func GroupByDate(occurrences []*model.Occurrence, loc *time.Location) []*model.DateGroup {
	groups := make(map[string]*model.DateGroup)
	var keys []string

	for _, o := range occurrences {
		start := o.Date.In(loc)
		key := start.Format(model.DateLayout)

		g, ok := groups[key]
		if !ok {
			g = &model.DateGroup{Key: key, Date: startOfDay(start)}
			groups[key] = g
			keys = append(keys, key)
		}
		g.Tasks = append(g.Tasks, o)
	}

	sort.Strings(keys)

	res := make([]*model.DateGroup, len(keys))
	for i, k := range keys {
		g := groups[k]
		sort.SliceStable(g.Tasks, func(i, j int) bool {
			return lessWithinDay(g.Tasks[i], g.Tasks[j], true)
		})
		res[i] = g
	}

	return res
}
