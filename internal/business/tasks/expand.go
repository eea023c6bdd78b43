package tasks

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/SergeyKozhin/planner-calendar/internal/model"
	"github.com/SergeyKozhin/planner-calendar/internal/recurrence"
)

const (
	DefaultMaxOccurrences = 5000

	windowMonthsBefore = 2
	windowMonthsAfter  = 6
)

type Expander struct {
	logger         *zap.SugaredLogger
	location       *time.Location
	maxOccurrences int
}

// NewExpander returns an Expander evaluating rules in loc, the zone calendar days are
// computed in.
func NewExpander(logger *zap.SugaredLogger, loc *time.Location, maxOccurrences int) *Expander {
	if loc == nil {
		loc = time.UTC
	}
	if maxOccurrences <= 0 {
		maxOccurrences = DefaultMaxOccurrences
	}

	return &Expander{
		logger:         logger,
		location:       loc,
		maxOccurrences: maxOccurrences,
	}
}

// Window is the package level Window for ref seen in the expander's location.
func (e *Expander) Window(ref time.Time) (time.Time, time.Time) {
	return Window(ref.In(e.location))
}

// Anchor returns the task start in the expander's location. Weekdays and DST steps of a
// rule are evaluated against it.
func (e *Expander) Anchor(t *model.Task) time.Time {
	return t.Date.In(e.location)
}

func (e *Expander) localize(t *model.Task) *model.Task {
	res := *t
	res.Date = t.Date.In(e.location)
	if t.EndDate != nil {
		end := t.EndDate.In(e.location)
		res.EndDate = &end
	}

	return &res
}

// Window returns the inclusive expansion window around the month of ref: two months back
// from its first day up to the last instant of the sixth following month.
func Window(ref time.Time) (time.Time, time.Time) {
	monthStart := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())

	from := monthStart.AddDate(0, -windowMonthsBefore, 0)
	to := monthStart.AddDate(0, windowMonthsAfter+1, 0).Add(-time.Nanosecond)

	return from, to
}

// Expand turns visible tasks into occurrences for the window around ref. Inputs are not
// modified. Tasks whose rule can not be evaluated are returned once, unexpanded.
func (e *Expander) Expand(tasks []*model.Task, ref time.Time, visible model.CalendarSet) []*model.Occurrence {
	from, to := e.Window(ref)

	var res []*model.Occurrence
	for _, t := range FilterVisible(tasks, visible) {
		t = e.localize(t)

		if !t.IsRecurring() {
			res = append(res, single(t))
			continue
		}

		starts, err := recurrence.Evaluate(t.RecurringRule, t.Date, from, to)
		if err != nil {
			e.logger.Warnw("recurrence evaluation failed, showing task unexpanded",
				"task_id", t.ID,
				"rule", t.RecurringRule,
				"err", err,
			)
			res = append(res, single(t))
			continue
		}

		if len(starts) > e.maxOccurrences {
			e.logger.Warnw("recurrence expansion truncated",
				"task_id", t.ID,
				"occurrences", len(starts),
				"cap", e.maxOccurrences,
			)
			starts = starts[:e.maxOccurrences]
		}

		for i, start := range starts {
			res = append(res, instance(t, i, start))
		}
	}

	return res
}

func single(t *model.Task) *model.Occurrence {
	return &model.Occurrence{
		OccurrenceID: fmt.Sprintf("%d", t.ID),
		Sequence:     -1,
		Task:         *t,
	}
}

func instance(t *model.Task, i int, start time.Time) *model.Occurrence {
	o := &model.Occurrence{
		OccurrenceID: fmt.Sprintf("%d-recur-%d", t.ID, i),
		Sequence:     i,
		Task:         *t,
	}

	o.Date = start
	if t.EndDate != nil {
		end := start.Add(t.Duration())
		o.EndDate = &end
	}

	return o
}
