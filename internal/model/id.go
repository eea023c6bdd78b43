package model

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// NormalizeID converts identifiers arriving as numbers or strings to the canonical int64 form.
func NormalizeID(v interface{}) (int64, error) {
	switch id := v.(type) {
	case int:
		return int64(id), nil
	case int32:
		return int64(id), nil
	case int64:
		return id, nil
	case float64:
		if id != math.Trunc(id) || math.IsInf(id, 0) || math.IsNaN(id) {
			return 0, fmt.Errorf("id %v is not an integer", id)
		}
		if id < math.MinInt64 || id >= 1<<63 {
			return 0, fmt.Errorf("id %v is out of range", id)
		}
		return int64(id), nil
	case json.Number:
		if n, err := id.Int64(); err == nil {
			return n, nil
		}
		f, err := id.Float64()
		if err != nil {
			return 0, fmt.Errorf("invalid id %q", id)
		}
		return NormalizeID(f)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid id %q", id)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unsupported id type %T", v)
	}
}

// CalendarSet is a set of calendar ids in canonical form.
type CalendarSet map[int64]struct{}

func NewCalendarSet(ids ...int64) CalendarSet {
	s := make(CalendarSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// VisibleCalendars collects the ids of the calendars toggled on.
func VisibleCalendars(calendars []*UserCalendar) CalendarSet {
	s := make(CalendarSet, len(calendars))
	for _, c := range calendars {
		if c.Visible {
			s[c.ID] = struct{}{}
		}
	}
	return s
}

func (s CalendarSet) Contains(id int64) bool {
	_, ok := s[id]
	return ok
}

func (s CalendarSet) IDs() []int64 {
	res := make([]int64, 0, len(s))
	for id := range s {
		res = append(res, id)
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}
