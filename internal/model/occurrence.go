package model

import "time"

// Occurrence is one concrete dated instance of a task. The embedded Task keeps the
// source task's ID so edits can target the whole series.
type Occurrence struct {
	OccurrenceID string
	// Sequence is the position within the expanded series, -1 for tasks shown unexpanded.
	Sequence int
	Task
}

func (o *Occurrence) IsInstance() bool {
	return o.Sequence >= 0
}

type DayInfo struct {
	Date           time.Time
	IsCurrentMonth bool
	IsToday        bool
	Tasks          []*Occurrence
}

type DateGroup struct {
	Key   string
	Date  time.Time
	Tasks []*Occurrence
}
