package recurrence

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.UTC)
}

func TestEvaluate(t *testing.T) {
	mayStart := date(2025, time.May, 1, 0, 0)
	mayEnd := date(2025, time.May, 31, 23, 59)

	tests := []struct {
		name   string
		rule   string
		anchor time.Time
		from   time.Time
		to     time.Time
		want   []time.Time
	}{
		{
			name:   "weekly by day with count",
			rule:   "FREQ=WEEKLY;BYDAY=MO,WE;COUNT=4",
			anchor: date(2025, time.May, 5, 9, 0),
			from:   mayStart,
			to:     mayEnd,
			want: []time.Time{
				date(2025, time.May, 5, 9, 0),
				date(2025, time.May, 7, 9, 0),
				date(2025, time.May, 12, 9, 0),
				date(2025, time.May, 14, 9, 0),
			},
		},
		{
			name:   "weekly defaults to anchor weekday",
			rule:   "RRULE:FREQ=WEEKLY;COUNT=3",
			anchor: date(2025, time.May, 8, 18, 30),
			from:   mayStart,
			to:     mayEnd,
			want: []time.Time{
				date(2025, time.May, 8, 18, 30),
				date(2025, time.May, 15, 18, 30),
				date(2025, time.May, 22, 18, 30),
			},
		},
		{
			name:   "daily with interval and until",
			rule:   "FREQ=DAILY;INTERVAL=3;UNTIL=20250510T235959Z",
			anchor: date(2025, time.May, 1, 7, 0),
			from:   mayStart,
			to:     mayEnd,
			want: []time.Time{
				date(2025, time.May, 1, 7, 0),
				date(2025, time.May, 4, 7, 0),
				date(2025, time.May, 7, 7, 0),
				date(2025, time.May, 10, 7, 0),
			},
		},
		{
			name:   "monthly clipped by window",
			rule:   "FREQ=MONTHLY",
			anchor: date(2025, time.January, 15, 12, 0),
			from:   date(2025, time.March, 1, 0, 0),
			to:     date(2025, time.May, 31, 0, 0),
			want: []time.Time{
				date(2025, time.March, 15, 12, 0),
				date(2025, time.April, 15, 12, 0),
				date(2025, time.May, 15, 12, 0),
			},
		},
		{
			name:   "yearly",
			rule:   "FREQ=YEARLY;INTERVAL=2",
			anchor: date(2021, time.May, 17, 0, 0),
			from:   date(2020, time.January, 1, 0, 0),
			to:     date(2026, time.January, 1, 0, 0),
			want: []time.Time{
				date(2021, time.May, 17, 0, 0),
				date(2023, time.May, 17, 0, 0),
				date(2025, time.May, 17, 0, 0),
			},
		},
		{
			name:   "window bounds are inclusive",
			rule:   "FREQ=DAILY",
			anchor: date(2025, time.May, 1, 10, 0),
			from:   date(2025, time.May, 2, 10, 0),
			to:     date(2025, time.May, 4, 10, 0),
			want: []time.Time{
				date(2025, time.May, 2, 10, 0),
				date(2025, time.May, 3, 10, 0),
				date(2025, time.May, 4, 10, 0),
			},
		},
		{
			name:   "dtstart line is ignored and exdate applied",
			rule:   "DTSTART:20200101T000000Z\nRRULE:FREQ=DAILY;COUNT=4\nEXDATE:20250502T100000Z",
			anchor: date(2025, time.May, 1, 10, 0),
			from:   mayStart,
			to:     mayEnd,
			want: []time.Time{
				date(2025, time.May, 1, 10, 0),
				date(2025, time.May, 3, 10, 0),
				date(2025, time.May, 4, 10, 0),
			},
		},
		{
			name:   "lower case rule",
			rule:   "freq=daily;count=2",
			anchor: date(2025, time.May, 1, 10, 0),
			from:   mayStart,
			to:     mayEnd,
			want: []time.Time{
				date(2025, time.May, 1, 10, 0),
				date(2025, time.May, 2, 10, 0),
			},
		},
		{
			name:   "inverted window",
			rule:   "FREQ=DAILY",
			anchor: date(2025, time.May, 1, 10, 0),
			from:   mayEnd,
			to:     mayStart,
			want:   []time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.rule, tt.anchor, tt.from, tt.to)
			require.NoError(t, err)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.True(t, tt.want[i].Equal(got[i]), "occurrence %d: want %v, got %v", i, tt.want[i], got[i])
			}
		})
	}
}

func TestEvaluateIsPure(t *testing.T) {
	anchor := date(2025, time.May, 5, 9, 0)
	from := date(2025, time.April, 1, 0, 0)
	to := date(2025, time.December, 31, 0, 0)

	first, err := Evaluate("FREQ=WEEKLY;BYDAY=MO,WE", anchor, from, to)
	require.NoError(t, err)
	second, err := Evaluate("FREQ=WEEKLY;BYDAY=MO,WE", anchor, from, to)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, first[0].Equal(anchor))
}

func TestEvaluateInLocation(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	// Spans the DST switch on 2025-03-30; wall clock time must stay at 09:00.
	anchor := time.Date(2025, time.March, 28, 9, 0, 0, 0, berlin)
	got, err := Evaluate("FREQ=DAILY;COUNT=4", anchor, anchor, anchor.AddDate(0, 0, 10))
	require.NoError(t, err)
	require.Len(t, got, 4)

	for _, occ := range got {
		local := occ.In(berlin)
		assert.Equal(t, 9, local.Hour())
	}
	assert.Equal(t, 31, got[3].In(berlin).Day())
}

func TestEvaluateParseErrors(t *testing.T) {
	anchor := date(2025, time.May, 1, 10, 0)

	rules := []string{
		"",
		"garbage",
		"FREQ=FORTNIGHTLY",
		"FREQ=HOURLY;COUNT=2",
		"FREQ=DAILY;INTERVAL=-1",
		"FREQ=DAILY;INTERVAL=0;COUNT=3",
		"FREQ=DAILY;COUNT=0",
		"RRULE:FREQ=WEEKLY;COUNT=-2",
		"FREQ=DAILY;COUNT=abc",
		"FREQ=DAILY;COUNT=2;UNTIL=20250601T000000Z",
		"RRULE:FREQ=DAILY\nRRULE:FREQ=WEEKLY",
		"RRULE:FREQ=DAILY\nEXDATE:notadate",
		"INTERVAL=2",
	}

	for _, rule := range rules {
		t.Run(rule, func(t *testing.T) {
			_, err := Evaluate(rule, anchor, anchor, anchor.AddDate(0, 1, 0))
			require.Error(t, err)

			var parseErr *ParseError
			assert.True(t, errors.As(err, &parseErr))
			assert.Equal(t, rule, parseErr.Rule)
		})
	}
}

func TestRuleStringRoundTrip(t *testing.T) {
	anchor := date(2025, time.May, 5, 9, 0)

	r, err := Parse("FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,WE;COUNT=6", anchor)
	require.NoError(t, err)

	again, err := Parse(r.String(), anchor)
	require.NoError(t, err)

	window := []time.Time{anchor, anchor.AddDate(1, 0, 0)}
	assert.Equal(t, r.Between(window[0], window[1]), again.Between(window[0], window[1]))
}
