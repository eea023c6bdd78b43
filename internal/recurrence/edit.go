package recurrence

import (
	"errors"
	"time"
)

var ErrNoOccurrence = errors.New("no occurrence at the given time")

// ExcludeOccurrence returns rule text that skips the single occurrence starting at start.
func ExcludeOccurrence(ruleText string, anchor, start time.Time) (string, error) {
	r, err := Parse(ruleText, anchor)
	if err != nil {
		return "", err
	}

	if !r.Includes(start) {
		return "", ErrNoOccurrence
	}

	r.exdates = append(r.exdates, start)
	if err := r.build(); err != nil {
		return "", &ParseError{Rule: ruleText, Err: err}
	}

	return r.String(), nil
}

// EndBefore returns rule text whose last occurrence is the one preceding start.
// ok is false when no occurrence would remain, i.e. start is the first one.
func EndBefore(ruleText string, anchor, start time.Time) (text string, ok bool, err error) {
	r, err := Parse(ruleText, anchor)
	if err != nil {
		return "", false, err
	}

	if !r.Includes(start) {
		return "", false, ErrNoOccurrence
	}

	prev := r.set.Before(start, false)
	if prev.IsZero() {
		return "", false, nil
	}

	r.option.Count = 0
	r.option.Until = prev
	if err := r.build(); err != nil {
		return "", false, &ParseError{Rule: ruleText, Err: err}
	}

	return r.String(), true, nil
}
