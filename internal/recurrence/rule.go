// Package recurrence evaluates RFC 5545 recurrence rules bound to a task anchor.
package recurrence

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// ParseError is returned for rule text that can not be evaluated.
type ParseError struct {
	Rule string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse recurrence rule %q: %v", e.Rule, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Rule is a parsed recurrence rule bound to its anchor.
type Rule struct {
	text    string
	anchor  time.Time
	option  rrule.ROption
	exdates []time.Time
	set     *rrule.Set
}

// Parse parses rule text. The text may be a bare RRULE value, an "RRULE:" line, or a block
// that also carries DTSTART and EXDATE lines. DTSTART is ignored: the anchor is authoritative.
func Parse(text string, anchor time.Time) (*Rule, error) {
	r := &Rule{text: text, anchor: anchor}
	if err := r.parse(); err != nil {
		return nil, &ParseError{Rule: text, Err: err}
	}

	return r, nil
}

func (r *Rule) parse() error {
	loc := r.anchor.Location()

	var ruleLine string
	for _, line := range strings.Split(r.text, "\n") {
		line = strings.TrimSpace(line)
		upper := strings.ToUpper(line)

		switch {
		case line == "":
			continue
		case strings.HasPrefix(upper, "DTSTART"):
			continue
		case strings.HasPrefix(upper, "EXDATE"):
			exdates, err := parseDateList(line, loc)
			if err != nil {
				return err
			}
			r.exdates = append(r.exdates, exdates...)
		case strings.HasPrefix(upper, "RRULE:"), strings.HasPrefix(upper, "FREQ="), strings.Contains(upper, ";FREQ="):
			if ruleLine != "" {
				return errors.New("more than one RRULE")
			}
			ruleLine = strings.TrimPrefix(upper, "RRULE:")
		default:
			return fmt.Errorf("unsupported line %q", line)
		}
	}

	if ruleLine == "" {
		return errors.New("no RRULE")
	}

	if err := checkPositive(ruleLine, "INTERVAL", "COUNT"); err != nil {
		return err
	}

	opt, err := rrule.StrToROptionInLocation(ruleLine, loc)
	if err != nil {
		return err
	}

	switch opt.Freq {
	case rrule.DAILY, rrule.WEEKLY, rrule.MONTHLY, rrule.YEARLY:
	default:
		return fmt.Errorf("unsupported frequency %v", opt.Freq)
	}
	if opt.Count != 0 && !opt.Until.IsZero() {
		return errors.New("COUNT and UNTIL are mutually exclusive")
	}

	opt.Dtstart = time.Time{}
	r.option = *opt

	return r.build()
}

// checkPositive rejects zero or negative values of the given keys. The parsed options can not
// tell an explicit zero from an absent key.
func checkPositive(ruleLine string, keys ...string) error {
	for _, part := range strings.Split(ruleLine, ";") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}

		for _, key := range keys {
			if kv[0] != key {
				continue
			}
			n, err := strconv.Atoi(kv[1])
			if err != nil {
				return fmt.Errorf("invalid %s %q", key, kv[1])
			}
			if n <= 0 {
				return fmt.Errorf("%s must be positive, got %d", strings.ToLower(key), n)
			}
		}
	}

	return nil
}

func (r *Rule) build() error {
	opt := r.option
	opt.Dtstart = r.anchor

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return err
	}

	set := &rrule.Set{}
	set.RRule(rule)
	for _, ex := range r.exdates {
		set.ExDate(ex)
	}
	r.set = set

	return nil
}

// Between returns the occurrence starts within [from, to], both bounds inclusive, in order.
func (r *Rule) Between(from, to time.Time) []time.Time {
	if to.Before(from) {
		return nil
	}

	starts := r.set.Between(from, to, true)

	res := make([]time.Time, 0, len(starts))
	for _, s := range starts {
		if len(res) != 0 && res[len(res)-1].Equal(s) {
			continue
		}
		res = append(res, s)
	}

	return res
}

// Includes reports whether an occurrence starts exactly at ts.
func (r *Rule) Includes(ts time.Time) bool {
	return len(r.Between(ts, ts)) != 0
}

// String serialises the rule as RRULE and EXDATE lines without DTSTART.
func (r *Rule) String() string {
	var b strings.Builder
	b.WriteString("RRULE:")
	b.WriteString(r.option.RRuleString())

	if len(r.exdates) != 0 {
		parts := make([]string, len(r.exdates))
		for i, ex := range r.exdates {
			parts[i] = ex.UTC().Format(utcLayout)
		}
		b.WriteString("\nEXDATE:")
		b.WriteString(strings.Join(parts, ","))
	}

	return b.String()
}

// Evaluate returns the starts of ruleText anchored at anchor within [from, to].
func Evaluate(ruleText string, anchor, from, to time.Time) ([]time.Time, error) {
	r, err := Parse(ruleText, anchor)
	if err != nil {
		return nil, err
	}

	return r.Between(from, to), nil
}

const (
	utcLayout   = "20060102T150405Z"
	localLayout = "20060102T150405"
	dateLayout  = "20060102"
)

func parseDateList(line string, loc *time.Location) ([]time.Time, error) {
	i := strings.Index(line, ":")
	if i < 0 {
		return nil, fmt.Errorf("malformed line %q", line)
	}
	params, value := line[:i], line[i+1:]

	for _, p := range strings.Split(params, ";")[1:] {
		kv := strings.SplitN(p, "=", 2)
		if len(kv) == 2 && strings.EqualFold(kv[0], "TZID") {
			tz, err := time.LoadLocation(kv[1])
			if err != nil {
				return nil, fmt.Errorf("unknown TZID %q: %w", kv[1], err)
			}
			loc = tz
		}
	}

	var res []time.Time
	for _, v := range strings.Split(value, ",") {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		t, err := parseTime(v, loc)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}

	return res, nil
}

func parseTime(v string, loc *time.Location) (time.Time, error) {
	switch {
	case strings.HasSuffix(v, "Z"):
		return time.Parse(utcLayout, v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation(localLayout, v, loc)
	default:
		return time.ParseInLocation(dateLayout, v, loc)
	}
}
