package domain

import (
	"errors"
	"time"
)

type RuleKind string

const (
	RuleRecurring RuleKind = "recurring"
	RuleDated     RuleKind = "dated"
)

// Window is a [StartMinute, EndMinute) interval in minutes from midnight.
type Window struct {
	StartMinute int `json:"start_minute"`
	EndMinute   int `json:"end_minute"`
}

// Contains reports whether the window fully covers [startMin, endMin).
func (w Window) Contains(startMin, endMin int) bool {
	return startMin >= w.StartMinute && endMin <= w.EndMinute
}

// AvailabilityRule declares when a studio is open. A recurring rule repeats on
// its weekdays indefinitely; a dated rule applies to a single calendar date.
// Overlapping rules are allowed: a slot is open if any rule covers it.
type AvailabilityRule struct {
	ID          int64      `json:"id"`
	StudioID    int64      `json:"studio_id"`
	Kind        RuleKind   `json:"kind"`
	Weekdays    []int      `json:"weekdays,omitempty"` // time.Weekday values, recurring only
	Date        *time.Time `json:"date,omitempty"`     // dated only
	StartMinute int        `json:"start_minute"`
	EndMinute   int        `json:"end_minute"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

var (
	ErrRuleWindowInvalid   = errors.New("rule window start must be before end")
	ErrRuleWeekdaysMissing = errors.New("recurring rule needs at least one weekday")
	ErrRuleDateMissing     = errors.New("dated rule needs a date")
	ErrRuleKindUnknown     = errors.New("unknown rule kind")
)

// Validate rejects malformed rules at write time. Read paths assume rules in
// the store are well-formed.
func (r *AvailabilityRule) Validate() error {
	if r.StartMinute < 0 || r.EndMinute > 24*60 || r.StartMinute >= r.EndMinute {
		return ErrRuleWindowInvalid
	}
	switch r.Kind {
	case RuleRecurring:
		if len(r.Weekdays) == 0 {
			return ErrRuleWeekdaysMissing
		}
		for _, d := range r.Weekdays {
			if d < 0 || d > 6 {
				return ErrRuleWeekdaysMissing
			}
		}
	case RuleDated:
		if r.Date == nil {
			return ErrRuleDateMissing
		}
	default:
		return ErrRuleKindUnknown
	}
	return nil
}

// AppliesTo reports whether this rule contributes coverage on the given date.
func (r *AvailabilityRule) AppliesTo(date time.Time) bool {
	switch r.Kind {
	case RuleRecurring:
		wd := int(date.Weekday())
		for _, d := range r.Weekdays {
			if d == wd {
				return true
			}
		}
		return false
	case RuleDated:
		return r.Date != nil && sameDay(*r.Date, date)
	}
	return false
}

func (r *AvailabilityRule) Window() Window {
	return Window{StartMinute: r.StartMinute, EndMinute: r.EndMinute}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
