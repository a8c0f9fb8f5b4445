package availability

import (
	"context"
	"time"

	"studiobook/internal/domain"
)

type CoverageMode string

const (
	// ModeDefault applies when a studio has declared no rules at all:
	// open weekdays during the default window, closed on weekends.
	ModeDefault CoverageMode = "default"
	// ModeRules applies when the studio has at least one rule; absence of
	// coverage then means closed, there is no implicit fallback.
	ModeRules CoverageMode = "rules"
)

// Coverage is the resolved set of open windows for one studio on one date.
// The mode is selected once per resolution, so "empty list means X" never
// leaks into downstream conditionals.
type Coverage struct {
	Mode    CoverageMode
	Windows []domain.Window
}

// Covers reports whether at least one window fully contains [startMin, endMin).
// Overlapping windows are permitted and need no merging for this question.
func (c Coverage) Covers(startMin, endMin int) bool {
	for _, w := range c.Windows {
		if w.Contains(startMin, endMin) {
			return true
		}
	}
	return false
}

type Resolver struct {
	rules RuleRepository

	defaultWindow domain.Window
}

func NewResolver(rules RuleRepository, defaultOpenMinute, defaultCloseMinute int) *Resolver {
	return &Resolver{
		rules: rules,
		defaultWindow: domain.Window{
			StartMinute: defaultOpenMinute,
			EndMinute:   defaultCloseMinute,
		},
	}
}

// CoverageFor resolves the declared-open windows of a studio for a date:
// the union of recurring rules matching the weekday and dated rules matching
// the date. A studio with zero rules falls back to the default window on
// weekdays only.
func (r *Resolver) CoverageFor(ctx context.Context, studioID int64, date time.Time) (Coverage, error) {
	rules, err := r.rules.ListByStudio(ctx, studioID)
	if err != nil {
		return Coverage{}, err
	}

	if len(rules) == 0 {
		c := Coverage{Mode: ModeDefault}
		switch date.Weekday() {
		case time.Saturday, time.Sunday:
			// closed
		default:
			c.Windows = []domain.Window{r.defaultWindow}
		}
		return c, nil
	}

	c := Coverage{Mode: ModeRules}
	for i := range rules {
		if rules[i].AppliesTo(date) {
			c.Windows = append(c.Windows, rules[i].Window())
		}
	}
	return c, nil
}
