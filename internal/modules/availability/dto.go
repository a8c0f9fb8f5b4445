package availability

import (
	"time"

	"studiobook/internal/domain"
)

type CreateRuleRequest struct {
	Kind     string `json:"kind" binding:"required,oneof=recurring dated"`
	Weekdays []int  `json:"weekdays"`
	Date     string `json:"date"`  // YYYY-MM-DD, dated rules only
	Start    string `json:"start" binding:"required"` // HH:MM
	End      string `json:"end" binding:"required"`   // HH:MM
}

// toRule converts the wire form to a domain rule; times parse as minute
// offsets from midnight. Validation proper happens in domain.Validate.
func (req CreateRuleRequest) toRule(studioID int64) (*domain.AvailabilityRule, error) {
	startMin, err := parseMinuteOfDay(req.Start)
	if err != nil {
		return nil, ErrRuleInvalid
	}
	endMin, err := parseMinuteOfDay(req.End)
	if err != nil {
		return nil, ErrRuleInvalid
	}

	rule := &domain.AvailabilityRule{
		StudioID:    studioID,
		Kind:        domain.RuleKind(req.Kind),
		Weekdays:    req.Weekdays,
		StartMinute: startMin,
		EndMinute:   endMin,
	}

	if req.Date != "" {
		d, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, ErrRuleInvalid
		}
		d = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		rule.Date = &d
	}

	return rule, nil
}

func parseMinuteOfDay(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

type ruleResponse struct {
	ID       int64  `json:"id"`
	Kind     string `json:"kind"`
	Weekdays []int  `json:"weekdays,omitempty"`
	Date     string `json:"date,omitempty"`
	Start    string `json:"start"`
	End      string `json:"end"`
}

func toRuleResponse(r domain.AvailabilityRule) ruleResponse {
	resp := ruleResponse{
		ID:       r.ID,
		Kind:     string(r.Kind),
		Weekdays: r.Weekdays,
		Start:    formatMinuteOfDay(r.StartMinute),
		End:      formatMinuteOfDay(r.EndMinute),
	}
	if r.Date != nil {
		resp.Date = r.Date.Format("2006-01-02")
	}
	return resp
}

func formatMinuteOfDay(m int) string {
	return time.Date(0, 1, 1, m/60, m%60, 0, 0, time.UTC).Format("15:04")
}
