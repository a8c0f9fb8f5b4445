package availability

import "errors"

var (
	ErrRuleInvalid = errors.New("invalid availability rule")
	ErrNotFound    = errors.New("rule not found")
	ErrForbidden   = errors.New("rule belongs to another studio")
)
