package payment

import "errors"

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrAmountMismatch   = errors.New("amount mismatch")
	ErrNotPayable       = errors.New("booking is not awaiting payment")
	ErrNotConfigured    = errors.New("gateway credentials are not configured")
)
