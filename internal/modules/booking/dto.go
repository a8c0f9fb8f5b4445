package booking

import "time"

type CreateBookingRequest struct {
	StudioID     int64     `json:"studio_id"`
	UserID       int64     `json:"-"` // from the auth context, never the body
	Date         time.Time `json:"-"`
	Slots        []int     `json:"slots"`
	ServiceIDs   []int64   `json:"service_ids"`
	EquipmentIDs []int64   `json:"equipment_ids"`
}

// createBookingBody is the wire form; the date parses separately so the
// service only ever sees a normalized UTC midnight.
type createBookingBody struct {
	StudioID     int64   `json:"studio_id" binding:"required"`
	Date         string  `json:"date" binding:"required"` // YYYY-MM-DD
	Slots        []int   `json:"slots" binding:"required"`
	ServiceIDs   []int64 `json:"service_ids" binding:"required"`
	EquipmentIDs []int64 `json:"equipment_ids"`
}

type ValidateSelectionRequest struct {
	StudioID     int64     `json:"-"`
	Date         time.Time `json:"-"`
	Slots        []int     `json:"slots"`
	ServiceIDs   []int64   `json:"service_ids"`
	EquipmentIDs []int64   `json:"equipment_ids"`
}

type validateSelectionBody struct {
	StudioID     int64   `json:"studio_id" binding:"required"`
	Date         string  `json:"date" binding:"required"`
	Slots        []int   `json:"slots" binding:"required"`
	ServiceIDs   []int64 `json:"service_ids"`
	EquipmentIDs []int64 `json:"equipment_ids"`
}

// SelectionPreview reports the surviving selection after revalidation, the
// hours silently dropped because someone else took them, and a price preview.
type SelectionPreview struct {
	Slots   []int  `json:"slots"`
	Dropped []int  `json:"dropped,omitempty"`
	Quote   *Quote `json:"quote,omitempty"`
}

type cancelBody struct {
	Reason string `json:"reason" binding:"required"`
}

type resolveCancelBody struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason"`
}
