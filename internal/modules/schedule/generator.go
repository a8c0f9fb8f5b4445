package schedule

import (
	"context"
	"time"

	"studiobook/internal/domain"
	"studiobook/internal/modules/availability"
)

type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotBooked    SlotStatus = "booked"
	SlotClosed    SlotStatus = "closed"
	SlotPast      SlotStatus = "past"
)

// Slot is one fixed-length hourly candidate on a studio's day grid.
type Slot struct {
	Hour   int        `json:"hour"`
	Start  time.Time  `json:"start"`
	End    time.Time  `json:"end"`
	Status SlotStatus `json:"status"`
	Reason string     `json:"reason,omitempty"`
}

// Generator classifies hourly candidate slots against resolved coverage and
// the blocking bookings of the day. It is a stateless read computation over
// the store; nothing here mutates.
type Generator struct {
	coverage CoverageSource
	bookings BlockingSource

	now func() time.Time
}

func NewGenerator(coverage CoverageSource, bookings BlockingSource) *Generator {
	return &Generator{coverage: coverage, bookings: bookings, now: time.Now}
}

// WithClock overrides the time source. Every decision in a single call uses
// one "now" so server classification and TTL checks cannot skew apart.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// DaySchedule enumerates all 24 hourly slots of a date, classified.
func (g *Generator) DaySchedule(ctx context.Context, studioID int64, date time.Time) ([]Slot, error) {
	cov, err := g.coverage.CoverageFor(ctx, studioID, date)
	if err != nil {
		return nil, err
	}
	blocking, err := g.bookings.GetBlockingForDay(ctx, studioID, date)
	if err != nil {
		return nil, err
	}

	now := g.now()
	slots := make([]Slot, 0, 24)
	for hour := 0; hour <= 23; hour++ {
		slots = append(slots, classify(date, hour, now, cov, blocking))
	}
	return slots, nil
}

// ClassifySlot classifies a single hour of a date.
func (g *Generator) ClassifySlot(ctx context.Context, studioID int64, date time.Time, hour int) (Slot, error) {
	cov, err := g.coverage.CoverageFor(ctx, studioID, date)
	if err != nil {
		return Slot{}, err
	}
	blocking, err := g.bookings.GetBlockingForDay(ctx, studioID, date)
	if err != nil {
		return Slot{}, err
	}
	return classify(date, hour, g.now(), cov, blocking), nil
}

// classify applies the status priority: past beats booked beats closed beats
// available. A past slot is never shown bookable even if coverage says open,
// and an existing blocking booking wins over closure edits made after the
// fact.
func classify(date time.Time, hour int, now time.Time, cov availability.Coverage, blocking []domain.Booking) Slot {
	start := SlotStart(date, hour)
	end := start.Add(time.Hour)
	s := Slot{Hour: hour, Start: start, End: end}

	if start.Before(now) {
		s.Status = SlotPast
		s.Reason = "slot start is in the past"
		return s
	}

	for i := range blocking {
		if blocking[i].Overlaps(start, end) {
			s.Status = SlotBooked
			s.Reason = "occupied by an existing booking"
			return s
		}
	}

	if !cov.Covers(hour*60, (hour+1)*60) {
		s.Status = SlotClosed
		s.Reason = "outside the studio's declared availability"
		return s
	}

	s.Status = SlotAvailable
	return s
}

// SlotStart returns the UTC instant an hourly slot begins on a date.
func SlotStart(date time.Time, hour int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, time.UTC)
}
