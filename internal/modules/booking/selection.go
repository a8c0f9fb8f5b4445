package booking

import (
	"sort"

	"studiobook/internal/modules/schedule"
)

// Selection accumulates the hours a customer has picked for one studio+date.
// It is a set, not a range: non-contiguous hours are fine, the booking span
// covers earliest..latest+1 but pricing charges selected hours only.
type Selection struct {
	hours    map[int]struct{}
	maxSlots int
}

func NewSelection(maxSlots int) *Selection {
	return &Selection{
		hours:    make(map[int]struct{}),
		maxSlots: maxSlots,
	}
}

// SelectionFromHours builds a selection from an already-chosen hour list, as
// submitted by the client. Duplicates collapse; the cap still applies.
func SelectionFromHours(hours []int, maxSlots int) (*Selection, error) {
	s := NewSelection(maxSlots)
	for _, h := range hours {
		if _, ok := s.hours[h]; ok {
			continue
		}
		if _, err := s.Toggle(h); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Toggle adds the hour if absent, removes it if present. Adding past the cap
// fails with ErrMaxDurationExceeded and leaves the selection untouched.
// Returns whether the hour is selected after the call.
func (s *Selection) Toggle(hour int) (bool, error) {
	if hour < 0 || hour > 23 {
		return false, ErrSelectionInvalid
	}

	if _, ok := s.hours[hour]; ok {
		delete(s.hours, hour)
		return false, nil
	}

	if len(s.hours)+1 > s.maxSlots {
		return false, ErrMaxDurationExceeded
	}
	s.hours[hour] = struct{}{}
	return true, nil
}

func (s *Selection) Count() int { return len(s.hours) }

// Hours returns the selected hours in ascending order.
func (s *Selection) Hours() []int {
	out := make([]int, 0, len(s.hours))
	for h := range s.hours {
		out = append(out, h)
	}
	sort.Ints(out)
	return out
}

// Span returns the storage span of the selection: earliest selected hour and
// latest selected hour + 1. ok is false for an empty selection.
func (s *Selection) Span() (startHour, endHour int, ok bool) {
	if len(s.hours) == 0 {
		return 0, 0, false
	}
	hours := s.Hours()
	return hours[0], hours[len(hours)-1] + 1, true
}

// Revalidate drops every selected hour that no longer classifies as
// available and returns the dropped hours so the customer can be told.
// Called right before submission: another customer may have reserved an hour
// since it was picked.
func (s *Selection) Revalidate(slots []schedule.Slot) []int {
	byHour := make(map[int]schedule.SlotStatus, len(slots))
	for _, sl := range slots {
		byHour[sl.Hour] = sl.Status
	}

	var dropped []int
	for h := range s.hours {
		if byHour[h] != schedule.SlotAvailable {
			delete(s.hours, h)
			dropped = append(dropped, h)
		}
	}
	sort.Ints(dropped)
	return dropped
}
