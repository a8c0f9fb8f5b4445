package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"studiobook/internal/modules/schedule"
)

func TestToggle_AddAndRemove(t *testing.T) {
	s := NewSelection(5)

	on, err := s.Toggle(10)
	assert.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, 1, s.Count())

	on, err = s.Toggle(10)
	assert.NoError(t, err)
	assert.False(t, on)
	assert.Equal(t, 0, s.Count())
}

func TestToggle_CapAllowsFifthRejectsSixth(t *testing.T) {
	s := NewSelection(5)
	for _, h := range []int{9, 10, 11, 12} {
		_, err := s.Toggle(h)
		assert.NoError(t, err)
	}

	on, err := s.Toggle(13)
	assert.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, 5, s.Count())

	_, err = s.Toggle(14)
	assert.ErrorIs(t, err, ErrMaxDurationExceeded)
	assert.Equal(t, 5, s.Count())
	assert.Equal(t, []int{9, 10, 11, 12, 13}, s.Hours())

	// deselecting at the cap frees room again
	_, err = s.Toggle(9)
	assert.NoError(t, err)
	on, err = s.Toggle(14)
	assert.NoError(t, err)
	assert.True(t, on)
}

func TestToggle_RejectsOutOfRangeHour(t *testing.T) {
	s := NewSelection(5)

	_, err := s.Toggle(-1)
	assert.ErrorIs(t, err, ErrSelectionInvalid)
	_, err = s.Toggle(24)
	assert.ErrorIs(t, err, ErrSelectionInvalid)
}

func TestSelectionFromHours_CollapsesDuplicates(t *testing.T) {
	s, err := SelectionFromHours([]int{10, 11, 10, 11}, 5)

	assert.NoError(t, err)
	assert.Equal(t, []int{10, 11}, s.Hours())
}

func TestSelectionFromHours_OverCap(t *testing.T) {
	_, err := SelectionFromHours([]int{9, 10, 11, 12, 13, 14}, 5)
	assert.ErrorIs(t, err, ErrMaxDurationExceeded)
}

func TestSpan_NonContiguousSelection(t *testing.T) {
	s, err := SelectionFromHours([]int{14, 10, 12}, 5)
	assert.NoError(t, err)

	start, end, ok := s.Span()
	assert.True(t, ok)
	assert.Equal(t, 10, start)
	assert.Equal(t, 15, end)
}

func TestSpan_EmptySelection(t *testing.T) {
	_, _, ok := NewSelection(5).Span()
	assert.False(t, ok)
}

func TestRevalidate_DropsNewlyBlockedHours(t *testing.T) {
	s, err := SelectionFromHours([]int{10, 11, 12}, 5)
	assert.NoError(t, err)

	day := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	slots := make([]schedule.Slot, 0, 24)
	for h := 0; h <= 23; h++ {
		st := schedule.SlotAvailable
		if h == 11 {
			st = schedule.SlotBooked
		}
		slots = append(slots, schedule.Slot{Hour: h, Start: schedule.SlotStart(day, h), Status: st})
	}

	dropped := s.Revalidate(slots)

	assert.Equal(t, []int{11}, dropped)
	assert.Equal(t, []int{10, 12}, s.Hours())
}

func TestRevalidate_NoChanges(t *testing.T) {
	s, err := SelectionFromHours([]int{10, 11}, 5)
	assert.NoError(t, err)

	slots := []schedule.Slot{
		{Hour: 10, Status: schedule.SlotAvailable},
		{Hour: 11, Status: schedule.SlotAvailable},
	}

	assert.Empty(t, s.Revalidate(slots))
	assert.Equal(t, []int{10, 11}, s.Hours())
}
