package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"studiobook/internal/domain"
)

func TestEquipmentSessionRate_Tiers(t *testing.T) {
	// day-rate 2000: half-day 1000, full-day 2000, extended 3000
	assert.Equal(t, 1000.0, EquipmentSessionRate(2000, 2))
	assert.Equal(t, 1000.0, EquipmentSessionRate(2000, 4))
	assert.Equal(t, 2000.0, EquipmentSessionRate(2000, 5))
	assert.Equal(t, 2000.0, EquipmentSessionRate(2000, 8))
	assert.Equal(t, 3000.0, EquipmentSessionRate(2000, 9))
}

func TestEquipmentSessionRate_RoundsHalfAndExtended(t *testing.T) {
	assert.Equal(t, 38.0, EquipmentSessionRate(75, 3))   // 37.5 rounds up
	assert.Equal(t, 113.0, EquipmentSessionRate(75, 10)) // 112.5 rounds up
}

func TestPrice_ServicePerSlot(t *testing.T) {
	services := []domain.ServiceSnapshot{
		{ServiceID: 1, Name: "Photo", Price: 8000},
		{ServiceID: 2, Name: "Video", Price: 12000},
	}

	q := Price(3, services, nil)

	assert.Equal(t, 60000.0, q.ServiceTotal)
	assert.Equal(t, 0.0, q.EquipmentTotal)
	assert.Equal(t, 60000.0, q.Total)
	assert.Empty(t, q.Equipment)
}

func TestPrice_EquipmentSnapshotsCarrySessionPrice(t *testing.T) {
	equipment := []domain.EquipmentItem{
		{ID: 7, Name: "Godox SK400II", DayRate: 4000},
		{ID: 8, Name: "Canon EOS R6", DayRate: 10000},
	}

	q := Price(6, nil, equipment)

	assert.Equal(t, 14000.0, q.EquipmentTotal)
	assert.Len(t, q.Equipment, 2)
	assert.Equal(t, int64(7), q.Equipment[0].EquipmentID)
	assert.Equal(t, 4000.0, q.Equipment[0].DayRate)
	assert.Equal(t, 4000.0, q.Equipment[0].SessionPrice)
	assert.Equal(t, 10000.0, q.Equipment[1].SessionPrice)
}

func TestPrice_GapsNotCharged(t *testing.T) {
	services := []domain.ServiceSnapshot{{ServiceID: 1, Price: 5000}}

	// 3 selected hours, whatever the span: the count is all that matters
	q := Price(3, services, nil)

	assert.Equal(t, 15000.0, q.Total)
}

func TestPrice_Pure(t *testing.T) {
	services := []domain.ServiceSnapshot{{ServiceID: 1, Price: 7500.50}}
	equipment := []domain.EquipmentItem{{ID: 1, DayRate: 3333}}

	a := Price(4, services, equipment)
	b := Price(4, services, equipment)

	assert.Equal(t, a, b)
}

func TestPrice_ZeroSlots(t *testing.T) {
	q := Price(0, []domain.ServiceSnapshot{{Price: 9000}}, nil)
	assert.Equal(t, 0.0, q.Total)
}
