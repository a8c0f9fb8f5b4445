package booking

import (
	"math"

	"studiobook/internal/domain"
)

// Quote is the priced breakdown of a selection. Price is a pure function of
// its inputs: identical arguments always produce identical totals.
type Quote struct {
	ServiceTotal   float64                    `json:"service_total"`
	EquipmentTotal float64                    `json:"equipment_total"`
	Total          float64                    `json:"total"`
	Equipment      []domain.EquipmentSnapshot `json:"equipment"`
}

// Price computes the total for slotCount selected hours. A service's quoted
// price is per selected slot, not a one-time fee; equipment uses the
// session-tier step function of the selected duration. Gaps in a
// non-contiguous selection are not charged, only slotCount matters.
func Price(slotCount int, services []domain.ServiceSnapshot, equipment []domain.EquipmentItem) Quote {
	var q Quote

	for _, s := range services {
		q.ServiceTotal += s.Price * float64(slotCount)
	}
	q.ServiceTotal = roundMoney(q.ServiceTotal)

	q.Equipment = make([]domain.EquipmentSnapshot, 0, len(equipment))
	for _, e := range equipment {
		sessionPrice := EquipmentSessionRate(e.DayRate, slotCount)
		q.EquipmentTotal += sessionPrice
		q.Equipment = append(q.Equipment, domain.EquipmentSnapshot{
			EquipmentID:  e.ID,
			Name:         e.Name,
			DayRate:      e.DayRate,
			SessionPrice: sessionPrice,
		})
	}
	q.EquipmentTotal = roundMoney(q.EquipmentTotal)

	q.Total = roundMoney(q.ServiceTotal + q.EquipmentTotal)
	return q
}

// EquipmentSessionRate maps an item's day-rate R to a session price by total
// selected duration D in hours:
//
//	D <= 4       half-day   round(R * 0.5)
//	4 < D <= 8   full-day   R
//	D > 8        extended   round(R * 1.5)
//
// A step function with exact breakpoints; 4 and 8 belong to the lower tier.
func EquipmentSessionRate(dayRate float64, hours int) float64 {
	switch {
	case hours <= 4:
		return math.Round(dayRate * 0.5)
	case hours <= 8:
		return dayRate
	default:
		return math.Round(dayRate * 1.5)
	}
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
