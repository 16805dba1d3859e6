// Package pricing computes rental price by integrating a booking
// interval against the club rate table.
package pricing

import (
	"math"

	"github.com/Sher-V/play-today-admin/internal/models"
)

// PriceFor returns the total price in rubles for [start, end) on the
// given date. Mon-Fri uses the weekday list, Sat-Sun the weekend list.
// Every rate slot with a non-empty overlap contributes
// overlapMinutes/60 * PriceRub; overlapping rate slots are summed, not
// merged, so they intentionally both bill during their overlap.
//
// The result is rounded half-up to a whole ruble. An empty slot list
// for the day class, an interval that misses every slot, or an
// unparsable input yields 0.
func PriceFor(table *models.RateTable, date models.Date, start, end models.ClockTime) int64 {
	slots, err := table.ForDate(date)
	if err != nil || len(slots) == 0 {
		return 0
	}

	startMin, err := start.Minutes()
	if err != nil {
		return 0
	}
	endMin, err := end.Minutes()
	if err != nil {
		return 0
	}

	var total float64
	for _, slot := range slots {
		slotStart, err := slot.StartTime.Minutes()
		if err != nil {
			continue
		}
		slotEnd, err := slot.EndTime.Minutes()
		if err != nil {
			continue
		}
		overlap := min(endMin, slotEnd) - max(startMin, slotStart)
		if overlap > 0 {
			total += float64(overlap) / 60 * float64(slot.PriceRub)
		}
	}

	return int64(math.Round(total))
}
