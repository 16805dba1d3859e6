package schedule

import "github.com/Sher-V/play-today-admin/internal/models"

// GenerateTimeSlots derives the bookable half-hour grid from the club
// opening hours. Slots cover every half-hour boundary in
// [opening, closing); the closing time itself is never a slot start.
// HourMarks is the subset of slots on an hour boundary and is used
// only for calendar row sizing.
//
// Opening at or after closing, or an unparsable bound, yields an empty
// grid.
func GenerateTimeSlots(opening, closing models.ClockTime) (slots, hourMarks []models.ClockTime) {
	openMin, err := opening.Minutes()
	if err != nil {
		return nil, nil
	}
	closeMin, err := closing.Minutes()
	if err != nil {
		return nil, nil
	}

	for m := openMin; m < closeMin; m += models.SlotStepMinutes {
		t := models.ClockFromMinutes(m)
		slots = append(slots, t)
		if m%60 == 0 {
			hourMarks = append(hourMarks, t)
		}
	}
	return slots, hourMarks
}
