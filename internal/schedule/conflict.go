package schedule

import "github.com/Sher-V/play-today-admin/internal/models"

// Slot is a candidate interval on one court and date. EndTime is
// exclusive: a booking ending at 11:00 does not collide with one
// starting at 11:00.
type Slot struct {
	CourtID   int64
	Date      models.Date
	StartTime models.ClockTime
	EndTime   models.ClockTime
}

// HasConflict reports whether the candidate overlaps any non-canceled
// booking on the same court and date. The same predicate gates single
// bookings and every occurrence of a recurring series.
//
// The existing snapshot is owned by the caller and is never mutated.
func HasConflict(candidate Slot, existing []models.Booking) bool {
	candStart, err := candidate.StartTime.Minutes()
	if err != nil {
		return false
	}
	candEnd, err := candidate.EndTime.Minutes()
	if err != nil {
		return false
	}

	for i := range existing {
		b := &existing[i]
		if b.CourtID != candidate.CourtID || b.Date != candidate.Date || b.IsCanceled() {
			continue
		}
		exStart, err := b.StartTime.Minutes()
		if err != nil {
			continue
		}
		exEnd, err := b.EndTime.Minutes()
		if err != nil {
			continue
		}
		// Half-open overlap: [candStart,candEnd) vs [exStart,exEnd).
		if candStart < exEnd && candEnd > exStart {
			return true
		}
	}
	return false
}
