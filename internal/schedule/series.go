package schedule

import (
	"fmt"

	"github.com/Sher-V/play-today-admin/internal/models"
)

// SeriesBound bounds a weekly series either by the date of the last
// occurrence (inclusive) or by a session count. Session count is the
// canonical form; an end date is converted via
// endDate = start + 7*(sessions-1) days.
type SeriesBound struct {
	EndDate  models.Date
	Sessions int
}

// BoundByEndDate bounds a series by the last occurrence date.
func BoundByEndDate(d models.Date) SeriesBound {
	return SeriesBound{EndDate: d}
}

// BoundBySessions bounds a series by the number of occurrences.
func BoundBySessions(n int) SeriesBound {
	return SeriesBound{Sessions: n}
}

// Dates returns the candidate occurrence dates in ascending order:
// start, start+7d, ... up to the bound. An end date before the start,
// a non-positive session count or an empty bound is a validation
// failure. ISO dates are compared as strings, so DST shifts in the
// local zone cannot skew the step.
func (b SeriesBound) Dates(start models.Date) ([]models.Date, error) {
	if !start.Valid() {
		return nil, fmt.Errorf("invalid series start date %q", start)
	}

	if b.Sessions > 0 {
		dates := make([]models.Date, 0, b.Sessions)
		d := start
		for i := 0; i < b.Sessions; i++ {
			dates = append(dates, d)
			next, err := d.AddDays(models.SeriesStepDays)
			if err != nil {
				return nil, err
			}
			d = next
		}
		return dates, nil
	}

	if b.EndDate == "" {
		return nil, fmt.Errorf("series bound is empty")
	}
	if !b.EndDate.Valid() {
		return nil, fmt.Errorf("invalid series end date %q", b.EndDate)
	}
	if b.EndDate < start {
		return nil, fmt.Errorf("series end date %s is before start date %s", b.EndDate, start)
	}

	var dates []models.Date
	for d := start; d <= b.EndDate; {
		dates = append(dates, d)
		next, err := d.AddDays(models.SeriesStepDays)
		if err != nil {
			return nil, err
		}
		d = next
	}
	return dates, nil
}

// LastDate resolves the bound to the inclusive end date.
func (b SeriesBound) LastDate(start models.Date) (models.Date, error) {
	dates, err := b.Dates(start)
	if err != nil {
		return "", err
	}
	return dates[len(dates)-1], nil
}

// Outcome classifies a series expansion for the caller.
type Outcome string

const (
	OutcomeNone    Outcome = "none"    // nothing created
	OutcomePartial Outcome = "partial" // created some, skipped some
	OutcomeSuccess Outcome = "success" // created all
)

// SeriesResult summarizes one expansion run.
type SeriesResult struct {
	Created      int
	SkippedDates []models.Date
}

// Outcome returns the three-way classification of the run.
func (r SeriesResult) Outcome() Outcome {
	switch {
	case r.Created == 0:
		return OutcomeNone
	case len(r.SkippedDates) > 0:
		return OutcomePartial
	default:
		return OutcomeSuccess
	}
}

// CreateFunc persists one occurrence on the given date.
type CreateFunc func(date models.Date) error

// ExpandSeries generates the weekly occurrences of template within
// bound, creating each occurrence in ascending date order. A date that
// conflicts with the existing snapshot, or whose create call fails, is
// recorded in SkippedDates and the expansion continues; a single
// failure never aborts the run.
//
// Conflicts are checked against the snapshot passed in, not against
// occurrences created during this run: two occurrences of one new
// series differ in date and cannot collide with each other. The call
// is not idempotent; callers must refresh the snapshot before a retry.
func ExpandSeries(template Slot, bound SeriesBound, existing []models.Booking, create CreateFunc) (SeriesResult, error) {
	dates, err := bound.Dates(template.Date)
	if err != nil {
		return SeriesResult{}, err
	}

	var result SeriesResult
	for _, date := range dates {
		candidate := template
		candidate.Date = date
		if HasConflict(candidate, existing) {
			result.SkippedDates = append(result.SkippedDates, date)
			continue
		}
		if err := create(date); err != nil {
			result.SkippedDates = append(result.SkippedDates, date)
			continue
		}
		result.Created++
	}
	return result, nil
}
