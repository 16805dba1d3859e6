package schedule

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sher-V/play-today-admin/internal/models"
)

func TestSeriesBound_Dates(t *testing.T) {
	// 2024-01-01 — понедельник
	start := models.Date("2024-01-01")
	want := []models.Date{"2024-01-01", "2024-01-08", "2024-01-15", "2024-01-22"}

	t.Run("BySessions", func(t *testing.T) {
		dates, err := BoundBySessions(4).Dates(start)
		require.NoError(t, err)
		assert.Equal(t, want, dates)
	})

	t.Run("ByEndDate", func(t *testing.T) {
		dates, err := BoundByEndDate("2024-01-22").Dates(start)
		require.NoError(t, err)
		assert.Equal(t, want, dates)
	})

	t.Run("Interconvertible", func(t *testing.T) {
		last, err := BoundBySessions(4).LastDate(start)
		require.NoError(t, err)
		assert.Equal(t, models.Date("2024-01-22"), last)

		// Дата окончания внутри недели не добавляет неполный шаг
		dates, err := BoundByEndDate("2024-01-25").Dates(start)
		require.NoError(t, err)
		assert.Equal(t, want, dates)
	})

	t.Run("SingleSession", func(t *testing.T) {
		dates, err := BoundByEndDate(start).Dates(start)
		require.NoError(t, err)
		assert.Equal(t, []models.Date{start}, dates)
	})

	t.Run("EndBeforeStart", func(t *testing.T) {
		_, err := BoundByEndDate("2023-12-25").Dates(start)
		assert.Error(t, err)
	})

	t.Run("EmptyBound", func(t *testing.T) {
		_, err := SeriesBound{}.Dates(start)
		assert.Error(t, err)
	})
}

func TestExpandSeries(t *testing.T) {
	template := Slot{CourtID: 1, Date: "2024-01-01", StartTime: "10:00", EndTime: "11:00"}

	t.Run("Success", func(t *testing.T) {
		var created []models.Date
		res, err := ExpandSeries(template, BoundBySessions(4), nil, func(date models.Date) error {
			created = append(created, date)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 4, res.Created)
		assert.Empty(t, res.SkippedDates)
		assert.Equal(t, OutcomeSuccess, res.Outcome())
		assert.Equal(t, []models.Date{"2024-01-01", "2024-01-08", "2024-01-15", "2024-01-22"}, created,
			"occurrences are created in ascending date order")
	})

	t.Run("PartialOnConflict", func(t *testing.T) {
		existing := []models.Booking{
			booked(1, "2024-01-08", "10:00", "11:00", models.StatusConfirmed),
		}
		res, err := ExpandSeries(template, BoundBySessions(4), existing, func(models.Date) error {
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, res.Created)
		assert.Equal(t, []models.Date{"2024-01-08"}, res.SkippedDates)
		assert.Equal(t, OutcomePartial, res.Outcome())
	})

	t.Run("PersistFailureIsSkipNotAbort", func(t *testing.T) {
		boom := errors.New("db down")
		calls := 0
		res, err := ExpandSeries(template, BoundBySessions(3), nil, func(models.Date) error {
			calls++
			if calls == 2 {
				return boom
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls, "expansion continues past a failed create")
		assert.Equal(t, 2, res.Created)
		assert.Equal(t, []models.Date{"2024-01-08"}, res.SkippedDates)
	})

	t.Run("NoneCreated", func(t *testing.T) {
		existing := []models.Booking{
			booked(1, "2024-01-01", "10:00", "11:00", models.StatusConfirmed),
			booked(1, "2024-01-08", "10:00", "11:00", models.StatusConfirmed),
		}
		res, err := ExpandSeries(template, BoundBySessions(2), existing, func(models.Date) error {
			t.Fatal("create must not be called for conflicting dates")
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 0, res.Created)
		assert.Equal(t, OutcomeNone, res.Outcome())
	})

	t.Run("InvalidBound", func(t *testing.T) {
		_, err := ExpandSeries(template, BoundByEndDate("2023-01-01"), nil, func(models.Date) error {
			return nil
		})
		assert.Error(t, err)
	})

	t.Run("CanceledOccurrenceIsRebookable", func(t *testing.T) {
		existing := []models.Booking{
			booked(1, "2024-01-08", "10:00", "11:00", models.StatusCanceled),
		}
		res, err := ExpandSeries(template, BoundBySessions(2), existing, func(models.Date) error {
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 2, res.Created)
		assert.Equal(t, OutcomeSuccess, res.Outcome())
	})
}
