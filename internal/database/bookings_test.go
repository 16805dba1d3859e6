package database

import (
	"context"
	"testing"

	"github.com/Sher-V/play-today-admin/internal/domain"
	"github.com/Sher-V/play-today-admin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedBooking(t *testing.T, db *DB, courtID int64, date models.Date, start, end models.ClockTime) *models.Booking {
	t.Helper()
	b := &models.Booking{
		CourtID:   courtID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Activity:  models.ActivityOneTime,
		Status:    models.StatusHold,
	}
	require.NoError(t, db.CreateBooking(context.Background(), b))
	return b
}

func TestCreateAndGetBooking(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	court := seedCourt(t, db, "Корт 1")

	b := seedBooking(t, db, court.ID, "2026-09-01", "10:00", "11:30")
	assert.Equal(t, "Корт 1", b.CourtName, "court name resolved on insert")
	require.NotZero(t, b.ID)

	got, err := db.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ClockTime("10:00"), got.StartTime)
	assert.Equal(t, models.ClockTime("11:30"), got.EndTime)
	assert.Equal(t, models.StatusHold, got.Status)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestCreateBookingUnknownCourt(t *testing.T) {
	db := setupTestDB(t)
	err := db.CreateBooking(context.Background(), &models.Booking{
		CourtID:   12345,
		Date:      "2026-09-01",
		StartTime: "10:00",
		EndTime:   "11:00",
		Activity:  models.ActivityOneTime,
		Status:    models.StatusHold,
	})
	assert.ErrorIs(t, err, ErrCourtNotFound)
}

func TestUpdateBooking(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	court := seedCourt(t, db, "Корт 1")
	b := seedBooking(t, db, court.ID, "2026-09-01", "10:00", "11:00")

	t.Run("patch comment and status", func(t *testing.T) {
		comment := "клиент просил ракетки"
		status := models.StatusConfirmed
		require.NoError(t, db.UpdateBooking(ctx, b.ID, domain.BookingPatch{
			Comment: &comment,
			Status:  &status,
		}))

		got, err := db.GetBooking(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, comment, got.Comment)
		assert.Equal(t, models.StatusConfirmed, got.Status)
	})

	t.Run("move to another court refreshes name", func(t *testing.T) {
		other := seedCourt(t, db, "Корт 2")
		require.NoError(t, db.UpdateBooking(ctx, b.ID, domain.BookingPatch{CourtID: &other.ID}))

		got, err := db.GetBooking(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, "Корт 2", got.CourtName)
	})

	t.Run("unknown court in patch", func(t *testing.T) {
		bad := int64(99999)
		err := db.UpdateBooking(ctx, b.ID, domain.BookingPatch{CourtID: &bad})
		assert.ErrorIs(t, err, ErrCourtNotFound)
	})

	t.Run("empty patch is a no-op", func(t *testing.T) {
		require.NoError(t, db.UpdateBooking(ctx, b.ID, domain.BookingPatch{}))
	})

	t.Run("missing booking", func(t *testing.T) {
		status := models.StatusCanceled
		err := db.UpdateBooking(ctx, 99999, domain.BookingPatch{Status: &status})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUpdateBookingStatusAndComment(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	court := seedCourt(t, db, "Корт 1")
	b := seedBooking(t, db, court.ID, "2026-09-01", "10:00", "11:00")

	require.NoError(t, db.UpdateBookingStatus(ctx, b.ID, models.StatusCanceled))
	require.NoError(t, db.UpdateBookingComment(ctx, b.ID, "перенос"))

	got, err := db.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCanceled, got.Status)
	assert.Equal(t, "перенос", got.Comment)

	assert.ErrorIs(t, db.UpdateBookingStatus(ctx, 99999, models.StatusHold), ErrNotFound)
	assert.ErrorIs(t, db.UpdateBookingComment(ctx, 99999, "x"), ErrNotFound)
}

func TestDeleteBooking(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	court := seedCourt(t, db, "Корт 1")
	b := seedBooking(t, db, court.ID, "2026-09-01", "10:00", "11:00")

	require.NoError(t, db.DeleteBooking(ctx, b.ID))

	_, err := db.GetBooking(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, db.DeleteBooking(ctx, b.ID), ErrNotFound)
}

func TestListBookingsByDate(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	c1 := seedCourt(t, db, "Корт 1")
	c2 := seedCourt(t, db, "Корт 2")

	seedBooking(t, db, c1.ID, "2026-09-01", "12:00", "13:00")
	seedBooking(t, db, c2.ID, "2026-09-01", "09:00", "10:00")
	seedBooking(t, db, c1.ID, "2026-09-02", "09:00", "10:00")

	day, err := db.ListBookingsByDate(ctx, "2026-09-01")
	require.NoError(t, err)
	require.Len(t, day, 2)
	assert.Equal(t, models.ClockTime("09:00"), day[0].StartTime, "ordered by start time")

	byCourt, err := db.ListCourtBookingsByDate(ctx, c1.ID, "2026-09-01")
	require.NoError(t, err)
	require.Len(t, byCourt, 1)
	assert.Equal(t, c1.ID, byCourt[0].CourtID)

	ranged, err := db.ListBookingsByDateRange(ctx, "2026-09-01", "2026-09-02")
	require.NoError(t, err)
	require.Len(t, ranged, 3)
	assert.Equal(t, models.Date("2026-09-02"), ranged[2].Date, "ordered by date first")
}

func TestListSeriesMembers(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	court := seedCourt(t, db, "Корт 1")

	makeMember := func(date models.Date, seriesID, status string) *models.Booking {
		b := &models.Booking{
			CourtID:          court.ID,
			Date:             date,
			StartTime:        "18:00",
			EndTime:          "19:00",
			Activity:         models.ActivityRegular,
			Status:           status,
			SeriesID:         seriesID,
			RecurringEndDate: "2026-09-22",
		}
		require.NoError(t, db.CreateBooking(ctx, b))
		return b
	}

	first := makeMember("2026-09-01", "series-a", models.StatusConfirmed)
	makeMember("2026-09-08", "series-a", models.StatusConfirmed)
	makeMember("2026-09-15", "series-a", models.StatusCanceled)

	t.Run("by series id excludes canceled", func(t *testing.T) {
		members, err := db.ListSeriesMembers(ctx, first)
		require.NoError(t, err)
		assert.Len(t, members, 2)
	})

	t.Run("legacy rows matched structurally", func(t *testing.T) {
		// Старые записи без series_id находятся по корту и времени.
		legacy := makeMember("2026-09-22", "", models.StatusConfirmed)

		members, err := db.ListSeriesMembers(ctx, first)
		require.NoError(t, err)
		assert.Len(t, members, 3)

		members, err = db.ListSeriesMembers(ctx, legacy)
		require.NoError(t, err)
		assert.Len(t, members, 3, "legacy anchor falls back to the structural key")
	})

	t.Run("different time is a different series", func(t *testing.T) {
		other := &models.Booking{
			CourtID:   court.ID,
			Date:      "2026-09-01",
			StartTime: "20:00",
			EndTime:   "21:00",
			Activity:  models.ActivityRegular,
			Status:    models.StatusConfirmed,
			SeriesID:  "series-b",
		}
		require.NoError(t, db.CreateBooking(ctx, other))

		members, err := db.ListSeriesMembers(ctx, other)
		require.NoError(t, err)
		assert.Len(t, members, 1)
	})
}
