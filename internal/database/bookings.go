package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Sher-V/play-today-admin/internal/domain"
	"github.com/Sher-V/play-today-admin/internal/models"
)

const bookingColumns = `id, court_id, court_name, date, start_time, end_time, activity,
	comment, coach, client_id, client_name, status, series_id, recurring_end_date,
	created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*models.Booking, error) {
	b := &models.Booking{}
	err := row.Scan(
		&b.ID, &b.CourtID, &b.CourtName, &b.Date, &b.StartTime, &b.EndTime, &b.Activity,
		&b.Comment, &b.Coach, &b.ClientID, &b.ClientName, &b.Status, &b.SeriesID,
		&b.RecurringEndDate, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	b, err := scanBooking(db.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return b, nil
}

// CreateBooking inserts a booking, resolving the denormalized court
// name. An unknown court is ErrCourtNotFound.
func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	court, err := db.GetCourtByID(ctx, booking.CourtID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrCourtNotFound
		}
		return err
	}
	booking.CourtName = court.Name

	query := `INSERT INTO bookings (
				court_id, court_name, date, start_time, end_time, activity,
				comment, coach, client_id, client_name, status, series_id,
				recurring_end_date, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.db.ExecContext(ctx, query,
		booking.CourtID,
		booking.CourtName,
		booking.Date,
		booking.StartTime,
		booking.EndTime,
		booking.Activity,
		booking.Comment,
		booking.Coach,
		booking.ClientID,
		booking.ClientName,
		booking.Status,
		booking.SeriesID,
		booking.RecurringEndDate,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now
	return nil
}

// UpdateBooking applies the non-nil patch fields to one booking.
func (db *DB) UpdateBooking(ctx context.Context, id int64, patch domain.BookingPatch) error {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now()}

	add := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if patch.CourtID != nil {
		court, err := db.GetCourtByID(ctx, *patch.CourtID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return ErrCourtNotFound
			}
			return err
		}
		add("court_id", court.ID)
		add("court_name", court.Name)
	}
	if patch.Date != nil {
		add("date", *patch.Date)
	}
	if patch.StartTime != nil {
		add("start_time", *patch.StartTime)
	}
	if patch.EndTime != nil {
		add("end_time", *patch.EndTime)
	}
	if patch.Activity != nil {
		add("activity", *patch.Activity)
	}
	if patch.Comment != nil {
		add("comment", *patch.Comment)
	}
	if patch.Coach != nil {
		add("coach", *patch.Coach)
	}
	if patch.ClientID != nil {
		add("client_id", *patch.ClientID)
	}
	if patch.ClientName != nil {
		add("client_name", *patch.ClientName)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.RecurringEndDate != nil {
		add("recurring_end_date", *patch.RecurringEndDate)
	}

	args = append(args, id)
	query := `UPDATE bookings SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	result, err := db.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`
	result, err := db.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) UpdateBookingComment(ctx context.Context, id int64, comment string) error {
	query := `UPDATE bookings SET comment = ?, updated_at = ? WHERE id = ?`
	result, err := db.db.ExecContext(ctx, query, comment, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update booking comment: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBooking removes the row entirely. Cancel is preferred in the
// console; delete exists for operator mistakes only.
func (db *DB) DeleteBooking(ctx context.Context, id int64) error {
	result, err := db.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...any) ([]models.Booking, error) {
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (db *DB) ListBookingsByDate(ctx context.Context, date models.Date) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE date = ? ORDER BY start_time ASC, court_id ASC`
	return db.queryBookings(ctx, query, date)
}

func (db *DB) ListCourtBookingsByDate(ctx context.Context, courtID int64, date models.Date) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE court_id = ? AND date = ? ORDER BY start_time ASC`
	return db.queryBookings(ctx, query, courtID, date)
}

func (db *DB) ListBookingsByDateRange(ctx context.Context, start, end models.Date) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE date >= ? AND date <= ? ORDER BY date ASC, start_time ASC`
	return db.queryBookings(ctx, query, start, end)
}

// ListSeriesMembers returns the non-canceled members of the booking's
// series, the booking itself included. A stamped series id wins;
// legacy rows without one are matched by the structural key
// (court, start, end).
func (db *DB) ListSeriesMembers(ctx context.Context, booking *models.Booking) ([]models.Booking, error) {
	if booking.SeriesID != "" {
		query := `SELECT ` + bookingColumns + ` FROM bookings
			WHERE status != ?
			  AND (series_id = ? OR (series_id = '' AND court_id = ? AND start_time = ? AND end_time = ?))
			ORDER BY date ASC`
		return db.queryBookings(ctx, query,
			models.StatusCanceled, booking.SeriesID, booking.CourtID, booking.StartTime, booking.EndTime)
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE status != ? AND court_id = ? AND start_time = ? AND end_time = ?
		ORDER BY date ASC`
	return db.queryBookings(ctx, query,
		models.StatusCanceled, booking.CourtID, booking.StartTime, booking.EndTime)
}
