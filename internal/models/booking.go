package models

import (
	"fmt"
	"time"
)

type Booking struct {
	ID         int64        `json:"id"`
	CourtID    int64        `json:"court_id"`
	CourtName  string       `json:"court_name"`
	Date       Date         `json:"date"`
	StartTime  ClockTime    `json:"start_time"`
	EndTime    ClockTime    `json:"end_time"` // exclusive
	Activity   ActivityKind `json:"activity"`
	Comment    string       `json:"comment"`
	Coach      string       `json:"coach,omitempty"`
	ClientID   int64        `json:"client_id,omitempty"`
	ClientName string       `json:"client_name,omitempty"`
	Status     string       `json:"status"`
	// SeriesID groups occurrences created by one recurring expansion.
	// Rows written before series ids existed have it empty and are
	// grouped by the structural key instead.
	SeriesID         string    `json:"series_id,omitempty"`
	RecurringEndDate Date      `json:"recurring_end_date,omitempty"` // date of the last occurrence, inclusive
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// IsCanceled reports whether the booking is in the terminal canceled
// state. Canceled bookings never participate in conflict detection.
func (b *Booking) IsCanceled() bool {
	return b.Status == StatusCanceled
}

// IsRecurring reports whether the booking belongs to a weekly series.
func (b *Booking) IsRecurring() bool {
	return b.Activity.Recurring() && b.RecurringEndDate != ""
}

// SeriesKey is the structural series identity: court plus time of day.
func (b *Booking) SeriesKey() string {
	return fmt.Sprintf("%d|%s|%s", b.CourtID, b.StartTime, b.EndTime)
}

// SameSeries reports whether two bookings belong to one series.
// Explicit series ids win when both are present.
func (b *Booking) SameSeries(other *Booking) bool {
	if b.SeriesID != "" && other.SeriesID != "" {
		return b.SeriesID == other.SeriesID
	}
	return b.SeriesKey() == other.SeriesKey()
}

// Color returns the calendar display color derived from the activity.
func (b *Booking) Color() string {
	return b.Activity.Color()
}
