package domain

import (
	"context"

	"github.com/Sher-V/play-today-admin/internal/models"
	"github.com/Sher-V/play-today-admin/internal/schedule"
)

// BookingPatch carries the mutable booking fields for a partial
// update. Nil fields are left untouched.
type BookingPatch struct {
	CourtID          *int64
	Date             *models.Date
	StartTime        *models.ClockTime
	EndTime          *models.ClockTime
	Activity         *models.ActivityKind
	Comment          *string
	Coach            *string
	ClientID         *int64
	ClientName       *string
	Status           *string
	RecurringEndDate *models.Date
}

// Repository is the persistence collaborator required by the core.
type Repository interface {
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	CreateBooking(ctx context.Context, booking *models.Booking) error
	UpdateBooking(ctx context.Context, id int64, patch BookingPatch) error
	UpdateBookingStatus(ctx context.Context, id int64, status string) error
	UpdateBookingComment(ctx context.Context, id int64, comment string) error
	DeleteBooking(ctx context.Context, id int64) error
	ListBookingsByDate(ctx context.Context, date models.Date) ([]models.Booking, error)
	ListCourtBookingsByDate(ctx context.Context, courtID int64, date models.Date) ([]models.Booking, error)
	ListBookingsByDateRange(ctx context.Context, start, end models.Date) ([]models.Booking, error)
	ListSeriesMembers(ctx context.Context, booking *models.Booking) ([]models.Booking, error)

	GetCourts(ctx context.Context) ([]models.Court, error)
	GetCourtByID(ctx context.Context, id int64) (*models.Court, error)
	GetCourtByName(ctx context.Context, name string) (*models.Court, error)
	CreateCourt(ctx context.Context, court *models.Court) error
	ReorderCourt(ctx context.Context, id int64, newOrder int64) error

	GetClients(ctx context.Context) ([]models.Client, error)
	GetClientByName(ctx context.Context, name string) (*models.Client, error)
	CreateClient(ctx context.Context, client *models.Client) error
	UpdateClient(ctx context.Context, client *models.Client) error
}

// ScheduleCache caches the per-court day view of the calendar.
type ScheduleCache interface {
	GetDay(ctx context.Context, courtID int64, date models.Date) ([]models.Booking, bool, error)
	SetDay(ctx context.Context, courtID int64, date models.Date, bookings []models.Booking) error
	InvalidateDay(ctx context.Context, courtID int64, date models.Date) error
}

// PaymentLinkRequest describes a hosted checkout link to mint.
type PaymentLinkRequest struct {
	AmountRub   int64
	Description string
	ReturnURL   string
}

// PaymentProvider mints hosted payment links.
type PaymentProvider interface {
	CreatePaymentLink(ctx context.Context, req PaymentLinkRequest) (string, error)
}

// EventPublisher delivers domain events to in-process subscribers.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// BookingDraft is the operator form input for a new booking.
type BookingDraft struct {
	CourtID    int64
	Date       models.Date
	StartTime  models.ClockTime
	EndTime    models.ClockTime
	Activity   models.ActivityKind
	Comment    string
	Coach      string
	ClientID   int64
	ClientName string
	Paid       bool
}

// BookingService owns the reservation state machine and the
// series-scoped operations.
type BookingService interface {
	Create(ctx context.Context, draft BookingDraft) (*models.Booking, error)
	CreateWithPaymentLink(ctx context.Context, draft BookingDraft, amountRub int64) (*models.Booking, string, error)
	CreateSeries(ctx context.Context, draft BookingDraft, bound schedule.SeriesBound) (*schedule.SeriesResult, error)
	CancelOne(ctx context.Context, id int64) error
	CancelSeriesFromHere(ctx context.Context, id int64) (int, error)
	EditComment(ctx context.Context, id int64, comment string, applyToWholeSeries bool) error
	ConfirmPayment(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	SeriesMembers(ctx context.Context, id int64) ([]models.Booking, error)
	DaySchedule(ctx context.Context, courtID int64, date models.Date) ([]models.Booking, error)
	CalendarDay(ctx context.Context, date models.Date) ([]models.Booking, error)
	PriceQuote(ctx context.Context, courtID int64, date models.Date, start, end models.ClockTime) (int64, error)
	DailyBookings(ctx context.Context, start, end models.Date) (map[models.Date][]models.Booking, error)
}

// CourtService manages the rentable courts of the club.
type CourtService interface {
	GetCourts(ctx context.Context) ([]models.Court, error)
	GetCourtByID(ctx context.Context, id int64) (*models.Court, error)
	GetCourtByName(ctx context.Context, name string) (*models.Court, error)
	CreateCourt(ctx context.Context, court *models.Court) error
	ReorderCourt(ctx context.Context, id int64, newOrder int64) error
}

// ClientService is the club client directory, consumed for display
// and linking only.
type ClientService interface {
	GetClients(ctx context.Context) ([]models.Client, error)
	FindOrCreateByName(ctx context.Context, name string) (*models.Client, error)
	UpdateClient(ctx context.Context, client *models.Client) error
}
