package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sher-V/play-today-admin/internal/database"
	"github.com/Sher-V/play-today-admin/internal/domain"
	"github.com/Sher-V/play-today-admin/internal/events"
	"github.com/Sher-V/play-today-admin/internal/models"
	"github.com/Sher-V/play-today-admin/internal/pricing"
	"github.com/Sher-V/play-today-admin/internal/schedule"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BookingService owns the booking state machine: hold -> confirmed,
// hold|confirmed -> canceled. Canceled is terminal; hard delete exists
// separately for operator mistakes.
type BookingService struct {
	repo        domain.Repository
	cache       domain.ScheduleCache
	payments    domain.PaymentProvider
	eventBus    domain.EventPublisher
	clubPricing *models.RateTable
	logger      *zerolog.Logger
}

func NewBookingService(
	repo domain.Repository,
	cache domain.ScheduleCache,
	payments domain.PaymentProvider,
	eventBus domain.EventPublisher,
	clubPricing *models.RateTable,
	logger *zerolog.Logger,
) *BookingService {
	return &BookingService{
		repo:        repo,
		cache:       cache,
		payments:    payments,
		eventBus:    eventBus,
		clubPricing: clubPricing,
		logger:      logger,
	}
}

func (s *BookingService) validateDraft(draft domain.BookingDraft) error {
	if !draft.Date.Valid() {
		return fmt.Errorf("%w: bad date %q", ErrValidation, draft.Date)
	}
	start, err := draft.StartTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: bad start time %q", ErrValidation, draft.StartTime)
	}
	end, err := draft.EndTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: bad end time %q", ErrValidation, draft.EndTime)
	}
	if start >= end {
		return fmt.Errorf("%w: start time %s is not before end time %s", ErrValidation, draft.StartTime, draft.EndTime)
	}
	if !draft.Activity.Valid() {
		return fmt.Errorf("%w: unknown activity kind %q", ErrValidation, draft.Activity)
	}
	if draft.Comment == "" {
		return fmt.Errorf("%w: comment is required", ErrValidation)
	}
	if draft.Coach != "" && !draft.Activity.AllowsCoach() {
		return fmt.Errorf("%w: activity %q does not take a coach", ErrValidation, draft.Activity)
	}
	return nil
}

func (s *BookingService) draftToBooking(draft domain.BookingDraft) *models.Booking {
	status := models.StatusHold
	if draft.Paid {
		status = models.StatusConfirmed
	}
	return &models.Booking{
		CourtID:    draft.CourtID,
		Date:       draft.Date,
		StartTime:  draft.StartTime,
		EndTime:    draft.EndTime,
		Activity:   draft.Activity,
		Comment:    draft.Comment,
		Coach:      draft.Coach,
		ClientID:   draft.ClientID,
		ClientName: draft.ClientName,
		Status:     status,
	}
}

// mapRepoErr converts storage errors to the service failure classes.
func mapRepoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, database.ErrCourtNotFound):
		return fmt.Errorf("%w: court", ErrNotFound)
	case errors.Is(err, database.ErrNotFound):
		return fmt.Errorf("%w: booking", ErrNotFound)
	default:
		return fmt.Errorf("%w: %v", ErrExternal, err)
	}
}

func (s *BookingService) invalidateDay(ctx context.Context, courtID int64, date models.Date) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateDay(ctx, courtID, date); err != nil {
		s.logger.Warn().Err(err).Int64("court_id", courtID).Str("date", string(date)).
			Msg("failed to invalidate day cache")
	}
}

func (s *BookingService) publish(eventType string, b *models.Booking) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.PublishJSON(eventType, events.PayloadFor(b)); err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Msg("failed to publish event")
	}
}

// Create validates the draft, gates it through the conflict detector
// on a fresh snapshot of the day and persists it.
func (s *BookingService) Create(ctx context.Context, draft domain.BookingDraft) (*models.Booking, error) {
	if err := s.validateDraft(draft); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetCourtByID(ctx, draft.CourtID); err != nil {
		return nil, mapRepoErr(err)
	}

	existing, err := s.repo.ListCourtBookingsByDate(ctx, draft.CourtID, draft.Date)
	if err != nil {
		return nil, mapRepoErr(err)
	}

	candidate := schedule.Slot{
		CourtID:   draft.CourtID,
		Date:      draft.Date,
		StartTime: draft.StartTime,
		EndTime:   draft.EndTime,
	}
	if schedule.HasConflict(candidate, existing) {
		return nil, fmt.Errorf("%w: %s %s-%s", ErrConflict, draft.Date, draft.StartTime, draft.EndTime)
	}

	booking := s.draftToBooking(draft)
	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return nil, mapRepoErr(err)
	}

	s.logger.Info().Int64("booking_id", booking.ID).Int64("court_id", booking.CourtID).
		Str("date", string(booking.Date)).Msg("booking created")

	s.publish(events.EventBookingCreated, booking)
	s.invalidateDay(ctx, booking.CourtID, booking.Date)

	return booking, nil
}

// CreateWithPaymentLink creates the booking and mints a hosted payment
// link for it. A link failure does not roll the booking back: the
// booking is returned alongside the error so the caller can show
// "saved, but the link could not be created".
func (s *BookingService) CreateWithPaymentLink(ctx context.Context, draft domain.BookingDraft, amountRub int64) (*models.Booking, string, error) {
	booking, err := s.Create(ctx, draft)
	if err != nil {
		return nil, "", err
	}

	if s.payments == nil {
		return booking, "", fmt.Errorf("%w: payment provider is not configured", ErrExternal)
	}

	description := fmt.Sprintf("Аренда: %s, %s %s-%s",
		booking.CourtName, booking.Date, booking.StartTime, booking.EndTime)
	if len(description) > models.MaxPaymentDescriptionLen {
		description = description[:models.MaxPaymentDescriptionLen]
	}

	link, err := s.payments.CreatePaymentLink(ctx, domain.PaymentLinkRequest{
		AmountRub:   amountRub,
		Description: description,
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("booking_id", booking.ID).
			Msg("booking saved but payment link failed")
		return booking, "", fmt.Errorf("%w: payment link: %v", ErrExternal, err)
	}

	return booking, link, nil
}

// CreateSeries expands the draft into weekly occurrences. Dates that
// conflict or fail to persist are skipped, never aborting the run; the
// result carries the three-way outcome.
func (s *BookingService) CreateSeries(ctx context.Context, draft domain.BookingDraft, bound schedule.SeriesBound) (*schedule.SeriesResult, error) {
	if err := s.validateDraft(draft); err != nil {
		return nil, err
	}
	if !draft.Activity.Recurring() {
		return nil, fmt.Errorf("%w: activity %q cannot recur", ErrValidation, draft.Activity)
	}

	if _, err := s.repo.GetCourtByID(ctx, draft.CourtID); err != nil {
		return nil, mapRepoErr(err)
	}

	lastDate, err := bound.LastDate(draft.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	existing, err := s.repo.ListBookingsByDateRange(ctx, draft.Date, lastDate)
	if err != nil {
		return nil, mapRepoErr(err)
	}

	seriesID := uuid.NewString()
	template := schedule.Slot{
		CourtID:   draft.CourtID,
		Date:      draft.Date,
		StartTime: draft.StartTime,
		EndTime:   draft.EndTime,
	}

	var createdDates []models.Date
	create := func(date models.Date) error {
		booking := s.draftToBooking(draft)
		booking.Date = date
		booking.SeriesID = seriesID
		booking.RecurringEndDate = lastDate
		if err := s.repo.CreateBooking(ctx, booking); err != nil {
			s.logger.Warn().Err(err).Str("date", string(date)).
				Str("series_id", seriesID).Msg("series occurrence skipped")
			return err
		}
		createdDates = append(createdDates, date)
		s.invalidateDay(ctx, booking.CourtID, date)
		return nil
	}

	result, err := schedule.ExpandSeries(template, bound, existing, create)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	s.logger.Info().Str("series_id", seriesID).Int("created", result.Created).
		Int("skipped", len(result.SkippedDates)).Msg("series expanded")

	if s.eventBus != nil {
		_ = s.eventBus.PublishJSON(events.EventSeriesCreated, events.SeriesEventPayload{
			SeriesID:     seriesID,
			CourtID:      draft.CourtID,
			CreatedDates: createdDates,
			SkippedDates: result.SkippedDates,
		})
	}

	return &result, nil
}

// CancelOne marks the booking canceled. Canceling an already canceled
// booking is a no-op.
func (s *BookingService) CancelOne(ctx context.Context, id int64) error {
	booking, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return mapRepoErr(err)
	}
	if booking.IsCanceled() {
		return nil
	}

	if err := s.repo.UpdateBookingStatus(ctx, id, models.StatusCanceled); err != nil {
		return mapRepoErr(err)
	}

	booking.Status = models.StatusCanceled
	s.publish(events.EventBookingCanceled, booking)
	s.invalidateDay(ctx, booking.CourtID, booking.Date)
	return nil
}

// CancelSeriesFromHere cancels every non-canceled member of the
// booking's series dated on or after the booking itself. Per-member
// failures are logged and skipped; the count of members actually
// canceled is returned.
func (s *BookingService) CancelSeriesFromHere(ctx context.Context, id int64) (int, error) {
	booking, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return 0, mapRepoErr(err)
	}

	members, err := s.repo.ListSeriesMembers(ctx, booking)
	if err != nil {
		return 0, mapRepoErr(err)
	}

	canceled := 0
	for i := range members {
		m := &members[i]
		if m.Date < booking.Date || m.IsCanceled() {
			continue
		}
		if err := s.repo.UpdateBookingStatus(ctx, m.ID, models.StatusCanceled); err != nil {
			s.logger.Warn().Err(err).Int64("booking_id", m.ID).Msg("failed to cancel series member")
			continue
		}
		canceled++
		s.invalidateDay(ctx, m.CourtID, m.Date)
	}

	if s.eventBus != nil {
		_ = s.eventBus.PublishJSON(events.EventSeriesCanceled, events.SeriesEventPayload{
			SeriesID: booking.SeriesID,
			CourtID:  booking.CourtID,
			Affected: canceled,
		})
	}

	return canceled, nil
}

// EditComment updates one booking's comment, or the comment of every
// non-canceled member of its series, past and future.
func (s *BookingService) EditComment(ctx context.Context, id int64, comment string, applyToWholeSeries bool) error {
	booking, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return mapRepoErr(err)
	}

	if !applyToWholeSeries {
		if err := s.repo.UpdateBookingComment(ctx, id, comment); err != nil {
			return mapRepoErr(err)
		}
		booking.Comment = comment
		s.publish(events.EventCommentUpdated, booking)
		return nil
	}

	members, err := s.repo.ListSeriesMembers(ctx, booking)
	if err != nil {
		return mapRepoErr(err)
	}
	for i := range members {
		if err := s.repo.UpdateBookingComment(ctx, members[i].ID, comment); err != nil {
			s.logger.Warn().Err(err).Int64("booking_id", members[i].ID).
				Msg("failed to update series member comment")
		}
	}

	booking.Comment = comment
	s.publish(events.EventCommentUpdated, booking)
	return nil
}

// ConfirmPayment flips a hold booking to confirmed. Confirming an
// already confirmed booking is a no-op; a canceled one cannot be
// confirmed.
func (s *BookingService) ConfirmPayment(ctx context.Context, id int64) error {
	booking, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return mapRepoErr(err)
	}
	if booking.Status == models.StatusConfirmed {
		return nil
	}
	if booking.IsCanceled() {
		return fmt.Errorf("%w: canceled booking cannot be confirmed", ErrValidation)
	}

	if err := s.repo.UpdateBookingStatus(ctx, id, models.StatusConfirmed); err != nil {
		return mapRepoErr(err)
	}

	booking.Status = models.StatusConfirmed
	s.publish(events.EventBookingConfirmed, booking)
	s.invalidateDay(ctx, booking.CourtID, booking.Date)
	return nil
}

// Delete removes the booking row entirely.
func (s *BookingService) Delete(ctx context.Context, id int64) error {
	booking, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return mapRepoErr(err)
	}

	if err := s.repo.DeleteBooking(ctx, id); err != nil {
		return mapRepoErr(err)
	}

	s.invalidateDay(ctx, booking.CourtID, booking.Date)
	return nil
}

func (s *BookingService) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	booking, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return booking, nil
}

// SeriesMembers lists the non-canceled members of the booking's
// series, the booking included.
func (s *BookingService) SeriesMembers(ctx context.Context, id int64) ([]models.Booking, error) {
	booking, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	members, err := s.repo.ListSeriesMembers(ctx, booking)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return members, nil
}

// DaySchedule returns the bookings of one court for one day, served
// from the cache when possible.
func (s *BookingService) DaySchedule(ctx context.Context, courtID int64, date models.Date) ([]models.Booking, error) {
	if s.cache != nil {
		if bookings, ok, err := s.cache.GetDay(ctx, courtID, date); err == nil && ok {
			return bookings, nil
		}
	}

	bookings, err := s.repo.ListCourtBookingsByDate(ctx, courtID, date)
	if err != nil {
		return nil, mapRepoErr(err)
	}

	if s.cache != nil {
		if err := s.cache.SetDay(ctx, courtID, date, bookings); err != nil {
			s.logger.Warn().Err(err).Msg("failed to store day schedule in cache")
		}
	}
	return bookings, nil
}

// CalendarDay returns all bookings of all courts for one day.
func (s *BookingService) CalendarDay(ctx context.Context, date models.Date) ([]models.Booking, error) {
	bookings, err := s.repo.ListBookingsByDate(ctx, date)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return bookings, nil
}

// PriceQuote prices [start, end) on the court's own rate table,
// falling back to the club table when the court has none.
func (s *BookingService) PriceQuote(ctx context.Context, courtID int64, date models.Date, start, end models.ClockTime) (int64, error) {
	startMin, err := start.Minutes()
	if err != nil {
		return 0, fmt.Errorf("%w: bad start time %q", ErrValidation, start)
	}
	endMin, err := end.Minutes()
	if err != nil {
		return 0, fmt.Errorf("%w: bad end time %q", ErrValidation, end)
	}
	if startMin >= endMin {
		return 0, fmt.Errorf("%w: start time %s is not before end time %s", ErrValidation, start, end)
	}
	if !date.Valid() {
		return 0, fmt.Errorf("%w: bad date %q", ErrValidation, date)
	}

	court, err := s.repo.GetCourtByID(ctx, courtID)
	if err != nil {
		return 0, mapRepoErr(err)
	}

	table := s.clubPricing
	if court.Pricing.HasRates() {
		table = court.Pricing
	}

	return pricing.PriceFor(table, date, start, end), nil
}

// DailyBookings groups the bookings of an inclusive date range by day,
// for the export grid.
func (s *BookingService) DailyBookings(ctx context.Context, start, end models.Date) (map[models.Date][]models.Booking, error) {
	bookings, err := s.repo.ListBookingsByDateRange(ctx, start, end)
	if err != nil {
		return nil, mapRepoErr(err)
	}

	byDay := make(map[models.Date][]models.Booking)
	for _, b := range bookings {
		byDay[b.Date] = append(byDay[b.Date], b)
	}
	return byDay, nil
}
