package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Sher-V/play-today-admin/internal/domain"
	"github.com/Sher-V/play-today-admin/internal/metrics"
	"github.com/Sher-V/play-today-admin/internal/models"
	"github.com/Sher-V/play-today-admin/internal/schedule"
	"github.com/Sher-V/play-today-admin/internal/service"
)

// httpStatus maps service errors to response codes.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrExternal):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *HTTPServer) serviceError(w http.ResponseWriter, err error) {
	writeError(w, httpStatus(err), err.Error())
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid booking id")
	}
	return id, nil
}

type slotsResponse struct {
	Opening   models.ClockTime   `json:"opening"`
	Closing   models.ClockTime   `json:"closing"`
	Slots     []models.ClockTime `json:"slots"`
	HourMarks []models.ClockTime `json:"hour_marks"`
}

func (s *HTTPServer) handleSlots(w http.ResponseWriter, r *http.Request) {
	slots, hourMarks := schedule.GenerateTimeSlots(s.club.OpeningTime, s.club.ClosingTime)
	writeJSON(w, http.StatusOK, slotsResponse{
		Opening:   s.club.OpeningTime,
		Closing:   s.club.ClosingTime,
		Slots:     slots,
		HourMarks: hourMarks,
	})
}

func (s *HTTPServer) handleCalendar(w http.ResponseWriter, r *http.Request) {
	date := models.Date(r.URL.Query().Get("date"))
	if !date.Valid() {
		writeError(w, http.StatusBadRequest, "invalid or missing date")
		return
	}

	var (
		bookings []models.Booking
		err      error
	)
	if courtParam := r.URL.Query().Get("court"); courtParam != "" {
		courtID, convErr := strconv.ParseInt(courtParam, 10, 64)
		if convErr != nil {
			writeError(w, http.StatusBadRequest, "invalid court id")
			return
		}
		bookings, err = s.bookings.DaySchedule(r.Context(), courtID, date)
	} else {
		bookings, err = s.bookings.CalendarDay(r.Context(), date)
	}
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"date": date, "bookings": bookings})
}

type bookingRequest struct {
	CourtID    int64               `json:"court_id"`
	Date       models.Date         `json:"date"`
	StartTime  models.ClockTime    `json:"start_time"`
	EndTime    models.ClockTime    `json:"end_time"`
	Activity   models.ActivityKind `json:"activity"`
	Comment    string              `json:"comment"`
	Coach      string              `json:"coach"`
	ClientID   int64               `json:"client_id"`
	ClientName string              `json:"client_name"`
	Paid       bool                `json:"paid"`

	// WithPaymentLink mints a hosted checkout link for AmountRub.
	WithPaymentLink bool  `json:"with_payment_link"`
	AmountRub       int64 `json:"amount_rub"`
}

func (r bookingRequest) draft() domain.BookingDraft {
	return domain.BookingDraft{
		CourtID:    r.CourtID,
		Date:       r.Date,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		Activity:   r.Activity,
		Comment:    r.Comment,
		Coach:      r.Coach,
		ClientID:   r.ClientID,
		ClientName: r.ClientName,
		Paid:       r.Paid,
	}
}

type bookingResponse struct {
	Booking      *models.Booking `json:"booking"`
	PaymentURL   string          `json:"payment_url,omitempty"`
	PaymentError string          `json:"payment_error,omitempty"`
}

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !req.WithPaymentLink {
		booking, err := s.bookings.Create(r.Context(), req.draft())
		if err != nil {
			if errors.Is(err, service.ErrConflict) {
				metrics.IncBookingConflict()
			}
			s.serviceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, bookingResponse{Booking: booking})
		return
	}

	booking, link, err := s.bookings.CreateWithPaymentLink(r.Context(), req.draft(), req.AmountRub)
	if err != nil {
		if errors.Is(err, service.ErrConflict) {
			metrics.IncBookingConflict()
		}
		// Бронь уже записана, упала только ссылка на оплату
		if booking != nil && errors.Is(err, service.ErrExternal) {
			metrics.IncPaymentLinkFailure()
			writeJSON(w, http.StatusCreated, bookingResponse{
				Booking:      booking,
				PaymentError: err.Error(),
			})
			return
		}
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, bookingResponse{Booking: booking, PaymentURL: link})
}

type seriesRequest struct {
	bookingRequest
	EndDate  models.Date `json:"end_date"`
	Sessions int         `json:"sessions"`
}

type seriesResponse struct {
	Outcome      schedule.Outcome `json:"outcome"`
	Created      int              `json:"created"`
	SkippedDates []models.Date    `json:"skipped_dates"`
}

func (s *HTTPServer) handleCreateSeries(w http.ResponseWriter, r *http.Request) {
	var req seriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var bound schedule.SeriesBound
	switch {
	case req.Sessions > 0:
		bound = schedule.BoundBySessions(req.Sessions)
	case req.EndDate != "":
		bound = schedule.BoundByEndDate(req.EndDate)
	default:
		writeError(w, http.StatusBadRequest, "either sessions or end_date is required")
		return
	}

	result, err := s.bookings.CreateSeries(r.Context(), req.draft(), bound)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if n := len(result.SkippedDates); n > 0 {
		metrics.AddSeriesSkips(n)
	}

	skipped := result.SkippedDates
	if skipped == nil {
		skipped = []models.Date{}
	}
	writeJSON(w, http.StatusCreated, seriesResponse{
		Outcome:      result.Outcome(),
		Created:      result.Created,
		SkippedDates: skipped,
	})
}

func (s *HTTPServer) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	booking, err := s.bookings.GetBooking(r.Context(), id)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleSeriesMembers(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	members, err := s.bookings.SeriesMembers(r.Context(), id)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if members == nil {
		members = []models.Booking{}
	}
	writeJSON(w, http.StatusOK, members)
}

func (s *HTTPServer) handleCancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.bookings.CancelOne(r.Context(), id); err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": models.StatusCanceled})
}

func (s *HTTPServer) handleCancelSeries(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	canceled, err := s.bookings.CancelSeriesFromHere(r.Context(), id)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"canceled": canceled})
}

type commentRequest struct {
	Comment       string `json:"comment"`
	ApplyToSeries bool   `json:"apply_to_series"`
}

func (s *HTTPServer) handleEditComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.bookings.EditComment(r.Context(), id, req.Comment, req.ApplyToSeries); err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"comment": req.Comment})
}

func (s *HTTPServer) handleConfirm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.bookings.ConfirmPayment(r.Context(), id); err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": models.StatusConfirmed})
}

func (s *HTTPServer) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.bookings.Delete(r.Context(), id); err != nil {
		s.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) handlePrice(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	courtID, err := strconv.ParseInt(q.Get("court"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid court id")
		return
	}

	date := models.Date(q.Get("date"))
	start := models.ClockTime(q.Get("start"))
	end := models.ClockTime(q.Get("end"))

	price, err := s.bookings.PriceQuote(r.Context(), courtID, date, start, end)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"price_rub": price})
}

func (s *HTTPServer) handleCourts(w http.ResponseWriter, r *http.Request) {
	courts, err := s.courts.GetCourts(r.Context())
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if courts == nil {
		courts = []models.Court{}
	}
	writeJSON(w, http.StatusOK, courts)
}

func (s *HTTPServer) handleClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.clients.GetClients(r.Context())
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if clients == nil {
		clients = []models.Client{}
	}
	writeJSON(w, http.StatusOK, clients)
}

type clientRequest struct {
	Name string `json:"name"`
}

func (s *HTTPServer) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	client, err := s.clients.FindOrCreateByName(r.Context(), req.Name)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, client)
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start := models.Date(q.Get("start"))
	if start == "" {
		start = models.DateOf(time.Now())
	}
	end := models.Date(q.Get("end"))
	if end == "" {
		var err error
		end, err = start.AddDays(models.DefaultExportRangeDays - 1)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start date")
			return
		}
	}

	f, err := s.exporter.Generate(r.Context(), start, end)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("schedule_%s_to_%s.xlsx", start, end)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := f.Write(w); err != nil {
		s.logger.Error().Err(err).Msg("failed to stream export")
	}
}
