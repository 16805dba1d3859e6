package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/Sher-V/play-today-admin/internal/database"
	"github.com/Sher-V/play-today-admin/internal/domain"
	"github.com/Sher-V/play-today-admin/internal/models"
	"github.com/Sher-V/play-today-admin/internal/schedule"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newBookingService(repo *mockRepo, cache *mockScheduleCache, payments *mockPayments) *BookingService {
	logger := zerolog.New(io.Discard)
	clubPricing := &models.RateTable{
		Weekday: []models.RateSlot{{StartTime: "00:00", EndTime: "24:00", PriceRub: 2000}},
		Weekend: []models.RateSlot{{StartTime: "00:00", EndTime: "24:00", PriceRub: 2500}},
	}
	var c domain.ScheduleCache
	if cache != nil {
		c = cache
	}
	var p domain.PaymentProvider
	if payments != nil {
		p = payments
	}
	return NewBookingService(repo, c, p, nil, clubPricing, &logger)
}

func validDraft() domain.BookingDraft {
	return domain.BookingDraft{
		CourtID:    1,
		Date:       "2026-09-02",
		StartTime:  "10:00",
		EndTime:    "11:30",
		Activity:   models.ActivityOneTime,
		Comment:    "Иван, разовая",
		ClientName: "Иван",
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	court := &models.Court{ID: 1, Name: "Корт 1"}

	t.Run("success", func(t *testing.T) {
		repo := new(mockRepo)
		cache := new(mockScheduleCache)
		svc := newBookingService(repo, cache, nil)

		repo.On("GetCourtByID", ctx, int64(1)).Return(court, nil)
		repo.On("ListCourtBookingsByDate", ctx, int64(1), models.Date("2026-09-02")).
			Return([]models.Booking{}, nil)
		repo.On("CreateBooking", ctx, mock.AnythingOfType("*models.Booking")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*models.Booking).ID = 7
			}).Return(nil)
		cache.On("InvalidateDay", ctx, int64(1), models.Date("2026-09-02")).Return(nil)

		b, err := svc.Create(ctx, validDraft())
		require.NoError(t, err)
		assert.Equal(t, int64(7), b.ID)
		assert.Equal(t, models.StatusHold, b.Status)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("paid draft is confirmed", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo, nil, nil)

		draft := validDraft()
		draft.Paid = true

		repo.On("GetCourtByID", ctx, int64(1)).Return(court, nil)
		repo.On("ListCourtBookingsByDate", ctx, int64(1), draft.Date).Return([]models.Booking{}, nil)
		repo.On("CreateBooking", ctx, mock.AnythingOfType("*models.Booking")).Return(nil)

		b, err := svc.Create(ctx, draft)
		require.NoError(t, err)
		assert.Equal(t, models.StatusConfirmed, b.Status)
	})

	t.Run("overlap is a conflict", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo, nil, nil)

		repo.On("GetCourtByID", ctx, int64(1)).Return(court, nil)
		repo.On("ListCourtBookingsByDate", ctx, int64(1), models.Date("2026-09-02")).
			Return([]models.Booking{
				{ID: 2, CourtID: 1, Date: "2026-09-02", StartTime: "11:00", EndTime: "12:00", Status: models.StatusConfirmed},
			}, nil)

		_, err := svc.Create(ctx, validDraft())
		assert.ErrorIs(t, err, ErrConflict)
		repo.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
	})

	t.Run("touching booking is not a conflict", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo, nil, nil)

		repo.On("GetCourtByID", ctx, int64(1)).Return(court, nil)
		repo.On("ListCourtBookingsByDate", ctx, int64(1), models.Date("2026-09-02")).
			Return([]models.Booking{
				{ID: 2, CourtID: 1, Date: "2026-09-02", StartTime: "11:30", EndTime: "12:30", Status: models.StatusConfirmed},
			}, nil)
		repo.On("CreateBooking", ctx, mock.AnythingOfType("*models.Booking")).Return(nil)

		_, err := svc.Create(ctx, validDraft())
		assert.NoError(t, err)
	})

	t.Run("canceled booking does not block", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo, nil, nil)

		repo.On("GetCourtByID", ctx, int64(1)).Return(court, nil)
		repo.On("ListCourtBookingsByDate", ctx, int64(1), models.Date("2026-09-02")).
			Return([]models.Booking{
				{ID: 2, CourtID: 1, Date: "2026-09-02", StartTime: "10:00", EndTime: "11:30", Status: models.StatusCanceled},
			}, nil)
		repo.On("CreateBooking", ctx, mock.AnythingOfType("*models.Booking")).Return(nil)

		_, err := svc.Create(ctx, validDraft())
		assert.NoError(t, err)
	})

	t.Run("validation failures", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo, nil, nil)

		for name, mutate := range map[string]func(*domain.BookingDraft){
			"start after end":     func(d *domain.BookingDraft) { d.StartTime, d.EndTime = "12:00", "10:00" },
			"equal times":         func(d *domain.BookingDraft) { d.EndTime = d.StartTime },
			"bad date":            func(d *domain.BookingDraft) { d.Date = "не дата" },
			"bad clock":           func(d *domain.BookingDraft) { d.StartTime = "25:99" },
			"unknown activity":    func(d *domain.BookingDraft) { d.Activity = "yoga" },
			"empty comment":       func(d *domain.BookingDraft) { d.Comment = "" },
			"coach on one-time":   func(d *domain.BookingDraft) { d.Coach = "Сергей" },
		} {
			t.Run(name, func(t *testing.T) {
				draft := validDraft()
				mutate(&draft)
				_, err := svc.Create(ctx, draft)
				assert.ErrorIs(t, err, ErrValidation)
			})
		}
		repo.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
	})

	t.Run("unknown court", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo, nil, nil)

		repo.On("GetCourtByID", ctx, int64(1)).Return(nil, database.ErrNotFound)

		_, err := svc.Create(ctx, validDraft())
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestCreateWithPaymentLink(t *testing.T) {
	ctx := context.Background()
	court := &models.Court{ID: 1, Name: "Корт 1"}

	setup := func(payments *mockPayments) (*mockRepo, *BookingService) {
		repo := new(mockRepo)
		repo.On("GetCourtByID", ctx, int64(1)).Return(court, nil)
		repo.On("ListCourtBookingsByDate", ctx, int64(1), models.Date("2026-09-02")).
			Return([]models.Booking{}, nil)
		repo.On("CreateBooking", ctx, mock.AnythingOfType("*models.Booking")).
			Run(func(args mock.Arguments) {
				b := args.Get(1).(*models.Booking)
				b.ID = 9
				b.CourtName = court.Name
			}).Return(nil)
		return repo, newBookingService(repo, nil, payments)
	}

	t.Run("success", func(t *testing.T) {
		payments := new(mockPayments)
		_, svc := setup(payments)

		payments.On("CreatePaymentLink", ctx, mock.AnythingOfType("domain.PaymentLinkRequest")).
			Return("https://yookassa.ru/checkout/abc", nil)

		b, link, err := svc.CreateWithPaymentLink(ctx, validDraft(), 3000)
		require.NoError(t, err)
		assert.Equal(t, int64(9), b.ID)
		assert.Equal(t, "https://yookassa.ru/checkout/abc", link)

		req := payments.Calls[0].Arguments.Get(1).(domain.PaymentLinkRequest)
		assert.Equal(t, int64(3000), req.AmountRub)
		assert.Contains(t, req.Description, "Корт 1")
	})

	t.Run("link failure keeps the booking", func(t *testing.T) {
		payments := new(mockPayments)
		_, svc := setup(payments)

		payments.On("CreatePaymentLink", ctx, mock.Anything).Return("", errors.New("timeout"))

		b, link, err := svc.CreateWithPaymentLink(ctx, validDraft(), 3000)
		assert.ErrorIs(t, err, ErrExternal)
		require.NotNil(t, b, "booking must survive the link failure")
		assert.Equal(t, int64(9), b.ID)
		assert.Empty(t, link)
	})

	t.Run("create failure returns no booking", func(t *testing.T) {
		payments := new(mockPayments)
		repo := new(mockRepo)
		svc := newBookingService(repo, nil, payments)

		draft := validDraft()
		draft.Comment = ""

		b, _, err := svc.CreateWithPaymentLink(ctx, draft, 3000)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Nil(t, b)
		payments.AssertNotCalled(t, "CreatePaymentLink", mock.Anything, mock.Anything)
	})
}

func TestCreateSeries(t *testing.T) {
	ctx := context.Background()
	court := &models.Court{ID: 1, Name: "Корт 1"}

	recurringDraft := func() domain.BookingDraft {
		draft := validDraft()
		draft.Activity = models.ActivityRegular
		draft.StartTime = "18:00"
		draft.EndTime = "19:00"
		return draft
	}

	t.Run("all occurrences created and stamped", func(t *testing.T) {
		repo := new(mockRepo)
		cache := new(mockScheduleCache)
		svc := newBookingService(repo, cache, nil)

		repo.On("GetCourtByID", ctx, int64(1)).Return(court, nil)
		repo.On("ListBookingsByDateRange", ctx, models.Date("2026-09-02"), models.Date("2026-09-23")).
			Return([]models.Booking{}, nil)

		var created []*models.Booking
		repo.On("CreateBooking", ctx, mock.AnythingOfType("*models.Booking")).
			Run(func(args mock.Arguments) {
				created = append(created, args.Get(1).(*models.Booking))
			}).Return(nil)
		cache.On("InvalidateDay", ctx, int64(1), mock.AnythingOfType("models.Date")).Return(nil)

		result, err := svc.CreateSeries(ctx, recurringDraft(), schedule.BoundBySessions(4))
		require.NoError(t, err)
		assert.Equal(t, 4, result.Created)
		assert.Empty(t, result.SkippedDates)
		assert.Equal(t, schedule.OutcomeSuccess, result.Outcome())

		require.Len(t, created, 4)
		seriesID := created[0].SeriesID
		assert.NotEmpty(t, seriesID)
		for i, b := range created {
			assert.Equal(t, seriesID, b.SeriesID, "occurrence %d carries the series id", i)
			assert.Equal(t, models.Date("2026-09-23"), b.RecurringEndDate)
		}
		assert.Equal(t, models.Date("2026-09-09"), created[1].Date)
	})

	t.Run("conflicting date is skipped, run continues", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo, nil, nil)

		repo.On("GetCourtByID", ctx, int64(1)).Return(court, nil)
		repo.On("ListBookingsByDateRange", ctx, models.Date("2026-09-02"), models.Date("2026-09-16")).
			Return([]models.Booking{
				{ID: 5, CourtID: 1, Date: "2026-09-09", StartTime: "18:30", EndTime: "19:30", Status: models.StatusConfirmed},
			}, nil)
		repo.On("CreateBooking", ctx, mock.AnythingOfType("*models.Booking")).Return(nil)

		result, err := svc.CreateSeries(ctx, recurringDraft(), schedule.BoundBySessions(3))
		require.NoError(t, err)
		assert.Equal(t, 2, result.Created)
		assert.Equal(t, []models.Date{"2026-09-09"}, result.SkippedDates)
		assert.Equal(t, schedule.OutcomePartial, result.Outcome())
	})

	t.Run("persistence failure is a skip", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo, nil, nil)

		repo.On("GetCourtByID", ctx, int64(1)).Return(court, nil)
		repo.On("ListBookingsByDateRange", ctx, mock.Anything, mock.Anything).
			Return([]models.Booking{}, nil)
		repo.On("CreateBooking", ctx, mock.MatchedBy(func(b *models.Booking) bool {
			return b.Date == "2026-09-09"
		})).Return(errors.New("disk full"))
		repo.On("CreateBooking", ctx, mock.AnythingOfType("*models.Booking")).Return(nil)

		result, err := svc.CreateSeries(ctx, recurringDraft(), schedule.BoundBySessions(3))
		require.NoError(t, err)
		assert.Equal(t, 2, result.Created)
		assert.Equal(t, []models.Date{"2026-09-09"}, result.SkippedDates)
	})

	t.Run("non-recurring activity", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo, nil, nil)

		draft := recurringDraft()
		draft.Activity = models.ActivityTournament

		_, err := svc.CreateSeries(ctx, draft, schedule.BoundBySessions(3))
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("bad bound", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo, nil, nil)
		repo.On("GetCourtByID", ctx, int64(1)).Return(court, nil)

		_, err := svc.CreateSeries(ctx, recurringDraft(), schedule.BoundByEndDate("2026-08-01"))
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestCancelOne(t *testing.T) {
	ctx := context.Background()

	t.Run("cancels active booking", func(t *testing.T) {
		repo := new(mockRepo)
		cache := new(mockScheduleCache)
		svc := newBookingService(repo, cache, nil)

		booking := &models.Booking{ID: 1, CourtID: 2, Date: "2026-09-02", Status: models.StatusConfirmed}
		repo.On("GetBooking", ctx, int64(1)).Return(booking, nil)
		repo.On("UpdateBookingStatus", ctx, int64(1), models.StatusCanceled).Return(nil)
		cache.On("InvalidateDay", ctx, int64(2), models.Date("2026-09-02")).Return(nil)

		require.NoError(t, svc.CancelOne(ctx, 1))
		repo.AssertExpectations(t)
	})

	t.Run("already canceled is a no-op", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo, nil, nil)

		booking := &models.Booking{ID: 1, Status: models.StatusCanceled}
		repo.On("GetBooking", ctx, int64(1)).Return(booking, nil)

		require.NoError(t, svc.CancelOne(ctx, 1))
		repo.AssertNotCalled(t, "UpdateBookingStatus", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCancelSeriesFromHere(t *testing.T) {
	ctx := context.Background()

	anchor := &models.Booking{
		ID: 2, CourtID: 1, Date: "2026-09-09", StartTime: "18:00", EndTime: "19:00",
		SeriesID: "series-a", Status: models.StatusConfirmed,
	}
	members := []models.Booking{
		{ID: 1, CourtID: 1, Date: "2026-09-02", SeriesID: "series-a", Status: models.StatusConfirmed},
		*anchor,
		{ID: 3, CourtID: 1, Date: "2026-09-16", SeriesID: "series-a", Status: models.StatusConfirmed},
		{ID: 4, CourtID: 1, Date: "2026-09-23", SeriesID: "series-a", Status: models.StatusConfirmed},
	}

	t.Run("cancels from anchor date onward", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo, nil, nil)

		repo.On("GetBooking", ctx, int64(2)).Return(anchor, nil)
		repo.On("ListSeriesMembers", ctx, anchor).Return(members, nil)
		repo.On("UpdateBookingStatus", ctx, mock.AnythingOfType("int64"), models.StatusCanceled).Return(nil)

		count, err := svc.CancelSeriesFromHere(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, 3, count, "past member stays")
		repo.AssertNotCalled(t, "UpdateBookingStatus", ctx, int64(1), models.StatusCanceled)
	})

	t.Run("per-member failure does not abort", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo, nil, nil)

		repo.On("GetBooking", ctx, int64(2)).Return(anchor, nil)
		repo.On("ListSeriesMembers", ctx, anchor).Return(members, nil)
		repo.On("UpdateBookingStatus", ctx, int64(3), models.StatusCanceled).Return(errors.New("locked"))
		repo.On("UpdateBookingStatus", ctx, mock.AnythingOfType("int64"), models.StatusCanceled).Return(nil)

		count, err := svc.CancelSeriesFromHere(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})
}

func TestEditComment(t *testing.T) {
	ctx := context.Background()
	booking := &models.Booking{ID: 1, CourtID: 1, Date: "2026-09-02", SeriesID: "series-a"}

	t.Run("single booking", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo, nil, nil)

		repo.On("GetBooking", ctx, int64(1)).Return(booking, nil)
		repo.On("UpdateBookingComment", ctx, int64(1), "новый текст").Return(nil)

		require.NoError(t, svc.EditComment(ctx, 1, "новый текст", false))
		repo.AssertNotCalled(t, "ListSeriesMembers", mock.Anything, mock.Anything)
	})

	t.Run("whole series, past members included", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo, nil, nil)

		members := []models.Booking{
			{ID: 1, Date: "2026-08-26", SeriesID: "series-a"},
			{ID: 2, Date: "2026-09-02", SeriesID: "series-a"},
			{ID: 3, Date: "2026-09-09", SeriesID: "series-a"},
		}
		repo.On("GetBooking", ctx, int64(2)).Return(&members[1], nil)
		repo.On("ListSeriesMembers", ctx, &members[1]).Return(members, nil)
		for _, m := range members {
			repo.On("UpdateBookingComment", ctx, m.ID, "тренер заболел").Return(nil).Once()
		}

		require.NoError(t, svc.EditComment(ctx, 2, "тренер заболел", true))
		repo.AssertExpectations(t)
	})
}

func TestConfirmPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("hold becomes confirmed", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo, nil, nil)

		booking := &models.Booking{ID: 1, CourtID: 1, Date: "2026-09-02", Status: models.StatusHold}
		repo.On("GetBooking", ctx, int64(1)).Return(booking, nil)
		repo.On("UpdateBookingStatus", ctx, int64(1), models.StatusConfirmed).Return(nil)

		require.NoError(t, svc.ConfirmPayment(ctx, 1))
	})

	t.Run("already confirmed is a no-op", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo, nil, nil)

		booking := &models.Booking{ID: 1, Status: models.StatusConfirmed}
		repo.On("GetBooking", ctx, int64(1)).Return(booking, nil)

		require.NoError(t, svc.ConfirmPayment(ctx, 1))
		repo.AssertNotCalled(t, "UpdateBookingStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("canceled cannot be confirmed", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo, nil, nil)

		booking := &models.Booking{ID: 1, Status: models.StatusCanceled}
		repo.On("GetBooking", ctx, int64(1)).Return(booking, nil)

		assert.ErrorIs(t, svc.ConfirmPayment(ctx, 1), ErrValidation)
	})
}

func TestDaySchedule(t *testing.T) {
	ctx := context.Background()
	date := models.Date("2026-09-02")
	day := []models.Booking{{ID: 1, CourtID: 1, Date: date}}

	t.Run("cache hit skips the repo", func(t *testing.T) {
		repo := new(mockRepo)
		cache := new(mockScheduleCache)
		svc := newBookingService(repo, cache, nil)

		cache.On("GetDay", ctx, int64(1), date).Return(day, true, nil)

		got, err := svc.DaySchedule(ctx, 1, date)
		require.NoError(t, err)
		assert.Equal(t, day, got)
		repo.AssertNotCalled(t, "ListCourtBookingsByDate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("miss reads the repo and fills the cache", func(t *testing.T) {
		repo := new(mockRepo)
		cache := new(mockScheduleCache)
		svc := newBookingService(repo, cache, nil)

		cache.On("GetDay", ctx, int64(1), date).Return(nil, false, nil)
		repo.On("ListCourtBookingsByDate", ctx, int64(1), date).Return(day, nil)
		cache.On("SetDay", ctx, int64(1), date, day).Return(nil)

		got, err := svc.DaySchedule(ctx, 1, date)
		require.NoError(t, err)
		assert.Equal(t, day, got)
		cache.AssertExpectations(t)
	})
}

func TestPriceQuote(t *testing.T) {
	ctx := context.Background()

	t.Run("court table wins", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo, nil, nil)

		court := &models.Court{ID: 1, Pricing: &models.RateTable{
			Weekday: []models.RateSlot{{StartTime: "00:00", EndTime: "24:00", PriceRub: 3000}},
		}}
		repo.On("GetCourtByID", ctx, int64(1)).Return(court, nil)

		// 2026-09-02 is a Wednesday
		price, err := svc.PriceQuote(ctx, 1, "2026-09-02", "10:00", "12:00")
		require.NoError(t, err)
		assert.Equal(t, int64(6000), price)
	})

	t.Run("falls back to club table", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo, nil, nil)

		repo.On("GetCourtByID", ctx, int64(1)).Return(&models.Court{ID: 1}, nil)

		price, err := svc.PriceQuote(ctx, 1, "2026-09-02", "10:00", "12:00")
		require.NoError(t, err)
		assert.Equal(t, int64(4000), price, "club weekday rate 2000/h")
	})

	t.Run("invalid interval", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo, nil, nil)

		_, err := svc.PriceQuote(ctx, 1, "2026-09-02", "12:00", "10:00")
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestDailyBookings(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepo)
	svc := newBookingService(repo, nil, nil)

	repo.On("ListBookingsByDateRange", ctx, models.Date("2026-09-01"), models.Date("2026-09-03")).
		Return([]models.Booking{
			{ID: 1, Date: "2026-09-01"},
			{ID: 2, Date: "2026-09-01"},
			{ID: 3, Date: "2026-09-03"},
		}, nil)

	byDay, err := svc.DailyBookings(ctx, "2026-09-01", "2026-09-03")
	require.NoError(t, err)
	assert.Len(t, byDay["2026-09-01"], 2)
	assert.Len(t, byDay["2026-09-03"], 1)
	assert.NotContains(t, byDay, models.Date("2026-09-02"))
}
