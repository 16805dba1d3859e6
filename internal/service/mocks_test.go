package service

import (
	"context"

	"github.com/Sher-V/play-today-admin/internal/domain"
	"github.com/Sher-V/play-today-admin/internal/models"

	"github.com/stretchr/testify/mock"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}
func (m *mockRepo) CreateBooking(ctx context.Context, b *models.Booking) error {
	return m.Called(ctx, b).Error(0)
}
func (m *mockRepo) UpdateBooking(ctx context.Context, id int64, patch domain.BookingPatch) error {
	return m.Called(ctx, id, patch).Error(0)
}
func (m *mockRepo) UpdateBookingStatus(ctx context.Context, id int64, s string) error {
	return m.Called(ctx, id, s).Error(0)
}
func (m *mockRepo) UpdateBookingComment(ctx context.Context, id int64, c string) error {
	return m.Called(ctx, id, c).Error(0)
}
func (m *mockRepo) DeleteBooking(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockRepo) ListBookingsByDate(ctx context.Context, d models.Date) ([]models.Booking, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}
func (m *mockRepo) ListCourtBookingsByDate(ctx context.Context, courtID int64, d models.Date) ([]models.Booking, error) {
	args := m.Called(ctx, courtID, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}
func (m *mockRepo) ListBookingsByDateRange(ctx context.Context, s, e models.Date) ([]models.Booking, error) {
	args := m.Called(ctx, s, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}
func (m *mockRepo) ListSeriesMembers(ctx context.Context, b *models.Booking) ([]models.Booking, error) {
	args := m.Called(ctx, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}
func (m *mockRepo) GetCourts(ctx context.Context) ([]models.Court, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Court), args.Error(1)
}
func (m *mockRepo) GetCourtByID(ctx context.Context, id int64) (*models.Court, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Court), args.Error(1)
}
func (m *mockRepo) GetCourtByName(ctx context.Context, n string) (*models.Court, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Court), args.Error(1)
}
func (m *mockRepo) CreateCourt(ctx context.Context, c *models.Court) error {
	return m.Called(ctx, c).Error(0)
}
func (m *mockRepo) ReorderCourt(ctx context.Context, id, o int64) error {
	return m.Called(ctx, id, o).Error(0)
}
func (m *mockRepo) GetClients(ctx context.Context) ([]models.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Client), args.Error(1)
}
func (m *mockRepo) GetClientByName(ctx context.Context, n string) (*models.Client, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}
func (m *mockRepo) CreateClient(ctx context.Context, c *models.Client) error {
	return m.Called(ctx, c).Error(0)
}
func (m *mockRepo) UpdateClient(ctx context.Context, c *models.Client) error {
	return m.Called(ctx, c).Error(0)
}

type mockScheduleCache struct {
	mock.Mock
}

func (m *mockScheduleCache) GetDay(ctx context.Context, courtID int64, d models.Date) ([]models.Booking, bool, error) {
	args := m.Called(ctx, courtID, d)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]models.Booking), args.Bool(1), args.Error(2)
}
func (m *mockScheduleCache) SetDay(ctx context.Context, courtID int64, d models.Date, b []models.Booking) error {
	return m.Called(ctx, courtID, d, b).Error(0)
}
func (m *mockScheduleCache) InvalidateDay(ctx context.Context, courtID int64, d models.Date) error {
	return m.Called(ctx, courtID, d).Error(0)
}

type mockPayments struct {
	mock.Mock
}

func (m *mockPayments) CreatePaymentLink(ctx context.Context, req domain.PaymentLinkRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}
