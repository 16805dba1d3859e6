package repository

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/Sher-V/play-today-admin/internal/domain"
	"github.com/Sher-V/play-today-admin/internal/models"

	"github.com/rs/zerolog"
)

// FailoverScheduleCache serves from the primary cache and drops to the
// fallback when the primary errors. Recovery is retried after a
// minute.
type FailoverScheduleCache struct {
	primary   domain.ScheduleCache
	fallback  domain.ScheduleCache
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck time.Time
}

func NewFailoverScheduleCache(primary, fallback domain.ScheduleCache, logger *zerolog.Logger) *FailoverScheduleCache {
	return &FailoverScheduleCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverScheduleCache) markDown(err error) {
	r.logger.Error().Err(err).Msg("Primary schedule cache failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck = time.Now()
}

func (r *FailoverScheduleCache) GetDay(ctx context.Context, courtID int64, date models.Date) ([]models.Booking, bool, error) {
	if !r.isDown.Load() {
		bookings, ok, err := r.primary.GetDay(ctx, courtID, date)
		if err == nil {
			return bookings, ok, nil
		}
		r.markDown(err)
	}

	// Try to recover after 1 minute
	if r.isDown.Load() && time.Since(r.lastCheck) > time.Minute {
		bookings, ok, err := r.primary.GetDay(ctx, courtID, date)
		if err == nil {
			r.isDown.Store(false)
			return bookings, ok, nil
		}
		r.lastCheck = time.Now()
	}

	return r.fallback.GetDay(ctx, courtID, date)
}

func (r *FailoverScheduleCache) SetDay(ctx context.Context, courtID int64, date models.Date, bookings []models.Booking) error {
	if !r.isDown.Load() {
		err := r.primary.SetDay(ctx, courtID, date, bookings)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.SetDay(ctx, courtID, date, bookings)
}

func (r *FailoverScheduleCache) InvalidateDay(ctx context.Context, courtID int64, date models.Date) error {
	if !r.isDown.Load() {
		err := r.primary.InvalidateDay(ctx, courtID, date)
		if err == nil {
			// Запись могла успеть попасть и в память
			_ = r.fallback.InvalidateDay(ctx, courtID, date)
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.InvalidateDay(ctx, courtID, date)
}
