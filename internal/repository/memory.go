package repository

import (
	"context"
	"sync"
	"time"

	"github.com/Sher-V/play-today-admin/internal/models"
)

// MemoryScheduleCache is the in-process fallback used when redis is
// unavailable. Entries expire lazily on read.
type MemoryScheduleCache struct {
	entries sync.Map
	ttl     time.Duration
}

type memoryEntry struct {
	bookings  []models.Booking
	expiresAt time.Time
}

func NewMemoryScheduleCache(ttl time.Duration) *MemoryScheduleCache {
	return &MemoryScheduleCache{ttl: ttl}
}

func (r *MemoryScheduleCache) GetDay(ctx context.Context, courtID int64, date models.Date) ([]models.Booking, bool, error) {
	val, ok := r.entries.Load(dayKey(courtID, date))
	if !ok {
		return nil, false, nil
	}
	entry := val.(*memoryEntry)
	if time.Now().After(entry.expiresAt) {
		r.entries.Delete(dayKey(courtID, date))
		return nil, false, nil
	}
	return entry.bookings, true, nil
}

func (r *MemoryScheduleCache) SetDay(ctx context.Context, courtID int64, date models.Date, bookings []models.Booking) error {
	r.entries.Store(dayKey(courtID, date), &memoryEntry{
		bookings:  bookings,
		expiresAt: time.Now().Add(r.ttl),
	})
	return nil
}

func (r *MemoryScheduleCache) InvalidateDay(ctx context.Context, courtID int64, date models.Date) error {
	r.entries.Delete(dayKey(courtID, date))
	return nil
}
