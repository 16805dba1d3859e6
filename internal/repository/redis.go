package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Sher-V/play-today-admin/internal/config"
	"github.com/Sher-V/play-today-admin/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisScheduleCache keeps the per-court day view in redis so calendar
// reads do not hit sqlite on every request.
type RedisScheduleCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient создает новый клиент Redis на основе конфигурации
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}

	return redis.NewClient(options)
}

func NewRedisScheduleCache(client *redis.Client, ttl time.Duration) *RedisScheduleCache {
	return &RedisScheduleCache{
		client: client,
		ttl:    ttl,
	}
}

func dayKey(courtID int64, date models.Date) string {
	return fmt.Sprintf("schedule:%d:%s", courtID, date)
}

func (r *RedisScheduleCache) GetDay(ctx context.Context, courtID int64, date models.Date) ([]models.Booking, bool, error) {
	if r.client == nil {
		return nil, false, fmt.Errorf("redis client is nil")
	}
	val, err := r.client.Get(ctx, dayKey(courtID, date)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get schedule from redis: %w", err)
	}

	var bookings []models.Booking
	if err := json.Unmarshal([]byte(val), &bookings); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal schedule: %w", err)
	}

	return bookings, true, nil
}

func (r *RedisScheduleCache) SetDay(ctx context.Context, courtID int64, date models.Date, bookings []models.Booking) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	data, err := json.Marshal(bookings)
	if err != nil {
		return fmt.Errorf("failed to marshal schedule: %w", err)
	}

	if err := r.client.Set(ctx, dayKey(courtID, date), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set schedule in redis: %w", err)
	}

	return nil
}

func (r *RedisScheduleCache) InvalidateDay(ctx context.Context, courtID int64, date models.Date) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, dayKey(courtID, date)).Err(); err != nil {
		return fmt.Errorf("failed to delete schedule from redis: %w", err)
	}
	return nil
}

// Ping проверяет соединение с Redis
func Ping(ctx context.Context, client *redis.Client) error {
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close закрывает соединение с Redis
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
