package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Sher-V/play-today-admin/internal/models"
)

func scanCourt(row interface{ Scan(...any) error }) (*models.Court, error) {
	c := &models.Court{}
	var pricing sql.NullString
	err := row.Scan(&c.ID, &c.Name, &c.SortOrder, &pricing, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if pricing.Valid && pricing.String != "" {
		var table models.RateTable
		if err := json.Unmarshal([]byte(pricing.String), &table); err != nil {
			return nil, fmt.Errorf("failed to decode court pricing: %w", err)
		}
		c.Pricing = &table
	}
	return c, nil
}

func (db *DB) GetCourts(ctx context.Context) ([]models.Court, error) {
	query := `SELECT id, name, sort_order, pricing, created_at, updated_at
	          FROM courts ORDER BY sort_order ASC, id ASC`
	rows, err := db.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get courts: %w", err)
	}
	defer rows.Close()

	var courts []models.Court
	for rows.Next() {
		c, err := scanCourt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan court: %w", err)
		}
		courts = append(courts, *c)
	}
	return courts, rows.Err()
}

func (db *DB) GetCourtByID(ctx context.Context, id int64) (*models.Court, error) {
	query := `SELECT id, name, sort_order, pricing, created_at, updated_at FROM courts WHERE id = ?`
	c, err := scanCourt(db.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get court: %w", err)
	}
	return c, nil
}

func (db *DB) GetCourtByName(ctx context.Context, name string) (*models.Court, error) {
	query := `SELECT id, name, sort_order, pricing, created_at, updated_at FROM courts WHERE name = ?`
	c, err := scanCourt(db.db.QueryRowContext(ctx, query, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get court by name: %w", err)
	}
	return c, nil
}

func (db *DB) CreateCourt(ctx context.Context, court *models.Court) error {
	var pricing any
	if court.Pricing != nil {
		data, err := json.Marshal(court.Pricing)
		if err != nil {
			return fmt.Errorf("failed to encode court pricing: %w", err)
		}
		pricing = string(data)
	}

	query := `INSERT INTO courts (name, sort_order, pricing, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.db.ExecContext(ctx, query, court.Name, court.SortOrder, pricing, now, now)
	if err != nil {
		return fmt.Errorf("failed to create court: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	court.ID = id
	court.CreatedAt = now
	court.UpdatedAt = now
	return nil
}

func (db *DB) ReorderCourt(ctx context.Context, id int64, newOrder int64) error {
	query := `UPDATE courts SET sort_order = ?, updated_at = ? WHERE id = ?`
	result, err := db.db.ExecContext(ctx, query, newOrder, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to reorder court: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
