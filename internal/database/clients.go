package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Sher-V/play-today-admin/internal/models"
)

func (db *DB) GetClients(ctx context.Context) ([]models.Client, error) {
	query := `SELECT id, name, contact, created_at, updated_at FROM clients ORDER BY name ASC`
	rows, err := db.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get clients: %w", err)
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Contact, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (db *DB) GetClientByName(ctx context.Context, name string) (*models.Client, error) {
	query := `SELECT id, name, contact, created_at, updated_at FROM clients WHERE name = ?`
	var c models.Client
	err := db.db.QueryRowContext(ctx, query, name).Scan(&c.ID, &c.Name, &c.Contact, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client by name: %w", err)
	}
	return &c, nil
}

func (db *DB) CreateClient(ctx context.Context, client *models.Client) error {
	query := `INSERT INTO clients (name, contact, created_at, updated_at) VALUES (?, ?, ?, ?)`
	now := time.Now()
	result, err := db.db.ExecContext(ctx, query, client.Name, client.Contact, now, now)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	client.ID = id
	client.CreatedAt = now
	client.UpdatedAt = now
	return nil
}

func (db *DB) UpdateClient(ctx context.Context, client *models.Client) error {
	query := `UPDATE clients SET name = ?, contact = ?, updated_at = ? WHERE id = ?`
	result, err := db.db.ExecContext(ctx, query, client.Name, client.Contact, time.Now(), client.ID)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
