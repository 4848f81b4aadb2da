package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lendit/internal/apperr"
	"lendit/internal/models"
)

func (db *DB) CreateRequest(ctx context.Context, request *models.ItemRequest) error {
	query := `INSERT INTO requests (description, requestor_id, created_at) VALUES (?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query, request.Description, request.RequestorID, now)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	request.ID = id
	request.Created = now
	return nil
}

func (db *DB) GetRequest(ctx context.Context, id int64) (*models.ItemRequest, error) {
	query := `SELECT id, description, requestor_id, created_at FROM requests WHERE id = ?`
	r := &models.ItemRequest{}
	err := db.QueryRowContext(ctx, query, id).Scan(&r.ID, &r.Description, &r.RequestorID, &r.Created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFoundf("request %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return r, nil
}

// RequestsByRequestor returns a user's own requests, newest first.
func (db *DB) RequestsByRequestor(ctx context.Context, requestorID int64) ([]*models.ItemRequest, error) {
	query := `SELECT id, description, requestor_id, created_at FROM requests
              WHERE requestor_id = ? ORDER BY created_at DESC`
	return db.queryRequests(ctx, query, requestorID)
}

// OtherRequests returns requests created by everyone except the user,
// newest first, paginated.
func (db *DB) OtherRequests(ctx context.Context, userID int64, limit, offset int) ([]*models.ItemRequest, error) {
	query := `SELECT id, description, requestor_id, created_at FROM requests
              WHERE requestor_id != ? ORDER BY created_at DESC LIMIT ? OFFSET ?`
	return db.queryRequests(ctx, query, userID, limit, offset)
}

func (db *DB) queryRequests(ctx context.Context, query string, args ...any) ([]*models.ItemRequest, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.ItemRequest
	for rows.Next() {
		r := &models.ItemRequest{}
		if err := rows.Scan(&r.ID, &r.Description, &r.RequestorID, &r.Created); err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}
