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

const bookingSelect = `
    SELECT b.id, b.start_at, b.end_at, b.item_id, i.name, i.owner_id,
           b.booker_id, u.name, b.status, b.version, b.created_at, b.updated_at
    FROM bookings b
    JOIN items i ON i.id = b.item_id
    JOIN users u ON u.id = b.booker_id`

func scanBooking(row interface{ Scan(...any) error }) (*models.Booking, error) {
	b := &models.Booking{}
	var startUnix, endUnix int64
	err := row.Scan(
		&b.ID, &startUnix, &endUnix, &b.ItemID, &b.ItemName, &b.OwnerID,
		&b.BookerID, &b.BookerName, &b.Status, &b.Version, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Start = time.Unix(startUnix, 0)
	b.End = time.Unix(endUnix, 0)
	return b, nil
}

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (start_at, end_at, item_id, booker_id, status, version, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		booking.Start.Unix(), booking.End.Unix(),
		booking.ItemID, booking.BookerID, booking.Status, 1, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.Version = 1
	booking.CreatedAt = now
	booking.UpdatedAt = now
	return nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	booking, err := scanBooking(db.QueryRowContext(ctx, bookingSelect+` WHERE b.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFoundf("booking %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

// UpdateBookingStatusIfWaiting performs the read-check-write of an approval
// as one conditional update. Zero rows affected means the booking is missing
// or already decided; ErrNotWaiting is returned and the caller re-reads to
// tell the two apart.
func (db *DB) UpdateBookingStatusIfWaiting(ctx context.Context, id int64, status string) error {
	query := `UPDATE bookings SET status = ?, version = version + 1, updated_at = ?
              WHERE id = ? AND status = ?`
	result, err := db.ExecContext(ctx, query, status, time.Now(), id, models.StatusWaiting)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotWaiting
	}
	return nil
}

// stateClause produces the SQL predicate for a listing state token once per
// call; it is ANDed onto the party predicate by the callers.
func stateClause(state models.BookingState, now time.Time) (string, []any) {
	switch state {
	case models.StateCurrent:
		return ` AND b.start_at <= ? AND b.end_at > ?`, []any{now.Unix(), now.Unix()}
	case models.StatePast:
		return ` AND b.end_at < ?`, []any{now.Unix()}
	case models.StateFuture:
		return ` AND b.start_at > ?`, []any{now.Unix()}
	case models.StateWaiting, models.StateRejected:
		return ` AND b.status = ?`, []any{string(state)}
	}
	return "", nil
}

func (db *DB) ListBookingsByBooker(ctx context.Context, bookerID int64, state models.BookingState, now time.Time, limit, offset int) ([]*models.Booking, error) {
	clause, args := stateClause(state, now)
	query := bookingSelect + ` WHERE b.booker_id = ?` + clause + ` ORDER BY b.start_at DESC LIMIT ? OFFSET ?`
	args = append([]any{bookerID}, append(args, limit, offset)...)
	return db.queryBookings(ctx, query, args...)
}

func (db *DB) ListBookingsByOwner(ctx context.Context, ownerID int64, state models.BookingState, now time.Time, limit, offset int) ([]*models.Booking, error) {
	clause, args := stateClause(state, now)
	query := bookingSelect + ` WHERE i.owner_id = ?` + clause + ` ORDER BY b.start_at DESC LIMIT ? OFFSET ?`
	args = append([]any{ownerID}, append(args, limit, offset)...)
	return db.queryBookings(ctx, query, args...)
}

// LastBooking returns the approved booking with the greatest start not after
// now, or nil when the item has none.
func (db *DB) LastBooking(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error) {
	query := bookingSelect + ` WHERE b.item_id = ? AND b.status = ? AND b.start_at <= ?
        ORDER BY b.start_at DESC LIMIT 1`
	booking, err := scanBooking(db.QueryRowContext(ctx, query, itemID, models.StatusApproved, now.Unix()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last booking: %w", err)
	}
	return booking, nil
}

// NextBooking returns the approved booking with the smallest start after now,
// or nil when the item has none.
func (db *DB) NextBooking(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error) {
	query := bookingSelect + ` WHERE b.item_id = ? AND b.status = ? AND b.start_at > ?
        ORDER BY b.start_at ASC LIMIT 1`
	booking, err := scanBooking(db.QueryRowContext(ctx, query, itemID, models.StatusApproved, now.Unix()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get next booking: %w", err)
	}
	return booking, nil
}

// ApprovedBookingsByItems fetches all approved bookings for a set of items in
// one query, grouped by item id and sorted ascending by start within a group.
func (db *DB) ApprovedBookingsByItems(ctx context.Context, itemIDs []int64) (map[int64][]*models.Booking, error) {
	grouped := make(map[int64][]*models.Booking)
	if len(itemIDs) == 0 {
		return grouped, nil
	}

	query := bookingSelect + ` WHERE b.item_id IN (` + placeholders(len(itemIDs)) + `) AND b.status = ?
        ORDER BY b.item_id, b.start_at ASC`
	args := make([]any, 0, len(itemIDs)+1)
	for _, id := range itemIDs {
		args = append(args, id)
	}
	args = append(args, models.StatusApproved)

	bookings, err := db.queryBookings(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	for _, b := range bookings {
		grouped[b.ItemID] = append(grouped[b.ItemID], b)
	}
	return grouped, nil
}

// HasFinishedBooking reports whether the booker has at least one approved
// booking on the item that ended before now. This gates comment creation.
func (db *DB) HasFinishedBooking(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error) {
	query := `SELECT EXISTS(
        SELECT 1 FROM bookings
        WHERE item_id = ? AND booker_id = ? AND status = ? AND end_at < ?)`
	var exists bool
	err := db.QueryRowContext(ctx, query, itemID, bookerID, models.StatusApproved, now.Unix()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check finished booking: %w", err)
	}
	return exists, nil
}

// AllBookings returns every booking ordered by start, for export snapshots.
func (db *DB) AllBookings(ctx context.Context) ([]*models.Booking, error) {
	return db.queryBookings(ctx, bookingSelect+` ORDER BY b.start_at ASC`)
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...any) ([]*models.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
