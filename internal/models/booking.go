package models

import "time"

// Booking is a reservation of an item for a time window. Status moves
// WAITING -> APPROVED or WAITING -> REJECTED exactly once; no other
// transition exists. ItemName, OwnerID and BookerName are denormalized
// from joins so callers can authorize and render without extra lookups.
type Booking struct {
	ID         int64     `json:"id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	ItemID     int64     `json:"item_id"`
	ItemName   string    `json:"item_name"`
	OwnerID    int64     `json:"owner_id"`
	BookerID   int64     `json:"booker_id"`
	BookerName string    `json:"booker_name"`
	Status     string    `json:"status"`
	Version    int64     `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Ref returns the short form used by enriched item views.
func (b *Booking) Ref() *BookingRef {
	return &BookingRef{ID: b.ID, BookerID: b.BookerID, Start: b.Start, End: b.End}
}
