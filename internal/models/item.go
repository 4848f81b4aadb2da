package models

import "time"

// Item is owned by exactly one user. The booking engine reads the
// Available flag but never mutates it.
type Item struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Available   bool      `json:"available"`
	OwnerID     int64     `json:"owner_id"`
	RequestID   int64     `json:"request_id,omitempty"` // 0 when the item was not created for a request
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ItemPatch carries the mutable item fields for partial updates.
// Nil pointers mean "leave unchanged".
type ItemPatch struct {
	Name        *string
	Description *string
	Available   *bool
}

// BookingRef is the short booking form attached to enriched item views.
type BookingRef struct {
	ID       int64     `json:"id"`
	BookerID int64     `json:"booker_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// ItemView is an item enriched for display: last/next approved booking
// (owner-only) and the item's comments, newest first.
type ItemView struct {
	Item        Item        `json:"item"`
	LastBooking *BookingRef `json:"last_booking,omitempty"`
	NextBooking *BookingRef `json:"next_booking,omitempty"`
	Comments    []Comment   `json:"comments"`
}
