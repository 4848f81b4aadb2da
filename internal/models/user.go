package models

import "time"

// User is the identity anchor for ownership and booking authorship.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserPatch carries the mutable user fields for partial updates.
// Nil pointers mean "leave unchanged".
type UserPatch struct {
	Email *string
	Name  *string
}
