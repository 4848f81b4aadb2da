package models

import "time"

// Comment is feedback left on an item by a user who has finished renting it.
// AuthorName is denormalized from the users table on read.
type Comment struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	ItemID     int64     `json:"item_id"`
	AuthorID   int64     `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Created    time.Time `json:"created"`
}
