package models

import "time"

// ItemRequest is a wish published by a user looking for an item. Items
// created in answer to it carry its id; Items is populated on read.
type ItemRequest struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	RequestorID int64     `json:"requestor_id"`
	Created     time.Time `json:"created"`
	Items       []Item    `json:"items"`
}
