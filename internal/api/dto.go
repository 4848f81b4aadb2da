package api

import (
	"time"

	"lendit/internal/models"
)

// Request bodies. Timestamps are ISO-8601 (RFC 3339) on the wire.

type createUserRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required"`
}

type patchUserRequest struct {
	Email *string `json:"email" validate:"omitempty,email"`
	Name  *string `json:"name"`
}

type createItemRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Available   *bool  `json:"available" validate:"required"`
	RequestID   int64  `json:"requestId"`
}

type patchItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

type createBookingRequest struct {
	Start  time.Time `json:"start" validate:"required"`
	End    time.Time `json:"end" validate:"required"`
	ItemID int64     `json:"itemId" validate:"required"`
}

type createCommentRequest struct {
	Text string `json:"text" validate:"required"`
}

type createRequestRequest struct {
	Description string `json:"description" validate:"required"`
}

// Response bodies.

type userSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type itemSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type bookingResponse struct {
	ID     int64       `json:"id"`
	Start  time.Time   `json:"start"`
	End    time.Time   `json:"end"`
	Status string      `json:"status"`
	Item   itemSummary `json:"item"`
	Booker userSummary `json:"booker"`
}

func toBookingResponse(b *models.Booking) bookingResponse {
	return bookingResponse{
		ID:     b.ID,
		Start:  b.Start,
		End:    b.End,
		Status: b.Status,
		Item:   itemSummary{ID: b.ItemID, Name: b.ItemName},
		Booker: userSummary{ID: b.BookerID, Name: b.BookerName},
	}
}

func toBookingResponses(bookings []*models.Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(b))
	}
	return out
}

type userResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Name: u.Name}
}

type commentResponse struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

func toCommentResponses(comments []models.Comment) []commentResponse {
	out := make([]commentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, commentResponse{ID: c.ID, Text: c.Text, AuthorName: c.AuthorName, Created: c.Created})
	}
	return out
}

type bookingRefResponse struct {
	ID       int64     `json:"id"`
	BookerID int64     `json:"bookerId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

func toBookingRefResponse(ref *models.BookingRef) *bookingRefResponse {
	if ref == nil {
		return nil
	}
	return &bookingRefResponse{ID: ref.ID, BookerID: ref.BookerID, Start: ref.Start, End: ref.End}
}

type itemResponse struct {
	ID          int64               `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Available   bool                `json:"available"`
	RequestID   int64               `json:"requestId,omitempty"`
	LastBooking *bookingRefResponse `json:"lastBooking,omitempty"`
	NextBooking *bookingRefResponse `json:"nextBooking,omitempty"`
	Comments    []commentResponse   `json:"comments,omitempty"`
}

func toItemResponse(item *models.Item) itemResponse {
	return itemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Available:   item.Available,
		RequestID:   item.RequestID,
	}
}

func toItemViewResponse(view *models.ItemView) itemResponse {
	resp := toItemResponse(&view.Item)
	resp.LastBooking = toBookingRefResponse(view.LastBooking)
	resp.NextBooking = toBookingRefResponse(view.NextBooking)
	resp.Comments = toCommentResponses(view.Comments)
	return resp
}

type requestResponse struct {
	ID          int64          `json:"id"`
	Description string         `json:"description"`
	Created     time.Time      `json:"created"`
	Items       []itemResponse `json:"items"`
}

func toRequestResponse(r *models.ItemRequest) requestResponse {
	items := make([]itemResponse, 0, len(r.Items))
	for i := range r.Items {
		items = append(items, toItemResponse(&r.Items[i]))
	}
	return requestResponse{ID: r.ID, Description: r.Description, Created: r.Created, Items: items}
}
