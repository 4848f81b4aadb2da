package domain

import (
	"context"
	"time"

	"lendit/internal/models"
)

// Repository is the storage boundary for the lending engine. The sqlite
// implementation lives in internal/database.
type Repository interface {
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	UserExists(ctx context.Context, id int64) (bool, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	DeleteUser(ctx context.Context, id int64) error

	CreateItem(ctx context.Context, item *models.Item) error
	UpdateItem(ctx context.Context, item *models.Item) error
	GetItem(ctx context.Context, id int64) (*models.Item, error)
	ListItemsByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]*models.Item, error)
	SearchItems(ctx context.Context, text string, limit, offset int) ([]*models.Item, error)
	ItemsForRequests(ctx context.Context, requestIDs []int64) (map[int64][]models.Item, error)

	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	UpdateBookingStatusIfWaiting(ctx context.Context, id int64, status string) error
	ListBookingsByBooker(ctx context.Context, bookerID int64, state models.BookingState, now time.Time, limit, offset int) ([]*models.Booking, error)
	ListBookingsByOwner(ctx context.Context, ownerID int64, state models.BookingState, now time.Time, limit, offset int) ([]*models.Booking, error)
	LastBooking(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error)
	NextBooking(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error)
	ApprovedBookingsByItems(ctx context.Context, itemIDs []int64) (map[int64][]*models.Booking, error)
	HasFinishedBooking(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error)
	AllBookings(ctx context.Context) ([]*models.Booking, error)

	CreateComment(ctx context.Context, comment *models.Comment) error
	CommentsByItem(ctx context.Context, itemID int64) ([]models.Comment, error)
	CommentsByItems(ctx context.Context, itemIDs []int64) (map[int64][]models.Comment, error)

	CreateRequest(ctx context.Context, request *models.ItemRequest) error
	GetRequest(ctx context.Context, id int64) (*models.ItemRequest, error)
	RequestsByRequestor(ctx context.Context, requestorID int64) ([]*models.ItemRequest, error)
	OtherRequests(ctx context.Context, userID int64, limit, offset int) ([]*models.ItemRequest, error)
}

// ViewCache caches item views (the item plus its comments; booking details
// are time-dependent and stay out of the cache). A nil view with a nil error
// is a miss; every miss falls through to storage.
type ViewCache interface {
	GetItemView(ctx context.Context, itemID int64) (*models.ItemView, error)
	SetItemView(ctx context.Context, view *models.ItemView) error
	InvalidateItem(ctx context.Context, itemID int64) error
}

// EventPublisher fans booking lifecycle events out to in-process subscribers.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// ExportWorker accepts snapshot tasks produced after booking mutations.
type ExportWorker interface {
	EnqueueSnapshot(ctx context.Context, reason string) error
}
