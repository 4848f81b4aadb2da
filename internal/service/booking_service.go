package service

import (
	"context"
	"errors"
	"time"

	"lendit/internal/apperr"
	"lendit/internal/database"
	"lendit/internal/domain"
	"lendit/internal/events"
	"lendit/internal/models"

	"github.com/rs/zerolog"
)

// BookingService is the reservation engine: it owns the WAITING -> APPROVED /
// REJECTED state machine and the authorization rules around it. Authorization
// failures are reported as not-found so callers cannot probe who owns what.
type BookingService struct {
	repo     domain.Repository
	cache    domain.ViewCache
	eventBus domain.EventPublisher
	exporter domain.ExportWorker
	logger   *zerolog.Logger
}

func NewBookingService(repo domain.Repository, cache domain.ViewCache, eventBus domain.EventPublisher, exporter domain.ExportWorker, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		repo:     repo,
		cache:    cache,
		eventBus: eventBus,
		exporter: exporter,
		logger:   logger,
	}
}

// Create books a time window on an item for the booker. The canonical window
// rule is now <= start < end: a window starting this instant is accepted,
// an empty or inverted one is not.
func (s *BookingService) Create(ctx context.Context, start, end time.Time, itemID, bookerID int64) (*models.Booking, error) {
	if _, err := s.repo.GetUser(ctx, bookerID); err != nil {
		return nil, err
	}

	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	// The owner may not book their own item. Reported as not-found, not
	// forbidden, so the response does not confirm ownership.
	if item.OwnerID == bookerID {
		return nil, apperr.NotFoundf("item %d not found", itemID)
	}

	if !item.Available {
		return nil, apperr.Validationf("item %d is not available for booking", itemID)
	}

	if err := validateWindow(start, end, time.Now()); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		Start:    start,
		End:      end,
		ItemID:   itemID,
		BookerID: bookerID,
		Status:   models.StatusWaiting,
	}
	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	stored, err := s.repo.GetBooking(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, events.EventBookingCreated, stored)
	return stored, nil
}

func validateWindow(start, end, now time.Time) error {
	if !end.After(start) {
		return apperr.Validationf("booking end must be after start")
	}
	if start.Before(now) {
		return apperr.Validationf("booking start must not be in the past")
	}
	return nil
}

// ApproveOrReject decides a waiting booking. Only the item's owner may act;
// anyone else gets not-found. The status check and write happen in one
// conditional update, so two concurrent approvals cannot both succeed.
func (s *BookingService) ApproveOrReject(ctx context.Context, bookingID int64, approved bool, actingUserID int64) (*models.Booking, error) {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.OwnerID != actingUserID {
		return nil, apperr.NotFoundf("booking %d not found", bookingID)
	}

	status := models.StatusRejected
	eventType := events.EventBookingRejected
	if approved {
		status = models.StatusApproved
		eventType = events.EventBookingApproved
	}

	if err := s.repo.UpdateBookingStatusIfWaiting(ctx, bookingID, status); err != nil {
		if errors.Is(err, database.ErrNotWaiting) {
			// Lost the race or already decided; re-read to tell which.
			if _, getErr := s.repo.GetBooking(ctx, bookingID); getErr != nil {
				return nil, getErr
			}
			return nil, apperr.Validationf("booking %d is not in status WAITING", bookingID)
		}
		return nil, err
	}

	updated, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, eventType, updated)
	return updated, nil
}

// GetByID returns a booking to one of the two parties of the transaction.
// Everyone else gets not-found.
func (s *BookingService) GetByID(ctx context.Context, bookingID, requestingUserID int64) (*models.Booking, error) {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.BookerID != requestingUserID && booking.OwnerID != requestingUserID {
		return nil, apperr.NotFoundf("booking %d not found", bookingID)
	}
	return booking, nil
}

// ListByBooker lists a user's own bookings filtered by state, newest start
// first. The state token is validated before any storage access.
func (s *BookingService) ListByBooker(ctx context.Context, userID int64, stateRaw string, from, size int) ([]*models.Booking, error) {
	state, err := models.ParseBookingState(stateRaw)
	if err != nil {
		return nil, err
	}
	if err := validatePage(from, size); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.ListBookingsByBooker(ctx, userID, state, time.Now(), size, from)
}

// ListByOwner lists bookings on all items the user owns, filtered by state,
// newest start first.
func (s *BookingService) ListByOwner(ctx context.Context, userID int64, stateRaw string, from, size int) ([]*models.Booking, error) {
	state, err := models.ParseBookingState(stateRaw)
	if err != nil {
		return nil, err
	}
	if err := validatePage(from, size); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.ListBookingsByOwner(ctx, userID, state, time.Now(), size, from)
}

// GetLastBooking returns the item's approved booking with the greatest start
// not after now, or nil.
func (s *BookingService) GetLastBooking(ctx context.Context, itemID int64) (*models.Booking, error) {
	return s.repo.LastBooking(ctx, itemID, time.Now())
}

// GetNextBooking returns the item's approved booking with the smallest start
// after now, or nil.
func (s *BookingService) GetNextBooking(ctx context.Context, itemID int64) (*models.Booking, error) {
	return s.repo.NextBooking(ctx, itemID, time.Now())
}

// GetBookingsGroupedByItem fetches approved bookings for a set of items in a
// single query, grouped by item id, ascending by start.
func (s *BookingService) GetBookingsGroupedByItem(ctx context.Context, itemIDs []int64) (map[int64][]*models.Booking, error) {
	return s.repo.ApprovedBookingsByItems(ctx, itemIDs)
}

func (s *BookingService) requireUser(ctx context.Context, userID int64) error {
	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFoundf("user %d not found", userID)
	}
	return nil
}

func validatePage(from, size int) error {
	if from < 0 || size <= 0 {
		return apperr.Validationf("malformed pagination parameters: from=%d size=%d", from, size)
	}
	return nil
}

func (s *BookingService) afterMutation(ctx context.Context, eventType string, booking *models.Booking) {
	s.publishEvent(eventType, booking)
	s.invalidateView(ctx, booking.ItemID)
	s.enqueueExport(ctx, eventType)
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking) {
	if s.eventBus == nil {
		return
	}
	payload := events.BookingEventPayload{
		BookingID:  booking.ID,
		ItemID:     booking.ItemID,
		ItemName:   booking.ItemName,
		BookerID:   booking.BookerID,
		BookerName: booking.BookerName,
		Status:     booking.Status,
		Start:      booking.Start,
		End:        booking.End,
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}

func (s *BookingService) invalidateView(ctx context.Context, itemID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateItem(ctx, itemID); err != nil {
		s.logger.Error().Err(err).Int64("item_id", itemID).Msg("invalidate item view error")
	}
}

func (s *BookingService) enqueueExport(ctx context.Context, reason string) {
	if s.exporter == nil {
		return
	}
	if err := s.exporter.EnqueueSnapshot(ctx, reason); err != nil {
		s.logger.Error().Err(err).Str("reason", reason).Msg("export enqueue error")
	}
}
