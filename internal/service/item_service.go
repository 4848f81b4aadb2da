package service

import (
	"context"
	"strings"
	"time"

	"lendit/internal/apperr"
	"lendit/internal/domain"
	"lendit/internal/events"
	"lendit/internal/models"

	"github.com/rs/zerolog"
)

// ItemService owns the item catalog, the enriched item views (last/next
// approved booking plus comments) and comment eligibility.
type ItemService struct {
	repo     domain.Repository
	cache    domain.ViewCache
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewItemService(repo domain.Repository, cache domain.ViewCache, eventBus domain.EventPublisher, logger *zerolog.Logger) *ItemService {
	return &ItemService{
		repo:     repo,
		cache:    cache,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *ItemService) Create(ctx context.Context, ownerID int64, item *models.Item) (*models.Item, error) {
	if _, err := s.repo.GetUser(ctx, ownerID); err != nil {
		return nil, err
	}
	if item.RequestID != 0 {
		if _, err := s.repo.GetRequest(ctx, item.RequestID); err != nil {
			return nil, err
		}
	}

	item.OwnerID = ownerID
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Update patches an item's name, description or availability. Only the owner
// may update; everyone else gets not-found.
func (s *ItemService) Update(ctx context.Context, ownerID, itemID int64, patch models.ItemPatch) (*models.Item, error) {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, apperr.NotFoundf("item %d not found", itemID)
	}

	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Available != nil {
		item.Available = *patch.Available
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	s.invalidateView(ctx, itemID)
	return item, nil
}

// GetByID returns the enriched item view. Last/next booking details are
// visible to the owner only; comments are visible to everyone.
func (s *ItemService) GetByID(ctx context.Context, itemID, requestingUserID int64) (*models.ItemView, error) {
	view, err := s.cachedView(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if view.Item.OwnerID != requestingUserID {
		return view, nil
	}

	// Last/next shift with the clock alone, so they are resolved on every
	// owner read and never enter the cache.
	now := time.Now()
	last, err := s.repo.LastBooking(ctx, itemID, now)
	if err != nil {
		return nil, err
	}
	next, err := s.repo.NextBooking(ctx, itemID, now)
	if err != nil {
		return nil, err
	}
	if last != nil {
		view.LastBooking = last.Ref()
	}
	if next != nil {
		view.NextBooking = next.Ref()
	}
	return view, nil
}

// cachedView returns the item with its comments, consulting the cache first.
// Only time-independent data is cached.
func (s *ItemService) cachedView(ctx context.Context, itemID int64) (*models.ItemView, error) {
	if s.cache != nil {
		view, err := s.cache.GetItemView(ctx, itemID)
		if err != nil {
			s.logger.Error().Err(err).Int64("item_id", itemID).Msg("view cache read error")
		} else if view != nil {
			return view, nil
		}
	}

	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	comments, err := s.repo.CommentsByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	view := &models.ItemView{Item: *item, Comments: comments}
	if s.cache != nil {
		if err := s.cache.SetItemView(ctx, view); err != nil {
			s.logger.Error().Err(err).Int64("item_id", itemID).Msg("view cache write error")
		}
	}
	return view, nil
}

// ListByOwner returns enriched views for all of the owner's items. Bookings
// and comments for the whole page are fetched in one query each and grouped
// in memory, instead of two queries per item.
func (s *ItemService) ListByOwner(ctx context.Context, ownerID int64, from, size int) ([]*models.ItemView, error) {
	if err := validatePage(from, size); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, ownerID); err != nil {
		return nil, err
	}

	items, err := s.repo.ListItemsByOwner(ctx, ownerID, size, from)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []*models.ItemView{}, nil
	}

	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}

	bookings, err := s.repo.ApprovedBookingsByItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	comments, err := s.repo.CommentsByItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	views := make([]*models.ItemView, 0, len(items))
	for _, item := range items {
		view := &models.ItemView{Item: *item, Comments: comments[item.ID]}
		view.LastBooking, view.NextBooking = lastAndNext(bookings[item.ID], now)
		views = append(views, view)
	}
	return views, nil
}

// lastAndNext walks an item's approved bookings, sorted ascending by start,
// and picks the last one starting at or before now and the first one starting
// after now.
func lastAndNext(bookings []*models.Booking, now time.Time) (last, next *models.BookingRef) {
	for _, b := range bookings {
		if !b.Start.After(now) {
			last = b.Ref()
			continue
		}
		next = b.Ref()
		break
	}
	return last, next
}

// Search finds available items by text in name or description. Blank text
// yields an empty result without touching storage.
func (s *ItemService) Search(ctx context.Context, text string, from, size int) ([]*models.Item, error) {
	if strings.TrimSpace(text) == "" {
		return []*models.Item{}, nil
	}
	if err := validatePage(from, size); err != nil {
		return nil, err
	}
	return s.repo.SearchItems(ctx, text, size, from)
}

// CreateComment lets a renter comment on an item, but only after an approved
// booking of theirs on that item has ended.
func (s *ItemService) CreateComment(ctx context.Context, itemID, authorID int64, text string) (*models.Comment, error) {
	author, err := s.repo.GetUser(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetItem(ctx, itemID); err != nil {
		return nil, err
	}

	eligible, err := s.repo.HasFinishedBooking(ctx, itemID, authorID, time.Now())
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, apperr.Validationf("user %d has not rented the item or rental period has not ended", authorID)
	}

	comment := &models.Comment{
		Text:       text,
		ItemID:     itemID,
		AuthorID:   authorID,
		AuthorName: author.Name,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	s.publishCommentEvent(comment)
	s.invalidateView(ctx, itemID)
	return comment, nil
}

func (s *ItemService) requireUser(ctx context.Context, userID int64) error {
	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFoundf("user %d not found", userID)
	}
	return nil
}

func (s *ItemService) publishCommentEvent(comment *models.Comment) {
	if s.eventBus == nil {
		return
	}
	payload := events.CommentEventPayload{
		CommentID:  comment.ID,
		ItemID:     comment.ItemID,
		AuthorID:   comment.AuthorID,
		AuthorName: comment.AuthorName,
		Created:    comment.Created,
	}
	if err := s.eventBus.PublishJSON(events.EventCommentCreated, payload); err != nil {
		s.logger.Error().Err(err).Int64("comment_id", comment.ID).Msg("publish event error")
	}
}

func (s *ItemService) invalidateView(ctx context.Context, itemID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateItem(ctx, itemID); err != nil {
		s.logger.Error().Err(err).Int64("item_id", itemID).Msg("invalidate item view error")
	}
}
