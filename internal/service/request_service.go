package service

import (
	"context"

	"lendit/internal/domain"
	"lendit/internal/models"

	"github.com/rs/zerolog"
)

// RequestService manages item requests; enrichment attaches the items that
// were created in response to each request.
type RequestService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewRequestService(repo domain.Repository, logger *zerolog.Logger) *RequestService {
	return &RequestService{repo: repo, logger: logger}
}

func (s *RequestService) Create(ctx context.Context, requestorID int64, description string) (*models.ItemRequest, error) {
	if _, err := s.repo.GetUser(ctx, requestorID); err != nil {
		return nil, err
	}

	request := &models.ItemRequest{Description: description, RequestorID: requestorID}
	if err := s.repo.CreateRequest(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *RequestService) GetByID(ctx context.Context, requestID, userID int64) (*models.ItemRequest, error) {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	request, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.attachItems(ctx, []*models.ItemRequest{request}); err != nil {
		return nil, err
	}
	return request, nil
}

// ListOwn returns the user's requests, newest first, with fulfilling items.
func (s *RequestService) ListOwn(ctx context.Context, userID int64) ([]*models.ItemRequest, error) {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	requests, err := s.repo.RequestsByRequestor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.attachItems(ctx, requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// ListOthers returns requests from other users, newest first, paginated.
func (s *RequestService) ListOthers(ctx context.Context, userID int64, from, size int) ([]*models.ItemRequest, error) {
	if err := validatePage(from, size); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	requests, err := s.repo.OtherRequests(ctx, userID, size, from)
	if err != nil {
		return nil, err
	}
	if err := s.attachItems(ctx, requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// attachItems resolves fulfilling items for a set of requests in one query.
func (s *RequestService) attachItems(ctx context.Context, requests []*models.ItemRequest) error {
	if len(requests) == 0 {
		return nil
	}
	ids := make([]int64, len(requests))
	for i, r := range requests {
		ids[i] = r.ID
	}
	grouped, err := s.repo.ItemsForRequests(ctx, ids)
	if err != nil {
		return err
	}
	for _, r := range requests {
		r.Items = grouped[r.ID]
	}
	return nil
}
