package repository

import (
	"context"
	"sync"
	"time"

	"lendit/internal/models"
)

// MemoryViewCache is the in-process twin of the Redis cache, used as the
// failover fallback and as a test double.
type MemoryViewCache struct {
	views sync.Map
	ttl   time.Duration
}

type viewEntry struct {
	view      *models.ItemView
	expiresAt time.Time
}

func NewMemoryViewCache(ttl time.Duration) *MemoryViewCache {
	return &MemoryViewCache{ttl: ttl}
}

func (c *MemoryViewCache) GetItemView(ctx context.Context, itemID int64) (*models.ItemView, error) {
	val, ok := c.views.Load(itemID)
	if !ok {
		return nil, nil
	}
	entry := val.(*viewEntry)
	if time.Now().After(entry.expiresAt) {
		c.views.Delete(itemID)
		return nil, nil
	}
	copied := *entry.view
	return &copied, nil
}

func (c *MemoryViewCache) SetItemView(ctx context.Context, view *models.ItemView) error {
	copied := *view
	c.views.Store(view.Item.ID, &viewEntry{view: &copied, expiresAt: time.Now().Add(c.ttl)})
	return nil
}

func (c *MemoryViewCache) InvalidateItem(ctx context.Context, itemID int64) error {
	c.views.Delete(itemID)
	return nil
}
