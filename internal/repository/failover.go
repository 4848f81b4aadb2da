package repository

import (
	"context"
	"sync/atomic"
	"time"

	"lendit/internal/domain"
	"lendit/internal/models"

	"github.com/rs/zerolog"
)

// FailoverViewCache serves from the primary cache until it errors, then
// switches to the fallback and probes the primary again after a cooldown.
type FailoverViewCache struct {
	primary   domain.ViewCache
	fallback  domain.ViewCache
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
}

const recoveryCooldown = time.Minute

func NewFailoverViewCache(primary, fallback domain.ViewCache, logger *zerolog.Logger) *FailoverViewCache {
	return &FailoverViewCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (c *FailoverViewCache) markDown(err error) {
	c.logger.Error().Err(err).Msg("Primary view cache failed, falling back to memory")
	c.isDown.Store(true)
	c.lastCheck.Store(time.Now().UnixNano())
}

func (c *FailoverViewCache) shouldProbe() bool {
	return time.Since(time.Unix(0, c.lastCheck.Load())) > recoveryCooldown
}

func (c *FailoverViewCache) GetItemView(ctx context.Context, itemID int64) (*models.ItemView, error) {
	if !c.isDown.Load() {
		view, err := c.primary.GetItemView(ctx, itemID)
		if err == nil {
			return view, nil
		}
		c.markDown(err)
	} else if c.shouldProbe() {
		view, err := c.primary.GetItemView(ctx, itemID)
		if err == nil {
			c.isDown.Store(false)
			return view, nil
		}
		c.lastCheck.Store(time.Now().UnixNano())
	}

	return c.fallback.GetItemView(ctx, itemID)
}

func (c *FailoverViewCache) SetItemView(ctx context.Context, view *models.ItemView) error {
	if !c.isDown.Load() {
		err := c.primary.SetItemView(ctx, view)
		if err == nil {
			return nil
		}
		c.markDown(err)
	}
	return c.fallback.SetItemView(ctx, view)
}

func (c *FailoverViewCache) InvalidateItem(ctx context.Context, itemID int64) error {
	// Invalidation goes to both sides: a stale entry on either one would
	// survive a later failover in the opposite direction.
	var primaryErr error
	if !c.isDown.Load() {
		if primaryErr = c.primary.InvalidateItem(ctx, itemID); primaryErr != nil {
			c.markDown(primaryErr)
		}
	}
	if err := c.fallback.InvalidateItem(ctx, itemID); err != nil {
		return err
	}
	return primaryErr
}
