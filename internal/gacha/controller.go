package gacha

import (
	"context"
	"errors"
	"sync"

	"github.com/pedrolucas/crimson/internal/httpx"
	"github.com/pedrolucas/crimson/internal/models"
	"github.com/pedrolucas/crimson/internal/repository"
)

// ErrSessionExpired tells the UI to drop to the login screen. It is
// returned instead of a displayable error: the session was already
// torn down and no generic alert should be shown.
var ErrSessionExpired = errors.New("session expired")

// ItemAPI abstracts the item client for tests.
type ItemAPI interface {
	List(ctx context.Context) ([]models.GachaItem, error)
	Create(ctx context.Context, item models.GachaItem, asset *models.ImageAsset) error
	Update(ctx context.Context, id int, item models.GachaItem) error
	Remove(ctx context.Context, id int) error
}

// Controller drives the item admin screen: it owns the cached item
// collection and applies the uniform session/error policy to every
// operation. Field validation happens here, before any network call.
type Controller struct {
	api     ItemAPI
	session repository.SessionRepository

	mu    sync.Mutex
	items []models.GachaItem
}

// NewController creates a controller over the given API and token store.
func NewController(api ItemAPI, session repository.SessionRepository) *Controller {
	return &Controller{api: api, session: session}
}

// List refreshes the cached collection. A missing or unreadable stored
// token short-circuits to ErrSessionExpired without issuing a request.
func (c *Controller) List(ctx context.Context) error {
	if err := c.requireToken(); err != nil {
		return err
	}

	items, err := c.api.List(ctx)
	if err != nil {
		return c.mapErr(err)
	}

	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
	return nil
}

// Items returns a copy of the cached collection.
func (c *Controller) Items() []models.GachaItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.GachaItem, len(c.items))
	copy(out, c.items)
	return out
}

// Create validates the form and submits a new item. Validation
// failures are field-specific and produce zero network calls.
func (c *Controller) Create(ctx context.Context, form Form, asset *models.ImageAsset) error {
	item, err := form.Validate()
	if err != nil {
		return err
	}
	if err := c.requireToken(); err != nil {
		return err
	}
	if err := c.api.Create(ctx, item, asset); err != nil {
		return c.mapErr(err)
	}
	return nil
}

// Update validates the form and submits a full-record replacement.
func (c *Controller) Update(ctx context.Context, id int, form Form) error {
	item, err := form.Validate()
	if err != nil {
		return err
	}
	if err := c.requireToken(); err != nil {
		return err
	}
	if err := c.api.Update(ctx, id, item); err != nil {
		return c.mapErr(err)
	}
	return nil
}

// Remove deletes the record. The caller is responsible for the
// destructive-action confirmation step. On success the record is
// dropped from the cached collection without a re-fetch.
func (c *Controller) Remove(ctx context.Context, id int) error {
	if err := c.requireToken(); err != nil {
		return err
	}
	if err := c.api.Remove(ctx, id); err != nil {
		return c.mapErr(err)
	}

	c.mu.Lock()
	kept := c.items[:0]
	for _, it := range c.items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	c.items = kept
	c.mu.Unlock()
	return nil
}

func (c *Controller) requireToken() error {
	token, err := c.session.Token()
	if err != nil || token == "" {
		return ErrSessionExpired
	}
	return nil
}

// mapErr applies the uniform error policy: an unauthorized response
// clears the stored token and becomes ErrSessionExpired; everything
// else passes through for display coercion at the call site.
func (c *Controller) mapErr(err error) error {
	if httpx.IsUnauthorized(err) {
		_ = c.session.Clear()
		return ErrSessionExpired
	}
	return err
}
