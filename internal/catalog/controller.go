package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/pedrolucas/crimson/internal/models"
)

// PageLoader abstracts the catalog client so the controller can be
// tested without a network.
type PageLoader interface {
	Page(ctx context.Context, cursor string) (*Page, error)
}

// Controller owns the in-memory catalog collection: it loads pages,
// appends them in order, tracks the next-page cursor and derives the
// name-filtered view. Methods are safe for concurrent use; page loads
// block and are meant to be called off the UI goroutine.
type Controller struct {
	loader PageLoader

	mu      sync.Mutex
	entries []models.CatalogEntry
	query   string
	next    string
	loaded  bool // first page done
	stalled bool // a page failed or the listing is exhausted
	loading bool
	gen     int // refresh generation, stale responses are discarded
}

// NewController creates a controller over the given page loader.
func NewController(loader PageLoader) *Controller {
	return &Controller{loader: loader}
}

// Refresh discards the collection and loads the first page. A response
// belonging to an older refresh generation is dropped on arrival, so a
// slow stale page can never overwrite a newer refresh.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.entries = nil
	c.next = ""
	c.loaded = false
	c.stalled = false
	c.loading = true
	c.mu.Unlock()

	return c.load(ctx, gen, "")
}

// LoadMore loads the next page. It is a no-op while a load is in
// flight, after the listing reported no next cursor, and after a page
// failure until the next Refresh.
func (c *Controller) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if c.loading || !c.loaded || c.stalled || c.next == "" {
		c.mu.Unlock()
		return nil
	}
	gen := c.gen
	cursor := c.next
	c.loading = true
	c.mu.Unlock()

	return c.load(ctx, gen, cursor)
}

func (c *Controller) load(ctx context.Context, gen int, cursor string) error {
	page, err := c.loader.Page(ctx, cursor)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		// A newer refresh superseded this request.
		return nil
	}
	c.loading = false

	if err != nil {
		// Existing collection stays untouched; auto-loading stops.
		c.stalled = true
		return err
	}

	c.entries = append(c.entries, page.Entries...)
	c.next = page.Next
	c.loaded = true
	if page.Next == "" {
		c.stalled = true
	}
	return nil
}

// SetQuery updates the client-side name filter. Filtering never
// triggers a network request.
func (c *Controller) SetQuery(q string) {
	c.mu.Lock()
	c.query = q
	c.mu.Unlock()
}

// Entries returns the filtered view of the collection: case-insensitive
// substring match on the display name, or the whole collection when the
// query is empty.
func (c *Controller) Entries() []models.CatalogEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.query == "" {
		out := make([]models.CatalogEntry, len(c.entries))
		copy(out, c.entries)
		return out
	}

	q := strings.ToLower(c.query)
	var out []models.CatalogEntry
	for _, e := range c.entries {
		if strings.Contains(strings.ToLower(e.Name), q) {
			out = append(out, e)
		}
	}
	return out
}

// All returns a copy of the unfiltered collection.
func (c *Controller) All() []models.CatalogEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.CatalogEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the unfiltered collection size.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Loading reports whether a page load is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// CanLoadMore reports whether a LoadMore call would do anything.
func (c *Controller) CanLoadMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded && !c.loading && !c.stalled && c.next != ""
}
