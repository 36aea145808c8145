package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/pedrolucas/crimson/internal/httpx"
	"github.com/pedrolucas/crimson/internal/models"
)

// Client reads the public creature catalog API.
type Client struct {
	http  *httpx.Client
	limit int
}

// NewClient creates a catalog client with the given page size.
func NewClient(h *httpx.Client, pageLimit int) *Client {
	if pageLimit <= 0 {
		pageLimit = 20
	}
	return &Client{http: h, limit: pageLimit}
}

// Page holds one loaded page: its entries in listing order plus the
// cursor of the following page ("" when the listing is exhausted).
type Page struct {
	Entries []models.CatalogEntry
	Next    string
}

type pageResponse struct {
	Next    *string `json:"next"`
	Results []struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"results"`
}

type detailResponse struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Sprites struct {
		FrontDefault string `json:"front_default"`
		Other        struct {
			OfficialArtwork struct {
				FrontDefault string `json:"front_default"`
			} `json:"official-artwork"`
		} `json:"other"`
	} `json:"sprites"`
	Types []struct {
		Type struct {
			Name string `json:"name"`
		} `json:"type"`
	} `json:"types"`
	Height    int `json:"height"`
	Weight    int `json:"weight"`
	Abilities []struct {
		Ability struct {
			Name string `json:"name"`
		} `json:"ability"`
	} `json:"abilities"`
	Stats []struct {
		BaseStat int `json:"base_stat"`
		Stat     struct {
			Name string `json:"name"`
		} `json:"stat"`
	} `json:"stats"`
	Moves   []json.RawMessage `json:"moves"`
	Species struct {
		URL string `json:"url"`
	} `json:"species"`
}

type speciesResponse struct {
	FlavorTextEntries []struct {
		FlavorText string `json:"flavor_text"`
		Language   struct {
			Name string `json:"name"`
		} `json:"language"`
	} `json:"flavor_text_entries"`
	Genera []struct {
		Genus    string `json:"genus"`
		Language struct {
			Name string `json:"name"`
		} `json:"language"`
	} `json:"genera"`
}

// Page fetches one listing page at the given cursor (the default first
// page when cursor is empty), then resolves every entry's detail
// concurrently. The page is returned only once all details resolved;
// a single failed detail fails the whole page.
func (c *Client) Page(ctx context.Context, cursor string) (*Page, error) {
	path := cursor
	if path == "" {
		path = fmt.Sprintf("/pokemon?limit=%d", c.limit)
	}

	var listing pageResponse
	if err := c.http.GetJSON(ctx, path, &listing); err != nil {
		return nil, fmt.Errorf("catalog page: %w", err)
	}

	entries := make([]models.CatalogEntry, len(listing.Results))
	errs := make([]error, len(listing.Results))

	var wg sync.WaitGroup
	for i, result := range listing.Results {
		wg.Add(1)
		go func(i int, detailURL string) {
			defer wg.Done()
			entries[i], errs[i] = c.entry(ctx, detailURL)
		}(i, result.URL)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("catalog entry: %w", err)
		}
	}

	page := &Page{Entries: entries}
	if listing.Next != nil {
		page.Next = *listing.Next
	}
	return page, nil
}

func (c *Client) entry(ctx context.Context, detailURL string) (models.CatalogEntry, error) {
	var detail detailResponse
	if err := c.http.GetJSON(ctx, detailURL, &detail); err != nil {
		return models.CatalogEntry{}, err
	}
	return entryFromDetail(detail), nil
}

func entryFromDetail(d detailResponse) models.CatalogEntry {
	image := d.Sprites.Other.OfficialArtwork.FrontDefault
	if image == "" {
		image = d.Sprites.FrontDefault
	}
	types := make([]string, 0, len(d.Types))
	for _, t := range d.Types {
		types = append(types, t.Type.Name)
	}
	return models.CatalogEntry{ID: d.ID, Name: d.Name, ImageURL: image, Types: types}
}

// Detail fetches the full record of one entry plus its species lookup,
// which contributes the English description and category label.
func (c *Client) Detail(ctx context.Context, id int) (*models.CatalogDetail, error) {
	var d detailResponse
	if err := c.http.GetJSON(ctx, fmt.Sprintf("/pokemon/%d", id), &d); err != nil {
		return nil, fmt.Errorf("catalog detail: %w", err)
	}

	out := &models.CatalogDetail{
		CatalogEntry: entryFromDetail(d),
		Height:       d.Height,
		Weight:       d.Weight,
		MoveCount:    len(d.Moves),
		Description:  "No description available.",
		Genus:        "Unknown",
	}
	for _, a := range d.Abilities {
		out.Abilities = append(out.Abilities, a.Ability.Name)
	}
	for _, s := range d.Stats {
		out.Stats = append(out.Stats, models.Stat{Name: s.Stat.Name, Value: s.BaseStat})
	}

	if d.Species.URL == "" {
		return out, nil
	}
	var species speciesResponse
	if err := c.http.GetJSON(ctx, d.Species.URL, &species); err != nil {
		return nil, fmt.Errorf("catalog species: %w", err)
	}
	for _, e := range species.FlavorTextEntries {
		if e.Language.Name == "en" {
			out.Description = collapseText(e.FlavorText)
			break
		}
	}
	for _, g := range species.Genera {
		if g.Language.Name == "en" {
			out.Genus = g.Genus
			break
		}
	}
	return out, nil
}

// collapseText folds the formfeed and newline control characters the
// species endpoint embeds in flavor text into single spaces.
func collapseText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
