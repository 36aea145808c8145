package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedrolucas/crimson/internal/httpx"
)

func detailJSON(id int, name string) string {
	return fmt.Sprintf(`{
		"id": %d,
		"name": %q,
		"sprites": {
			"front_default": "https://img.example/%d-small.png",
			"other": {"official-artwork": {"front_default": "https://img.example/%d-art.png"}}
		},
		"types": [{"type": {"name": "grass"}}, {"type": {"name": "poison"}}],
		"height": 7,
		"weight": 69,
		"abilities": [{"ability": {"name": "overgrow"}}],
		"stats": [{"base_stat": 45, "stat": {"name": "hp"}}],
		"moves": [{}, {}, {}],
		"species": {"url": ""}
	}`, id, name, id, id)
}

func newCatalogServer(t *testing.T) (*Client, *httptest.Server) {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/pokemon":
			next := "null"
			if r.URL.Query().Get("offset") == "" {
				next = fmt.Sprintf("%q", srv.URL+"/pokemon?offset=2&limit=2")
			}
			fmt.Fprintf(w, `{"next": %s, "results": [
				{"name": "bulbasaur", "url": %q},
				{"name": "ivysaur", "url": %q}
			]}`, next, srv.URL+"/pokemon/1", srv.URL+"/pokemon/2")
		case "/pokemon/1":
			fmt.Fprint(w, detailJSON(1, "bulbasaur"))
		case "/pokemon/2":
			fmt.Fprint(w, detailJSON(2, "ivysaur"))
		case "/pokemon/3":
			fmt.Fprintf(w, `{
				"id": 3, "name": "venusaur",
				"sprites": {"front_default": "", "other": {"official-artwork": {"front_default": "https://img.example/3-art.png"}}},
				"types": [{"type": {"name": "grass"}}],
				"height": 20, "weight": 1000,
				"abilities": [{"ability": {"name": "overgrow"}}, {"ability": {"name": "chlorophyll"}}],
				"stats": [{"base_stat": 80, "stat": {"name": "hp"}}],
				"moves": [{}],
				"species": {"url": %q}
			}`, srv.URL+"/pokemon-species/3")
		case "/pokemon-species/3":
			fmt.Fprint(w, `{
				"flavor_text_entries": [
					{"flavor_text": "Uma flor.", "language": {"name": "pt"}},
					{"flavor_text": "A flower\fblooms on\nits back.", "language": {"name": "en"}}
				],
				"genera": [
					{"genus": "Seed Pokemon", "language": {"name": "en"}}
				]
			}`)
		default:
			http.NotFound(w, r)
		}
	}))
	return NewClient(httpx.New(srv.URL), 2), srv
}

func TestPageResolvesDetailsInListingOrder(t *testing.T) {
	client, srv := newCatalogServer(t)
	defer srv.Close()

	page, err := client.Page(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, page.Entries, 2)

	assert.Equal(t, "bulbasaur", page.Entries[0].Name)
	assert.Equal(t, "ivysaur", page.Entries[1].Name)
	assert.Equal(t, "https://img.example/1-art.png", page.Entries[0].ImageURL)
	assert.Equal(t, []string{"grass", "poison"}, page.Entries[0].Types)
	assert.Contains(t, page.Next, "offset=2")
}

func TestPageNullNextMeansExhausted(t *testing.T) {
	client, srv := newCatalogServer(t)
	defer srv.Close()

	page, err := client.Page(context.Background(), "")
	require.NoError(t, err)

	last, err := client.Page(context.Background(), page.Next)
	require.NoError(t, err)
	assert.Empty(t, last.Next)
}

func TestPageFailsWhenAnyDetailFails(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/pokemon":
			fmt.Fprintf(w, `{"next": null, "results": [
				{"name": "bulbasaur", "url": %q},
				{"name": "missingno", "url": %q}
			]}`, srv.URL+"/pokemon/1", srv.URL+"/pokemon/999")
		case "/pokemon/1":
			fmt.Fprint(w, detailJSON(1, "bulbasaur"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewClient(httpx.New(srv.URL), 2)
	_, err := client.Page(context.Background(), "")
	require.Error(t, err)
}

func TestDetailIncludesSpeciesText(t *testing.T) {
	client, srv := newCatalogServer(t)
	defer srv.Close()

	detail, err := client.Detail(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, "venusaur", detail.Name)
	assert.Equal(t, 20, detail.Height)
	assert.Equal(t, 1, detail.MoveCount)
	assert.Equal(t, []string{"overgrow", "chlorophyll"}, detail.Abilities)
	assert.Equal(t, "A flower blooms on its back.", detail.Description)
	assert.Equal(t, "Seed Pokemon", detail.Genus)
}

func TestDetailDefaultsWithoutSpecies(t *testing.T) {
	client, srv := newCatalogServer(t)
	defer srv.Close()

	detail, err := client.Detail(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "No description available.", detail.Description)
	assert.Equal(t, "Unknown", detail.Genus)
	assert.Equal(t, 3, detail.MoveCount)
}
