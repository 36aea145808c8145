package ui

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rivo/tview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedrolucas/crimson/internal/catalog"
	"github.com/pedrolucas/crimson/internal/httpx"
	"github.com/pedrolucas/crimson/internal/imageload"
	"github.com/pedrolucas/crimson/internal/models"
)

// stubPages serves one fixed page with no next cursor.
type stubPages struct{ entries []models.CatalogEntry }

func (s stubPages) Page(context.Context, string) (*catalog.Page, error) {
	return &catalog.Page{Entries: s.entries}, nil
}

func newCatalogScreen(t *testing.T, entries []models.CatalogEntry, detailSrv *httptest.Server) *catalogScreen {
	t.Helper()

	ctl := catalog.NewController(stubPages{entries: entries})
	require.NoError(t, ctl.Refresh(context.Background()))

	a := testApp()
	a.catalog = ctl
	a.details = catalog.NewClient(httpx.New(detailSrv.URL), 20)

	s := &catalogScreen{
		a:        a,
		list:     tview.NewList().ShowSecondaryText(true),
		detail:   tview.NewTextView(),
		search:   tview.NewInputField().SetLabel("Search: "),
		status:   tview.NewTextView(),
		registry: imageload.NewRegistry(),
		details:  map[int]*models.CatalogDetail{},
	}
	a.catalogScreen = s
	return s
}

func TestEmptySearchShowsWholeCollectionDespiteStaleQuery(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	entries := []models.CatalogEntry{
		{ID: 1, Name: "bulbasaur"},
		{ID: 2, Name: "ivysaur"},
		{ID: 3, Name: "charmander"},
	}
	s := newCatalogScreen(t, entries, srv)

	// A previous visit left a filter on the shared controller; the new
	// screen's search box is empty.
	s.a.catalog.SetQuery("saur")
	s.fillList()

	assert.Len(t, s.visible, 3)
	assert.Len(t, s.indexMap, 3)
	assert.Equal(t, 3, s.list.GetItemCount())
}

func TestVisibleAndIndexMapStayInLockstep(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	entries := []models.CatalogEntry{
		{ID: 1, Name: "bulbasaur"},
		{ID: 2, Name: "charmander"},
		{ID: 3, Name: "ivysaur"},
	}
	s := newCatalogScreen(t, entries, srv)

	s.search.SetText("saur")
	s.fillList()

	require.Len(t, s.visible, 2)
	require.Len(t, s.indexMap, 2)
	assert.Equal(t, "bulbasaur", s.visible[0].Name)
	assert.Equal(t, 0, s.indexMap[0])
	assert.Equal(t, "ivysaur", s.visible[1].Name)
	assert.Equal(t, 2, s.indexMap[1])
}

func TestRepaintDoesNotRefetchSelectedDetail(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		fmt.Fprint(w, `{"id": 1, "name": "bulbasaur", "species": {"url": ""}}`)
	}))
	defer srv.Close()

	entries := []models.CatalogEntry{{ID: 1, Name: "bulbasaur"}}
	s := newCatalogScreen(t, entries, srv)

	s.fillList()
	s.fillList() // image-state repaint
	s.onSelect(0)

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&hits) == 1
	}, time.Second, 10*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}
