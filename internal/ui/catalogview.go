package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/pedrolucas/crimson/internal/httpx"
	"github.com/pedrolucas/crimson/internal/imageload"
	"github.com/pedrolucas/crimson/internal/models"
)

// loadMoreThreshold is how close to the list end the selection must be
// before the next page is requested.
const loadMoreThreshold = 5

type catalogScreen struct {
	a      *App
	list   *tview.List
	detail *tview.TextView
	search *tview.InputField
	status *tview.TextView

	registry *imageload.Registry
	loaders  []*imageload.Loader // parallel to the unfiltered collection
	visible  []models.CatalogEntry
	// indexMap maps visible row -> position in the unfiltered collection.
	indexMap []int

	// details caches fetched detail records by entry ID for the life of
	// the listing session; pendingDetail is the ID of the in-flight
	// lookup, so repaints never re-fetch the selected entry.
	details       map[int]*models.CatalogDetail
	pendingDetail int
}

func (a *App) showCatalog() {
	s := &catalogScreen{
		a:        a,
		list:     tview.NewList().ShowSecondaryText(true),
		detail:   tview.NewTextView().SetDynamicColors(true).SetWrap(true),
		search:   tview.NewInputField().SetLabel("Search: "),
		status:   tview.NewTextView().SetDynamicColors(true),
		registry: imageload.NewRegistry(),
		details:  map[int]*models.CatalogDetail{},
	}
	a.catalogScreen = s

	// The controller outlives the screen; drop any query a previous
	// visit left behind so it matches the empty search box.
	a.catalog.SetQuery(s.search.GetText())

	s.list.SetBorder(true).SetTitle("Pokedex")
	s.detail.SetBorder(true).SetTitle("Details")

	cols := tview.NewFlex().
		AddItem(s.list, 0, 2, true).
		AddItem(s.detail, 0, 1, false)

	main := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(s.search, 1, 0, false).
		AddItem(cols, 0, 1, true).
		AddItem(s.status, 1, 0, false)

	s.search.SetChangedFunc(func(text string) {
		a.catalog.SetQuery(text)
		s.fillList()
	})
	s.search.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEscape {
			s.search.SetText("")
			a.catalog.SetQuery("")
			s.fillList()
		}
		a.mode = ModeNormal
		a.app.SetFocus(s.list)
	})
	s.list.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		s.onSelect(index)
	})

	a.switchTo(pageCatalog, main)
	a.screenInput = s.input
	a.app.SetFocus(s.list)
	s.refresh()
}

func (s *catalogScreen) stop() {
	for _, l := range s.loaders {
		if l != nil {
			l.Stop()
		}
	}
	s.loaders = nil
}

func (s *catalogScreen) input(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() != tcell.KeyRune {
		return event
	}
	switch event.Rune() {
	case '/':
		s.a.mode = ModeSearch
		s.a.app.SetFocus(s.search)
		return nil
	case 'm':
		s.loadMore()
		return nil
	case 'r':
		s.retrySelectedImage()
		return nil
	case 'R':
		s.refresh()
		return nil
	case 'b':
		s.a.showHome()
		return nil
	}
	return event
}

// refresh restarts the listing session: image loaders are torn down,
// the failure registry is cleared once, and the first page is loaded.
func (s *catalogScreen) refresh() {
	s.stop()
	s.registry.Clear()
	s.details = map[int]*models.CatalogDetail{}
	s.pendingDetail = 0
	s.setStatus("Loading catalog...")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.a.cfg.HTTPTimeout)
		defer cancel()

		err := s.a.catalog.Refresh(ctx)
		s.a.queue(func() { s.afterLoad(err) })
	}()
}

func (s *catalogScreen) loadMore() {
	if !s.a.catalog.CanLoadMore() {
		return
	}
	s.setStatus("Loading more...")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.a.cfg.HTTPTimeout)
		defer cancel()

		err := s.a.catalog.LoadMore(ctx)
		s.a.queue(func() { s.afterLoad(err) })
	}()
}

func (s *catalogScreen) afterLoad(err error) {
	if s.a.catalogScreen != s {
		return // screen was left while the page was in flight
	}
	if err != nil {
		s.a.showError("Error", httpx.Display(err))
	}
	s.syncLoaders()
	s.fillList()
}

// syncLoaders gives every newly appended entry its own image load
// state machine, sharing the screen's failure registry.
func (s *catalogScreen) syncLoaders() {
	all := s.a.catalog.All()
	for i := len(s.loaders); i < len(all); i++ {
		entry := all[i]
		loader := imageload.NewLoader("", entry.ImageURL, s.registry, s.a.fetch, func(imageload.State) {
			s.a.queue(func() {
				if s.a.catalogScreen == s {
					s.fillList()
				}
			})
		})
		s.loaders = append(s.loaders, loader)
		loader.Start()
	}
}

func (s *catalogScreen) fillList() {
	selected := s.list.GetCurrentItem()

	// One pass over one query source keeps visible and indexMap in
	// lockstep, row for row.
	all := s.a.catalog.All()
	s.visible = s.visible[:0]
	s.indexMap = s.indexMap[:0]
	for i, e := range all {
		if s.matchesQuery(e) {
			s.visible = append(s.visible, e)
			s.indexMap = append(s.indexMap, i)
		}
	}

	s.list.Clear()
	for row, e := range s.visible {
		state := s.loaderState(row)
		main := fmt.Sprintf("#%03d %s", e.ID, capitalize(e.Name))
		secondary := fmt.Sprintf("%s  %s", strings.Join(e.Types, "/"), imageBadge(state))
		s.list.AddItem(main, secondary, 0, nil)
	}

	if selected >= 0 && selected < s.list.GetItemCount() {
		s.list.SetCurrentItem(selected)
	}
	s.updateStatus()
	s.onSelect(s.list.GetCurrentItem())
}

func (s *catalogScreen) matchesQuery(e models.CatalogEntry) bool {
	q := strings.ToLower(s.search.GetText())
	return q == "" || strings.Contains(strings.ToLower(e.Name), q)
}

func (s *catalogScreen) loaderState(row int) imageload.State {
	if row < 0 || row >= len(s.indexMap) {
		return imageload.State{}
	}
	idx := s.indexMap[row]
	if idx >= len(s.loaders) || s.loaders[idx] == nil {
		return imageload.State{}
	}
	return s.loaders[idx].State()
}

func (s *catalogScreen) onSelect(row int) {
	if row < 0 || row >= len(s.visible) {
		s.detail.SetText("")
		return
	}
	entry := s.visible[row]
	state := s.loaderState(row)

	if detail, ok := s.details[entry.ID]; ok {
		s.detail.SetText(detailText(detail, state))
	} else {
		s.detail.SetText(entryText(entry, state))
		if s.pendingDetail != entry.ID {
			s.pendingDetail = entry.ID
			go s.fetchDetail(entry.ID)
		}
	}

	// Nearing the end of the rendered list pulls the next page in.
	if len(s.visible) > 0 && row >= len(s.visible)-loadMoreThreshold {
		s.loadMore()
	}
}

func (s *catalogScreen) fetchDetail(id int) {
	ctx, cancel := context.WithTimeout(context.Background(), s.a.cfg.HTTPTimeout)
	defer cancel()

	detail, err := s.a.details.Detail(ctx, id)
	s.a.queue(func() {
		if s.a.catalogScreen != s {
			return
		}
		if err != nil {
			// The summary already on screen is good enough; allow a
			// later reselection to try again.
			if s.pendingDetail == id {
				s.pendingDetail = 0
			}
			return
		}
		s.details[id] = detail
		row := s.list.GetCurrentItem()
		if row >= 0 && row < len(s.visible) && s.visible[row].ID == id {
			s.detail.SetText(detailText(detail, s.loaderState(row)))
		}
	})
}

func (s *catalogScreen) retrySelectedImage() {
	row := s.list.GetCurrentItem()
	if row < 0 || row >= len(s.indexMap) {
		return
	}
	idx := s.indexMap[row]
	if idx < len(s.loaders) && s.loaders[idx] != nil {
		s.loaders[idx].Retry()
	}
}

func (s *catalogScreen) setStatus(text string) {
	s.status.SetText(text)
}

func (s *catalogScreen) updateStatus() {
	more := ""
	if s.a.catalog.CanLoadMore() {
		more = "  [::b]m[::-] more"
	}
	s.status.SetText(fmt.Sprintf(
		"[::b]/[::-] search%s  [::b]r[::-] retry image  [::b]R[::-] refresh  [::b]b[::-] back  [::b]%d[::-] shown / %d loaded",
		more, len(s.visible), s.a.catalog.Len()))
}

func entryText(e models.CatalogEntry, img imageload.State) string {
	return fmt.Sprintf(
		"[::b]#%03d %s[::-]\n\nTypes: %s\n\nArtwork: %s",
		e.ID, capitalize(e.Name), strings.Join(e.Types, ", "), imageBadge(img))
}

func detailText(d *models.CatalogDetail, img imageload.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[::b]#%03d %s[::-]\n%s\n\n", d.ID, capitalize(d.Name), d.Genus)
	fmt.Fprintf(&b, "%s\n\n", d.Description)
	fmt.Fprintf(&b, "Types: %s\n", strings.Join(d.Types, ", "))
	fmt.Fprintf(&b, "Height: %.1f m   Weight: %.1f kg\n", float64(d.Height)/10, float64(d.Weight)/10)
	fmt.Fprintf(&b, "Abilities: %s\n", strings.Join(d.Abilities, ", "))
	fmt.Fprintf(&b, "Moves: %d\n\n", d.MoveCount)
	for _, st := range d.Stats {
		fmt.Fprintf(&b, "%-16s %3d %s\n", st.Name, st.Value, statBar(st.Value))
	}
	fmt.Fprintf(&b, "\nArtwork: %s", imageBadge(img))
	return b.String()
}

func statBar(value int) string {
	n := value / 10
	if n > 15 {
		n = 15
	}
	return strings.Repeat("█", n)
}

// imageBadge renders an image load state as a short inline badge.
func imageBadge(s imageload.State) string {
	switch {
	case s.IsLoading():
		return fmt.Sprintf("[yellow]loading (try %d)[-]", s.RetryCount+1)
	case s.Phase == imageload.PhaseLoaded:
		return "[green]image ok[-]"
	case s.Failed():
		return fmt.Sprintf("[red]no image (%s), press r to retry[-]", s.Reason)
	default:
		return ""
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
