package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/pedrolucas/crimson/internal/gacha"
	"github.com/pedrolucas/crimson/internal/httpx"
	"github.com/pedrolucas/crimson/internal/imageload"
	"github.com/pedrolucas/crimson/internal/models"
)

type itemsScreen struct {
	a      *App
	list   *tview.List
	detail *tview.TextView
	status *tview.TextView

	registry *imageload.Registry
	loaders  map[int]*imageload.Loader // keyed by item ID
	items    []models.GachaItem
}

func (a *App) showItems() {
	s := &itemsScreen{
		a:        a,
		list:     tview.NewList().ShowSecondaryText(true),
		detail:   tview.NewTextView().SetDynamicColors(true).SetWrap(true),
		status:   tview.NewTextView().SetDynamicColors(true),
		registry: imageload.NewRegistry(),
		loaders:  map[int]*imageload.Loader{},
	}
	a.itemsScreen = s

	s.list.SetBorder(true).SetTitle("Gacha Items")
	s.detail.SetBorder(true).SetTitle("Details")

	cols := tview.NewFlex().
		AddItem(s.list, 0, 1, true).
		AddItem(s.detail, 0, 1, false)

	main := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(cols, 0, 1, true).
		AddItem(s.status, 1, 0, false)

	s.list.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		s.onSelect(index)
	})

	a.switchTo(pageItems, main)
	a.screenInput = s.input
	a.app.SetFocus(s.list)
	s.refresh()
}

func (s *itemsScreen) stop() {
	for _, l := range s.loaders {
		l.Stop()
	}
	s.loaders = map[int]*imageload.Loader{}
}

func (s *itemsScreen) input(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() != tcell.KeyRune {
		return event
	}
	switch event.Rune() {
	case 'a':
		s.showForm(nil)
		return nil
	case 'e':
		if item := s.selected(); item != nil {
			s.showForm(item)
		}
		return nil
	case 'd':
		if item := s.selected(); item != nil {
			s.confirmDelete(*item)
		}
		return nil
	case 'r':
		if item := s.selected(); item != nil {
			if l, ok := s.loaders[item.ID]; ok {
				l.Retry()
			}
		}
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

func (s *itemsScreen) selected() *models.GachaItem {
	row := s.list.GetCurrentItem()
	if row < 0 || row >= len(s.items) {
		return nil
	}
	item := s.items[row]
	return &item
}

// refresh is the full list refresh: the failure registry is cleared
// exactly once here, never per item.
func (s *itemsScreen) refresh() {
	s.stop()
	s.registry.Clear()
	s.status.SetText("Loading items...")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.a.cfg.HTTPTimeout)
		defer cancel()

		err := s.a.items.List(ctx)
		s.a.queue(func() { s.afterLoad(err) })
	}()
}

func (s *itemsScreen) afterLoad(err error) {
	if s.a.itemsScreen != s {
		return
	}
	if errors.Is(err, gacha.ErrSessionExpired) {
		s.a.redirectToLogin("You need to log in again to see the items.")
		return
	}
	if err != nil {
		s.a.showError("Error", httpx.Display(err))
	}
	s.syncItems()
}

// syncItems rebuilds the card list from the controller's cached
// collection and gives every card its image load machine.
func (s *itemsScreen) syncItems() {
	s.items = s.a.items.Items()

	seen := map[int]bool{}
	for _, item := range s.items {
		seen[item.ID] = true
		if _, ok := s.loaders[item.ID]; ok {
			continue
		}
		id := item.ID
		loader := imageload.NewLoader(s.a.cfg.AssetBaseURL, item.Image, s.registry, s.a.fetch, func(imageload.State) {
			s.a.queue(func() {
				if s.a.itemsScreen == s {
					s.fillList()
				}
			})
		})
		s.loaders[id] = loader
		loader.Start()
	}
	for id, l := range s.loaders {
		if !seen[id] {
			l.Stop()
			delete(s.loaders, id)
		}
	}
	s.fillList()
}

func (s *itemsScreen) fillList() {
	selected := s.list.GetCurrentItem()
	s.list.Clear()

	for _, item := range s.items {
		state := imageload.State{}
		if l, ok := s.loaders[item.ID]; ok {
			state = l.State()
		}
		main := fmt.Sprintf("%s (ID: %d)", item.Name, item.ID)
		secondary := fmt.Sprintf("[%s]%s[-]  %s  drop %.2f%%  %s",
			rarityColor(item.Rarity), item.Rarity, item.Kind, item.DropRate, imageBadge(state))
		s.list.AddItem(main, secondary, 0, nil)
	}

	if selected >= 0 && selected < s.list.GetItemCount() {
		s.list.SetCurrentItem(selected)
	}
	s.updateStatus()
	s.onSelect(s.list.GetCurrentItem())
}

func (s *itemsScreen) onSelect(row int) {
	if row < 0 || row >= len(s.items) {
		s.detail.SetText("No items. Press a to create one.")
		return
	}
	item := s.items[row]
	state := imageload.State{}
	if l, ok := s.loaders[item.ID]; ok {
		state = l.State()
	}
	s.detail.SetText(itemText(item, state))
}

func (s *itemsScreen) updateStatus() {
	withImages := 0
	for _, item := range s.items {
		if item.Image != "" {
			withImages++
		}
	}
	s.status.SetText(fmt.Sprintf(
		"[::b]a[::-] add  [::b]e[::-] edit  [::b]d[::-] del  [::b]r[::-] retry image  [::b]R[::-] refresh  [::b]b[::-] back  %d items, %d with images",
		len(s.items), withImages))
}

func (s *itemsScreen) confirmDelete(item models.GachaItem) {
	message := fmt.Sprintf(
		"Delete %s (ID: %d)? This action is irreversible.", item.Name, item.ID)
	s.a.showConfirm(message, func() {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), s.a.cfg.HTTPTimeout)
			defer cancel()

			err := s.a.items.Remove(ctx, item.ID)
			s.a.queue(func() {
				if s.a.itemsScreen != s {
					return
				}
				if errors.Is(err, gacha.ErrSessionExpired) {
					s.a.redirectToLogin("You need to log in again to manage items.")
					return
				}
				if err != nil {
					s.a.showError("Error", httpx.Display(err))
					return
				}
				// The controller already dropped the record; no re-fetch.
				s.syncItems()
				s.a.showInfo("Success", fmt.Sprintf("Item %s was deleted.", item.Name), nil)
			})
		}()
	})
}

// showForm opens the create form (item == nil) or the edit form.
func (s *itemsScreen) showForm(item *models.GachaItem) {
	var form gacha.Form
	var imagePath string
	editing := item != nil
	if editing {
		form = gacha.FormFromItem(*item)
	} else {
		form.Rarity = models.RarityLendario
		form.Kind = models.KindPersonagem
	}

	rarityIndex := indexOfRarity(form.Rarity)
	kindIndex := indexOfKind(form.Kind)

	f := tview.NewForm()
	f.AddInputField("Name *", form.Name, 40, nil, func(t string) { form.Name = t })
	f.AddInputField("Title", form.Title, 40, nil, func(t string) { form.Title = t })
	f.AddDropDown("Rarity", rarityOptions(), rarityIndex, func(option string, index int) {
		if index >= 0 && index < len(models.Rarities) {
			form.Rarity = models.Rarities[index]
		}
	})
	f.AddDropDown("Kind", kindOptions(), kindIndex, func(option string, index int) {
		if index >= 0 && index < len(models.Kinds) {
			form.Kind = models.Kinds[index]
		}
	})
	f.AddInputField("Drop rate % *", form.DropRateText, 10, nil, func(t string) { form.DropRateText = t })
	f.AddTextArea("Description", form.Description, 40, 3, 0, func(t string) { form.Description = t })
	f.AddTextArea("Passives (one per line)", form.PassivesText, 40, 3, 0, func(t string) { form.PassivesText = t })
	f.AddTextArea("Abilities (one per line)", form.AbilitiesText, 40, 3, 0, func(t string) { form.AbilitiesText = t })
	if !editing {
		f.AddInputField("Image file", "", 40, nil, func(t string) { imagePath = t })
	}

	f.AddButton("Save", func() {
		s.submitForm(item, form, imagePath)
	})
	f.AddButton("Cancel", func() {
		s.a.pages.RemovePage("form")
		s.a.mode = ModeNormal
		s.a.app.SetFocus(s.list)
	})

	title := "New Item"
	if editing {
		title = fmt.Sprintf("Edit Item %d", item.ID)
	}
	f.SetBorder(true).SetTitle(title)
	s.a.pages.AddPage("form", f, true, true)
	s.a.app.SetFocus(f)
	s.a.mode = ModeForm
}

func (s *itemsScreen) submitForm(item *models.GachaItem, form gacha.Form, imagePath string) {
	asset, err := readImageAsset(imagePath)
	if err != nil {
		s.a.showError("Error", fmt.Sprintf("cannot read image file: %v", err))
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.a.cfg.HTTPTimeout)
		defer cancel()

		var opErr error
		if item == nil {
			opErr = s.a.items.Create(ctx, form, asset)
		} else {
			opErr = s.a.items.Update(ctx, item.ID, form)
		}

		s.a.queue(func() {
			if s.a.itemsScreen != s {
				return
			}
			if errors.Is(opErr, gacha.ErrSessionExpired) {
				s.a.redirectToLogin("You need to log in again to manage items.")
				return
			}
			var ve *gacha.ValidationError
			if errors.As(opErr, &ve) {
				// Local validation: the form stays open for the fix.
				s.a.showError("Validation Error", ve.Message)
				return
			}
			if opErr != nil {
				if httpx.IsValidation(opErr) {
					s.a.showError("Validation Error", httpx.Display(opErr))
					return
				}
				s.a.showError("Error", httpx.Display(opErr))
				return
			}

			s.a.pages.RemovePage("form")
			s.a.mode = ModeNormal
			s.a.app.SetFocus(s.list)
			verb := "created"
			if item != nil {
				verb = "updated"
			}
			s.a.showInfo("Success", fmt.Sprintf("Item %s.", verb), func() {
				s.refresh()
			})
		})
	}()
}

func readImageAsset(path string) (*models.ImageAsset, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &models.ImageAsset{Name: filepath.Base(path), Data: data}, nil
}

func itemText(item models.GachaItem, img imageload.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[::b]%s[::-] (ID: %d)\n", item.Name, item.ID)
	if item.Title != "" {
		fmt.Fprintf(&b, "%s\n", item.Title)
	}
	fmt.Fprintf(&b, "\n[%s]%s[-]  %s  drop %.2f%%\n\n", rarityColor(item.Rarity), item.Rarity, item.Kind, item.DropRate)
	if item.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", item.Description)
	} else {
		b.WriteString("No description.\n\n")
	}
	b.WriteString("[::b]Passives[::-]\n")
	writeBullets(&b, item.Passives)
	b.WriteString("\n[::b]Abilities[::-]\n")
	writeBullets(&b, item.Abilities)
	fmt.Fprintf(&b, "\nImage: %s", imageBadge(img))
	return b.String()
}

func writeBullets(b *strings.Builder, items []string) {
	if len(items) == 0 {
		b.WriteString("  N/A\n")
		return
	}
	for _, it := range items {
		fmt.Fprintf(b, "  • %s\n", it)
	}
}

func rarityColor(r models.Rarity) string {
	switch r {
	case models.RarityComum:
		return "gray"
	case models.RarityIncomum:
		return "white"
	case models.RarityRaro:
		return "green"
	case models.RarityEpico:
		return "purple"
	case models.RarityLendario:
		return "gold"
	default:
		return "red"
	}
}

func rarityOptions() []string {
	out := make([]string, len(models.Rarities))
	for i, r := range models.Rarities {
		out[i] = string(r)
	}
	return out
}

func kindOptions() []string {
	out := make([]string, len(models.Kinds))
	for i, k := range models.Kinds {
		out[i] = string(k)
	}
	return out
}

func indexOfRarity(r models.Rarity) int {
	for i, v := range models.Rarities {
		if v == r {
			return i
		}
	}
	return 0
}

func indexOfKind(k models.Kind) int {
	for i, v := range models.Kinds {
		if v == k {
			return i
		}
	}
	return 0
}
