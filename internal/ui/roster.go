package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// featuredCharacters is the static showcase roster. It lives client
// side only; nothing fetches or persists it.
var featuredCharacters = []string{
	"Poco",
	"Barril de Goblins",
	"Pedro Lucas",
	"Taco de Baseball",
	"Wriothesley",
}

func (a *App) showRoster() {
	list := tview.NewList()
	for _, name := range featuredCharacters {
		character := name
		list.AddItem(character, "", 0, func() {
			a.showInfo("You selected", character, nil)
		})
	}

	list.SetBorder(true).SetTitle("Characters")
	a.switchTo(pageRoster, center(list, 50, len(featuredCharacters)*2+2))
	a.screenInput = func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyRune && event.Rune() == 'b' {
			a.showHome()
			return nil
		}
		return event
	}
	a.app.SetFocus(list)
}
