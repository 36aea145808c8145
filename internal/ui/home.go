package ui

import (
	"github.com/rivo/tview"
)

func (a *App) showHome() {
	menu := tview.NewList().
		AddItem("Pokedex", "Browse the public creature catalog", 'p', func() {
			a.showCatalog()
		}).
		AddItem("Gacha Items", "Manage items and characters", 'g', func() {
			a.showItems()
		}).
		AddItem("Characters", "Featured character roster", 'c', func() {
			a.showRoster()
		}).
		AddItem("Logout", "Clear the session and return to login", 'l', func() {
			_ = a.session.Logout()
			a.showLogin()
		}).
		AddItem("Quit", "Exit the application", 'q', func() {
			a.app.Stop()
		})

	menu.SetBorder(true).SetTitle("Crimson Star Admin")
	a.switchTo(pageHome, center(menu, 64, 14))
	a.app.SetFocus(menu)
}
