package ui

import (
	"net/http"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/pedrolucas/crimson/internal/catalog"
	"github.com/pedrolucas/crimson/internal/config"
	"github.com/pedrolucas/crimson/internal/gacha"
	"github.com/pedrolucas/crimson/internal/imageload"
	"github.com/pedrolucas/crimson/internal/session"
)

const (
	ModeNormal = 1
	ModeSearch = 2
	ModeForm   = 3
	ModeModal  = 4
)

// Screen page names.
const (
	pageSplash   = "splash"
	pageLogin    = "login"
	pageRegister = "register"
	pageHome     = "home"
	pageCatalog  = "catalog"
	pageItems    = "items"
	pageRoster   = "roster"
)

// App represents the TUI application
type App struct {
	app   *tview.Application
	pages *tview.Pages
	mode  uint8

	cfg     *config.Config
	session *session.Manager
	catalog *catalog.Controller
	details *catalog.Client
	items   *gacha.Controller
	fetch   imageload.Fetcher

	catalogScreen *catalogScreen
	itemsScreen   *itemsScreen
	splash        *splashScreen

	// screenInput is the active screen's key handler, consulted before
	// the app-level fallbacks.
	screenInput func(event *tcell.EventKey) *tcell.EventKey
}

// NewApp creates a new application instance
func NewApp(cfg *config.Config, sess *session.Manager, catalogCtl *catalog.Controller, details *catalog.Client, items *gacha.Controller) *App {
	return &App{
		app:     tview.NewApplication(),
		pages:   tview.NewPages(),
		mode:    ModeNormal,
		cfg:     cfg,
		session: sess,
		catalog: catalogCtl,
		details: details,
		items:   items,
		fetch:   imageload.HTTPFetcher(&http.Client{Timeout: cfg.HTTPTimeout}),
	}
}

// Run starts the application
func (a *App) Run() error {
	a.showSplash()
	a.app.SetRoot(a.pages, true)
	a.app.SetInputCapture(a.globalInput)
	return a.app.Run()
}

// allPageNames is every page the app ever adds: the screens plus the
// transient overlays (modals and the item form). switchTo clears them
// all; removing an absent page is a no-op.
var allPageNames = []string{
	pageSplash, pageLogin, pageRegister, pageHome,
	pageCatalog, pageItems, pageRoster,
	"form", "confirm", "error", "info",
}

// switchTo tears down the current screen and shows the named page.
func (a *App) switchTo(name string, p tview.Primitive) {
	a.teardownScreens(name)
	for _, page := range allPageNames {
		a.pages.RemovePage(page)
	}
	a.pages.AddPage(name, p, true, true)
	a.mode = ModeNormal
	a.screenInput = nil
}

// teardownScreens stops the timers and image loaders of every screen
// other than the one being shown, so nothing updates after unmount.
func (a *App) teardownScreens(keep string) {
	if a.splash != nil && keep != pageSplash {
		a.splash.stop()
		a.splash = nil
	}
	if a.catalogScreen != nil && keep != pageCatalog {
		a.catalogScreen.stop()
		a.catalogScreen = nil
	}
	if a.itemsScreen != nil && keep != pageItems {
		a.itemsScreen.stop()
		a.itemsScreen = nil
	}
}

func (a *App) globalInput(event *tcell.EventKey) *tcell.EventKey {
	// Modal windows and forms handle their own keys.
	if a.pages.HasPage("confirm") || a.pages.HasPage("error") || a.pages.HasPage("info") {
		return event
	}

	switch a.mode {
	case ModeNormal:
		if a.screenInput != nil {
			if a.screenInput(event) == nil {
				return nil
			}
		}
		if event.Key() == tcell.KeyRune && event.Rune() == 'q' {
			if front, _ := a.pages.GetFrontPage(); front == pageHome || front == pageLogin {
				a.app.Stop()
				return nil
			}
		}
	case ModeSearch:
		// The focused search field owns the keyboard.
	case ModeForm:
		if event.Key() == tcell.KeyEscape {
			a.pages.RemovePage("form")
			a.mode = ModeNormal
			if a.itemsScreen != nil {
				a.app.SetFocus(a.itemsScreen.list)
			}
		}
	}
	return event
}

// redirectToLogin is the uniform session-expiry path: every screen
// lands here when an authenticated call reports 401 or the stored
// token is gone.
func (a *App) redirectToLogin(message string) {
	a.showLogin()
	if message != "" {
		a.showError("Session Expired", message)
	}
}

// showError shows a modal with a title and message
func (a *App) showError(title, message string) {
	a.showModal("error", title, message, nil)
}

// showInfo shows a success/notice modal
func (a *App) showInfo(title, message string, onClose func()) {
	a.showModal("info", title, message, onClose)
}

func (a *App) showModal(name, title, message string, onClose func()) {
	previous := a.mode
	modal := tview.NewModal().
		SetText(message).
		AddButtons([]string{"OK"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			a.pages.RemovePage(name)
			a.mode = previous
			if onClose != nil {
				onClose()
			}
		})

	modal.SetBorder(true).SetTitle(title)
	a.pages.AddPage(name, modal, true, true)
	a.mode = ModeModal
	a.app.SetFocus(modal)
}

func (a *App) showConfirm(message string, onConfirm func()) {
	previous := a.mode
	modal := tview.NewModal().
		SetText(message).
		AddButtons([]string{"Cancel", "Delete"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			a.pages.RemovePage("confirm")
			a.mode = previous
			if buttonIndex == 1 && onConfirm != nil {
				onConfirm()
			}
		})

	modal.SetBorder(true).SetTitle("Confirm")
	a.pages.AddPage("confirm", modal, true, true)
	a.mode = ModeModal
	a.app.SetFocus(modal)
}

// queue marshals a UI mutation onto the event loop from a worker
// goroutine.
func (a *App) queue(fn func()) {
	a.app.QueueUpdateDraw(fn)
}
