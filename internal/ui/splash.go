package ui

import (
	"time"

	"github.com/rivo/tview"
)

// splashDelay is how long the logo stays up before the login screen.
const splashDelay = 3 * time.Second

type splashScreen struct {
	timer *time.Timer
}

func (s *splashScreen) stop() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

const crimsonLogo = `
   █████████  ████████  ██ ██      ██  ████████  ████████  ██      ██
   ██         ██    ██  ██ ███    ███  ██        ██    ██  ███     ██
   ██         ████████  ██ ████  ████  ████████  ██    ██  ██ ██   ██
   ██         ██  ██    ██ ██  ██  ██        ██  ██    ██  ██   ██ ██
   █████████  ██   ██   ██ ██      ██  ████████  ████████  ██     ███

                         S  T  A  R     A  D  M  I  N
`

func (a *App) showSplash() {
	logo := tview.NewTextView().
		SetText(crimsonLogo).
		SetTextAlign(tview.AlignCenter)

	frame := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(tview.NewBox(), 0, 1, false).
		AddItem(logo, 0, 2, false).
		AddItem(tview.NewBox(), 0, 1, false)

	a.splash = &splashScreen{}
	a.splash.timer = time.AfterFunc(splashDelay, func() {
		a.queue(func() {
			a.showLogin()
		})
	})

	a.switchTo(pageSplash, frame)
}
