package ui

import (
	"context"
	"time"

	"github.com/rivo/tview"

	"github.com/pedrolucas/crimson/internal/httpx"
)

func (a *App) showLogin() {
	var email, password string

	form := tview.NewForm()
	form.AddInputField("Email", "", 40, nil, func(t string) { email = t })
	form.AddPasswordField("Password", "", 40, '*', func(t string) { password = t })
	form.AddButton("Sign In", func() {
		a.doLogin(email, password)
	})
	form.AddButton("Create Account", func() {
		a.showRegister()
	})
	form.AddButton("Quit", func() {
		a.app.Stop()
	})

	form.SetBorder(true).SetTitle("Crimson Star / Login")
	a.switchTo(pageLogin, center(form, 60, 13))
	a.app.SetFocus(form)
}

func (a *App) doLogin(email, password string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPTimeout)
		defer cancel()

		err := a.session.Login(ctx, email, password)
		a.queue(func() {
			if err != nil {
				a.showError("Login Failed", httpx.Display(err))
				return
			}
			a.showHome()
		})
	}()
}

func (a *App) showRegister() {
	var name, email, password, confirmation string

	form := tview.NewForm()
	form.AddInputField("Name", "", 40, nil, func(t string) { name = t })
	form.AddInputField("Email", "", 40, nil, func(t string) { email = t })
	form.AddPasswordField("Password", "", 40, '*', func(t string) { password = t })
	form.AddPasswordField("Confirm Password", "", 40, '*', func(t string) { confirmation = t })
	form.AddButton("Register", func() {
		a.doRegister(name, email, password, confirmation)
	})
	form.AddButton("Back", func() {
		a.showLogin()
	})

	form.SetBorder(true).SetTitle("Create your account")
	a.switchTo(pageRegister, center(form, 60, 15))
	a.app.SetFocus(form)
}

func (a *App) doRegister(name, email, password, confirmation string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPTimeout)
		defer cancel()

		message, err := a.session.Register(ctx, name, email, password, confirmation)
		a.queue(func() {
			if err != nil {
				a.showError("Registration Failed", httpx.Display(err))
				return
			}
			a.showInfo("Success", message, nil)
			// Return to login once the confirmation has had a moment
			// on screen, as the original flow did.
			time.AfterFunc(2*time.Second, func() {
				a.queue(func() {
					if front, _ := a.pages.GetFrontPage(); front == pageRegister || front == "info" {
						a.showLogin()
					}
				})
			})
		})
	}()
}

// center wraps a primitive in a fixed-size centered frame.
func center(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(tview.NewBox(), 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(tview.NewBox(), 0, 1, false).
			AddItem(p, height, 0, true).
			AddItem(tview.NewBox(), 0, 1, false), width, 0, true).
		AddItem(tview.NewBox(), 0, 1, false)
}
