package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"github.com/oukeidos/desksort/internal/logger"
)

// windowController serves the window channels. Fyne cannot iconify a
// window, so minimize hides it and the tray menu brings it back.
type windowController struct {
	app    fyne.App
	window fyne.Window
	tray   bool
}

func newWindowController(a fyne.App, w fyne.Window, icon fyne.Resource) *windowController {
	wc := &windowController{app: a, window: w}
	if desk, ok := a.(desktop.App); ok {
		desk.SetSystemTrayMenu(fyne.NewMenu("desksort",
			fyne.NewMenuItem("Show desksort", wc.restore),
		))
		desk.SetSystemTrayIcon(icon)
		wc.tray = true
	}
	return wc
}

func (wc *windowController) restore() {
	fyne.Do(func() {
		wc.window.Show()
		wc.window.RequestFocus()
	})
}

func (wc *windowController) Minimize() {
	if !wc.tray {
		logger.Warn("minimize ignored: no system tray available")
		return
	}
	fyne.Do(wc.window.Hide)
}

func (wc *windowController) Maximize() {
	fyne.Do(func() {
		wc.window.SetFullScreen(!wc.window.FullScreen())
	})
}

func (wc *windowController) Close() {
	fyne.Do(wc.app.Quit)
}
