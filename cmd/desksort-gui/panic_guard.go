package main

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"

	"github.com/oukeidos/desksort/internal/logger"
)

// guarded runs fn and turns a panic into a log record plus an optional
// callback. It reports whether fn panicked.
func guarded(scope string, onPanic func(any), fn func()) (panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			panicked = true
			logger.Error("Recovered panic", "scope", scope, "panic", fmt.Sprint(r))
			if onPanic != nil {
				onPanic(r)
			}
		}
	}()
	fn()
	return false
}

// safeGo runs fn on a new goroutine; backend calls never block the UI.
func (a *deskApp) safeGo(scope string, fn func()) {
	go guarded(scope, a.panicHandler(scope), fn)
}

// safeDo queues fn on the UI goroutine.
func (a *deskApp) safeDo(scope string, fn func()) {
	guarded(scope+".dispatch", a.panicHandler(scope+".dispatch"), func() {
		fyne.Do(func() {
			guarded(scope, a.panicHandler(scope), fn)
		})
	})
}

func (a *deskApp) panicHandler(scope string) func(any) {
	if a == nil {
		return nil
	}
	return func(any) { a.recovered(scope) }
}

// recovered releases the busy state and tells the user once per session.
func (a *deskApp) recovered(scope string) {
	a.mu.Lock()
	a.busy = false
	a.mu.Unlock()
	if fyne.CurrentApp() == nil || a.window == nil {
		return
	}
	a.panicNoticeOnce.Do(func() {
		a.safeDo("panic.notice", func() {
			if a.progress != nil {
				a.progress.Stop()
				a.progress.Hide()
			}
			a.syncButtons(false)
			dialog.ShowInformation(
				"Unexpected Error",
				"An internal error stopped "+scope+". Please retry. If this repeats, restart desksort.",
				a.window,
			)
		})
	})
}
