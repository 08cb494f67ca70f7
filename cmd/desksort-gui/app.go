package main

import (
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/oukeidos/desksort/internal/ipc"
	"github.com/oukeidos/desksort/internal/models"
	"github.com/oukeidos/desksort/internal/render"
)

const (
	appButtonWidth  = 220
	appButtonHeight = 44
	appNameWidth    = 24
)

type deskApp struct {
	window  fyne.Window
	invoker ipc.Invoker

	accordion   *widget.Accordion
	emptyHint   *widget.Label
	status      *widget.Label
	progress    *widget.ProgressBarInfinite
	scanBtn     *widget.Button
	classifyBtn *widget.Button
	resetBtn    *widget.Button

	mu              sync.Mutex
	busy            bool
	icons           iconCache
	panicNoticeOnce sync.Once
}

func newDeskApp(w fyne.Window, invoker ipc.Invoker) *deskApp {
	return &deskApp{window: w, invoker: invoker}
}

// build creates the widgets; it must run on the UI goroutine.
func (a *deskApp) build() fyne.CanvasObject {
	a.scanBtn = widget.NewButtonWithIcon("Scan", theme.SearchIcon(), a.scan)
	a.classifyBtn = widget.NewButtonWithIcon("Classify", theme.ListIcon(), a.classify)
	a.classifyBtn.Importance = widget.HighImportance
	a.resetBtn = widget.NewButtonWithIcon("Reset", theme.DeleteIcon(), a.confirmReset)

	minimize := widget.NewButtonWithIcon("", theme.ContentRemoveIcon(), func() { a.send(ipc.ChannelMinimizeWindow) })
	maximize := widget.NewButtonWithIcon("", theme.ViewFullScreenIcon(), func() { a.send(ipc.ChannelMaximizeWindow) })
	closeBtn := widget.NewButtonWithIcon("", theme.CancelIcon(), func() { a.send(ipc.ChannelCloseWindow) })

	toolbar := container.NewHBox(
		a.scanBtn, a.classifyBtn, a.resetBtn,
		layout.NewSpacer(),
		minimize, maximize, closeBtn,
	)

	a.progress = widget.NewProgressBarInfinite()
	a.progress.Stop()
	a.progress.Hide()
	a.status = widget.NewLabel("")

	a.accordion = widget.NewAccordion()
	a.accordion.MultiOpen = true
	a.emptyHint = widget.NewLabelWithStyle("No apps yet. Press Scan to read the desktop.", fyne.TextAlignCenter, fyne.TextStyle{Italic: true})

	body := container.NewStack(container.NewVScroll(a.accordion), container.NewCenter(a.emptyHint))
	bottom := container.NewVBox(a.progress, a.status)
	return container.NewBorder(container.NewPadded(toolbar), container.NewPadded(bottom), nil, nil, body)
}

// show replaces the accordion content with s; UI goroutine only.
func (a *deskApp) show(s snapshot) {
	secs := sections(s)
	items := make([]*widget.AccordionItem, 0, len(secs))
	for _, sec := range secs {
		buttons := make([]fyne.CanvasObject, 0, len(sec.Apps))
		for _, app := range sec.Apps {
			buttons = append(buttons, a.appButton(app))
		}
		grid := container.NewGridWrap(fyne.NewSize(appButtonWidth, appButtonHeight), buttons...)
		item := widget.NewAccordionItem(fmt.Sprintf("%s (%d)", sec.Title, len(sec.Apps)), grid)
		item.Open = true
		items = append(items, item)
	}
	a.accordion.Items = items
	a.accordion.Refresh()

	if len(items) == 0 {
		a.emptyHint.Show()
	} else {
		a.emptyHint.Hide()
	}
	if !a.isBusy() {
		a.status.SetText(summary(s))
	}
	a.syncButtons(s.Classifying)
}

func (a *deskApp) appButton(app models.AppInfo) *widget.Button {
	label := render.Truncate(app.Name, appNameWidth)
	if app.OpenCount > 0 {
		label = fmt.Sprintf("%s (%d)", label, app.OpenCount)
	}
	path := app.Path
	btn := widget.NewButtonWithIcon(label, a.icons.get(app.IconPath), func() { a.openApp(path) })
	btn.Alignment = widget.ButtonAlignLeading
	return btn
}

func summary(s snapshot) string {
	if s.Classifying {
		return "Classification in progress…"
	}
	return fmt.Sprintf("%d apps, %d categories", len(s.Apps), len(s.Categories))
}

func (a *deskApp) isBusy() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.busy
}

// setBusy toggles the progress indicator and the action buttons. It claims
// the busy flag and reports false when another action already holds it.
func (a *deskApp) setBusy(busy bool, message string) bool {
	a.mu.Lock()
	if busy && a.busy {
		a.mu.Unlock()
		return false
	}
	a.busy = busy
	a.mu.Unlock()

	a.safeDo("app.set_busy", func() {
		if a.progress == nil {
			return
		}
		if busy {
			a.progress.Show()
			a.progress.Start()
			a.status.SetText(message)
		} else {
			a.progress.Stop()
			a.progress.Hide()
			if message != "" {
				a.status.SetText(message)
			}
		}
		a.syncButtons(false)
	})
	return true
}

func (a *deskApp) syncButtons(remoteBusy bool) {
	disabled := remoteBusy || a.isBusy()
	for _, b := range []*widget.Button{a.scanBtn, a.classifyBtn, a.resetBtn} {
		if b == nil {
			continue
		}
		if disabled {
			b.Disable()
		} else {
			b.Enable()
		}
	}
}
