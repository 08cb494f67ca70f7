package main

import (
	"context"
	"errors"
	"fmt"

	"fyne.io/fyne/v2/dialog"

	"github.com/oukeidos/desksort/internal/apperrors"
	"github.com/oukeidos/desksort/internal/ipc"
	"github.com/oukeidos/desksort/internal/logger"
	"github.com/oukeidos/desksort/internal/models"
)

// load fetches apps, categories and the classification flag.
func (a *deskApp) load(ctx context.Context) (snapshot, error) {
	var s snapshot
	if err := a.invoker.Invoke(ctx, ipc.ChannelGetApps, nil, &s.Apps); err != nil {
		return s, err
	}
	if err := a.invoker.Invoke(ctx, ipc.ChannelGetCategories, nil, &s.Categories); err != nil {
		return s, err
	}
	if err := a.invoker.Invoke(ctx, ipc.ChannelGetClassificationStatus, nil, &s.Classifying); err != nil {
		return s, err
	}
	return s, nil
}

func (a *deskApp) refresh() {
	a.safeGo("ops.refresh", func() {
		s, err := a.load(context.Background())
		if err != nil {
			a.showError("Could not load apps", err)
			return
		}
		a.safeDo("ops.refresh.show", func() { a.show(s) })
	})
}

func (a *deskApp) scan() {
	if !a.setBusy(true, "Scanning desktop…") {
		return
	}
	a.safeGo("ops.scan", func() {
		ctx := context.Background()
		var apps []models.AppInfo
		if err := a.invoker.Invoke(ctx, ipc.ChannelScanDesktop, nil, &apps); err != nil {
			a.setBusy(false, "Scan failed.")
			a.showError("Scan failed", err)
			return
		}
		logger.Info("desktop scanned", "apps", len(apps))
		s, err := a.load(ctx)
		a.setBusy(false, fmt.Sprintf("Found %d apps.", len(apps)))
		if err != nil {
			a.showError("Could not load apps", err)
			return
		}
		a.safeDo("ops.scan.show", func() { a.show(s) })
	})
}

func (a *deskApp) classify() {
	if !a.setBusy(true, "Classifying apps…") {
		return
	}
	a.safeGo("ops.classify", func() {
		var outcome models.ClassifyOutcome
		err := a.invoker.Invoke(context.Background(), ipc.ChannelClassifyApps, nil, &outcome)
		if err != nil {
			a.setBusy(false, "Classification failed.")
			a.showError("Classification failed", err)
			return
		}
		a.setBusy(false, fmt.Sprintf("Sorted %d apps into %d categories.", len(outcome.Apps), len(outcome.Categories)))
		s := snapshot{Apps: outcome.Apps, Categories: outcome.Categories}
		a.safeDo("ops.classify.show", func() { a.show(s) })
	})
}

func (a *deskApp) confirmReset() {
	dialog.ShowConfirm(
		"Reset",
		"Delete all scanned apps, categories and open counts?",
		func(ok bool) {
			if ok {
				a.reset()
			}
		},
		a.window,
	)
}

func (a *deskApp) reset() {
	if !a.setBusy(true, "Resetting…") {
		return
	}
	a.safeGo("ops.reset", func() {
		var done bool
		err := a.invoker.Invoke(context.Background(), ipc.ChannelResetConfig, nil, &done)
		if err != nil {
			a.setBusy(false, "Reset failed.")
			a.showError("Reset failed", err)
			return
		}
		a.setBusy(false, "Store reset.")
		a.refresh()
	})
}

func (a *deskApp) openApp(path string) {
	a.safeGo("ops.open_app", func() {
		var ok bool
		if err := a.invoker.Invoke(context.Background(), ipc.ChannelOpenApp, path, &ok); err != nil {
			a.showError("Could not open app", err)
			return
		}
		if !ok {
			a.showError("Could not open app", fmt.Errorf("%s could not be launched", path))
			return
		}
		a.refresh()
	})
}

func (a *deskApp) send(channel string) {
	if err := a.invoker.Send(channel, nil); err != nil {
		logger.Warn("window request failed", "channel", channel, "error", err)
	}
}

func (a *deskApp) showError(title string, err error) {
	logger.Error(title, "error", err)
	msg := apperrors.PublicMessage(err)
	if apperrors.Is(err, apperrors.KindBusy) {
		msg = "A classification is already running. Please wait for it to finish."
	}
	a.safeDo("ops.error_dialog", func() {
		if a.window == nil {
			return
		}
		dialog.ShowError(errors.New(title+": "+msg), a.window)
	})
}
