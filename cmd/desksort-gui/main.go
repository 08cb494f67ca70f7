package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/oukeidos/desksort/internal/backend"
	"github.com/oukeidos/desksort/internal/cleanup"
	"github.com/oukeidos/desksort/internal/config"
	"github.com/oukeidos/desksort/internal/ipc"
	"github.com/oukeidos/desksort/internal/logger"
)

func main() {
	logger.Init(logger.LevelInfo, nil)
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Unrecovered GUI panic", "scope", "main", "panic", fmt.Sprint(r))
			_ = cleanup.RunAll()
			os.Exit(1)
		}
	}()

	cfg, err := config.Load("")
	if err != nil {
		logger.Fatal("Failed to load configuration", "error", err)
	}
	if level, err := logger.ParseLevel(cfg.LogLevel); err == nil {
		logger.Init(level, nil)
	}

	b, err := backend.Open(cfg, backend.Options{})
	if err != nil {
		logger.Fatal("Failed to start backend", "error", err)
	}
	cleanup.Register(b.Close)

	myApp := app.NewWithID("com.desksort.app")
	icon := appIcon()
	myApp.SetIcon(icon)

	w := myApp.NewWindow("desksort")
	w.SetIcon(icon)
	w.SetMaster()
	w.Resize(fyne.NewSize(900, 700))
	w.CenterOnScreen()

	ipc.RegisterWindow(b.Router, newWindowController(myApp, w, icon))

	da := newDeskApp(w, b.Router)
	w.SetContent(da.build())
	da.refresh()

	w.ShowAndRun()

	if err := cleanup.RunAll(); err != nil {
		logger.Error("Cleanup failed", "error", err)
		os.Exit(1)
	}
}
