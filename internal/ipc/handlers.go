package ipc

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/oukeidos/desksort/internal/apperrors"
	"github.com/oukeidos/desksort/internal/models"
)

// Backend is the privileged side; *orchestrator.Orchestrator satisfies it.
type Backend interface {
	ScanDesktop(ctx context.Context) ([]models.AppInfo, error)
	ClassifyApps(ctx context.Context) (models.ClassifyOutcome, error)
	Apps(ctx context.Context) ([]models.AppInfo, error)
	Categories(ctx context.Context) (models.CategoryMap, error)
	OpenApp(ctx context.Context, path string) (bool, error)
	SaveConfig(ctx context.Context) bool
	ResetConfig(ctx context.Context) error
	IsClassifying() bool
}

// WindowController receives the window channels; only the GUI has one.
type WindowController interface {
	Minimize()
	Maximize()
	Close()
}

// RegisterBackend wires every request/response channel to b.
func RegisterBackend(r *Router, b Backend) {
	r.Handle(ChannelScanDesktop, func(ctx context.Context, _ json.RawMessage) (any, error) {
		return b.ScanDesktop(ctx)
	})
	r.Handle(ChannelClassifyApps, func(ctx context.Context, _ json.RawMessage) (any, error) {
		return b.ClassifyApps(ctx)
	})
	r.Handle(ChannelGetApps, func(ctx context.Context, _ json.RawMessage) (any, error) {
		return b.Apps(ctx)
	})
	r.Handle(ChannelGetCategories, func(ctx context.Context, _ json.RawMessage) (any, error) {
		return b.Categories(ctx)
	})
	r.Handle(ChannelOpenApp, func(ctx context.Context, payload json.RawMessage) (any, error) {
		var path string
		if err := Decode(payload, &path); err != nil {
			return nil, err
		}
		if strings.TrimSpace(path) == "" {
			return nil, apperrors.New(apperrors.KindValidation, "Path is required.", nil)
		}
		return b.OpenApp(ctx, path)
	})
	r.Handle(ChannelSaveConfig, func(ctx context.Context, _ json.RawMessage) (any, error) {
		return b.SaveConfig(ctx), nil
	})
	r.Handle(ChannelResetConfig, func(ctx context.Context, _ json.RawMessage) (any, error) {
		if err := b.ResetConfig(ctx); err != nil {
			return nil, err
		}
		return true, nil
	})
	r.Handle(ChannelGetClassificationStatus, func(context.Context, json.RawMessage) (any, error) {
		return b.IsClassifying(), nil
	})
}

// RegisterWindow wires the fire-and-forget window channels to w.
func RegisterWindow(r *Router, w WindowController) {
	r.On(ChannelMinimizeWindow, func(json.RawMessage) { w.Minimize() })
	r.On(ChannelMaximizeWindow, func(json.RawMessage) { w.Maximize() })
	r.On(ChannelCloseWindow, func(json.RawMessage) { w.Close() })
}
