package ipc

import (
	"context"
	"errors"
	"sync"

	"github.com/oukeidos/desksort/internal/apperrors"
	"github.com/oukeidos/desksort/internal/models"
)

type fakeBackend struct {
	mu          sync.Mutex
	apps        []models.AppInfo
	cats        models.CategoryMap
	classifyErr error
	opened      []string
	resets      int
	busy        bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		apps: []models.AppInfo{{Name: "Word", Path: "/d/Word.lnk"}},
		cats: models.CategoryMap{{Name: "Office", Apps: []string{"Word"}}, {Name: "Games", Apps: []string{}}},
	}
}

func (f *fakeBackend) ScanDesktop(context.Context) ([]models.AppInfo, error) {
	return f.apps, nil
}

func (f *fakeBackend) ClassifyApps(context.Context) (models.ClassifyOutcome, error) {
	if f.classifyErr != nil {
		return models.ClassifyOutcome{}, f.classifyErr
	}
	return models.ClassifyOutcome{Apps: f.apps, Categories: f.cats}, nil
}

func (f *fakeBackend) Apps(context.Context) ([]models.AppInfo, error) { return f.apps, nil }

func (f *fakeBackend) Categories(context.Context) (models.CategoryMap, error) { return f.cats, nil }

func (f *fakeBackend) OpenApp(_ context.Context, path string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened = append(f.opened, path)
	return true, nil
}

func (f *fakeBackend) HasApp(_ context.Context, path string) (bool, error) {
	return models.FindByPath(f.apps, path) >= 0, nil
}

func (f *fakeBackend) SaveConfig(context.Context) bool { return true }

func (f *fakeBackend) ResetConfig(context.Context) error {
	f.resets++
	return nil
}

func (f *fakeBackend) IsClassifying() bool { return f.busy }

type fakeWindow struct {
	mu     sync.Mutex
	events []string
}

func (w *fakeWindow) record(e string) {
	w.mu.Lock()
	w.events = append(w.events, e)
	w.mu.Unlock()
}

func (w *fakeWindow) Minimize() { w.record("minimize") }
func (w *fakeWindow) Maximize() { w.record("maximize") }
func (w *fakeWindow) Close()    { w.record("close") }

var (
	errBusy     = apperrors.Busy("Classification is already in progress.")
	errUpstream = apperrors.New(apperrors.KindAuth, "API authentication failed (401): please verify your API key.", errors.New("secret"))
)
