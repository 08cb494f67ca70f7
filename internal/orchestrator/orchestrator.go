// Package orchestrator sequences scan, classification and persistence, and
// owns the classification state.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oukeidos/desksort/internal/apperrors"
	"github.com/oukeidos/desksort/internal/logger"
	"github.com/oukeidos/desksort/internal/metrics"
	"github.com/oukeidos/desksort/internal/models"
)

// State of the classification round.
type State int

const (
	Idle State = iota
	InFlight
)

func (s State) String() string {
	if s == InFlight {
		return "in_flight"
	}
	return "idle"
}

type Scanner interface {
	Scan(ctx context.Context) []models.AppInfo
}

type Classifier interface {
	Classify(ctx context.Context, names []string) models.ClassificationResult
}

type Launcher interface {
	Open(path string) error
}

// Store is the persistence the orchestrator needs; *store.Store satisfies it.
type Store interface {
	Apps() ([]models.AppInfo, error)
	SaveApps(apps []models.AppInfo) error
	Categories() (models.CategoryMap, error)
	SaveCategories(cats models.CategoryMap) error
	IncrementAppOpenCount(path string) (bool, error)
	Reset() error
}

type Orchestrator struct {
	scanner    Scanner
	classifier Classifier
	launcher   Launcher
	store      Store
	metrics    *metrics.Metrics

	mu    sync.Mutex
	state State
}

// New wires the components. m may be nil.
func New(sc Scanner, cl Classifier, la Launcher, st Store, m *metrics.Metrics) *Orchestrator {
	return &Orchestrator{
		scanner:    sc,
		classifier: cl,
		launcher:   la,
		store:      st,
		metrics:    m,
	}
}

// ScanDesktop replaces the stored app list with a fresh scan.
func (o *Orchestrator) ScanDesktop(ctx context.Context) ([]models.AppInfo, error) {
	apps := o.scanner.Scan(ctx)
	o.metrics.ObserveScan(len(apps))
	if err := o.store.SaveApps(apps); err != nil {
		return nil, fmt.Errorf("save scanned apps: %w", err)
	}
	logger.Info("desktop scanned", "apps", len(apps))
	return apps, nil
}

// ClassifyApps classifies the stored apps. A second call while one is in
// flight is rejected with a busy error rather than queued.
func (o *Orchestrator) ClassifyApps(ctx context.Context) (models.ClassifyOutcome, error) {
	if !o.begin() {
		o.metrics.ObserveClassification(metrics.OutcomeRejected, 0)
		return models.ClassifyOutcome{}, apperrors.Busy("Classification is already in progress.")
	}
	defer o.end()

	started := time.Now()
	apps, err := o.store.Apps()
	if err != nil {
		return models.ClassifyOutcome{}, fmt.Errorf("load apps: %w", err)
	}

	result := o.classifier.Classify(ctx, models.Names(apps))
	outcome := metrics.OutcomeSuccess
	if result.Fallback {
		outcome = metrics.OutcomeFallback
	}
	o.metrics.ObserveClassification(outcome, time.Since(started))

	if err := o.store.SaveCategories(result.Categories); err != nil {
		return models.ClassifyOutcome{}, fmt.Errorf("save categories: %w", err)
	}
	Reconcile(apps, result.Categories)
	if err := o.store.SaveApps(apps); err != nil {
		return models.ClassifyOutcome{}, fmt.Errorf("save reconciled apps: %w", err)
	}

	logger.Info("apps classified", "apps", len(apps), "categories", len(result.Categories), "outcome", outcome)
	return models.ClassifyOutcome{Apps: apps, Categories: result.Categories}, nil
}

// Reconcile assigns each app the first category, in map order, that lists
// its exact name. Apps without a match have their category cleared.
func Reconcile(apps []models.AppInfo, cats models.CategoryMap) {
	for i := range apps {
		cat, _ := cats.CategoryOf(apps[i].Name)
		apps[i].Category = cat
	}
}

func (o *Orchestrator) begin() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == InFlight {
		return false
	}
	o.state = InFlight
	return true
}

func (o *Orchestrator) end() {
	o.mu.Lock()
	o.state = Idle
	o.mu.Unlock()
}

func (o *Orchestrator) ClassificationState() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) IsClassifying() bool {
	return o.ClassificationState() == InFlight
}

func (o *Orchestrator) Apps(context.Context) ([]models.AppInfo, error) {
	return o.store.Apps()
}

func (o *Orchestrator) Categories(context.Context) (models.CategoryMap, error) {
	return o.store.Categories()
}

// OpenApp launches path and bumps its open count; counting a path that was
// never scanned is a no-op. A launch failure is logged and reported as false.
// The HTTP server restricts remote callers to stored apps via HasApp.
func (o *Orchestrator) OpenApp(_ context.Context, path string) (bool, error) {
	if err := o.launcher.Open(path); err != nil {
		logger.Error("failed to open app", "path", path, "error", err)
		return false, nil
	}
	if _, err := o.store.IncrementAppOpenCount(path); err != nil {
		return true, fmt.Errorf("record open: %w", err)
	}
	return true, nil
}

// HasApp reports whether path is a stored app.
func (o *Orchestrator) HasApp(_ context.Context, path string) (bool, error) {
	apps, err := o.store.Apps()
	if err != nil {
		return false, fmt.Errorf("load apps: %w", err)
	}
	return models.FindByPath(apps, path) >= 0, nil
}

// SaveConfig exists for front ends that expect an explicit save; every
// mutation is already persisted.
func (o *Orchestrator) SaveConfig(context.Context) bool {
	return true
}

func (o *Orchestrator) ResetConfig(context.Context) error {
	if err := o.store.Reset(); err != nil {
		return fmt.Errorf("reset store: %w", err)
	}
	logger.Info("stored state reset")
	return nil
}
