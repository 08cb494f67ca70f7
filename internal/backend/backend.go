// Package backend assembles the privileged side from a resolved Config.
package backend

import (
	"errors"
	"fmt"

	"github.com/oukeidos/desksort/internal/auth"
	"github.com/oukeidos/desksort/internal/classifier"
	"github.com/oukeidos/desksort/internal/config"
	"github.com/oukeidos/desksort/internal/ipc"
	"github.com/oukeidos/desksort/internal/kv"
	"github.com/oukeidos/desksort/internal/launcher"
	"github.com/oukeidos/desksort/internal/logger"
	"github.com/oukeidos/desksort/internal/metrics"
	"github.com/oukeidos/desksort/internal/orchestrator"
	"github.com/oukeidos/desksort/internal/scanner"
	"github.com/oukeidos/desksort/internal/store"
)

type Backend struct {
	Config       *config.Config
	Store        *store.Store
	Classifier   *classifier.Classifier
	Orchestrator *orchestrator.Orchestrator
	Metrics      *metrics.Metrics
	Router       *ipc.Router
}

// Options replaces parts of the default wiring, mostly for tests.
type Options struct {
	// APIKey skips the keychain and environment lookup when set.
	APIKey   string
	Launcher orchestrator.Launcher
}

// Open validates cfg and builds every component. Close releases the store.
func Open(cfg *config.Config, opts Options) (*Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	db, err := kv.Open(cfg.KVOptions())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	st := store.New(db)
	logger.Debug("store opened", "backend", cfg.Store, "path", cfg.StorePath())

	apiKey := opts.APIKey
	if apiKey == "" {
		var source string
		apiKey, source = auth.GetKey(true)
		if source != "" {
			logger.Debug("API key resolved", "source", source)
		}
	}

	cl, err := classifier.NewForEndpoint(classifier.Endpoint{
		APIKey:           apiKey,
		BaseURL:          cfg.OpenAI.BaseURL,
		Model:            cfg.OpenAI.Model,
		Proxy:            cfg.Proxy,
		InsecureProxyTLS: cfg.ProxyInsecureTLS,
		Timeout:          cfg.OpenAI.Timeout,
	}, classifier.Options{
		Categories:    cfg.Categories,
		DebugDumpPath: cfg.DebugDumpPath,
	})
	if err != nil {
		return nil, errors.Join(fmt.Errorf("build classifier: %w", err), st.Close())
	}

	la := opts.Launcher
	if la == nil {
		la = launcher.New()
	}

	m := metrics.New(st)
	orch := orchestrator.New(scanner.New(cfg.DesktopDir), cl, la, st, m)
	router := ipc.NewRouter(m)
	ipc.RegisterBackend(router, orch)

	return &Backend{
		Config:       cfg,
		Store:        st,
		Classifier:   cl,
		Orchestrator: orch,
		Metrics:      m,
		Router:       router,
	}, nil
}

func (b *Backend) Close() error {
	return b.Store.Close()
}
