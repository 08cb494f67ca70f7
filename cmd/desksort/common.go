package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/oukeidos/desksort/internal/backend"
	"github.com/oukeidos/desksort/internal/cleanup"
	"github.com/oukeidos/desksort/internal/config"
	"github.com/oukeidos/desksort/internal/ipc"
	"github.com/oukeidos/desksort/internal/logger"
	"github.com/spf13/pflag"
)

type globalOptions struct {
	configPath string
	logLevel   string
	logFile    string
	remote     string
}

func addGlobalFlags(flags *pflag.FlagSet, opts *globalOptions) {
	flags.StringVar(&opts.configPath, "config", "", "YAML config file (default <data_dir>/config.yaml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&opts.logFile, "log-file", "", "Also write JSON logs to this file")
	flags.StringVar(&opts.remote, "remote", "", "Talk to a running `desksort serve` at this address instead of the local store")
}

var (
	loadConfig  = config.Load
	openBackend = backend.Open
	newClient   = func(addr string) (ipc.Invoker, error) { return ipc.NewClient(addr) }
)

// session is what a command talks to: the local backend's router or a
// remote server. local is nil for remote sessions.
type session struct {
	invoker ipc.Invoker
	local   *backend.Backend
	cfg     *config.Config
}

// setup loads the configuration and installs the logger. Flags override the
// configured log level.
func setup(opts *globalOptions) (*config.Config, error) {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	levelName := cfg.LogLevel
	if opts.logLevel != "" {
		levelName = opts.logLevel
	}
	level, err := logger.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = levelName

	if opts.logFile == "" {
		logger.Init(level, nil)
		return cfg, nil
	}
	if err := os.MkdirAll(filepath.Dir(opts.logFile), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	cleanup.Register(f.Close)
	logger.Init(level, f)
	return cfg, nil
}

func openSession(opts *globalOptions) (*session, error) {
	cfg, err := setup(opts)
	if err != nil {
		return nil, err
	}
	if opts.remote != "" {
		client, err := newClient(opts.remote)
		if err != nil {
			return nil, err
		}
		logger.Debug("using remote backend", "addr", opts.remote)
		return &session{invoker: client, cfg: cfg}, nil
	}
	return openLocal(cfg)
}

func openLocal(cfg *config.Config) (*session, error) {
	b, err := openBackend(cfg, backend.Options{})
	if err != nil {
		return nil, err
	}
	cleanup.Register(b.Close)
	return &session{invoker: b.Router, local: b, cfg: cfg}, nil
}

// requireLocal rejects --remote for commands that need the store itself.
func requireLocal(opts *globalOptions, name string) error {
	if opts.remote != "" {
		return errors.New(name + " cannot be used with --remote")
	}
	return nil
}

func signalContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("Cancellation requested")
			cancel()
		case <-ctx.Done():
		}
	}()
	stop := func() {
		signal.Stop(sigCh)
		cancel()
	}
	return ctx, stop
}
