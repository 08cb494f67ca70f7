// Package config resolves settings from defaults, an optional YAML file,
// a .env file in the app root and the process environment, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/oukeidos/desksort/internal/httpclient"
	"github.com/oukeidos/desksort/internal/kv"
	"github.com/oukeidos/desksort/internal/logger"
	"github.com/oukeidos/desksort/internal/scanner"
)

const (
	DefaultBaseURL    = "https://generativelanguage.googleapis.com/v1beta/openai"
	DefaultModel      = "gemini-2.5-flash"
	DefaultListenAddr = "127.0.0.1:7788"

	appDirName = "desksort"
	storeFile  = "config.json"
	yamlFile   = "config.yaml"
	dumpFile   = "classification_result.json"
	dotEnvFile = ".env"
)

// Config is the resolved runtime configuration.
type Config struct {
	// AppRoot holds .env and the classification dump.
	AppRoot    string `yaml:"app_root"`
	DataDir    string `yaml:"data_dir"`
	DesktopDir string `yaml:"desktop_dir"`

	Store    string `yaml:"store"`
	RedisURL string `yaml:"redis_url"`

	ListenAddr string `yaml:"listen_addr"`
	LogLevel   string `yaml:"log_level"`

	OpenAI OpenAIConfig `yaml:"openai"`

	// Categories offered to the model; empty uses the built-in set.
	Categories    []string `yaml:"categories"`
	DebugDumpPath string   `yaml:"debug_dump_path"`

	Proxy            string `yaml:"proxy"`
	ProxyInsecureTLS bool   `yaml:"proxy_insecure_tls"`

	// File is the YAML file that was loaded, if any.
	File string `yaml:"-"`
}

type OpenAIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// Defaults returns the built-in configuration for the given roots.
func Defaults(appRoot, dataDir string) *Config {
	return &Config{
		AppRoot:          appRoot,
		DataDir:          dataDir,
		DesktopDir:       scanner.DefaultDesktopDir(),
		Store:            kv.BackendFile,
		ListenAddr:       DefaultListenAddr,
		LogLevel:         "info",
		ProxyInsecureTLS: true,
		OpenAI: OpenAIConfig{
			BaseURL: DefaultBaseURL,
			Model:   DefaultModel,
			Timeout: httpclient.DefaultTimeout,
		},
	}
}

// Load resolves the configuration. path is an explicit YAML file and must
// exist when given; otherwise DESKSORT_CONFIG or <data_dir>/config.yaml is
// read if present.
func Load(path string) (*Config, error) {
	appRoot := firstNonEmpty(os.Getenv("DESKSORT_APP_ROOT"), executableDir())

	// .env never overrides variables already set in the environment.
	envFile := filepath.Join(appRoot, dotEnvFile)
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("failed to load .env", "path", envFile, "error", err)
	}

	dataDir := firstNonEmpty(os.Getenv("DESKSORT_DATA_DIR"), defaultDataDir())
	cfg := Defaults(appRoot, dataDir)

	explicit := path != ""
	if !explicit {
		path = os.Getenv("DESKSORT_CONFIG")
		explicit = path != ""
	}
	if !explicit {
		path = filepath.Join(dataDir, yamlFile)
	}
	if err := cfg.loadYAML(path, explicit); err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.fillDerived()
	return cfg, nil
}

func (c *Config) loadYAML(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	c.File = path
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.AppRoot, "DESKSORT_APP_ROOT")
	setString(&c.DataDir, "DESKSORT_DATA_DIR")
	setString(&c.DesktopDir, "DESKSORT_DESKTOP_DIR")
	setString(&c.Store, "DESKSORT_STORE")
	setString(&c.RedisURL, "DESKSORT_REDIS_URL")
	setString(&c.ListenAddr, "DESKSORT_LISTEN_ADDR")
	setString(&c.LogLevel, "DESKSORT_LOG_LEVEL")
	setString(&c.DebugDumpPath, "DESKSORT_DEBUG_DUMP_PATH")
	setString(&c.OpenAI.BaseURL, "OPENAI_BASE_URL")
	setString(&c.OpenAI.Model, "OPENAI_MODEL")

	if proxy := httpclient.ProxyFromEnv(); proxy != "" {
		c.Proxy = proxy
	}
	if v := strings.TrimSpace(os.Getenv("DESKSORT_PROXY_INSECURE_TLS")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DESKSORT_PROXY_INSECURE_TLS: %w", err)
		}
		c.ProxyInsecureTLS = b
	}
	if v := strings.TrimSpace(os.Getenv("DESKSORT_REQUEST_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("DESKSORT_REQUEST_TIMEOUT: %w", err)
		}
		c.OpenAI.Timeout = d
	}
	return nil
}

func (c *Config) fillDerived() {
	c.Store = strings.ToLower(strings.TrimSpace(c.Store))
	c.OpenAI.BaseURL = strings.TrimRight(strings.TrimSpace(c.OpenAI.BaseURL), "/")
	if c.DebugDumpPath == "" && c.AppRoot != "" {
		c.DebugDumpPath = filepath.Join(c.AppRoot, dumpFile)
	}
	if c.OpenAI.Timeout <= 0 {
		c.OpenAI.Timeout = httpclient.DefaultTimeout
	}
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	switch c.Store {
	case kv.BackendFile:
		if c.DataDir == "" {
			return fmt.Errorf("data_dir is required for the file store")
		}
	case kv.BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("redis_url is required for the redis store")
		}
	default:
		return fmt.Errorf("unknown store backend %q (want file or redis)", c.Store)
	}
	if c.OpenAI.BaseURL == "" {
		return fmt.Errorf("openai.base_url must not be empty")
	}
	if c.OpenAI.Model == "" {
		return fmt.Errorf("openai.model must not be empty")
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// StorePath is the JSON document used by the file backend.
func (c *Config) StorePath() string {
	return filepath.Join(c.DataDir, storeFile)
}

// KVOptions selects the store backend.
func (c *Config) KVOptions() kv.Options {
	return kv.Options{Backend: c.Store, Path: c.StorePath(), RedisURL: c.RedisURL}
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", appDirName)
	}
	return filepath.Join(dir, appDirName)
}
