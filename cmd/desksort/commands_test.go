package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v3/middleware/adaptor"

	"github.com/oukeidos/desksort/internal/backend"
	"github.com/oukeidos/desksort/internal/config"
	"github.com/oukeidos/desksort/internal/ipc"
	"github.com/oukeidos/desksort/internal/models"
	"github.com/oukeidos/desksort/internal/prompt"
)

const classificationReply = "```json\n{\"categories\":{\"Office\":[\"Word\"],\"Development\":[\"Code\"]}}\n```"

type recordingLauncher struct {
	mu     sync.Mutex
	opened []string
	err    error
}

func (l *recordingLauncher) Open(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return l.err
	}
	l.opened = append(l.opened, path)
	return nil
}

type testEnv struct {
	desktop  string
	launcher *recordingLauncher
	requests atomic.Int32
}

// newTestEnv points config at temp directories and a fake chat endpoint and
// makes backends use a recording launcher.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()
	env := &testEnv{
		desktop:  filepath.Join(root, "Desktop"),
		launcher: &recordingLauncher{},
	}
	if err := os.MkdirAll(env.desktop, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"Word.lnk", "Code.exe", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(env.desktop, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	chat := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"model":   "test-model",
			"choices": []map[string]any{{"index": 0, "message": map[string]string{"role": "assistant", "content": classificationReply}}},
		})
	}))
	t.Cleanup(chat.Close)

	for _, key := range []string{"HTTPS_PROXY", "https_proxy", "HTTP_PROXY", "http_proxy", "DESKSORT_CONFIG", "DESKSORT_STORE", "DESKSORT_LOG_LEVEL", "DESKSORT_DEBUG_DUMP_PATH"} {
		t.Setenv(key, "")
	}
	t.Setenv("DESKSORT_APP_ROOT", root)
	t.Setenv("DESKSORT_DATA_DIR", filepath.Join(root, "data"))
	t.Setenv("DESKSORT_DESKTOP_DIR", env.desktop)
	t.Setenv("OPENAI_BASE_URL", chat.URL)
	t.Setenv("OPENAI_MODEL", "test-model")

	prev := openBackend
	openBackend = func(cfg *config.Config, opts backend.Options) (*backend.Backend, error) {
		opts.APIKey = "sk-test"
		opts.Launcher = env.launcher
		return prev(cfg, opts)
	}
	t.Cleanup(func() { openBackend = prev })
	return env
}

func TestScanClassifyAndList(t *testing.T) {
	env := newTestEnv(t)

	out, err := executeCommand(t, "scan")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !strings.Contains(out, "Found 2 apps.") || strings.Contains(out, "notes") {
		t.Fatalf("unexpected scan output:\n%s", out)
	}

	out, err = executeCommand(t, "classify")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if n := env.requests.Load(); n != 1 {
		t.Fatalf("expected one chat request, got %d", n)
	}
	if !strings.Contains(out, "Office (1)") || !strings.Contains(out, "Development (1)") {
		t.Fatalf("unexpected classify output:\n%s", out)
	}

	out, err = executeCommand(t, "apps", "--json")
	if err != nil {
		t.Fatalf("apps: %v", err)
	}
	var apps []models.AppInfo
	if err := json.Unmarshal([]byte(out), &apps); err != nil {
		t.Fatalf("apps --json is not JSON: %v\n%s", err, out)
	}
	got := map[string]string{}
	for _, app := range apps {
		got[app.Name] = app.Category
	}
	if got["Word"] != "Office" || got["Code"] != "Development" {
		t.Fatalf("categories not reconciled: %v", got)
	}

	out, err = executeCommand(t, "categories", "--json")
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if want := `"Office": [`; !strings.Contains(out, want) || strings.Index(out, "Office") > strings.Index(out, "Development") {
		t.Fatalf("categories --json lost order:\n%s", out)
	}

	out, err = executeCommand(t, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "idle") || strings.Contains(out, "never") {
		t.Fatalf("unexpected status:\n%s", out)
	}
}

func TestOpen(t *testing.T) {
	env := newTestEnv(t)
	if _, err := executeCommand(t, "scan"); err != nil {
		t.Fatalf("scan: %v", err)
	}
	word := filepath.Join(env.desktop, "Word.lnk")

	if _, err := executeCommand(t, "open", word); err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(env.launcher.opened) != 1 || env.launcher.opened[0] != word {
		t.Fatalf("launcher got %v", env.launcher.opened)
	}

	out, err := executeCommand(t, "apps")
	if err != nil {
		t.Fatalf("apps: %v", err)
	}
	if !strings.Contains(out, "   1") {
		t.Fatalf("open count not shown:\n%s", out)
	}

	notes := filepath.Join(env.desktop, "notes.txt")
	if _, err := executeCommand(t, "open", notes); err != nil {
		t.Fatalf("open unscanned: %v", err)
	}
	if len(env.launcher.opened) != 2 || env.launcher.opened[1] != notes {
		t.Fatalf("launcher got %v", env.launcher.opened)
	}
	env.launcher.err = errors.New("boom")
	if _, err := executeCommand(t, "open", word); err == nil {
		t.Fatal("expected error when the launcher fails")
	}
}

func withConfirmer(t *testing.T, interactive bool, answer string) {
	t.Helper()
	prev := newConfirmer
	newConfirmer = func() prompt.Confirmer {
		return prompt.Confirmer{
			In:            strings.NewReader(answer),
			IsInteractive: func() bool { return interactive },
		}
	}
	t.Cleanup(func() { newConfirmer = prev })
}

func TestReset(t *testing.T) {
	newTestEnv(t)
	if _, err := executeCommand(t, "scan"); err != nil {
		t.Fatalf("scan: %v", err)
	}

	withConfirmer(t, false, "")
	if _, err := executeCommand(t, "reset"); err == nil {
		t.Fatal("expected reset to refuse a non-interactive stdin without -y")
	}

	withConfirmer(t, true, "n\n")
	out, err := executeCommand(t, "reset")
	if err != nil || !strings.Contains(out, "Reset cancelled.") {
		t.Fatalf("reset answered no: out=%q err=%v", out, err)
	}

	withConfirmer(t, false, "")
	if _, err := executeCommand(t, "reset", "-y"); err != nil {
		t.Fatalf("reset -y: %v", err)
	}
	out, err = executeCommand(t, "apps", "--json")
	if err != nil {
		t.Fatalf("apps: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Fatalf("expected no apps after reset, got %s", out)
	}
}

func TestSave(t *testing.T) {
	newTestEnv(t)
	out, err := executeCommand(t, "save")
	if err != nil || !strings.Contains(out, "Saved.") {
		t.Fatalf("save: out=%q err=%v", out, err)
	}
}

func TestRemote(t *testing.T) {
	env := newTestEnv(t)
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	b, err := openBackend(cfg, backend.Options{})
	if err != nil {
		t.Fatalf("open backend: %v", err)
	}
	defer b.Close()
	srv := httptest.NewServer(adaptor.FiberApp(ipc.NewServer(b.Router, b.Metrics).App))
	defer srv.Close()

	// Remote commands never open the local store.
	openBackend = func(*config.Config, backend.Options) (*backend.Backend, error) {
		t.Fatal("remote session opened a local backend")
		return nil, nil
	}

	out, err := executeCommand(t, "--remote", srv.URL, "scan")
	if err != nil || !strings.Contains(out, "Found 2 apps.") {
		t.Fatalf("remote scan: out=%q err=%v", out, err)
	}
	if _, err := executeCommand(t, "--remote", srv.URL, "open", filepath.Join(env.desktop, "Code.exe")); err != nil {
		t.Fatalf("remote open: %v", err)
	}
	out, err = executeCommand(t, "--remote", srv.URL, "status")
	if err != nil || !strings.Contains(out, "Apps: 2") || !strings.Contains(out, "never") {
		t.Fatalf("remote status: out=%q err=%v", out, err)
	}
	if _, err := executeCommand(t, "--remote", srv.URL, "serve"); err == nil {
		t.Fatal("serve must reject --remote")
	}
}

func TestGlobalFlagErrors(t *testing.T) {
	newTestEnv(t)
	if _, err := executeCommand(t, "--log-level", "loud", "apps"); err == nil {
		t.Fatal("expected error for an unknown log level")
	}
	if _, err := executeCommand(t, "--config", filepath.Join(t.TempDir(), "absent.yaml"), "apps"); err == nil {
		t.Fatal("expected error for a missing explicit config file")
	}
	if _, err := executeCommand(t, "open"); err == nil {
		t.Fatal("open without a path must fail")
	}
}

func TestLogFile(t *testing.T) {
	newTestEnv(t)
	logPath := filepath.Join(t.TempDir(), "logs", "desksort.jsonl")
	if _, err := executeCommand(t, "--log-file", logPath, "--log-level", "debug", "scan"); err != nil {
		t.Fatalf("scan: %v", err)
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), `"level":"DEBUG"`) {
		t.Fatalf("expected debug records in log file:\n%s", data)
	}
}
