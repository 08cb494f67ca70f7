package kv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileStorage_Lifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "desksort", "config.json")
	s, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}

	if v, err := s.Get("apps"); err != nil || v != nil {
		t.Fatalf("Get(missing) = (%q, %v), want (nil, nil)", v, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("file created before first write")
	}

	if err := s.Set("apps", []byte(`[{"name":"a"}]`), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set("lastScanTime", []byte(`"2026-01-01T00:00:00.000Z"`), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	reopened, err := OpenFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	v, err := reopened.Get("apps")
	if err != nil || string(v) != `[{"name":"a"}]` {
		t.Fatalf("Get(apps) after reopen = (%q, %v)", v, err)
	}

	if err := reopened.Delete("apps"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := reopened.Delete("never-set"); err != nil {
		t.Fatalf("Delete(missing): %v", err)
	}
	if v, _ := reopened.Get("apps"); v != nil {
		t.Fatalf("Get after Delete = %q", v)
	}

	if err := reopened.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	raw, _ := os.ReadFile(path)
	if strings.TrimSpace(string(raw)) != "{}" {
		t.Fatalf("document after Reset = %q", raw)
	}

	if err := reopened.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := reopened.Get("apps"); err == nil {
		t.Fatalf("expected error after Close")
	}
}

func TestFileStorage_RejectsInvalidJSON(t *testing.T) {
	s, _ := OpenFile(filepath.Join(t.TempDir(), "config.json"))
	if err := s.Set("apps", []byte("{not json"), 0); err == nil {
		t.Fatal("expected invalid JSON error")
	}
}

func TestOpenFile_CorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("[1,2"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenFile(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestFileStorage_GetReturnsCopy(t *testing.T) {
	s, _ := OpenFile(filepath.Join(t.TempDir(), "config.json"))
	_ = s.Set("k", []byte(`"abc"`), 0)
	v, _ := s.Get("k")
	v[1] = 'z'
	again, _ := s.Get("k")
	if string(again) != `"abc"` {
		t.Fatalf("stored value mutated through Get result: %q", again)
	}
}

func TestOpen_Backends(t *testing.T) {
	if _, err := Open(Options{Backend: "sqlite"}); err == nil {
		t.Fatal("expected unknown backend error")
	}
	s, err := Open(Options{Path: filepath.Join(t.TempDir(), "config.json")})
	if err != nil {
		t.Fatalf("Open(file default): %v", err)
	}
	if _, ok := s.(*FileStorage); !ok {
		t.Fatalf("default backend = %T", s)
	}
	if _, err := Open(Options{Backend: BackendRedis}); err == nil {
		t.Fatal("expected error for empty redis url")
	}
}

func TestOpenRedis_Unreachable(t *testing.T) {
	if _, err := OpenRedis("redis://127.0.0.1:1/0"); err == nil {
		t.Fatal("expected connection error")
	}
}
