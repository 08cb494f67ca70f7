package store

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/oukeidos/desksort/internal/kv"
	"github.com/oukeidos/desksort/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := kv.OpenFile(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	s := New(db)
	s.now = func() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 8_000_000, time.FixedZone("X", 3600)) }
	return s
}

func TestStore_Defaults(t *testing.T) {
	s := newTestStore(t)

	apps, err := s.Apps()
	if err != nil || apps == nil || len(apps) != 0 {
		t.Fatalf("Apps() = (%#v, %v)", apps, err)
	}
	cats, err := s.Categories()
	if err != nil || cats == nil || len(cats) != 0 {
		t.Fatalf("Categories() = (%#v, %v)", cats, err)
	}
	ts, err := s.LastScanTime()
	if err != nil || ts != "" {
		t.Fatalf("LastScanTime() = (%q, %v)", ts, err)
	}
	sc, err := s.Shortcuts()
	if err != nil || sc == nil || len(sc) != 0 {
		t.Fatalf("Shortcuts() = (%#v, %v)", sc, err)
	}
}

func TestStore_SaveAppsStampsTime(t *testing.T) {
	s := newTestStore(t)
	apps := []models.AppInfo{{Name: "a", Path: "/d/a.lnk"}, {Name: "b", Path: "/d/b.exe", Category: "Office"}}
	if err := s.SaveApps(apps); err != nil {
		t.Fatalf("SaveApps: %v", err)
	}
	got, _ := s.Apps()
	if !reflect.DeepEqual(got, apps) {
		t.Fatalf("Apps() = %+v", got)
	}
	ts, _ := s.LastScanTime()
	if ts != "2026-03-04T04:06:07.008Z" {
		t.Fatalf("LastScanTime() = %q", ts)
	}
}

func TestStore_IncrementAppOpenCount(t *testing.T) {
	s := newTestStore(t)
	_ = s.SaveApps([]models.AppInfo{{Name: "a", Path: "/d/a.lnk"}})

	found, err := s.IncrementAppOpenCount("/d/a.lnk")
	if err != nil || !found {
		t.Fatalf("Increment(known) = (%v, %v)", found, err)
	}
	_, _ = s.IncrementAppOpenCount("/d/a.lnk")

	before, _ := s.Apps()
	found, err = s.IncrementAppOpenCount("/d/missing.lnk")
	if err != nil || found {
		t.Fatalf("Increment(unknown) = (%v, %v), want (false, nil)", found, err)
	}
	after, _ := s.Apps()
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("unknown path mutated apps: %+v", after)
	}
	if after[0].OpenCount != 2 {
		t.Fatalf("OpenCount = %d, want 2", after[0].OpenCount)
	}
}

func TestStore_CategoriesKeepOrder(t *testing.T) {
	s := newTestStore(t)
	cats := models.CategoryMap{
		{Name: "Z", Apps: []string{"z"}},
		{Name: "A", Apps: []string{"a"}},
	}
	if err := s.SaveCategories(cats); err != nil {
		t.Fatalf("SaveCategories: %v", err)
	}
	got, _ := s.Categories()
	if !reflect.DeepEqual(got.Names(), []string{"Z", "A"}) {
		t.Fatalf("order lost: %v", got.Names())
	}
}

func TestStore_Reset(t *testing.T) {
	s := newTestStore(t)
	_ = s.SaveApps([]models.AppInfo{{Name: "a", Path: "/d/a.lnk"}})
	_ = s.SaveCategories(models.CategoryMap{{Name: "A", Apps: []string{"a"}}})
	_ = s.SaveShortcuts(map[string]string{"a": "ctrl+1"})

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	apps, _ := s.Apps()
	cats, _ := s.Categories()
	ts, _ := s.LastScanTime()
	sc, _ := s.Shortcuts()
	if len(apps) != 0 || len(cats) != 0 || ts != "" || len(sc) != 0 {
		t.Fatalf("state after Reset: apps=%v cats=%v ts=%q shortcuts=%v", apps, cats, ts, sc)
	}
}

func TestStore_SaveUnderLinkedHome(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink not permitted on Windows")
	}
	tmp := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmp, "var", "home"), 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.Symlink(filepath.Join(tmp, "var", "home"), filepath.Join(tmp, "home")); err != nil {
		t.Fatalf("symlink: %v", err)
	}
	path := filepath.Join(tmp, "home", "u", ".config", "desksort", "config.json")

	db, err := kv.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	apps := []models.AppInfo{{Name: "a", Path: "/d/a.lnk"}}
	if err := New(db).SaveApps(apps); err != nil {
		t.Fatalf("SaveApps under linked home: %v", err)
	}

	reopened, err := kv.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := New(reopened).Apps()
	if err != nil {
		t.Fatalf("Apps: %v", err)
	}
	if len(got) != 1 || got[0].Path != "/d/a.lnk" {
		t.Fatalf("apps after reopen = %+v", got)
	}
}

func TestStore_ResetOverRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	db, err := kv.OpenRedis("redis://" + mr.Addr() + "/0")
	if err != nil {
		t.Fatalf("OpenRedis: %v", err)
	}
	s := New(db)
	t.Cleanup(func() { _ = s.Close() })
	if err := mr.Set("someone-else", "v"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	_ = s.SaveApps([]models.AppInfo{{Name: "a", Path: "/d/a.lnk"}})
	_ = s.SaveShortcuts(map[string]string{"a": "ctrl+1"})

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	apps, _ := s.Apps()
	ts, _ := s.LastScanTime()
	if len(apps) != 0 || ts != "" {
		t.Fatalf("state after Reset: apps=%v ts=%q", apps, ts)
	}
	if !mr.Exists("someone-else") {
		t.Fatal("Reset removed a key outside the desksort prefix")
	}
}

type resetCountingKV struct {
	kv.Storage
	resets int
}

func (r *resetCountingKV) Reset() error {
	r.resets++
	return r.Storage.Reset()
}

func TestStore_ResetUsesBackendReset(t *testing.T) {
	db, err := kv.OpenFile(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	counting := &resetCountingKV{Storage: db}
	if err := New(counting).Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if counting.resets != 1 {
		t.Fatalf("backend Reset calls = %d, want 1", counting.resets)
	}
}

type failingKV struct{ kv.Storage }

func (failingKV) Get(string) ([]byte, error)              { return nil, errors.New("disk gone") }
func (failingKV) Set(string, []byte, time.Duration) error { return errors.New("disk gone") }
func (failingKV) Reset() error                            { return errors.New("disk gone") }

func TestStore_ErrorsPropagate(t *testing.T) {
	s := New(failingKV{})
	if _, err := s.Apps(); err == nil {
		t.Fatal("expected read error")
	}
	if err := s.SaveCategories(models.CategoryMap{}); err == nil {
		t.Fatal("expected write error")
	}
	if err := s.Reset(); err == nil {
		t.Fatal("expected reset error")
	}
}
