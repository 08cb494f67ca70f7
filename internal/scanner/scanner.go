// Package scanner enumerates application shortcuts on the user's desktop.
package scanner

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/oukeidos/desksort/internal/logger"
	"github.com/oukeidos/desksort/internal/models"
)

// Scanner lists .lnk and .exe entries in a single directory.
type Scanner struct {
	Dir string
}

func New(dir string) *Scanner {
	return &Scanner{Dir: dir}
}

// DefaultDesktopDir returns $HOME/Desktop.
func DefaultDesktopDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "Desktop"
	}
	return filepath.Join(home, "Desktop")
}

// IsAppFile reports whether name has a scannable extension, ignoring case.
func IsAppFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".lnk", ".exe":
		return true
	}
	return false
}

// Scan never fails: a directory that cannot be read is logged and yields an
// empty, non-nil slice. An entry whose stat fails (a broken link, say) is
// skipped with a warning and the rest are still returned. Entries come back
// sorted by file name.
func (s *Scanner) Scan(ctx context.Context) []models.AppInfo {
	apps := []models.AppInfo{}

	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		logger.Error("desktop scan failed", "dir", s.Dir, "error", err)
		return apps
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			logger.Warn("desktop scan cancelled", "dir", s.Dir, "found", len(apps))
			return []models.AppInfo{}
		}
		name := entry.Name()
		if !IsAppFile(name) {
			continue
		}
		path := filepath.Join(s.Dir, name)
		info, err := os.Stat(path)
		if err != nil {
			logger.Warn("skipping unreadable desktop entry", "path", path, "error", err)
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		ext := filepath.Ext(name)
		apps = append(apps, models.AppInfo{
			Name:      strings.TrimSuffix(name, ext),
			Path:      path,
			IconPath:  IconFor(strings.ToLower(ext)),
			OpenCount: 0,
		})
	}

	logger.Debug("desktop scan finished", "dir", s.Dir, "entries", len(entries), "apps", len(apps))
	return apps
}
