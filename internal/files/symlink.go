package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrSymlinkPath marks a destination that is itself a link.
var ErrSymlinkPath = errors.New("refusing to write through a symlink")

// RejectSymlinkPath fails when path itself is a symlink or (on Windows) a
// reparse point. Linked ancestor directories are allowed, so homes under
// /home -> /var/home keep working. A missing path is fine.
func RejectSymlinkPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	info, err := os.Lstat(abs)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to access %s: %w", abs, err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("%w: %s", ErrSymlinkPath, path)
	}
	reparse, err := isReparsePoint(abs)
	if err != nil {
		return fmt.Errorf("failed to inspect %s: %w", abs, err)
	}
	if reparse {
		return fmt.Errorf("%w: %s (reparse point)", ErrSymlinkPath, path)
	}
	return nil
}
