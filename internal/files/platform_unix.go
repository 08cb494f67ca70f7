//go:build !windows

package files

import "os"

func renameAtomic(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}

// Lstat already reports symlinks; there is nothing else to detect here.
func isReparsePoint(string) (bool, error) {
	return false, nil
}
