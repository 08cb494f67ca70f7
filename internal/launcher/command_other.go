//go:build !windows && !darwin

package launcher

func openCommand(path string) (string, []string) {
	return "xdg-open", []string{path}
}
