//go:build darwin

package launcher

func openCommand(path string) (string, []string) {
	return "open", []string{path}
}
