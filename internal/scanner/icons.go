package scanner

// Placeholder icons; shortcut targets are never inspected for real icons.
const (
	ExeIcon = "data:image/svg+xml;base64,PHN2ZyB4bWxucz0iaHR0cDovL3d3dy53My5vcmcvMjAwMC9zdmciIHZpZXdCb3g9IjAgMCAyNCAyNCI+PHBhdGggZmlsbD0iIzQyODVmNCIgZD0iTTIxIDJINWMtMS4xIDAtMiAuOS0yIDJ2MTRjMCAxLjEuOSAyIDIgMmgxNmMxLjEgMCAyLS45IDItMlY0YzAtMS4xLS45LTItMi0yem0tMiAxM2gtNnY1aDZWMTV6bTAtN2gtNnY1aDZWOHptLTggN0g1djVoNnYtNXptMC03SDV2NWg2Vjh6Ii8+PC9zdmc+"
	LnkIcon = "data:image/svg+xml;base64,PHN2ZyB4bWxucz0iaHR0cDovL3d3dy53My5vcmcvMjAwMC9zdmciIHZpZXdCb3g9IjAgMCAyNCAyNCI+PHBhdGggZmlsbD0iI2ZmYTAwMCIgZD0iTTE5IDNINWMtMS4xIDAtMiAuOS0yIDJ2MTRjMCAxLjEuOSAyIDIgMmgxNGMxLjEgMCAyLS45IDItMlY1YzAtMS4xLS45LTItMi0yem0tOS41IDEzLjVoLTJ2LTdoMnY3em0wLThoLTJ2LTJoMnYyem01LjUgOGgtMnYtNGgydjR6bTAtNWgtMnYtMmgydjJ6bTAgMGgtMnYtMmgydjJ6Ii8+PC9zdmc+"
)

// IconFor returns the placeholder icon for a lower-case extension.
func IconFor(ext string) string {
	if ext == ".exe" {
		return ExeIcon
	}
	return LnkIcon
}
