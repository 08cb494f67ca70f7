package models

// AppInfo is a single desktop entry. Path is the identity key.
type AppInfo struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	IconPath  string `json:"iconPath"`
	OpenCount int    `json:"openCount"`
	Category  string `json:"category,omitempty"`
}

// ClassifyOutcome is the externally visible result of a classification round.
type ClassifyOutcome struct {
	Apps       []AppInfo   `json:"apps"`
	Categories CategoryMap `json:"categories"`
}

// FindByPath returns the index of the app with the given path, or -1.
func FindByPath(apps []AppInfo, path string) int {
	for i := range apps {
		if apps[i].Path == path {
			return i
		}
	}
	return -1
}

// Names returns the app names in list order.
func Names(apps []AppInfo) []string {
	names := make([]string, 0, len(apps))
	for _, app := range apps {
		names = append(names, app.Name)
	}
	return names
}
