package main

import (
	"github.com/oukeidos/desksort/internal/models"
)

const (
	allAppsTitle   = "All apps"
	otherAppsTitle = "Not categorized"
)

// snapshot is everything the window shows, fetched in one pass.
type snapshot struct {
	Apps        []models.AppInfo
	Categories  models.CategoryMap
	Classifying bool
}

type section struct {
	Title string
	Apps  []models.AppInfo
}

// sections groups stored apps by category in category order. A member name
// that matches no stored app is dropped; an app lands in every category that
// lists its name. Apps listed nowhere are collected in a trailing section.
// Without categories everything is shown in one section.
func sections(s snapshot) []section {
	if len(s.Apps) == 0 {
		return nil
	}
	if len(s.Categories) == 0 {
		return []section{{Title: allAppsTitle, Apps: s.Apps}}
	}

	byName := make(map[string][]models.AppInfo, len(s.Apps))
	for _, app := range s.Apps {
		byName[app.Name] = append(byName[app.Name], app)
	}

	placed := make(map[string]bool, len(s.Apps))
	out := make([]section, 0, len(s.Categories)+1)
	for _, entry := range s.Categories {
		sec := section{Title: entry.Name}
		seen := make(map[string]bool, len(entry.Apps))
		for _, name := range entry.Apps {
			apps, ok := byName[name]
			if !ok || seen[name] {
				continue
			}
			seen[name] = true
			placed[name] = true
			sec.Apps = append(sec.Apps, apps...)
		}
		if len(sec.Apps) > 0 {
			out = append(out, sec)
		}
	}

	var rest []models.AppInfo
	for _, app := range s.Apps {
		if !placed[app.Name] {
			rest = append(rest, app)
		}
	}
	if len(rest) > 0 {
		out = append(out, section{Title: otherAppsTitle, Apps: rest})
	}
	return out
}
