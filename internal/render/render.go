package render

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/oukeidos/desksort/internal/models"
)

// DefaultNameWidth bounds app names in list output.
const DefaultNameWidth = 40

const ellipsis = "…"

// Truncate shortens s to at most width terminal cells without splitting a
// grapheme cluster, appending an ellipsis when anything was cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if uniseg.StringWidth(s) <= width {
		return s
	}
	limit := width - uniseg.StringWidth(ellipsis)
	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if used+w > limit {
			break
		}
		b.WriteString(g.Str())
		used += w
	}
	return b.String() + ellipsis
}

// Pad right-pads s with spaces to width cells.
func Pad(s string, width int) string {
	if w := uniseg.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// Categories renders each category followed by its members. Open counts come
// from apps when a member name matches a stored app.
func Categories(cats models.CategoryMap, apps []models.AppInfo) string {
	if len(cats) == 0 {
		return CountStyle.Render("No categories yet. Run `desksort classify`.") + "\n"
	}
	opens := make(map[string]int, len(apps))
	for _, app := range apps {
		opens[app.Name] += app.OpenCount
	}

	var b strings.Builder
	for _, entry := range cats {
		b.WriteString(CategoryStyle.Render(fmt.Sprintf("%s (%d)", entry.Name, len(entry.Apps))))
		b.WriteByte('\n')
		for _, name := range entry.Apps {
			line := "  " + AppNameStyle.Render(Pad(Truncate(name, DefaultNameWidth), DefaultNameWidth))
			if n := opens[name]; n > 0 {
				line += " " + CountStyle.Render(fmt.Sprintf("opened %d×", n))
			}
			b.WriteString(strings.TrimRight(line, " "))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Apps renders one line per app: name, category, open count and path.
func Apps(apps []models.AppInfo) string {
	if len(apps) == 0 {
		return CountStyle.Render("No apps stored. Run `desksort scan`.") + "\n"
	}
	var b strings.Builder
	for _, app := range apps {
		cat := app.Category
		if cat == "" {
			cat = "-"
		}
		fmt.Fprintf(&b, "%s  %s  %s  %s\n",
			AppNameStyle.Render(Pad(Truncate(app.Name, DefaultNameWidth), DefaultNameWidth)),
			CategoryStyle.Render(Pad(Truncate(cat, 16), 16)),
			CountStyle.Render(fmt.Sprintf("%4d", app.OpenCount)),
			PathStyle.Render(app.Path),
		)
	}
	return b.String()
}

// Status summarizes the backend state.
func Status(classifying bool, apps int, categories int, lastScan string) string {
	state := SuccessStyle.Render("idle")
	if classifying {
		state = BusyStyle.Render("classifying")
	}
	if lastScan == "" {
		lastScan = "never"
	}
	return fmt.Sprintf("%s %s\n%s %d\n%s %d\n%s %s\n",
		TitleStyle.Render("Classification:"), state,
		TitleStyle.Render("Apps:"), apps,
		TitleStyle.Render("Categories:"), categories,
		TitleStyle.Render("Last scan:"), lastScan,
	)
}
