package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// UncategorizedCategory is the single bucket used when classification fails.
const UncategorizedCategory = "Uncategorized"

// CategoryEntry is one category and its member app names.
type CategoryEntry struct {
	Name string
	Apps []string
}

// CategoryMap is an ordered category -> app names mapping.
// It encodes as a JSON object whose key order follows the slice order.
type CategoryMap []CategoryEntry

// Get returns the members of a category.
func (m CategoryMap) Get(name string) ([]string, bool) {
	for _, e := range m {
		if e.Name == name {
			return e.Apps, true
		}
	}
	return nil, false
}

// Set replaces the members of an existing category or appends a new one.
func (m *CategoryMap) Set(name string, apps []string) {
	for i := range *m {
		if (*m)[i].Name == name {
			(*m)[i].Apps = apps
			return
		}
	}
	*m = append(*m, CategoryEntry{Name: name, Apps: apps})
}

// Names lists category names in order.
func (m CategoryMap) Names() []string {
	out := make([]string, 0, len(m))
	for _, e := range m {
		out = append(out, e.Name)
	}
	return out
}

// CategoryOf returns the first category, in map order, that lists appName.
func (m CategoryMap) CategoryOf(appName string) (string, bool) {
	for _, e := range m {
		if slices.Contains(e.Apps, appName) {
			return e.Name, true
		}
	}
	return "", false
}

func (m CategoryMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Name)
		if err != nil {
			return nil, err
		}
		apps := e.Apps
		if apps == nil {
			apps = []string{}
		}
		val, err := json.Marshal(apps)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON keeps the key order of the document. A repeated key replaces
// the members of its first occurrence.
func (m *CategoryMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*m = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("categories must be a JSON object, got %v", tok)
	}

	out := CategoryMap{}
	index := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected category key %v", keyTok)
		}
		var apps []string
		if err := dec.Decode(&apps); err != nil {
			return fmt.Errorf("category %q: %w", key, err)
		}
		if apps == nil {
			apps = []string{}
		}
		if i, seen := index[key]; seen {
			out[i].Apps = apps
			continue
		}
		index[key] = len(out)
		out = append(out, CategoryEntry{Name: key, Apps: apps})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*m = out
	return nil
}

// ClassificationResult is the parsed answer of the remote model.
type ClassificationResult struct {
	Categories CategoryMap `json:"categories"`
	// Fallback is set when the result is the Uncategorized bucket built
	// after a failed request.
	Fallback bool `json:"-"`
}

// FallbackResult puts every name, unchanged and in order, into the
// Uncategorized bucket.
func FallbackResult(names []string) ClassificationResult {
	apps := slices.Clone(names)
	if apps == nil {
		apps = []string{}
	}
	return ClassificationResult{
		Categories: CategoryMap{{Name: UncategorizedCategory, Apps: apps}},
		Fallback:   true,
	}
}
