package overlay

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LayoutField places one value. Coordinates are PDF user space with the
// origin at the bottom left; Y is the text baseline. Page is 0-based.
type LayoutField struct {
	Page      int     `json:"page" yaml:"page"`
	X         float64 `json:"x" yaml:"x"`
	Y         float64 `json:"y" yaml:"y"`
	FontSize  float64 `json:"fontSize" yaml:"fontSize"`
	LLMSource string  `json:"llm_source,omitempty" yaml:"llm_source,omitempty"`
	Multiline bool    `json:"multiline,omitempty" yaml:"multiline,omitempty"`
	MaxWidth  float64 `json:"maxWidth,omitempty" yaml:"maxWidth,omitempty"`
	MaxHeight float64 `json:"maxHeight,omitempty" yaml:"maxHeight,omitempty"`
}

// Source returns the value key for a field named name.
func (f LayoutField) Source(name string) string {
	if f.LLMSource != "" {
		return f.LLMSource
	}
	return name
}

// Layout is a hand-curated mapping of sections to named fields.
type Layout struct {
	Fields map[string]map[string]LayoutField `json:"fields" yaml:"fields"`
}

// NamedField is a layout field with its section and name.
type NamedField struct {
	Section string
	Name    string
	LayoutField
}

// Sorted returns every field ordered by section, then name.
func (l *Layout) Sorted() []NamedField {
	sections := make([]string, 0, len(l.Fields))
	for s := range l.Fields {
		sections = append(sections, s)
	}
	sort.Strings(sections)

	var out []NamedField
	for _, s := range sections {
		names := make([]string, 0, len(l.Fields[s]))
		for n := range l.Fields[s] {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			out = append(out, NamedField{Section: s, Name: n, LayoutField: l.Fields[s][n]})
		}
	}
	return out
}

// PageCount returns the number of pages the layout reaches: one past the
// highest field page, or 0 for an empty layout.
func (l *Layout) PageCount() int {
	n := 0
	for _, fields := range l.Fields {
		for _, f := range fields {
			n = max(n, f.Page+1)
		}
	}
	return n
}

// LoadLayout reads a layout document.
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout: %w", err)
	}
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("failed to parse layout %s: %w", path, err)
	}
	if l.Fields == nil {
		return nil, fmt.Errorf("layout %s has no \"fields\" object", path)
	}
	return &l, nil
}

// LoadValues reads a flat key to text document, JSON or YAML by extension.
func LoadValues(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read values: %w", err)
	}

	values := map[string]string{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &values)
	default:
		err = json.Unmarshal(data, &values)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse values %s: %w", path, err)
	}
	return values, nil
}
