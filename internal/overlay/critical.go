package overlay

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Corners are the edges of a box in bottom-origin user space.
type Corners struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Size is the extent of a box.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// CriticalField is a multi-line narrative box. Y1 is the top edge. Page is
// 0-based.
type CriticalField struct {
	Key            string  `json:"-"`
	CRALine        string  `json:"cra_line"`
	Title          string  `json:"title"`
	FullLabel      string  `json:"full_label,omitempty"`
	MaxWords       int     `json:"max_words"`
	MaxLines       int     `json:"max_lines"`
	Page           int     `json:"page"`
	Coordinates    Corners `json:"coordinates"`
	Dimensions     Size    `json:"dimensions"`
	FontSize       float64 `json:"font_size"`
	LineHeight     float64 `json:"line_height"`
	TextPaddingTop float64 `json:"text_padding_top,omitempty"`
}

// LoadCriticalFields reads a critical-fields document. Top-level entries
// without a cra_line, such as metadata or notes, are ignored. Fields are
// returned sorted by key.
func LoadCriticalFields(path string) ([]CriticalField, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read critical fields: %w", err)
	}
	return ParseCriticalFields(data)
}

// ParseCriticalFields is LoadCriticalFields over raw JSON.
func ParseCriticalFields(data []byte) ([]CriticalField, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse critical fields: %w", err)
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var fields []CriticalField
	for _, k := range keys {
		var probe map[string]json.RawMessage
		if json.Unmarshal(raw[k], &probe) != nil {
			continue
		}
		if _, ok := probe["cra_line"]; !ok {
			continue
		}
		var f CriticalField
		if err := json.Unmarshal(raw[k], &f); err != nil {
			return nil, fmt.Errorf("failed to parse field %q: %w", k, err)
		}
		f.Key = k
		fields = append(fields, f)
	}
	return fields, nil
}
