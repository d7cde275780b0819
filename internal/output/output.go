// Package output writes command results as text, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Format selects how results are written.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a config value to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format: %s", s)
}

// IsStructured reports whether f is JSON or YAML.
func (f Format) IsStructured() bool {
	return f == FormatJSON || f == FormatYAML
}

// Writer sends results to one destination in one format.
type Writer struct {
	w      io.Writer
	format Format
}

// NewWriter creates a Writer.
func NewWriter(w io.Writer, format Format) *Writer {
	return &Writer{w: w, format: format}
}

// Write renders data. In text mode it calls text, or falls back to JSON
// when text is nil.
func (o *Writer) Write(data any, text func(io.Writer) error) error {
	if !o.format.IsStructured() {
		if text != nil {
			return text(o.w)
		}
		return To(o.w, FormatJSON, data)
	}
	return To(o.w, o.format, data)
}

// To writes data to w in a structured format.
func To(w io.Writer, format Format, data any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(data)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(data)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
