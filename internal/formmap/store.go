package formmap

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Encode writes v as two-space indented JSON without HTML escaping, followed
// by a newline.
func Encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// DirPerm is the mode of directories created for output files.
const DirPerm os.FileMode = 0o750

// CreateFile opens path for writing, creating parent directories with
// DirPerm as needed.
func CreateFile(path string) (*os.File, error) {
	if path == "" {
		return nil, fmt.Errorf("output path cannot be empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, DirPerm); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, nil
}

// Save writes v to path, creating parent directories as needed.
func Save(path string, v any) error {
	f, err := CreateFile(path)
	if err != nil {
		return err
	}
	if err := Encode(f, v); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// LoadSmartMap reads a geometry-scan map.
func LoadSmartMap(path string) (SmartMap, error) {
	var m SmartMap
	if err := loadJSON(path, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadFullMap reads a content-stream-scan map.
func LoadFullMap(path string) (FullMap, error) {
	var m FullMap
	if err := loadJSON(path, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func loadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read map: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse map %s: %w", path, err)
	}
	return nil
}
