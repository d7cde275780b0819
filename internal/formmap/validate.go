package formmap

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrUnknownSchema is returned when a document matches no known map shape.
var ErrUnknownSchema = errors.New("unrecognised map document")

// Kind names a map document shape.
type Kind string

const (
	KindSmart    Kind = "smart"
	KindFull     Kind = "full"
	KindLayout   Kind = "layout"
	KindCritical Kind = "critical"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Detect guesses the shape of a decoded JSON document.
func Detect(doc any) (Kind, error) {
	obj, ok := doc.(map[string]any)
	if !ok {
		return "", fmt.Errorf("%w: top level is not an object", ErrUnknownSchema)
	}
	if _, ok := obj["fields"]; ok {
		return KindLayout, nil
	}
	for _, v := range obj {
		if field, ok := v.(map[string]any); ok {
			if _, ok := field["cra_line"]; ok {
				return KindCritical, nil
			}
		}
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		if _, ok := ParsePageKey(k); !ok {
			return "", fmt.Errorf("%w: unexpected key %q", ErrUnknownSchema, k)
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		// the stream scan omits empty pages, so an empty map can only be one
		return KindFull, nil
	}
	sort.Strings(keys)

	for _, k := range keys {
		items, ok := obj[k].([]any)
		if !ok {
			return "", fmt.Errorf("%w: %s is not a list", ErrUnknownSchema, k)
		}
		if len(items) == 0 {
			continue
		}
		item, ok := items[0].(map[string]any)
		if !ok {
			return "", fmt.Errorf("%w: %s holds a non-object entry", ErrUnknownSchema, k)
		}
		if _, ok := item["predicted_label"]; ok {
			return KindSmart, nil
		}
		if _, ok := item["bbox"]; ok {
			return KindFull, nil
		}
		return "", fmt.Errorf("%w: %s entries carry neither predicted_label nor bbox", ErrUnknownSchema, k)
	}
	// every page present but empty
	return KindSmart, nil
}

// Validate detects the shape of data and checks it against that shape's
// schema. The detected kind is returned even when validation fails.
func Validate(data []byte) (Kind, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return "", fmt.Errorf("failed to decode document: %w", err)
	}

	kind, err := Detect(doc)
	if err != nil {
		return "", err
	}

	schema, err := compileSchema(kind)
	if err != nil {
		return kind, err
	}
	if err := schema.Validate(doc); err != nil {
		return kind, fmt.Errorf("%s map does not match schema: %w", kind, err)
	}
	return kind, nil
}

// ValidateFile is Validate for a file on disk.
func ValidateFile(path string) (Kind, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read map: %w", err)
	}
	return Validate(data)
}

func compileSchema(kind Kind) (*jsonschema.Schema, error) {
	name := string(kind) + ".json"
	raw, err := schemaFS.ReadFile("schemas/" + name)
	if err != nil {
		return nil, fmt.Errorf("no schema for %s maps: %w", kind, err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("failed to load %s schema: %w", kind, err)
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s schema: %w", kind, err)
	}
	return schema, nil
}
