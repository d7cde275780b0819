package formmap

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/a3tai/pdf-formmap/internal/geometry"
)

// Coordinates locate a field in top-origin page space: y0 is the top edge
// measured down from the top of the page, y1 the bottom edge.
type Coordinates struct {
	X0 float64 `json:"x0" yaml:"x0"`
	Y0 float64 `json:"y0" yaml:"y0"`
	X1 float64 `json:"x1" yaml:"x1"`
	Y1 float64 `json:"y1" yaml:"y1"`
}

// Dimensions is the size of a field.
type Dimensions struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// SmartField is one labeled box found by the geometry scan.
type SmartField struct {
	ID             string             `json:"id" yaml:"id"`
	PredictedLabel string             `json:"predicted_label" yaml:"predicted_label"`
	Type           geometry.FieldKind `json:"type" yaml:"type"`
	Page           int                `json:"page" yaml:"page"`
	Coordinates    Coordinates        `json:"coordinates" yaml:"coordinates"`
	Dimensions     Dimensions         `json:"dimensions" yaml:"dimensions"`
}

// FullField is one labeled rectangle found by the content-stream scan, in
// bottom-origin user space.
type FullField struct {
	Label  string             `json:"label" yaml:"label"`
	Type   geometry.FieldKind `json:"type" yaml:"type"`
	BBox   [4]float64         `json:"bbox" yaml:"bbox,flow"`
	Width  float64            `json:"width" yaml:"width"`
	Height float64            `json:"height" yaml:"height"`
}

// SmartMap carries every page of the document, empty or not.
type SmartMap = PageMap[SmartField]

// FullMap carries only pages that have at least one field.
type FullMap = PageMap[FullField]

var fieldNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://formmap/field"))

// FieldID derives a short identifier from a box's page, its position in the
// page's drawing order and its rounded extent. The same input always yields
// the same ID.
func FieldID(page, index int, b geometry.Box) string {
	name := fmt.Sprintf("%d/%d/%.2f,%.2f,%.2f,%.2f", page, index, b.X0, b.Y0, b.X1, b.Y1)
	return uuid.NewSHA1(fieldNamespace, []byte(name)).String()[:8]
}
