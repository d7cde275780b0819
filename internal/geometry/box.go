package geometry

import "math"

// Box is an axis-aligned rectangle in PDF user space: origin at the bottom
// left of the page, y increasing upwards.
type Box struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// NewBox builds a Box from an origin and a size as written by the "re"
// operator. Negative sizes move the origin so the result is always normalised.
func NewBox(x, y, w, h float64) Box {
	if w < 0 {
		x += w
		w = -w
	}
	if h < 0 {
		y += h
		h = -h
	}
	return Box{X0: x, Y0: y, X1: x + w, Y1: y + h}
}

// FromCorners builds a normalised Box from two opposite corners.
func FromCorners(ax, ay, bx, by float64) Box {
	return Box{
		X0: math.Min(ax, bx),
		Y0: math.Min(ay, by),
		X1: math.Max(ax, bx),
		Y1: math.Max(ay, by),
	}
}

// Width returns the horizontal extent.
func (b Box) Width() float64 { return b.X1 - b.X0 }

// Height returns the vertical extent.
func (b Box) Height() float64 { return b.Y1 - b.Y0 }

// MidY returns the vertical centre.
func (b Box) MidY() float64 { return b.Y0 + b.Height()/2 }

// TopOrigin converts the vertical extent to top-left origin coordinates for a
// page of the given height, returning the distance from the top of the page to
// the box's top and bottom edges.
func (b Box) TopOrigin(pageHeight float64) (top, bottom float64) {
	return pageHeight - b.Y1, pageHeight - b.Y0
}

// FieldKind is the coarse type tag of a detected input area.
type FieldKind string

const (
	KindCheckbox  FieldKind = "checkbox"
	KindTextField FieldKind = "text_field"
)

// Classify tags a box as a checkbox when it is smaller than checkboxSize in
// both dimensions, otherwise as a text field.
func Classify(b Box, checkboxSize float64) FieldKind {
	if b.Width() < checkboxSize && b.Height() < checkboxSize {
		return KindCheckbox
	}
	return KindTextField
}

// SizeWindow decides which drawn rectangles are plausible input areas.
// Zero-valued upper bounds are ignored.
type SizeWindow struct {
	MinWidth  float64 // exclusive
	MinHeight float64 // exclusive
	MaxHeight float64 // exclusive

	// Rectangles wider than BorderWidth and taller than BorderHeight are
	// treated as page frames.
	BorderWidth  float64
	BorderHeight float64
}

// Admits reports whether b survives the window.
func (w SizeWindow) Admits(b Box) bool {
	width, height := b.Width(), b.Height()
	if width <= w.MinWidth || height <= w.MinHeight {
		return false
	}
	if w.MaxHeight > 0 && height >= w.MaxHeight {
		return false
	}
	if w.BorderWidth > 0 && w.BorderHeight > 0 && width > w.BorderWidth && height > w.BorderHeight {
		return false
	}
	return true
}

// Round rounds v to the given number of decimal places, halves to even.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.RoundToEven(v*p) / p
}
