package extraction

import (
	"strings"
	"unicode/utf8"

	"github.com/pdfcpu/pdfcpu/pkg/font"
)

// fallbackAdvance is the advance, in ems, assumed per rune of a font that
// has no metrics of its own.
const fallbackAdvance = 0.5

// glyphAdvance estimates the advance width of text set in fontName at size.
// The standard 14 fonts use their AFM widths.
func glyphAdvance(fontName, text string, size float64) float64 {
	name := strings.TrimPrefix(fontName, "/")
	if i := strings.IndexByte(name, '+'); i >= 0 {
		name = name[i+1:]
	}
	if font.IsCoreFont(name) {
		// TextWidth at size 1000 yields glyph space units.
		return font.TextWidth(text, name, 1000) * size / 1000
	}
	return fallbackAdvance * size * float64(utf8.RuneCountInString(text))
}

// layoutZeroWidth gives glyphs drawn without width metrics an estimated
// advance. Such glyphs never move the text position, so a run of them shares
// one origin; each is shifted past its predecessor on the same baseline.
// Glyphs with a width are left untouched.
func layoutZeroWidth(glyphs []Glyph) {
	var origin, pen, prevW, baseline float64
	chained := false

	for i := range glyphs {
		g := &glyphs[i]
		if g.W != 0 {
			chained = false
			continue
		}

		x := g.X
		w := glyphAdvance(g.Font, g.Text, g.FontSize)
		if chained && g.Y == baseline {
			// Character spacing still moves the origin, so a small step
			// forward belongs to the same run.
			if dx := g.X - origin; dx >= 0 && dx < prevW {
				x = pen + dx
			}
		}

		origin, baseline, prevW = g.X, g.Y, w
		g.X, g.W = x, w
		pen = x + w
		chained = true
	}
}
