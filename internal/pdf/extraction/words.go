package extraction

import (
	"math"
	"strings"
	"unicode"

	"github.com/a3tai/pdf-formmap/internal/geometry"
)

const (
	// wordGapTolerance is the largest horizontal gap, in points, between two
	// glyphs of the same word.
	wordGapTolerance = 3.0
	// baselineTolerance is the largest baseline drift within one line.
	baselineTolerance = 1.0
)

// Word is a run of non-space glyphs sharing a baseline. Box spans from the
// baseline up by the font size.
type Word struct {
	Text     string
	Box      geometry.Box
	Baseline float64
	FontSize float64
}

// Anchor returns the word as a label anchor centred on its box.
func (w Word) Anchor() geometry.Anchor {
	return geometry.Anchor{Text: w.Text, Left: w.Box.X0, Right: w.Box.X1, Y: w.Box.MidY()}
}

// Run is a stretch of text drawn without repositioning, spaces included.
// Only its origin is meaningful for labeling.
type Run struct {
	Text     string
	X        float64
	Baseline float64
}

// Anchor returns the run as a label anchor located at its origin.
func (r Run) Anchor() geometry.Anchor {
	return geometry.Anchor{Text: r.Text, Left: r.X, Right: r.X, Y: r.Baseline}
}

// GroupWords joins glyphs into words in drawing order. A word ends at
// whitespace, a baseline change, or a horizontal gap wider than the
// tolerance.
func GroupWords(glyphs []Glyph) []Word {
	var words []Word
	var cur *Word
	var sb strings.Builder

	flush := func() {
		if cur != nil && sb.Len() > 0 {
			cur.Text = sb.String()
			words = append(words, *cur)
		}
		cur = nil
		sb.Reset()
	}

	for _, g := range glyphs {
		if isBlank(g.Text) {
			flush()
			continue
		}
		if cur != nil {
			gap := g.X - cur.Box.X1
			if math.Abs(g.Y-cur.Baseline) > baselineTolerance || gap > wordGapTolerance || gap < -wordGapTolerance {
				flush()
			}
		}

		end := g.X + g.W
		top := g.Y + g.FontSize
		if cur == nil {
			cur = &Word{
				Box:      geometry.Box{X0: g.X, Y0: g.Y, X1: end, Y1: top},
				Baseline: g.Y,
				FontSize: g.FontSize,
			}
		} else {
			cur.Box.X1 = math.Max(cur.Box.X1, end)
			cur.Box.Y1 = math.Max(cur.Box.Y1, top)
			cur.FontSize = math.Max(cur.FontSize, g.FontSize)
		}
		sb.WriteString(g.Text)
	}
	flush()
	return words
}

// GroupRuns joins glyphs into runs in drawing order. A run continues across
// spaces and breaks on a baseline change or a gap wider than the font size.
// Runs are trimmed and empty ones dropped.
func GroupRuns(glyphs []Glyph) []Run {
	var runs []Run
	var sb strings.Builder
	var cur Run
	var end float64
	open := false

	flush := func() {
		if open {
			if text := strings.TrimSpace(sb.String()); text != "" {
				cur.Text = text
				runs = append(runs, cur)
			}
		}
		open = false
		sb.Reset()
	}

	for _, g := range glyphs {
		if open {
			gap := g.X - end
			limit := math.Max(g.FontSize, wordGapTolerance)
			if math.Abs(g.Y-cur.Baseline) > baselineTolerance || gap > limit || gap < -limit {
				flush()
			}
		}
		if !open {
			if isBlank(g.Text) {
				continue
			}
			cur = Run{X: g.X, Baseline: g.Y}
			open = true
		}
		sb.WriteString(g.Text)
		end = g.X + g.W
	}
	flush()
	return runs
}

// WordAnchors converts words to label anchors.
func WordAnchors(words []Word) []geometry.Anchor {
	out := make([]geometry.Anchor, len(words))
	for i, w := range words {
		out[i] = w.Anchor()
	}
	return out
}

// RunAnchors converts runs to label anchors.
func RunAnchors(runs []Run) []geometry.Anchor {
	out := make([]geometry.Anchor, len(runs))
	for i, r := range runs {
		out[i] = r.Anchor()
	}
	return out
}

func isBlank(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) < 0
}
