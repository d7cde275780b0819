package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// glyphs lays out s one glyph per rune starting at x, each w wide.
func glyphs(s string, x, y, w float64) []Glyph {
	out := make([]Glyph, 0, len(s))
	for _, r := range s {
		out = append(out, Glyph{Text: string(r), FontSize: 10, X: x, Y: y, W: w})
		x += w
	}
	return out
}

func TestGroupWords(t *testing.T) {
	var in []Glyph
	in = append(in, glyphs("Line 242", 100, 500, 5)...)
	in = append(in, glyphs("Date", 400, 500, 5)...) // far gap, same baseline
	in = append(in, glyphs("Name", 100, 480, 5)...) // new baseline

	words := GroupWords(in)
	require.Len(t, words, 4)

	texts := make([]string, len(words))
	for i, w := range words {
		texts[i] = w.Text
	}
	assert.Equal(t, []string{"Line", "242", "Date", "Name"}, texts)

	assert.Equal(t, 100.0, words[0].Box.X0)
	assert.Equal(t, 120.0, words[0].Box.X1)
	assert.Equal(t, 500.0, words[0].Baseline)
	assert.Equal(t, 505.0, words[0].Box.MidY())

	a := words[1].Anchor()
	assert.Equal(t, "242", a.Text)
	assert.Equal(t, 125.0, a.Left)
	assert.Equal(t, 140.0, a.Right)
}

func TestGroupWords_SmallGapJoins(t *testing.T) {
	in := []Glyph{
		{Text: "A", FontSize: 10, X: 0, Y: 0, W: 5},
		{Text: "B", FontSize: 10, X: 7, Y: 0, W: 5}, // gap 2
		{Text: "C", FontSize: 10, X: 16, Y: 0, W: 5}, // gap 4
	}
	words := GroupWords(in)
	require.Len(t, words, 2)
	assert.Equal(t, "AB", words[0].Text)
	assert.Equal(t, "C", words[1].Text)
}

func TestGroupWords_Empty(t *testing.T) {
	assert.Empty(t, GroupWords(nil))
	assert.Empty(t, GroupWords(glyphs("   ", 0, 0, 3)))
}

func TestGroupRuns(t *testing.T) {
	var in []Glyph
	in = append(in, glyphs(" Line 242 uncertainties ", 72, 600, 5)...)
	in = append(in, glyphs("Date", 400, 600, 5)...)
	in = append(in, glyphs("Name", 72, 580, 5)...)

	runs := GroupRuns(in)
	require.Len(t, runs, 3)

	assert.Equal(t, "Line 242 uncertainties", runs[0].Text)
	assert.Equal(t, 77.0, runs[0].X) // leading space skipped
	assert.Equal(t, 600.0, runs[0].Baseline)
	assert.Equal(t, "Date", runs[1].Text)
	assert.Equal(t, "Name", runs[2].Text)

	a := runs[2].Anchor()
	assert.Equal(t, 72.0, a.Left)
	assert.Equal(t, 580.0, a.Y)
}

func TestAnchors(t *testing.T) {
	words := GroupWords(glyphs("ab cd", 0, 0, 5))
	assert.Len(t, WordAnchors(words), 2)

	runs := GroupRuns(glyphs("ab cd", 0, 0, 5))
	anchors := RunAnchors(runs)
	require.Len(t, anchors, 1)
	assert.Equal(t, "ab cd", anchors[0].Text)
}

// unmeasured lays s out the way a font without width metrics is drawn:
// every glyph on the same origin with no width.
func unmeasured(s, fontName string, x, y float64) []Glyph {
	out := make([]Glyph, 0, len(s))
	for _, r := range s {
		out = append(out, Glyph{Text: string(r), Font: fontName, FontSize: 10, X: x, Y: y})
	}
	return out
}

func TestLayoutZeroWidth_CoreFont(t *testing.T) {
	in := unmeasured("Line 242", "Helvetica", 72, 692)
	layoutZeroWidth(in)

	words := GroupWords(in)
	require.Len(t, words, 2)
	assert.Equal(t, "Line", words[0].Text)
	assert.Equal(t, "242", words[1].Text)
	assert.Greater(t, words[1].Box.X0, words[0].Box.X1)

	// L i n e at 556 222 556 556 units, then a 278 unit space.
	assert.InDelta(t, 72.0, words[0].Box.X0, 1e-9)
	assert.InDelta(t, 90.9, words[0].Box.X1, 1e-9)
	assert.InDelta(t, 93.68, words[1].Box.X0, 1e-9)
}

func TestLayoutZeroWidth_UnknownFont(t *testing.T) {
	in := unmeasured("ab", "ABCDEF+Custom", 10, 0)
	layoutZeroWidth(in)
	assert.Equal(t, []float64{10, 15}, []float64{in[0].X, in[1].X})
	assert.Equal(t, 5.0, in[1].W)
}

func TestLayoutZeroWidth_KeepsMeasuredGlyphs(t *testing.T) {
	in := glyphs("ab", 10, 0, 4)
	want := append([]Glyph(nil), in...)
	layoutZeroWidth(in)
	assert.Equal(t, want, in)
}

func TestLayoutZeroWidth_NewBaselineRestarts(t *testing.T) {
	in := append(unmeasured("ab", "Courier", 10, 100), unmeasured("c", "Courier", 10, 80)...)
	layoutZeroWidth(in)
	assert.InDelta(t, 16.0, in[1].X, 1e-9, "courier advances 600 units")
	assert.Equal(t, 10.0, in[2].X)
}

func TestGlyphAdvance(t *testing.T) {
	assert.InDelta(t, 5.56, glyphAdvance("Helvetica", "2", 10), 1e-9)
	assert.InDelta(t, 5.56, glyphAdvance("/XYZABC+Helvetica", "2", 10), 1e-9)
	assert.InDelta(t, 12.0, glyphAdvance("Unembedded", "abc", 8), 1e-9)
}
