package extraction

import (
	"context"
	"errors"
	"strings"
	"testing"

	"codeberg.org/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/pdf-formmap/internal/geometry"
)

func TestPageReader_ReadPages(t *testing.T) {
	path := drawnPDF(t,
		func(pdf *fpdf.Fpdf) {
			pdf.Text(72, 100, "Claimant name")
			pdf.Rect(200, 90, 250, 15, "D")
		},
		func(pdf *fpdf.Fpdf) {
			pdf.Text(72, 200, "Line 242")
		},
	)

	var pages []PageContent
	err := NewPageReader(nil).ReadPages(context.Background(), path, func(p PageContent) error {
		pages = append(pages, p)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, pages, 2)

	first := pages[0]
	assert.Equal(t, 1, first.Number)
	assert.Equal(t, 792.0, first.Height())
	assert.Equal(t, 612.0, first.MediaBox.Width())

	words := GroupWords(first.Glyphs)
	var texts []string
	for _, w := range words {
		texts = append(texts, w.Text)
	}
	assert.Equal(t, "Claimant name", strings.Join(texts, " "))
	assert.InDelta(t, 72.0, words[0].Box.X0, 0.5)
	assert.InDelta(t, 692.0, words[0].Baseline, 0.5)

	require.Len(t, first.Rects, 1)
	assert.InDelta(t, 200.0, first.Rects[0].X0, 0.01)
	assert.InDelta(t, 687.0, first.Rects[0].Y0, 0.01)
	assert.InDelta(t, 250.0, first.Rects[0].Width(), 0.01)
	assert.InDelta(t, 15.0, first.Rects[0].Height(), 0.01)

	assert.Equal(t, 2, pages[1].Number)
	assert.NotEmpty(t, pages[1].Glyphs)
	assert.Empty(t, pages[1].Rects)

	// Helvetica carries no /Widths, so positions come from its AFM metrics.
	second := GroupWords(pages[1].Glyphs)
	require.Len(t, second, 2)
	assert.Equal(t, "Line", second[0].Text)
	assert.InDelta(t, 90.9, second[0].Box.X1, 0.01)
	assert.Equal(t, "242", second[1].Text)
	assert.InDelta(t, 93.68, second[1].Box.X0, 0.01)
	assert.InDelta(t, 110.36, second[1].Box.X1, 0.01)
}

func TestPageReader_StopsOnCallbackError(t *testing.T) {
	path := drawnPDF(t, func(*fpdf.Fpdf) {}, func(*fpdf.Fpdf) {}, func(*fpdf.Fpdf) {})
	stop := errors.New("stop")

	calls := 0
	err := NewPageReader(nil).ReadPages(context.Background(), path, func(PageContent) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestPageReader_Cancelled(t *testing.T) {
	path := drawnPDF(t, func(*fpdf.Fpdf) {})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewPageReader(nil).ReadPages(ctx, path, func(PageContent) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPageReader_PageCount(t *testing.T) {
	path := drawnPDF(t, func(*fpdf.Fpdf) {}, func(*fpdf.Fpdf) {})

	n, err := NewPageReader(nil).PageCount(path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestPageReader_InheritedMediaBox(t *testing.T) {
	path := writeFile(t, "a4.pdf", buildPDF(
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 /MediaBox [0 0 595 842] >>",
		"<< /Type /Page /Parent 2 0 R /Resources << >> /Contents 4 0 R >>",
		"<< /Length 0 >>\nstream\n\nendstream",
	))

	var got geometry.Box
	err := NewPageReader(nil).ReadPages(context.Background(), path, func(p PageContent) error {
		got = p.MediaBox
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, geometry.Box{X0: 0, Y0: 0, X1: 595, Y1: 842}, got)
}
