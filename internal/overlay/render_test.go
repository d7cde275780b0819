package overlay

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codeberg.org/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/pdf-formmap/internal/pdf/extraction"
)

// runsOf returns the text runs of every page of a rendered document.
func runsOf(t *testing.T, data []byte) [][]extraction.Run {
	t.Helper()
	var pages [][]extraction.Run
	err := extraction.NewPageReader(nil).ReadPagesFrom(context.Background(), bytes.NewReader(data), int64(len(data)),
		func(p extraction.PageContent) error {
			pages = append(pages, extraction.GroupRuns(p.Glyphs))
			return nil
		})
	require.NoError(t, err)
	return pages
}

func findRun(runs []extraction.Run, prefix string) (extraction.Run, bool) {
	for _, r := range runs {
		if strings.HasPrefix(r.Text, prefix) {
			return r, true
		}
	}
	return extraction.Run{}, false
}

// templatePDF writes an A4 template with the given number of pages.
func templatePDF(t *testing.T, pages int) string {
	t.Helper()
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetFont("Helvetica", "", 12)
	for i := 0; i < pages; i++ {
		pdf.AddPage()
		pdf.Text(40, 40, "T661 template")
	}
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	path := filepath.Join(t.TempDir(), "template.pdf")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func loadLayout(t *testing.T) *Layout {
	t.Helper()
	l, err := LoadLayout(writeTemp(t, "layout.json", layoutJSON))
	require.NoError(t, err)
	return l
}

func TestPreview_Render(t *testing.T) {
	values := SampleValues()
	values["project_title"] = strings.Repeat("T", 120)

	var buf bytes.Buffer
	report, err := NewPreview(DefaultPreviewOptions(), nil).Render(loadLayout(t), values, &buf)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Pages)
	require.Len(t, report.Placed, 4)
	assert.Equal(t, "bn", report.Placed[0].Field)
	assert.Equal(t, 0, report.Placed[0].Page)
	assert.Equal(t, "summary", report.Placed[3].Field)
	assert.Zero(t, report.Missing)

	assert.Len(t, report.Placed[2].Text, 80)
	assert.Equal(t, values["project_summary"], report.Placed[3].Text, "multiline limit is 200")

	pages := runsOf(t, buf.Bytes())
	require.Len(t, pages, 2)

	acme, ok := findRun(pages[0], "Acme Research Corp")
	require.True(t, ok)
	assert.InDelta(t, 72.0, acme.X, 0.5)
	assert.InDelta(t, 700.0, acme.Baseline, 0.5)

	title, ok := findRun(pages[1], "TTTT")
	require.True(t, ok)
	assert.Len(t, title.Text, 80)
}

func TestPreview_NoMatchingValuesStillRenders(t *testing.T) {
	var buf bytes.Buffer
	report, err := NewPreview(DefaultPreviewOptions(), nil).Render(loadLayout(t), map[string]string{"unrelated": "x"}, &buf)
	require.NoError(t, err)

	assert.Empty(t, report.Placed)
	assert.Equal(t, 4, report.Missing)

	n, err := api.PageCount(bytes.NewReader(buf.Bytes()), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, runs := range runsOf(t, buf.Bytes()) {
		assert.Empty(t, runs)
	}
}

func TestPreview_Labeled(t *testing.T) {
	opts := DefaultPreviewOptions()
	opts.Labeled = true

	var buf bytes.Buffer
	report, err := NewPreview(opts, nil).Render(loadLayout(t), SampleValues(), &buf)
	require.NoError(t, err)

	for _, p := range report.Placed {
		assert.LessOrEqual(t, len([]rune(p.Text)), 40)
	}

	pages := runsOf(t, buf.Bytes())
	tag, ok := findRun(pages[0], "[claimant]")
	require.True(t, ok)
	// single-line box is 15 high, tag sits 5 above it
	assert.InDelta(t, 720.0, tag.Baseline, 0.5)

	summary, ok := findRun(pages[1], "[summary]")
	require.True(t, ok)
	assert.InDelta(t, 685.0, summary.Baseline, 0.5)
}

func TestPreview_PagesFollowLayout(t *testing.T) {
	layout := loadLayout(t)
	layout.Fields["part6"] = map[string]LayoutField{"signature": {Page: 4, X: 72, Y: 100}}
	values := SampleValues()
	values["signature"] = "J. Doe"

	opts := DefaultPreviewOptions()
	opts.Pages = 0
	opts.Labeled = true

	var buf bytes.Buffer
	report, err := NewPreview(opts, nil).Render(layout, values, &buf)
	require.NoError(t, err)
	assert.Equal(t, 5, report.Pages)

	pages := runsOf(t, buf.Bytes())
	require.Len(t, pages, 5)
	_, ok := findRun(pages[4], "[signature]")
	assert.True(t, ok, "field on the last layout page is drawn")

	opts.Template = templatePDF(t, 3)
	report, err = NewPreview(opts, nil).Render(layout, values, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 3, report.Pages, "template still caps the page count")
}

func TestPreview_EmptyLayoutRendersOnePage(t *testing.T) {
	opts := DefaultPreviewOptions()
	opts.Pages = 0

	report, err := NewPreview(opts, nil).Render(&Layout{}, SampleValues(), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Pages)
}

func TestPreview_TemplateCapsPages(t *testing.T) {
	opts := DefaultPreviewOptions()
	opts.Template = templatePDF(t, 1)

	var buf bytes.Buffer
	report, err := NewPreview(opts, nil).Render(loadLayout(t), SampleValues(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Pages)

	dims, err := api.PageDims(bytes.NewReader(buf.Bytes()), nil)
	require.NoError(t, err)
	require.Len(t, dims, 1)
	assert.InDelta(t, 595.28, dims[0].Width, 0.5)
	assert.InDelta(t, 841.89, dims[0].Height, 0.5)
}

func TestPreview_BadTemplate(t *testing.T) {
	opts := DefaultPreviewOptions()
	opts.Template = writeTemp(t, "template.pdf", "not a pdf")

	_, err := NewPreview(opts, nil).Render(loadLayout(t), SampleValues(), &bytes.Buffer{})
	assert.ErrorIs(t, err, extraction.ErrNotPDF)
}

func TestFiller_Render(t *testing.T) {
	fields, err := ParseCriticalFields([]byte(criticalJSON))
	require.NoError(t, err)

	values := NarrativeSamples()
	var buf bytes.Buffer
	report, err := NewFiller(DefaultFillOptions(), nil).Render(fields, values, &buf)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Pages)
	require.Len(t, report.Fields, 2)

	uncertain := report.Fields[0]
	assert.Equal(t, "line_242_uncertainties", uncertain.Key)
	assert.False(t, uncertain.Truncated)
	assert.False(t, uncertain.OverWords)
	assert.Equal(t, len(strings.Fields(values["line_242_uncertainties"])), uncertain.Words)

	work := report.Fields[1]
	assert.Equal(t, 5, work.MaxLines)
	assert.Greater(t, work.Lines, 5)
	assert.True(t, work.Truncated)

	pages := runsOf(t, buf.Bytes())
	require.Len(t, pages, 2)
	assert.Empty(t, pages[0])

	first, ok := findRun(pages[1], "We conducted systematic")
	require.True(t, ok)
	assert.InDelta(t, 45.0, first.X, 0.5)
	assert.InDelta(t, 400-11+2, first.Baseline, 0.5)

	var drawn int
	for _, r := range pages[1] {
		if r.Baseline < 400 && r.Baseline > 200 {
			drawn++
		}
	}
	assert.Equal(t, 4, drawn, "five lines, one of them blank")
}

func TestFiller_Outline(t *testing.T) {
	fields, err := ParseCriticalFields([]byte(criticalJSON))
	require.NoError(t, err)

	opts := DefaultFillOptions()
	opts.Outline = true
	var buf bytes.Buffer
	_, err = NewFiller(opts, nil).Render(fields, NarrativeSamples(), &buf)
	require.NoError(t, err)

	pages := runsOf(t, buf.Bytes())
	tag, ok := findRun(pages[1], "[242] Uncertainties")
	require.True(t, ok)
	assert.InDelta(t, 705.0, tag.Baseline, 0.5)
}

func TestFiller_SkipsFieldsWithoutValues(t *testing.T) {
	fields, err := ParseCriticalFields([]byte(criticalJSON))
	require.NoError(t, err)

	var buf bytes.Buffer
	report, err := NewFiller(DefaultFillOptions(), nil).Render(fields, nil, &buf)
	require.NoError(t, err)
	assert.Empty(t, report.Fields)
	assert.Equal(t, 2, report.Pages)
}

func TestFiller_PageOutsideTemplate(t *testing.T) {
	fields, err := ParseCriticalFields([]byte(criticalJSON))
	require.NoError(t, err)

	opts := DefaultFillOptions()
	opts.Template = templatePDF(t, 1)
	_, err = NewFiller(opts, nil).Render(fields, NarrativeSamples(), &bytes.Buffer{})
	assert.ErrorIs(t, err, extraction.ErrPageRange)
}

func TestFiller_Template(t *testing.T) {
	fields, err := ParseCriticalFields([]byte(criticalJSON))
	require.NoError(t, err)

	opts := DefaultFillOptions()
	opts.Template = templatePDF(t, 3)
	var buf bytes.Buffer
	report, err := NewFiller(opts, nil).Render(fields, NarrativeSamples(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Pages)

	n, err := api.PageCount(bytes.NewReader(buf.Bytes()), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
