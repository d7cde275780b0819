package extraction

import (
	"context"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"github.com/a3tai/pdf-formmap/internal/geometry"
)

// Letter is the page size assumed when no MediaBox can be resolved.
var Letter = geometry.Box{X0: 0, Y0: 0, X1: 612, Y1: 792}

// maxPageTreeDepth bounds the walk up /Parent links.
const maxPageTreeDepth = 10

// Glyph is one positioned piece of text as drawn by the content stream.
// X and Y locate the baseline origin in user space.
type Glyph struct {
	Text     string
	Font     string
	FontSize float64
	X        float64
	Y        float64
	W        float64
}

// PageContent is the positioned text and rectangles of one page.
type PageContent struct {
	Number   int
	MediaBox geometry.Box
	Glyphs   []Glyph
	Rects    []geometry.Box
}

// Height returns the page height used to flip coordinates to a top origin.
func (p PageContent) Height() float64 { return p.MediaBox.Height() }

// PageReader reads positioned text with ledongthuc/pdf.
type PageReader struct {
	logger *zap.Logger
}

// NewPageReader creates a page reader. A nil logger discards output.
func NewPageReader(logger *zap.Logger) *PageReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PageReader{logger: logger}
}

// PageCount returns the number of pages of the document at path.
func (pr *PageReader) PageCount(path string) (int, error) {
	if err := ValidatePDF(path); err != nil {
		return 0, err
	}
	f, r, err := pdf.Open(path)
	if err != nil {
		return 0, &Error{Op: "open", Path: path, Err: err}
	}
	defer f.Close()
	return r.NumPage(), nil
}

// ReadPages calls fn for every page of the document in order. A page whose
// content cannot be decoded is logged and passed on empty, so one bad page
// never hides the rest. fn returning an error stops the walk.
func (pr *PageReader) ReadPages(ctx context.Context, path string, fn func(PageContent) error) error {
	if err := ValidatePDF(path); err != nil {
		return err
	}
	f, r, err := pdf.Open(path)
	if err != nil {
		return &Error{Op: "open", Path: path, Err: err}
	}
	defer f.Close()
	return pr.readPages(ctx, r, path, fn)
}

// ReadPagesFrom is ReadPages over an in-memory document.
func (pr *PageReader) ReadPagesFrom(ctx context.Context, ra io.ReaderAt, size int64, fn func(PageContent) error) error {
	r, err := pdf.NewReader(ra, size)
	if err != nil {
		return &Error{Op: "open", Path: "<reader>", Err: err}
	}
	return pr.readPages(ctx, r, "<reader>", fn)
}

func (pr *PageReader) readPages(ctx context.Context, r *pdf.Reader, path string, fn func(PageContent) error) error {
	total := r.NumPage()
	if total == 0 {
		return &Error{Op: "read pages", Path: path, Err: ErrNoPages}
	}

	for n := 1; n <= total; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		content, err := pr.readPage(r, path, n)
		if err != nil {
			pr.logger.Warn("page content unreadable",
				zap.String("path", path),
				zap.Int("page", n),
				zap.Error(err))
		}
		if err := fn(content); err != nil {
			return err
		}
	}
	return nil
}

func (pr *PageReader) readPage(r *pdf.Reader, path string, n int) (content PageContent, err error) {
	content = PageContent{Number: n, MediaBox: Letter}
	defer recoverPage("read page", path, n, &err)

	page := r.Page(n)
	if page.V.IsNull() {
		return content, &Error{Op: "read page", Path: path, Page: n, Err: ErrPageRange}
	}

	if box, ok := pr.mediaBox(page); ok {
		content.MediaBox = box
	} else {
		pr.logger.Debug("no MediaBox, assuming letter", zap.String("path", path), zap.Int("page", n))
	}

	c := page.Content()
	content.Glyphs = make([]Glyph, 0, len(c.Text))
	for _, t := range c.Text {
		content.Glyphs = append(content.Glyphs, Glyph{
			Text:     t.S,
			Font:     t.Font,
			FontSize: t.FontSize,
			X:        t.X,
			Y:        t.Y,
			W:        t.W,
		})
	}
	layoutZeroWidth(content.Glyphs)
	content.Rects = make([]geometry.Box, 0, len(c.Rect))
	for _, rc := range c.Rect {
		content.Rects = append(content.Rects, geometry.FromCorners(rc.Min.X, rc.Min.Y, rc.Max.X, rc.Max.Y))
	}
	return content, nil
}

// mediaBox resolves the page MediaBox, following /Parent links for an
// inherited one.
func (pr *PageReader) mediaBox(page pdf.Page) (geometry.Box, bool) {
	current := page.V
	for i := 0; i < maxPageTreeDepth && !current.IsNull(); i++ {
		if v := current.Key("MediaBox"); !v.IsNull() {
			box, err := parseMediaBox(v)
			if err == nil {
				return box, true
			}
			pr.logger.Debug("invalid MediaBox", zap.Error(err))
		}
		current = current.Key("Parent")
	}
	return geometry.Box{}, false
}

func parseMediaBox(v pdf.Value) (geometry.Box, error) {
	if v.Kind() != pdf.Array {
		return geometry.Box{}, fmt.Errorf("MediaBox is not an array: %v", v.Kind())
	}
	if v.Len() != 4 {
		return geometry.Box{}, fmt.Errorf("invalid MediaBox array length: %d, expected 4", v.Len())
	}

	coords := make([]float64, 4)
	for i := range coords {
		c := v.Index(i)
		switch c.Kind() {
		case pdf.Integer:
			coords[i] = float64(c.Int64())
		case pdf.Real:
			coords[i] = c.Float64()
		default:
			return geometry.Box{}, fmt.Errorf("invalid coordinate type at index %d: %v", i, c.Kind())
		}
	}

	box := geometry.FromCorners(coords[0], coords[1], coords[2], coords[3])
	if box.Width() == 0 || box.Height() == 0 {
		return geometry.Box{}, fmt.Errorf("degenerate MediaBox %v", coords)
	}
	return box, nil
}
