package overlay

import (
	"fmt"
	"io"

	"go.uber.org/zap"
)

// PreviewOptions control preview rendering.
type PreviewOptions struct {
	// Pages is how many pages to render, capped by the template's length.
	// 0 renders every page the layout reaches.
	Pages int
	// Template, when set, is drawn under the values.
	Template string
	// Labeled adds a boundary box and a [name] tag to each value.
	Labeled bool

	Font              string
	DefaultFontSize   float64
	Truncate          int
	TruncateMultiline int
	TruncateLabeled   int
}

// DefaultPreviewOptions returns the settings used for position checks.
func DefaultPreviewOptions() PreviewOptions {
	return PreviewOptions{
		Pages:             2,
		Font:              "Helvetica",
		DefaultFontSize:   10,
		Truncate:          80,
		TruncateMultiline: 200,
		TruncateLabeled:   40,
	}
}

// Placement records one value drawn on the preview.
type Placement struct {
	Section string  `json:"section" yaml:"section"`
	Field   string  `json:"field" yaml:"field"`
	Page    int     `json:"page" yaml:"page"`
	X       float64 `json:"x" yaml:"x"`
	Y       float64 `json:"y" yaml:"y"`
	Text    string  `json:"text" yaml:"text"`
}

// PreviewReport describes a rendered preview.
type PreviewReport struct {
	Pages  int         `json:"pages" yaml:"pages"`
	Placed []Placement `json:"placed" yaml:"placed"`
	// Missing counts in-range fields without a value.
	Missing int `json:"missing" yaml:"missing"`
}

// Preview draws sample values at layout coordinates.
type Preview struct {
	opts   PreviewOptions
	logger *zap.Logger
}

// NewPreview creates a preview renderer. A nil logger discards output.
func NewPreview(opts PreviewOptions, logger *zap.Logger) *Preview {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Preview{opts: opts, logger: logger}
}

// Render writes a PDF to w. Each page carries the layout fields whose
// 0-based page matches, in section then name order. A layout that matches
// no values still yields the requested number of pages.
func (p *Preview) Render(layout *Layout, values map[string]string, w io.Writer) (*PreviewReport, error) {
	c, err := newCanvas(p.opts.Font, p.opts.Template)
	if err != nil {
		return nil, err
	}

	pages := p.opts.Pages
	if pages < 1 {
		pages = max(layout.PageCount(), 1)
	}
	if n := c.templatePages(); n > 0 && n < pages {
		pages = n
	}

	report := &PreviewReport{Pages: pages, Placed: []Placement{}}
	fields := layout.Sorted()

	for i := 0; i < pages; i++ {
		c.addPage(i)
		for _, f := range fields {
			if f.Page != i {
				continue
			}
			value := values[f.Source(f.Name)]
			if value == "" {
				report.Missing++
				continue
			}
			text := p.draw(c, f, value)
			report.Placed = append(report.Placed, Placement{
				Section: f.Section,
				Field:   f.Name,
				Page:    i,
				X:       f.X,
				Y:       f.Y,
				Text:    text,
			})
			p.logger.Debug("placed field",
				zap.Int("page", i+1),
				zap.String("field", f.Name),
				zap.Float64("x", f.X),
				zap.Float64("y", f.Y))
		}
	}

	if err := c.output(w); err != nil {
		return nil, err
	}
	p.logger.Info("preview rendered",
		zap.Int("pages", pages),
		zap.Int("placed", len(report.Placed)),
		zap.Int("missing", report.Missing))
	return report, nil
}

func (p *Preview) draw(c *canvas, f NamedField, value string) string {
	size := f.FontSize
	if size <= 0 {
		size = p.opts.DefaultFontSize
	}

	if !p.opts.Labeled {
		limit := p.opts.Truncate
		if f.Multiline {
			limit = p.opts.TruncateMultiline
		}
		text := truncateRunes(value, limit)
		c.setFont("", size, black)
		c.text(f.X, f.Y, text)
		return text
	}

	boxW := f.MaxWidth
	if boxW <= 0 {
		boxW = 200
	}
	boxH := 15.0
	if f.Multiline {
		boxH = f.MaxHeight
		if boxH <= 0 {
			boxH = 50
		}
	}
	c.rect(f.X-2, f.Y-2, boxW, boxH, 1, blue)

	c.setFont("B", 8, green)
	c.text(f.X, f.Y+boxH+5, fmt.Sprintf("[%s]", f.Name))

	text := truncateRunes(value, p.opts.TruncateLabeled)
	c.setFont("", size, black)
	c.text(f.X, f.Y, text)
	return text
}
