package overlay

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/a3tai/pdf-formmap/internal/pdf/extraction"
)

// FillOptions control narrative rendering.
type FillOptions struct {
	Template string
	// Outline draws each field's border and a "[line] title" tag above it.
	Outline bool
	Font    string
	// WrapMargin is subtracted from the field width before wrapping.
	WrapMargin float64
	// PadLeft offsets text from the field's left edge.
	PadLeft float64
}

// DefaultFillOptions returns the settings of the production fill.
func DefaultFillOptions() FillOptions {
	return FillOptions{Font: "Helvetica", WrapMargin: 10, PadLeft: 5}
}

// FieldResult reports how one narrative fitted its field.
type FieldResult struct {
	Key       string `json:"key" yaml:"key"`
	CRALine   string `json:"cra_line" yaml:"cra_line"`
	Page      int    `json:"page" yaml:"page"`
	Lines     int    `json:"lines" yaml:"lines"`
	MaxLines  int    `json:"max_lines" yaml:"max_lines"`
	Words     int    `json:"words" yaml:"words"`
	MaxWords  int    `json:"max_words" yaml:"max_words"`
	Truncated bool   `json:"truncated" yaml:"truncated"`
	OverWords bool   `json:"over_words" yaml:"over_words"`
}

// FillReport describes a rendered fill.
type FillReport struct {
	Pages  int           `json:"pages" yaml:"pages"`
	Fields []FieldResult `json:"fields" yaml:"fields"`
}

// Filler wraps narratives into critical fields.
type Filler struct {
	opts   FillOptions
	logger *zap.Logger
}

// NewFiller creates a narrative renderer. A nil logger discards output.
func NewFiller(opts FillOptions, logger *zap.Logger) *Filler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Filler{opts: opts, logger: logger}
}

// Render writes a PDF to w with each field's value wrapped to the field
// width and cut at its line limit. Fields without a value are skipped.
// Without a template the document has just enough blank pages for the
// highest field page.
func (f *Filler) Render(fields []CriticalField, values map[string]string, w io.Writer) (*FillReport, error) {
	c, err := newCanvas(f.opts.Font, f.opts.Template)
	if err != nil {
		return nil, err
	}

	pages := c.templatePages()
	if pages == 0 {
		pages = 1
		for _, fd := range fields {
			if fd.Page+1 > pages {
				pages = fd.Page + 1
			}
		}
	}
	for _, fd := range fields {
		if fd.Page < 0 || fd.Page >= pages {
			return nil, fmt.Errorf("field %s: %w: page %d of %d", fd.Key, extraction.ErrPageRange, fd.Page, pages)
		}
	}

	byPage := make([][]CriticalField, pages)
	for _, fd := range fields {
		byPage[fd.Page] = append(byPage[fd.Page], fd)
	}

	report := &FillReport{Pages: pages, Fields: []FieldResult{}}
	for i := 0; i < pages; i++ {
		c.addPage(i)
		for n, fd := range byPage[i] {
			text := values[fd.Key]
			if text == "" {
				continue
			}
			result := f.draw(c, fd, text, n)
			report.Fields = append(report.Fields, result)
			f.logger.Debug("filled field",
				zap.String("field", fd.Key),
				zap.Int("lines", result.Lines),
				zap.Int("max_lines", result.MaxLines),
				zap.Bool("truncated", result.Truncated))
		}
	}

	if err := c.output(w); err != nil {
		return nil, err
	}
	f.logger.Info("fill rendered", zap.Int("pages", pages), zap.Int("fields", len(report.Fields)))
	return report, nil
}

func (f *Filler) draw(c *canvas, fd CriticalField, text string, n int) FieldResult {
	box := fd.Coordinates
	if f.opts.Outline {
		color := []rgb{red, blue, green}[n%3]
		c.rect(box.X0, box.Y0, fd.Dimensions.Width, fd.Dimensions.Height, 2, color)
		c.setFont("", 8, color)
		c.text(box.X0, box.Y1+5, fmt.Sprintf("[%s] %s", fd.CRALine, fd.Title))
	}

	c.setFont("", fd.FontSize, black)
	lines := Wrap(text, fd.Dimensions.Width-f.opts.WrapMargin, c.width)

	drawn := lines
	if fd.MaxLines >= 0 && len(drawn) > fd.MaxLines {
		drawn = drawn[:fd.MaxLines]
	}
	y := box.Y1 - fd.LineHeight + fd.TextPaddingTop
	for _, line := range drawn {
		c.text(box.X0+f.opts.PadLeft, y, line)
		y -= fd.LineHeight
	}

	words := len(strings.Fields(text))
	return FieldResult{
		Key:       fd.Key,
		CRALine:   fd.CRALine,
		Page:      fd.Page,
		Lines:     len(lines),
		MaxLines:  fd.MaxLines,
		Words:     words,
		MaxWords:  fd.MaxWords,
		Truncated: len(lines) > len(drawn),
		OverWords: fd.MaxWords > 0 && words > fd.MaxWords,
	}
}
