package overlay

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"codeberg.org/go-pdf/fpdf"
	"codeberg.org/go-pdf/fpdf/contrib/gofpdi"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/a3tai/pdf-formmap/internal/pdf/extraction"
)

// Letter is the blank canvas page size in points.
var Letter = types.Dim{Width: 612, Height: 792}

type rgb struct{ r, g, b int }

var (
	black = rgb{0, 0, 0}
	blue  = rgb{0, 0, 255}
	green = rgb{0, 179, 0}
	red   = rgb{255, 0, 0}
)

// canvas draws in bottom-origin user space on top of fpdf's top-origin
// pages, optionally over pages imported from a template.
type canvas struct {
	pdf      *fpdf.Fpdf
	font     string
	encoder  *encoding.Encoder
	height   float64
	template io.ReadSeeker
	importer *gofpdi.Importer
	dims     []types.Dim
}

func newCanvas(font, templatePath string) (*canvas, error) {
	c := &canvas{
		pdf:     fpdf.New("P", "pt", "Letter", ""),
		font:    font,
		encoder: encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder()),
	}
	c.pdf.SetAutoPageBreak(false, 0)

	if templatePath == "" {
		return c, nil
	}
	if err := extraction.ValidatePDF(templatePath); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	dims, err := api.PageDims(bytes.NewReader(data), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read template page sizes: %w", err)
	}
	if len(dims) == 0 {
		return nil, &extraction.Error{Op: "template", Path: templatePath, Err: extraction.ErrNoPages}
	}
	c.dims = dims
	c.template = bytes.NewReader(data)
	c.importer = gofpdi.NewImporter()
	return c, nil
}

// templatePages returns the template's page count, or 0 without a template.
func (c *canvas) templatePages() int { return len(c.dims) }

// addPage starts 0-based page i, underlaying template page i+1 if any.
func (c *canvas) addPage(i int) {
	size := Letter
	if i < len(c.dims) {
		size = c.dims[i]
	}
	c.pdf.AddPageFormat("P", fpdf.SizeType{Wd: size.Width, Ht: size.Height})
	c.height = size.Height

	if c.importer != nil && i < len(c.dims) {
		tpl := c.importer.ImportPageFromStream(c.pdf, &c.template, i+1, "/MediaBox")
		c.importer.UseImportedTemplate(c.pdf, tpl, 0, 0, size.Width, size.Height)
	}
}

func (c *canvas) encode(s string) string {
	out, err := c.encoder.String(s)
	if err != nil {
		return s
	}
	return out
}

func (c *canvas) setFont(style string, size float64, color rgb) {
	c.pdf.SetFont(c.font, style, size)
	c.pdf.SetTextColor(color.r, color.g, color.b)
}

// text draws s with its baseline at (x, y).
func (c *canvas) text(x, y float64, s string) {
	c.pdf.Text(x, c.height-y, c.encode(s))
}

// rect outlines the box whose lower-left corner is (x, y).
func (c *canvas) rect(x, y, w, h, lineWidth float64, color rgb) {
	c.pdf.SetDrawColor(color.r, color.g, color.b)
	c.pdf.SetLineWidth(lineWidth)
	c.pdf.Rect(x, c.height-y-h, w, h, "D")
}

// width measures s in the current font.
func (c *canvas) width(s string) float64 {
	return c.pdf.GetStringWidth(c.encode(s))
}

func (c *canvas) output(w io.Writer) error {
	if err := c.pdf.Error(); err != nil {
		return fmt.Errorf("failed to render PDF: %w", err)
	}
	if err := c.pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}
