package extraction

import (
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"go.uber.org/zap"

	"github.com/a3tai/pdf-formmap/internal/geometry"
)

// FieldTypeUnknown is reported for fields without an inheritable /FT entry.
const FieldTypeUnknown = "unknown"

// FormField is one named node of the AcroForm field tree.
type FormField struct {
	Name  string        `json:"name"`
	Type  string        `json:"type"` // "/Tx", "/Btn", "/Ch", "/Sig" or "unknown"
	Value string        `json:"value,omitempty"`
	Page  int           `json:"page,omitempty"`
	Rect  *geometry.Box `json:"rect,omitempty"`
}

// IsText reports whether the field is a text field.
func (f FormField) IsText() bool { return f.Type == "/Tx" }

// FieldMode records which listing a FieldReport carries.
type FieldMode string

const (
	FieldModeText    FieldMode = "text"
	FieldModeGeneric FieldMode = "generic"
	FieldModeNone    FieldMode = "none"
)

// FieldReport is the result of field-name extraction. Text fields win when
// the document has any; otherwise every named field is listed.
type FieldReport struct {
	Path      string      `json:"path"`
	PageCount int         `json:"page_count"`
	HasXFA    bool        `json:"has_xfa"`
	Mode      FieldMode   `json:"mode"`
	Fields    []FormField `json:"fields"`
}

// TextFieldEntry is the {name, value} record of the text-field listing.
type TextFieldEntry struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// FieldEntry is the {name, type} record of the generic listing.
type FieldEntry struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// Entries returns the listing in its printable shape: []TextFieldEntry,
// []FieldEntry, or an empty []FieldEntry.
func (r *FieldReport) Entries() any {
	switch r.Mode {
	case FieldModeText:
		out := make([]TextFieldEntry, 0, len(r.Fields))
		for _, f := range r.Fields {
			out = append(out, TextFieldEntry{Name: f.Name, Value: f.Value})
		}
		return out
	case FieldModeGeneric:
		out := make([]FieldEntry, 0, len(r.Fields))
		for _, f := range r.Fields {
			out = append(out, FieldEntry{Name: f.Name, Type: f.Type})
		}
		return out
	default:
		return []FieldEntry{}
	}
}

// FieldExtractor lists AcroForm fields and widget annotations using pdfcpu.
type FieldExtractor struct {
	logger *zap.Logger
}

// NewFieldExtractor creates a field extractor. A nil logger discards output.
func NewFieldExtractor(logger *zap.Logger) *FieldExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FieldExtractor{logger: logger}
}

// Extract reads the AcroForm field tree of the PDF at path.
func (fe *FieldExtractor) Extract(path string) (*FieldReport, error) {
	ctx, err := readContext(path)
	if err != nil {
		return nil, err
	}
	return fe.extractFromContext(ctx, path)
}

// ExtractFromReader is Extract for an in-memory document.
func (fe *FieldExtractor) ExtractFromReader(rs io.ReadSeeker) (*FieldReport, error) {
	ctx, err := readContextFrom(rs, "<reader>")
	if err != nil {
		return nil, err
	}
	return fe.extractFromContext(ctx, "<reader>")
}

func (fe *FieldExtractor) extractFromContext(ctx *model.Context, path string) (*FieldReport, error) {
	report := &FieldReport{Path: path, PageCount: ctx.PageCount, Mode: FieldModeNone}

	all, hasXFA, err := fe.walkFields(ctx, path)
	if err != nil {
		return nil, err
	}
	report.HasXFA = hasXFA

	var text []FormField
	for _, f := range all {
		if f.IsText() {
			text = append(text, f)
		}
	}

	switch {
	case len(text) > 0:
		report.Mode = FieldModeText
		report.Fields = text
	case len(all) > 0:
		report.Mode = FieldModeGeneric
		report.Fields = all
	default:
		report.Fields = []FormField{}
	}

	fe.logger.Debug("extracted form fields",
		zap.String("path", path),
		zap.Int("pages", ctx.PageCount),
		zap.Int("fields", len(all)),
		zap.Int("text_fields", len(text)),
		zap.Bool("xfa", hasXFA))

	return report, nil
}

// walkFields returns every named node of the field tree in document order.
func (fe *FieldExtractor) walkFields(ctx *model.Context, path string) ([]FormField, bool, error) {
	rootDict, err := ctx.Catalog()
	if err != nil {
		return nil, false, &Error{Op: "catalog", Path: path, Err: err}
	}

	acroFormObj, found := rootDict.Find("AcroForm")
	if !found {
		fe.logger.Debug("no AcroForm dictionary", zap.String("path", path))
		return nil, false, nil
	}

	acroFormDict, err := ctx.DereferenceDict(acroFormObj)
	if err != nil {
		return nil, false, &Error{Op: "acroform", Path: path, Err: err}
	}
	if acroFormDict == nil {
		return nil, false, nil
	}

	_, hasXFA := acroFormDict.Find("XFA")

	fieldsObj, found := acroFormDict.Find("Fields")
	if !found {
		return nil, hasXFA, nil
	}
	fieldsArray, err := ctx.DereferenceArray(fieldsObj)
	if err != nil {
		return nil, hasXFA, &Error{Op: "acroform fields", Path: path, Err: err}
	}

	pages := annotationPages(ctx)

	var out []FormField
	for i, ref := range fieldsArray {
		if err := fe.walkField(ctx, ref, "", "", pages, &out); err != nil {
			fe.logger.Debug("skipping field", zap.Int("index", i), zap.Error(err))
		}
	}
	return out, hasXFA, nil
}

// walkField appends the field behind obj and its named descendants to out.
// Partial names are joined with dots, /FT is inherited from ancestors.
func (fe *FieldExtractor) walkField(
	ctx *model.Context,
	obj types.Object,
	parentName, parentType string,
	pages map[int]int,
	out *[]FormField,
) error {
	fieldDict, err := ctx.DereferenceDict(obj)
	if err != nil {
		return fmt.Errorf("failed to dereference field: %w", err)
	}
	if fieldDict == nil {
		return nil
	}

	name := parentName
	partial := ""
	if nameObj, found := fieldDict.Find("T"); found {
		if s, err := ctx.DereferenceStringOrHexLiteral(nameObj, model.V10, nil); err == nil {
			partial = s
		}
	}
	if partial != "" {
		if name != "" {
			name += "."
		}
		name += partial
	}

	fieldType := parentType
	if ftObj, found := fieldDict.Find("FT"); found {
		if ft, err := ctx.DereferenceName(ftObj, model.V10, nil); err == nil {
			fieldType = "/" + string(ft)
		}
	}

	if partial != "" {
		field := FormField{Name: name, Type: fieldType}
		if field.Type == "" {
			field.Type = FieldTypeUnknown
		}
		if valueObj, found := fieldDict.Find("V"); found {
			field.Value = fieldValue(ctx, valueObj)
		}
		field.Rect, field.Page = fieldBounds(ctx, obj, fieldDict, pages)
		*out = append(*out, field)
	}

	kidsObj, found := fieldDict.Find("Kids")
	if !found {
		return nil
	}
	kids, err := ctx.DereferenceArray(kidsObj)
	if err != nil {
		return fmt.Errorf("failed to dereference kids of %q: %w", name, err)
	}
	for _, kid := range kids {
		if err := fe.walkField(ctx, kid, name, fieldType, pages, out); err != nil {
			fe.logger.Debug("skipping kid", zap.String("parent", name), zap.Error(err))
		}
	}
	return nil
}

// fieldValue renders /V as a string whatever its PDF type.
func fieldValue(ctx *model.Context, valueObj types.Object) string {
	if s, err := ctx.DereferenceStringOrHexLiteral(valueObj, model.V10, nil); err == nil {
		return s
	}
	if n, err := ctx.DereferenceName(valueObj, model.V10, nil); err == nil {
		return string(n)
	}
	return ""
}

// fieldBounds returns the widget rectangle of a field, looking at the first
// kid when the field and its widget are not merged.
func fieldBounds(ctx *model.Context, obj types.Object, fieldDict types.Dict, pages map[int]int) (*geometry.Box, int) {
	if rectObj, found := fieldDict.Find("Rect"); found {
		if rect := parseRect(ctx, rectObj); rect != nil {
			return rect, pageOf(obj, fieldDict, pages)
		}
	}

	if kidsObj, found := fieldDict.Find("Kids"); found {
		if kids, err := ctx.DereferenceArray(kidsObj); err == nil && len(kids) > 0 {
			if widgetDict, err := ctx.DereferenceDict(kids[0]); err == nil && widgetDict != nil {
				if rectObj, found := widgetDict.Find("Rect"); found {
					if rect := parseRect(ctx, rectObj); rect != nil {
						return rect, pageOf(kids[0], widgetDict, pages)
					}
				}
			}
		}
	}

	return nil, 0
}

func parseRect(ctx *model.Context, rectObj types.Object) *geometry.Box {
	rectArray, err := ctx.DereferenceArray(rectObj)
	if err != nil || len(rectArray) != 4 {
		return nil
	}

	coords := make([]float64, 4)
	for i, coord := range rectArray {
		if f, err := ctx.DereferenceNumber(coord); err == nil {
			coords[i] = f
		}
	}

	box := geometry.FromCorners(coords[0], coords[1], coords[2], coords[3])
	return &box
}

// pageOf resolves the page of a widget, first by the page index built from
// /Annots arrays, then by its /P entry.
func pageOf(obj types.Object, dict types.Dict, pages map[int]int) int {
	if ref, ok := obj.(types.IndirectRef); ok {
		if page, ok := pages[ref.ObjectNumber.Value()]; ok {
			return page
		}
	}
	if p, found := dict.Find("P"); found {
		if ref, ok := p.(types.IndirectRef); ok {
			if page, ok := pages[-ref.ObjectNumber.Value()]; ok {
				return page
			}
		}
	}
	return 0
}

// annotationPages maps annotation object numbers to 1-based page numbers.
// Page dictionary object numbers are stored negated so /P lookups can share
// the map.
func annotationPages(ctx *model.Context) map[int]int {
	pages := make(map[int]int)
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		pageDict, pageRef, _, err := ctx.PageDict(pageNr, false)
		if err != nil || pageDict == nil {
			continue
		}
		if pageRef != nil {
			pages[-pageRef.ObjectNumber.Value()] = pageNr
		}
		annotsObj, found := pageDict.Find("Annots")
		if !found {
			continue
		}
		annots, err := ctx.DereferenceArray(annotsObj)
		if err != nil {
			continue
		}
		for _, a := range annots {
			if ref, ok := a.(types.IndirectRef); ok {
				pages[ref.ObjectNumber.Value()] = pageNr
			}
		}
	}
	return pages
}

func readContext(path string) (*model.Context, error) {
	if err := ValidatePDF(path); err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, &Error{Op: "open", Path: path, Err: err}
	}
	defer file.Close()
	return readContextFrom(file, path)
}

func readContextFrom(rs io.ReadSeeker, path string) (*model.Context, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(rs, conf)
	if err != nil {
		return nil, &Error{Op: "read context", Path: path, Err: err}
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, &Error{Op: "page count", Path: path, Err: err}
	}
	if ctx.PageCount == 0 {
		return nil, &Error{Op: "page count", Path: path, Err: ErrNoPages}
	}
	return ctx, nil
}
