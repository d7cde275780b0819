package extraction

import (
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"go.uber.org/zap"

	"github.com/a3tai/pdf-formmap/internal/geometry"
)

// Widget is the on-page appearance of a form field.
type Widget struct {
	Page int          `json:"page" yaml:"page"`
	Name string       `json:"name" yaml:"name"`
	Type string       `json:"type" yaml:"type"`
	Rect geometry.Box `json:"rect" yaml:"rect"`
}

// maxFieldDepth bounds the walk up /Parent links of a widget.
const maxFieldDepth = 32

// Widgets lists the widget annotations of every page in page order, then in
// /Annots order. Names and types are inherited through /Parent.
func (fe *FieldExtractor) Widgets(path string) ([]Widget, error) {
	ctx, err := readContext(path)
	if err != nil {
		return nil, err
	}

	widgets := []Widget{}
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		pageDict, _, _, err := ctx.PageDict(pageNr, false)
		if err != nil {
			fe.logger.Debug("page dictionary unreadable", zap.Int("page", pageNr), zap.Error(err))
			continue
		}
		if pageDict == nil {
			continue
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
			annot, err := ctx.DereferenceDict(a)
			if err != nil || annot == nil {
				continue
			}
			if subtype := annot.NameEntry("Subtype"); subtype == nil || *subtype != "Widget" {
				continue
			}
			rectObj, found := annot.Find("Rect")
			if !found {
				continue
			}
			rect := parseRect(ctx, rectObj)
			if rect == nil {
				continue
			}
			name, ftype := widgetIdentity(ctx, annot)
			widgets = append(widgets, Widget{Page: pageNr, Name: name, Type: ftype, Rect: *rect})
		}
	}

	fe.logger.Debug("extracted widgets", zap.String("path", path), zap.Int("widgets", len(widgets)))
	return widgets, nil
}

// widgetIdentity returns the qualified field name and inherited /FT of a
// widget annotation.
func widgetIdentity(ctx *model.Context, annot types.Dict) (string, string) {
	var parts []string
	ftype := ""
	d := annot
	for i := 0; i < maxFieldDepth && d != nil; i++ {
		if t, found := d.Find("T"); found {
			if s, err := ctx.DereferenceStringOrHexLiteral(t, model.V10, nil); err == nil && s != "" {
				parts = append([]string{s}, parts...)
			}
		}
		if ftype == "" {
			if ft, found := d.Find("FT"); found {
				if n, err := ctx.DereferenceName(ft, model.V10, nil); err == nil {
					ftype = "/" + string(n)
				}
			}
		}
		parentObj, found := d.Find("Parent")
		if !found {
			break
		}
		parent, err := ctx.DereferenceDict(parentObj)
		if err != nil {
			break
		}
		d = parent
	}
	if ftype == "" {
		ftype = FieldTypeUnknown
	}
	return strings.Join(parts, "."), ftype
}
