package extraction

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldExtractor_TextFieldsWin(t *testing.T) {
	path := writeFile(t, "form.pdf", formPDF())

	report, err := NewFieldExtractor(nil).Extract(path)
	require.NoError(t, err)

	assert.Equal(t, FieldModeText, report.Mode)
	assert.Equal(t, 1, report.PageCount)
	assert.False(t, report.HasXFA)

	entries, ok := report.Entries().([]TextFieldEntry)
	require.True(t, ok)
	assert.Equal(t, []TextFieldEntry{
		{Name: "claimant", Value: "Ada Lovelace"},
		{Name: "line242", Value: ""},
		{Name: "line242.text", Value: ""},
	}, entries)
}

func TestFieldExtractor_PagesAndRects(t *testing.T) {
	path := writeFile(t, "form.pdf", formPDF())

	report, err := NewFieldExtractor(nil).Extract(path)
	require.NoError(t, err)
	require.Len(t, report.Fields, 3)

	claimant := report.Fields[0]
	assert.Equal(t, 1, claimant.Page)
	require.NotNil(t, claimant.Rect)
	assert.Equal(t, 200.0, claimant.Rect.Width())

	// the parent takes its bounds from its only widget
	parent := report.Fields[1]
	require.NotNil(t, parent.Rect)
	assert.Equal(t, 1, parent.Page)
	assert.Equal(t, 200.0, parent.Rect.Height())
}

func TestFieldExtractor_GenericListing(t *testing.T) {
	path := writeFile(t, "buttons.pdf", buttonsPDF())

	report, err := NewFieldExtractor(nil).Extract(path)
	require.NoError(t, err)

	assert.Equal(t, FieldModeGeneric, report.Mode)
	assert.Equal(t, []FieldEntry{
		{Name: "yes", Type: "/Btn"},
		{Name: "mystery", Type: FieldTypeUnknown},
	}, report.Entries())
}

func TestFieldExtractor_NoForm(t *testing.T) {
	path := writeFile(t, "plain.pdf", plainPDF())

	report, err := NewFieldExtractor(nil).Extract(path)
	require.NoError(t, err)

	assert.Equal(t, FieldModeNone, report.Mode)
	assert.Empty(t, report.Fields)
	assert.Equal(t, []FieldEntry{}, report.Entries())
}

func TestFieldExtractor_FromReader(t *testing.T) {
	report, err := NewFieldExtractor(nil).ExtractFromReader(bytes.NewReader(formPDF()))
	require.NoError(t, err)
	assert.Equal(t, FieldModeText, report.Mode)
}

func TestFieldExtractor_RejectsNonPDF(t *testing.T) {
	path := writeFile(t, "notes.txt", []byte("hello"))

	_, err := NewFieldExtractor(nil).Extract(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotPDF))

	var extErr *Error
	require.True(t, errors.As(err, &extErr))
	assert.Equal(t, "validate", extErr.Op)
}

func TestFieldExtractor_Widgets(t *testing.T) {
	path := writeFile(t, "form.pdf", formPDF())

	widgets, err := NewFieldExtractor(nil).Widgets(path)
	require.NoError(t, err)
	require.Len(t, widgets, 3)

	assert.Equal(t, "claimant", widgets[0].Name)
	assert.Equal(t, "/Tx", widgets[0].Type)
	assert.Equal(t, "agree", widgets[1].Name)
	assert.Equal(t, "/Btn", widgets[1].Type)
	assert.Equal(t, "line242.text", widgets[2].Name)
	assert.Equal(t, "/Tx", widgets[2].Type)
	for _, w := range widgets {
		assert.Equal(t, 1, w.Page)
	}
}

func TestFieldExtractor_WidgetsNoAnnotations(t *testing.T) {
	path := writeFile(t, "plain.pdf", plainPDF())

	widgets, err := NewFieldExtractor(nil).Widgets(path)
	require.NoError(t, err)
	assert.Empty(t, widgets)
}
