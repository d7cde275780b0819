package extraction

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/go-pdf/fpdf"
	"github.com/stretchr/testify/require"
)

// buildPDF assembles a classic-xref PDF from object bodies numbered from 1.
// Object 1 must be the catalog.
func buildPDF(objects ...string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n")

	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

// formPDF has one page with a filled text field, a checkbox, and a
// non-terminal text field whose widget is a separate kid.
func formPDF() []byte {
	return buildPDF(
		"<< /Type /Catalog /Pages 2 0 R /AcroForm << /Fields [4 0 R 5 0 R 6 0 R] >> >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 /MediaBox [0 0 612 792] >>",
		"<< /Type /Page /Parent 2 0 R /Resources << >> /Annots [4 0 R 5 0 R 7 0 R] >>",
		"<< /Type /Annot /Subtype /Widget /FT /Tx /T (claimant) /V (Ada Lovelace) /Rect [300 700 500 715] /P 3 0 R >>",
		"<< /Type /Annot /Subtype /Widget /FT /Btn /T (agree) /Rect [100 650 110 660] /P 3 0 R >>",
		"<< /FT /Tx /T (line242) /Kids [7 0 R] >>",
		"<< /Type /Annot /Subtype /Widget /Parent 6 0 R /T (text) /Rect [50 100 550 300] >>",
	)
}

// buttonsPDF has only non-text fields, one of them untyped.
func buttonsPDF() []byte {
	return buildPDF(
		"<< /Type /Catalog /Pages 2 0 R /AcroForm << /Fields [4 0 R 5 0 R] >> >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 /MediaBox [0 0 612 792] >>",
		"<< /Type /Page /Parent 2 0 R /Resources << >> /Annots [4 0 R] >>",
		"<< /Type /Annot /Subtype /Widget /FT /Btn /T (yes) /Rect [100 650 110 660] /P 3 0 R >>",
		"<< /T (mystery) >>",
	)
}

// plainPDF has no AcroForm at all.
func plainPDF() []byte {
	return buildPDF(
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 /MediaBox [0 0 612 792] >>",
		"<< /Type /Page /Parent 2 0 R /Resources << >> >>",
	)
}

// drawnPDF renders pages with fpdf, uncompressed so content streams can be
// scanned as written.
func drawnPDF(t *testing.T, pages ...func(pdf *fpdf.Fpdf)) string {
	t.Helper()
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetCompression(false)
	pdf.SetFont("Helvetica", "", 10)
	for _, draw := range pages {
		pdf.AddPage()
		draw(pdf)
	}
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return writeFile(t, "drawn.pdf", buf.Bytes())
}
