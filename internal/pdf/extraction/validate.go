package extraction

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

var pdfMagic = []byte("%PDF-")

// ValidatePDF checks that path names a readable, non-empty regular file with a
// .pdf extension and a PDF header. It does not parse the document.
func ValidatePDF(path string) error {
	if path == "" {
		return &Error{Op: "validate", Path: path, Err: fmt.Errorf("path cannot be empty")}
	}

	info, err := os.Stat(path)
	if err != nil {
		return &Error{Op: "validate", Path: path, Err: err}
	}
	if info.IsDir() {
		return &Error{Op: "validate", Path: path, Err: fmt.Errorf("path is a directory, not a file")}
	}
	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return &Error{Op: "validate", Path: path, Err: ErrNotPDF}
	}
	if info.Size() == 0 {
		return &Error{Op: "validate", Path: path, Err: fmt.Errorf("file is empty")}
	}

	f, err := os.Open(path)
	if err != nil {
		return &Error{Op: "validate", Path: path, Err: err}
	}
	defer f.Close()

	// The header may be preceded by junk; readers accept it within 1KB.
	head := make([]byte, 1024)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return &Error{Op: "validate", Path: path, Err: err}
	}
	if !bytes.Contains(head[:n], pdfMagic) {
		return &Error{Op: "validate", Path: path, Err: fmt.Errorf("%w: missing %%PDF- header", ErrNotPDF)}
	}
	return nil
}
