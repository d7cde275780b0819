package extraction

import (
	"errors"
	"fmt"
)

var (
	ErrNotPDF    = errors.New("not a PDF file")
	ErrNoPages   = errors.New("document has no pages")
	ErrPageRange = errors.New("page out of range")
)

// Error wraps a failure of one extraction step with the file and page it
// happened on.
type Error struct {
	Op   string `json:"operation"`
	Path string `json:"path"`
	Page int    `json:"page,omitempty"`
	Err  error  `json:"error"`
}

func (e *Error) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("%s %s (page %d): %v", e.Op, e.Path, e.Page, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// recoverPage converts a panic raised by a PDF parser while reading one page
// into an *Error stored in errp.
func recoverPage(op, path string, page int, errp *error) {
	if r := recover(); r != nil {
		*errp = &Error{Op: op, Path: path, Page: page, Err: fmt.Errorf("parser panic: %v", r)}
	}
}
