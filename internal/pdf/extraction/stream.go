package extraction

import (
	"context"
	"io"
	"regexp"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"

	"github.com/a3tai/pdf-formmap/internal/geometry"
)

// rePattern matches "x y w h re" in a decoded content stream. Operands may be
// separated by any whitespace.
var rePattern = regexp.MustCompile(`(?:^|\s)(-?\d+\.?\d*)\s+(-?\d+\.?\d*)\s+(-?\d+\.?\d*)\s+(-?\d+\.?\d*)\s+re\b`)

// ParseRects returns every rectangle drawn by an "re" operator in content, in
// stream order, with negative sizes normalised. The transformation matrix is
// not applied.
func ParseRects(content []byte) []geometry.Box {
	matches := rePattern.FindAllSubmatch(content, -1)
	rects := make([]geometry.Box, 0, len(matches))
	for _, m := range matches {
		var v [4]float64
		ok := true
		for i := range v {
			f, err := strconv.ParseFloat(string(m[i+1]), 64)
			if err != nil {
				ok = false
				break
			}
			v[i] = f
		}
		if ok {
			rects = append(rects, geometry.NewBox(v[0], v[1], v[2], v[3]))
		}
	}
	return rects
}

// StreamReader scans raw page content streams with pdfcpu.
type StreamReader struct {
	logger *zap.Logger
}

// NewStreamReader creates a stream reader. A nil logger discards output.
func NewStreamReader(logger *zap.Logger) *StreamReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StreamReader{logger: logger}
}

// StreamRects returns the rectangles of every page, indexed by page number
// minus one. A page whose stream cannot be decoded yields no rectangles.
func (sr *StreamReader) StreamRects(ctx context.Context, path string) ([][]geometry.Box, error) {
	pctx, err := readContext(path)
	if err != nil {
		return nil, err
	}

	pages := make([][]geometry.Box, pctx.PageCount)
	for n := 1; n <= pctx.PageCount; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rects, err := sr.pageRects(pctx, path, n)
		if err != nil {
			sr.logger.Warn("content stream unreadable",
				zap.String("path", path),
				zap.Int("page", n),
				zap.Error(err))
			continue
		}
		pages[n-1] = rects
	}
	return pages, nil
}

func (sr *StreamReader) pageRects(pctx *model.Context, path string, n int) (rects []geometry.Box, err error) {
	defer recoverPage("content stream", path, n, &err)

	r, err := pdfcpu.ExtractPageContent(pctx, n)
	if err != nil {
		return nil, &Error{Op: "content stream", Path: path, Page: n, Err: err}
	}
	if r == nil {
		return nil, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &Error{Op: "content stream", Path: path, Page: n, Err: err}
	}
	return ParseRects(data), nil
}
