package formmap

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/a3tai/pdf-formmap/internal/geometry"
	"github.com/a3tai/pdf-formmap/internal/pdf/extraction"
)

// GeometryConfig holds the thresholds of the geometry scan.
type GeometryConfig struct {
	Window       geometry.SizeWindow
	CheckboxSize float64
	Envelope     geometry.Envelope
}

// DefaultGeometryConfig returns the thresholds tuned for the T661.
func DefaultGeometryConfig() GeometryConfig {
	return GeometryConfig{
		Window:       geometry.SizeWindow{MinWidth: 8, MinHeight: 8, MaxHeight: 50},
		CheckboxSize: 20,
		Envelope: geometry.Envelope{
			LeftReach:    200,
			RowTolerance: 10,
			MeasureFrom:  geometry.RightEdge,
		},
	}
}

// StreamConfig holds the thresholds of the content-stream scan.
type StreamConfig struct {
	Window       geometry.SizeWindow
	CheckboxSize float64
	Envelope     geometry.Envelope
}

// DefaultStreamConfig returns the thresholds tuned for the T661.
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		Window: geometry.SizeWindow{
			MinWidth:     8,
			MinHeight:    8,
			BorderWidth:  500,
			BorderHeight: 700,
		},
		CheckboxSize: 20,
		Envelope: geometry.Envelope{
			LeftReach:    300,
			LeftOverlap:  50,
			RowTolerance: 20,
			MeasureFrom:  geometry.LeftEdge,
			AboveReach:   100,
			AboveSlack:   50,
		},
	}
}

// GeometryScanner labels the rectangles a PDF draws using word extents.
type GeometryScanner struct {
	config GeometryConfig
	pages  *extraction.PageReader
	logger *zap.Logger
}

// NewGeometryScanner creates a geometry scanner. A nil logger discards output.
func NewGeometryScanner(config GeometryConfig, logger *zap.Logger) *GeometryScanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeometryScanner{
		config: config,
		pages:  extraction.NewPageReader(logger),
		logger: logger,
	}
}

// Scan builds a SmartMap with one entry per page. Coordinates are converted to
// a top origin using each page's own height.
func (s *GeometryScanner) Scan(ctx context.Context, path string) (SmartMap, error) {
	var out SmartMap
	err := s.pages.ReadPages(ctx, path, func(p extraction.PageContent) error {
		fields := s.scanPage(p)
		out = append(out, Page[SmartField]{Number: p.Number, Items: fields})
		s.logger.Debug("scanned page",
			zap.Int("page", p.Number),
			zap.Int("rects", len(p.Rects)),
			zap.Int("fields", len(fields)))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("geometry scan complete",
		zap.String("path", path),
		zap.Int("pages", len(out)),
		zap.Int("fields", out.Len()))
	return out, nil
}

func (s *GeometryScanner) scanPage(p extraction.PageContent) []SmartField {
	candidates := make([]geometry.Candidate, 0, len(p.Rects))
	for i, r := range p.Rects {
		if s.config.Window.Admits(r) {
			candidates = append(candidates, geometry.Candidate{ID: FieldID(p.Number, i, r), Box: r})
		}
	}

	anchors := extraction.WordAnchors(extraction.GroupWords(p.Glyphs))
	labels := geometry.Associate(anchors, candidates, s.config.Envelope)

	height := p.Height()
	fields := make([]SmartField, 0, len(candidates))
	for _, c := range candidates {
		top, bottom := c.Box.TopOrigin(height)
		fields = append(fields, SmartField{
			ID:             c.ID,
			PredictedLabel: labels[c.ID].Label,
			Type:           geometry.Classify(c.Box, s.config.CheckboxSize),
			Page:           p.Number,
			Coordinates: Coordinates{
				X0: geometry.Round(c.Box.X0, 2),
				Y0: geometry.Round(top, 2),
				X1: geometry.Round(c.Box.X1, 2),
				Y1: geometry.Round(bottom, 2),
			},
			Dimensions: Dimensions{
				Width:  geometry.Round(c.Box.Width(), 2),
				Height: geometry.Round(c.Box.Height(), 2),
			},
		})
	}
	return fields
}

// StreamScanner labels the rectangles written by "re" operators using text
// run origins.
type StreamScanner struct {
	config  StreamConfig
	streams *extraction.StreamReader
	pages   *extraction.PageReader
	logger  *zap.Logger
}

// NewStreamScanner creates a content-stream scanner. A nil logger discards
// output.
func NewStreamScanner(config StreamConfig, logger *zap.Logger) *StreamScanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StreamScanner{
		config:  config,
		streams: extraction.NewStreamReader(logger),
		pages:   extraction.NewPageReader(logger),
		logger:  logger,
	}
}

// Scan builds a FullMap holding only pages with at least one field. Text that
// cannot be read leaves every field unlabeled rather than failing the scan.
func (s *StreamScanner) Scan(ctx context.Context, path string) (FullMap, error) {
	rects, err := s.streams.StreamRects(ctx, path)
	if err != nil {
		return nil, err
	}

	runs := make(map[int][]geometry.Anchor, len(rects))
	err = s.pages.ReadPages(ctx, path, func(p extraction.PageContent) error {
		runs[p.Number] = extraction.RunAnchors(extraction.GroupRuns(p.Glyphs))
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		s.logger.Warn("text unreadable, fields stay unlabeled", zap.String("path", path), zap.Error(err))
	}

	out := FullMap{}
	for i, pageRects := range rects {
		number := i + 1
		fields := s.scanPage(number, pageRects, runs[number])
		if len(fields) > 0 {
			out = append(out, Page[FullField]{Number: number, Items: fields})
		}
		s.logger.Debug("scanned page",
			zap.Int("page", number),
			zap.Int("rects", len(pageRects)),
			zap.Int("fields", len(fields)))
	}

	s.logger.Info("stream scan complete",
		zap.String("path", path),
		zap.Int("pages", len(rects)),
		zap.Int("fields", out.Len()))
	return out, nil
}

func (s *StreamScanner) scanPage(number int, rects []geometry.Box, anchors []geometry.Anchor) []FullField {
	candidates := make([]geometry.Candidate, 0, len(rects))
	for i, r := range rects {
		if s.config.Window.Admits(r) {
			candidates = append(candidates, geometry.Candidate{ID: FieldID(number, i, r), Box: r})
		}
	}
	labels := geometry.Associate(anchors, candidates, s.config.Envelope)

	fields := make([]FullField, 0, len(candidates))
	for _, c := range candidates {
		fields = append(fields, FullField{
			Label: labels[c.ID].Label,
			Type:  geometry.Classify(c.Box, s.config.CheckboxSize),
			BBox: [4]float64{
				geometry.Round(c.Box.X0, 1),
				geometry.Round(c.Box.Y0, 1),
				geometry.Round(c.Box.X1, 1),
				geometry.Round(c.Box.Y1, 1),
			},
			Width:  geometry.Round(c.Box.Width(), 1),
			Height: geometry.Round(c.Box.Height(), 1),
		})
	}
	return fields
}
