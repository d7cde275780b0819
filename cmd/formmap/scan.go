package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/a3tai/pdf-formmap/internal/formmap"
	"github.com/a3tai/pdf-formmap/internal/pdf/extraction"
)

// scanSummary is what a scan prints once its map is saved. Total counts the
// pages of the source document; a stream map omits pages without fields, so
// Total can exceed Pages.
type scanSummary struct {
	Source string `json:"source" yaml:"source"`
	Out    string `json:"out" yaml:"out"`
	Method string `json:"method" yaml:"method"`
	Pages  int    `json:"pages" yaml:"pages"`
	Total  int    `json:"total_pages" yaml:"total_pages"`
	Fields int    `json:"fields" yaml:"fields"`
}

func (a *app) newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Find fillable rectangles and label them from nearby text",
	}
	cmd.AddCommand(
		a.newScanSubCmd("geometry",
			"Scan drawn rectangles with word positions into a smart map",
			func(ctx context.Context, pdfPath string) (any, int, int, error) {
				m, err := formmap.NewGeometryScanner(a.cfg.GeometryConfig(), a.logger).Scan(ctx, pdfPath)
				return m, len(m), m.Len(), err
			}),
		a.newScanSubCmd("stream",
			"Scan content-stream rectangles with text runs into a full map",
			func(ctx context.Context, pdfPath string) (any, int, int, error) {
				m, err := formmap.NewStreamScanner(a.cfg.StreamConfig(), a.logger).Scan(ctx, pdfPath)
				return m, len(m), m.Len(), err
			}),
	)
	return cmd
}

type scanFunc func(ctx context.Context, pdfPath string) (doc any, pages, fields int, err error)

func (a *app) newScanSubCmd(method, short string, scan scanFunc) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   method + " <pdf>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, pages, fields, err := scan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := formmap.Save(out, doc); err != nil {
				return err
			}
			a.logger.Info("map saved", zap.String("out", out), zap.Int("fields", fields))

			total, err := extraction.NewPageReader(a.logger).PageCount(args[0])
			if err != nil {
				return err
			}

			summary := scanSummary{Source: args[0], Out: out, Method: method, Pages: pages, Total: total, Fields: fields}
			return a.out(cmd).Write(summary, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "✅ Found %d fields on %d pages of %d\n📄 Saved to: %s\n", fields, pages, total, out)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "path of the JSON map to write")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
