package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/a3tai/pdf-formmap/internal/formmap"
	"github.com/a3tai/pdf-formmap/internal/overlay"
)

// writePDF renders into path, removing the file if rendering fails.
func writePDF(path string, render func(io.Writer) error) error {
	f, err := formmap.CreateFile(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}

func loadValues(path string, samples func() map[string]string) (map[string]string, error) {
	if path == "" {
		return samples(), nil
	}
	return overlay.LoadValues(path)
}

func (a *app) newPreviewCmd() *cobra.Command {
	var (
		out, valuesPath, template string
		labeled                   bool
		pages                     int
	)

	cmd := &cobra.Command{
		Use:   "preview <layout.json>",
		Short: "Render sample values at layout coordinates",
		Long: `Render the values of a curated layout mapping onto blank Letter pages, or
onto the pages of --template, so field positions can be checked by eye.
Without --values the built-in T661 samples are used. --labeled outlines each
field and tags it with its name, and unless --pages is given renders every
page the layout reaches.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := overlay.LoadLayout(args[0])
			if err != nil {
				return err
			}
			values, err := loadValues(valuesPath, overlay.SampleValues)
			if err != nil {
				return err
			}

			opts := a.cfg.PreviewOptions()
			opts.Pages = pages
			if labeled && !cmd.Flags().Changed("pages") {
				opts.Pages = 0
			}
			opts.Template = template
			opts.Labeled = labeled

			var report *overlay.PreviewReport
			err = writePDF(out, func(w io.Writer) (err error) {
				report, err = overlay.NewPreview(opts, a.logger).Render(layout, values, w)
				return err
			})
			if err != nil {
				return err
			}
			a.logger.Info("preview saved", zap.String("out", out))

			return a.out(cmd).Write(report, func(w io.Writer) error {
				for _, p := range report.Placed {
					fmt.Fprintf(w, "  ✓ %s.%s: page %d (%g, %g)\n", p.Section, p.Field, p.Page+1, p.X, p.Y)
				}
				_, err := fmt.Fprintf(w, "\n✅ Placed %d fields on %d pages (%d without values)\n📄 Saved to: %s\n",
					len(report.Placed), report.Pages, report.Missing, out)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "path of the PDF to write")
	cmd.Flags().StringVar(&valuesPath, "values", "", "JSON or YAML file of values keyed by source name")
	cmd.Flags().StringVar(&template, "template", "", "PDF to draw the values over")
	cmd.Flags().BoolVar(&labeled, "labeled", false, "outline and tag each field")
	cmd.Flags().IntVar(&pages, "pages", overlay.DefaultPreviewOptions().Pages, "number of pages to render, 0 for every page the layout reaches")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func (a *app) newFillCmd() *cobra.Command {
	var (
		out, valuesPath, template string
		outline                   bool
	)

	cmd := &cobra.Command{
		Use:   "fill <critical-fields.json>",
		Short: "Word-wrap narratives into critical field boxes",
		Long: `Wrap each narrative into its critical field, at most max_lines lines, and
report how every field fitted against its line and word limits. Without
--values the built-in sample narratives are used.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := overlay.LoadCriticalFields(args[0])
			if err != nil {
				return err
			}
			values, err := loadValues(valuesPath, overlay.NarrativeSamples)
			if err != nil {
				return err
			}

			opts := a.cfg.FillOptions()
			opts.Template = template
			opts.Outline = outline

			var report *overlay.FillReport
			err = writePDF(out, func(w io.Writer) (err error) {
				report, err = overlay.NewFiller(opts, a.logger).Render(fields, values, w)
				return err
			})
			if err != nil {
				return err
			}
			a.logger.Info("fill saved", zap.String("out", out))

			return a.out(cmd).Write(report, func(w io.Writer) error {
				return writeFillReport(w, report, out)
			})
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "path of the PDF to write")
	cmd.Flags().StringVar(&valuesPath, "values", "", "JSON or YAML file of narratives keyed by field")
	cmd.Flags().StringVar(&template, "template", "", "PDF to draw the narratives over")
	cmd.Flags().BoolVar(&outline, "outline", false, "outline each field and tag it with its line")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func writeFillReport(w io.Writer, report *overlay.FillReport, out string) error {
	for _, f := range report.Fields {
		mark := "✓"
		if f.Truncated || f.OverWords {
			mark = "⚠️"
		}
		fmt.Fprintf(w, "  %s Line %s (%s): %d/%d lines, %d/%d words\n",
			mark, f.CRALine, f.Key, f.Lines, f.MaxLines, f.Words, f.MaxWords)
		if f.Truncated {
			fmt.Fprintf(w, "      cut after %d lines\n", f.MaxLines)
		}
		if f.OverWords {
			fmt.Fprintf(w, "      exceeds %d words\n", f.MaxWords)
		}
	}
	_, err := fmt.Fprintf(w, "\n✅ Filled %d fields on %d pages\n📄 Saved to: %s\n", len(report.Fields), report.Pages, out)
	return err
}
