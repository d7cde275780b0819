package main

import (
	"bytes"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/a3tai/pdf-formmap/internal/pdf/extraction"
)

func (a *app) newFieldsCmd() *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "fields <pdf|->",
		Short: "List AcroForm field names",
		Long: `List the text fields of a PDF form as [{name, value}]. When the form has
no text fields every named field is listed as [{name, type}]; a PDF without
a form prints []. Use --report for page numbers, rectangles and XFA status.
Pass - to read the PDF from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.extractFields(cmd, args[0])
			if err != nil {
				return err
			}

			var data any = report.Entries()
			if full {
				data = report
			}
			// the listing is JSON for people and pipes alike
			return a.out(cmd).Write(data, nil)
		},
	}
	cmd.Flags().BoolVar(&full, "report", false, "print the full extraction report")
	return cmd
}

func (a *app) extractFields(cmd *cobra.Command, path string) (*extraction.FieldReport, error) {
	fe := extraction.NewFieldExtractor(a.logger)
	if path != "-" {
		return fe.Extract(path)
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return fe.ExtractFromReader(bytes.NewReader(data))
}

func (a *app) newWidgetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "widgets <pdf>",
		Short: "List widget annotations with their page and rectangle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			widgets, err := extraction.NewFieldExtractor(a.logger).Widgets(args[0])
			if err != nil {
				return err
			}
			if widgets == nil {
				widgets = []extraction.Widget{}
			}
			return a.out(cmd).Write(widgets, func(w io.Writer) error {
				return writeWidgets(w, widgets)
			})
		},
	}
}

func writeWidgets(w io.Writer, widgets []extraction.Widget) error {
	if len(widgets) == 0 {
		_, err := fmt.Fprintln(w, "No widget annotations found")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PAGE\tNAME\tTYPE\tX0\tY0\tX1\tY1")
	for _, wd := range widgets {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t%.2f\t%.2f\t%.2f\n",
			wd.Page, wd.Name, wd.Type, wd.Rect.X0, wd.Rect.Y0, wd.Rect.X1, wd.Rect.Y1)
	}
	fmt.Fprintf(tw, "\n%d widgets\n", len(widgets))
	return tw.Flush()
}
