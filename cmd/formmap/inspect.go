package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/a3tai/pdf-formmap/internal/formmap"
	"github.com/a3tai/pdf-formmap/internal/inspect"
)

func (a *app) newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Report on a smart map produced by scan geometry",
	}
	cmd.AddCommand(a.newInspectLinesCmd(), a.newInspectLargeCmd(), a.newInspectExploreCmd())
	return cmd
}

func (a *app) newInspectLinesCmd() *cobra.Command {
	var targets []string

	cmd := &cobra.Command{
		Use:   "lines <smart-map.json>",
		Short: "Find fields whose label mentions the given line numbers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := formmap.LoadSmartMap(args[0])
			if err != nil {
				return err
			}
			hits := inspect.FindLines(m, targets)
			return a.out(cmd).Write(hits, func(w io.Writer) error {
				return inspect.WriteLines(w, targets, hits)
			})
		},
	}
	cmd.Flags().StringSliceVar(&targets, "line", inspect.DefaultTargetLines, "line numbers to look for")
	return cmd
}

func (a *app) newInspectLargeCmd() *cobra.Command {
	c := inspect.DefaultAreaCriteria()

	cmd := &cobra.Command{
		Use:   "large <smart-map.json>",
		Short: "List text fields large enough for narrative answers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := formmap.LoadSmartMap(args[0])
			if err != nil {
				return err
			}
			areas := inspect.LargeTextAreas(m, c)
			return a.out(cmd).Write(areas, func(w io.Writer) error {
				return inspect.WriteLargeAreas(w, c, areas)
			})
		},
	}
	cmd.Flags().Float64Var(&c.MinHeight, "min-height", c.MinHeight, "fields must be taller than this")
	cmd.Flags().Float64Var(&c.MinWidth, "min-width", c.MinWidth, "fields must be wider than this")
	cmd.Flags().IntSliceVar(&c.Pages, "pages", c.Pages, "pages to search; empty for all")
	return cmd
}

func (a *app) newInspectExploreCmd() *cobra.Command {
	var sample int

	cmd := &cobra.Command{
		Use:   "explore <smart-map.json>",
		Short: "Summarise labeled fields and field types per page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := formmap.LoadSmartMap(args[0])
			if err != nil {
				return err
			}
			pages := inspect.Explore(m, sample)
			return a.out(cmd).Write(pages, func(w io.Writer) error {
				return inspect.WriteExplore(w, pages)
			})
		},
	}
	cmd.Flags().IntVar(&sample, "sample", inspect.DefaultExploreSample, "labeled fields listed per page")
	return cmd
}
