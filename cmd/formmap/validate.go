package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/a3tai/pdf-formmap/internal/formmap"
)

type validation struct {
	Path  string `json:"path" yaml:"path"`
	Kind  string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Valid bool   `json:"valid" yaml:"valid"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

func (a *app) newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <map.json>...",
		Short: "Detect each map's kind and check it against its schema",
		Long: `Detect whether each file is a smart map, a full map, a curated layout or a
critical fields mapping and validate it against the embedded JSON Schema.
Exits non-zero when any file is invalid.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]validation, 0, len(args))
			invalid := 0
			for _, path := range args {
				kind, err := formmap.ValidateFile(path)
				v := validation{Path: path, Kind: string(kind), Valid: err == nil}
				if err != nil {
					v.Error = err.Error()
					invalid++
				}
				results = append(results, v)
			}

			err := a.out(cmd).Write(results, func(w io.Writer) error {
				for _, v := range results {
					if v.Valid {
						fmt.Fprintf(w, "✅ %s: valid %s map\n", v.Path, v.Kind)
						continue
					}
					fmt.Fprintf(w, "❌ %s: %s\n", v.Path, v.Error)
				}
				return nil
			})
			if err != nil {
				return err
			}
			if invalid > 0 {
				return fmt.Errorf("%d of %d files failed validation", invalid, len(args))
			}
			return nil
		},
	}
}
