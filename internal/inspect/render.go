package inspect

import (
	"fmt"
	"io"
	"strings"

	"github.com/a3tai/pdf-formmap/internal/formmap"
)

const rule = "============================================================"

func coords(c formmap.Coordinates) string {
	return fmt.Sprintf("x0=%.2f y0=%.2f x1=%.2f y1=%.2f", c.X0, c.Y0, c.X1, c.Y1)
}

// WriteLines prints FindLines results.
func WriteLines(w io.Writer, targets []string, hits []LineHit) error {
	var b strings.Builder
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "KEY LINES: %s\n", strings.Join(targets, ", "))
	fmt.Fprintln(&b, rule)

	if len(hits) == 0 {
		fmt.Fprintln(&b, "\n⚠️  No labels mention the target lines")
	}
	for _, h := range hits {
		f := h.Field
		fmt.Fprintf(&b, "\n✅ Found: Line %s\n", f.PredictedLabel)
		fmt.Fprintf(&b, "    Page: %d\n", f.Page)
		fmt.Fprintf(&b, "    ID: %s\n", f.ID)
		fmt.Fprintf(&b, "    Type: %s\n", f.Type)
		fmt.Fprintf(&b, "    Coordinates: %s\n", coords(f.Coordinates))
		fmt.Fprintf(&b, "    Dimensions: %gx%g pts\n", f.Dimensions.Width, f.Dimensions.Height)
	}
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, rule)

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteLargeAreas prints LargeTextAreas results.
func WriteLargeAreas(w io.Writer, c AreaCriteria, areas []formmap.SmartField) error {
	var b strings.Builder
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "LARGE TEXT AREAS")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Text fields taller than %gpts and wider than %gpts", c.MinHeight, c.MinWidth)
	if len(c.Pages) > 0 {
		fmt.Fprintf(&b, " on pages %s", joinInts(c.Pages))
	}
	fmt.Fprintf(&b, "\n\nFound %d large text areas\n\n", len(areas))

	for i, f := range areas {
		fmt.Fprintf(&b, "[%d] Page %d: %.0fx%.0fpts\n", i+1, f.Page, f.Dimensions.Width, f.Dimensions.Height)
		fmt.Fprintf(&b, "    ID: %s\n", f.ID)
		fmt.Fprintf(&b, "    Label: '%s'\n", f.PredictedLabel)
		fmt.Fprintf(&b, "    Position: (%.0f, %.0f)\n\n", f.Coordinates.X0, f.Coordinates.Y0)
	}
	fmt.Fprintln(&b, rule)

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteExplore prints Explore results.
func WriteExplore(w io.Writer, pages []PageSummary) error {
	var b strings.Builder
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "FIELD EXPLORER")
	fmt.Fprintln(&b, rule)

	for _, p := range pages {
		fmt.Fprintf(&b, "\n📄 PAGE %d (%d fields)\n", p.Page, p.Total)
		fmt.Fprintln(&b, strings.Repeat("-", len(rule)))

		if p.LabeledCount > 0 {
			fmt.Fprintf(&b, "  ✅ %d labeled fields:\n", p.LabeledCount)
			for _, f := range p.Labeled {
				fmt.Fprintf(&b, "    • %-30s (ID: %s, Type: %s)\n", f.PredictedLabel, f.ID, f.Type)
			}
			if rest := p.LabeledCount - len(p.Labeled); rest > 0 {
				fmt.Fprintf(&b, "    ... and %d more\n", rest)
			}
		} else {
			fmt.Fprintln(&b, "  ⚠️  No labeled fields found")
		}
		fmt.Fprintf(&b, "\n  Distribution: %d text fields, %d checkboxes\n", p.TextFields, p.Checkboxes)
	}
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, rule)

	_, err := io.WriteString(w, b.String())
	return err
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ", ")
}
