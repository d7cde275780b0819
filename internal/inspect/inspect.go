// Package inspect reports on a geometry-scan map for a person deciding which
// boxes should receive generated text. Nothing here modifies the map.
package inspect

import (
	"sort"
	"strings"

	"github.com/a3tai/pdf-formmap/internal/formmap"
	"github.com/a3tai/pdf-formmap/internal/geometry"
)

// DefaultTargetLines are the narrative lines of the T661.
var DefaultTargetLines = []string{"242", "244", "246"}

// DefaultExploreSample is how many labeled fields Explore lists per page.
const DefaultExploreSample = 10

// LineHit is a field whose label mentions one of the target lines.
type LineHit struct {
	Target string             `json:"target" yaml:"target"`
	Field  formmap.SmartField `json:"field" yaml:"field"`
}

// FindLines returns every field whose predicted label contains one of the
// targets, in page order. A field is reported once, under the first target
// it matches.
func FindLines(m formmap.SmartMap, targets []string) []LineHit {
	hits := []LineHit{}
	for _, f := range m.All() {
		for _, target := range targets {
			if target != "" && strings.Contains(f.PredictedLabel, target) {
				hits = append(hits, LineHit{Target: target, Field: f})
				break
			}
		}
	}
	return hits
}

// AreaCriteria selects large text areas.
type AreaCriteria struct {
	MinHeight float64 // exclusive
	MinWidth  float64 // exclusive
	// Pages restricts the search; empty means every page.
	Pages []int
}

// DefaultAreaCriteria matches the multi-line narrative boxes of pages 2 to 4.
func DefaultAreaCriteria() AreaCriteria {
	return AreaCriteria{MinHeight: 40, MinWidth: 200, Pages: []int{2, 3, 4}}
}

func (c AreaCriteria) includes(page int) bool {
	if len(c.Pages) == 0 {
		return true
	}
	for _, p := range c.Pages {
		if p == page {
			return true
		}
	}
	return false
}

// LargeTextAreas returns text fields larger than the criteria, sorted by
// page ascending then height descending. Equal heights keep map order.
func LargeTextAreas(m formmap.SmartMap, c AreaCriteria) []formmap.SmartField {
	areas := []formmap.SmartField{}
	for _, p := range m {
		if !c.includes(p.Number) {
			continue
		}
		for _, f := range p.Items {
			if f.Type != geometry.KindTextField {
				continue
			}
			if f.Dimensions.Height > c.MinHeight && f.Dimensions.Width > c.MinWidth {
				areas = append(areas, f)
			}
		}
	}

	sort.SliceStable(areas, func(i, j int) bool {
		if areas[i].Page != areas[j].Page {
			return areas[i].Page < areas[j].Page
		}
		return areas[i].Dimensions.Height > areas[j].Dimensions.Height
	})
	return areas
}

// PageSummary describes one page of a map.
type PageSummary struct {
	Page         int                  `json:"page" yaml:"page"`
	Total        int                  `json:"total" yaml:"total"`
	LabeledCount int                  `json:"labeled_count" yaml:"labeled_count"`
	Labeled      []formmap.SmartField `json:"labeled" yaml:"labeled"`
	TextFields   int                  `json:"text_fields" yaml:"text_fields"`
	Checkboxes   int                  `json:"checkboxes" yaml:"checkboxes"`
}

// Explore summarises every page: how many fields found a label, the first
// sample of them, and the text field / checkbox split.
func Explore(m formmap.SmartMap, sample int) []PageSummary {
	out := make([]PageSummary, 0, len(m))
	for _, p := range m {
		s := PageSummary{Page: p.Number, Total: len(p.Items), Labeled: []formmap.SmartField{}}
		for _, f := range p.Items {
			if f.PredictedLabel != geometry.Unlabeled {
				s.LabeledCount++
				if len(s.Labeled) < sample {
					s.Labeled = append(s.Labeled, f)
				}
			}
			switch f.Type {
			case geometry.KindTextField:
				s.TextFields++
			case geometry.KindCheckbox:
				s.Checkboxes++
			}
		}
		out = append(out, s)
	}
	return out
}
