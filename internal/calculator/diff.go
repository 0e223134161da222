package calculator

import (
	"fmt"
	"sort"

	"github.com/GuilhermeSoares009/supplier-eval-system/internal/model"
	"github.com/GuilhermeSoares009/supplier-eval-system/internal/parser"
)

// CountDiff counts that disagree for a supplier present on both sides
type CountDiff struct {
	Manual    model.TierCounts `json:"manual"`
	Generated model.TierCounts `json:"gerado"`
}

// DiffTotals per-month sizes of each diff bucket
type DiffTotals struct {
	Manual     int `json:"manual"`
	Generated  int `json:"gerado"`
	Missing    int `json:"missing"`
	Extra      int `json:"extra"`
	CountDiffs int `json:"count_diffs"`
}

// MonthDiff comparison of one month
type MonthDiff struct {
	Missing    map[string]model.TierCounts `json:"missing"`
	Extra      map[string]model.TierCounts `json:"extra"`
	CountDiffs map[string]CountDiff        `json:"count_diffs"`
	Totals     DiffTotals                  `json:"totais"`
}

// SummaryIndexOf index of generated summary rows keyed like a parsed report.
// With folded set insatisfatório is merged into regular, matching the
// hand-maintained report.
func SummaryIndexOf(rows []SummaryRow, folded bool) parser.SummaryIndex {
	idx := parser.SummaryIndex{}
	for _, r := range rows {
		for m, counts := range r.Months {
			if counts == nil {
				continue
			}
			key := fmt.Sprintf("%02d", m+1)
			if idx[key] == nil {
				idx[key] = map[string]model.TierCounts{}
			}
			c := *counts
			if folded {
				c = c.Folded()
			}
			idx[key][r.Supplier] = c
		}
	}
	return idx
}

// DiffSummaries compares a manual report with generated tallies month by month:
// suppliers only in the manual report are missing, only in the generated one
// extra, and suppliers on both sides with different counts are count diffs.
func DiffSummaries(manual, generated parser.SummaryIndex) map[string]MonthDiff {
	months := map[string]struct{}{}
	for m := range manual {
		months[m] = struct{}{}
	}
	for m := range generated {
		months[m] = struct{}{}
	}
	keys := make([]string, 0, len(months))
	for m := range months {
		keys = append(keys, m)
	}
	sort.Strings(keys)

	out := make(map[string]MonthDiff, len(keys))
	for _, m := range keys {
		man, gen := manual[m], generated[m]
		d := MonthDiff{
			Missing:    map[string]model.TierCounts{},
			Extra:      map[string]model.TierCounts{},
			CountDiffs: map[string]CountDiff{},
		}
		for supplier, counts := range man {
			g, ok := gen[supplier]
			if !ok {
				d.Missing[supplier] = counts
				continue
			}
			if g != counts {
				d.CountDiffs[supplier] = CountDiff{Manual: counts, Generated: g}
			}
		}
		for supplier, counts := range gen {
			if _, ok := man[supplier]; !ok {
				d.Extra[supplier] = counts
			}
		}
		d.Totals = DiffTotals{
			Manual:     len(man),
			Generated:  len(gen),
			Missing:    len(d.Missing),
			Extra:      len(d.Extra),
			CountDiffs: len(d.CountDiffs),
		}
		out[m] = d
	}
	return out
}
