package parser

import (
	"fmt"
	"strings"

	"github.com/GuilhermeSoares009/supplier-eval-system/internal/model"
	"github.com/GuilhermeSoares009/supplier-eval-system/internal/workbook"
)

// SummaryLayout geometry of a consolidated report: two month blocks side by
// side, each a supplier column followed by one count column per tier.
type SummaryLayout struct {
	Anchors [2]int
	Tiers   []model.Tier
}

// ManualSummaryLayout the hand-maintained report: A-D and F-I, insatisfatório folded into regular
var ManualSummaryLayout = SummaryLayout{
	Anchors: [2]int{1, 6},
	Tiers:   []model.Tier{model.TierOtimo, model.TierBom, model.TierRegular},
}

// ExportSummaryLayout the layout written by the exporter: A-E and G-K
var ExportSummaryLayout = SummaryLayout{
	Anchors: [2]int{1, 7},
	Tiers:   []model.Tier{model.TierOtimo, model.TierBom, model.TierRegular, model.TierInsatisfatorio},
}

// SummaryHeaders tier subheaders as printed under every month title
var SummaryHeaders = map[model.Tier]string{
	model.TierOtimo:          "ÓTIMO 90 A 100",
	model.TierBom:            "BOM 70 A 90",
	model.TierRegular:        "REGULAR 50 A 70",
	model.TierInsatisfatorio: "INSATISFATÓRIO ABAIXO DE 50",
}

// SummaryIndex month ("01".."12") -> supplier -> counts
type SummaryIndex map[string]map[string]model.TierCounts

// SummaryReport parsed consolidated report. Order keeps suppliers in sheet order per month.
type SummaryReport struct {
	Index SummaryIndex
	Order map[string][]string
}

// ParseSummaryReport reads a consolidated report. A month title in either
// anchor column opens a block for that side; subheader rows are skipped; every
// other non-empty anchor cell is a supplier row. Repeated suppliers are summed.
func ParseSummaryReport(sheet workbook.Sheet, layout SummaryLayout) (SummaryReport, error) {
	report := SummaryReport{Index: SummaryIndex{}, Order: map[string][]string{}}
	var current [2]string

	for row := 1; row <= sheet.MaxRow(); row++ {
		var labels [2]string
		isTitle := false
		for side, col := range layout.Anchors {
			labels[side] = CellText(sheet.Cell(row, col))
			if month, ok := summaryMonth(labels[side]); ok {
				current[side] = month
				isTitle = true
			}
		}
		if isTitle {
			continue
		}
		if isSummarySubheader(labels[0]) || isSummarySubheader(labels[1]) {
			continue
		}

		for side, col := range layout.Anchors {
			if current[side] == "" || labels[side] == "" {
				continue
			}
			var counts model.TierCounts
			for i, t := range layout.Tiers {
				n, ok := ParseInt(sheet.Cell(row, col+1+i))
				if ok {
					counts.AddN(t, n)
				}
			}
			report.add(current[side], labels[side], counts)
		}
	}

	if len(report.Index) == 0 {
		return report, fmt.Errorf("planilha %q: nenhum mês encontrado", sheet.Name())
	}
	return report, nil
}

func (r *SummaryReport) add(month, supplier string, counts model.TierCounts) {
	bySupplier, ok := r.Index[month]
	if !ok {
		bySupplier = map[string]model.TierCounts{}
		r.Index[month] = bySupplier
	}
	prev, seen := bySupplier[supplier]
	if !seen {
		r.Order[month] = append(r.Order[month], supplier)
	}
	bySupplier[supplier] = model.TierCounts{
		Otimo:          prev.Otimo + counts.Otimo,
		Bom:            prev.Bom + counts.Bom,
		Regular:        prev.Regular + counts.Regular,
		Insatisfatorio: prev.Insatisfatorio + counts.Insatisfatorio,
	}
}

func summaryToken(s string) string {
	return strings.Join(strings.Fields(strings.ToUpper(Transliterate(s))), " ")
}

func summaryMonth(label string) (string, bool) {
	token := summaryToken(label)
	if token == "" {
		return "", false
	}
	for i, name := range MonthNames {
		if strings.Contains(token, name) {
			return fmt.Sprintf("%02d", i+1), true
		}
	}
	return "", false
}

var summarySubheaders = func() map[string]struct{} {
	out := map[string]struct{}{"FORNECEDOR": {}}
	for t, label := range SummaryHeaders {
		out[summaryToken(t.String())] = struct{}{}
		out[summaryToken(label)] = struct{}{}
	}
	return out
}()

func isSummarySubheader(label string) bool {
	_, ok := summarySubheaders[summaryToken(label)]
	return ok
}
