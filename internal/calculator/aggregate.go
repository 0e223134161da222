package calculator

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/GuilhermeSoares009/supplier-eval-system/internal/model"
)

// RecordSource read side of the record store
type RecordSource interface {
	ListMonths(ctx context.Context) ([]string, error)
	ListRecordsByMonth(ctx context.Context, month string) ([]model.Record, error)
	ListRecordsByYear(ctx context.Context, year int) ([]model.Record, error)
}

// SupplierTally tier counts of one supplier
type SupplierTally struct {
	Supplier string `json:"fornecedor"`
	model.TierCounts
	Total int `json:"total"`
}

// DashboardView one reference month
type DashboardView struct {
	Month     string          `json:"mes"`
	Months    []string        `json:"meses"`
	Suppliers []SupplierTally `json:"fornecedores"`
}

// HeatmapRow dominant tier per calendar month, nil where the supplier had no deliveries
type HeatmapRow struct {
	Supplier string          `json:"fornecedor"`
	Months   [12]*model.Tier `json:"meses"`
}

// HeatmapView one calendar year
type HeatmapView struct {
	Year      int          `json:"ano"`
	Suppliers []HeatmapRow `json:"fornecedores"`
}

// SummaryRow supplier tallies for every month of a year
type SummaryRow struct {
	Supplier string                `json:"fornecedor"`
	Months   [12]*model.TierCounts `json:"meses"`
	Total    int                   `json:"total"`
}

// Calculator builds the reporting views from stored records. It keeps no state
// between calls.
type Calculator struct {
	source RecordSource
}

// NewCalculator creates a calculator over source
func NewCalculator(source RecordSource) *Calculator {
	return &Calculator{source: source}
}

// Dashboard tallies for month; an empty month selects the latest one available.
func (c *Calculator) Dashboard(ctx context.Context, month string) (DashboardView, error) {
	months, err := c.source.ListMonths(ctx)
	if err != nil {
		return DashboardView{}, err
	}
	if month == "" && len(months) > 0 {
		month = months[len(months)-1]
	}
	view := DashboardView{Month: month, Months: months, Suppliers: []SupplierTally{}}
	if view.Months == nil {
		view.Months = []string{}
	}
	if month == "" {
		return view, nil
	}
	records, err := c.source.ListRecordsByMonth(ctx, month)
	if err != nil {
		return DashboardView{}, err
	}
	view.Suppliers = TallyBySupplier(records)
	return view, nil
}

// Heatmap dominant tiers for year; zero selects the year of the latest data.
func (c *Calculator) Heatmap(ctx context.Context, year int) (HeatmapView, error) {
	year, err := c.resolveYear(ctx, year)
	if err != nil {
		return HeatmapView{}, err
	}
	view := HeatmapView{Year: year, Suppliers: []HeatmapRow{}}
	if year == 0 {
		return view, nil
	}
	records, err := c.source.ListRecordsByYear(ctx, year)
	if err != nil {
		return HeatmapView{}, err
	}
	view.Suppliers = Heatmap(records, year)
	return view, nil
}

// Summary monthly tallies for year; zero selects the year of the latest data.
func (c *Calculator) Summary(ctx context.Context, year int) (int, []SummaryRow, error) {
	year, err := c.resolveYear(ctx, year)
	if err != nil || year == 0 {
		return year, []SummaryRow{}, err
	}
	records, err := c.source.ListRecordsByYear(ctx, year)
	if err != nil {
		return year, nil, err
	}
	return year, MonthlySummary(records, year), nil
}

func (c *Calculator) resolveYear(ctx context.Context, year int) (int, error) {
	if year > 0 {
		return year, nil
	}
	months, err := c.source.ListMonths(ctx)
	if err != nil {
		return 0, err
	}
	if len(months) == 0 {
		return 0, nil
	}
	return YearOf(months[len(months)-1]), nil
}

// TallyBySupplier counts tiers per supplier, sorted by supplier name.
func TallyBySupplier(records []model.Record) []SupplierTally {
	bySupplier := map[string]*model.TierCounts{}
	for _, r := range records {
		counts, ok := bySupplier[r.Supplier]
		if !ok {
			counts = &model.TierCounts{}
			bySupplier[r.Supplier] = counts
		}
		counts.Add(r.Tier)
	}

	out := make([]SupplierTally, 0, len(bySupplier))
	for _, name := range sortedKeys(bySupplier) {
		counts := *bySupplier[name]
		out = append(out, SupplierTally{Supplier: name, TierCounts: counts, Total: counts.Total()})
	}
	return out
}

// MonthlySummary supplier x month tallies of the records falling in year.
// Months without deliveries stay nil.
func MonthlySummary(records []model.Record, year int) []SummaryRow {
	rows := map[string]*SummaryRow{}
	for _, r := range records {
		if r.ReceiptDate.Year() != year {
			continue
		}
		row, ok := rows[r.Supplier]
		if !ok {
			row = &SummaryRow{Supplier: r.Supplier}
			rows[r.Supplier] = row
		}
		m := int(r.ReceiptDate.Month()) - 1
		if row.Months[m] == nil {
			row.Months[m] = &model.TierCounts{}
		}
		row.Months[m].Add(r.Tier)
		row.Total++
	}

	out := make([]SummaryRow, 0, len(rows))
	for _, name := range sortedKeys(rows) {
		out = append(out, *rows[name])
	}
	return out
}

// Heatmap dominant tier per supplier and calendar month.
func Heatmap(records []model.Record, year int) []HeatmapRow {
	summary := MonthlySummary(records, year)
	out := make([]HeatmapRow, 0, len(summary))
	for _, s := range summary {
		row := HeatmapRow{Supplier: s.Supplier}
		for m, counts := range s.Months {
			if counts == nil {
				continue
			}
			if tier, ok := counts.Dominant(); ok {
				t := tier
				row.Months[m] = &t
			}
		}
		out = append(out, row)
	}
	return out
}

// YearOf year part of a YYYY-MM reference month, zero when malformed.
func YearOf(month string) int {
	y, _, ok := strings.Cut(month, "-")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(y)
	if err != nil {
		return 0
	}
	return n
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
