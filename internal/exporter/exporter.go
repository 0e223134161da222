package exporter

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/GuilhermeSoares009/supplier-eval-system/internal/calculator"
	"github.com/GuilhermeSoares009/supplier-eval-system/internal/model"
	"github.com/GuilhermeSoares009/supplier-eval-system/internal/parser"
)

// RecordSource records of one calendar year
type RecordSource interface {
	ListRecordsByYear(ctx context.Context, year int) ([]model.Record, error)
}

// Exporter annual evaluation workbook
type Exporter struct {
	source RecordSource
	logger *zap.Logger
}

// NewExporter creates an exporter
func NewExporter(source RecordSource, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{source: source, logger: logger}
}

// ExportOptions export options
type ExportOptions struct {
	Year int
	// GeneratedAt printed on the cover block; zero means now.
	GeneratedAt time.Time
	Progress    func(ProgressEvent)
}

// DetailSheetName name of the per-delivery sheet
func DetailSheetName(year int) string { return fmt.Sprintf("Detalhe %d", year) }

// SummarySheetName name of the monthly summary sheet
func SummarySheetName(year int) string { return fmt.Sprintf("Avaliação %d", year) }

// FileName ASCII download name
func FileName(year int) string { return fmt.Sprintf("AVALIACAO_FORNECEDORES_%d.xlsx", year) }

// DisplayName UTF-8 download name
func DisplayName(year int) string { return fmt.Sprintf("AVALIAÇÃO DE FORNECEDORES %d.xlsx", year) }

// Export builds the workbook for opts.Year. Records are validated first and
// nothing is written to the store.
func (e *Exporter) Export(ctx context.Context, opts ExportOptions) (*excelize.File, error) {
	if opts.Year <= 0 {
		return nil, fmt.Errorf("ano inválido: %d", opts.Year)
	}
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now()
	}

	progress := &progressTracker{fn: opts.Progress}
	progress.report(5, StageLoading)
	records, err := e.source.ListRecordsByYear(ctx, opts.Year)
	if err != nil {
		return nil, fmt.Errorf("listar registros de %d: %w", opts.Year, err)
	}

	progress.report(15, StageValidating)
	if err := Validate(records); err != nil {
		return nil, fmt.Errorf("ano %d: %w", opts.Year, err)
	}
	if n := staleCount(records); n > 0 {
		e.logger.Warn("exporting records with stale score, run reconcile to repair",
			zap.Int("year", opts.Year), zap.Int("stale", n))
	}

	f := excelize.NewFile()
	if err := e.fill(f, opts, records, progress); err != nil {
		_ = f.Close()
		return nil, err
	}
	f.SetActiveSheet(0)

	progress.report(100, StageDone)
	e.logger.Info("export done", zap.Int("year", opts.Year), zap.Int("records", len(records)))
	return f, nil
}

func (e *Exporter) fill(f *excelize.File, opts ExportOptions, records []model.Record, progress *progressTracker) error {
	st, err := newStyles(f)
	if err != nil {
		return fmt.Errorf("criar estilos: %w", err)
	}

	detail := DetailSheetName(opts.Year)
	if err := f.SetSheetName(f.GetSheetName(0), detail); err != nil {
		return err
	}
	progress.report(30, StageDetail)
	if err := writeDetailSheet(f, st, detail, opts, sortForExport(records)); err != nil {
		return fmt.Errorf("planilha %s: %w", detail, err)
	}

	summary := SummarySheetName(opts.Year)
	if _, err := f.NewSheet(summary); err != nil {
		return err
	}
	progress.report(70, StageSummary)
	if err := writeSummarySheet(f, st, summary, opts.Year, calculator.MonthlySummary(records, opts.Year)); err != nil {
		return fmt.Errorf("planilha %s: %w", summary, err)
	}
	return nil
}

const (
	colorGreen      = "C6EFCE"
	colorRed        = "FFC7CE"
	colorMonthTitle = "B4E5A2"
	colorHeader     = "D9D9D9"
)

var tierColors = map[model.Tier]string{
	model.TierOtimo:          "63BE7B",
	model.TierBom:            colorGreen,
	model.TierRegular:        "FFEB9C",
	model.TierInsatisfatorio: colorRed,
}

type styles struct {
	title      int
	label      int
	header     int
	text       int
	date       int
	count      int
	percent    int
	percentOK  int
	percentBad int
	flagOK     int
	flagBad    int
	monthTitle int
	subheader  int
	tiers      map[model.Tier]int
}

var thinBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
}

func solidFill(color string) excelize.Fill {
	return excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1}
}

func newStyles(f *excelize.File) (*styles, error) {
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true}
	dateFmt := "dd/mm/yyyy"
	percentFmt := "0.00%"

	st := &styles{tiers: map[model.Tier]int{}}
	defs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&st.title, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}}},
		{&st.label, &excelize.Style{Font: &excelize.Font{Bold: true}}},
		{&st.header, &excelize.Style{Font: &excelize.Font{Bold: true}, Fill: solidFill(colorHeader), Border: thinBorder, Alignment: center}},
		{&st.text, &excelize.Style{Border: thinBorder}},
		{&st.date, &excelize.Style{Border: thinBorder, CustomNumFmt: &dateFmt, Alignment: center}},
		{&st.count, &excelize.Style{Border: thinBorder, Alignment: center}},
		{&st.percent, &excelize.Style{Border: thinBorder, CustomNumFmt: &percentFmt, Alignment: center}},
		{&st.percentOK, &excelize.Style{Border: thinBorder, CustomNumFmt: &percentFmt, Alignment: center, Fill: solidFill(colorGreen)}},
		{&st.percentBad, &excelize.Style{Border: thinBorder, CustomNumFmt: &percentFmt, Alignment: center, Fill: solidFill(colorRed)}},
		{&st.flagOK, &excelize.Style{Border: thinBorder, Alignment: center, Fill: solidFill(colorGreen)}},
		{&st.flagBad, &excelize.Style{Border: thinBorder, Alignment: center, Fill: solidFill(colorRed)}},
		{&st.monthTitle, &excelize.Style{Font: &excelize.Font{Bold: true}, Fill: solidFill(colorMonthTitle), Border: thinBorder, Alignment: center}},
		{&st.subheader, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 9}, Border: thinBorder, Alignment: center}},
	}
	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return nil, err
		}
		*d.dst = id
	}
	for tier, color := range tierColors {
		id, err := f.NewStyle(&excelize.Style{Border: thinBorder, Alignment: center, Fill: solidFill(color)})
		if err != nil {
			return nil, err
		}
		st.tiers[tier] = id
	}
	return st, nil
}

func cellName(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		panic(err)
	}
	return name
}

// displayRatio rounds a ratio to four places, i.e. two decimals once shown as a percentage.
func displayRatio(v float64) float64 {
	return decimal.NewFromFloat(v).Round(4).InexactFloat64()
}

var detailColumns = []struct {
	title string
	width float64
}{
	{"Data de Recebimento", 14},
	{"Fornecedor", 34},
	{"Nº do Pedido", 14},
	{"Nº da Nota Fiscal", 16},
	{"Total de Itens do Pedido", 12},
	{"Itens Atendidos na Nota", 12},
	{"Acuracidade", 12},
	{"Embalagem", 12},
	{"Temperatura", 12},
	{"Prazo", 10},
	{"Validade", 10},
	{"Atendimento", 12},
	{"Nota Total", 11},
	{"Classificação", 16},
}

// Detail sheet geometry
const (
	detailHeaderRow = 6
	detailFirstRow  = detailHeaderRow + 1
)

func writeDetailSheet(f *excelize.File, st *styles, sheet string, opts ExportOptions, records []model.Record) error {
	for i, c := range detailColumns {
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, name, name, c.width); err != nil {
			return err
		}
	}

	lastCol := len(detailColumns)
	cover := [][2]any{
		{"Ano", opts.Year},
		{"Gerado em", opts.GeneratedAt.Format("02/01/2006 15:04")},
		{"Registros", len(records)},
	}
	if err := f.SetCellValue(sheet, "A1", "AVALIAÇÃO DE FORNECEDORES"); err != nil {
		return err
	}
	if err := f.MergeCell(sheet, "A1", cellName(lastCol, 1)); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", st.title); err != nil {
		return err
	}
	for i, kv := range cover {
		row := 2 + i
		if err := f.SetCellValue(sheet, cellName(1, row), kv[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cellName(2, row), kv[1]); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cellName(1, row), cellName(1, row), st.label); err != nil {
			return err
		}
	}

	header := make([]any, len(detailColumns))
	for i, c := range detailColumns {
		header[i] = c.title
	}
	if err := f.SetSheetRow(sheet, cellName(1, detailHeaderRow), &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, cellName(1, detailHeaderRow), cellName(lastCol, detailHeaderRow), st.header); err != nil {
		return err
	}

	for i, r := range records {
		if err := writeDetailRow(f, st, sheet, detailFirstRow+i, r); err != nil {
			return err
		}
	}

	legendRow := detailFirstRow + len(records) + 2
	return writeLegend(f, st, sheet, legendRow)
}

func writeDetailRow(f *excelize.File, st *styles, sheet string, row int, r model.Record) error {
	criteria := r.Criteria()
	values := []any{
		r.ReceiptDate,
		r.Supplier,
		r.OrderNumber,
		r.InvoiceNumber,
		r.TotalItems,
		r.ItemsFulfilled,
		displayRatio(r.Accuracy),
		criteria[0], criteria[1], criteria[2], criteria[3], criteria[4],
		displayRatio(r.Score),
		r.Tier.String(),
	}
	if err := f.SetSheetRow(sheet, cellName(1, row), &values); err != nil {
		return err
	}

	styleAt := func(col, style int) error {
		c := cellName(col, row)
		return f.SetCellStyle(sheet, c, c, style)
	}
	if err := styleAt(1, st.date); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, cellName(2, row), cellName(4, row), st.text); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, cellName(5, row), cellName(6, row), st.count); err != nil {
		return err
	}

	accStyle := st.percentBad
	if r.Accuracy >= 1 {
		accStyle = st.percentOK
	}
	if err := styleAt(7, accStyle); err != nil {
		return err
	}
	for i, c := range criteria {
		style := st.flagBad
		if c == 1 {
			style = st.flagOK
		}
		if err := styleAt(8+i, style); err != nil {
			return err
		}
	}
	if err := styleAt(13, st.percent); err != nil {
		return err
	}
	tierStyle, ok := st.tiers[r.Tier]
	if !ok {
		tierStyle = st.count
	}
	return styleAt(14, tierStyle)
}

func writeLegend(f *excelize.File, st *styles, sheet string, row int) error {
	pct := func(v float64) int { return int(math.Round(v * 100)) }
	entries := []struct {
		label string
		text  string
		style int
	}{
		{model.TierOtimo.String(), fmt.Sprintf("nota a partir de %d%%", pct(model.ThresholdOtimo)), st.tiers[model.TierOtimo]},
		{model.TierBom.String(), fmt.Sprintf("de %d%% a %d%%", pct(model.ThresholdBom), pct(model.ThresholdOtimo)), st.tiers[model.TierBom]},
		{model.TierRegular.String(), fmt.Sprintf("de %d%% a %d%%", pct(model.ThresholdRegular), pct(model.ThresholdBom)), st.tiers[model.TierRegular]},
		{model.TierInsatisfatorio.String(), fmt.Sprintf("abaixo de %d%%", pct(model.ThresholdRegular)), st.tiers[model.TierInsatisfatorio]},
		{"1", "critério atendido / acuracidade total", st.flagOK},
		{"0", "critério não atendido / acuracidade parcial", st.flagBad},
	}

	if err := f.SetCellValue(sheet, cellName(1, row), "Legenda"); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, cellName(1, row), cellName(1, row), st.label); err != nil {
		return err
	}
	for i, e := range entries {
		r := row + 1 + i
		if err := f.SetCellValue(sheet, cellName(1, r), e.label); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cellName(1, r), cellName(1, r), e.style); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cellName(2, r), e.text); err != nil {
			return err
		}
	}
	return nil
}

var monthTitles = [12]string{
	"JANEIRO", "FEVEREIRO", "MARÇO", "ABRIL", "MAIO", "JUNHO",
	"JULHO", "AGOSTO", "SETEMBRO", "OUTUBRO", "NOVEMBRO", "DEZEMBRO",
}

// writeSummarySheet lays the year out in month pairs (JAN|FEV ... NOV|DEZ), each
// month a block of supplier and per-tier counts; zero counts stay blank.
func writeSummarySheet(f *excelize.File, st *styles, sheet string, year int, rows []calculator.SummaryRow) error {
	layout := parser.ExportSummaryLayout
	width := 1 + len(layout.Tiers)
	lastCol := layout.Anchors[1] + width - 1

	for side, anchor := range layout.Anchors {
		first, _ := excelize.ColumnNumberToName(anchor)
		if err := f.SetColWidth(sheet, first, first, 22); err != nil {
			return err
		}
		from, _ := excelize.ColumnNumberToName(anchor + 1)
		to, _ := excelize.ColumnNumberToName(anchor + width - 1)
		if err := f.SetColWidth(sheet, from, to, 14); err != nil {
			return err
		}
		if side == 0 && anchor+width < layout.Anchors[1] {
			gap, _ := excelize.ColumnNumberToName(anchor + width)
			if err := f.SetColWidth(sheet, gap, gap, 2); err != nil {
				return err
			}
		}
	}

	if err := f.SetCellValue(sheet, "A1", fmt.Sprintf("AVALIAÇÃO DE FORNECEDORES %d", year)); err != nil {
		return err
	}
	if err := f.MergeCell(sheet, "A1", cellName(lastCol, 1)); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", st.title); err != nil {
		return err
	}

	row := 3
	for pair := 0; pair < 12; pair += 2 {
		height := 0
		for side, anchor := range layout.Anchors {
			n, err := writeMonthBlock(f, st, sheet, anchor, row, pair+side, year, layout, rows)
			if err != nil {
				return err
			}
			if n > height {
				height = n
			}
		}
		row += height + 1
	}
	return nil
}

// writeMonthBlock writes one month at (col, row) and returns the rows it used.
func writeMonthBlock(f *excelize.File, st *styles, sheet string, col, row, month, year int, layout parser.SummaryLayout, rows []calculator.SummaryRow) (int, error) {
	width := 1 + len(layout.Tiers)
	last := col + width - 1

	if err := f.SetCellValue(sheet, cellName(col, row), fmt.Sprintf("%s %d", monthTitles[month], year)); err != nil {
		return 0, err
	}
	if err := f.MergeCell(sheet, cellName(col, row), cellName(last, row)); err != nil {
		return 0, err
	}
	if err := f.SetCellStyle(sheet, cellName(col, row), cellName(last, row), st.monthTitle); err != nil {
		return 0, err
	}

	sub := []any{"FORNECEDOR"}
	for _, t := range layout.Tiers {
		sub = append(sub, parser.SummaryHeaders[t])
	}
	if err := f.SetSheetRow(sheet, cellName(col, row+1), &sub); err != nil {
		return 0, err
	}
	if err := f.SetCellStyle(sheet, cellName(col, row+1), cellName(last, row+1), st.subheader); err != nil {
		return 0, err
	}

	r := row + 2
	for _, s := range rows {
		counts := s.Months[month]
		if counts == nil {
			continue
		}
		if err := f.SetCellValue(sheet, cellName(col, r), s.Supplier); err != nil {
			return 0, err
		}
		for i, t := range layout.Tiers {
			if n := counts.Get(t); n > 0 {
				if err := f.SetCellValue(sheet, cellName(col+1+i, r), n); err != nil {
					return 0, err
				}
			}
		}
		if err := f.SetCellStyle(sheet, cellName(col, r), cellName(col, r), st.text); err != nil {
			return 0, err
		}
		if err := f.SetCellStyle(sheet, cellName(col+1, r), cellName(last, r), st.count); err != nil {
			return 0, err
		}
		r++
	}
	return r - row, nil
}
