package exporter

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/GuilhermeSoares009/supplier-eval-system/internal/calculator"
	"github.com/GuilhermeSoares009/supplier-eval-system/internal/model"
	"github.com/GuilhermeSoares009/supplier-eval-system/internal/parser"
	"github.com/GuilhermeSoares009/supplier-eval-system/internal/workbook"
)

type memorySource []model.Record

func (m memorySource) ListRecordsByYear(_ context.Context, year int) ([]model.Record, error) {
	var out []model.Record
	for _, r := range m {
		if r.ReceiptDate.Year() == year {
			out = append(out, r)
		}
	}
	return out, nil
}

func rec(supplier, date, order string, total, fulfilled int, criteria ...int) model.Record {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	r := model.Record{
		Supplier:       supplier,
		OrderNumber:    order,
		InvoiceNumber:  "NF" + order,
		TotalItems:     total,
		ItemsFulfilled: fulfilled,
		ReceiptDate:    d,
		ReferenceMonth: model.ReferenceMonth(d),
	}
	r.Packaging, r.Temperature, r.LeadTime, r.Validity, r.Carrier = criteria[0], criteria[1], criteria[2], criteria[3], criteria[4]
	res := calculator.EvaluateRecord(r)
	r.Accuracy, r.Score, r.Tier = res.Accuracy, res.Score, res.Tier
	return r
}

func sampleYear() memorySource {
	return memorySource{
		rec("ACME", "2026-02-10", "4", 10, 10, 0, 0, 0, 0, 0),
		rec("ACME", "2026-01-20", "3", 10, 10, 1, 1, 1, 1, 1),
		rec("BETA", "2026-01-05", "2", 10, 5, 1, 1, 1, 0, 0),
		rec("ACME", "2026-01-05", "1", 10, 10, 1, 1, 1, 1, 1),
		rec("ACME", "2025-12-30", "0", 10, 10, 1, 1, 1, 1, 1),
	}
}

func TestExport_NoRecordsForYear(t *testing.T) {
	t.Parallel()

	_, err := NewExporter(sampleYear(), nil).Export(context.Background(), ExportOptions{Year: 2024})
	assert.ErrorIs(t, err, ErrNoRecords)
}

func TestExport_RejectsOverFulfillment(t *testing.T) {
	t.Parallel()
	src := append(sampleYear(), rec("GAMA", "2026-03-01", "9", 5, 7, 1, 1, 1, 1, 1))

	_, err := NewExporter(src, nil).Export(context.Background(), ExportOptions{Year: 2026})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "GAMA", verr.Supplier)
	assert.Equal(t, "9", verr.Order)
	assert.Equal(t, "NF9", verr.Invoice)
	assert.Contains(t, err.Error(), "01/03/2026")
}

func TestExport_RejectsNonBinaryCriterion(t *testing.T) {
	t.Parallel()
	bad := rec("GAMA", "2026-03-01", "9", 5, 5, 1, 1, 1, 1, 1)
	bad.Validity = 2

	_, err := NewExporter(memorySource{bad}, nil).Export(context.Background(), ExportOptions{Year: 2026})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Problem, "validade")
}

func TestValidate_ReportsFirstProblemInExportOrder(t *testing.T) {
	t.Parallel()
	late := rec("ZETA", "2026-05-01", "2", 1, 3, 1, 1, 1, 1, 1)
	early := rec("ALFA", "2026-04-01", "1", 1, 1, 1, 1, 1, 1, 1)
	early.Carrier = -1

	var verr *ValidationError
	require.True(t, errors.As(Validate([]model.Record{late, early}), &verr))
	assert.Equal(t, "ALFA", verr.Supplier)
	assert.NoError(t, Validate([]model.Record{rec("ALFA", "2026-04-01", "1", 0, 0, 0, 0, 0, 0, 0)}))
}

func TestExport_DetailSheet(t *testing.T) {
	t.Parallel()
	generated := time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)

	f, err := NewExporter(sampleYear(), nil).Export(context.Background(), ExportOptions{Year: 2026, GeneratedAt: generated})
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Detalhe 2026", "Avaliação 2026"}, f.GetSheetList())
	sheet := DetailSheetName(2026)
	raw := excelize.Options{RawCellValue: true}

	get := func(cell string) string {
		v, err := f.GetCellValue(sheet, cell, raw)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "AVALIAÇÃO DE FORNECEDORES", get("A1"))
	assert.Equal(t, "2026", get("B2"))
	assert.Equal(t, "01/10/2026 09:30", get("B3"))
	assert.Equal(t, "4", get("B4"))
	assert.Equal(t, "Data de Recebimento", get("A6"))
	assert.Equal(t, "Classificação", get("N6"))

	// chronological, then supplier
	assert.Equal(t, "ACME", get("B7"))
	assert.Equal(t, "BETA", get("B8"))
	assert.Equal(t, "ACME", get("B9"))
	assert.Equal(t, "ACME", get("B10"))
	assert.Equal(t, "4", get("C10"))

	assert.Equal(t, "0.5", get("G8"))
	assert.Equal(t, "Regular", get("N8"))
	assert.Equal(t, "Ótimo", get("N7"))
	assert.Equal(t, "Insatisfatório", get("N10"))

	assert.Equal(t, "Legenda", get("A13"))
	assert.Equal(t, "Ótimo", get("A14"))
}

func TestExport_SummarySheetRoundTrip(t *testing.T) {
	t.Parallel()

	f, err := NewExporter(sampleYear(), nil).Export(context.Background(), ExportOptions{Year: 2026})
	require.NoError(t, err)
	defer f.Close()

	sheet := SummarySheetName(2026)
	get := func(cell string) string {
		v, err := f.GetCellValue(sheet, cell)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "JANEIRO 2026", get("A3"))
	assert.Equal(t, "FEVEREIRO 2026", get("G3"))
	assert.Equal(t, "ÓTIMO 90 A 100", get("B4"))
	assert.Equal(t, "INSATISFATÓRIO ABAIXO DE 50", get("E4"))
	assert.Equal(t, "ACME", get("A5"))
	assert.Equal(t, "2", get("B5"))
	assert.Equal(t, "", get("C5"), "zero counts stay blank")
	assert.Equal(t, "MARÇO 2026", get("A8"))

	merged, err := f.GetMergeCells(sheet)
	require.NoError(t, err)
	var ranges []string
	for _, m := range merged {
		ranges = append(ranges, m.GetStartAxis()+":"+m.GetEndAxis())
	}
	assert.Contains(t, ranges, "A3:E3")
	assert.Contains(t, ranges, "G3:K3")

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	wb, err := workbook.Open(FileName(2026), bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, wb.Sheets, 2)

	report, err := parser.ParseSummaryReport(wb.Sheets[1], parser.ExportSummaryLayout)
	require.NoError(t, err)
	assert.Equal(t, model.TierCounts{Otimo: 2}, report.Index["01"]["ACME"])
	assert.Equal(t, model.TierCounts{Regular: 1}, report.Index["01"]["BETA"])
	assert.Equal(t, model.TierCounts{Insatisfatorio: 1}, report.Index["02"]["ACME"])
	assert.Len(t, report.Index, 2)
	assert.Equal(t, []string{"ACME", "BETA"}, report.Order["01"])
}

func TestExport_ReportsProgress(t *testing.T) {
	t.Parallel()
	var percents []int

	f, err := NewExporter(sampleYear(), nil).Export(context.Background(), ExportOptions{
		Year:     2026,
		Progress: func(p ProgressEvent) { percents = append(percents, p.Percent) },
	})
	require.NoError(t, err)
	defer f.Close()

	require.NotEmpty(t, percents)
	assert.Equal(t, 100, percents[len(percents)-1])
	assert.IsIncreasing(t, percents)
}

func TestExport_FileNames(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "AVALIACAO_FORNECEDORES_2026.xlsx", FileName(2026))
	assert.Equal(t, "AVALIAÇÃO DE FORNECEDORES 2026.xlsx", DisplayName(2026))
}

func TestProgressTracker_ClampsAndNeverGoesBack(t *testing.T) {
	t.Parallel()
	var got []ProgressEvent
	p := &progressTracker{fn: func(e ProgressEvent) { got = append(got, e) }}

	p.report(40, StageDetail)
	p.report(10, StageSummary)
	p.report(150, StageDone)

	require.Len(t, got, 3)
	assert.Equal(t, 40, got[1].Percent)
	assert.Equal(t, StageSummary, got[1].Stage)
	assert.Equal(t, 100, got[2].Percent)

	var silent progressTracker
	silent.report(50, StageDetail)
}
