package parser

import (
	"testing"

	"github.com/GuilhermeSoares009/supplier-eval-system/internal/model"
)

func TestParseSummaryReport_ManualLayout(t *testing.T) {
	t.Parallel()

	s := sheetOf(
		[]any{"JANEIRO", nil, nil, nil, nil, "FEVEREIRO"},
		[]any{"FORNECEDOR", "ÓTIMO 90 A 100", "BOM 70 A 90", "REGULAR 50 A 70", nil, "FORNECEDOR", "ÓTIMO 90 A 100", "BOM 70 A 90", "REGULAR 50 A 70"},
		[]any{"ACME", "1", "2", "0", nil, "BETA", "3", "0", "1"},
		[]any{"ACME", "1", nil, nil},
	)

	report, err := ParseSummaryReport(s, ManualSummaryLayout)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := report.Index["01"]["ACME"]; got != (model.TierCounts{Otimo: 2, Bom: 2}) {
		t.Fatalf("ACME january unexpected: %+v", got)
	}
	if got := report.Index["02"]["BETA"]; got != (model.TierCounts{Otimo: 3, Regular: 1}) {
		t.Fatalf("BETA february unexpected: %+v", got)
	}
	if len(report.Order["01"]) != 1 {
		t.Fatalf("repeated supplier must be merged: %v", report.Order["01"])
	}
}

func TestParseSummaryReport_NoMonths(t *testing.T) {
	t.Parallel()

	if _, err := ParseSummaryReport(sheetOf([]any{"ACME", "1"}), ManualSummaryLayout); err == nil {
		t.Fatalf("want error for sheet without month titles")
	}
}
