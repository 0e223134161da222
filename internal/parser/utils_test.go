package parser

import (
	"testing"
	"time"
)

func TestMonthFromName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		file, sheet string
		want        string
	}{
		{"RIR - JAN 25.csv", "Planilha1", "2025-01-01"},
		{"RIR 2026.xlsx", "FEV", "2026-02-01"},
		{"RIR_2025_FINAL.xlsx", "Janeiro", "2025-01-01"},
		{"Relatorio.xlsx", "MAR 25", "2025-03-01"},
		{"Relatorio.xlsx", "Março/2024", "2024-03-01"},
		{"Arquivo Sem Data.csv", "Sheet1", ""},
	}
	for _, tc := range cases {
		got, ok := MonthFromName(tc.file, tc.sheet)
		if tc.want == "" {
			if ok {
				t.Fatalf("MonthFromName(%q, %q) want none got=%v", tc.file, tc.sheet, got)
			}
			continue
		}
		if !ok || got.Format(time.DateOnly) != tc.want {
			t.Fatalf("MonthFromName(%q, %q) want=%s got=%v ok=%v", tc.file, tc.sheet, tc.want, got, ok)
		}
	}
}
