package parser

import (
	"testing"
)

func TestExtract_SkipsOnlyRowsWithoutIdentity(t *testing.T) {
	t.Parallel()

	s := sheetOf(
		standardHeader,
		[]any{"23/01/2026", "  Fornecedor A ", "123", "456", "10", "10", "1", "1", "1", "1", "1"},
		[]any{"", "", "", "456", "10"},
		[]any{"24/01/2026", "", "", "", "10"},
		[]any{"", "   ", "", "", "", "", "1"},
		[]any{nil, nil, "789"},
	)
	layout, err := NewHeuristicLocator().Locate(s)
	if err != nil {
		t.Fatalf("locate: %v", err)
	}

	rows := Extract(s, layout)
	if len(rows) != 3 {
		t.Fatalf("rows want=3 got=%d (%+v)", len(rows), rows)
	}
	if rows[0].Number != 2 || rows[1].Number != 4 || rows[2].Number != 6 {
		t.Fatalf("unexpected row numbers: %d %d %d", rows[0].Number, rows[1].Number, rows[2].Number)
	}
	if got := rows[0].Get(FieldSupplier); got != "Fornecedor A" {
		t.Fatalf("supplier want trimmed got=%#v", got)
	}
	if rows[1].Get(FieldSupplier) != nil {
		t.Fatalf("empty supplier must be absent")
	}
	if rows[2].Get(FieldOrderNumber) != "789" {
		t.Fatalf("order want=789 got=%#v", rows[2].Get(FieldOrderNumber))
	}
}
