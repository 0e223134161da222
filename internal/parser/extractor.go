package parser

import (
	"strings"

	"github.com/GuilhermeSoares009/supplier-eval-system/internal/workbook"
)

// Extract reads every row below the header. Strings are trimmed and empty
// strings dropped; a row is skipped only when supplier, receipt date and order
// number are all absent, so partially filled rows still reach validation.
func Extract(sheet workbook.Sheet, layout Layout) []RawRow {
	cols := layout.Columns.ByField()
	var rows []RawRow
	for r := layout.HeaderRow + 1; r <= sheet.MaxRow(); r++ {
		values := make(map[Field]any, len(cols))
		for f, c := range cols {
			v := sheet.Cell(r, c)
			if s, ok := v.(string); ok {
				s = strings.TrimSpace(s)
				if s == "" {
					continue
				}
				v = s
			}
			if v == nil {
				continue
			}
			values[f] = v
		}
		row := RawRow{Number: r, Values: values}
		if row.Get(FieldSupplier) == nil && row.Get(FieldReceiptDate) == nil && row.Get(FieldOrderNumber) == nil {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}
