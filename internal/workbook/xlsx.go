package workbook

import (
	"io"

	"github.com/xuri/excelize/v2"
)

// readXLSX keeps raw cell values so date cells surface as serial numbers
// instead of locale formatted text.
func readXLSX(r io.Reader) ([]Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var sheets []Sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, newStringGrid(name, rows))
	}
	return sheets, nil
}
