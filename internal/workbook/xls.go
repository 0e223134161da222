package workbook

import (
	"bytes"
	"io"

	"github.com/extrame/xls"
)

func readXLS(r io.Reader) ([]Sheet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}

	var sheets []Sheet
	for i := 0; i < wb.NumSheets(); i++ {
		ws := wb.GetSheet(i)
		if ws == nil {
			continue
		}
		rows := make([][]string, int(ws.MaxRow)+1)
		for ri := 0; ri <= int(ws.MaxRow); ri++ {
			row := ws.Row(ri)
			if row == nil {
				continue
			}
			cells := make([]string, row.LastCol())
			for ci := row.FirstCol(); ci < row.LastCol(); ci++ {
				cells[ci] = row.Col(ci)
			}
			rows[ri] = cells
		}
		sheets = append(sheets, newStringGrid(ws.Name, rows))
	}
	return sheets, nil
}
