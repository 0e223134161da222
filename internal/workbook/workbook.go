// Package workbook reads xlsx, xls and csv uploads into a uniform row/cell grid.
package workbook

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat returned for file extensions no reader handles
var ErrUnsupportedFormat = errors.New("formato de arquivo não suportado")

// Sheet read-only view over one worksheet. Rows and columns are 1-based.
type Sheet interface {
	Name() string
	// MaxRow last populated row
	MaxRow() int
	// MaxCol highest populated column across all rows
	MaxCol() int
	// Cell returns nil for empty cells
	Cell(row, col int) any
}

// Workbook a parsed upload
type Workbook struct {
	FileName string
	Sheets   []Sheet
}

// Open parses r according to the extension of name.
func Open(name string, r io.Reader) (*Workbook, error) {
	var (
		sheets []Sheet
		err    error
	)
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".xlsx", ".xlsm":
		sheets, err = readXLSX(r)
	case ".xls":
		sheets, err = readXLS(r)
	case ".csv", ".txt":
		sheets, err = readCSV(name, r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return &Workbook{FileName: name, Sheets: sheets}, nil
}

// Supported reports whether Open understands the file extension.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xls", ".csv", ".txt":
		return true
	}
	return false
}

// Grid in-memory Sheet backed by a slice of rows.
type Grid struct {
	name   string
	rows   [][]any
	maxCol int
}

// NewGrid builds a Sheet from rows of cells; string cells are cleaned the same way
// every reader cleans them.
func NewGrid(name string, rows [][]any) *Grid {
	g := &Grid{name: name, rows: make([][]any, len(rows))}
	for i, row := range rows {
		out := make([]any, len(row))
		for j, v := range row {
			out[j] = cleanCell(v)
		}
		g.rows[i] = out
	}
	g.trim()
	return g
}

func newStringGrid(name string, rows [][]string) *Grid {
	cells := make([][]any, len(rows))
	for i, row := range rows {
		cells[i] = make([]any, len(row))
		for j, v := range row {
			cells[i][j] = v
		}
	}
	return NewGrid(name, cells)
}

// trim drops trailing empty rows and records the widest populated column.
func (g *Grid) trim() {
	last := 0
	for i, row := range g.rows {
		width := 0
		for j, v := range row {
			if v != nil {
				width = j + 1
			}
		}
		if width > 0 {
			last = i + 1
		}
		if width > g.maxCol {
			g.maxCol = width
		}
	}
	g.rows = g.rows[:last]
}

func (g *Grid) Name() string { return g.name }
func (g *Grid) MaxRow() int  { return len(g.rows) }
func (g *Grid) MaxCol() int  { return g.maxCol }

func (g *Grid) Cell(row, col int) any {
	if row < 1 || row > len(g.rows) {
		return nil
	}
	r := g.rows[row-1]
	if col < 1 || col > len(r) {
		return nil
	}
	return r[col-1]
}

var cellReplacer = strings.NewReplacer("\u00a0", " ", "\u200b", "", "\ufeff", "")

// Spreadsheet error literals are treated as empty cells.
var errorLiterals = map[string]struct{}{
	"#REF!": {}, "#DIV/0!": {}, "#N/A": {}, "#VALUE!": {},
	"#NAME?": {}, "#NUM!": {}, "#NULL!": {}, "#SPILL!": {}, "#CALC!": {},
}

func cleanCell(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	s = strings.TrimSpace(cellReplacer.Replace(s))
	if s == "" {
		return nil
	}
	if _, isErr := errorLiterals[strings.ToUpper(s)]; isErr {
		return nil
	}
	return s
}
