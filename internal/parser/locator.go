package parser

import (
	"errors"

	"github.com/GuilhermeSoares009/supplier-eval-system/internal/workbook"
)

// Locator finds the header row of a sheet and maps its columns.
type Locator interface {
	Name() string
	Locate(sheet workbook.Sheet) (Layout, error)
}

const (
	StrategyHeuristic = "heuristic"
	StrategyLegacy    = "legacy"
	StrategyAuto      = "auto"
)

// NewLocator builds the locator named in configuration. Unknown names fall back to heuristic.
func NewLocator(strategy string) Locator {
	switch strategy {
	case StrategyLegacy:
		return NewFixedOffsetLocator()
	case StrategyAuto:
		return ChainLocator{NewHeuristicLocator(), NewFixedOffsetLocator()}
	default:
		return NewHeuristicLocator()
	}
}

// Header row weights. Only these four fields select the header row.
var rowWeights = map[Field]int{
	FieldReceiptDate:   2,
	FieldSupplier:      2,
	FieldOrderNumber:   1,
	FieldInvoiceNumber: 1,
}

// HeuristicLocator scores the top rows of a sheet and keeps the best one.
type HeuristicLocator struct {
	Matcher     Matcher
	MaxScanRows int
	MinScore    int
}

// NewHeuristicLocator 30 scanned rows, minimum score 4
func NewHeuristicLocator() *HeuristicLocator {
	return &HeuristicLocator{
		Matcher:     NewWordSetMatcher(),
		MaxScanRows: 30,
		MinScore:    4,
	}
}

func (l *HeuristicLocator) Name() string { return StrategyHeuristic }

// Locate returns ErrHeaderNotFound when no row reaches MinScore and a
// *MissingColumnsError naming every unrecognized field otherwise.
func (l *HeuristicLocator) Locate(sheet workbook.Sheet) (Layout, error) {
	last := sheet.MaxRow()
	if last > l.MaxScanRows {
		last = l.MaxScanRows
	}

	bestRow, bestScore := 0, 0
	for row := 1; row <= last; row++ {
		score := l.scoreRow(sheet, row)
		if score > bestScore {
			bestRow, bestScore = row, score
		}
	}
	if bestRow == 0 || bestScore < l.MinScore {
		return Layout{}, ErrHeaderNotFound
	}

	columns := ColumnMap{}
	for col := 1; col <= sheet.MaxCol(); col++ {
		label, ok := headerLabel(sheet.Cell(bestRow, col))
		if !ok {
			continue
		}
		if f, ok := l.Matcher.Match(label); ok {
			columns[col] = f
		}
	}

	layout := Layout{Strategy: l.Name(), HeaderRow: bestRow, Columns: columns}
	if err := checkRequired(sheet.Name(), columns); err != nil {
		return layout, err
	}
	return layout, nil
}

func (l *HeuristicLocator) scoreRow(sheet workbook.Sheet, row int) int {
	score := 0
	for col := 1; col <= sheet.MaxCol(); col++ {
		label, ok := headerLabel(sheet.Cell(row, col))
		if !ok {
			continue
		}
		if f, ok := l.Matcher.Match(label); ok {
			score += rowWeights[f]
		}
	}
	return score
}

// headerLabel only text cells can be labels.
func headerLabel(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok && s != ""
}

func checkRequired(sheetName string, columns ColumnMap) error {
	present := columns.ByField()
	var missing []Field
	for _, f := range Fields() {
		if _, ok := present[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnsError{Sheet: sheetName, Fields: missing}
	}
	return nil
}

// FixedOffsetLocator layout of the first RIR revision: header on row 4, data
// from row 5, fixed columns.
type FixedOffsetLocator struct {
	HeaderRow int
	Columns   ColumnMap
}

// NewFixedOffsetLocator columns A-F identify the delivery, G is unused, H-L are
// the criteria and M the sheet's own score.
func NewFixedOffsetLocator() *FixedOffsetLocator {
	return &FixedOffsetLocator{
		HeaderRow: 4,
		Columns: ColumnMap{
			1:  FieldReceiptDate,
			2:  FieldSupplier,
			3:  FieldOrderNumber,
			4:  FieldInvoiceNumber,
			5:  FieldTotalItems,
			6:  FieldItemsFulfilled,
			8:  FieldPackaging,
			9:  FieldTemperature,
			10: FieldLeadTime,
			11: FieldValidity,
			12: FieldCarrier,
			13: FieldPoints,
		},
	}
}

func (l *FixedOffsetLocator) Name() string { return StrategyLegacy }

// Locate accepts any sheet with rows past the header and at least as many columns as the layout.
func (l *FixedOffsetLocator) Locate(sheet workbook.Sheet) (Layout, error) {
	if sheet.MaxRow() <= l.HeaderRow || sheet.MaxCol() < 2 {
		return Layout{}, ErrHeaderNotFound
	}
	columns := make(ColumnMap, len(l.Columns))
	for c, f := range l.Columns {
		columns[c] = f
	}
	return Layout{
		Strategy:         l.Name(),
		HeaderRow:        l.HeaderRow,
		Columns:          columns,
		NameDateFallback: true,
	}, nil
}

// ChainLocator tries each locator in turn. Only a missing header moves on to
// the next locator; a header with missing columns is returned as is.
type ChainLocator []Locator

func (c ChainLocator) Name() string { return StrategyAuto }

func (c ChainLocator) Locate(sheet workbook.Sheet) (Layout, error) {
	for _, l := range c {
		layout, err := l.Locate(sheet)
		if err == nil || !errors.Is(err, ErrHeaderNotFound) {
			return layout, err
		}
	}
	return Layout{}, ErrHeaderNotFound
}
