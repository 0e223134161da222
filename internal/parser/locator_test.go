package parser

import (
	"errors"
	"reflect"
	"testing"

	"github.com/GuilhermeSoares009/supplier-eval-system/internal/workbook"
)

var standardHeader = []any{
	"Data de Recebimento", "Fornecedor", "Nº do Pedido", "Nº da Nota Fiscal",
	"Total de Itens do Pedido", "Itens Atendidos na NF",
	"Embalagem", "Temperatura", "Prazo de Entrega", "Validade", "Atendimento",
}

func sheetOf(rows ...[]any) workbook.Sheet {
	return workbook.NewGrid("RIR", rows)
}

func TestHeuristicLocator_FindsHeaderBelowTitleBlock(t *testing.T) {
	t.Parallel()

	s := sheetOf(
		[]any{"RELATÓRIO DE INSPEÇÃO DE RECEBIMENTO"},
		[]any{"Hospital Central"},
		[]any{},
		[]any{"Emitido em", "23/01/2026"},
		standardHeader,
		[]any{"23/01/2026", "Fornecedor A", "123", "456", "10", "10", "1", "1", "1", "1", "1"},
	)

	layout, err := NewHeuristicLocator().Locate(s)
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if layout.HeaderRow != 5 {
		t.Fatalf("header row want=5 got=%d", layout.HeaderRow)
	}
	byField := layout.Columns.ByField()
	for i, f := range Fields() {
		if byField[f] != i+1 {
			t.Fatalf("field %s want col=%d got=%d", f, i+1, byField[f])
		}
	}
}

func TestHeuristicLocator_ShuffledColumns(t *testing.T) {
	t.Parallel()

	s := sheetOf(
		[]any{"Atendimento", "Validade", "Num. Pedido", "Fornecedor", "Observação", "Data Receb.",
			"NF", "Qtd Itens", "Itens entregues da nota", "Embalagem", "Temperatura Ambiente", "Prazo"},
	)

	layout, err := NewHeuristicLocator().Locate(s)
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	want := map[Field]int{
		FieldCarrier: 1, FieldValidity: 2, FieldOrderNumber: 3, FieldSupplier: 4,
		FieldReceiptDate: 6, FieldInvoiceNumber: 7, FieldTotalItems: 8, FieldItemsFulfilled: 9,
		FieldPackaging: 10, FieldTemperature: 11, FieldLeadTime: 12,
	}
	if got := layout.Columns.ByField(); !reflect.DeepEqual(got, want) {
		t.Fatalf("columns want=%v got=%v", want, got)
	}
}

func TestHeuristicLocator_SupplierOnlyIsNotAHeader(t *testing.T) {
	t.Parallel()

	s := sheetOf(
		[]any{"Fornecedor", "Embalagem", "Temperatura"},
		[]any{"Fornecedor A", "1", "1"},
	)

	_, err := NewHeuristicLocator().Locate(s)
	if !errors.Is(err, ErrHeaderNotFound) {
		t.Fatalf("want ErrHeaderNotFound got=%v", err)
	}
}

func TestHeuristicLocator_OnlyScansThirtyRows(t *testing.T) {
	t.Parallel()

	rows := make([][]any, 30)
	rows = append(rows, standardHeader)
	s := workbook.NewGrid("RIR", rows)
	if s.MaxRow() != 31 {
		t.Fatalf("fixture max row want=31 got=%d", s.MaxRow())
	}

	_, err := NewHeuristicLocator().Locate(s)
	if !errors.Is(err, ErrHeaderNotFound) {
		t.Fatalf("want ErrHeaderNotFound got=%v", err)
	}
}

func TestHeuristicLocator_ReportsEveryMissingColumn(t *testing.T) {
	t.Parallel()

	s := sheetOf(
		[]any{"Data de Recebimento", "Fornecedor", "Nº do Pedido", "NF", "Embalagem", "Temperatura"},
	)

	layout, err := NewHeuristicLocator().Locate(s)
	var missing *MissingColumnsError
	if !errors.As(err, &missing) {
		t.Fatalf("want MissingColumnsError got=%v", err)
	}
	want := []Field{FieldTotalItems, FieldItemsFulfilled, FieldLeadTime, FieldValidity, FieldCarrier}
	if !reflect.DeepEqual(missing.Fields, want) {
		t.Fatalf("missing want=%v got=%v", want, missing.Fields)
	}
	if layout.HeaderRow != 1 {
		t.Fatalf("header row want=1 got=%d", layout.HeaderRow)
	}
	if got := err.Error(); got != "colunas obrigatórias ausentes: Total de Itens do Pedido, Itens Atendidos na Nota, Prazo, Validade, Atendimento" {
		t.Fatalf("unexpected message: %s", got)
	}
}

func TestHeuristicLocator_LastDuplicateColumnWins(t *testing.T) {
	t.Parallel()

	header := append([]any{}, standardHeader...)
	header = append(header, "Fornecedor (razão social)")
	layout, err := NewHeuristicLocator().Locate(sheetOf(header))
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if got := layout.Columns.ByField()[FieldSupplier]; got != 12 {
		t.Fatalf("supplier col want=12 got=%d", got)
	}
}

func TestHeuristicLocator_HighestScoringRowWins(t *testing.T) {
	t.Parallel()

	s := sheetOf(
		[]any{"Fornecedor", "Data de Recebimento"},
		standardHeader,
	)
	layout, err := NewHeuristicLocator().Locate(s)
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if layout.HeaderRow != 2 {
		t.Fatalf("header row want=2 got=%d", layout.HeaderRow)
	}
}

func TestFixedOffsetLocator(t *testing.T) {
	t.Parallel()

	s := sheetOf(
		[]any{"RIR"}, []any{}, []any{},
		[]any{"DATA", "FORNECEDOR"},
		[]any{"23/01/2026", "Fornecedor A", "1", "2", "10", "10", "x", "1", "1", "1", "1", "1"},
	)
	layout, err := NewFixedOffsetLocator().Locate(s)
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if layout.HeaderRow != 4 || !layout.NameDateFallback || layout.Strategy != StrategyLegacy {
		t.Fatalf("unexpected layout: %+v", layout)
	}
	if got := layout.Columns.ByField()[FieldPackaging]; got != 8 {
		t.Fatalf("packaging col want=8 got=%d", got)
	}
}

func TestChainLocator(t *testing.T) {
	t.Parallel()

	legacy := sheetOf(
		[]any{"RIR"}, []any{}, []any{}, []any{"DATA", "FORNECEDOR"},
		[]any{"23/01/2026", "Fornecedor A"},
	)
	layout, err := NewLocator(StrategyAuto).Locate(legacy)
	if err != nil || layout.Strategy != StrategyLegacy {
		t.Fatalf("want legacy fallback got=%+v err=%v", layout, err)
	}

	incomplete := sheetOf([]any{"Data de Recebimento", "Fornecedor", "Nº do Pedido", "NF"}, []any{"x"}, []any{"x"}, []any{"x"}, []any{"x"})
	_, err = NewLocator(StrategyAuto).Locate(incomplete)
	var missing *MissingColumnsError
	if !errors.As(err, &missing) {
		t.Fatalf("want MissingColumnsError got=%v", err)
	}
}
