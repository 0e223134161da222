package parser

import (
	"errors"
	"sort"
	"strings"
)

// Field canonical RIR column
type Field int

const (
	FieldReceiptDate Field = iota + 1
	FieldSupplier
	FieldOrderNumber
	FieldInvoiceNumber
	FieldTotalItems
	FieldItemsFulfilled
	FieldPackaging
	FieldTemperature
	FieldLeadTime
	FieldValidity
	FieldCarrier
	// FieldPoints optional score column printed by the sheet itself; never required.
	FieldPoints
)

var fieldInfo = map[Field]struct{ key, label string }{
	FieldReceiptDate:    {"data_recebimento", "Data de Recebimento"},
	FieldSupplier:       {"fornecedor", "Fornecedor"},
	FieldOrderNumber:    {"numero_pedido", "Nº do Pedido"},
	FieldInvoiceNumber:  {"numero_nota_fiscal", "Nº da Nota Fiscal"},
	FieldTotalItems:     {"total_itens_pedido", "Total de Itens do Pedido"},
	FieldItemsFulfilled: {"itens_atendidos_nota", "Itens Atendidos na Nota"},
	FieldPackaging:      {"embalagem", "Embalagem"},
	FieldTemperature:    {"temperatura", "Temperatura"},
	FieldLeadTime:       {"prazo", "Prazo"},
	FieldValidity:       {"validade", "Validade"},
	FieldCarrier:        {"atendimento", "Atendimento"},
	FieldPoints:         {"pontos", "Pontos"},
}

// Fields every required field in column order of the reference layout
func Fields() []Field {
	return []Field{
		FieldReceiptDate, FieldSupplier, FieldOrderNumber, FieldInvoiceNumber,
		FieldTotalItems, FieldItemsFulfilled,
		FieldPackaging, FieldTemperature, FieldLeadTime, FieldValidity, FieldCarrier,
	}
}

// CriteriaFields binary criteria in record order
func CriteriaFields() [5]Field {
	return [5]Field{FieldPackaging, FieldTemperature, FieldLeadTime, FieldValidity, FieldCarrier}
}

func (f Field) Key() string   { return fieldInfo[f].key }
func (f Field) Label() string { return fieldInfo[f].label }
func (f Field) String() string {
	return f.Key()
}

// ColumnMap column index (1-based) to field
type ColumnMap map[int]Field

// ByField resolves each field to a column. When several columns carry the same
// field the right-most one wins.
func (m ColumnMap) ByField() map[Field]int {
	cols := make([]int, 0, len(m))
	for c := range m {
		cols = append(cols, c)
	}
	sort.Ints(cols)
	out := make(map[Field]int, len(m))
	for _, c := range cols {
		out[m[c]] = c
	}
	return out
}

// Keys field keys by column, as persisted in sheets_meta
func (m ColumnMap) Keys() map[int]string {
	out := make(map[int]string, len(m))
	for c, f := range m {
		out[c] = f.Key()
	}
	return out
}

// Layout where the header sits and how columns map to fields
type Layout struct {
	Strategy  string
	HeaderRow int
	Columns   ColumnMap
	// NameDateFallback lets rows with an unreadable date borrow the month
	// encoded in the sheet or file name.
	NameDateFallback bool
}

// RawRow one data row with trimmed values keyed by field; absent cells are omitted.
type RawRow struct {
	Number int
	Values map[Field]any
}

// Get returns nil when the field is absent.
func (r RawRow) Get(f Field) any {
	return r.Values[f]
}

// ErrHeaderNotFound no candidate row reached the minimum header score
var ErrHeaderNotFound = errors.New("cabeçalho não encontrado")

// MissingColumnsError header located but some required fields were not recognized
type MissingColumnsError struct {
	Sheet  string
	Fields []Field
}

func (e *MissingColumnsError) Error() string {
	return "colunas obrigatórias ausentes: " + strings.Join(e.Labels(), ", ")
}

// Labels display labels of every missing field
func (e *MissingColumnsError) Labels() []string {
	out := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		out[i] = f.Label()
	}
	return out
}
