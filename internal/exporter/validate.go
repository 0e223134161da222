package exporter

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/GuilhermeSoares009/supplier-eval-system/internal/model"
)

// ErrNoRecords the requested year has nothing to export
var ErrNoRecords = errors.New("nenhum registro para o ano informado")

// ValidationError a stored record that cannot be exported as is
type ValidationError struct {
	Supplier string
	Order    string
	Invoice  string
	Date     time.Time
	Problem  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("fornecedor %s, pedido %s, NF %s, recebido em %s: %s",
		e.Supplier, e.Order, e.Invoice, e.Date.Format("02/01/2006"), e.Problem)
}

// Validate checks records before export and reports the first offending one in
// export order. It never modifies records; stale scores are a reconcile concern.
func Validate(records []model.Record) error {
	if len(records) == 0 {
		return ErrNoRecords
	}
	for _, r := range sortForExport(records) {
		if problem := recordProblem(r); problem != "" {
			return &ValidationError{
				Supplier: r.Supplier,
				Order:    r.OrderNumber,
				Invoice:  r.InvoiceNumber,
				Date:     r.ReceiptDate,
				Problem:  problem,
			}
		}
	}
	return nil
}

func recordProblem(r model.Record) string {
	if r.TotalItems < 0 || r.ItemsFulfilled < 0 {
		return "quantidade de itens negativa"
	}
	if r.ItemsFulfilled > r.TotalItems {
		return fmt.Sprintf("itens atendidos (%d) maiores que o total do pedido (%d)", r.ItemsFulfilled, r.TotalItems)
	}
	for i, c := range r.Criteria() {
		if c != 0 && c != 1 {
			return fmt.Sprintf("critério %s deve ser 0 ou 1, encontrado %d", model.CriteriaNames[i], c)
		}
	}
	return ""
}

// sortForExport copy of records ordered by receipt date, supplier, order and invoice.
func sortForExport(records []model.Record) []model.Record {
	out := make([]model.Record, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.ReceiptDate.Equal(b.ReceiptDate) {
			return a.ReceiptDate.Before(b.ReceiptDate)
		}
		if a.Supplier != b.Supplier {
			return a.Supplier < b.Supplier
		}
		if a.OrderNumber != b.OrderNumber {
			return a.OrderNumber < b.OrderNumber
		}
		return a.InvoiceNumber < b.InvoiceNumber
	})
	return out
}
