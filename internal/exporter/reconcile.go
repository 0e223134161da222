package exporter

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/GuilhermeSoares009/supplier-eval-system/internal/calculator"
	"github.com/GuilhermeSoares009/supplier-eval-system/internal/model"
	"github.com/GuilhermeSoares009/supplier-eval-system/internal/store"
)

// ReconcileChange one record whose derived fields were rewritten
type ReconcileChange struct {
	ID       int64             `json:"id"`
	Supplier string            `json:"fornecedor"`
	Order    string            `json:"numeroPedido"`
	Invoice  string            `json:"numeroNotaFiscal"`
	Date     string            `json:"dataRecebimento"`
	Before   calculator.Result `json:"antes"`
	After    calculator.Result `json:"depois"`
}

// ReconcileReport outcome of one reconcile run
type ReconcileReport struct {
	Year     int               `json:"ano"`
	Checked  int               `json:"verificados"`
	Repaired int               `json:"corrigidos"`
	Changes  []ReconcileChange `json:"alteracoes"`
}

// Reconciler recomputes accuracy, score and tier of stored records.
type Reconciler struct {
	store  *store.Store
	logger *zap.Logger
}

// NewReconciler creates a reconciler
func NewReconciler(st *store.Store, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{store: st, logger: logger}
}

// Reconcile rewrites the derived fields of every record of year that no longer
// matches a fresh evaluation. All repairs share one transaction and each is
// logged with its old and new values.
func (r *Reconciler) Reconcile(ctx context.Context, year int) (ReconcileReport, error) {
	report := ReconcileReport{Year: year, Changes: []ReconcileChange{}}

	records, err := r.store.ListRecordsByYear(ctx, year)
	if err != nil {
		return report, fmt.Errorf("listar registros de %d: %w", year, err)
	}
	report.Checked = len(records)

	var stale []ReconcileChange
	for _, rec := range records {
		fresh, isStale := calculator.Stale(rec)
		if !isStale {
			continue
		}
		stale = append(stale, ReconcileChange{
			ID:       rec.ID,
			Supplier: rec.Supplier,
			Order:    rec.OrderNumber,
			Invoice:  rec.InvoiceNumber,
			Date:     rec.ReceiptDate.Format("2006-01-02"),
			Before:   calculator.Result{Accuracy: rec.Accuracy, Score: rec.Score, Tier: rec.Tier},
			After:    fresh,
		})
	}
	if len(stale) == 0 {
		r.logger.Info("reconcile: nothing to repair", zap.Int("year", year), zap.Int("checked", report.Checked))
		return report, nil
	}

	err = r.store.InTx(ctx, func(tx *store.Tx) error {
		for _, c := range stale {
			if err := tx.UpdateDerived(ctx, c.ID, c.After.Accuracy, c.After.Score, c.After.Tier); err != nil {
				return fmt.Errorf("atualizar registro %d: %w", c.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return report, err
	}

	for _, c := range stale {
		r.logger.Info("reconcile: record repaired",
			zap.Int64("id", c.ID),
			zap.String("supplier", c.Supplier),
			zap.String("order", c.Order),
			zap.String("invoice", c.Invoice),
			zap.String("date", c.Date),
			zap.Float64("score_before", c.Before.Score),
			zap.Float64("score_after", c.After.Score),
			zap.Stringer("tier_before", c.Before.Tier),
			zap.Stringer("tier_after", c.After.Tier),
		)
	}
	report.Repaired = len(stale)
	report.Changes = stale
	return report, nil
}

// staleCount records of the slice whose derived fields disagree with a fresh evaluation.
func staleCount(records []model.Record) int {
	n := 0
	for _, rec := range records {
		if _, ok := calculator.Stale(rec); ok {
			n++
		}
	}
	return n
}
