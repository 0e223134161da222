package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/GuilhermeSoares009/supplier-eval-system/internal/model"
)

const dateLayout = "2006-01-02"

// UpsertRecord inserts r or, when its (supplier, order, invoice, receipt date)
// key already exists, overwrites the stored values. One statement; created
// reports whether a new row was inserted.
func (t *Tx) UpsertRecord(ctx context.Context, r model.Record) (id int64, created bool, err error) {
	var revision int
	err = t.tx.QueryRowContext(ctx, `
		INSERT INTO registros_rir (
			fornecedor_id, numero_pedido, numero_nota_fiscal,
			total_itens_pedido, itens_atendidos_nota,
			criterio_embalagem, criterio_temperatura, criterio_prazo, criterio_validade, criterio_atendimento,
			acuracidade, nota_total, classificacao,
			data_recebimento, mes_referencia
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (fornecedor_id, numero_pedido, numero_nota_fiscal, data_recebimento) DO UPDATE SET
			total_itens_pedido   = excluded.total_itens_pedido,
			itens_atendidos_nota = excluded.itens_atendidos_nota,
			criterio_embalagem   = excluded.criterio_embalagem,
			criterio_temperatura = excluded.criterio_temperatura,
			criterio_prazo       = excluded.criterio_prazo,
			criterio_validade    = excluded.criterio_validade,
			criterio_atendimento = excluded.criterio_atendimento,
			acuracidade          = excluded.acuracidade,
			nota_total           = excluded.nota_total,
			classificacao        = excluded.classificacao,
			mes_referencia       = excluded.mes_referencia,
			revisao              = registros_rir.revisao + 1,
			updated_at           = CURRENT_TIMESTAMP
		RETURNING id, revisao
	`,
		r.SupplierID, r.OrderNumber, r.InvoiceNumber,
		r.TotalItems, r.ItemsFulfilled,
		r.Packaging, r.Temperature, r.LeadTime, r.Validity, r.Carrier,
		r.Accuracy, r.Score, r.Tier,
		r.ReceiptDate.Format(dateLayout), r.ReferenceMonth,
	).Scan(&id, &revision)
	if err != nil {
		return 0, false, fmt.Errorf("upsert record: %w", err)
	}
	return id, revision == 1, nil
}

// UpdateDerived overwrites accuracy, score and tier of one record.
func (t *Tx) UpdateDerived(ctx context.Context, id int64, accuracy, score float64, tier model.Tier) error {
	_, err := t.tx.ExecContext(ctx, `
		UPDATE registros_rir SET acuracidade = ?, nota_total = ?, classificacao = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, accuracy, score, tier, id)
	if err != nil {
		return fmt.Errorf("update record %d: %w", id, err)
	}
	return nil
}

const recordColumns = `
	r.id, r.fornecedor_id, f.nome, r.numero_pedido, r.numero_nota_fiscal,
	r.total_itens_pedido, r.itens_atendidos_nota,
	r.criterio_embalagem, r.criterio_temperatura, r.criterio_prazo, r.criterio_validade, r.criterio_atendimento,
	r.acuracidade, r.nota_total, r.classificacao, r.data_recebimento, r.mes_referencia`

// ListRecordsByMonth records of one reference month, by receipt date then supplier
func (s *Store) ListRecordsByMonth(ctx context.Context, month string) ([]model.Record, error) {
	return s.queryRecords(ctx, `
		SELECT `+recordColumns+`
		FROM registros_rir r JOIN fornecedores f ON f.id = r.fornecedor_id
		WHERE r.mes_referencia = ?
		ORDER BY r.data_recebimento, f.nome, r.id
	`, month)
}

// ListRecordsByYear records received in year, by receipt date then supplier
func (s *Store) ListRecordsByYear(ctx context.Context, year int) ([]model.Record, error) {
	return s.queryRecords(ctx, `
		SELECT `+recordColumns+`
		FROM registros_rir r JOIN fornecedores f ON f.id = r.fornecedor_id
		WHERE r.mes_referencia BETWEEN ? AND ?
		ORDER BY r.data_recebimento, f.nome, r.id
	`, fmt.Sprintf("%04d-01", year), fmt.Sprintf("%04d-12", year))
}

func (s *Store) queryRecords(ctx context.Context, query string, args ...any) ([]model.Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records failed: %w", err)
	}
	defer rows.Close()

	var out []model.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records failed: %w", err)
	}
	return out, nil
}

func scanRecord(rows *sql.Rows) (model.Record, error) {
	var (
		r    model.Record
		date string
	)
	err := rows.Scan(
		&r.ID, &r.SupplierID, &r.Supplier, &r.OrderNumber, &r.InvoiceNumber,
		&r.TotalItems, &r.ItemsFulfilled,
		&r.Packaging, &r.Temperature, &r.LeadTime, &r.Validity, &r.Carrier,
		&r.Accuracy, &r.Score, &r.Tier, &date, &r.ReferenceMonth,
	)
	if err != nil {
		return r, fmt.Errorf("scan record failed: %w", err)
	}
	r.ReceiptDate, err = time.Parse(dateLayout, date)
	if err != nil {
		return r, fmt.Errorf("record %d: bad receipt date %q: %w", r.ID, date, err)
	}
	return r, nil
}

// CountRecords number of stored records
func (s *Store) CountRecords(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM registros_rir`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count records failed: %w", err)
	}
	return n, nil
}
