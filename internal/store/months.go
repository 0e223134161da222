package store

import (
	"context"
	"fmt"
)

// MonthStat records per reference month
type MonthStat struct {
	Month     string `json:"mes"`
	Records   int    `json:"registros"`
	Suppliers int    `json:"fornecedores"`
}

// ListMonthStats reference months present in the data, ascending
func (s *Store) ListMonthStats(ctx context.Context) ([]MonthStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT mes_referencia, COUNT(1), COUNT(DISTINCT fornecedor_id)
		FROM registros_rir
		GROUP BY mes_referencia
		ORDER BY mes_referencia
	`)
	if err != nil {
		return nil, fmt.Errorf("query available months failed: %w", err)
	}
	defer rows.Close()

	var out []MonthStat
	for rows.Next() {
		var it MonthStat
		if err := rows.Scan(&it.Month, &it.Records, &it.Suppliers); err != nil {
			return nil, fmt.Errorf("scan available months failed: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate available months failed: %w", err)
	}
	return out, nil
}

// ListMonths distinct reference months, ascending
func (s *Store) ListMonths(ctx context.Context) ([]string, error) {
	stats, err := s.ListMonthStats(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(stats))
	for i, st := range stats {
		out[i] = st.Month
	}
	return out, nil
}
