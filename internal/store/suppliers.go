package store

import (
	"context"
	"fmt"

	"github.com/GuilhermeSoares009/supplier-eval-system/internal/model"
)

// GetOrCreateSupplier returns the id of the supplier named name, inserting it
// when absent. A single statement against the unique name, so concurrent
// imports of the same name resolve to the same row.
func (t *Tx) GetOrCreateSupplier(ctx context.Context, name string) (int64, error) {
	var id int64
	err := t.tx.QueryRowContext(ctx, `
		INSERT INTO fornecedores (nome) VALUES (?)
		ON CONFLICT (nome) DO UPDATE SET nome = excluded.nome
		RETURNING id
	`, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("get or create supplier %q: %w", name, err)
	}
	return id, nil
}

// ListSuppliers all suppliers by name
func (s *Store) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, nome FROM fornecedores ORDER BY nome`)
	if err != nil {
		return nil, fmt.Errorf("query suppliers failed: %w", err)
	}
	defer rows.Close()

	var out []model.Supplier
	for rows.Next() {
		var it model.Supplier
		if err := rows.Scan(&it.ID, &it.Name); err != nil {
			return nil, fmt.Errorf("scan supplier failed: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// CountSuppliers number of suppliers
func (s *Store) CountSuppliers(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM fornecedores`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count suppliers failed: %w", err)
	}
	return n, nil
}

// ListAliases all aliases ordered by alias
func (s *Store) ListAliases(ctx context.Context) ([]model.Alias, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT alias, fornecedor_nome FROM fornecedor_aliases ORDER BY alias`)
	if err != nil {
		return nil, fmt.Errorf("query aliases failed: %w", err)
	}
	defer rows.Close()

	var out []model.Alias
	for rows.Next() {
		var it model.Alias
		if err := rows.Scan(&it.Alias, &it.Canonical); err != nil {
			return nil, fmt.Errorf("scan alias failed: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// UpsertAlias creates or repoints an alias. Both sides are expected normalized.
func (s *Store) UpsertAlias(ctx context.Context, a model.Alias) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fornecedor_aliases (alias, fornecedor_nome) VALUES (?, ?)
		ON CONFLICT (alias) DO UPDATE SET fornecedor_nome = excluded.fornecedor_nome
	`, a.Alias, a.Canonical)
	if err != nil {
		return fmt.Errorf("upsert alias %q: %w", a.Alias, err)
	}
	return nil
}

// DeleteAlias removes an alias; deleting a missing alias is not an error.
func (s *Store) DeleteAlias(ctx context.Context, alias string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM fornecedor_aliases WHERE alias = ?`, alias); err != nil {
		return fmt.Errorf("delete alias %q: %w", alias, err)
	}
	return nil
}
