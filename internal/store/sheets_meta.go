package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/GuilhermeSoares009/supplier-eval-system/internal/model"
)

// InsertSheetMeta stores how one sheet of a batch was read.
func (s *Store) InsertSheetMeta(ctx context.Context, meta model.SheetMeta) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sheets_meta (
			import_log_id, source_file, sheet_name,
			strategy, header_row,
			total_rows, imported_rows, ignored_rows,
			column_mapping_json,
			status, error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		meta.ImportLogID, meta.SourceFile, meta.SheetName,
		meta.Strategy, meta.HeaderRow,
		meta.TotalRows, meta.ImportedRows, meta.IgnoredRows,
		meta.ColumnMappingJSON,
		meta.Status, meta.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to insert sheets_meta: %w", err)
	}
	return nil
}

// ListSheetMeta sheets read by one batch
func (s *Store) ListSheetMeta(ctx context.Context, importLogID int64) ([]model.SheetMeta, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, import_log_id, source_file, sheet_name, strategy, header_row,
			total_rows, imported_rows, ignored_rows, column_mapping_json, status, error_message, created_at
		FROM sheets_meta WHERE import_log_id = ? ORDER BY id
	`, importLogID)
	if err != nil {
		return nil, fmt.Errorf("query sheets_meta failed: %w", err)
	}
	defer rows.Close()

	var out []model.SheetMeta
	for rows.Next() {
		var m model.SheetMeta
		if err := rows.Scan(&m.ID, &m.ImportLogID, &m.SourceFile, &m.SheetName, &m.Strategy, &m.HeaderRow,
			&m.TotalRows, &m.ImportedRows, &m.IgnoredRows, &m.ColumnMappingJSON, &m.Status, &m.ErrorMessage, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sheets_meta failed: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// BuildColumnMappingJSON serializes a column -> field key map, "{}" on failure.
func BuildColumnMappingJSON(mapping map[int]string) string {
	b, err := json.Marshal(mapping)
	if err != nil {
		return "{}"
	}
	return string(b)
}
