package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/GuilhermeSoares009/supplier-eval-system/internal/model"
)

// CreateImportLog opens a log entry for a batch, returning its id.
func (s *Store) CreateImportLog(ctx context.Context, batchID, files string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO import_logs (batch_id, files, status) VALUES (?, ?, 'processing')
	`, batchID, files)
	if err != nil {
		return 0, fmt.Errorf("failed to create import log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get import log id: %w", err)
	}
	return id, nil
}

// FinishImportLog records the outcome of a batch.
func (s *Store) FinishImportLog(ctx context.Context, id int64, result model.ImportResult, status, errorMessage string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE import_logs SET
			imported = ?,
			updated = ?,
			ignored = ?,
			status = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, result.Imported, result.Updated, result.Ignored, status, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to update import log: %w", err)
	}
	return nil
}

// LatestImportLog most recent batch, nil when nothing was imported yet.
func (s *Store) LatestImportLog(ctx context.Context) (*model.ImportLog, error) {
	var (
		it        model.ImportLog
		completed sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, batch_id, files, imported, updated, ignored, status, error_message, started_at, completed_at
		FROM import_logs ORDER BY id DESC LIMIT 1
	`).Scan(&it.ID, &it.BatchID, &it.Files, &it.Imported, &it.Updated, &it.Ignored,
		&it.Status, &it.ErrorMessage, &it.StartedAt, &completed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest import log failed: %w", err)
	}
	if completed.Valid {
		it.CompletedAt = &completed.Time
	}
	return &it, nil
}
