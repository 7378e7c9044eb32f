// pkg/audit/store.go
package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"enrolltrend/pkg/model"
)

// Store persists imputation operations to a file-local SQLite database so
// every cleaning decision of a run stays inspectable after the fact.
type Store struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewStore opens (or creates) the audit database and ensures the tracking
// table exists.
func NewStore(path string, logger *zap.Logger) (*Store, error) {
	if path == "" {
		return nil, errors.New("audit database path cannot be empty")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}

	store := &Store{
		db:     db,
		logger: logger,
	}

	if err := store.setupTrackingTable(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup tracking table: %w", err)
	}

	return store, nil
}

// setupTrackingTable ensures the imputed_on_ingress tracking table exists.
func (s *Store) setupTrackingTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	createTableSQL := `
		CREATE TABLE IF NOT EXISTS imputed_on_ingress (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			semester TEXT NOT NULL,
			university TEXT NOT NULL,
			column_name TEXT NOT NULL,
			original_value TEXT,
			new_value TEXT NOT NULL,
			operation TEXT NOT NULL,
			reason TEXT NOT NULL,
			recorded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create tracking table: %w", err)
	}

	s.logger.Info("Ensured imputed_on_ingress table exists")
	return nil
}

// RecordOperations batch inserts imputation operations in one transaction.
func (s *Store) RecordOperations(ctx context.Context, ops []model.ImputationOperation) error {
	if len(ops) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("Failed to rollback transaction", zap.Error(rbErr))
		}
	}()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO imputed_on_ingress
		(run_id, semester, university, column_name, original_value,
		 new_value, operation, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, op := range ops {
		_, err := stmt.ExecContext(ctx,
			op.RunID,
			op.Semester,
			op.University,
			op.ColumnName,
			op.OriginalValue,
			op.NewValue,
			op.Operation,
			op.Reason,
		)
		if err != nil {
			return fmt.Errorf("failed to insert imputation operation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true

	s.logger.Info("Recorded imputation operations", zap.Int("count", len(ops)))
	return nil
}

// CountByOperation returns how many records exist per operation type.
func (s *Store) CountByOperation(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT operation, COUNT(*) AS n
		FROM imputed_on_ingress
		GROUP BY operation
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query operation counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var operation string
		var n int
		if err := rows.Scan(&operation, &n); err != nil {
			return nil, fmt.Errorf("failed to scan operation count: %w", err)
		}
		counts[operation] = n
	}

	return counts, rows.Err()
}

// OperationsForRun returns the recorded operations of one pipeline run in
// insertion order.
func (s *Store) OperationsForRun(ctx context.Context, runID string) ([]model.ImputationOperation, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT run_id, semester, university, column_name, original_value,
		       new_value, operation, reason, recorded_at
		FROM imputed_on_ingress
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query operations: %w", err)
	}
	defer rows.Close()

	var ops []model.ImputationOperation
	for rows.Next() {
		var op model.ImputationOperation
		var recordedAt string
		if err := rows.Scan(
			&op.RunID,
			&op.Semester,
			&op.University,
			&op.ColumnName,
			&op.OriginalValue,
			&op.NewValue,
			&op.Operation,
			&op.Reason,
			&recordedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan operation: %w", err)
		}
		// SQLite stores CURRENT_TIMESTAMP as UTC text.
		if t, err := time.Parse("2006-01-02 15:04:05", recordedAt); err == nil {
			op.RecordedAt = t
		}
		ops = append(ops, op)
	}

	return ops, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
