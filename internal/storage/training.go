package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/spendlens/spendlens/internal/common"
	"github.com/spendlens/spendlens/internal/model"
)

// SaveTrainingRows inserts labeled training rows, skipping rows whose hash
// already exists so repeated imports stay idempotent.
func (s *SQLiteStorage) SaveTrainingRows(ctx context.Context, rows []model.LabeledTransaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("%w: rows", ErrEmptySlice)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO training_rows (hash, merchant, description, amount, date, category)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	inserted := 0
	for i := range rows {
		row := &rows[i]
		if row.Hash == "" {
			row.Hash = row.GenerateHash()
		}

		var date any
		if row.HasDate() {
			date = row.Date
		}

		res, err := stmt.ExecContext(ctx, row.Hash, row.Merchant, row.Description, row.Amount, date, row.Category)
		if err != nil {
			return fmt.Errorf("failed to insert training row %d: %w", i, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit training rows: %w", err)
	}

	common.LogInfo("saved training rows", common.Fields{"total": len(rows), "inserted": inserted})
	return nil
}

// GetTrainingRows returns all labeled training rows, oldest first.
func (s *SQLiteStorage) GetTrainingRows(ctx context.Context) ([]model.LabeledTransaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, hash, merchant, description, amount, date, category
		FROM training_rows
		ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query training rows: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []model.LabeledTransaction
	for rows.Next() {
		var row model.LabeledTransaction
		var id int64
		var date sql.NullTime
		if err := rows.Scan(&id, &row.Hash, &row.Merchant, &row.Description, &row.Amount, &date, &row.Category); err != nil {
			return nil, fmt.Errorf("failed to scan training row: %w", err)
		}
		row.ID = fmt.Sprintf("%d", id)
		if date.Valid {
			row.Date = date.Time
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating training rows: %w", err)
	}
	return result, nil
}

// CountTrainingRows returns the number of labeled rows in the store.
func (s *SQLiteStorage) CountTrainingRows(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM training_rows`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count training rows: %w", err)
	}
	return count, nil
}

// GetCategories returns the distinct categories present in the training
// store, with their row counts.
func (s *SQLiteStorage) GetCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT category, COUNT(*), MIN(created_at)
		FROM training_rows
		GROUP BY category
		ORDER BY category`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var categories []model.Category
	id := 0
	for rows.Next() {
		var cat model.Category
		var createdAt time.Time
		if err := rows.Scan(&cat.Name, &cat.RowCount, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		id++
		cat.ID = id
		cat.CreatedAt = createdAt
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	common.LogDebug("retrieved categories", common.Fields{"count": len(categories)})
	return categories, nil
}
