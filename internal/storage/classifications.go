package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/spendlens/spendlens/internal/model"
	"github.com/spendlens/spendlens/internal/service"
)

// SaveClassification appends one prediction to the audit log.
func (s *SQLiteStorage) SaveClassification(ctx context.Context, classification *model.Classification) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if classification == nil {
		return fmt.Errorf("%w: classification", ErrNilParameter)
	}
	if classification.Category == "" {
		return fmt.Errorf("%w: classification.Category", ErrEmptyString)
	}

	classifiedAt := classification.ClassifiedAt
	if classifiedAt.IsZero() {
		classifiedAt = time.Now().UTC()
	}

	var date any
	if classification.Transaction.HasDate() {
		date = classification.Transaction.Date
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO classifications (merchant, description, amount, date, category, status, confidence, classified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		classification.Transaction.Merchant,
		classification.Transaction.Description,
		classification.Transaction.Amount,
		date,
		classification.Category,
		string(classification.Status),
		classification.Confidence,
		classifiedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save classification: %w", err)
	}
	return nil
}

// GetClassifications returns logged predictions matching the filter,
// newest first.
func (s *SQLiteStorage) GetClassifications(ctx context.Context, filter service.ClassificationFilter) ([]model.Classification, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, ErrInvalidDateRange
	}

	var conditions []string
	var args []any
	if filter.StartDate != nil {
		conditions = append(conditions, "classified_at >= ?")
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		conditions = append(conditions, "classified_at <= ?")
		args = append(args, *filter.EndDate)
	}

	query := `
		SELECT merchant, description, amount, date, category, status, confidence, classified_at
		FROM classifications`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY classified_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query classifications: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []model.Classification
	for rows.Next() {
		var c model.Classification
		var status string
		var date sql.NullTime
		if err := rows.Scan(
			&c.Transaction.Merchant,
			&c.Transaction.Description,
			&c.Transaction.Amount,
			&date,
			&c.Category,
			&status,
			&c.Confidence,
			&c.ClassifiedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan classification: %w", err)
		}
		if date.Valid {
			c.Transaction.Date = date.Time
		}
		c.Status = model.ClassificationStatus(status)
		result = append(result, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating classifications: %w", err)
	}
	return result, nil
}
