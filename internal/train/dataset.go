// Package train implements the offline training pipeline that produces
// the model bundle consumed by the categorization engine.
package train

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spendlens/spendlens/internal/common"
	"github.com/spendlens/spendlens/internal/model"
)

// Required CSV columns. Merchant, description and category may be empty
// per-row; the columns themselves must exist.
var requiredColumns = []string{"merchant", "description", "amount", "date", "category"}

// Date layouts accepted for training rows, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"01/02/2006",
}

// LoadCSV reads a labeled training dataset. Missing merchant/description
// default to the empty string and a missing category defaults to the
// fallback label. A missing or unparseable amount is fatal; an
// unparseable date falls back to the no-date sentinel, consistent with
// serving.
func LoadCSV(path string) ([]model.LabeledTransaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open training data: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	return ReadRows(f)
}

// ReadRows parses labeled training rows from CSV content.
func ReadRows(r io.Reader) ([]model.LabeledTransaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("column %q: %w", name, common.ErrMissingColumn)
		}
	}

	var rows []model.LabeledTransaction
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		line++

		row, err := parseRow(record, cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, common.ErrEmptyDataset
	}
	return rows, nil
}

func parseRow(record []string, cols map[string]int) (model.LabeledTransaction, error) {
	field := func(name string) string {
		idx := cols[name]
		if idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	amountStr := field("amount")
	if amountStr == "" {
		return model.LabeledTransaction{}, fmt.Errorf("amount is required")
	}
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		return model.LabeledTransaction{}, fmt.Errorf("invalid amount %q: %w", amountStr, err)
	}

	category := field("category")
	if category == "" {
		category = model.Uncategorized
	}

	row := model.LabeledTransaction{
		Transaction: model.Transaction{
			Merchant:    field("merchant"),
			Description: field("description"),
			Amount:      amount,
			Date:        parseDate(field("date")),
		},
		Category: category,
	}
	return row, nil
}

// parseDate tries the accepted layouts and returns the zero time when none
// match. The zero time maps to the 0,0 metadata sentinel downstream.
func parseDate(s string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
