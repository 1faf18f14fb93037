// Package testutil provides shared test fixtures: an in-memory training
// store and a synthetic labeled dataset with clearly separable categories.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/spendlens/spendlens/internal/model"
	"github.com/spendlens/spendlens/internal/storage"
)

// SetupTestDB creates a migrated in-memory SQLite store that is torn down
// automatically when the test finishes.
func SetupTestDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// SyntheticRows returns a labeled dataset of 30 rows across three
// categories with distinguishing keywords per category, enough signal for
// the classifier to separate them confidently.
func SyntheticRows() []model.LabeledTransaction {
	type seed struct {
		merchant    string
		description string
		category    string
		amount      float64
	}
	seeds := []seed{
		{"STARBUCKS", "coffee run", "Dining", -4.50},
		{"BLUE BOTTLE COFFEE", "latte", "Dining", -6.25},
		{"CHIPOTLE", "lunch burrito", "Dining", -11.80},
		{"SHELL", "gas fill up", "Transport", -42.10},
		{"CHEVRON GAS", "fuel", "Transport", -39.75},
		{"UBER", "ride downtown", "Transport", -17.30},
		{"ACME PROPERTIES", "monthly rent", "Housing", -1850.00},
		{"LANDLORD LLC", "rent payment", "Housing", -1850.00},
		{"HOME DEPOT", "rent deposit supplies", "Housing", -64.20},
	}

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]model.LabeledTransaction, 0, 30)
	for i := 0; i < 30; i++ {
		s := seeds[i%len(seeds)]
		rows = append(rows, model.LabeledTransaction{
			Transaction: model.Transaction{
				Merchant:    s.merchant,
				Description: fmt.Sprintf("%s %d", s.description, i),
				Amount:      s.amount,
				Date:        base.AddDate(0, 0, i),
				AccountID:   "test-account",
			},
			Category: s.category,
		})
	}
	return rows
}
