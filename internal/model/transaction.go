// Package model defines the core domain models used throughout the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Transaction represents a single financial transaction from any source.
// A zero Date means the source supplied no date; the feature builder falls
// back to its no-date sentinel in that case.
type Transaction struct {
	Date        time.Time
	ID          string
	Merchant    string // Cleaned merchant name
	Description string // Raw transaction description
	AccountID   string
	Hash        string
	Amount      float64
}

// HasDate reports whether the transaction carries a usable date.
func (t *Transaction) HasDate() bool {
	return !t.Date.IsZero()
}

// GenerateHash creates a unique hash for duplicate detection.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%.2f:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount,
		t.Merchant,
		t.AccountID)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// LabeledTransaction is a transaction paired with its true category,
// used as training pipeline input.
type LabeledTransaction struct {
	Transaction
	Category string
}
