// Package model defines the core domain models used throughout the application.
package model

import "time"

// Uncategorized is the fallback category returned when the model either is
// not loaded or abstains because its confidence falls below the decision
// threshold.
const Uncategorized = "Uncategorized"

// ClassificationStatus indicates how a transaction was categorized.
type ClassificationStatus string

// Classification status constants.
const (
	StatusPredicted ClassificationStatus = "PREDICTED"
	StatusAbstained ClassificationStatus = "ABSTAINED"
	StatusNotReady  ClassificationStatus = "NOT_READY"
)

// Classification represents a transaction after the model has scored it.
// Confidence is always the raw classifier confidence, even when the engine
// abstained from the predicted label.
type Classification struct {
	ClassifiedAt time.Time
	Category     string
	Status       ClassificationStatus
	Transaction  Transaction
	Confidence   float64
}
