// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/spendlens/spendlens/internal/model"
)

// Status is a read-only snapshot of the categorization engine.
type Status struct {
	TrainedAt time.Time
	Metrics   map[string]float64
	Threshold float64
	Loaded    bool
}

// Categorizer is the contract between the request-handling layer and the
// categorization engine. Load is called once at startup; the remaining
// operations may run concurrently.
type Categorizer interface {
	// Load reads the bundle artifact from its well-known path. A missing
	// file returns (false, nil) and leaves any previously loaded state
	// intact; a corrupt file returns an error.
	Load() (bool, error)
	// IsReady reports whether all fitted objects are set.
	IsReady() bool
	// Predict returns a category label and a confidence for raw transaction
	// fields. When the engine is not ready it returns the fallback label
	// with zero confidence, never an error.
	Predict(merchant, description string, amount float64, date time.Time) (string, float64, error)
	// SetThreshold stores the decision threshold, clamped into [0,1].
	SetThreshold(t float64)
	// Status returns a snapshot safe to call at any time.
	Status() Status
}

// ClassificationFilter defines filtering options for the prediction log.
type ClassificationFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
}

// Storage defines the contract for the persistence layer backing training
// data and the prediction audit log.
type Storage interface {
	// Training data operations
	SaveTrainingRows(ctx context.Context, rows []model.LabeledTransaction) error
	GetTrainingRows(ctx context.Context) ([]model.LabeledTransaction, error)
	CountTrainingRows(ctx context.Context) (int, error)

	// Category operations
	GetCategories(ctx context.Context) ([]model.Category, error)

	// Prediction audit log
	SaveClassification(ctx context.Context, classification *model.Classification) error
	GetClassifications(ctx context.Context, filter ClassificationFilter) ([]model.Classification, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
