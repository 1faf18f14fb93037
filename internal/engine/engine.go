// Package engine implements the categorization service: it owns the
// current model bundle and applies the confidence-gated abstention policy
// over raw classifier output.
package engine

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spendlens/spendlens/internal/bundle"
	"github.com/spendlens/spendlens/internal/common"
	"github.com/spendlens/spendlens/internal/feature"
	"github.com/spendlens/spendlens/internal/model"
	"github.com/spendlens/spendlens/internal/service"
)

// DefaultThreshold is the decision threshold applied until configured
// otherwise. Predictions below it abstain to the fallback category.
const DefaultThreshold = 0.75

// Service owns the loaded model bundle and the decision threshold. The
// bundle is replaced as one unit under the write lock, so concurrent
// readers observe either the fully-old or the fully-new fitted set, never
// a mix.
type Service struct {
	bundle    *bundle.Bundle
	modelPath string
	threshold float64
	mu        sync.RWMutex
}

// Option configures a Service.
type Option func(*Service)

// WithThreshold sets the initial decision threshold, clamped into [0,1].
func WithThreshold(t float64) Option {
	return func(s *Service) {
		s.threshold = clamp(t)
	}
}

// NewService creates an engine that loads its bundle from modelPath. The
// engine starts unloaded; call Load once at startup.
func NewService(modelPath string, opts ...Option) *Service {
	s := &Service{
		modelPath: modelPath,
		threshold: DefaultThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load attempts to read the bundle artifact. A missing file is a normal
// state for an untrained deployment: Load returns (false, nil) and keeps
// any previously loaded bundle serving. A present but unreadable file is
// an error, and likewise preserves the prior state.
func (s *Service) Load() (bool, error) {
	b, err := bundle.Load(s.modelPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			common.LogDebug("no model artifact present", common.Fields{"path": s.modelPath})
			return false, nil
		}
		return false, fmt.Errorf("failed to load model: %w", err)
	}

	s.mu.Lock()
	s.bundle = b
	s.mu.Unlock()

	common.LogInfo("model loaded", common.Fields{
		"path":       s.modelPath,
		"classes":    b.Labels.Len(),
		"vocabulary": b.Vectorizer.NumTerms(),
		"trained_at": b.TrainedAt,
	})
	return true, nil
}

// IsReady reports whether a complete fitted set is loaded.
func (s *Service) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bundle != nil
}

// Predict categorizes one transaction. When no model is loaded it returns
// the fallback category with zero confidence. When the model abstains
// (confidence below threshold) the fallback category is returned with the
// true confidence. The only error condition is a feature width that does
// not match the classifier, which indicates a corrupted or mismatched
// artifact and must never be scored silently.
func (s *Service) Predict(merchant, description string, amount float64, date time.Time) (string, float64, error) {
	s.mu.RLock()
	b := s.bundle
	threshold := s.threshold
	s.mu.RUnlock()

	if b == nil {
		return model.Uncategorized, 0.0, nil
	}

	vec := feature.Build(b.Vectorizer, model.Transaction{
		Merchant:    merchant,
		Description: description,
		Amount:      amount,
		Date:        date,
	})

	idx, conf, err := b.Classifier.Predict(vec)
	if err != nil {
		return "", 0, fmt.Errorf("prediction failed: %w", err)
	}

	label, err := b.Labels.Decode(idx)
	if err != nil {
		return "", 0, fmt.Errorf("prediction failed: %w", err)
	}

	if !b.SupportsProbabilities {
		// Hard-label classifiers have no confidence to report.
		return label, 0.0, nil
	}
	if conf < threshold {
		return model.Uncategorized, conf, nil
	}
	return label, conf, nil
}

// SetThreshold stores the decision threshold, clamping out-of-range input
// rather than rejecting it.
func (s *Service) SetThreshold(t float64) {
	s.mu.Lock()
	s.threshold = clamp(t)
	s.mu.Unlock()
}

// Status returns a read-only snapshot, safe before and after Load.
func (s *Service) Status() service.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := service.Status{
		Loaded:    s.bundle != nil,
		Threshold: s.threshold,
		Metrics:   map[string]float64{},
	}
	if s.bundle != nil {
		st.TrainedAt = s.bundle.TrainedAt
		for k, v := range s.bundle.Metrics {
			st.Metrics[k] = v
		}
	}
	return st
}

func clamp(t float64) float64 {
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	default:
		return t
	}
}

var _ service.Categorizer = (*Service)(nil)
