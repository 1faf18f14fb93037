// Package bundle persists the fitted model artifacts as one atomic unit.
// A bundle is only ever written whole by the training pipeline and read
// whole by the categorization service; partial bundles are invalid.
package bundle

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spendlens/spendlens/internal/classifier"
	"github.com/spendlens/spendlens/internal/common"
	"github.com/spendlens/spendlens/internal/feature"
)

// Bundle is the unit of persistence for a trained model: the fitted
// vectorizer, classifier and label encoder, plus training metadata.
// SupportsProbabilities is decided once at training time; a serving side
// must not introspect the classifier per prediction.
type Bundle struct {
	TrainedAt             time.Time
	Vectorizer            *feature.Vectorizer
	Classifier            *classifier.Softmax
	Labels                *classifier.LabelEncoder
	Metrics               map[string]float64
	SupportsProbabilities bool
}

// Validate checks that the bundle is complete and internally consistent.
// The three fitted objects must all be present and the classifier's input
// width must match what the vectorizer produces.
func (b *Bundle) Validate() error {
	if b.Vectorizer == nil || b.Classifier == nil || b.Labels == nil {
		return fmt.Errorf("vectorizer, classifier and label encoder must all be present: %w",
			common.ErrBundleIncomplete)
	}
	if !b.Vectorizer.Fitted() {
		return fmt.Errorf("vectorizer is unfitted: %w", common.ErrBundleIncomplete)
	}
	if want, got := feature.Width(b.Vectorizer), b.Classifier.NumFeatures; want != got {
		return fmt.Errorf("vectorizer produces width %d but classifier expects %d: %w",
			want, got, common.ErrDimensionMismatch)
	}
	if b.Labels.Len() != b.Classifier.NumClasses {
		return fmt.Errorf("label encoder has %d classes but classifier has %d: %w",
			b.Labels.Len(), b.Classifier.NumClasses, common.ErrBundleIncomplete)
	}
	return nil
}

// Save writes the bundle to path, replacing any prior artifact. The write
// goes to a temp file first and is renamed into place so a crashed run
// never leaves a truncated artifact at the well-known path.
func (b *Bundle) Save(path string) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid bundle: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".model-*.gob")
	if err != nil {
		return fmt.Errorf("failed to create temp artifact: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if err := gob.NewEncoder(tmp).Encode(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to encode bundle: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp artifact: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace model artifact: %w", err)
	}
	return nil
}

// Load reads and validates a bundle from path. A missing file returns
// os.ErrNotExist via the wrapped error; the caller distinguishes "absent"
// (normal for an untrained deployment) from "present but unreadable"
// (fatal).
func Load(path string) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model artifact: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	var b Bundle
	if err := gob.NewDecoder(f).Decode(&b); err != nil {
		return nil, fmt.Errorf("failed to decode model artifact %s: %w (%v)", path, common.ErrBundleCorrupt, err)
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("model artifact %s: %w", path, err)
	}
	return &b, nil
}
