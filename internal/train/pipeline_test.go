package train

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendlens/spendlens/internal/bundle"
	"github.com/spendlens/spendlens/internal/feature"
	"github.com/spendlens/spendlens/internal/model"
	"github.com/spendlens/spendlens/internal/testutil"
)

func TestPipelineRun(t *testing.T) {
	t.Run("trains, evaluates and persists the bundle", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "model.gob")
		pipeline := NewPipeline(DefaultConfig(path))

		result, err := pipeline.Run(context.Background(), testutil.SyntheticRows())
		require.NoError(t, err)

		assert.Positive(t, result.TrainRows)
		assert.GreaterOrEqual(t, result.TestRows, 3, "held-out set must cover every class")
		assert.GreaterOrEqual(t, result.Report.MacroF1, 0.0)
		assert.LessOrEqual(t, result.Report.MacroF1, 1.0)

		// The synthetic categories are keyword-separable; the model should
		// do far better than chance on the held-out rows.
		assert.Greater(t, result.Report.MacroF1, 0.6)

		loaded, err := bundle.Load(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"Dining", "Housing", "Transport"}, loaded.Labels.Classes)
		assert.True(t, loaded.SupportsProbabilities)
		assert.InDelta(t, result.Report.MacroF1, loaded.Metrics["f1_macro"], 1e-12)
		assert.WithinDuration(t, time.Now().UTC(), loaded.TrainedAt, time.Minute)
	})

	t.Run("training and serving feature widths agree", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "model.gob")
		pipeline := NewPipeline(DefaultConfig(path))

		rows := testutil.SyntheticRows()
		result, err := pipeline.Run(context.Background(), rows)
		require.NoError(t, err)

		vec := feature.Build(result.Bundle.Vectorizer, rows[0].Transaction)
		assert.Len(t, vec, result.Bundle.Classifier.NumFeatures)
	})

	t.Run("single-example class engages the split fallback", func(t *testing.T) {
		rows := testutil.SyntheticRows()
		rows = append(rows, model.LabeledTransaction{
			Transaction: model.Transaction{Merchant: "VET CLINIC", Description: "dog checkup", Amount: -95},
			Category:    "Pets",
		})

		path := filepath.Join(t.TempDir(), "model.gob")
		pipeline := NewPipeline(DefaultConfig(path))

		_, err := pipeline.Run(context.Background(), rows)
		require.NoError(t, err, "singleton class must not abort training")
	})

	t.Run("no rows aborts without artifact", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "model.gob")
		pipeline := NewPipeline(DefaultConfig(path))

		_, err := pipeline.Run(context.Background(), nil)
		assert.Error(t, err)

		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr), "failed run must not write a partial artifact")
	})

	t.Run("epoch callback reports progress", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "model.gob")
		cfg := DefaultConfig(path)
		cfg.Fit.Epochs = 10

		pipeline := NewPipeline(cfg)
		var calls int
		pipeline.OnEpoch(func(_, total int) {
			calls++
			assert.Equal(t, 10, total)
		})

		_, err := pipeline.Run(context.Background(), testutil.SyntheticRows())
		require.NoError(t, err)
		assert.Equal(t, 10, calls)
	})
}
