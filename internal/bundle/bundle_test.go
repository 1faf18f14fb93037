package bundle

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendlens/spendlens/internal/classifier"
	"github.com/spendlens/spendlens/internal/common"
	"github.com/spendlens/spendlens/internal/feature"
	"github.com/spendlens/spendlens/internal/model"
)

// fittedBundle trains a tiny but complete bundle for persistence tests.
func fittedBundle(t *testing.T) *Bundle {
	t.Helper()

	rows := []model.LabeledTransaction{
		{Transaction: model.Transaction{Merchant: "STARBUCKS", Description: "coffee"}, Category: "Dining"},
		{Transaction: model.Transaction{Merchant: "BLUE BOTTLE", Description: "coffee beans"}, Category: "Dining"},
		{Transaction: model.Transaction{Merchant: "SHELL", Description: "gas"}, Category: "Transport"},
		{Transaction: model.Transaction{Merchant: "CHEVRON", Description: "gas fuel"}, Category: "Transport"},
	}

	docs := make([]string, len(rows))
	labels := make([]string, len(rows))
	for i, row := range rows {
		docs[i] = feature.BuildText(row.Merchant, row.Description)
		labels[i] = row.Category
	}

	v := feature.NewVectorizer()
	require.NoError(t, v.Fit(docs))

	enc, err := classifier.FitLabels(labels)
	require.NoError(t, err)

	x := make([][]float64, len(rows))
	y := make([]int, len(rows))
	for i, row := range rows {
		x[i] = feature.Build(v, row.Transaction)
		y[i], err = enc.Encode(row.Category)
		require.NoError(t, err)
	}

	clf := &classifier.Softmax{}
	require.NoError(t, clf.Fit(context.Background(), x, y, enc.Len(), classifier.DefaultFitConfig(), nil))

	return &Bundle{
		TrainedAt:             time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
		Vectorizer:            v,
		Classifier:            clf,
		Labels:                enc,
		Metrics:               map[string]float64{"f1_macro": 1.0},
		SupportsProbabilities: true,
	}
}

func TestBundleValidate(t *testing.T) {
	t.Run("complete bundle is valid", func(t *testing.T) {
		assert.NoError(t, fittedBundle(t).Validate())
	})

	t.Run("missing fitted object is incomplete", func(t *testing.T) {
		b := fittedBundle(t)
		b.Classifier = nil
		assert.ErrorIs(t, b.Validate(), common.ErrBundleIncomplete)

		b = fittedBundle(t)
		b.Vectorizer = nil
		assert.ErrorIs(t, b.Validate(), common.ErrBundleIncomplete)

		b = fittedBundle(t)
		b.Labels = nil
		assert.ErrorIs(t, b.Validate(), common.ErrBundleIncomplete)
	})

	t.Run("width disagreement is a mismatch", func(t *testing.T) {
		b := fittedBundle(t)
		b.Classifier.NumFeatures++
		assert.ErrorIs(t, b.Validate(), common.ErrDimensionMismatch)
	})
}

func TestBundleSaveLoad(t *testing.T) {
	t.Run("round trip preserves predictions", func(t *testing.T) {
		b := fittedBundle(t)
		path := filepath.Join(t.TempDir(), "model.gob")
		require.NoError(t, b.Save(path))

		loaded, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, b.TrainedAt, loaded.TrainedAt)
		assert.Equal(t, b.Labels.Classes, loaded.Labels.Classes)
		assert.Equal(t, b.Metrics, loaded.Metrics)
		assert.True(t, loaded.SupportsProbabilities)

		txn := model.Transaction{Merchant: "SHELL", Description: "gas"}
		wantIdx, wantConf, err := b.Classifier.Predict(feature.Build(b.Vectorizer, txn))
		require.NoError(t, err)
		gotIdx, gotConf, err := loaded.Classifier.Predict(feature.Build(loaded.Vectorizer, txn))
		require.NoError(t, err)

		assert.Equal(t, wantIdx, gotIdx)
		assert.InDelta(t, wantConf, gotConf, 1e-12)
	})

	t.Run("save overwrites prior artifact", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "model.gob")
		b := fittedBundle(t)
		require.NoError(t, b.Save(path))

		b.TrainedAt = b.TrainedAt.Add(time.Hour)
		require.NoError(t, b.Save(path))

		loaded, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, b.TrainedAt, loaded.TrainedAt)
	})

	t.Run("incomplete bundle refuses to save", func(t *testing.T) {
		b := fittedBundle(t)
		b.Labels = nil
		err := b.Save(filepath.Join(t.TempDir(), "model.gob"))
		assert.ErrorIs(t, err, common.ErrBundleIncomplete)
	})

	t.Run("missing file surfaces os.ErrNotExist", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.gob"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("corrupt file is a distinct fatal error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "model.gob")
		require.NoError(t, os.WriteFile(path, []byte("not a gob stream"), 0o600))

		_, err := Load(path)
		assert.ErrorIs(t, err, common.ErrBundleCorrupt)
		assert.NotErrorIs(t, err, os.ErrNotExist)
	})
}
