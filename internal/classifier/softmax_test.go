package classifier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendlens/spendlens/internal/common"
)

// separableData returns a toy dataset with two well-separated classes in
// two dimensions.
func separableData() ([][]float64, []int) {
	x := [][]float64{
		{1.0, 0.1}, {0.9, 0.2}, {1.1, 0.0}, {0.8, 0.1},
		{0.1, 1.0}, {0.2, 0.9}, {0.0, 1.1}, {0.1, 0.8},
	}
	y := []int{0, 0, 0, 0, 1, 1, 1, 1}
	return x, y
}

func TestSoftmaxFit(t *testing.T) {
	t.Run("learns separable classes", func(t *testing.T) {
		x, y := separableData()

		clf := &Softmax{}
		require.NoError(t, clf.Fit(context.Background(), x, y, 2, DefaultFitConfig(), nil))

		assert.Equal(t, 2, clf.NumFeatures)
		assert.Equal(t, 2, clf.NumClasses)

		for i, row := range x {
			idx, conf, err := clf.Predict(row)
			require.NoError(t, err)
			assert.Equal(t, y[i], idx, "row %d misclassified", i)
			assert.Greater(t, conf, 0.5)
		}
	})

	t.Run("empty matrix is an error", func(t *testing.T) {
		clf := &Softmax{}
		assert.Error(t, clf.Fit(context.Background(), nil, nil, 0, DefaultFitConfig(), nil))
	})

	t.Run("row and label count mismatch is an error", func(t *testing.T) {
		clf := &Softmax{}
		err := clf.Fit(context.Background(), [][]float64{{1, 2}}, []int{0, 1}, 2, DefaultFitConfig(), nil)
		assert.Error(t, err)
	})

	t.Run("cancellation stops training", func(t *testing.T) {
		x, y := separableData()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		clf := &Softmax{}
		err := clf.Fit(ctx, x, y, 2, DefaultFitConfig(), nil)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("epoch callback fires", func(t *testing.T) {
		x, y := separableData()
		cfg := DefaultFitConfig()
		cfg.Epochs = 5

		var calls int
		clf := &Softmax{}
		require.NoError(t, clf.Fit(context.Background(), x, y, 2, cfg, func(int) { calls++ }))
		assert.Equal(t, 5, calls)
	})
}

func TestSoftmaxProbabilities(t *testing.T) {
	x, y := separableData()
	clf := &Softmax{}
	require.NoError(t, clf.Fit(context.Background(), x, y, 2, DefaultFitConfig(), nil))

	t.Run("distribution sums to one", func(t *testing.T) {
		probs, err := clf.Probabilities([]float64{0.5, 0.5})
		require.NoError(t, err)
		require.Len(t, probs, 2)

		var sum float64
		for _, p := range probs {
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 1.0)
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	})

	t.Run("width mismatch is fatal", func(t *testing.T) {
		_, err := clf.Probabilities([]float64{1, 2, 3})
		assert.ErrorIs(t, err, common.ErrDimensionMismatch)

		_, _, err = clf.Predict([]float64{1})
		assert.ErrorIs(t, err, common.ErrDimensionMismatch)
	})

	t.Run("prediction deterministic for identical input", func(t *testing.T) {
		a, _, err := clf.Predict([]float64{0.5, 0.5})
		require.NoError(t, err)
		b, _, err := clf.Predict([]float64{0.5, 0.5})
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})
}
