package classifier

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/spendlens/spendlens/internal/common"
)

// FitConfig holds the gradient descent hyperparameters.
type FitConfig struct {
	Epochs       int
	LearningRate float64
	L2           float64
}

// DefaultFitConfig returns hyperparameters that converge on the small,
// well-separated corpora typical of personal transaction data.
func DefaultFitConfig() FitConfig {
	return FitConfig{
		Epochs:       200,
		LearningRate: 0.5,
		L2:           1e-4,
	}
}

// Softmax is a multinomial logistic regression classifier. Weights holds
// one row per class over NumFeatures inputs plus a trailing bias term.
// Inputs are standardized with the Mean/Scale statistics captured at fit
// time; the statistics travel with the model so serving applies the same
// transform. Fields are exported for gob serialization.
type Softmax struct {
	Weights     [][]float64
	Mean        []float64
	Scale       []float64
	NumFeatures int
	NumClasses  int
}

// Fit trains the classifier with full-batch gradient descent over a
// softmax cross-entropy objective. numClasses fixes the label index space;
// pass 0 to infer it from the labels present. onEpoch, when non-nil, is
// invoked after every epoch for progress reporting. Cancellation is
// checked between epochs.
func (c *Softmax) Fit(ctx context.Context, x [][]float64, y []int, numClasses int, cfg FitConfig, onEpoch func(epoch int)) error {
	if len(x) == 0 {
		return fmt.Errorf("cannot fit classifier on empty matrix")
	}
	if len(x) != len(y) {
		return fmt.Errorf("feature matrix has %d rows but %d labels", len(x), len(y))
	}

	c.NumFeatures = len(x[0])
	c.NumClasses = numClasses
	for _, label := range y {
		if label < 0 {
			return fmt.Errorf("negative label index %d", label)
		}
		if label+1 > c.NumClasses {
			c.NumClasses = label + 1
		}
	}
	if numClasses > 0 && c.NumClasses > numClasses {
		return fmt.Errorf("label index %d exceeds declared class count %d", c.NumClasses-1, numClasses)
	}

	c.fitScaler(x)
	scaled := make([][]float64, len(x))
	for i, row := range x {
		if len(row) != c.NumFeatures {
			return fmt.Errorf("row %d has width %d, want %d: %w", i, len(row), c.NumFeatures, common.ErrDimensionMismatch)
		}
		scaled[i] = c.standardize(row)
	}

	c.Weights = make([][]float64, c.NumClasses)
	for k := range c.Weights {
		c.Weights[k] = make([]float64, c.NumFeatures+1)
	}

	n := float64(len(scaled))
	grad := make([][]float64, c.NumClasses)
	for k := range grad {
		grad[k] = make([]float64, c.NumFeatures+1)
	}

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		for k := range grad {
			for j := range grad[k] {
				grad[k][j] = 0
			}
		}

		for i, row := range scaled {
			probs := c.softmax(row)
			for k := 0; k < c.NumClasses; k++ {
				delta := probs[k]
				if k == y[i] {
					delta -= 1
				}
				gk := grad[k]
				for j, v := range row {
					gk[j] += delta * v
				}
				gk[c.NumFeatures] += delta // bias
			}
		}

		for k := 0; k < c.NumClasses; k++ {
			wk := c.Weights[k]
			for j := range wk {
				step := grad[k][j] / n
				if j < c.NumFeatures {
					step += cfg.L2 * wk[j]
				}
				wk[j] -= cfg.LearningRate * step
			}
		}

		if onEpoch != nil {
			onEpoch(epoch)
		}
	}

	return nil
}

// Probabilities returns the per-class probability distribution for one
// feature vector. A vector whose width differs from the fitted width is a
// fatal mismatch, never silently scored.
func (c *Softmax) Probabilities(x []float64) ([]float64, error) {
	if len(x) != c.NumFeatures {
		return nil, fmt.Errorf("got vector of width %d, classifier trained on %d: %w",
			len(x), c.NumFeatures, common.ErrDimensionMismatch)
	}
	return c.softmax(c.standardize(x)), nil
}

// Predict returns the argmax class index and its probability. Ties resolve
// to the lowest index.
func (c *Softmax) Predict(x []float64) (int, float64, error) {
	probs, err := c.Probabilities(x)
	if err != nil {
		return 0, 0, err
	}
	idx := floats.MaxIdx(probs)
	return idx, probs[idx], nil
}

func (c *Softmax) fitScaler(x [][]float64) {
	c.Mean = make([]float64, c.NumFeatures)
	c.Scale = make([]float64, c.NumFeatures)

	n := float64(len(x))
	for _, row := range x {
		floats.Add(c.Mean, row)
	}
	floats.Scale(1/n, c.Mean)

	for _, row := range x {
		for j, v := range row {
			d := v - c.Mean[j]
			c.Scale[j] += d * d
		}
	}
	for j := range c.Scale {
		c.Scale[j] = math.Sqrt(c.Scale[j] / n)
		if c.Scale[j] == 0 {
			c.Scale[j] = 1
		}
	}
}

func (c *Softmax) standardize(x []float64) []float64 {
	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (v - c.Mean[j]) / c.Scale[j]
	}
	return out
}

// softmax computes class probabilities for an already-standardized vector,
// shifting logits by their maximum for numeric stability.
func (c *Softmax) softmax(x []float64) []float64 {
	logits := make([]float64, c.NumClasses)
	for k, wk := range c.Weights {
		s := wk[c.NumFeatures] // bias
		for j, v := range x {
			s += wk[j] * v
		}
		logits[k] = s
	}

	maxLogit := floats.Max(logits)
	var sum float64
	for k, l := range logits {
		logits[k] = math.Exp(l - maxLogit)
		sum += logits[k]
	}
	floats.Scale(1/sum, logits)
	return logits
}
