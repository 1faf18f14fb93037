package train

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spendlens/spendlens/internal/bundle"
	"github.com/spendlens/spendlens/internal/classifier"
	"github.com/spendlens/spendlens/internal/common"
	"github.com/spendlens/spendlens/internal/feature"
	"github.com/spendlens/spendlens/internal/model"
)

// Config holds the pipeline settings.
type Config struct {
	ModelPath    string
	TestFraction float64
	Seed         int64
	Fit          classifier.FitConfig
}

// DefaultConfig returns the default pipeline configuration for the given
// artifact path.
func DefaultConfig(modelPath string) Config {
	return Config{
		ModelPath:    modelPath,
		TestFraction: 0.2,
		Seed:         42,
		Fit:          classifier.DefaultFitConfig(),
	}
}

// Result reports what a pipeline run produced.
type Result struct {
	Bundle    *bundle.Bundle
	Report    *Report
	TrainRows int
	TestRows  int
}

// Pipeline is the offline batch job that fits a model bundle from labeled
// transactions. Any failure aborts the run; no partial artifact is
// written.
type Pipeline struct {
	cfg     Config
	onEpoch func(epoch, total int)
}

// NewPipeline creates a training pipeline.
func NewPipeline(cfg Config) *Pipeline {
	return &Pipeline{cfg: cfg}
}

// OnEpoch registers a progress callback invoked once per training epoch.
func (p *Pipeline) OnEpoch(fn func(epoch, total int)) {
	p.onEpoch = fn
}

// Run fits the vectorizer, label encoder and classifier on the given
// rows, evaluates on a held-out split, and persists the bundle artifact
// at the configured path, overwriting any prior artifact.
func (p *Pipeline) Run(ctx context.Context, rows []model.LabeledTransaction) (*Result, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no training rows supplied")
	}

	common.LogInfo("starting training run", common.Fields{"rows": len(rows)})

	// Label encoder over the categories seen in training data. Labels not
	// present here can never be produced at serving time.
	labels := make([]string, len(rows))
	for i, row := range rows {
		labels[i] = row.Category
	}
	encoder, err := classifier.FitLabels(labels)
	if err != nil {
		return nil, fmt.Errorf("failed to fit label encoder: %w", err)
	}

	y := make([]int, len(rows))
	for i, row := range rows {
		if y[i], err = encoder.Encode(row.Category); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}

	// Vectorizer over the full text corpus, built with the same routine
	// serving uses.
	docs := make([]string, len(rows))
	for i, row := range rows {
		docs[i] = strings.TrimSpace(feature.BuildText(row.Merchant, row.Description))
	}
	vectorizer := feature.NewVectorizer()
	if err = vectorizer.Fit(docs); err != nil {
		return nil, fmt.Errorf("failed to fit vectorizer: %w", err)
	}

	x := make([][]float64, len(rows))
	for i, row := range rows {
		x[i] = feature.Build(vectorizer, row.Transaction)
	}

	trainIdx, testIdx, err := Split(y, encoder.Len(), p.cfg.TestFraction, p.cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("failed to split dataset: %w", err)
	}

	xTrain, yTrain := gather(x, y, trainIdx)
	xTest, yTest := gather(x, y, testIdx)

	common.LogInfo("fitted features", common.Fields{
		"vocabulary": vectorizer.NumTerms(),
		"classes":    encoder.Len(),
		"train_rows": len(trainIdx),
		"test_rows":  len(testIdx),
	})

	clf := &classifier.Softmax{}
	var epochFn func(int)
	if p.onEpoch != nil {
		total := p.cfg.Fit.Epochs
		epochFn = func(epoch int) { p.onEpoch(epoch, total) }
	}
	if err = clf.Fit(ctx, xTrain, yTrain, encoder.Len(), p.cfg.Fit, epochFn); err != nil {
		return nil, fmt.Errorf("failed to fit classifier: %w", err)
	}

	yPred := make([]int, len(xTest))
	for i, vec := range xTest {
		idx, _, perr := clf.Predict(vec)
		if perr != nil {
			return nil, fmt.Errorf("held-out evaluation failed: %w", perr)
		}
		yPred[i] = idx
	}
	report, err := Evaluate(yTest, yPred, encoder.Classes)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate held-out split: %w", err)
	}

	b := &bundle.Bundle{
		TrainedAt:             time.Now().UTC(),
		Vectorizer:            vectorizer,
		Classifier:            clf,
		Labels:                encoder,
		Metrics:               map[string]float64{"f1_macro": report.MacroF1},
		SupportsProbabilities: true,
	}
	if err = b.Save(p.cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("failed to persist model bundle: %w", err)
	}

	common.LogInfo("training run complete", common.Fields{
		"f1_macro":   report.MacroF1,
		"model_path": p.cfg.ModelPath,
	})

	return &Result{
		Bundle:    b,
		Report:    report,
		TrainRows: len(trainIdx),
		TestRows:  len(testIdx),
	}, nil
}

func gather(x [][]float64, y []int, idx []int) ([][]float64, []int) {
	xs := make([][]float64, len(idx))
	ys := make([]int, len(idx))
	for i, j := range idx {
		xs[i] = x[j]
		ys[i] = y[j]
	}
	return xs, ys
}
