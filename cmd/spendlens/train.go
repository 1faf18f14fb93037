package main

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/spendlens/spendlens/internal/cli"
	"github.com/spendlens/spendlens/internal/common"
	"github.com/spendlens/spendlens/internal/model"
	"github.com/spendlens/spendlens/internal/train"
)

func trainCmd() *cobra.Command {
	var (
		csvPath      string
		outputPath   string
		testFraction float64
		epochs       int
		seed         int64
	)

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the categorization model",
		Long: `Fit a new model bundle from labeled transactions and write it to the
model artifact path. Training reads from the local training store unless
--csv points at a dataset file. Any prior artifact is replaced.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var rows []model.LabeledTransaction
			var err error
			if csvPath != "" {
				rows, err = train.LoadCSV(csvPath)
				if err != nil {
					return common.NewUserError("failed to load training data", err)
				}
			} else {
				store, serr := initStorage(ctx)
				if serr != nil {
					return serr
				}
				defer func() {
					_ = store.Close()
				}()

				rows, err = store.GetTrainingRows(ctx)
				if err != nil {
					return fmt.Errorf("failed to load training rows: %w", err)
				}
				if len(rows) == 0 {
					return fmt.Errorf("training store is empty; run 'spendlens import' first or pass --csv")
				}
			}

			cfg := train.DefaultConfig(outputPath)
			if outputPath == "" {
				cfg.ModelPath = modelPath()
			}
			cfg.TestFraction = testFraction
			cfg.Seed = seed
			if epochs > 0 {
				cfg.Fit.Epochs = epochs
			}

			pipeline := train.NewPipeline(cfg)
			bar := progressbar.NewOptions(cfg.Fit.Epochs,
				progressbar.OptionSetDescription("training"),
				progressbar.OptionClearOnFinish(),
			)
			pipeline.OnEpoch(func(_, _ int) {
				_ = bar.Add(1)
			})

			result, err := pipeline.Run(ctx, rows)
			if err != nil {
				return err
			}

			fmt.Println(cli.RenderReport(result.Report))
			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"trained on %d rows (%d held out), saved model to %s",
				result.TrainRows, result.TestRows, cfg.ModelPath)))
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "train from a CSV dataset instead of the training store")
	cmd.Flags().StringVar(&outputPath, "output", "", "model artifact path (default: configured model path)")
	cmd.Flags().Float64Var(&testFraction, "test-fraction", 0.2, "held-out fraction for evaluation")
	cmd.Flags().IntVar(&epochs, "epochs", 0, "override training epochs")
	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed for the train/held-out split")

	return cmd
}
