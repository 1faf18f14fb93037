package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/spendlens/spendlens/internal/cli"
	"github.com/spendlens/spendlens/internal/common"
	"github.com/spendlens/spendlens/internal/model"
	"github.com/spendlens/spendlens/internal/ofx"
)

func classifyCmd() *cobra.Command {
	var (
		merchant    string
		description string
		amount      float64
		dateStr     string
		ofxPath     string
		noLog       bool
	)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Categorize transactions with the trained model",
		Long: `Predict a category for a single transaction given via flags, or for a
whole OFX/QFX statement export via --ofx. Predictions below the decision
threshold abstain to "Uncategorized" with their confidence reported.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			svc, err := initEngine()
			if err != nil {
				return err
			}
			if !svc.IsReady() {
				fmt.Println(cli.FormatWarning("no trained model found; all predictions fall back to Uncategorized"))
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = store.Close()
			}()

			var txns []model.Transaction
			if ofxPath != "" {
				f, ferr := os.Open(ofxPath)
				if ferr != nil {
					return common.NewUserError("failed to open OFX file", ferr)
				}
				defer func() {
					_ = f.Close()
				}()

				txns, err = ofx.NewParser().ParseFile(f)
				if err != nil {
					return err
				}
				if len(txns) == 0 {
					fmt.Println(cli.FormatWarning("statement contains no transactions"))
					return nil
				}
			} else {
				if merchant == "" && description == "" {
					return fmt.Errorf("either --ofx or --merchant/--description is required")
				}
				var date time.Time
				if dateStr != "" {
					if date, err = time.Parse("2006-01-02", dateStr); err != nil {
						return fmt.Errorf("invalid --date %q (want YYYY-MM-DD): %w", dateStr, err)
					}
				}
				txns = []model.Transaction{{
					Merchant:    merchant,
					Description: description,
					Amount:      amount,
					Date:        date,
				}}
			}

			threshold := svc.Status().Threshold

			var bar *progressbar.ProgressBar
			if len(txns) > 1 {
				bar = progressbar.NewOptions(len(txns),
					progressbar.OptionSetDescription("classifying"),
					progressbar.OptionClearOnFinish(),
				)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.BoldStyle.Render("Date"),
				cli.BoldStyle.Render("Merchant"),
				cli.BoldStyle.Render("Amount"),
				cli.BoldStyle.Render("Category"),
				cli.BoldStyle.Render("Confidence"))

			for _, txn := range txns {
				label, conf, err := svc.Predict(txn.Merchant, txn.Description, txn.Amount, txn.Date)
				if err != nil {
					return err
				}

				status := classificationStatus(svc.IsReady(), label, conf, threshold)
				if !noLog {
					c := model.Classification{
						Transaction:  txn,
						Category:     label,
						Status:       status,
						Confidence:   conf,
						ClassifiedAt: time.Now().UTC(),
					}
					if err := store.SaveClassification(ctx, &c); err != nil {
						return err
					}
				}

				date := ""
				if txn.HasDate() {
					date = txn.Date.Format("2006-01-02")
				}
				name := txn.Merchant
				if name == "" {
					name = txn.Description
				}
				fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%s\n",
					date, name, txn.Amount, renderLabel(label), renderConfidence(conf))

				if bar != nil {
					_ = bar.Add(1)
				}
			}

			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&merchant, "merchant", "", "merchant name")
	cmd.Flags().StringVar(&description, "description", "", "transaction description")
	cmd.Flags().Float64Var(&amount, "amount", 0, "transaction amount")
	cmd.Flags().StringVar(&dateStr, "date", "", "transaction date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&ofxPath, "ofx", "", "classify every transaction in an OFX/QFX statement")
	cmd.Flags().BoolVar(&noLog, "no-log", false, "skip recording predictions to the audit log")

	return cmd
}

func classificationStatus(ready bool, label string, conf, threshold float64) model.ClassificationStatus {
	switch {
	case !ready:
		return model.StatusNotReady
	case label == model.Uncategorized && conf < threshold:
		return model.StatusAbstained
	default:
		return model.StatusPredicted
	}
}

func renderLabel(label string) string {
	if label == model.Uncategorized {
		return cli.SubtleStyle.Render(label)
	}
	return label
}

func renderConfidence(conf float64) string {
	s := fmt.Sprintf("%.2f", conf)
	switch {
	case conf >= 0.9:
		return cli.SuccessStyle.Render(s)
	case conf < 0.5:
		return cli.WarningStyle.Render(s)
	default:
		return s
	}
}
