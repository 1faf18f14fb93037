package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spendlens/spendlens/internal/cli"
	"github.com/spendlens/spendlens/internal/common"
	"github.com/spendlens/spendlens/internal/train"
)

func importCmd() *cobra.Command {
	var csvPath string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import labeled training data",
		Long: `Load labeled transactions from a CSV file into the training store.
The file must carry merchant, description, amount, date and category
columns. Re-importing the same rows is a no-op.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if csvPath == "" {
				return fmt.Errorf("--csv is required")
			}

			rows, err := train.LoadCSV(csvPath)
			if err != nil {
				return common.NewUserError("failed to load training data", err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = store.Close()
			}()

			if err := store.SaveTrainingRows(ctx, rows); err != nil {
				return err
			}

			total, err := store.CountTrainingRows(ctx)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"imported %d rows from %s (%d total in store)", len(rows), csvPath, total)))
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "CSV file of labeled transactions")

	return cmd
}
