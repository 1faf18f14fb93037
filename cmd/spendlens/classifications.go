package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/spendlens/spendlens/internal/cli"
	"github.com/spendlens/spendlens/internal/service"
)

func classificationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classifications",
		Short: "Inspect the prediction audit log",
	}

	cmd.AddCommand(listClassificationsCmd())

	return cmd
}

func listClassificationsCmd() *cobra.Command {
	var (
		fromStr string
		toStr   string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded predictions, newest first",
		Long: `Display predictions recorded by 'spendlens classify', including the
abstained ones. Narrow the range with --from/--to and cap the output
with --limit.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var filter service.ClassificationFilter
			if fromStr != "" {
				from, err := time.Parse("2006-01-02", fromStr)
				if err != nil {
					return fmt.Errorf("invalid --from %q (want YYYY-MM-DD): %w", fromStr, err)
				}
				filter.StartDate = &from
			}
			if toStr != "" {
				to, err := time.Parse("2006-01-02", toStr)
				if err != nil {
					return fmt.Errorf("invalid --to %q (want YYYY-MM-DD): %w", toStr, err)
				}
				// Include the whole end day.
				to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
				filter.EndDate = &to
			}
			filter.Limit = limit

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = store.Close()
			}()

			entries, err := store.GetClassifications(ctx, filter)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println(cli.InfoStyle.Render("No recorded predictions. Use 'spendlens classify' first."))
				return nil
			}

			fmt.Print(cli.RenderClassifications(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&fromStr, "from", "", "earliest classification date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toStr, "to", "", "latest classification date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum entries to show (0 = all)")

	return cmd
}
