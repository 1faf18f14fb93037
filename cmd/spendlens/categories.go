package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spendlens/spendlens/internal/cli"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Inspect known categories",
	}

	cmd.AddCommand(listCategoriesCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories in the training store",
		Long:  `Display the distinct categories present in the training store with their labeled row counts. These are the only labels the model can ever predict.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = store.Close()
			}()

			categories, err := store.GetCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}

			if len(categories) == 0 {
				fmt.Println(cli.InfoStyle.Render("No categories found. Use 'spendlens import' to load training data."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() {
				_ = w.Flush()
			}()

			fmt.Fprintf(w, "%s\t%s\n",
				cli.BoldStyle.Render("Category"),
				cli.BoldStyle.Render("Rows"))
			fmt.Fprintf(w, "%s\t%s\n",
				strings.Repeat("-", 20),
				strings.Repeat("-", 6))

			for _, cat := range categories {
				fmt.Fprintf(w, "%s\t%d\n", cat.Name, cat.RowCount)
			}

			return nil
		},
	}
}
