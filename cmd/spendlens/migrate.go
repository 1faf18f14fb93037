package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spendlens/spendlens/internal/cli"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Apply any pending schema migrations to the training store. Safe to run repeatedly.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				_ = store.Close()
			}()

			fmt.Println(cli.FormatSuccess("database schema up to date"))
			return nil
		},
	}
}
