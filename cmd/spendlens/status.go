package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spendlens/spendlens/internal/cli"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show model status",
		Long:  `Display whether a trained model is loaded, the decision threshold, and the recorded training metrics.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			svc, err := initEngine()
			if err != nil {
				return err
			}

			fmt.Println(cli.RenderStatus(svc.Status()))
			return nil
		},
	}
}
