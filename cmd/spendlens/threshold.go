package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spendlens/spendlens/internal/cli"
)

func thresholdCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "threshold [value]",
		Short: "Show or set the decision threshold",
		Long: `Without arguments, print the current decision threshold. With a value,
persist it to the config file. Out-of-range values are clamped into
[0,1], never rejected.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			svc, err := initEngine()
			if err != nil {
				return err
			}

			if len(args) == 0 {
				fmt.Printf("threshold: %.2f\n", svc.Status().Threshold)
				return nil
			}

			t, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid threshold %q: %w", args[0], err)
			}

			svc.SetThreshold(t)
			applied := svc.Status().Threshold

			viper.Set("model.threshold", applied)
			if err := viper.WriteConfig(); err != nil {
				// No config file yet; create one at the default location.
				if err = viper.SafeWriteConfig(); err != nil {
					return fmt.Errorf("failed to persist threshold: %w", err)
				}
			}

			if applied != t {
				fmt.Println(cli.FormatWarning(fmt.Sprintf("threshold %.2f clamped to %.2f", t, applied)))
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("threshold set to %.2f", applied)))
			return nil
		},
	}
}
