package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/charlie0129/ntccal/pkg/calibration"
)

func NewCalibrateCommand() *cobra.Command {
	run := func(cmd *cobra.Command, _ []string) error {
		b, err := getBackend()
		if err != nil {
			return err
		}
		res, err := b.Calibrate()
		if err != nil {
			return fmt.Errorf("failed to calibrate: %w", err)
		}
		printResult(cmd, res)
		return nil
	}

	cmd := &cobra.Command{
		Use:     "calibrate",
		Short:   "Fit both models from the observations",
		GroupID: gBasic,
		Long: `Fit the Steinhart-Hart and Beta models from the configured observations.

The two models are fit independently: if one of them fails, the other one is
still usable. Without a subcommand this is the same as 'calibrate run'.`,
		RunE: run,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Refit both models",
			RunE:  run,
		},
		&cobra.Command{
			Use:   "ensure",
			Short: "Fit only if no complete calibration exists",
			RunE: func(cmd *cobra.Command, _ []string) error {
				b, err := getBackend()
				if err != nil {
					return err
				}
				res, err := b.EnsureCalibrated()
				if err != nil {
					return fmt.Errorf("failed to ensure calibration: %w", err)
				}
				printResult(cmd, res)
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show the current calibration",
			RunE: func(cmd *cobra.Command, _ []string) error {
				b, err := getBackend()
				if err != nil {
					return err
				}
				res, err := b.GetCalibration()
				if err != nil {
					return fmt.Errorf("failed to get calibration: %w", err)
				}
				printResult(cmd, res)
				return nil
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Discard the current calibration",
			RunE: func(cmd *cobra.Command, _ []string) error {
				b, err := getBackend()
				if err != nil {
					return err
				}
				if err := b.ResetCalibration(); err != nil {
					return fmt.Errorf("failed to reset calibration: %w", err)
				}
				cmd.Println("calibration reset")
				return nil
			},
		},
	)

	return cmd
}

func printResult(cmd *cobra.Command, res calibration.Result) {
	cmd.Printf("%s %s (%s)\n", bold("Calibration"), res.ID, res.CalibratedAt.Format(time.RFC3339))

	cmd.Println(bold("Observations:"))
	for i, o := range res.Observations {
		cmd.Printf("  %d. %s\n", i+1, formatObservation(o))
	}

	cmd.Printf("%s %s\n", bold("Steinhart-Hart:"), bool2Text(res.SteinhartHart != nil))
	if sh := res.SteinhartHart; sh != nil {
		cmd.Printf("  A = %.10e 1/K\n", sh.A)
		cmd.Printf("  B = %.10e 1/K\n", sh.B)
		cmd.Printf("  C = %.10e 1/K\n", sh.C)
	} else if res.SteinhartHartErr != nil {
		cmd.Printf("  %v\n", res.SteinhartHartErr)
	}

	cmd.Printf("%s %s\n", bold("Beta:"), bool2Text(res.Beta != nil))
	if b := res.Beta; b != nil {
		cmd.Printf("  beta = %.4f K\n", b.Beta)
		cmd.Printf("  R25  = %.4f Ω\n", b.R25)
	} else if res.BetaErr != nil {
		cmd.Printf("  %v\n", res.BetaErr)
	}
}
