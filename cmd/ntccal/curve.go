package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/charlie0129/ntccal/pkg/config"
	"github.com/charlie0129/ntccal/pkg/curve"
	"github.com/charlie0129/ntccal/pkg/numparse"
)

func NewCurveCommand() *cobra.Command {
	var (
		minC     string
		maxC     string
		points   int
		jsonMode bool
	)

	cmd := &cobra.Command{
		Use:     "curve",
		Short:   "Tabulate resistance against temperature for both models",
		GroupID: gBasic,
		Long: `Tabulate resistance against temperature for both models.

The range defaults to the configured one. An empty or inverted range is widened
to one degree.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := getBackend()
			if err != nil {
				return err
			}

			var r *curve.Range
			f := cmd.Flags()
			if f.Changed("min") || f.Changed("max") || f.Changed("points") {
				raw, err := b.GetConfig()
				if err != nil {
					return fmt.Errorf("failed to get config: %w", err)
				}
				rng := config.NewFileFromConfig(raw, "").CurveRange()
				if f.Changed("min") {
					if rng.MinC, err = numparse.ParseFloat(minC); err != nil {
						return fmt.Errorf("invalid --min: %w", err)
					}
				}
				if f.Changed("max") {
					if rng.MaxC, err = numparse.ParseFloat(maxC); err != nil {
						return fmt.Errorf("invalid --max: %w", err)
					}
				}
				if f.Changed("points") {
					rng.Points = points
				}
				r = &rng
			}

			t, err := b.GetCurve(r)
			if err != nil {
				return fmt.Errorf("failed to get curve: %w", err)
			}

			if jsonMode {
				return printJSON(cmd, t)
			}

			printTable(cmd, t)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&minC, "min", "", "lowest temperature in °C")
	f.StringVar(&maxC, "max", "", "highest temperature in °C")
	f.IntVar(&points, "points", curve.DefaultPoints, "number of samples, both ends included")
	f.BoolVar(&jsonMode, "json", false, "print JSON")

	return cmd
}

func printTable(cmd *cobra.Command, t curve.Table) {
	names := t.Names()

	cmd.Print(bold("%10s", "T (°C)"))
	for _, n := range names {
		cmd.Print(bold("  %18s", n+" (Ω)"))
	}
	cmd.Println()

	temps := t.Range.Temperatures()
	for i, temp := range temps {
		cmd.Printf("%10.3f", temp)
		for _, n := range names {
			pts := t.Curves[n]
			if i < len(pts) {
				cmd.Printf("  %18.3f", pts[i].ResistanceOhm)
			}
		}
		cmd.Println()
	}
}
