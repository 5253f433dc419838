package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/ntccal/pkg/thermistor"
)

func NewObservationsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "observations",
		Aliases: []string{"obs"},
		Short:   "Show or replace the calibration observations",
		GroupID: gBasic,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Print the configured observations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				b, err := getBackend()
				if err != nil {
					return err
				}
				obs, err := b.GetObservations()
				if err != nil {
					return fmt.Errorf("failed to get observations: %w", err)
				}

				cmd.Println(bold("Observations:"))
				for i, o := range obs {
					cmd.Printf("  %d. %s\n", i+1, formatObservation(o))
				}
				return nil
			},
		},
		newObservationsSetCommand(),
	)

	return cmd
}

func newObservationsSetCommand() *cobra.Command {
	var resistances, temperatures []string

	cmd := &cobra.Command{
		Use:   "set [R:T...]",
		Short: "Replace the observations",
		Long: `Replace the observations with resistance:temperature pairs, in ohms and °C.

Steinhart-Hart needs exactly three pairs, Beta needs at least two. Either ',' or
'.' may be the decimal separator, e.g. 'ntccal observations set 25000:5 10000:25 4000:45'.

The values may also be given as two lists, paired in order:
'ntccal observations set -r 25000 -r 10000 -t 5 -t 25'. Negative temperatures
are easier to pass this way.

The current calibration is discarded.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			lists := f.Changed("resistance") || f.Changed("temperature")

			var obs []thermistor.Observation
			var err error
			switch {
			case lists && len(args) > 0:
				return fmt.Errorf("give either R:T pairs or --resistance/--temperature, not both")
			case lists:
				obs, err = parseLists(resistances, temperatures)
			default:
				obs, err = parsePairs(args)
			}
			if err != nil {
				return err
			}

			b, err := getBackend()
			if err != nil {
				return err
			}
			if err := b.SetObservations(obs); err != nil {
				return fmt.Errorf("failed to set observations: %w", err)
			}

			logrus.Infof("successfully set %d observations", len(obs))
			return nil
		},
	}

	// StringArray, not StringSlice: a comma may be a decimal separator.
	cmd.Flags().StringArrayVarP(&resistances, "resistance", "r", nil, "resistance in ohms, repeatable")
	cmd.Flags().StringArrayVarP(&temperatures, "temperature", "t", nil, "temperature in °C, repeatable")

	return cmd
}
