package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/charlie0129/ntccal/pkg/calibration"
	"github.com/charlie0129/ntccal/pkg/config"
	"github.com/charlie0129/ntccal/pkg/numparse"
)

func newConvertCommand(use, short string, d calibration.Direction, valueName string) *cobra.Command {
	model := ""

	cmd := &cobra.Command{
		Use:     use,
		Short:   short,
		Long: short + `.

Either ',' or '.' may be the decimal separator. Negative values must follow
'--', e.g. 'ntccal t2r -- -10'.`,
		GroupID: gConversion,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseFloatArg(args, valueName)
			if err != nil {
				return err
			}
			m, err := parseModelFlag(model)
			if err != nil {
				return err
			}

			b, err := getBackend()
			if err != nil {
				return err
			}
			ev, err := b.Evaluate(m, d, v)
			if err != nil {
				return fmt.Errorf("failed to convert %g: %w", v, err)
			}

			cmd.Printf("%s %s (%s)\n", bold("%.4f", ev.Value), ev.Unit, ev.Model)
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "model to use: steinhart-hart (sh) or beta; defaults to the configured model")

	return cmd
}

func NewR2TCommand() *cobra.Command {
	return newConvertCommand("r2t <ohms>", "Convert a resistance to a temperature", calibration.ResistanceToTemperature, "resistance")
}

func NewT2RCommand() *cobra.Command {
	return newConvertCommand("t2r <celsius>", "Convert a temperature to a resistance", calibration.TemperatureToResistance, "temperature")
}

func NewADCCommand() *cobra.Command {
	var (
		model      string
		series     string
		resolution string
	)

	cmd := &cobra.Command{
		Use:     "adc <count>",
		Short:   "Convert a raw ADC reading to a temperature",
		GroupID: gConversion,
		Long: `Convert a raw ADC reading to a temperature.

The thermistor is assumed to sit between Vcc and the ADC input, with the series
resistor between the ADC input and ground. --series and --resolution default
to the configured divider.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reading, err := parseFloatArg(args, "adc reading")
			if err != nil {
				return err
			}
			m, err := parseModelFlag(model)
			if err != nil {
				return err
			}

			b, err := getBackend()
			if err != nil {
				return err
			}
			raw, err := b.GetConfig()
			if err != nil {
				return fmt.Errorf("failed to get config: %w", err)
			}

			divider := config.NewFileFromConfig(raw, "").Divider()
			if cmd.Flags().Changed("series") {
				if divider.SeriesResistance, err = numparse.ParseFloat(series); err != nil {
					return fmt.Errorf("invalid series resistance: %w", err)
				}
			}
			if cmd.Flags().Changed("resolution") {
				if divider.Resolution, err = numparse.ParseFloat(resolution); err != nil {
					return fmt.Errorf("invalid resolution: %w", err)
				}
			}

			r, err := divider.Resistance(reading)
			if err != nil {
				return fmt.Errorf("failed to convert reading %g: %w", reading, err)
			}
			ev, err := b.Evaluate(m, calibration.ResistanceToTemperature, r)
			if err != nil {
				return fmt.Errorf("failed to convert %g Ω: %w", r, err)
			}

			cmd.Printf("%s Ω\n", bold("%.2f", r))
			cmd.Printf("%s %s (%s)\n", bold("%.4f", ev.Value), ev.Unit, ev.Model)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&model, "model", "m", "", "model to use: steinhart-hart (sh) or beta; defaults to the configured model")
	f.StringVar(&series, "series", "", "series resistor in ohms")
	f.StringVar(&resolution, "resolution", "", "full-scale ADC count, e.g. 1023 or 4095")

	return cmd
}
