package main

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/charlie0129/ntccal/pkg/calibration"
	"github.com/charlie0129/ntccal/pkg/config"
	"github.com/charlie0129/ntccal/pkg/numparse"
	"github.com/charlie0129/ntccal/pkg/utils/ptr"
)

func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Show or change the configuration",
		GroupID: gAdvanced,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Print the effective configuration as JSON",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				b, err := getBackend()
				if err != nil {
					return err
				}
				raw, err := b.GetConfig()
				if err != nil {
					return fmt.Errorf("failed to get config: %w", err)
				}
				return printJSON(cmd, raw)
			},
		},
		newConfigSetCommand(),
	)

	return cmd
}

func newConfigSetCommand() *cobra.Command {
	var (
		model        string
		curveMin     string
		curveMax     string
		curvePoints  int
		series       string
		resolution   string
		allowNonRoot bool
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change configuration values",
		Long: `Change configuration values. Only the flags given are changed.

Observations are changed with 'ntccal observations set'. --allow-non-root-access
takes effect when the daemon restarts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := cmd.Flags()
			u := &config.RawFileConfig{}

			if f.Changed("model") {
				m, err := calibration.ParseModel(model)
				if err != nil {
					return err
				}
				u.DefaultModel = ptr.To(string(m))
			}
			for _, nf := range []struct {
				flag  string
				value string
				dst   **float64
			}{
				{"curve-min", curveMin, &u.CurveMin},
				{"curve-max", curveMax, &u.CurveMax},
				{"series", series, &u.SeriesResistance},
				{"resolution", resolution, &u.ADCResolution},
			} {
				if !f.Changed(nf.flag) {
					continue
				}
				v, err := numparse.ParseFloat(nf.value)
				if err != nil {
					return fmt.Errorf("invalid --%s: %w", nf.flag, err)
				}
				*nf.dst = &v
			}
			if f.Changed("curve-points") {
				u.CurvePoints = &curvePoints
			}
			if f.Changed("allow-non-root-access") {
				u.AllowNonRootAccess = &allowNonRoot
			}

			changed := false
			cmd.LocalNonPersistentFlags().VisitAll(func(fl *pflag.Flag) {
				changed = changed || fl.Changed
			})
			if !changed {
				return fmt.Errorf("nothing to change, see 'ntccal config set --help'")
			}

			b, err := getBackend()
			if err != nil {
				return err
			}
			raw, err := b.SetConfig(u)
			if err != nil {
				return fmt.Errorf("failed to set config: %w", err)
			}

			logrus.Info("successfully updated config")
			return printJSON(cmd, raw)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&model, "model", "m", "", "default model: steinhart-hart (sh) or beta (b)")
	f.StringVar(&curveMin, "curve-min", "", "lowest curve temperature in °C")
	f.StringVar(&curveMax, "curve-max", "", "highest curve temperature in °C")
	f.IntVar(&curvePoints, "curve-points", 0, "number of curve samples")
	f.StringVar(&series, "series", "", "series resistor in ohms")
	f.StringVar(&resolution, "resolution", "", "full-scale ADC count")
	f.BoolVar(&allowNonRoot, "allow-non-root-access", false, "let non-root users reach the daemon socket")

	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
