package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/ntccal/pkg/calibration"
)

func NewExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "export [path]",
		Short:   "Write the coefficients of both models as JSON",
		GroupID: gBasic,
		Long: fmt.Sprintf(`Write the coefficients of both models as JSON.

The file defaults to %s in the current directory. Use '-' for stdout. Both
models must be calibrated.`, calibration.DefaultExportFile),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := calibration.DefaultExportFile
			if len(args) == 1 {
				path = args[0]
			}

			b, err := getBackend()
			if err != nil {
				return err
			}
			doc, err := b.GetCoefficients()
			if err != nil {
				return fmt.Errorf("failed to export coefficients: %w", err)
			}

			data, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode coefficients: %w", err)
			}
			data = append(data, '\n')

			if path == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			if err := os.WriteFile(path, data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			logrus.Infof("coefficients written to %s", path)
			return nil
		},
	}
}
