package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/charlie0129/ntccal/pkg/client"
	"github.com/charlie0129/ntccal/pkg/config"
	"github.com/charlie0129/ntccal/pkg/version"
)

var (
	logLevel       = "info"
	unixSocketPath = config.DefaultSocketPath
	configPath     = config.DefaultConfigPath
	localMode      = false
)

var (
	gBasic        = "Basic:"
	gConversion   = "Conversion:"
	gAdvanced     = "Advanced:"
	gInstallation = "Installation:"
	commandGroups = []string{
		gBasic,
		gConversion,
		gAdvanced,
		gInstallation,
	}
)

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

func handleCmdError(err error) {
	if errors.Is(err, client.ErrDaemonNotRunning) {
		fmt.Fprintln(os.Stderr, "\nError: ntccal daemon is not running")
		fmt.Fprintln(os.Stderr, "Is the daemon running? Have you installed it? Most commands also work with '--local'.")
	} else if errors.Is(err, client.ErrPermissionDenied) {
		fmt.Fprintln(os.Stderr, "\nError: Permission Denied")
		fmt.Fprintln(os.Stderr, "  - Try running the command again with 'sudo'")
		fmt.Fprintln(os.Stderr, "  - Or reinstall the daemon with the '--allow-non-root-access' flag to grant permissions to your user")
		fmt.Fprintln(os.Stderr, "  - Or skip the daemon with '--local'")
	}
}

func main() {
	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}

// applyEnv turns NTCCAL_* variables into flag defaults.
func applyEnv() {
	env, err := config.LoadEnv()
	if err != nil {
		logrus.WithError(err).Warn("ignoring environment overrides")
		return
	}
	logLevel = env.LogLevel
	configPath = env.Config
	unixSocketPath = env.Socket
	localMode = env.Local
}

func NewCommand() *cobra.Command {
	applyEnv()

	cmd := &cobra.Command{
		Use:   "ntccal",
		Short: "ntccal calibrates NTC thermistors from measured resistance/temperature pairs",
		Long: `ntccal calibrates NTC thermistors from measured resistance/temperature pairs.

It fits both a Steinhart-Hart model (exactly three points) and a Beta model
(two or more points), converts between resistance and temperature with either
of them, and exports the coefficients as JSON.

Commands talk to the ntccal daemon when it is running and calibrate in-process
otherwise. Use --local to never contact the daemon.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			err := setupLogger()
			if err != nil {
				return err
			}

			if localMode {
				return nil
			}

			if clientVersion, daemonVersion, err := getVersion(); err == nil {
				if daemonVersion != clientVersion {
					logrus.WithFields(logrus.Fields{
						"clientVersion": clientVersion,
						"daemonVersion": daemonVersion,
					}).Warn("Version mismatch between client and daemon. Reinstall the daemon with this binary to keep them in sync.")
				}
			} else if errors.Is(err, client.ErrNotFound) {
				logrus.Error("ntccal daemon is too old to report its version. Reinstall the daemon with this binary.")
			}

			return nil
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", logLevel, "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&configPath, "config", configPath, "config file path")
	globalFlags.StringVar(&unixSocketPath, "daemon-socket", unixSocketPath, "ntccal daemon unix socket path")
	globalFlags.BoolVar(&localMode, "local", localMode, "calibrate in-process instead of asking the daemon")

	for _, i := range commandGroups {
		cmd.AddGroup(&cobra.Group{
			ID:    i,
			Title: i,
		})
	}

	cmd.AddCommand(
		NewDaemonCommand(),
		NewVersionCommand(),
		NewObservationsCommand(),
		NewConfigCommand(),
		NewCalibrateCommand(),
		NewR2TCommand(),
		NewT2RCommand(),
		NewADCCommand(),
		NewExportCommand(),
		NewCurveCommand(),
		NewWatchCommand(),
		NewInstallCommand(),
		NewUninstallCommand(),
	)

	return cmd
}

func getVersion() (string, string, error) {
	daemonVersion, err := client.NewClient(unixSocketPath).GetVersion()
	if err != nil {
		return version.Version, "", err
	}
	return version.Version, daemonVersion, nil
}
