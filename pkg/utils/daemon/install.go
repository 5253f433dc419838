package daemon

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"text/template"

	"github.com/sirupsen/logrus"
)

var (
	unitName = "ntccal.service"
	unitPath = "/etc/systemd/system/" + unitName
)

var unitTemplate = template.Must(template.New("unit").Parse(`[Unit]
Description=ntccal thermistor calibration daemon
After=local-fs.target

[Service]
Type=simple
ExecStart={{ .ExecPath }} daemon --config={{ .ConfigPath }} --daemon-socket={{ .SocketPath }}{{ if .AllowNonRoot }} --always-allow-non-root-access{{ end }}
ExecReload=/bin/kill -HUP $MAINPID
Restart=on-failure
RestartSec=2

[Install]
WantedBy=multi-user.target
`))

// UnitOptions fills in the systemd unit.
type UnitOptions struct {
	ExecPath     string
	ConfigPath   string
	SocketPath   string
	AllowNonRoot bool
}

// RenderUnit returns the systemd unit file for opts.
func RenderUnit(opts UnitOptions) (string, error) {
	if opts.ExecPath == "" || opts.ConfigPath == "" || opts.SocketPath == "" {
		return "", fmt.Errorf("executable, config and socket paths are required")
	}
	var buf bytes.Buffer
	if err := unitTemplate.Execute(&buf, opts); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", unitName, err)
	}
	return buf.String(), nil
}

// Install writes the systemd unit for the current executable and starts it.
func Install(configPath, socketPath string, allowNonRoot bool) error {
	// Get the path to the current executable
	exePath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get the path to the current executable: %w", err)
	}
	exePath, err = filepath.Abs(exePath)
	if err != nil {
		return fmt.Errorf("failed to get the absolute path to the current executable: %w", err)
	}

	err = os.Chmod(exePath, 0755)
	if err != nil {
		return fmt.Errorf("failed to chmod the current executable to 0755: %w", err)
	}

	logrus.Infof("current executable path: %s", exePath)

	unit, err := RenderUnit(UnitOptions{
		ExecPath:     exePath,
		ConfigPath:   configPath,
		SocketPath:   socketPath,
		AllowNonRoot: allowNonRoot,
	})
	if err != nil {
		return err
	}

	logrus.Infof("writing systemd unit to %s", unitPath)

	err = os.MkdirAll(filepath.Dir(unitPath), 0755)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(unitPath), err)
	}

	// warn if the file already exists
	_, err = os.Stat(unitPath)
	if err == nil {
		logrus.Warnf("%s already exists, overwriting", unitPath)
	}

	err = os.WriteFile(unitPath, []byte(unit), 0644)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", unitPath, err)
	}

	logrus.Infof("starting ntccal")

	if err := systemctl("daemon-reload"); err != nil {
		return err
	}
	return systemctl("enable", "--now", unitName)
}

func systemctl(args ...string) error {
	out, err := exec.Command("systemctl", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("systemctl %v failed: %w: %s", args, err, bytes.TrimSpace(out))
	}
	return nil
}
