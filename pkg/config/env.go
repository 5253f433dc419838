package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	EnvPrefix = "NTCCAL"

	DefaultConfigPath = "/etc/ntccal.json"
	DefaultSocketPath = "/var/run/ntccal.sock"
)

// Env holds process-level settings read from NTCCAL_* variables. The CLI uses
// them as flag defaults.
type Env struct {
	LogLevel string `split_words:"true" default:"info" validate:"oneof=trace debug info warn warning error fatal panic"`
	Config   string `default:"/etc/ntccal.json" validate:"required"`
	Socket   string `default:"/var/run/ntccal.sock" validate:"required"`
	Local    bool   `default:"false"`
}

// LoadEnv reads dotenvFiles (if present, never overriding the real
// environment) and then the NTCCAL_* variables.
func LoadEnv(dotenvFiles ...string) (*Env, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, pkgerrors.Wrapf(err, "failed to load %s", f)
		}
		logrus.WithField("file", f).Debug("loaded dotenv file")
	}

	var e Env
	if err := envconfig.Process(EnvPrefix, &e); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to process environment")
	}
	if err := validate.Struct(&e); err != nil {
		return nil, pkgerrors.Wrap(err, "invalid environment")
	}

	return &e, nil
}
