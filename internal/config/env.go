package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Environment variables read by the CLI.
const (
	EnvDataDir  = "PIDTB_DATA"
	EnvStore    = "PIDTB_STORE"
	EnvLogLevel = "PIDTB_LOG_LEVEL"
)

// Env holds defaults taken from the process environment.
type Env struct {
	DataDir  string
	Store    string
	LogLevel string
}

// LoadEnv merges the given dotenv files into the environment (existing
// variables win, missing files are skipped) and returns the PIDTB_* values.
func LoadEnv(files ...string) (Env, error) {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return Env{}, errors.Wrapf(err, "load %s", f)
		}
	}
	return Env{
		DataDir:  os.Getenv(EnvDataDir),
		Store:    os.Getenv(EnvStore),
		LogLevel: os.Getenv(EnvLogLevel),
	}, nil
}
