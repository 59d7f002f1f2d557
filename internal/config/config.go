// Package config loads service settings from the environment and flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds the iodine tracker settings. Flags override environment
// values.
type Config struct {
	Host    string `env:"IODINE_HOST" envDefault:"0.0.0.0"`
	Port    int    `env:"IODINE_PORT" envDefault:"8011"`
	DBPath  string `env:"IODINE_DB_PATH" envDefault:"data/iodine.db"`
	CSVPath string `env:"IODINE_CSV_PATH" envDefault:"data/iodine_data.csv"`
	Env     string `env:"IODINE_ENV" envDefault:"development"`
	Version bool
}

// ParseConfig reads environment defaults and then the command-line flags.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	if fs == nil {
		return Config{}, errors.New("flag parser is required")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs.StringVar(&cfg.Host, "host", cfg.Host, "Host address")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "Port for HTTP transport")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "Database path")
	fs.StringVar(&cfg.CSVPath, "csv-path", cfg.CSVPath, "Iodine dataset used to seed an empty catalog")
	fs.StringVar(&cfg.Env, "env", cfg.Env, "Runtime environment: development or production")
	fs.BoolVar(&cfg.Version, "version", false, "Show version")
	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Version {
		return cfg, nil
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return Config{}, errors.New("db-path is required")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("port %d is out of range", cfg.Port)
	}
	return cfg, nil
}

// Address returns the host:port listen address.
func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
