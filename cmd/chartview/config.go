package main

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/dnldd/krxchart/shared"
)

const (
	defaultServer  = "http://localhost:3000"
	defaultLogFile = "chartview.log"
	defaultTimeout = "30"
)

// Config is the configuration struct for the chart view.
type Config struct {
	// Server is the chart server url.
	Server string
	// LogFile is the file logs are written to.
	LogFile string
	// Timeout is the chart request timeout in seconds, zero disables it.
	Timeout int

	flags shared.FlagRegistry
}

// Validate asserts the config sane inputs.
func (cfg *Config) Validate() error {
	var errs error

	u, err := url.Parse(cfg.Server)
	switch {
	case err != nil:
		errs = errors.Join(errs, fmt.Errorf("invalid chart server url: %w", err))
	case u.Scheme == "" || u.Host == "":
		errs = errors.Join(errs, fmt.Errorf("chart server url requires a scheme and host"))
	}
	if cfg.LogFile == "" {
		errs = errors.Join(errs, fmt.Errorf("log file cannot be an empty string"))
	}
	if cfg.Timeout < 0 {
		errs = errors.Join(errs, fmt.Errorf("timeout cannot be negative"))
	}

	return errs
}

// loadConfig loads the configuration from environment variables and command line flags.
func loadConfig(cfg *Config, path string) error {
	err := cfg.flags.Load(path, []shared.FlagSpec{
		{Name: "server", Env: "CHART_SERVER", Value: &cfg.Server, Default: defaultServer,
			Usage: "the chart server url"},
		{Name: "logfile", Env: "CHART_LOG_FILE", Value: &cfg.LogFile, Default: defaultLogFile,
			Usage: "the log file"},
		{Name: "timeout", Env: "CHART_TIMEOUT", Value: &cfg.Timeout, Default: defaultTimeout,
			Usage: "the chart request timeout in seconds"},
	})
	if err != nil {
		return err
	}

	return cfg.Validate()
}
