package main

import (
	"errors"
	"fmt"

	"github.com/dnldd/krxchart/fetch"
	"github.com/dnldd/krxchart/shared"
	"github.com/rs/zerolog"
)

const (
	defaultListenAddr = ":3000"
	defaultLogLevel   = "info"
)

// Config is the configuration struct for the service.
type Config struct {
	// AppKey is the kiwoom application key.
	AppKey string
	// SecretKey is the kiwoom application secret.
	SecretKey string
	// BaseURL is the kiwoom api base url.
	BaseURL string
	// ListenAddr is the http listen address.
	ListenAddr string
	// ProviderTimeout is the provider request timeout in seconds, zero disables it.
	ProviderTimeout int
	// LogLevel is the minimum level of emitted logs.
	LogLevel string

	flags shared.FlagRegistry
}

// Validate asserts the config sane inputs.
func (cfg *Config) Validate() error {
	var errs error

	if cfg.ListenAddr == "" {
		errs = errors.Join(errs, fmt.Errorf("listen address cannot be an empty string"))
	}
	if cfg.BaseURL == "" {
		errs = errors.Join(errs, fmt.Errorf("kiwoom base url cannot be an empty string"))
	}
	if cfg.ProviderTimeout < 0 {
		errs = errors.Join(errs, fmt.Errorf("provider timeout cannot be negative"))
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		errs = errors.Join(errs, fmt.Errorf("invalid log level: %w", err))
	}

	return errs
}

// loadConfig loads the configuration from environment variables and command line flags.
func loadConfig(cfg *Config, path string) error {
	err := cfg.flags.Load(path, []shared.FlagSpec{
		{Name: "appkey", Env: "KIWOOM_APP_KEY", Value: &cfg.AppKey, Usage: "the kiwoom app key"},
		{Name: "secretkey", Env: "KIWOOM_SECRET_KEY", Value: &cfg.SecretKey, Usage: "the kiwoom secret key"},
		{Name: "baseurl", Env: "KIWOOM_BASE_URL", Value: &cfg.BaseURL, Default: fetch.DefaultBaseURL,
			Usage: "the kiwoom api base url"},
		{Name: "listen", Env: "LISTEN_ADDR", Value: &cfg.ListenAddr, Default: defaultListenAddr,
			Usage: "the http listen address"},
		{Name: "providertimeout", Env: "PROVIDER_TIMEOUT", Value: &cfg.ProviderTimeout, Default: "0",
			Usage: "the provider request timeout in seconds"},
		{Name: "loglevel", Env: "LOG_LEVEL", Value: &cfg.LogLevel, Default: defaultLogLevel,
			Usage: "the log level"},
	})
	if err != nil {
		return err
	}

	return cfg.Validate()
}
