package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dnldd/krxchart/fetch"
	"github.com/dnldd/krxchart/shared"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

// ChartConfig represents the configuration struct for the chart service.
type ChartConfig struct {
	// AppKey is the kiwoom application key.
	AppKey string
	// SecretKey is the kiwoom application secret.
	SecretKey string
	// BaseURL is the kiwoom api base url.
	BaseURL string
	// ProviderTimeout bounds each provider request, zero means no timeout.
	ProviderTimeout time.Duration
	// ListenAddr is the http listen address.
	ListenAddr string
}

// Validate asserts the config sane inputs.
func (cfg *ChartConfig) Validate() error {
	var errs error

	if cfg.ListenAddr == "" {
		errs = errors.Join(errs, fmt.Errorf("listen address cannot be an empty string"))
	}
	if cfg.ProviderTimeout < 0 {
		errs = errors.Join(errs, fmt.Errorf("provider timeout cannot be negative"))
	}

	u, err := url.Parse(cfg.BaseURL)
	switch {
	case err != nil:
		errs = errors.Join(errs, fmt.Errorf("invalid provider base url: %w", err))
	case u.Scheme == "" || u.Host == "":
		errs = errors.Join(errs, fmt.Errorf("provider base url requires a scheme and host"))
	}

	return errs
}

// Chart represents the chart data service.
type Chart struct {
	cfg     ChartConfig
	handler *Handler
	server  *Server
	logger  *zerolog.Logger
}

// NewChart initializes a new chart service.
func NewChart(cfg *ChartConfig) (*Chart, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating chart config: %w", err)
	}

	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	logger := log.With().Str("service", "chart").Logger()

	if cfg.AppKey == "" || cfg.SecretKey == "" {
		logger.Warn().Msg("kiwoom app key or secret is empty, provider requests will be rejected")
	}

	kiwoom, err := fetch.NewKiwoomClient(&fetch.KiwoomConfig{
		AppKey:    cfg.AppKey,
		SecretKey: cfg.SecretKey,
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.ProviderTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("creating kiwoom client: %w", err)
	}

	quote, err := NewQuote(&QuoteConfig{
		Fetcher: kiwoom,
		Now: func() time.Time {
			now, _, err := shared.SeoulTime()
			if err != nil {
				return time.Now()
			}
			return now
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating quote service: %w", err)
	}

	handlerLogger := logger.With().Str("component", "handler").Logger()
	handler, err := NewHandler(&HandlerConfig{
		Quote:   quote,
		Catalog: shared.DefaultCatalog(),
		Logger:  &handlerLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating handler: %w", err)
	}

	serverLogger := logger.With().Str("component", "server").Logger()
	server := NewServer(&ServerConfig{
		Addr:    cfg.ListenAddr,
		Handler: handler.Routes(),
		Logger:  &serverLogger,
	})

	return &Chart{
		cfg:     *cfg,
		handler: handler,
		server:  server,
		logger:  &logger,
	}, nil
}

// Run handles the lifecycle processes of the chart service.
func (c *Chart) Run(ctx context.Context) error {
	c.logger.Info().Msgf("serving charts from %s", c.cfg.BaseURL)

	return c.server.Run(ctx)
}
