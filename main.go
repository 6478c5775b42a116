package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dnldd/krxchart/service"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// handleTermination processes context cancellation signals or interrupt signals from the OS.
func handleTermination(ctx context.Context, cancel context.CancelFunc) {
	// Listen for interrupt signals.
	signals := []os.Signal{os.Interrupt, syscall.SIGTERM}
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, signals...)
	defer signal.Stop(interrupt)

	// Wait for the context to be cancelled or an interrupt signal.
	select {
	case <-ctx.Done():
	case <-interrupt:
		cancel()
	}
}

func main() {
	var cfg Config
	err := loadConfig(&cfg, "")
	if err != nil {
		log.Error().Err(err).Msg("loading config")
		os.Exit(1)
	}

	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	zerolog.SetGlobalLevel(level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	chart, err := service.NewChart(&service.ChartConfig{
		AppKey:          cfg.AppKey,
		SecretKey:       cfg.SecretKey,
		BaseURL:         cfg.BaseURL,
		ProviderTimeout: time.Duration(cfg.ProviderTimeout) * time.Second,
		ListenAddr:      cfg.ListenAddr,
	})
	if err != nil {
		log.Error().Err(err).Msg("creating chart service")
		os.Exit(1)
	}

	go handleTermination(ctx, cancel)

	err = chart.Run(ctx)
	if err != nil {
		log.Error().Err(err).Msg("running chart service")
		os.Exit(1)
	}
}
