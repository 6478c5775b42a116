package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dnldd/krxchart/shared"
	"github.com/dnldd/krxchart/view"
	"github.com/rs/zerolog"
)

func run() error {
	var cfg Config
	err := loadConfig(&cfg, "")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// The terminal is owned by the view, logs go to a file.
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	logger := zerolog.New(f).With().Timestamp().Str("service", "chartview").Logger()

	client, err := view.NewClient(cfg.Server, time.Duration(cfg.Timeout)*time.Second)
	if err != nil {
		return err
	}

	model, err := view.NewModel(&view.ModelConfig{
		Fetcher: client,
		Catalog: shared.DefaultCatalog(),
		Logger:  &logger,
	})
	if err != nil {
		return err
	}

	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("running chart view: %w", err)
	}

	return nil
}

func main() {
	err := run()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
