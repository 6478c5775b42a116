package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dnldd/krxchart/fetch"
	"github.com/peterldowns/testy/assert"
)

func TestChartConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ChartConfig
		wantErr []string
	}{
		{
			name: "valid config",
			cfg: ChartConfig{
				AppKey:     "key",
				SecretKey:  "secret",
				BaseURL:    fetch.DefaultBaseURL,
				ListenAddr: ":3000",
			},
		},
		{
			name: "missing credentials are allowed",
			cfg: ChartConfig{
				BaseURL:    fetch.DefaultBaseURL,
				ListenAddr: ":3000",
			},
		},
		{
			name: "missing listen address",
			cfg: ChartConfig{
				BaseURL: fetch.DefaultBaseURL,
			},
			wantErr: []string{"listen address cannot be an empty string"},
		},
		{
			name: "negative timeout and relative base url",
			cfg: ChartConfig{
				BaseURL:         "/api",
				ListenAddr:      ":3000",
				ProviderTimeout: -time.Second,
			},
			wantErr: []string{
				"provider timeout cannot be negative",
				"provider base url requires a scheme and host",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}

			assert.Error(t, err)
			for _, want := range tt.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("expected error to contain %q, got %v", want, err)
				}
			}
		})
	}
}

func TestChartGracefulShutdown(t *testing.T) {
	chart, err := NewChart(&ChartConfig{
		BaseURL:    fetch.DefaultBaseURL,
		ListenAddr: "127.0.0.1:0",
	})
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Ensure the chart service can be run and gracefully terminated.
	time.AfterFunc(time.Millisecond*200, cancel)

	done := make(chan error, 1)
	go func() {
		done <- chart.Run(ctx)
	}()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second * 5):
		t.Fatal("timed out waiting for chart service shutdown")
	}

	// Ensure invalid configs are rejected.
	_, err = NewChart(&ChartConfig{})
	assert.Error(t, err)
}
