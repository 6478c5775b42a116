package main

import (
	"flag"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// clearEnv unsets the config environment variables for the duration of the test.
func clearEnv(t *testing.T) {
	for _, k := range []string{"CHART_SERVER", "CHART_LOG_FILE", "CHART_TIMEOUT"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr []string
	}{
		{
			name:    "valid config",
			cfg:     Config{Server: defaultServer, LogFile: defaultLogFile, Timeout: 30},
			wantErr: nil,
		},
		{
			name:    "relative server url",
			cfg:     Config{Server: "localhost:3000", LogFile: defaultLogFile},
			wantErr: []string{"chart server url requires a scheme and host"},
		},
		{
			name: "missing log file and negative timeout",
			cfg:  Config{Server: defaultServer, Timeout: -1},
			wantErr: []string{
				"log file cannot be an empty string",
				"timeout cannot be negative",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Errorf("expected no error, got: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error(s) %v, got none", tt.wantErr)
			}
			for _, want := range tt.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("expected error to contain %q, got %v", want, err)
				}
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	origArgs := os.Args
	defer func() {
		os.Args = origArgs
	}()

	tests := []struct {
		name        string
		env         map[string]string
		args        []string
		expectErr   bool
		expectInErr []string
		expectCfg   Config
	}{
		{
			name:      "defaults",
			env:       map[string]string{},
			args:      []string{"cmd"},
			expectCfg: Config{Server: defaultServer, LogFile: defaultLogFile, Timeout: 30},
		},
		{
			name: "all from env",
			env: map[string]string{
				"CHART_SERVER":   "http://charts.internal:8080",
				"CHART_LOG_FILE": "/tmp/view.log",
				"CHART_TIMEOUT":  "5",
			},
			args:      []string{"cmd"},
			expectCfg: Config{Server: "http://charts.internal:8080", LogFile: "/tmp/view.log", Timeout: 5},
		},
		{
			name:      "flags override env",
			env:       map[string]string{"CHART_SERVER": "http://charts.internal:8080"},
			args:      []string{"cmd", "-server=http://127.0.0.1:3000", "-timeout=0"},
			expectCfg: Config{Server: "http://127.0.0.1:3000", LogFile: defaultLogFile, Timeout: 0},
		},
		{
			name:        "invalid timeout env",
			env:         map[string]string{"CHART_TIMEOUT": "soon"},
			args:        []string{"cmd"},
			expectErr:   true,
			expectInErr: []string{"CHART_TIMEOUT"},
		},
		{
			name:        "invalid server",
			env:         map[string]string{"CHART_SERVER": "charts"},
			args:        []string{"cmd"},
			expectErr:   true,
			expectInErr: []string{"chart server url requires a scheme and host"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset flags for each test.
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)

			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			os.Args = tt.args

			var cfg Config
			err := loadConfig(&cfg, "testdata/missing.env")

			if tt.expectErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				for _, want := range tt.expectInErr {
					if !strings.Contains(err.Error(), want) {
						t.Errorf("expected error to contain %q, got %v", want, err)
					}
				}
				return
			}

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !cmp.Equal(cfg, tt.expectCfg, cmpopts.IgnoreUnexported(Config{})) {
				t.Errorf("mismatching config, got %v", cmp.Diff(cfg, tt.expectCfg, cmpopts.IgnoreUnexported(Config{})))
			}
		})
	}
}
