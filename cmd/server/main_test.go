package main

import (
	"flag"
	"io"
	"testing"

	"github.com/baditaflorin/go_sign_similarity/internal/config"
)

func TestServerFlagsWarmUp(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		configured bool
		want       bool
	}{
		{"config off, flag absent", nil, false, false},
		{"config on, flag absent", nil, true, true},
		{"config off, flag on", []string{"-warm-up"}, false, true},
		{"config on, flag off", []string{"-warm-up=false"}, true, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fs := flag.NewFlagSet("server", flag.ContinueOnError)
			fs.SetOutput(io.Discard)
			flags, err := parseFlags(fs, tc.args)
			if err != nil {
				t.Fatalf("parseFlags: %v", err)
			}

			cfg := config.Default()
			cfg.Batch.WarmUp = tc.configured
			cfg.Batch.Progress = true
			flags.apply(&cfg)

			if cfg.Batch.WarmUp != tc.want {
				t.Errorf("WarmUp = %v, want %v", cfg.Batch.WarmUp, tc.want)
			}
			if cfg.Batch.Progress {
				t.Error("progress bars should be disabled for the server")
			}
		})
	}
}

func TestServerFlagsOverrides(t *testing.T) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	flags, err := parseFlags(fs, []string{"-addr", ":9090", "-log-file", "server.log", "-concurrency", "8"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}

	cfg := config.Default()
	flags.apply(&cfg)
	if cfg.Server.Address != ":9090" || cfg.Logging.File != "server.log" || flags.concurrency != 8 {
		t.Errorf("overrides not applied: %+v %+v", cfg.Server, cfg.Logging)
	}

	bad := flag.NewFlagSet("server", flag.ContinueOnError)
	bad.SetOutput(io.Discard)
	if _, err := parseFlags(bad, []string{"-bogus"}); err == nil {
		t.Error("expected error for unknown flag")
	}
}
