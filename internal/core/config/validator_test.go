package config

import (
	"strings"
	"testing"

	"skiplint/internal/core/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantKey string
	}{
		{"version", func(c *Config) { c.Version = 2 }, "unsupported config version"},
		{"empty select", func(c *Config) { c.Lint.Select = []string{" "} }, "code filters"},
		{"bad glob", func(c *Config) { c.Paths.ExcludeFiles = []string{"[abc"} }, "invalid exclude pattern"},
		{"negative size", func(c *Config) { c.Scan.MaxFileBytes = -1 }, "must not be negative"},
		{"format", func(c *Config) { c.Output.Format = "xml" }, "unknown format"},
		{"color", func(c *Config) { c.Output.Color = "rainbow" }, "unknown color mode"},
		{"baseline without history", func(c *Config) { c.History.Baseline = true }, "baseline requires"},
		{"blank override keeps profile", func(c *Config) { c.Lint.CodePrefix = "  " }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			if err == nil {
				if tt.wantKey != "" {
					t.Fatalf("expected error containing %q", tt.wantKey)
				}
				return
			}
			if !errors.IsCode(err, errors.CodeValidationError) {
				t.Fatalf("expected VALIDATION_ERROR, got %v", err)
			}
			if tt.wantKey != "" && !strings.Contains(err.Error(), tt.wantKey) {
				t.Errorf("expected %q in %v", tt.wantKey, err)
			}
		})
	}
}

func TestValidate_NormalizesOutput(t *testing.T) {
	cfg := Default()
	cfg.Output.Format = " JSON "
	cfg.Output.Color = "Always"
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if cfg.Output.Format != "json" || cfg.Output.Color != "always" {
		t.Errorf("expected normalized output, got %+v", cfg.Output)
	}
}

func TestValidate_BaselineWithHistory(t *testing.T) {
	cfg := Default()
	cfg.History.Enabled = true
	cfg.History.Baseline = true
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}
