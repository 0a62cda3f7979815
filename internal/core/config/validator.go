package config

import (
	"fmt"
	"strings"

	"skiplint/internal/core/errors"

	"github.com/gobwas/glob"
)

const supportedVersion = 1

var (
	validFormats = map[string]bool{"text": true, "json": true, "sarif": true}
	validColors  = map[string]bool{"auto": true, "always": true, "never": true}
)

// Validate checks a configuration after defaults have been applied.
func Validate(cfg *Config) error {
	if cfg.Version != supportedVersion {
		return invalid("version", fmt.Sprintf("unsupported config version %d (expected %d)", cfg.Version, supportedVersion))
	}
	if _, err := cfg.RuleSet(); err != nil {
		return err
	}
	for _, code := range append(append([]string{}, cfg.Lint.Select...), cfg.Lint.Ignore...) {
		if strings.TrimSpace(code) == "" {
			return invalid("lint.select", "code filters must not be empty")
		}
	}
	for _, pattern := range append(append([]string{}, cfg.Paths.ExcludeDirs...), cfg.Paths.ExcludeFiles...) {
		if _, err := glob.Compile(pattern); err != nil {
			return invalid("paths", fmt.Sprintf("invalid exclude pattern %q: %v", pattern, err))
		}
	}
	if cfg.Scan.MaxFileBytes < 0 {
		return invalid("scan.max_file_bytes", "must not be negative")
	}
	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	if !validFormats[cfg.Output.Format] {
		return invalid("output.format", fmt.Sprintf("unknown format %q (text, json, sarif)", cfg.Output.Format))
	}
	cfg.Output.Color = strings.ToLower(strings.TrimSpace(cfg.Output.Color))
	if !validColors[cfg.Output.Color] {
		return invalid("output.color", fmt.Sprintf("unknown color mode %q (auto, always, never)", cfg.Output.Color))
	}
	if cfg.History.Baseline && !cfg.History.Enabled {
		return invalid("history.baseline", "baseline requires history.enabled = true")
	}
	return nil
}

func invalid(key, msg string) error {
	err := &errors.DomainError{Code: errors.CodeValidationError, Message: msg}
	return err.WithContext("key", key)
}
