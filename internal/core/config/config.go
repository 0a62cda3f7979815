package config

import (
	"time"
)

const DefaultFile = "skiplint.toml"

type Config struct {
	Version       int           `toml:"version"`
	Lint          Lint          `toml:"lint"`
	Paths         Paths         `toml:"paths"`
	Scan          Scan          `toml:"scan"`
	Output        Output        `toml:"output"`
	Watch         Watch         `toml:"watch"`
	History       History       `toml:"history"`
	Observability Observability `toml:"observability"`
}

// Lint selects the rule set. Explicit names override the profile's.
type Lint struct {
	Profile        string   `toml:"profile"`
	BaseClass      string   `toml:"base_class"`
	Wrapper        string   `toml:"wrapper"`
	CodePrefix     string   `toml:"code_prefix"`
	OptionalMarker string   `toml:"optional_marker"`
	UnionMarker    string   `toml:"union_marker"`
	Select         []string `toml:"select"` // code prefixes to keep, e.g. "SKP10"
	Ignore         []string `toml:"ignore"` // code prefixes to drop
}

type Paths struct {
	Include      []string `toml:"include"`
	ExcludeDirs  []string `toml:"exclude_dirs"`
	ExcludeFiles []string `toml:"exclude_files"`
	IncludeTests bool     `toml:"include_tests"`
}

type Scan struct {
	Workers int `toml:"workers"`
	// MaxFileBytes reports larger files as NOT_SUPPORTED errors instead of
	// linting them; 0 disables the limit.
	MaxFileBytes int64 `toml:"max_file_bytes"`
	// LintSyntaxErrors lints the error-tolerant tree of files that do not
	// parse cleanly instead of only reporting the syntax error.
	LintSyntaxErrors bool `toml:"lint_syntax_errors"`
}

type Output struct {
	Format string `toml:"format"` // text, json, sarif
	Color  string `toml:"color"`  // auto, always, never
	Path   string `toml:"path"`   // empty writes to stdout
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	// MaxRescansPerSecond bounds how often bursts of file events trigger
	// a lint run.
	MaxRescansPerSecond float64 `toml:"max_rescans_per_second"`
}

type History struct {
	Enabled    bool   `toml:"enabled"`
	Path       string `toml:"path"`
	ProjectKey string `toml:"project_key"`
	// Baseline hides findings already present in the latest recorded baseline.
	Baseline bool `toml:"baseline"`
}

type Observability struct {
	MetricsAddr  string `toml:"metrics_addr"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}
