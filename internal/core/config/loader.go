package config

import (
	"os"
	"runtime"
	"strings"
	"time"

	"skiplint/internal/core/errors"
	"skiplint/internal/engine/rules"

	"github.com/BurntSushi/toml"
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "config file not found"), errors.CtxPath, path)
		}
		return nil, err
	}
	return Parse(string(data))
}

// LoadOptional returns defaults when path does not exist.
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.IsCode(err, errors.CodeNotFound) {
		cfg = Default()
		ApplyEnvOverrides(cfg)
		return cfg, Validate(cfg)
	}
	return cfg, err
}

func Parse(data string) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, errors.New(errors.CodeValidationError, "unknown config keys: "+strings.Join(keys, ", "))
	}

	applyDefaults(&cfg)
	ApplyEnvOverrides(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if strings.TrimSpace(cfg.Lint.Profile) == "" {
		cfg.Lint.Profile = rules.DefaultProfile
	}
	if len(cfg.Paths.Include) == 0 {
		cfg.Paths.Include = []string{"."}
	}
	if cfg.Paths.ExcludeDirs == nil {
		cfg.Paths.ExcludeDirs = []string{".git", ".hg", ".venv", "venv", "__pycache__", ".mypy_cache", ".tox", "node_modules"}
	}
	if cfg.Scan.Workers <= 0 {
		cfg.Scan.Workers = runtime.GOMAXPROCS(0)
	}
	if strings.TrimSpace(cfg.Output.Format) == "" {
		cfg.Output.Format = "text"
	}
	if strings.TrimSpace(cfg.Output.Color) == "" {
		cfg.Output.Color = "auto"
	}
	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = 300 * time.Millisecond
	}
	if cfg.Watch.MaxRescansPerSecond <= 0 {
		cfg.Watch.MaxRescansPerSecond = 2
	}
	if strings.TrimSpace(cfg.History.Path) == "" {
		cfg.History.Path = ".skiplint/history.db"
	}
	if strings.TrimSpace(cfg.History.ProjectKey) == "" {
		cfg.History.ProjectKey = "default"
	}
}

// RuleSet resolves the configured profile and explicit overrides.
func (c *Config) RuleSet() (rules.RuleSet, error) {
	rs, err := rules.Profile(c.Lint.Profile)
	if err != nil {
		return rules.RuleSet{}, err
	}
	override := func(target *string, value string) {
		if v := strings.TrimSpace(value); v != "" {
			*target = v
		}
	}
	override(&rs.BaseClass, c.Lint.BaseClass)
	override(&rs.WrapperFunc, c.Lint.Wrapper)
	override(&rs.CodePrefix, c.Lint.CodePrefix)
	override(&rs.OptionalMarker, c.Lint.OptionalMarker)
	override(&rs.UnionMarker, c.Lint.UnionMarker)
	rs = rs.WithDefaults()
	return rs, rs.Validate()
}
