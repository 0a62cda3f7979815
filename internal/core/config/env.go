package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: SKIPLINT_[SECTION]_[KEY], with short aliases for the common ones.
func ApplyEnvOverrides(cfg *Config) {
	setEnvString(&cfg.Lint.Profile, "SKIPLINT_PROFILE")
	setEnvString(&cfg.Lint.BaseClass, "SKIPLINT_LINT_BASE_CLASS")
	setEnvString(&cfg.Lint.Wrapper, "SKIPLINT_LINT_WRAPPER")
	setEnvList(&cfg.Lint.Select, "SKIPLINT_LINT_SELECT")
	setEnvList(&cfg.Lint.Ignore, "SKIPLINT_LINT_IGNORE")

	setEnvInt(&cfg.Scan.Workers, "SKIPLINT_SCAN_WORKERS")
	setEnvBool(&cfg.Scan.LintSyntaxErrors, "SKIPLINT_SCAN_LINT_SYNTAX_ERRORS")

	setEnvString(&cfg.Output.Format, "SKIPLINT_FORMAT")
	setEnvString(&cfg.Output.Color, "SKIPLINT_OUTPUT_COLOR")

	setEnvDuration(&cfg.Watch.Debounce, "SKIPLINT_WATCH_DEBOUNCE")

	setEnvBool(&cfg.History.Enabled, "SKIPLINT_HISTORY_ENABLED")
	setEnvString(&cfg.History.Path, "SKIPLINT_HISTORY_PATH")

	setEnvString(&cfg.Observability.MetricsAddr, "SKIPLINT_OBSERVABILITY_METRICS_ADDR")
	setEnvString(&cfg.Observability.OTLPEndpoint, "SKIPLINT_OBSERVABILITY_OTLP_ENDPOINT")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvList(target *[]string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		var out []string
		for _, part := range strings.Split(val, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		*target = out
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(val)
		if err != nil {
			slog.Warn("ignoring invalid env override", "key", key, "value", val, "error", err)
			return
		}
		*target = b
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		i, err := strconv.Atoi(val)
		if err != nil {
			slog.Warn("ignoring invalid env override", "key", key, "value", val, "error", err)
			return
		}
		*target = i
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(val)
		if err != nil {
			slog.Warn("ignoring invalid env override", "key", key, "value", val, "error", err)
			return
		}
		*target = d
	}
}
