package cli

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"skiplint/internal/core/app"
	"skiplint/internal/core/config"
	"skiplint/internal/core/errors"
	"skiplint/internal/data/history"
	"skiplint/internal/shared/observability"

	"github.com/spf13/cobra"
)

// rootOptions are the persistent flags shared by every subcommand. Flags
// set on the command line win over the config file and environment.
type rootOptions struct {
	configPath  string
	profile     string
	format      string
	color       string
	output      string
	selectCodes []string
	ignoreCodes []string
	baseline    bool
	noHistory   bool
	verbose     bool
	metricsAddr string

	// forceHistory is set by commands that always need the store.
	forceHistory bool
}

func (o *rootOptions) bind(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVarP(&o.configPath, "config", "c", config.DefaultFile, "Path to config file")
	f.StringVar(&o.profile, "profile", "", "Rule profile (skp, tcs)")
	f.StringVarP(&o.format, "format", "f", "", "Output format: text, json, sarif")
	f.StringVar(&o.color, "color", "", "Color mode: auto, always, never")
	f.StringVarP(&o.output, "output", "o", "", "Write the report to a file instead of stdout")
	f.StringSliceVar(&o.selectCodes, "select", nil, "Only report codes with these prefixes")
	f.StringSliceVar(&o.ignoreCodes, "ignore", nil, "Drop codes with these prefixes")
	f.BoolVar(&o.baseline, "baseline", false, "Hide findings recorded in the latest baseline")
	f.BoolVar(&o.noHistory, "no-history", false, "Do not read or write the history database")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "Enable verbose logging")
	f.StringVar(&o.metricsAddr, "metrics-addr", "", "Serve /metrics and /health on this address (watch mode)")
}

func configureLogging(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// loadConfig reads the config file, tolerating its absence only for the
// default path, then layers flag overrides on top.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cmd.Flags().Changed("config") {
		cfg, err = config.Load(o.configPath)
	} else {
		cfg, err = config.LoadOptional(o.configPath)
	}
	if err != nil {
		return nil, err
	}
	if err := o.applyOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (o *rootOptions) applyOverrides(cfg *config.Config) error {
	if o.profile != "" {
		cfg.Lint.Profile = o.profile
		// A profile switch resets the per-name overrides from the file.
		cfg.Lint.BaseClass, cfg.Lint.Wrapper, cfg.Lint.CodePrefix = "", "", ""
	}
	if o.format != "" {
		cfg.Output.Format = o.format
	}
	if o.color != "" {
		cfg.Output.Color = o.color
	}
	if o.output != "" {
		cfg.Output.Path = o.output
	}
	if len(o.selectCodes) > 0 {
		cfg.Lint.Select = o.selectCodes
	}
	if len(o.ignoreCodes) > 0 {
		cfg.Lint.Ignore = o.ignoreCodes
	}
	if o.baseline {
		cfg.History.Enabled = true
		cfg.History.Baseline = true
	}
	if o.noHistory {
		cfg.History.Enabled = false
		cfg.History.Baseline = false
	}
	if o.forceHistory {
		if o.noHistory {
			return errors.New(errors.CodeValidationError, "this command needs the history database; drop --no-history")
		}
		cfg.History.Enabled = true
		cfg.History.Baseline = false
	}
	if o.metricsAddr != "" {
		cfg.Observability.MetricsAddr = o.metricsAddr
	}
	return config.Validate(cfg)
}

// session bundles everything a subcommand needs and how to release it.
type session struct {
	cfg      *config.Config
	app      *app.App
	store    *history.Store
	shutdown []func(context.Context) error
}

func (o *rootOptions) newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg}

	if endpoint := strings.TrimSpace(cfg.Observability.OTLPEndpoint); endpoint != "" {
		stop, err := observability.SetupTracing(cmd.Context(), endpoint)
		if err != nil {
			slog.Warn("tracing disabled", "endpoint", endpoint, "error", err)
		} else {
			s.shutdown = append(s.shutdown, stop)
		}
	}

	var appOpts []app.Option
	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			if history.IsCorruptError(err) {
				err = errors.AddContext(errors.Wrap(err, errors.CodeInternal, "history database is corrupt; delete it to start over"), errors.CtxPath, cfg.History.Path)
			}
			s.close(cmd.Context())
			return nil, err
		}
		s.store = store
		appOpts = append(appOpts, app.WithHistory(store))
	}

	a, err := app.New(cfg, appOpts...)
	if err != nil {
		if s.store != nil {
			_ = s.store.Close()
		}
		s.close(cmd.Context())
		return nil, err
	}
	s.app = a
	s.shutdown = append(s.shutdown, func(ctx context.Context) error { return a.Close(ctx) })
	return s, nil
}

func (s *session) close(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	for i := len(s.shutdown) - 1; i >= 0; i-- {
		if err := s.shutdown[i](ctx); err != nil {
			slog.Warn("shutdown failed", "error", err)
		}
	}
	s.shutdown = nil
}
