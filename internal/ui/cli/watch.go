package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"skiplint/internal/core/app"
	"skiplint/internal/core/config"
	"skiplint/internal/core/ports"
	"skiplint/internal/core/watcher"
	"skiplint/internal/shared/observability"

	"github.com/spf13/cobra"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Re-lint whenever Python files change",
		Long: "Run an initial lint, then watch the paths and re-lint after each burst of\n" +
			"changes. Edits to the config file are picked up without a restart.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			cmd.SetContext(ctx)

			s, err := opts.newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close(context.Background())

			w := &watchLoop{cmd: cmd, session: s, opts: opts, paths: args}
			w.current.Store(s.app)
			return w.run(ctx)
		},
	}
}

// watchLoop owns the live App; a config reload swaps it atomically.
type watchLoop struct {
	cmd     *cobra.Command
	session *session
	opts    *rootOptions
	paths   []string

	current atomic.Pointer[app.App]
	lintMu  sync.Mutex
	fw      *watcher.Watcher
}

func (w *watchLoop) run(ctx context.Context) error {
	cfg := w.session.cfg
	if addr := cfg.Observability.MetricsAddr; addr != "" {
		srv := observability.NewServer(addr, func(ctx context.Context) observability.HealthStatus {
			return w.current.Load().Health(ctx)
		})
		if err := srv.Start(ctx); err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Stop(shutdownCtx)
		}()
	}

	w.lint(ctx, nil)

	fw, err := watcher.NewWatcher(cfg.Watch.Debounce, cfg.Watch.MaxRescansPerSecond, w, func(changed []string) {
		w.lint(ctx, changed)
	})
	if err != nil {
		return err
	}
	defer fw.Close()
	w.fw = fw

	roots := w.paths
	if len(roots) == 0 {
		roots = cfg.Paths.Include
	}
	if err := fw.Watch(roots); err != nil {
		return err
	}

	if _, err := os.Stat(w.opts.configPath); err == nil {
		cw := config.NewWatcher(w.opts.configPath, w.reload)
		if err := cw.Start(ctx); err != nil {
			slog.Warn("config hot reload disabled", "path", w.opts.configPath, "error", err)
		} else {
			defer cw.Stop()
		}
	}

	slog.Info("watching for changes", "paths", roots, "debounce", fw.Debounce(), "max_rescans_per_second", fw.Limit())
	<-ctx.Done()
	slog.Info("watch stopped")
	return nil
}

func (w *watchLoop) Excluded(path string) bool { return w.current.Load().Excluded(path) }
func (w *watchLoop) ExcludedDir(path string) bool { return w.current.Load().ExcludedDir(path) }

// lint re-runs the whole scan so cross-file state such as the baseline
// stays consistent; changed only feeds the log line.
func (w *watchLoop) lint(ctx context.Context, changed []string) {
	w.lintMu.Lock()
	defer w.lintMu.Unlock()

	if len(changed) > 0 {
		slog.Info("change detected, re-linting", "files", len(changed))
	}
	a := w.current.Load()
	result, err := a.LintService().Lint(ctx, ports.LintRequest{Paths: w.paths})
	if err != nil {
		if ctx.Err() == nil {
			slog.Error("lint failed", "error", err)
		}
		return
	}
	if err := w.session.writeReport(w.cmd, result, true); err != nil {
		slog.Error("write report failed", "error", err)
	}
}

func (w *watchLoop) reload(cfg *config.Config) {
	if err := w.opts.applyOverrides(cfg); err != nil {
		slog.Warn("reloaded config rejected", "error", err)
		return
	}
	var appOpts []app.Option
	if w.session.store != nil && cfg.History.Enabled {
		appOpts = append(appOpts, app.WithHistory(w.session.store))
	}
	next, err := app.New(cfg, appOpts...)
	if err != nil {
		slog.Warn("reloaded config rejected", "error", err)
		return
	}
	w.lintMu.Lock()
	w.session.cfg = cfg
	w.current.Store(next)
	w.lintMu.Unlock()
	if w.fw != nil {
		w.fw.SetDebounce(cfg.Watch.Debounce)
		w.fw.SetLimit(cfg.Watch.MaxRescansPerSecond)
		slog.Debug("watch settings applied", "debounce", cfg.Watch.Debounce, "max_rescans_per_second", cfg.Watch.MaxRescansPerSecond)
	}
	w.lint(w.cmd.Context(), nil)
}
