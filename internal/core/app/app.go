package app

import (
	"context"
	"log/slog"
	"sync"

	"skiplint/internal/core/config"
	"skiplint/internal/core/ports"
	"skiplint/internal/engine/parser"
	"skiplint/internal/engine/rules"

	"github.com/gobwas/glob"
)

// App wires configuration, parser, rule set and optional history store.
type App struct {
	Config  *config.Config
	Parser  *parser.Parser
	RuleSet rules.RuleSet

	history ports.HistoryStore
	filter  codeFilter

	excludeDirs  []glob.Glob
	excludeFiles []glob.Glob

	lastMu  sync.RWMutex
	lastRun *ports.LintResult
}

// Option customizes App construction.
type Option func(*App)

// WithHistory attaches a store used for run persistence and baselines.
func WithHistory(store ports.HistoryStore) Option {
	return func(a *App) { a.history = store }
}

func New(cfg *config.Config, opts ...Option) (*App, error) {
	rs, err := cfg.RuleSet()
	if err != nil {
		return nil, err
	}
	loader, err := parser.NewGrammarLoader()
	if err != nil {
		return nil, err
	}
	dirGlobs, err := compileGlobs(cfg.Paths.ExcludeDirs)
	if err != nil {
		return nil, err
	}
	fileGlobs, err := compileGlobs(cfg.Paths.ExcludeFiles)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:       cfg,
		Parser:       parser.NewParser(loader),
		RuleSet:      rs,
		filter:       newCodeFilter(cfg.Lint.Select, cfg.Lint.Ignore),
		excludeDirs:  dirGlobs,
		excludeFiles: fileGlobs,
	}
	for _, opt := range opts {
		opt(a)
	}
	slog.Debug("app initialized", "rule_set", rs.Name, "base_class", rs.BaseClass, "wrapper", rs.WrapperFunc, "workers", cfg.Scan.Workers)
	return a, nil
}

// LintService exposes the app through the ports interface.
func (a *App) LintService() ports.LintService {
	return &lintService{app: a}
}

// LastRun returns the most recent completed run, if any.
func (a *App) LastRun() (ports.LintResult, bool) {
	a.lastMu.RLock()
	defer a.lastMu.RUnlock()
	if a.lastRun == nil {
		return ports.LintResult{}, false
	}
	return *a.lastRun, true
}

func (a *App) Close(ctx context.Context) error {
	if a.history != nil {
		return a.history.Close()
	}
	return nil
}
