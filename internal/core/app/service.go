package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"skiplint/internal/core/errors"
	"skiplint/internal/core/ports"
	"skiplint/internal/engine/parser"
	"skiplint/internal/engine/rules"
	"skiplint/internal/shared/observability"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

type lintService struct {
	app *App
}

var _ ports.LintService = (*lintService)(nil)

// fileOutcome is the per-file result; workers fill a slot each so the final
// order follows the sorted file list regardless of scheduling.
type fileOutcome struct {
	findings []ports.Finding
	err      *ports.FileError
	skipped  int
}

func (s *lintService) Lint(ctx context.Context, req ports.LintRequest) (ports.LintResult, error) {
	ctx, span := observability.Tracer.Start(ctx, "lintService.Lint")
	defer span.End()

	a := s.app
	started := time.Now()
	paths := req.Paths
	if len(paths) == 0 {
		paths = a.Config.Paths.Include
	}

	files, err := a.ScanPaths(paths)
	if err != nil {
		span.RecordError(err)
		return ports.LintResult{}, err
	}
	span.SetAttributes(attribute.Int("skiplint.files", len(files)))

	outcomes := make([]fileOutcome, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.Config.Scan.Workers)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = a.lintFile(gctx, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return ports.LintResult{}, err
	}

	result := ports.LintResult{
		RunID:      uuid.NewString(),
		RuleSet:    a.RuleSet,
		StartedAt:  started.UTC(),
		FilesCount: len(files),
	}
	for _, o := range outcomes {
		result.Findings = append(result.Findings, o.findings...)
		result.SkippedTargets += o.skipped
		if o.err != nil {
			result.Errors = append(result.Errors, *o.err)
		}
	}

	if err := a.applyHistory(ctx, &result); err != nil {
		// History is auxiliary; a broken store must not hide findings.
		slog.Warn("history update failed", "error", err)
	}

	result.Duration = time.Since(started)
	observability.RunDuration.Observe(result.Duration.Seconds())
	span.SetAttributes(
		attribute.Int("skiplint.findings", len(result.Findings)),
		attribute.Int("skiplint.errors", len(result.Errors)),
	)

	a.lastMu.Lock()
	a.lastRun = &result
	a.lastMu.Unlock()
	return result, nil
}

func (a *App) lintFile(ctx context.Context, path string) fileOutcome {
	_, span := observability.Tracer.Start(ctx, "lintFile", trace.WithAttributes(attribute.String("path", path)))
	defer span.End()

	if limit := a.Config.Scan.MaxFileBytes; limit > 0 {
		if info, err := os.Stat(path); err == nil && info.Size() > limit {
			observability.FilesLinted.WithLabelValues("error").Inc()
			return fileOutcome{err: &ports.FileError{
				Path:    path,
				Code:    string(errors.CodeNotSupported),
				Message: fmt.Sprintf("file size %d exceeds scan.max_file_bytes %d", info.Size(), limit),
			}}
		}
	}
	content, err := os.ReadFile(path)
	if err != nil {
		observability.FilesLinted.WithLabelValues("error").Inc()
		return fileOutcome{err: &ports.FileError{Path: path, Code: string(errors.CodeNotFound), Message: err.Error()}}
	}
	return a.lintContent(path, content)
}

// LintSource lints an in-memory source, e.g. stdin, as if it were path.
// The result goes through the same baseline filter and history as Lint.
func (a *App) LintSource(ctx context.Context, path string, content []byte) ports.LintResult {
	started := time.Now()
	o := a.lintContent(path, content)
	result := ports.LintResult{
		RunID:          uuid.NewString(),
		RuleSet:        a.RuleSet,
		StartedAt:      started.UTC(),
		FilesCount:     1,
		Findings:       o.findings,
		SkippedTargets: o.skipped,
	}
	if o.err != nil {
		result.Errors = []ports.FileError{*o.err}
	}
	if err := a.applyHistory(ctx, &result); err != nil {
		slog.Warn("history update failed", "error", err)
	}
	result.Duration = time.Since(started)

	a.lastMu.Lock()
	a.lastRun = &result
	a.lastMu.Unlock()
	return result
}

func (a *App) lintContent(path string, content []byte) fileOutcome {
	var out fileOutcome
	mod, err := a.Parser.ParseFile(path, content)
	if err != nil {
		if !errors.IsCode(err, errors.CodeParse) || mod == nil {
			observability.FilesLinted.WithLabelValues("error").Inc()
			code, ok := errors.CodeOf(err)
			if !ok {
				code = errors.CodeInternal
			}
			out.err = &ports.FileError{Path: path, Code: string(code), Message: err.Error()}
			return out
		}
		pos, _ := parser.SyntaxErrorPosition(err)
		out.err = &ports.FileError{
			Path:    path,
			Code:    string(errors.CodeParse),
			Message: fmt.Sprintf("invalid syntax at %s", pos),
			Line:    pos.Line,
			Column:  pos.Column,
		}
		observability.FilesLinted.WithLabelValues("syntax_error").Inc()
		if !a.Config.Scan.LintSyntaxErrors {
			return out
		}
		slog.Debug("linting file with syntax errors", "path", path, "line", pos.Line)
	} else {
		observability.FilesLinted.WithLabelValues("ok").Inc()
	}

	res := rules.Check(mod, a.RuleSet)
	out.skipped = res.SkippedTargets
	if res.SkippedTargets > 0 {
		observability.SkippedTargets.Add(float64(res.SkippedTargets))
		slog.Debug("skipped annotated members with non-name targets", "path", path, "count", res.SkippedTargets)
	}
	for _, d := range res.Diagnostics {
		if !a.filter.keep(d.Code) {
			continue
		}
		observability.DiagnosticsReported.WithLabelValues(d.Code).Inc()
		out.findings = append(out.findings, ports.Finding{Path: path, Diagnostic: d})
	}
	return out
}

func (a *App) applyHistory(ctx context.Context, result *ports.LintResult) error {
	if a.history == nil {
		return nil
	}
	key := a.Config.History.ProjectKey
	full := *result
	if a.Config.History.Baseline {
		known, err := a.history.BaselineFingerprints(ctx, key)
		if err != nil {
			return errors.AddContext(err, errors.CtxOperation, "load_baseline")
		}
		fresh := make([]ports.Finding, 0, len(result.Findings))
		for _, f := range result.Findings {
			if known[f.Fingerprint()] {
				result.Suppressed++
				continue
			}
			fresh = append(fresh, f)
		}
		result.Findings = fresh
	}
	// The stored run always holds every finding, suppressed or not.
	return a.history.SaveRun(ctx, key, ports.RunKindCheck, full)
}

// WriteBaseline records result as the accepted baseline for the project.
func (a *App) WriteBaseline(ctx context.Context, result ports.LintResult) error {
	if a.history == nil {
		return errors.New(errors.CodeValidationError, "baseline requires history to be enabled")
	}
	return a.history.SaveRun(ctx, a.Config.History.ProjectKey, ports.RunKindBaseline, result)
}
