package ports

import (
	"context"
	"time"

	"skiplint/internal/engine/rules"
)

// Finding is a diagnostic attributed to a file.
type Finding struct {
	Path string `json:"path"`
	rules.Diagnostic
}

// Fingerprint identifies a finding independently of its line, so moving a
// field does not make a baselined finding look new.
func (f Finding) Fingerprint() string {
	return f.Path + "|" + f.Code + "|" + f.Class + "|" + f.Field
}

// FileError is a file that could not be linted.
type FileError struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// LintRequest scopes one run.
type LintRequest struct {
	Paths []string
}

// LintResult is the outcome of one run over a set of files.
type LintResult struct {
	RunID      string
	RuleSet    rules.RuleSet
	StartedAt  time.Time
	Duration   time.Duration
	FilesCount int
	Findings   []Finding
	Errors     []FileError
	// Suppressed counts findings hidden by the baseline.
	Suppressed     int
	SkippedTargets int
}

// Failed reports whether the run should fail a CI gate.
func (r LintResult) Failed() bool {
	return len(r.Findings) > 0 || len(r.Errors) > 0
}

// LintService runs the rule set over source trees.
type LintService interface {
	Lint(ctx context.Context, req LintRequest) (LintResult, error)
}

// RunKind distinguishes ordinary runs from accepted baselines.
type RunKind string

const (
	RunKindCheck    RunKind = "check"
	RunKindBaseline RunKind = "baseline"
)

// HistoryStore persists runs for baselines and trends.
type HistoryStore interface {
	SaveRun(ctx context.Context, projectKey string, kind RunKind, result LintResult) error
	// BaselineFingerprints returns the fingerprints of the latest baseline
	// run, or an empty set when none was recorded.
	BaselineFingerprints(ctx context.Context, projectKey string) (map[string]bool, error)
	Close() error
}
