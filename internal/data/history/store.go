package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"skiplint/internal/core/ports"

	_ "modernc.org/sqlite"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
	defaultKey  = "default"
)

// RunSummary is one stored run without its findings.
type RunSummary struct {
	RunID        string
	ProjectKey   string
	Kind         ports.RunKind
	Timestamp    time.Time
	RuleSet      string
	FileCount    int
	FindingCount int
	ErrorCount   int
}

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

var _ ports.HistoryStore = (*Store)(nil)

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL keep watch-mode writers from tripping over readers.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}
	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func normalizeKey(projectKey string) string {
	projectKey = strings.TrimSpace(projectKey)
	if projectKey == "" {
		return defaultKey
	}
	return projectKey
}

// SaveRun stores the run header and every finding in one transaction.
func (s *Store) SaveRun(ctx context.Context, projectKey string, kind ports.RunKind, result ports.LintResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if result.RunID == "" {
		return fmt.Errorf("run id must not be empty")
	}
	if kind == "" {
		kind = ports.RunKindCheck
	}
	ts := result.StartedAt
	if ts.IsZero() {
		ts = time.Now()
	}

	return s.withRetry("save run", func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, `
INSERT INTO runs (run_id, project_key, kind, ts_utc, rule_set, file_count, finding_count, error_count)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(run_id) DO UPDATE SET
  kind=excluded.kind,
  finding_count=excluded.finding_count,
  error_count=excluded.error_count
`,
			result.RunID,
			normalizeKey(projectKey),
			string(kind),
			ts.UTC().Format(time.RFC3339Nano),
			result.RuleSet.Name,
			result.FilesCount,
			len(result.Findings),
			len(result.Errors),
		); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM findings WHERE run_id = ?`, result.RunID); err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO findings (run_id, path, code, class_name, field_name, line, col, message, fingerprint)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, f := range result.Findings {
			if _, err := stmt.ExecContext(ctx,
				result.RunID, f.Path, f.Code, f.Class, f.Field,
				f.Line(), f.Column(), f.Message, f.Fingerprint(),
			); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
}

func (s *Store) BaselineFingerprints(ctx context.Context, projectKey string) (map[string]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]bool)
	var rows *sql.Rows
	err := s.withRetry("load baseline", func() error {
		var qErr error
		rows, qErr = s.db.QueryContext(ctx, `
SELECT f.fingerprint FROM findings f
WHERE f.run_id = (
  SELECT run_id FROM runs
  WHERE project_key = ? AND kind = ?
  ORDER BY ts_utc DESC, created_at_utc DESC
  LIMIT 1
)
`, normalizeKey(projectKey), string(ports.RunKindBaseline))
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var fp string
		if err := rows.Scan(&fp); err != nil {
			return nil, fmt.Errorf("scan baseline row: %w", err)
		}
		out[fp] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate baseline rows: %w", err)
	}
	return out, nil
}

// LoadRuns lists runs for a project in chronological order. A zero since
// returns every run.
func (s *Store) LoadRuns(ctx context.Context, projectKey string, since time.Time) ([]RunSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
SELECT run_id, project_key, kind, ts_utc, rule_set, file_count, finding_count, error_count
FROM runs
WHERE project_key = ?`
	args := []any{normalizeKey(projectKey)}
	if !since.IsZero() {
		query += " AND ts_utc >= ?"
		args = append(args, since.UTC().Format(time.RFC3339Nano))
	}
	query += " ORDER BY ts_utc ASC, run_id ASC"

	var rows *sql.Rows
	err := s.withRetry("load runs", func() error {
		var qErr error
		rows, qErr = s.db.QueryContext(ctx, query, args...)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]RunSummary, 0)
	for rows.Next() {
		var (
			r     RunSummary
			kind  string
			tsRaw string
		)
		if err := rows.Scan(&r.RunID, &r.ProjectKey, &kind, &tsRaw, &r.RuleSet, &r.FileCount, &r.FindingCount, &r.ErrorCount); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, tsRaw)
		if err != nil {
			return nil, fmt.Errorf("parse run timestamp %q: %w", tsRaw, err)
		}
		r.Kind = ports.RunKind(kind)
		r.Timestamp = ts.UTC()
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}
	return runs, nil
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func IsCorruptError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "malformed") || strings.Contains(msg, "not a database") || errors.Is(err, os.ErrInvalid)
}
