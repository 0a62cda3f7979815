package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"skiplint/internal/core/app"
	"skiplint/internal/core/config"
	"skiplint/internal/core/ports"
	"skiplint/internal/data/history"
	"skiplint/internal/ui/report"
	"skiplint/internal/ui/report/formats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestFiles(t *testing.T, tmpDir string) {
	files := map[string]string{
		"svc/models.py": `from typing import List, Optional, Union


class User(AdvancedBaseModel):
    name: str
    nickname: Skip(Optional[str])
    tags: Skip(List[str])
    parent: Optional[Skip(Optional[int])]
`,
		"svc/clean.py": `class Order(AdvancedBaseModel):
    id: int
    note: Skip(Optional[str]) = None
`,
		"svc/test_models.py": `class T(AdvancedBaseModel):
    x: Skip()
`,
		"vendor/lib.py": `class V(AdvancedBaseModel):
    x: Skip()
`,
	}
	for rel, content := range files {
		path := filepath.Join(tmpDir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestFullPipelineIntegration(t *testing.T) {
	tmpDir := t.TempDir()
	createTestFiles(t, tmpDir)

	cfgPath := filepath.Join(tmpDir, config.DefaultFile)
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
[lint]
profile = "tcs"

[paths]
include = ["`+filepath.ToSlash(tmpDir)+`"]
exclude_dirs = ["vendor"]

[history]
enabled = true
path = "`+filepath.ToSlash(filepath.Join(tmpDir, "hist.db"))+`"
project_key = "integration"
baseline = true
`), 0o644))

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)

	store, err := history.Open(cfg.History.Path)
	require.NoError(t, err)

	appInstance, err := app.New(cfg, app.WithHistory(store))
	require.NoError(t, err)
	defer appInstance.Close(context.Background())

	ctx := context.Background()
	first, err := appInstance.LintService().Lint(ctx, ports.LintRequest{})
	require.NoError(t, err)

	assert.Equal(t, 2, first.FilesCount, "tests and vendor are excluded")
	var got []string
	for _, f := range first.Findings {
		got = append(got, f.Code+" "+f.Field)
	}
	assert.Equal(t, []string{"TCS102 tags", "TCS100 parent"}, got)

	// JSON report round trip.
	var buf bytes.Buffer
	require.NoError(t, formats.Write(&buf, formats.FormatJSON, first, formats.Options{ProjectRoot: tmpDir}))
	var decoded struct {
		RuleSet  string `json:"rule_set"`
		Findings []struct {
			Line   int    `json:"line"`
			Column int    `json:"column"`
			Class  string `json:"class"`
		} `json:"findings"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "tcs", decoded.RuleSet)
	require.Len(t, decoded.Findings, 2)
	assert.Equal(t, 7, decoded.Findings[0].Line)
	assert.Equal(t, 10, decoded.Findings[0].Column)
	assert.Equal(t, "User", decoded.Findings[0].Class)

	// Accept the current findings, then introduce a new one.
	require.NoError(t, appInstance.WriteBaseline(ctx, first))
	modelsPath := filepath.Join(tmpDir, "svc", "models.py")
	src, err := os.ReadFile(modelsPath)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(modelsPath, append(src, []byte("    extra: Skip(())\n")...), 0o644))

	second, err := appInstance.LintService().Lint(ctx, ports.LintRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Suppressed)
	got = got[:0]
	for _, f := range second.Findings {
		got = append(got, f.Code+" "+f.Field)
	}
	assert.Equal(t, []string{"TCS101 extra", "TCS102 extra"}, got)

	// Three saves, two rows: the baseline upserts the first check's run id.
	runs, err := store.LoadRuns(ctx, "integration", time.Time{})
	require.NoError(t, err)
	require.Len(t, runs, 2, "the baseline re-labels the first run")
	points := report.BuildTrend(runs)
	require.Len(t, points, 2)
	assert.Equal(t, "baseline", points[0].Kind)
	assert.Equal(t, "check", points[1].Kind)
	assert.Equal(t, 4, points[1].Findings, "stored runs keep suppressed findings")
}
