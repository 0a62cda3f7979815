package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const badModel = `from typing import Optional


class M(SkippableBaseModel):
    a: Skip(str)
    b: Skip(Optional[str])
`

const goodModel = `class M(SkippableBaseModel):
    a: Skip(Optional[int])
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmdForTest()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "skiplint v"), out)
}

func TestRulesCommand(t *testing.T) {
	out, err := run(t, "", "rules", "--no-history")
	require.NoError(t, err)
	assert.Contains(t, out, "SKP100")
	assert.Contains(t, out, "SKP101")
	assert.Contains(t, out, "Skip expects Optional type as argument")

	out, err = run(t, "", "rules", "--profile", "tcs")
	require.NoError(t, err)
	assert.Contains(t, out, "TCS102")
	assert.Contains(t, out, "AdvancedBaseModel")

	out, err = run(t, "", "rules", "--profiles")
	require.NoError(t, err)
	assert.Contains(t, out, "skp")
	assert.Contains(t, out, "tcs")
}

func TestRulesCommand_UnknownProfile(t *testing.T) {
	_, err := run(t, "", "rules", "--profile", "nope")
	require.Error(t, err)
	assert.Equal(t, exitError, exitCode(err))
}

func TestCheckCommand_ReportsFindings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "models.py")
	writeFile(t, path, badModel)

	out, err := run(t, "", "check", "--color", "never", dir)
	require.ErrorIs(t, err, errLintFailed)
	assert.Equal(t, exitFindings, exitCode(err))
	assert.Equal(t, path+":5:7: SKP102 a in M: Skip expects Optional type as argument\n", out)
}

func TestCheckCommand_CleanTree(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pkg", "models.py"), goodModel)

	out, err := run(t, "", "check", "--color", "never", "--summary", dir)
	require.NoError(t, err)
	assert.Equal(t, "All clear: 1 files checked\n", out)
}

func TestCheckCommand_ExitZero(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "models.py"), badModel)

	_, err := run(t, "", "check", "--exit-zero", dir)
	require.NoError(t, err)
}

func TestCheckCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "models.py"), badModel)

	out, err := run(t, "", "check", "--format", "json", dir)
	require.ErrorIs(t, err, errLintFailed)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result), "output should be valid JSON")
	findings := result["findings"].([]any)
	require.Len(t, findings, 1)
	assert.Equal(t, "SKP102", findings[0].(map[string]any)["code"])
}

func TestCheckCommand_Stdin(t *testing.T) {
	out, err := run(t, badModel, "check", "--color", "never", "--stdin-filename", "app/models.py", "-")
	require.ErrorIs(t, err, errLintFailed)
	assert.Equal(t, "app/models.py:5:7: SKP102 a in M: Skip expects Optional type as argument\n", out)
}

func TestCheckCommand_SelectAndIgnore(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "models.py"), badModel)

	out, err := run(t, "", "check", "--ignore", "SKP102", dir)
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = run(t, "", "check", "--select", "SKP100", dir)
	require.NoError(t, err)
}

func TestCheckCommand_MissingExplicitConfig(t *testing.T) {
	_, err := run(t, "", "check", "--config", filepath.Join(t.TempDir(), "missing.toml"), ".")
	require.Error(t, err)
	assert.Equal(t, exitError, exitCode(err))
}

func TestCheckCommand_WritesOutputFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "models.py"), badModel)
	report := filepath.Join(dir, "reports", "skiplint.sarif")

	out, err := run(t, "", "check", "--format", "sarif", "--output", report, filepath.Join(dir, "src"))
	require.ErrorIs(t, err, errLintFailed)
	assert.Empty(t, out)

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"ruleId": "SKP102"`)
}

func TestBaselineThenCheck(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	writeFile(t, filepath.Join(src, "models.py"), badModel)
	cfgPath := filepath.Join(dir, "skiplint.toml")
	writeFile(t, cfgPath, "version = 1\n\n[history]\npath = \""+filepath.ToSlash(filepath.Join(dir, "history.db"))+"\"\n")

	out, err := run(t, "", "baseline", "--config", cfgPath, src)
	require.NoError(t, err)
	assert.Contains(t, out, "1 findings in 1 files")

	// The baseline run is stored once, not as a check plus a baseline.
	out, err = run(t, "", "history", "--config", cfgPath)
	require.NoError(t, err)
	rows := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, rows, 2)
	assert.Contains(t, rows[1], "\tbaseline\t")

	out, err = run(t, "", "check", "--config", cfgPath, "--baseline", "--color", "never", src)
	require.NoError(t, err)
	assert.Empty(t, out)

	// A new problem is still reported.
	writeFile(t, filepath.Join(src, "more.py"), "class N(SkippableBaseModel):\n    x: Skip(int)\n")
	out, err = run(t, "", "check", "--config", cfgPath, "--baseline", "--color", "never", src)
	require.ErrorIs(t, err, errLintFailed)
	assert.Contains(t, out, "SKP102 x in N")
	assert.NotContains(t, out, "SKP102 a in M")

	out, err = run(t, "", "history", "--config", cfgPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "\tbaseline\t")
}

func TestBaselineThenCheckStdin(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	models := filepath.Join(src, "models.py")
	writeFile(t, models, badModel)
	cfgPath := filepath.Join(dir, "skiplint.toml")
	writeFile(t, cfgPath, "version = 1\n\n[history]\npath = \""+filepath.ToSlash(filepath.Join(dir, "history.db"))+"\"\n")

	_, err := run(t, "", "baseline", "--config", cfgPath, src)
	require.NoError(t, err)

	out, err := run(t, badModel, "check", "--config", cfgPath, "--baseline", "--color", "never", "--stdin-filename", models, "-")
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = run(t, badModel+"    c: Skip(int)\n", "check", "--config", cfgPath, "--baseline", "--color", "never", "--stdin-filename", models, "-")
	require.ErrorIs(t, err, errLintFailed)
	assert.Contains(t, out, "SKP102 c in M")
	assert.NotContains(t, out, "SKP102 a in M")

	// Both stdin runs are recorded next to the baseline.
	out, err = run(t, "", "history", "--config", cfgPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "\tbaseline\t")
}

func TestBaselineRejectsNoHistory(t *testing.T) {
	_, err := run(t, "", "baseline", "--no-history", t.TempDir())
	require.Error(t, err)
}

func TestParseSince(t *testing.T) {
	now := time.Date(2026, 2, 13, 12, 0, 0, 0, time.UTC)

	got, err := parseSince("", now)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	got, err = parseSince("24h", now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(-24*time.Hour), got)

	got, err = parseSince("2026-02-01", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), got)

	got, err = parseSince("2026-02-01T10:00:00+02:00", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC), got)

	_, err = parseSince("-1h", now)
	require.Error(t, err)
	_, err = parseSince("yesterday", now)
	require.Error(t, err)
}
