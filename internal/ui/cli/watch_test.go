package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"skiplint/internal/core/app"
	"skiplint/internal/core/config"
	"skiplint/internal/core/watcher"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchReload_AppliesWatchSettings(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "models.py"), goodModel)

	cfg := config.Default()
	require.NoError(t, config.Validate(cfg))
	a, err := app.New(cfg)
	require.NoError(t, err)
	defer a.Close(context.Background())

	out := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	cmd.SetContext(context.Background())

	w := &watchLoop{cmd: cmd, session: &session{cfg: cfg, app: a}, opts: &rootOptions{}, paths: []string{dir}}
	w.current.Store(a)
	fw, err := watcher.NewWatcher(cfg.Watch.Debounce, cfg.Watch.MaxRescansPerSecond, w, func([]string) {})
	require.NoError(t, err)
	defer fw.Close()
	w.fw = fw

	next := config.Default()
	next.Watch.Debounce = 750 * time.Millisecond
	next.Watch.MaxRescansPerSecond = 3
	w.reload(next)

	assert.Equal(t, 750*time.Millisecond, fw.Debounce())
	assert.Equal(t, 3.0, fw.Limit())
	assert.Same(t, next, w.session.cfg)
	assert.NotSame(t, a, w.current.Load())

	// A rejected config leaves the running settings alone.
	bad := config.Default()
	bad.Watch.Debounce = 10 * time.Millisecond
	bad.Lint.Profile = "nope"
	w.reload(bad)
	assert.Equal(t, 750*time.Millisecond, fw.Debounce())
	assert.Same(t, next, w.session.cfg)
}
