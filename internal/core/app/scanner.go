package app

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"skiplint/internal/core/errors"

	"github.com/gobwas/glob"
)

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeValidationError, fmt.Sprintf("invalid exclude pattern %q", p))
		}
		out = append(out, g)
	}
	return out, nil
}

// ScanPaths expands files and directories into the sorted, de-duplicated set
// of lintable files. Explicitly named files are kept even when they match a
// file exclusion, mirroring how linters treat direct arguments.
func (a *App) ScanPaths(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		clean := filepath.Clean(path)
		if !seen[clean] {
			seen[clean] = true
			files = append(files, clean)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "stat scan path"), errors.CtxPath, root)
		}
		if !info.IsDir() {
			if a.Parser.IsSupportedPath(root) {
				add(root)
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			base := filepath.Base(path)
			if d.IsDir() {
				if path != root && a.matchesAny(a.excludeDirs, base) {
					return filepath.SkipDir
				}
				return nil
			}
			if !a.Parser.IsSupportedPath(path) {
				return nil
			}
			if !a.Config.Paths.IncludeTests && a.Parser.IsTestFile(path) {
				return nil
			}
			if a.matchesAny(a.excludeFiles, base) {
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, errors.AddContext(err, errors.CtxOperation, "scan_directories")
		}
	}

	sort.Strings(files)
	return files, nil
}

// Excluded reports whether a single path would be skipped by the scan
// filters. The watcher uses it to ignore irrelevant events.
func (a *App) Excluded(path string) bool {
	if !a.Parser.IsSupportedPath(path) {
		return true
	}
	if !a.Config.Paths.IncludeTests && a.Parser.IsTestFile(path) {
		return true
	}
	if a.matchesAny(a.excludeFiles, filepath.Base(path)) {
		return true
	}
	for dir := filepath.Dir(path); ; {
		if a.matchesAny(a.excludeDirs, filepath.Base(dir)) {
			return true
		}
		next := filepath.Dir(dir)
		if next == dir {
			break
		}
		dir = next
	}
	return false
}

func (a *App) ExcludedDir(path string) bool {
	return a.matchesAny(a.excludeDirs, filepath.Base(path))
}

func (a *App) matchesAny(globs []glob.Glob, name string) bool {
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}
