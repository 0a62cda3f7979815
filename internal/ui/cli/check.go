package cli

import (
	"io"
	"os"
	"path/filepath"

	"skiplint/internal/core/errors"
	"skiplint/internal/core/ports"
	"skiplint/internal/ui/report/formats"

	"github.com/spf13/cobra"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	var (
		stdinFilename string
		exitZero      bool
		summary       bool
	)

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Lint files and directories",
		Long: "Lint Python files for Skip(...) misuse. Directories are scanned recursively;\n" +
			"pass - to read a single source from stdin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close(cmd.Context())

			var result ports.LintResult
			if len(args) == 1 && args[0] == "-" {
				content, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return errors.Wrap(err, errors.CodeInternal, "read stdin")
				}
				result = s.app.LintSource(cmd.Context(), stdinFilename, content)
			} else {
				result, err = s.app.LintService().Lint(cmd.Context(), ports.LintRequest{Paths: args})
				if err != nil {
					return err
				}
			}

			if err := s.writeReport(cmd, result, summary); err != nil {
				return err
			}
			if result.Failed() && !exitZero {
				return errLintFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&stdinFilename, "stdin-filename", "stdin.py", "Path reported for source read from stdin")
	cmd.Flags().BoolVar(&exitZero, "exit-zero", false, "Exit with status 0 even when problems are found")
	cmd.Flags().BoolVar(&summary, "summary", false, "Print a summary line after text output")
	return cmd
}

// writeReport renders to the configured output file or the command's stdout.
func (s *session) writeReport(cmd *cobra.Command, result ports.LintResult, summary bool) error {
	out := cmd.OutOrStdout()
	if path := s.cfg.Output.Path; path != "" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return errors.AddContext(errors.Wrap(err, errors.CodeInternal, "create report directory"), errors.CtxPath, dir)
			}
		}
		f, err := os.Create(path)
		if err != nil {
			return errors.AddContext(errors.Wrap(err, errors.CodeInternal, "create report file"), errors.CtxPath, path)
		}
		defer f.Close()
		out = f
	}

	root, _ := os.Getwd()
	return formats.Write(out, s.cfg.Output.Format, result, formats.Options{
		Color:       s.cfg.Output.Color,
		ProjectRoot: root,
		Summary:     summary,
	})
}
