package cli

import (
	"fmt"

	"skiplint/internal/core/ports"

	"github.com/spf13/cobra"
)

func newBaselineCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "baseline [paths...]",
		Short: "Accept the current findings as the baseline",
		Long: "Lint the given paths and record every finding as accepted. Later runs with\n" +
			"--baseline only report findings that are not in the latest baseline.",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.forceHistory = true
			s, err := opts.newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close(cmd.Context())

			result, err := s.app.LintService().Lint(cmd.Context(), ports.LintRequest{Paths: args})
			if err != nil {
				return err
			}
			if err := s.app.WriteBaseline(cmd.Context(), result); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded baseline %s: %d findings in %d files (project %q)\n",
				result.RunID, len(result.Findings), result.FilesCount, s.cfg.History.ProjectKey)
			return nil
		},
	}
}
