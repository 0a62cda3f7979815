package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	exitOK       = 0
	exitFindings = 1
	exitError    = 2
)

// errLintFailed signals findings or file errors; it maps to exit code 1
// without printing anything extra.
var errLintFailed = errors.New("lint failed")

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "skiplint",
		Short: "Lint Skip(...) annotations on model fields",
		Long: "skiplint checks fields of SkippableBaseModel-style classes for misuse of the\n" +
			"Skip(...) type wrapper: nested wrapping, invalid arguments and missing Optional.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(cmd.ErrOrStderr(), opts.verbose)
		},
	}
	opts.bind(cmd)

	cmd.AddCommand(newCheckCmd(opts))
	cmd.AddCommand(newWatchCmd(opts))
	cmd.AddCommand(newBaselineCmd(opts))
	cmd.AddCommand(newHistoryCmd(opts))
	cmd.AddCommand(newRulesCmd(opts))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	return exitCode(newRootCmd().Execute())
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errLintFailed):
		return exitFindings
	default:
		fmt.Fprintln(os.Stderr, "error:", err)
		return exitError
	}
}
