package cli

import (
	"fmt"
	"text/tabwriter"

	"skiplint/internal/engine/rules"

	"github.com/spf13/cobra"
)

func newRulesCmd(opts *rootOptions) *cobra.Command {
	var listProfiles bool

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the rules of the active rule set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if listProfiles {
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "PROFILE\tBASE CLASS\tWRAPPER\tPREFIX")
				for _, name := range rules.ProfileNames() {
					rs, err := rules.Profile(name)
					if err != nil {
						return err
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", rs.Name, rs.BaseClass, rs.WrapperFunc, rs.CodePrefix)
				}
				return tw.Flush()
			}

			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			rs, err := cfg.RuleSet()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Rule set %s: fields of %s subclasses wrapped in %s(...)\n\n", rs.Name, rs.BaseClass, rs.WrapperFunc)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tNAME\tDESCRIPTION")
			for _, info := range rs.Describe() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", info.Code, info.Name, info.Description)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&listProfiles, "profiles", false, "List built-in profiles instead")
	return cmd
}
