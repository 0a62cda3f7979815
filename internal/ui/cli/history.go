package cli

import (
	"fmt"
	"strings"
	"time"

	"skiplint/internal/core/errors"
	"skiplint/internal/ui/report"

	"github.com/spf13/cobra"
)

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var (
		since      string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show stored runs and finding trends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cutoff, err := parseSince(since, time.Now())
			if err != nil {
				return err
			}
			opts.forceHistory = true
			s, err := opts.newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close(cmd.Context())

			runs, err := s.store.LoadRuns(cmd.Context(), s.cfg.History.ProjectKey, cutoff)
			if err != nil {
				return err
			}
			points := report.BuildTrend(runs)
			var data []byte
			if jsonOutput {
				data, err = report.RenderTrendJSON(points)
			} else {
				data, err = report.RenderTrendTSV(points)
			}
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&since, "since", "", "Only runs after this point: RFC3339 date or a duration like 72h")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

// parseSince accepts an RFC3339 timestamp, a YYYY-MM-DD date or a duration
// relative to now.
func parseSince(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if d, err := time.ParseDuration(value); err == nil {
		if d < 0 {
			return time.Time{}, errors.New(errors.CodeValidationError, "--since duration must be positive")
		}
		return now.Add(-d).UTC(), nil
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts.UTC(), nil
	}
	if ts, err := time.Parse("2006-01-02", value); err == nil {
		return ts.UTC(), nil
	}
	return time.Time{}, errors.New(errors.CodeValidationError, fmt.Sprintf("invalid --since value %q", value))
}
