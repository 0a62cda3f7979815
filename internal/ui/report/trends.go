package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"skiplint/internal/data/history"
)

// TrendPoint is a stored run plus its change against the previous run of
// the same kind.
type TrendPoint struct {
	RunID         string    `json:"run_id"`
	Kind          string    `json:"kind"`
	Timestamp     time.Time `json:"timestamp"`
	RuleSet       string    `json:"rule_set"`
	Files         int       `json:"files"`
	Findings      int       `json:"findings"`
	Errors        int       `json:"errors"`
	DeltaFindings int       `json:"delta_findings"`
	DeltaErrors   int       `json:"delta_errors"`
}

func BuildTrend(runs []history.RunSummary) []TrendPoint {
	points := make([]TrendPoint, 0, len(runs))
	prev := make(map[string]history.RunSummary)
	for _, r := range runs {
		p := TrendPoint{
			RunID:     r.RunID,
			Kind:      string(r.Kind),
			Timestamp: r.Timestamp,
			RuleSet:   r.RuleSet,
			Files:     r.FileCount,
			Findings:  r.FindingCount,
			Errors:    r.ErrorCount,
		}
		if last, ok := prev[p.Kind]; ok {
			p.DeltaFindings = r.FindingCount - last.FindingCount
			p.DeltaErrors = r.ErrorCount - last.ErrorCount
		}
		prev[p.Kind] = r
		points = append(points, p)
	}
	return points
}

func RenderTrendTSV(points []TrendPoint) ([]byte, error) {
	var buf strings.Builder

	buf.WriteString("Timestamp\tRun\tKind\tRuleSet\tFiles\tFindings\tErrors\tDeltaFindings\tDeltaErrors\n")
	for _, p := range points {
		buf.WriteString(fmt.Sprintf("%s\t%s\t%s\t%s\t%d\t%d\t%d\t%+d\t%+d\n",
			p.Timestamp.Format(time.RFC3339),
			p.RunID,
			p.Kind,
			p.RuleSet,
			p.Files,
			p.Findings,
			p.Errors,
			p.DeltaFindings,
			p.DeltaErrors,
		))
	}
	return []byte(buf.String()), nil
}

func RenderTrendJSON(points []TrendPoint) ([]byte, error) {
	return json.MarshalIndent(points, "", "  ")
}
