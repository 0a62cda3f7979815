package formats

import (
	"encoding/json"
	"time"

	"skiplint/internal/core/ports"
)

type jsonReport struct {
	RunID          string            `json:"run_id"`
	RuleSet        string            `json:"rule_set"`
	StartedAt      time.Time         `json:"started_at"`
	DurationMS     int64             `json:"duration_ms"`
	Files          int               `json:"files"`
	Findings       []jsonFinding     `json:"findings"`
	Errors         []ports.FileError `json:"errors"`
	Suppressed     int               `json:"suppressed"`
	SkippedTargets int               `json:"skipped_targets"`
}

type jsonFinding struct {
	Path    string `json:"path"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Code    string `json:"code"`
	Class   string `json:"class"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func GenerateJSON(result ports.LintResult) ([]byte, error) {
	report := jsonReport{
		RunID:          result.RunID,
		RuleSet:        result.RuleSet.Name,
		StartedAt:      result.StartedAt,
		DurationMS:     result.Duration.Milliseconds(),
		Files:          result.FilesCount,
		Findings:       make([]jsonFinding, 0, len(result.Findings)),
		Errors:         result.Errors,
		Suppressed:     result.Suppressed,
		SkippedTargets: result.SkippedTargets,
	}
	if report.Errors == nil {
		report.Errors = []ports.FileError{}
	}
	for _, f := range result.Findings {
		report.Findings = append(report.Findings, jsonFinding{
			Path:    f.Path,
			Line:    f.Line(),
			Column:  f.Column(),
			Code:    f.Code,
			Class:   f.Class,
			Field:   f.Field,
			Message: f.Message,
		})
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
