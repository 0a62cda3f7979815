package formats

import (
	"encoding/json"
	"path/filepath"

	"skiplint/internal/core/errors"
	"skiplint/internal/core/ports"
	"skiplint/internal/shared/version"
)

// SARIF v2.1.0 schema – see https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"

	ruleIDParseError = string(errors.CodeParse)
)

// sarifReport is the top-level SARIF document.
type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription sarifMessage           `json:"shortDescription"`
	DefaultConfig    sarifRuleDefaultConfig `json:"defaultConfiguration"`
}

type sarifRuleDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID              string            `json:"ruleId"`
	Level               string            `json:"level"`
	Message             sarifMessage      `json:"message"`
	Locations           []sarifLocation   `json:"locations,omitempty"`
	PartialFingerprints map[string]string `json:"partialFingerprints,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
}

// GenerateSARIF builds a SARIF v2.1.0 document from a lint run.
// All file URIs are made relative to projectRoot; absolute paths are never
// included so that reports are safe to share.
func GenerateSARIF(projectRoot string, result ports.LintResult) ([]byte, error) {
	results := make([]sarifResult, 0, len(result.Findings)+len(result.Errors))
	used := make(map[string]bool)

	for _, f := range result.Findings {
		used[f.Code] = true
		results = append(results, sarifResult{
			RuleID:    f.Code,
			Level:     "warning",
			Message:   sarifMessage{Text: f.Message},
			Locations: []sarifLocation{fileLocation(projectRoot, f.Path, f.Line(), f.Column())},
			PartialFingerprints: map[string]string{
				"skiplintFingerprint/v1": f.Fingerprint(),
			},
		})
	}

	for _, e := range result.Errors {
		used[ruleIDParseError] = true
		results = append(results, sarifResult{
			RuleID:    ruleIDParseError,
			Level:     "error",
			Message:   sarifMessage{Text: e.Message},
			Locations: []sarifLocation{fileLocation(projectRoot, e.Path, e.Line, e.Column)},
		})
	}

	report := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:    version.Name,
						Version: version.Version,
						Rules:   buildSARIFRules(result, used),
					},
				},
				Results: results,
			},
		},
	}

	return json.MarshalIndent(report, "", "  ")
}

// buildSARIFRules returns only the rules that are relevant for the given findings.
func buildSARIFRules(result ports.LintResult, used map[string]bool) []sarifRule {
	rules := make([]sarifRule, 0, 4)
	for _, info := range result.RuleSet.Describe() {
		if !used[info.Code] {
			continue
		}
		rules = append(rules, sarifRule{
			ID:               info.Code,
			Name:             info.Name,
			ShortDescription: sarifMessage{Text: info.Description},
			DefaultConfig:    sarifRuleDefaultConfig{Level: "warning"},
		})
	}
	if used[ruleIDParseError] {
		rules = append(rules, sarifRule{
			ID:               ruleIDParseError,
			Name:             "parse-error",
			ShortDescription: sarifMessage{Text: "The file could not be parsed or read."},
			DefaultConfig:    sarifRuleDefaultConfig{Level: "error"},
		})
	}
	return rules
}

// fileLocation converts a 0-based column into SARIF's 1-based one.
func fileLocation(projectRoot, path string, line, column int) sarifLocation {
	loc := sarifLocation{
		PhysicalLocation: sarifPhysicalLocation{
			ArtifactLocation: sarifArtifactLocation{
				URI:       relativeURI(projectRoot, path),
				URIBaseID: "%SRCROOT%",
			},
		},
	}
	if line > 0 {
		loc.PhysicalLocation.Region = &sarifRegion{StartLine: line, StartColumn: column + 1}
	}
	return loc
}

// relativeURI converts an absolute file path to a forward-slash relative URI
// anchored at projectRoot. If the path is already relative or projectRoot is
// empty, the original path (with forward slashes) is returned.
func relativeURI(projectRoot, filePath string) string {
	if projectRoot != "" && filepath.IsAbs(filePath) {
		rel, err := filepath.Rel(projectRoot, filePath)
		if err == nil {
			filePath = rel
		}
	}
	return filepath.ToSlash(filePath)
}
