package normalize

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gatekeeper/gatecheck/pkg/analysis"
)

// banditSchema pins the fields the normalizer depends on. A report
// without a results array is not a Bandit report.
const banditSchema = `{
	"type": "object",
	"required": ["results"],
	"properties": {
		"results": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["test_id", "issue_severity", "issue_text"]
			}
		}
	}
}`

// banditSeverities is the full Bandit vocabulary. Values outside this
// table fail normalization; a renamed level must never slip through the
// gate as a default.
var banditSeverities = map[string]analysis.Severity{
	"LOW":    analysis.SeverityLow,
	"MEDIUM": analysis.SeverityMedium,
	"HIGH":   analysis.SeverityHigh,
}

type banditReport struct {
	Results []struct {
		TestID        string `json:"test_id"`
		TestName      string `json:"test_name"`
		IssueSeverity string `json:"issue_severity"`
		IssueText     string `json:"issue_text"`
		Filename      string `json:"filename"`
		LineNumber    int    `json:"line_number"`
		MoreInfo      string `json:"more_info"`
	} `json:"results"`
}

// Bandit normalizes a Bandit (SAST) JSON report.
func Bandit(doc []byte) ([]analysis.Finding, error) {
	if err := validateSchema(analysis.SourceSAST, banditSchema, doc); err != nil {
		return nil, err
	}

	var report banditReport
	if err := json.Unmarshal(doc, &report); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnrecognizedSchema, analysis.SourceSAST, err)
	}

	findings := make([]analysis.Finding, 0, len(report.Results))
	for _, issue := range report.Results {
		severity, ok := banditSeverities[strings.ToUpper(strings.TrimSpace(issue.IssueSeverity))]
		if !ok {
			return nil, fmt.Errorf("%w: %s: unmapped severity %q for %s",
				ErrUnrecognizedSchema, analysis.SourceSAST, issue.IssueSeverity, issue.TestID)
		}

		var location *analysis.Location
		if issue.Filename != "" {
			location = &analysis.Location{File: issue.Filename, Line: issue.LineNumber}
		}

		findings = append(findings, analysis.Finding{
			Source:      analysis.SourceSAST,
			Severity:    severity,
			Identifier:  issue.TestID,
			Location:    location,
			Description: firstNonEmpty(issue.IssueText, issue.TestName),
			Remediation: issue.MoreInfo,
		})
	}
	return findings, nil
}
