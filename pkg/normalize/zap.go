package normalize

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gatekeeper/gatecheck/pkg/analysis"
)

// zapSchema pins the fields the normalizer depends on. ZAP JSON reports
// group alerts under a top-level site array.
const zapSchema = `{
	"type": "object",
	"required": ["site"],
	"properties": {
		"site": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"alerts": {
						"type": "array",
						"items": {
							"type": "object",
							"required": ["riskdesc"]
						}
					}
				}
			}
		}
	}
}`

// zapRisks maps ZAP risk names to the shared vocabulary. Informational
// maps to LOW: the vocabulary has no informational tier and dropping
// alerts would break the counts-sum invariant.
var zapRisks = map[string]analysis.Severity{
	"High":          analysis.SeverityHigh,
	"Medium":        analysis.SeverityMedium,
	"Low":           analysis.SeverityLow,
	"Informational": analysis.SeverityLow,
}

type zapReport struct {
	Site []struct {
		Name   string `json:"@name"`
		Alerts []struct {
			PluginID string `json:"pluginid"`
			Name     string `json:"name"`
			Alert    string `json:"alert"`
			RiskDesc string `json:"riskdesc"`
			Desc     string `json:"desc"`
			Solution string `json:"solution"`
		} `json:"alerts"`
	} `json:"site"`
}

// ZAP normalizes an OWASP ZAP (DAST) JSON report. Alerts describe
// running behavior, so findings carry no source location.
func ZAP(doc []byte) ([]analysis.Finding, error) {
	if err := validateSchema(analysis.SourceDAST, zapSchema, doc); err != nil {
		return nil, err
	}

	var report zapReport
	if err := json.Unmarshal(doc, &report); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnrecognizedSchema, analysis.SourceDAST, err)
	}

	var findings []analysis.Finding
	for _, site := range report.Site {
		for _, alert := range site.Alerts {
			// riskdesc reads "High (Medium)": risk first, confidence after
			risk, _, _ := strings.Cut(strings.TrimSpace(alert.RiskDesc), " ")
			severity, ok := zapRisks[risk]
			if !ok {
				return nil, fmt.Errorf("%w: %s: unmapped risk %q for alert %q",
					ErrUnrecognizedSchema, analysis.SourceDAST, alert.RiskDesc, alert.Name)
			}

			findings = append(findings, analysis.Finding{
				Source:      analysis.SourceDAST,
				Severity:    severity,
				Identifier:  firstNonEmpty(alert.PluginID, alert.Name),
				Description: firstNonEmpty(alert.Name, alert.Alert),
				Remediation: alert.Solution,
			})
		}
	}
	return findings, nil
}
