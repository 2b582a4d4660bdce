package normalize

import (
	"encoding/json"
	"fmt"

	gocvss30 "github.com/pandatix/go-cvss/30"
	gocvss31 "github.com/pandatix/go-cvss/31"

	"github.com/gatekeeper/gatecheck/pkg/analysis"
)

// safetySchema pins the fields the normalizer depends on. Safety 3.x
// reports carry a top-level vulnerabilities array; one entry per
// affected package+CVE pair.
const safetySchema = `{
	"type": "object",
	"required": ["vulnerabilities"],
	"properties": {
		"vulnerabilities": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["package_name", "advisory"]
			}
		}
	}
}`

// CVSS v3.x qualitative scale. Pinned policy constants: dependency
// severity is always derived from these cutoffs, never re-inferred.
const (
	cvssCriticalFloor = 9.0
	cvssHighFloor     = 7.0
	cvssMediumFloor   = 4.0
)

type safetyReport struct {
	Vulnerabilities []struct {
		PackageName     string          `json:"package_name"`
		AnalyzedVersion string          `json:"analyzed_version"`
		VulnerabilityID string          `json:"vulnerability_id"`
		CVE             cveField        `json:"CVE"`
		Advisory        string          `json:"advisory"`
		MoreInfoURL     string          `json:"more_info_url"`
		Severity        *safetySeverity `json:"severity"`
	} `json:"vulnerabilities"`
}

type safetySeverity struct {
	CVSSv3 *struct {
		BaseScore    float64 `json:"base_score"`
		VectorString string  `json:"vector_string"`
	} `json:"cvssv3"`
}

// cveField absorbs both Safety encodings of the CVE id: a plain string,
// or an object with a nested "CVE" key.
type cveField string

func (c *cveField) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*c = cveField(s)
		return nil
	}
	var obj struct {
		CVE string `json:"CVE"`
	}
	if err := json.Unmarshal(b, &obj); err == nil {
		*c = cveField(obj.CVE)
		return nil
	}
	*c = ""
	return nil
}

// Safety normalizes a Safety (SCA) JSON report. Severity is derived
// from the CVSS v3 base score: taken from the report when present,
// computed from the vector string otherwise.
func Safety(doc []byte) ([]analysis.Finding, error) {
	if err := validateSchema(analysis.SourceSCA, safetySchema, doc); err != nil {
		return nil, err
	}

	var report safetyReport
	if err := json.Unmarshal(doc, &report); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnrecognizedSchema, analysis.SourceSCA, err)
	}

	findings := make([]analysis.Finding, 0, len(report.Vulnerabilities))
	for _, vuln := range report.Vulnerabilities {
		identifier := firstNonEmpty(string(vuln.CVE), vuln.VulnerabilityID)

		score, err := cvssBaseScore(vuln.Severity)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %s in %s: %v",
				ErrUnrecognizedSchema, analysis.SourceSCA, identifier, vuln.PackageName, err)
		}

		description := vuln.Advisory
		if vuln.PackageName != "" {
			description = fmt.Sprintf("%s %s: %s", vuln.PackageName, vuln.AnalyzedVersion, vuln.Advisory)
		}

		findings = append(findings, analysis.Finding{
			Source:      analysis.SourceSCA,
			Severity:    severityFromScore(score),
			Identifier:  identifier,
			Description: description,
			Remediation: vuln.MoreInfoURL,
		})
	}
	return findings, nil
}

func cvssBaseScore(sev *safetySeverity) (float64, error) {
	if sev == nil || sev.CVSSv3 == nil {
		return 0, fmt.Errorf("no CVSS v3 rating")
	}
	if sev.CVSSv3.BaseScore > 0 {
		return sev.CVSSv3.BaseScore, nil
	}
	if sev.CVSSv3.VectorString == "" {
		return 0, fmt.Errorf("no CVSS v3 score or vector")
	}
	if c, err := gocvss31.ParseVector(sev.CVSSv3.VectorString); err == nil {
		return c.BaseScore(), nil
	}
	c, err := gocvss30.ParseVector(sev.CVSSv3.VectorString)
	if err != nil {
		return 0, fmt.Errorf("unparseable CVSS vector %q", sev.CVSSv3.VectorString)
	}
	return c.BaseScore(), nil
}

func severityFromScore(score float64) analysis.Severity {
	switch {
	case score >= cvssCriticalFloor:
		return analysis.SeverityCritical
	case score >= cvssHighFloor:
		return analysis.SeverityHigh
	case score >= cvssMediumFloor:
		return analysis.SeverityMedium
	}
	return analysis.SeverityLow
}
