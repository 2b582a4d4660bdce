package normalize

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gatekeeper/gatecheck/pkg/analysis"
)

const safetySample = `{
	"report_meta": {"vulnerabilities_found": 2},
	"vulnerabilities": [
		{
			"package_name": "flask",
			"analyzed_version": "0.12.3",
			"vulnerability_id": "36388",
			"CVE": "CVE-2019-1010083",
			"advisory": "Flask before 1.0 allows unbounded memory usage when decoding JSON.",
			"more_info_url": "https://pyup.io/v/36388",
			"severity": {"cvssv3": {"base_score": 7.5}}
		},
		{
			"package_name": "jinja2",
			"analyzed_version": "2.10",
			"vulnerability_id": "39525",
			"CVE": {"CVE": "CVE-2020-28493"},
			"advisory": "Jinja2 contains a regular expression denial of service vulnerability.",
			"severity": {"cvssv3": {"base_score": 0, "vector_string": "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:N/I:N/A:L"}}
		}
	]
}`

func TestSafety(t *testing.T) {
	findings, err := Safety([]byte(safetySample))
	require.NoError(t, err)
	require.Len(t, findings, 2)

	first := findings[0]
	require.Equal(t, analysis.SourceSCA, first.Source)
	require.Equal(t, analysis.SeverityHigh, first.Severity)
	require.Equal(t, "CVE-2019-1010083", first.Identifier)
	require.Nil(t, first.Location)
	require.Contains(t, first.Description, "flask 0.12.3")
	require.Equal(t, "https://pyup.io/v/36388", first.Remediation)

	// score computed from the CVSS vector: 5.3 buckets to MEDIUM
	second := findings[1]
	require.Equal(t, "CVE-2020-28493", second.Identifier)
	require.Equal(t, analysis.SeverityMedium, second.Severity)
}

func TestSafetyIdentifierFallsBackToVulnerabilityID(t *testing.T) {
	doc := `{"vulnerabilities": [{
		"package_name": "urllib3",
		"vulnerability_id": "43975",
		"advisory": "x",
		"severity": {"cvssv3": {"base_score": 4.0}}
	}]}`
	findings, err := Safety([]byte(doc))
	require.NoError(t, err)
	require.Equal(t, "43975", findings[0].Identifier)
}

func TestSafetyScoreBuckets(t *testing.T) {
	for _, tc := range []struct {
		score float64
		exp   analysis.Severity
	}{
		{score: 10.0, exp: analysis.SeverityCritical},
		{score: 9.0, exp: analysis.SeverityCritical},
		{score: 8.9, exp: analysis.SeverityHigh},
		{score: 7.0, exp: analysis.SeverityHigh},
		{score: 6.9, exp: analysis.SeverityMedium},
		{score: 4.0, exp: analysis.SeverityMedium},
		{score: 3.9, exp: analysis.SeverityLow},
		{score: 0.1, exp: analysis.SeverityLow},
	} {
		t.Run(fmt.Sprintf("%.1f", tc.score), func(t *testing.T) {
			require.Equal(t, tc.exp, severityFromScore(tc.score))
		})
	}
}

func TestSafetyEmptyVulnerabilities(t *testing.T) {
	findings, err := Safety([]byte(`{"vulnerabilities": []}`))
	require.NoError(t, err)
	require.Empty(t, findings)
}

func TestSafetyMissingSeverity(t *testing.T) {
	doc := `{"vulnerabilities": [{"package_name": "requests", "CVE": "CVE-2023-32681", "advisory": "x"}]}`
	_, err := Safety([]byte(doc))
	require.ErrorIs(t, err, ErrUnrecognizedSchema)
	require.Contains(t, err.Error(), "CVE-2023-32681")
}

func TestSafetyBadVector(t *testing.T) {
	doc := `{"vulnerabilities": [{
		"package_name": "requests",
		"advisory": "x",
		"severity": {"cvssv3": {"vector_string": "not-a-vector"}}
	}]}`
	_, err := Safety([]byte(doc))
	require.ErrorIs(t, err, ErrUnrecognizedSchema)
}

func TestSafetyMissingVulnerabilities(t *testing.T) {
	_, err := Safety([]byte(`{"issues": []}`))
	require.ErrorIs(t, err, ErrUnrecognizedSchema)
}
