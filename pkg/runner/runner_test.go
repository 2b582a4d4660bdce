package runner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gatekeeper/gatecheck/pkg/analysis"
	"github.com/gatekeeper/gatecheck/pkg/extract"
	"github.com/gatekeeper/gatecheck/pkg/normalize"
)

func writeReport(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const banditHigh = `{
	"results": [
		{"test_id": "B201", "issue_severity": "HIGH", "issue_text": "debug=True", "filename": "app.py", "line_number": 31}
	]
}`

const safetyNoisy = `WARNING: safety is deprecated, use scan instead
{
	"vulnerabilities": [
		{"package_name": "flask", "CVE": "CVE-2019-1010083", "advisory": "memory usage", "severity": {"cvssv3": {"base_score": 7.5}}}
	]
}
Done.`

const zapClean = `{"site": [{"@name": "http://demo.local", "alerts": []}]}`

func TestIngestAllSources(t *testing.T) {
	in := Inputs{
		SAST: writeReport(t, "bandit.json", banditHigh),
		SCA:  writeReport(t, "safety.json", safetyNoisy),
		DAST: writeReport(t, "zap.json", zapClean),
	}

	findings, err := Ingest(in)
	require.NoError(t, err)
	require.Len(t, findings, 2)

	// merged order is fixed: SAST first, then SCA
	require.Equal(t, analysis.SourceSAST, findings[0].Source)
	require.Equal(t, "B201", findings[0].Identifier)
	require.Equal(t, analysis.SourceSCA, findings[1].Source)
	require.Equal(t, "CVE-2019-1010083", findings[1].Identifier)
}

func TestIngestDeterministicOrder(t *testing.T) {
	in := Inputs{
		SAST: writeReport(t, "bandit.json", banditHigh),
		SCA:  writeReport(t, "safety.json", safetyNoisy),
	}

	first, err := Ingest(in)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Ingest(in)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestIngestUnsuppliedSourcesContributeNothing(t *testing.T) {
	findings, err := Ingest(Inputs{})
	require.NoError(t, err)
	require.Empty(t, findings)
}

func TestIngestUnreadablePathIsFatal(t *testing.T) {
	in := Inputs{SAST: filepath.Join(t.TempDir(), "does-not-exist.json")}
	_, err := Ingest(in)
	require.ErrorIs(t, err, ErrMissingInput)
	require.Contains(t, err.Error(), "SAST")
}

func TestIngestMalformedReportIsFatal(t *testing.T) {
	in := Inputs{
		SAST: writeReport(t, "bandit.json", banditHigh),
		SCA:  writeReport(t, "safety.json", `{"vulnerabilities": [`),
	}
	_, err := Ingest(in)
	require.ErrorIs(t, err, extract.ErrMalformedReport)
	require.Contains(t, err.Error(), "SCA")
}

func TestIngestUnrecognizedSchemaIsFatal(t *testing.T) {
	in := Inputs{DAST: writeReport(t, "zap.json", `{"not-a-zap-report": true}`)}
	_, err := Ingest(in)
	require.ErrorIs(t, err, normalize.ErrUnrecognizedSchema)
}
