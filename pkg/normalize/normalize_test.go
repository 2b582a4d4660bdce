package normalize

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gatekeeper/gatecheck/pkg/analysis"
)

func TestReportDispatch(t *testing.T) {
	for _, tc := range []struct {
		source analysis.Source
		doc    string
	}{
		{source: analysis.SourceSAST, doc: `{"results": []}`},
		{source: analysis.SourceSCA, doc: `{"vulnerabilities": []}`},
		{source: analysis.SourceDAST, doc: `{"site": []}`},
	} {
		t.Run(string(tc.source), func(t *testing.T) {
			findings, err := Report(tc.source, []byte(tc.doc))
			require.NoError(t, err)
			require.Empty(t, findings)
		})
	}
}

func TestReportUnknownSource(t *testing.T) {
	_, err := Report(analysis.Source("IAST"), []byte(`{}`))
	require.ErrorIs(t, err, ErrUnrecognizedSchema)
}

func TestReportDeterministic(t *testing.T) {
	doc := []byte(banditSample)
	a, err := Report(analysis.SourceSAST, doc)
	require.NoError(t, err)
	b, err := Report(analysis.SourceSAST, doc)
	require.NoError(t, err)
	require.Equal(t, a, b)
}
