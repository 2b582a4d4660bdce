package runner

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/gatekeeper/gatecheck/pkg/analysis"
	"github.com/gatekeeper/gatecheck/pkg/extract"
	"github.com/gatekeeper/gatecheck/pkg/logme"
	"github.com/gatekeeper/gatecheck/pkg/normalize"
)

// ErrMissingInput is returned when a report path was supplied but the
// file cannot be read. An unsupplied source is not an error: that tool
// simply was not run upstream and contributes zero findings.
var ErrMissingInput = errors.New("missing input")

// Inputs names the report file for each tool source.
type Inputs struct {
	SAST string
	SCA  string
	DAST string
}

func (in Inputs) path(src analysis.Source) string {
	switch src {
	case analysis.SourceSAST:
		return in.SAST
	case analysis.SourceSCA:
		return in.SCA
	case analysis.SourceDAST:
		return in.DAST
	}
	return ""
}

// Ingest reads, extracts and normalizes every supplied report. Sources
// are independent and ingested concurrently; the merged sequence is
// always ordered SAST, SCA, DAST with per-report order preserved, so
// repeated runs over the same inputs yield identical finding sequences.
//
// Any single ingestion failure aborts the whole run (fail-closed): a
// gate must never pass on a partial analysis.
func Ingest(in Inputs) ([]analysis.Finding, error) {
	perSource := make([][]analysis.Finding, len(analysis.Sources))
	errs := make([]error, len(analysis.Sources))

	var wg sync.WaitGroup
	for i, src := range analysis.Sources {
		path := in.path(src)
		if path == "" {
			logme.DebugFln("%s: no report supplied, contributing zero findings", src)
			continue
		}
		wg.Add(1)
		go func(i int, src analysis.Source, path string) {
			defer wg.Done()
			perSource[i], errs[i] = ingestOne(src, path)
		}(i, src, path)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("%s: %w", analysis.Sources[i], err)
		}
	}

	var findings []analysis.Finding
	for _, fs := range perSource {
		findings = append(findings, fs...)
	}
	return findings, nil
}

func ingestOne(src analysis.Source, path string) ([]analysis.Finding, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMissingInput, path, err)
	}

	doc, err := extract.JSON(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	findings, err := normalize.Report(src, doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	logme.DebugFln("%s: %d findings from %s", src, len(findings), path)
	return findings, nil
}
