package report

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fatih/color"

	"github.com/gatekeeper/gatecheck/pkg/analysis"
)

// Artifact is the structured document handed to the dashboard
// generator and the CI step. Field names and the severity vocabulary
// are a fixed contract; every normalized finding appears in it.
type Artifact struct {
	Verdict  analysis.Verdict   `json:"verdict"`
	Findings []analysis.Finding `json:"findings"`
}

type Marshaler interface {
	Marshal(a Artifact) ([]byte, error)
}

type marshalerFunc func(a Artifact) ([]byte, error)

func (f marshalerFunc) Marshal(a Artifact) ([]byte, error) {
	return f(a)
}

// MarshalJSON renders the artifact for downstream tooling. An empty
// finding set serializes as [], not null.
var MarshalJSON = marshalerFunc(func(a Artifact) ([]byte, error) {
	if a.Findings == nil {
		a.Findings = []analysis.Finding{}
	}
	return json.MarshalIndent(a, "", "  ")
})

// MarshalCLI renders a human-readable summary with one line per
// finding, the blocking reasons, and the gate banner.
var MarshalCLI = marshalerFunc(func(a Artifact) ([]byte, error) {
	var buf bytes.Buffer
	for _, f := range a.Findings {
		switch f.Severity {
		case analysis.SeverityCritical, analysis.SeverityHigh:
			buf.WriteString(color.RedString("%s: ", f.Severity))
		case analysis.SeverityMedium:
			buf.WriteString(color.YellowString("%s: ", f.Severity))
		default:
			buf.WriteString(color.CyanString("%s: ", f.Severity))
		}
		fmt.Fprintf(&buf, "[%s] %s: %s", f.Source, f.Identifier, f.Description)
		if f.Location != nil {
			fmt.Fprintf(&buf, " (%s:%d)", f.Location.File, f.Location.Line)
		}
		buf.WriteRune('\n')
	}

	for _, reason := range a.Verdict.BlockingReasons {
		buf.WriteString(color.RedString("blocked: "))
		buf.WriteString(reason)
		buf.WriteRune('\n')
	}

	if a.Verdict.Passed {
		buf.WriteString(color.GreenString("SECURITY GATE: PASSED"))
	} else {
		buf.WriteString(color.RedString("SECURITY GATE: FAILED"))
	}
	buf.WriteRune('\n')
	return buf.Bytes(), nil
})

// Exit codes form the contract with the CI orchestrator. ExitNotEvaluated
// keeps "could not evaluate at all" distinct from "found real
// vulnerabilities".
const (
	ExitPassed       = 0
	ExitBlocked      = 1
	ExitNotEvaluated = 2
)

func ExitCode(v analysis.Verdict) int {
	if v.Passed {
		return ExitPassed
	}
	return ExitBlocked
}

// Static checks

var (
	_ = Marshaler(MarshalJSON)
	_ = Marshaler(MarshalCLI)
)
