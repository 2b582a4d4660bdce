package policy

import (
	"fmt"

	"github.com/gatekeeper/gatecheck/pkg/analysis"
)

// Policy is the immutable blocking configuration for one evaluation
// run. It is passed in explicitly so tests can exercise alternate
// policies without process-wide state.
type Policy struct {
	// BlockAt is the minimum severity that blocks a deployment.
	// Findings below it are recorded in the counts only.
	BlockAt analysis.Severity
}

// Default blocks on HIGH and CRITICAL findings; MEDIUM and LOW are
// warn-only tiers.
var Default = Policy{BlockAt: analysis.SeverityHigh}

// Evaluate applies p over the merged finding set and produces the run
// verdict. It is a pure, read-only fold: findings are never mutated or
// re-sorted, and every rule is evaluated even after one has triggered,
// so blocking reasons are additive across categories.
func Evaluate(p Policy, findings []analysis.Finding) analysis.Verdict {
	counts := make(map[analysis.Severity]int, len(analysis.Severities))
	for _, s := range analysis.Severities {
		counts[s] = 0
	}

	blocking := 0
	dependency := 0
	for _, f := range findings {
		counts[f.Severity]++
		if !f.Severity.AtLeast(p.BlockAt) {
			continue
		}
		blocking++
		if f.Source == analysis.SourceSCA {
			dependency++
		}
	}

	reasons := make([]string, 0, 2)
	if blocking > 0 {
		reasons = append(reasons, fmt.Sprintf(
			"%d issues at or above %s severity detected", blocking, p.BlockAt))
	}
	if dependency > 0 {
		reasons = append(reasons, fmt.Sprintf(
			"%d known-vulnerable dependency CVEs detected", dependency))
	}

	return analysis.Verdict{
		Passed:          len(reasons) == 0,
		Counts:          counts,
		BlockingReasons: reasons,
	}
}
