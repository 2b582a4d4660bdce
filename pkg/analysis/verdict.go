package analysis

// Verdict is the gate decision for one evaluation run. It is built once
// by the policy evaluator and never mutated afterwards.
//
// Invariants: Passed is false exactly when BlockingReasons is non-empty,
// and the counts sum to the number of findings ingested across all
// sources.
type Verdict struct {
	Passed          bool             `json:"passed"`
	Counts          map[Severity]int `json:"counts"`
	BlockingReasons []string         `json:"blocking_reasons"`
}

// Total returns the number of findings accounted for in Counts.
func (v Verdict) Total() int {
	n := 0
	for _, c := range v.Counts {
		n += c
	}
	return n
}
