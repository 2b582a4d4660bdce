package analysis

import (
	"fmt"
	"strings"
)

// Source identifies the tool category that produced a finding.
type Source string

const (
	SourceSAST Source = "SAST"
	SourceSCA  Source = "SCA"
	SourceDAST Source = "DAST"
)

// Sources lists every tool category in the order their findings are
// merged, so repeated runs over the same inputs produce identical output.
var Sources = []Source{SourceSAST, SourceSCA, SourceDAST}

// Severity is the shared severity vocabulary. Every tool-native
// severity must resolve to one of these four values; anything else
// fails normalization.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Severities lists the vocabulary from least to most severe.
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

// Weight returns a numeric rank for ordering (higher = more severe).
// Unknown values rank below every valid severity.
func (s Severity) Weight() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

// AtLeast reports whether s is as severe or more severe than min.
func (s Severity) AtLeast(min Severity) bool {
	return s.Weight() >= min.Weight()
}

// Valid reports whether s belongs to the shared vocabulary.
func (s Severity) Valid() bool {
	return s.Weight() > 0
}

// ParseSeverity maps a severity string to its enum value. Matching is
// case-insensitive but otherwise strict.
func ParseSeverity(raw string) (Severity, error) {
	s := Severity(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown severity %q", raw)
	}
	return s, nil
}

// Location points at the source position of a finding. Dependency and
// runtime findings carry no location.
type Location struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

// Finding is one normalized, severity-classified issue reported by a
// scanner. Findings keep the order they appeared in the source report.
type Finding struct {
	Source      Source    `json:"source"`
	Severity    Severity  `json:"severity"`
	Identifier  string    `json:"identifier"`
	Location    *Location `json:"location,omitempty"`
	Description string    `json:"description"`
	Remediation string    `json:"remediation,omitempty"`
}
