package answer

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// QualityGate decides whether a model answer is good enough to send.
//
// The hedge/marker rule is a heuristic whose error rate has never been
// measured; the fields are exported so operators can tune it.
type QualityGate struct {
	MinLength    int
	HedgePhrases []string
	MarkerPhrase string
}

// DefaultQualityGate returns the standard acceptance rules.
func DefaultQualityGate() QualityGate {
	return QualityGate{
		MinLength: 10,
		HedgePhrases: []string{
			"i don't know",
			"i'm not sure",
			"it depends",
			"generally speaking",
		},
		MarkerPhrase: "server rules",
	}
}

// Accept reports whether text passes the gate.
func (g QualityGate) Accept(text string) bool {
	return g.rejectReason(text) == ""
}

// Check returns nil for acceptable text, or an error wrapping
// ErrQualityRejected that names the failed rule.
func (g QualityGate) Check(text string) error {
	if reason := g.rejectReason(text); reason != "" {
		return fmt.Errorf("%w: %s", ErrQualityRejected, reason)
	}
	return nil
}

func (g QualityGate) rejectReason(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "empty"
	}
	if utf8.RuneCountInString(trimmed) < g.MinLength {
		return "too short"
	}

	lower := strings.ToLower(trimmed)
	if g.MarkerPhrase != "" && strings.Contains(lower, strings.ToLower(g.MarkerPhrase)) {
		return ""
	}
	for _, phrase := range g.HedgePhrases {
		if phrase != "" && strings.Contains(lower, strings.ToLower(phrase)) {
			return "generic hedge: " + phrase
		}
	}
	return ""
}
