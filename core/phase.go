package core

import "strings"

// Canonical phase tokens. Composite phases are pipe-joined, e.g. "PHASE1|PHASE2".
const (
	PhaseEarly1        = "EARLY_PHASE1"
	Phase1             = "PHASE1"
	Phase2             = "PHASE2"
	Phase3             = "PHASE3"
	Phase4             = "PHASE4"
	PhaseNotApplicable = "NOT_APPLICABLE"
)

var knownPhases = map[string]bool{
	PhaseEarly1:        true,
	Phase1:             true,
	Phase2:             true,
	Phase3:             true,
	Phase4:             true,
	PhaseNotApplicable: true,
}

// phaseAliases maps the raw variants seen in source data to canonical tokens.
var phaseAliases = map[string]string{
	"1":              Phase1,
	"phase 1":        Phase1,
	"i":              Phase1,
	"phase i":        Phase1,
	"2":              Phase2,
	"phase 2":        Phase2,
	"ii":             Phase2,
	"phase ii":       Phase2,
	"3":              Phase3,
	"phase 3":        Phase3,
	"iii":            Phase3,
	"phase iii":      Phase3,
	"4":              Phase4,
	"phase 4":        Phase4,
	"iv":             Phase4,
	"phase iv":       Phase4,
	"1/2":            Phase1 + "|" + Phase2,
	"phase 1/2":      Phase1 + "|" + Phase2,
	"i/ii":           Phase1 + "|" + Phase2,
	"2/3":            Phase2 + "|" + Phase3,
	"phase 2/3":      Phase2 + "|" + Phase3,
	"ii/iii":         Phase2 + "|" + Phase3,
	"early phase 1":  PhaseEarly1,
	"not applicable": PhaseNotApplicable,
	"n/a":            PhaseNotApplicable,
	"na":             PhaseNotApplicable,
	"observational":  PhaseNotApplicable,
}

// CanonicalPhase normalizes a raw phase value to its canonical token form.
// Variants like "Phase 3", "III", or "phase 1/2" map to PHASE3 and
// PHASE1|PHASE2 respectively. Unknown values are uppercased as-is and empty
// or null-like input becomes "".
func CanonicalPhase(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "", "null", "none", "nan":
		return ""
	}
	if canonical, ok := phaseAliases[s]; ok {
		return canonical
	}
	return strings.ToUpper(s)
}

// IsKnownPhase reports whether code is a valid phase filter: a canonical
// token or a pipe composite of canonical tokens.
func IsKnownPhase(code string) bool {
	if code == "" {
		return false
	}
	for _, part := range strings.Split(code, "|") {
		if !knownPhases[part] {
			return false
		}
	}
	return true
}

// PhaseMatches reports whether a stored phase satisfies a phase filter.
// Both sides are treated as pipe-delimited sets; a match is any non-empty
// intersection, so stored "PHASE1|PHASE2" satisfies a "PHASE2" filter.
// An empty stored phase never matches.
func PhaseMatches(stored, want string) bool {
	if stored == "" || want == "" {
		return false
	}
	wanted := make(map[string]bool)
	for _, part := range strings.Split(strings.ToUpper(want), "|") {
		wanted[part] = true
	}
	for _, part := range strings.Split(strings.ToUpper(stored), "|") {
		if wanted[part] {
			return true
		}
	}
	return false
}
