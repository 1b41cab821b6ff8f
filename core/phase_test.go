package core

import "testing"

func TestCanonicalPhase(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "numeric", raw: "2", want: "PHASE2"},
		{name: "spelled out", raw: "Phase 3", want: "PHASE3"},
		{name: "roman numeral", raw: "III", want: "PHASE3"},
		{name: "roman with prefix", raw: "phase iv", want: "PHASE4"},
		{name: "composite slash", raw: "1/2", want: "PHASE1|PHASE2"},
		{name: "composite spelled", raw: "Phase 2/3", want: "PHASE2|PHASE3"},
		{name: "composite roman", raw: "ii/iii", want: "PHASE2|PHASE3"},
		{name: "early phase", raw: "Early Phase 1", want: "EARLY_PHASE1"},
		{name: "not applicable", raw: "N/A", want: "NOT_APPLICABLE"},
		{name: "observational", raw: "observational", want: "NOT_APPLICABLE"},
		{name: "already canonical", raw: "phase2", want: "PHASE2"},
		{name: "whitespace trimmed", raw: "  Phase 1  ", want: "PHASE1"},
		{name: "empty", raw: "", want: ""},
		{name: "null spelling", raw: "null", want: ""},
		{name: "nan spelling", raw: "NaN", want: ""},
		{name: "unknown passes through uppercased", raw: "phase 9", want: "PHASE 9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanonicalPhase(tt.raw); got != tt.want {
				t.Errorf("CanonicalPhase(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestIsKnownPhase(t *testing.T) {
	tests := []struct {
		name string
		code string
		want bool
	}{
		{name: "single token", code: "PHASE2", want: true},
		{name: "composite", code: "PHASE1|PHASE2", want: true},
		{name: "early phase", code: "EARLY_PHASE1", want: true},
		{name: "not applicable", code: "NOT_APPLICABLE", want: true},
		{name: "empty", code: "", want: false},
		{name: "unknown token", code: "PHASE9", want: false},
		{name: "composite with unknown part", code: "PHASE2|PHASE9", want: false},
		{name: "lowercase rejected", code: "phase2", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsKnownPhase(tt.code); got != tt.want {
				t.Errorf("IsKnownPhase(%q) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestPhaseMatches(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		want   string
		match  bool
	}{
		{name: "exact", stored: "PHASE2", want: "PHASE2", match: true},
		{name: "composite stored hits single filter", stored: "PHASE1|PHASE2", want: "PHASE2", match: true},
		{name: "single stored hits composite filter", stored: "PHASE3", want: "PHASE2|PHASE3", match: true},
		{name: "disjoint sets", stored: "PHASE1", want: "PHASE3", match: false},
		{name: "empty stored never matches", stored: "", want: "PHASE2", match: false},
		{name: "empty filter never matches", stored: "PHASE2", want: "", match: false},
		{name: "case insensitive", stored: "phase2", want: "PHASE2", match: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PhaseMatches(tt.stored, tt.want); got != tt.match {
				t.Errorf("PhaseMatches(%q, %q) = %v, want %v", tt.stored, tt.want, got, tt.match)
			}
		})
	}
}
