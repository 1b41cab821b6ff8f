package ingestion

import "strings"

// Canonical field names a CSV column can map to.
const (
	FieldTrialID       = "trial_id"
	FieldDisease       = "disease"
	FieldPhase         = "phase"
	FieldNParticipants = "n_participants"
	FieldSummary       = "summary"
	FieldOutcomesText  = "outcomes_text"
	FieldStatus        = "status"
	FieldSponsor       = "sponsor"
	FieldStartDate     = "start_date"
	FieldEndDate       = "end_date"
)

// Mapping maps canonical field names to source column names.
// A nil or partial mapping falls back to alias-based auto-mapping.
type Mapping map[string]string

// columnAliases lists, per canonical field, the source column names it can be
// filled from. Matching is case-insensitive and first match wins, so the
// preferred aliases come first.
var columnAliases = map[string][]string{
	FieldTrialID: {
		"nct_id", "nct number", "nct", "trial_id", "trialid", "trial id",
		"id", "study_id", "study id",
	},
	FieldDisease: {"condition", "conditions", "disease", "indication"},
	FieldPhase: {
		"phase", "phases", "trial_phase", "study_phase", "phase(s)",
		"study phase", "trial phase",
	},
	FieldNParticipants: {
		"enrollment", "enrollment count", "participants", "n_participants",
		"num_participants", "number_participants", "sample_size",
	},
	FieldSummary: {"brief_summary", "brief summary", "summary", "description", "overview"},
	FieldOutcomesText: {
		"primary outcome measures", "secondary outcome measures", "outcomes",
		"other outcome measures", "outcomes_text", "results",
	},
	FieldStatus:  {"overall_status", "recruitment_status", "status", "trial_status"},
	FieldSponsor: {"sponsor", "lead sponsor", "sponsors", "funder", "funding_source"},
	FieldStartDate: {
		"start_date", "study start", "study start date", "start",
		"begin_date", "date_started",
	},
	FieldEndDate: {
		"completion_date", "primary completion date", "end_date", "end",
		"date_completed",
	},
}

var canonicalFields = []string{
	FieldTrialID,
	FieldDisease,
	FieldPhase,
	FieldNParticipants,
	FieldSummary,
	FieldOutcomesText,
	FieldStatus,
	FieldSponsor,
	FieldStartDate,
	FieldEndDate,
}

// AutoMapColumns guesses a canonical field mapping from a CSV header using
// case-insensitive alias lookup. Fields with no matching column are absent
// from the result.
func AutoMapColumns(header []string) Mapping {
	byLower := make(map[string]string, len(header))
	for _, col := range header {
		key := strings.ToLower(strings.TrimSpace(col))
		if _, seen := byLower[key]; !seen {
			byLower[key] = col
		}
	}

	mapping := make(Mapping)
	for _, canon := range canonicalFields {
		for _, alias := range columnAliases[canon] {
			if col, ok := byLower[alias]; ok {
				mapping[canon] = col
				break
			}
		}
	}
	return mapping
}

// columnIndexes resolves a mapping's source column names to header positions.
// Mapped columns absent from the header are skipped.
func columnIndexes(header []string, mapping Mapping) map[string]int {
	position := make(map[string]int, len(header))
	for i, col := range header {
		key := strings.ToLower(strings.TrimSpace(col))
		if _, seen := position[key]; !seen {
			position[key] = i
		}
	}

	indexes := make(map[string]int, len(mapping))
	for canon, col := range mapping {
		if i, ok := position[strings.ToLower(strings.TrimSpace(col))]; ok {
			indexes[canon] = i
		}
	}
	return indexes
}
