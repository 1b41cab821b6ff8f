package core

import (
	"strings"
	"time"
)

// TrialKey is the canonical composite identifier for a trial record.
// The pair is globally unique across all ingested datasets.
type TrialKey struct {
	DatasetID string
	TrialID   string
}

// String renders the key as "dataset_id:trial_id".
// Neither component may contain ':' (enforced by ValidateTrial), so the
// rendering is unambiguous.
func (k TrialKey) String() string {
	return k.DatasetID + ":" + k.TrialID
}

// Compare orders keys by (DatasetID, TrialID) ascending.
func (k TrialKey) Compare(other TrialKey) int {
	if c := strings.Compare(k.DatasetID, other.DatasetID); c != 0 {
		return c
	}
	return strings.Compare(k.TrialID, other.TrialID)
}

// Trial represents one clinical-trial record in its canonical form.
// Records are created and updated by ingestion; the query path treats them
// as read-only.
type Trial struct {
	DatasetID     string
	TrialID       string
	Disease       string // free text, may hold multiple pipe-delimited labels
	Phase         string // canonical token, pipe composite, or "" when unknown
	NParticipants *int   // nil when the source did not report enrollment
	Summary       string
	OutcomesText  string
	Status        string
	Sponsor       string
	StartDate     string // ISO date (2006-01-02), "" when absent
	EndDate       string // ISO date, "" when absent
	IngestedAt    time.Time
}

// Key returns the trial's composite identifier.
func (t *Trial) Key() TrialKey {
	return TrialKey{DatasetID: t.DatasetID, TrialID: t.TrialID}
}

// EmbeddingText builds the text that represents this trial in vector space:
// summary and outcomes joined by a newline, skipping empty parts.
func (t *Trial) EmbeddingText() string {
	parts := make([]string, 0, 2)
	if t.Summary != "" {
		parts = append(parts, t.Summary)
	}
	if t.OutcomesText != "" {
		parts = append(parts, t.OutcomesText)
	}
	return strings.Join(parts, "\n")
}

// Dataset describes one ingested dataset in the registry.
type Dataset struct {
	ID         string
	Name       string
	SourcePath string
	RowCount   int
	Notes      string
	IngestedAt time.Time
}
