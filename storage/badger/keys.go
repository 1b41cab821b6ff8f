package badger

import "github.com/poiesic/trialdex/core"

// Key prefixes for different data types.
//
// Trial keys embed the composite identifier directly, so badger's
// lexicographic iteration gives a stable, deterministic order grouped by
// dataset, which is the stream order the index builder depends on.
// ValidateTrial keeps ':' out of both identifier components so a dataset
// prefix scan never bleeds into a neighboring dataset.
const (
	trialRecordPrefix   = "trl"
	datasetRecordPrefix = "ds"
)

// makeTrialKey generates a key for a trial record: "trl:<dataset>:<trial>".
func makeTrialKey(key core.TrialKey) []byte {
	return []byte(trialRecordPrefix + ":" + key.DatasetID + ":" + key.TrialID)
}

// makeTrialScanPrefix generates the iteration prefix for a dataset scope.
// An empty datasetID scans every trial.
func makeTrialScanPrefix(datasetID string) []byte {
	if datasetID == "" {
		return []byte(trialRecordPrefix + ":")
	}
	return []byte(trialRecordPrefix + ":" + datasetID + ":")
}

// makeDatasetKey generates a key for a dataset registry entry: "ds:<id>".
func makeDatasetKey(id string) []byte {
	return []byte(datasetRecordPrefix + ":" + id)
}

// datasetScanPrefix is the iteration prefix for the dataset registry.
var datasetScanPrefix = []byte(datasetRecordPrefix + ":")
