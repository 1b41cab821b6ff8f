// Copyright 2026 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package core

import (
	"fmt"
	"strings"
)

// ValidateTrial validates a Trial according to domain rules.
//
// Validation rules:
//   - DatasetID and TrialID must be non-empty and must not contain ':'
//     (reserved as the key-layout separator)
//   - NParticipants, when present, must not be negative
//
// NOT validated:
//   - Phase (empty and unknown values are stored as-is; filters reject
//     unknown codes at query time)
//   - Summary/OutcomesText (records without embeddable text are still valid)
func ValidateTrial(trial *Trial) error {
	if trial == nil {
		return fmt.Errorf("%w: trial is nil", ErrInvalidTrial)
	}

	if err := ValidateKey(trial.Key()); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTrial, err)
	}

	if trial.NParticipants != nil && *trial.NParticipants < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidTrial, ErrNegativeParticipants)
	}

	return nil
}

// ValidateKey validates a TrialKey's components.
func ValidateKey(key TrialKey) error {
	if key.DatasetID == "" {
		return ErrEmptyDatasetID
	}
	if key.TrialID == "" {
		return ErrEmptyTrialID
	}
	if strings.Contains(key.DatasetID, ":") || strings.Contains(key.TrialID, ":") {
		return ErrIdentifierSeparator
	}
	return nil
}

// ValidateDataset validates a Dataset registry entry.
func ValidateDataset(dataset *Dataset) error {
	if dataset == nil {
		return fmt.Errorf("%w: dataset is nil", ErrInvalidDataset)
	}

	if dataset.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDataset, ErrEmptyDatasetID)
	}
	if strings.Contains(dataset.ID, ":") {
		return fmt.Errorf("%w: %w", ErrInvalidDataset, ErrIdentifierSeparator)
	}
	if dataset.RowCount < 0 {
		return fmt.Errorf("%w: row count cannot be negative", ErrInvalidDataset)
	}

	return nil
}
