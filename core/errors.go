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

import "errors"

// Domain validation errors
var (
	// ErrInvalidTrial indicates a Trial failed validation.
	ErrInvalidTrial = errors.New("invalid trial")

	// ErrInvalidDataset indicates a Dataset failed validation.
	ErrInvalidDataset = errors.New("invalid dataset")

	// ErrEmptyDatasetID indicates the dataset identifier is empty.
	ErrEmptyDatasetID = errors.New("dataset id cannot be empty")

	// ErrEmptyTrialID indicates the trial identifier is empty.
	ErrEmptyTrialID = errors.New("trial id cannot be empty")

	// ErrIdentifierSeparator indicates an identifier contains the reserved ':' separator.
	ErrIdentifierSeparator = errors.New("identifier cannot contain ':'")

	// ErrNegativeParticipants indicates a negative participant count.
	ErrNegativeParticipants = errors.New("participant count cannot be negative")
)
