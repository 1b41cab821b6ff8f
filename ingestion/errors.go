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

package ingestion

import "errors"

var (
	// ErrTrialRepositoryRequired is returned when a trial repository is not provided.
	ErrTrialRepositoryRequired = errors.New("trial repository required")

	// ErrDatasetRepositoryRequired is returned when a dataset repository is not provided.
	ErrDatasetRepositoryRequired = errors.New("dataset repository required")

	// ErrEmptyHeader indicates a CSV file with no header row.
	ErrEmptyHeader = errors.New("csv file has no header row")

	// ErrNoTrialIDColumn indicates that no column could be mapped to the
	// trial identifier, neither by the caller's mapping nor by alias lookup.
	ErrNoTrialIDColumn = errors.New("no column maps to trial_id")
)
