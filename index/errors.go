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

package index

import "errors"

var (
	// ErrDimensionMismatch indicates a vector's length disagrees with the
	// index dimension. The offending add or build input is rejected and the
	// index is left untouched.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrUnknownSlot indicates an identity-map lookup for a slot that has no
	// record. It signals index/map desynchronization; query callers drop the
	// candidate instead of failing.
	ErrUnknownSlot = errors.New("unknown vector slot")

	// ErrDuplicateRecord indicates the same trial key was assigned twice
	// during one build.
	ErrDuplicateRecord = errors.New("record already has a vector slot")

	// ErrIndexNotBuilt indicates a query arrived before any successful build,
	// so the embedding dimension is unknown.
	ErrIndexNotBuilt = errors.New("vector index has not been built")

	// ErrModelMismatch indicates an incremental build would mix vectors from
	// different embedding models in one snapshot.
	ErrModelMismatch = errors.New("embedding model differs from active snapshot")

	// ErrCorruptSnapshot indicates a snapshot failed an integrity check:
	// a persisted file that does not decode or checksum, or a staged pair
	// whose map size disagrees with its vector count.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")

	// ErrTrialRepositoryRequired is returned when a trial repository is not provided.
	ErrTrialRepositoryRequired = errors.New("trial repository required")

	// ErrProviderRequired is returned when an AI provider is not provided.
	ErrProviderRequired = errors.New("AI provider required")

	// ErrHandleRequired is returned when a snapshot handle is not provided.
	ErrHandleRequired = errors.New("snapshot handle required")
)
