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

// Package index maintains the vector side of hybrid retrieval: a flat
// inner-product index over trial embeddings and the identity map resolving
// its slots back to canonical (dataset_id, trial_id) keys.
//
// The two structures only ever exist together inside an immutable Snapshot.
// A Handle holds the active snapshot behind an atomic pointer: any number of
// concurrent searches borrow it while the Builder stages a replacement, and
// publication is a single pointer swap. Snapshots persist to one checksummed
// file so a restart reloads the last successful build without re-embedding.
package index
