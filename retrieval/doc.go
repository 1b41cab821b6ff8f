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

// Package retrieval provides hybrid search over clinical trial records.
//
// The Searcher type combines two signals in a single query:
//   - Semantic similarity from the vector index
//   - Structured predicates (phase, disease, status, participant count,
//     dataset) evaluated against the trial store
//
// The vector index owns the ranking: candidates are over-fetched, filtered in
// one batched pass without re-scoring, and truncated to the requested size.
package retrieval
