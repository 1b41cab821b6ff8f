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

// Package storage defines repository interfaces for the canonical trial
// store and the dataset registry, along with the binary serialization used
// by backends.
//
// The badger subpackage provides the BadgerDB implementation. Its key layout
// makes lexicographic iteration a stable, deterministic order grouped by
// dataset, which the index builder relies on for reproducible slot
// assignment.
package storage
