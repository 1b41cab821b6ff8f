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

// Package ingestion loads clinical trial records from CSV files.
//
// Source files rarely share a schema, so the loader maps columns to canonical
// fields either from an explicit Mapping or by case-insensitive alias lookup
// against the header. Field values are normalized on the way in: phases to
// canonical PHASE* tokens, dates to ISO 8601, participant counts to integers
// with absent values kept distinct from zero.
package ingestion
