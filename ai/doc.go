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

// Package ai defines the interface boundary to embedding services.
//
// The engine never computes embeddings itself: the Embedder interface is its
// only view of the model that turns text into fixed-dimension vectors. The
// openai subpackage provides a production implementation for
// OpenAI-compatible APIs, and the mock subpackage provides deterministic
// test doubles.
package ai
