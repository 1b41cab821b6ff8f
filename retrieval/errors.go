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

package retrieval

import "errors"

var (
	// ErrInvalidOption indicates a search option outside its allowed bounds,
	// such as top_k out of range or an unknown phase code. Rejected before
	// any index or store access.
	ErrInvalidOption = errors.New("invalid search option")

	// ErrEmptyQuery indicates a query with no text to embed.
	ErrEmptyQuery = errors.New("query text cannot be empty")

	// ErrTrialRepositoryRequired is returned when a trial repository is not provided.
	ErrTrialRepositoryRequired = errors.New("trial repository required")

	// ErrProviderRequired is returned when an AI provider is not provided.
	ErrProviderRequired = errors.New("AI provider required")

	// ErrHandleRequired is returned when a snapshot handle is not provided.
	ErrHandleRequired = errors.New("snapshot handle required")
)
