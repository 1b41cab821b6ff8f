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

package storage

import (
	"fmt"

	"github.com/poiesic/trialdex/core"
)

// MarshalTrial serializes a Trial to bytes.
func MarshalTrial(trial *core.Trial) []byte {
	buf := make([]byte, core.TrialMUS.Size(*trial))
	core.TrialMUS.Marshal(*trial, buf)
	return buf
}

// UnmarshalTrial deserializes a Trial from bytes.
func UnmarshalTrial(data []byte) (*core.Trial, error) {
	trial, _, err := core.TrialMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &trial, nil
}

// MarshalDataset serializes a Dataset to bytes.
func MarshalDataset(dataset *core.Dataset) []byte {
	buf := make([]byte, core.DatasetMUS.Size(*dataset))
	core.DatasetMUS.Marshal(*dataset, buf)
	return buf
}

// UnmarshalDataset deserializes a Dataset from bytes.
func UnmarshalDataset(data []byte) (*core.Dataset, error) {
	dataset, _, err := core.DatasetMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &dataset, nil
}
