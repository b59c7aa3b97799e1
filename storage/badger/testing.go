// Copyright 2025 Venetia Project
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

package badger

import "github.com/elonge/venetia-engine/storage"

// NewMemoryStores creates in-memory bucket and concept stores for testing.
// Returns bucketStore, conceptStore, backend, and error.
// Caller must close the backend when done.
func NewMemoryStores() (storage.BucketStore, storage.ConceptStore, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, nil, err
	}

	bucketStore, err := NewBucketStore(backend)
	if err != nil {
		backend.Close()
		return nil, nil, nil, err
	}

	conceptStore, err := NewConceptStore(backend)
	if err != nil {
		bucketStore.Close()
		backend.Close()
		return nil, nil, nil, err
	}

	return bucketStore, conceptStore, backend, nil
}
