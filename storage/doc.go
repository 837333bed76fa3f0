// Copyright 2025 Poiesic Systems
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


// Package storage provides the storage abstraction layer for vestige.
//
// This package defines repository interfaces that decouple the version store
// from business logic. The BadgerDB implementation lives in storage/badger.
//
// # Architecture
//
// The storage layer follows the Repository pattern:
//
//   - DocumentRepository: content-addressed, versioned documents
//   - OutputRepository: auxiliary outputs keyed by document digest
//
// Documents are keyed by the BLAKE2b-256 digest of their body. Storing a body
// that is already present bumps its Version and replaces its descriptive
// fields; the body itself is immutable.
//
// # Usage
//
// Use in tests with in-memory storage:
//
//	docs, outputs, backend, err := badger.NewMemoryRepositories()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context. Pass context.Background()
// for operations without specific timeout requirements.
package storage
