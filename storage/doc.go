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


// Package storage provides the storage abstraction layer for session history.
//
// This package defines repository interfaces that decouple storage implementation
// from the search session, plus the binary encoding of stored values.
//
// # Constructor Return Type Pattern
//
// Public constructors return interfaces:
//
//	repo, backend, err := badger.NewMemoryHistoryRepository()  // storage.HistoryRepository
//
// Internal package constructors may return concrete types since they're only
// used within the implementation package.
//
// # Encoding
//
// Values are encoded with mus-go primitives: varints for integers, length
// prefixed strings, and length prefixed sequences. See MarshalHistoryEntry.
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
