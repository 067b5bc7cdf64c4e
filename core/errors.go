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


package core

import "errors"

// Search and session errors
var (
	// ErrTreeLoad indicates the classification tree could not be loaded.
	// The session keeps an empty tree.
	ErrTreeLoad = errors.New("tree load failed")

	// ErrExtraction indicates the keyword extraction stage failed.
	ErrExtraction = errors.New("keyword extraction failed")

	// ErrRanking indicates the reranking stage failed.
	ErrRanking = errors.New("ranking failed")

	// ErrNotFound indicates a code has no path in the tree.
	ErrNotFound = errors.New("code not found")

	// ErrSuperseded indicates a newer search started before this one finished.
	ErrSuperseded = errors.New("search superseded by a newer query")

	// ErrEmptyQuery indicates the query was blank.
	ErrEmptyQuery = errors.New("query cannot be empty")
)

// Validation errors
var (
	// ErrInvalidRankedResult indicates a RankedResult failed validation.
	ErrInvalidRankedResult = errors.New("invalid ranked result")

	// ErrEmptyCode indicates the code field is empty.
	ErrEmptyCode = errors.New("code cannot be empty")

	// ErrInvalidScore indicates a score outside 0..100.
	ErrInvalidScore = errors.New("score must be between 0 and 100")
)
