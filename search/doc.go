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

// Package search finds tariff lines for a free-text product description.
//
// A search runs four stages:
//   - Keyword extraction through an ai.KeywordExtractor
//   - Lexical scoring of every searchable tree entry against the keywords,
//     keeping the best candidates (Scorer)
//   - Reranking of that shortlist through an ai.Reranker
//   - Merging the ranked list back onto the candidates so every result
//     carries the full description from the tree (Merge)
//
// Extraction and reranking run one after the other, each bounded by its own
// timeout. Scoring is pure in-memory work spread over a worker pool.
package search
