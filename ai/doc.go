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


// Package ai defines the collaborator services used by an HTS code search.
//
// A search needs two outside services: one that turns a free-text product
// description into keywords, and one that orders a shortlist of tariff lines
// by relevance. This package holds the interfaces for both, their shared
// configuration, and the tolerant decoding of what those services send back.
//
// # Interfaces
//
//   - KeywordExtractor: maps a query to object and context keywords
//   - Reranker: orders candidate tariff lines and explains each score
//   - AIProvider: aggregates both for convenient initialization
//
// # Implementation Packages
//
//   - ai/openai: an OpenAI-compatible chat model driven through langchaingo
//   - ai/backend: a keyword/rank HTTP service
//   - ai/mock: test doubles with injectable behavior and call counters
//
// # Decoding
//
// Services are free-form text generators, so their output is decoded by
// ParseKeywords and ParseRanking. Both accept the expected JSON directly,
// wrapped in {"result": ...}, string-encoded, or fenced in markdown. As a last
// step the first balanced bracketed section of the text is tried. When all
// of that fails the caller gets a *ParseFailure carrying the raw text.
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider, backend.NewProvider) return
// interface types. Mock constructors return concrete types so tests can
// inject behavior and inspect call counts.
//
//	provider, err := openai.NewProvider(ai.NewConfig(ai.WithModel("gpt-4o-mini")))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	keywords, err := provider.KeywordExtractor().ExtractKeywords(ctx, "purebred breeding horses")
package ai
