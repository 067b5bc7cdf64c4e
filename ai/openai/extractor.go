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

package openai

import (
	"context"
	"errors"
	"log/slog"

	"github.com/poiesic/htsfinder/ai"
	"github.com/poiesic/htsfinder/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// KeywordExtractor implements ai.KeywordExtractor using OpenAI-compatible chat APIs.
type KeywordExtractor struct {
	client llms.Model
	logger *slog.Logger
}

// newChatModel creates the langchaingo client shared by the extractor and reranker.
// Use "none" as token for local OpenAI-compatible services that don't require authentication.
func newChatModel(config *ai.Config) (llms.Model, error) {
	token := config.Credential
	if token == "" {
		token = "none"
	}
	return openai.New(
		openai.WithBaseURL(config.Endpoint),
		openai.WithToken(token),
		openai.WithModel(config.Model),
	)
}

// newKeywordExtractor is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newKeywordExtractor(client llms.Model) *KeywordExtractor {
	return &KeywordExtractor{
		client: client,
		logger: slog.Default().With("component", "openai-extractor"),
	}
}

// NewKeywordExtractor creates a new keyword extractor using the provided configuration.
//
// Returns ai.KeywordExtractor interface to enforce abstraction.
func NewKeywordExtractor(config *ai.Config) (ai.KeywordExtractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	client, err := newChatModel(config)
	if err != nil {
		return nil, err
	}
	return newKeywordExtractor(client), nil
}

// ExtractKeywords asks the chat model for object and context keywords.
// Unparsable output is returned as *ai.ParseFailure; there is no retry.
func (e *KeywordExtractor) ExtractKeywords(ctx context.Context, query string) (core.KeywordSet, error) {
	query = cleanQuery(query)

	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, buildKeywordPrompt()),
		llms.TextParts(llms.ChatMessageTypeHuman, query),
	}

	text, err := generate(ctx, e.client, content)
	if err != nil {
		e.logger.Error("failed to generate content", "err", err)
		return core.KeywordSet{}, err
	}

	keywords, err := parseWithRepair(text, ai.ParseKeywords)
	if err != nil {
		e.logger.Warn("error parsing extractor response", "response", text, "err", err)
		return core.KeywordSet{}, err
	}

	e.logger.Debug("extracted keywords",
		"object", len(keywords.ObjectKeywords),
		"context", len(keywords.ContextKeywords))
	return keywords, nil
}

// generate runs one deterministic JSON-mode completion and returns the text
// of the first choice.
func generate(ctx context.Context, client llms.Model, content []llms.MessageContent) (string, error) {
	response, err := client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
	if err != nil {
		return "", err
	}
	if len(response.Choices) < 1 || response.Choices[0] == nil {
		return "", ai.ErrEmptyContent
	}
	return response.Choices[0].Content, nil
}

// parseWithRepair parses text, and on failure tries again after repairJSON.
// The original failure is returned when the repaired text does not parse either.
func parseWithRepair[T any](text string, parse func(string) (T, error)) (T, error) {
	v, err := parse(text)
	if err == nil {
		return v, nil
	}
	var pf *ai.ParseFailure
	if !errors.As(err, &pf) {
		return v, err
	}
	if repaired := repairJSON(text); repaired != text {
		if v2, err2 := parse(repaired); err2 == nil {
			return v2, nil
		}
	}
	return v, err
}
