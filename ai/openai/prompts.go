package openai

import (
	"encoding/json"
	"fmt"

	"github.com/poiesic/htsfinder/core"
)

const keywordResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "objectKeywords": {
      "type": "array",
      "items": {"type": "string"}
    },
    "contextKeywords": {
      "type": "array",
      "items": {"type": "string"}
    }
  },
  "required": ["objectKeywords", "contextKeywords"],
  "additionalProperties": false
}`

const keywordPrompt = `You are a customs classification assistant for the Harmonized Tariff Schedule (HTS).
Extract search keywords from the user's product description and return them as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- objectKeywords name WHAT the goods are: the article itself, in the singular, using the terms a tariff
  schedule would use (e.g. "horse", "bolt", "t-shirt", "tea").
- contextKeywords describe the goods: material, use, state, processing, or species
  (e.g. "steel", "cotton", "frozen", "breeding", "knitted").
- Keywords are lowercase English, 1-3 words each. Translate the description to English first if needed.
- Add common tariff synonyms when they are likely to appear in the schedule (e.g. "automobile" for "car").
- Do not invent properties the description does not state or clearly imply.
- If nothing can be extracted, return {"objectKeywords": [], "contextKeywords": []}.

Example:
Input: "purebred arabian horses for breeding"
Output:
{"objectKeywords":["horse"],"contextKeywords":["purebred","breeding","live"]}

Example (informal):
Input: "frozen shrimp, shell on"
Output:
{"objectKeywords":["shrimp","prawn"],"contextKeywords":["frozen","shell-on","crustacean"]}`

const rankingPrompt = `You are a customs classification expert for the Harmonized Tariff Schedule (HTS).
You receive the keywords extracted from a product description and a list of candidate tariff lines.
Rank the candidates by how well they classify the product and return the best %d as JSON.

Output ONLY valid JSON of the form:
{"result":[{"htsno":"<code>","description":"<description>","score":<0-100>,"explanation":"<one sentence>"}]}

Rules:
- Only use codes that appear in the candidate list. Never invent or alter a code.
- score is a number from 0 (irrelevant) to 100 (exact classification). Order results by score, highest first.
- Prefer the most specific line: when a heading and one of its subheadings both fit, the longer,
  more detailed code ranks higher.
- Read fullDescription: it lists every ancestor heading, and a line only applies when its whole
  path matches the product.
- Exclude lines from an unrelated domain even when words overlap (e.g. "horse" the animal versus
  "horsepower" of an engine).
- Prefer ordinary commercial goods over antiques, collectors' pieces, or historical lines unless the
  description asks for them.
- explanation states in one short sentence why the line fits or does not.`

// buildKeywordPrompt creates the system prompt for keyword extraction.
func buildKeywordPrompt() string {
	return fmt.Sprintf(keywordPrompt, keywordResponseSchema)
}

// buildRankingPrompt creates the system prompt for reranking.
func buildRankingPrompt(limit int) string {
	return fmt.Sprintf(rankingPrompt, limit)
}

// rankingInput is the user message sent to the reranker.
type rankingInput struct {
	ObjectKeywords  []string         `json:"objectKeywords"`
	ContextKeywords []string         `json:"contextKeywords"`
	Candidates      []core.Candidate `json:"candidates"`
}

// buildRankingInput renders keywords and candidates as the JSON user message.
func buildRankingInput(keywords core.KeywordSet, candidates []core.Candidate) (string, error) {
	in := rankingInput{
		ObjectKeywords:  keywords.ObjectKeywords,
		ContextKeywords: keywords.ContextKeywords,
		Candidates:      candidates,
	}
	if in.ObjectKeywords == nil {
		in.ObjectKeywords = []string{}
	}
	if in.ContextKeywords == nil {
		in.ContextKeywords = []string{}
	}
	if in.Candidates == nil {
		in.Candidates = []core.Candidate{}
	}
	data, err := json.Marshal(in)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
