package ai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/poiesic/htsfinder/core"
)

// Stages reported by ParseFailure.
const (
	StageExtraction = "extraction"
	StageRanking    = "ranking"
)

// maxUnwrapDepth bounds how many {"result": ...} or string-encoded layers are
// peeled off a response before giving up.
const maxUnwrapDepth = 3

var (
	errNoKeywords   = errors.New("response has neither objectKeywords nor contextKeywords")
	errNoRanking    = errors.New("response holds no result list")
	errTooDeep      = errors.New("response nested too deeply")
	errNotJSON      = errors.New("response is not JSON")
	errNoBalanced   = errors.New("no balanced bracketed section in response")
	ErrEmptyContent = errors.New("service returned no content")
)

// ParseFailure reports collaborator output that could not be understood,
// even after recovery. Raw holds the text as received.
type ParseFailure struct {
	Stage string
	Raw   string
	Err   error
}

func (p *ParseFailure) Error() string {
	return fmt.Sprintf("%s: unparsable response: %v (raw: %s)", p.Stage, p.Err, truncate(p.Raw, 200))
}

func (p *ParseFailure) Unwrap() error {
	return p.Err
}

// ParseKeywords decodes a keyword extraction response. It accepts the
// keyword object directly, wrapped in {"result": ...} (as an object or a
// string-encoded object), or embedded in surrounding text, in which case the
// first balanced {...} section is used.
func ParseKeywords(raw string) (core.KeywordSet, error) {
	text := StripCodeFence(raw)

	ks, err := decodeKeywords([]byte(text), 0)
	if err == nil {
		return ks, nil
	}

	section, ok := ExtractBalanced(text, '{', '}')
	if !ok {
		return core.KeywordSet{}, &ParseFailure{Stage: StageExtraction, Raw: raw, Err: errors.Join(err, errNoBalanced)}
	}
	ks, err = decodeKeywords([]byte(section), 0)
	if err != nil {
		return core.KeywordSet{}, &ParseFailure{Stage: StageExtraction, Raw: raw, Err: err}
	}
	return ks, nil
}

type keywordPayload struct {
	ObjectKeywords  *[]string       `json:"objectKeywords"`
	ContextKeywords *[]string       `json:"contextKeywords"`
	Result          json.RawMessage `json:"result"`
}

func decodeKeywords(data []byte, depth int) (core.KeywordSet, error) {
	if depth > maxUnwrapDepth {
		return core.KeywordSet{}, errTooDeep
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return core.KeywordSet{}, errNotJSON
	}

	switch data[0] {
	case '"':
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return core.KeywordSet{}, err
		}
		return decodeKeywords([]byte(StripCodeFence(inner)), depth+1)
	case '{':
		var payload keywordPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return core.KeywordSet{}, err
		}
		if payload.ObjectKeywords == nil && payload.ContextKeywords == nil {
			if len(payload.Result) > 0 {
				return decodeKeywords(payload.Result, depth+1)
			}
			return core.KeywordSet{}, errNoKeywords
		}
		var object, context []string
		if payload.ObjectKeywords != nil {
			object = *payload.ObjectKeywords
		}
		if payload.ContextKeywords != nil {
			context = *payload.ContextKeywords
		}
		return core.NewKeywordSet(object, context), nil
	default:
		return core.KeywordSet{}, errNotJSON
	}
}

// ParseRanking decodes a reranking response. It accepts a bare array, an
// object with a "result" or "results" field (array or string-encoded array),
// or text containing one, in which case the first balanced [...] section is
// used. Well-formed JSON without a result list is a failure, not an empty
// ranking. Every record must pass core.ValidateRankedResult.
func ParseRanking(raw string) ([]core.RankedResult, error) {
	text := StripCodeFence(raw)

	results, err := decodeRanking([]byte(text), 0)
	if err != nil && !notJSON(err) {
		return nil, &ParseFailure{Stage: StageRanking, Raw: raw, Err: err}
	}
	if err != nil {
		section, ok := ExtractBalanced(text, '[', ']')
		if !ok {
			return nil, &ParseFailure{Stage: StageRanking, Raw: raw, Err: errors.Join(err, errNoBalanced)}
		}
		results, err = decodeRanking([]byte(section), 0)
		if err != nil {
			return nil, &ParseFailure{Stage: StageRanking, Raw: raw, Err: err}
		}
	}

	for i := range results {
		if err := core.ValidateRankedResult(&results[i]); err != nil {
			return nil, &ParseFailure{Stage: StageRanking, Raw: raw, Err: fmt.Errorf("record %d: %w", i, err)}
		}
	}
	return results, nil
}

type rankedPayload struct {
	HTSNo       string  `json:"htsno"`
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
}

type rankingEnvelope struct {
	Result  json.RawMessage `json:"result"`
	Results json.RawMessage `json:"results"`
}

func decodeRanking(data []byte, depth int) ([]core.RankedResult, error) {
	if depth > maxUnwrapDepth {
		return nil, errTooDeep
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errNotJSON
	}

	switch data[0] {
	case '"':
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return nil, err
		}
		return decodeRanking([]byte(StripCodeFence(inner)), depth+1)
	case '{':
		var env rankingEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		switch {
		case len(env.Result) > 0:
			return decodeRanking(env.Result, depth+1)
		case len(env.Results) > 0:
			return decodeRanking(env.Results, depth+1)
		}
		return nil, errNoRanking
	case '[':
		var payload []rankedPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, err
		}
		results := make([]core.RankedResult, len(payload))
		for i, p := range payload {
			code := p.HTSNo
			if code == "" {
				code = p.Code
			}
			results[i] = core.RankedResult{
				Code:        code,
				Description: p.Description,
				Score:       p.Score,
				Explanation: p.Explanation,
			}
		}
		return results, nil
	default:
		return nil, errNotJSON
	}
}

// notJSON reports whether err means the text was not JSON at all, as opposed
// to well-formed JSON of the wrong shape. Only the former is worth recovering.
func notJSON(err error) bool {
	var syntaxErr *json.SyntaxError
	return errors.Is(err, errNotJSON) || errors.As(err, &syntaxErr)
}

// ExtractBalanced returns the first substring of s that starts with open and
// ends at the matching close, skipping brackets inside JSON strings.
func ExtractBalanced(s string, open, close byte) (string, bool) {
	start := strings.IndexByte(s, open)
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

var codeFenceRe = regexp.MustCompile("(?s)^```(?:json|JSON)?\\s*(.*?)\\s*```$")

// StripCodeFence removes a surrounding markdown code fence, if any.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if m := codeFenceRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
