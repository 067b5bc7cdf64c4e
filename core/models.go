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

import (
	"encoding/binary"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for session entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// TreeNode is one entry of the classification tree, or a grouping header
// when Code is empty. Parents own their children; nodes carry no back
// references.
type TreeNode struct {
	Code        string
	Description string // may contain markup, rendered verbatim
	Indent      int    // source nesting depth, only used when building trees
	Children    []*TreeNode
}

// HasCode reports whether the node carries a classification code of its own.
func (n *TreeNode) HasCode() bool {
	return n != nil && n.Code != ""
}

// HasChildren reports whether the node can be focused.
func (n *TreeNode) HasChildren() bool {
	return n != nil && len(n.Children) > 0
}

// treeNodeJSON is the wire form of a TreeNode. The classification data uses
// "htsno" for the code; "code" is accepted as an alias.
type treeNodeJSON struct {
	HTSNo       string      `json:"htsno"`
	Code        string      `json:"code,omitempty"`
	Description string      `json:"description"`
	Indent      Indent      `json:"indent"`
	Children    []*TreeNode `json:"children"`
}

// MarshalJSON writes the node using the "htsno" field name.
func (n TreeNode) MarshalJSON() ([]byte, error) {
	children := n.Children
	if children == nil {
		children = []*TreeNode{}
	}
	return json.Marshal(treeNodeJSON{
		HTSNo:       n.Code,
		Description: n.Description,
		Indent:      Indent(n.Indent),
		Children:    children,
	})
}

// UnmarshalJSON reads a node written with either "htsno" or "code".
func (n *TreeNode) UnmarshalJSON(data []byte) error {
	var raw treeNodeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	n.Code = raw.HTSNo
	if n.Code == "" {
		n.Code = raw.Code
	}
	n.Description = raw.Description
	n.Indent = int(raw.Indent)
	n.Children = raw.Children
	return nil
}

// Indent is a nesting depth that decodes from a JSON number or a numeric
// string. Anything else decodes as 0.
type Indent int

// UnmarshalJSON implements json.Unmarshaler.
func (i *Indent) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		*i = 0
		return nil
	}
	*i = Indent(n)
	return nil
}

// KeywordSet holds the keywords extracted from a query. All keywords are
// lower-cased, trimmed and unique within their list.
type KeywordSet struct {
	ObjectKeywords  []string `json:"objectKeywords"`
	ContextKeywords []string `json:"contextKeywords"`
}

// NewKeywordSet normalizes the given keyword lists into a KeywordSet.
func NewKeywordSet(object, context []string) KeywordSet {
	return KeywordSet{
		ObjectKeywords:  normalizeKeywords(object),
		ContextKeywords: normalizeKeywords(context),
	}
}

// IsEmpty reports whether the set carries no keywords at all.
func (k KeywordSet) IsEmpty() bool {
	return len(k.ObjectKeywords) == 0 && len(k.ContextKeywords) == 0
}

// Tokens returns the union of object and context keywords split on
// whitespace, lower-cased and deduplicated, in order of first appearance.
func (k KeywordSet) Tokens() []string {
	seen := make(map[string]bool)
	tokens := make([]string, 0, len(k.ObjectKeywords)+len(k.ContextKeywords))
	for _, list := range [][]string{k.ObjectKeywords, k.ContextKeywords} {
		for _, kw := range list {
			for _, tok := range strings.Fields(strings.ToLower(kw)) {
				if !seen[tok] {
					seen[tok] = true
					tokens = append(tokens, tok)
				}
			}
		}
	}
	return tokens
}

func normalizeKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, kw := range in {
		kw = strings.Join(strings.Fields(strings.ToLower(kw)), " ")
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		out = append(out, kw)
	}
	return out
}

// Candidate is a searchable node produced by lexical scoring.
type Candidate struct {
	Code            string `json:"htsno"`
	Description     string `json:"description"`
	FullDescription string `json:"fullDescription"`
	LocalSimilarity int    `json:"localSim"`
}

// RankedResult is a reranked candidate ready for display.
type RankedResult struct {
	Code            string  `json:"htsno"`
	Description     string  `json:"description"`
	Score           float64 `json:"score"` // 0..100
	Explanation     string  `json:"explanation"`
	FullDescription string  `json:"fullDescription,omitempty"`
}

// HistoryEntry records one successful search within a session.
type HistoryEntry struct {
	Id        ID
	Query     string
	Keywords  KeywordSet
	Results   []RankedResult
	CreatedAt time.Time
}

// NormalizeQuery lower-cases q and collapses its whitespace, so queries that
// differ only in case or spacing compare equal.
func NormalizeQuery(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}

// QueryID is the content ID of the normalized query.
func QueryID(q string) ID {
	return IDFromContent(NormalizeQuery(q))
}
