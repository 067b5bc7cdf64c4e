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

import "strings"

// repairJSON fixes keys that lost their opening quote, a common defect in
// chat model output: `{objectKeywords": [...]` becomes `{"objectKeywords": [...]`.
// Text inside string literals is left alone.
func repairJSON(s string) string {
	in := []rune(s)
	var out strings.Builder
	out.Grow(len(s) + 16)

	inString := false
	escaped := false
	for i := 0; i < len(in); i++ {
		ch := in[i]
		out.WriteRune(ch)

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
			continue
		case '{', ',':
		default:
			continue
		}

		// Copy whitespace after the delimiter.
		j := i + 1
		for j < len(in) && (in[j] == ' ' || in[j] == '\n' || in[j] == '\t' || in[j] == '\r') {
			out.WriteRune(in[j])
			j++
		}
		i = j - 1
		if j >= len(in) || !isLetter(in[j]) {
			continue
		}

		// An identifier immediately followed by `":` is a key missing its
		// opening quote.
		k := j
		for k < len(in) && (isLetter(in[k]) || in[k] == '_' || (in[k] >= '0' && in[k] <= '9')) {
			k++
		}
		if k+1 < len(in) && in[k] == '"' && in[k+1] == ':' {
			out.WriteRune('"')
			out.WriteString(string(in[j:k]))
			out.WriteString(`":`)
			i = k + 1
		}
	}

	return out.String()
}
