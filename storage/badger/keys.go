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


package badger

import (
	"encoding/binary"

	"github.com/poiesic/htsfinder/core"
)

// Key prefixes for different data types
const (
	historyEntryPrefix = "hisent:"
	historyQueryPrefix = "hisqry:"
	historyIDSeq       = "hisseq"
)

// makePrefixedIDKey appends id in BigEndian order so keys sort by ID.
func makePrefixedIDKey(prefix string, id core.ID) []byte {
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeHistoryEntryKey generates a key for a history entry by ID.
// Format: prefix + 8 byte ID
func makeHistoryEntryKey(id core.ID) []byte {
	return makePrefixedIDKey(historyEntryPrefix, id)
}

// makeHistoryQueryKey generates a key for the query index.
// Format: prefix + 8 byte content ID of the normalized query
func makeHistoryQueryKey(query string) []byte {
	return makePrefixedIDKey(historyQueryPrefix, core.QueryID(query))
}
