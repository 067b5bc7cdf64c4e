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


package storage

import (
	"fmt"
	"math"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/htsfinder/core"
)

// marshaler and unmarshaler match the mus-go serializers used below.
type marshaler[T any] interface {
	Marshal(v T, bs []byte) (n int)
	Size(v T) (size int)
}

type unmarshaler[T any] interface {
	Unmarshal(bs []byte) (v T, n int, err error)
}

// encoder writes values into a buffer sized in advance.
type encoder struct {
	bs  []byte
	off int
}

func put[T any](e *encoder, m marshaler[T], v T) {
	e.off += m.Marshal(v, e.bs[e.off:])
}

// decoder reads values until the first error, which it keeps.
type decoder struct {
	bs  []byte
	off int
	err error
}

func get[T any](d *decoder, u unmarshaler[T]) T {
	var zero T
	if d.err != nil {
		return zero
	}
	v, n, err := u.Unmarshal(d.bs[d.off:])
	if err != nil {
		d.err = err
		return zero
	}
	d.off += n
	return v
}

// length reads a sequence length and checks it against the bytes left.
// Every element takes at least one byte.
func (d *decoder) length() int {
	n := get(d, varint.Int)
	if d.err == nil && (n < 0 || n > len(d.bs)-d.off) {
		d.err = ErrTruncatedData
		return 0
	}
	return n
}

func (d *decoder) finish(what string) error {
	if d.err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSerializationFailed, what, d.err)
	}
	return nil
}

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, varint.Uint64.Size(uint64(id)))
	varint.Uint64.Marshal(uint64(id), buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	d := &decoder{bs: data}
	id := get(d, varint.Uint64)
	return core.ID(id), d.finish("id")
}

func stringsSize(ss []string) int {
	size := varint.Int.Size(len(ss))
	for _, s := range ss {
		size += ord.String.Size(s)
	}
	return size
}

func putStrings(e *encoder, ss []string) {
	put(e, varint.Int, len(ss))
	for _, s := range ss {
		put(e, ord.String, s)
	}
}

func getStrings(d *decoder) []string {
	n := d.length()
	out := make([]string, 0, n)
	for range n {
		s := get(d, ord.String)
		if d.err != nil {
			return nil
		}
		out = append(out, s)
	}
	return out
}

// Scores are stored as their IEEE 754 bits.
func rankedResultSize(r *core.RankedResult) int {
	return ord.String.Size(r.Code) +
		ord.String.Size(r.Description) +
		varint.Uint64.Size(math.Float64bits(r.Score)) +
		ord.String.Size(r.Explanation) +
		ord.String.Size(r.FullDescription)
}

func putRankedResult(e *encoder, r *core.RankedResult) {
	put(e, ord.String, r.Code)
	put(e, ord.String, r.Description)
	put(e, varint.Uint64, math.Float64bits(r.Score))
	put(e, ord.String, r.Explanation)
	put(e, ord.String, r.FullDescription)
}

func getRankedResult(d *decoder) core.RankedResult {
	return core.RankedResult{
		Code:            get(d, ord.String),
		Description:     get(d, ord.String),
		Score:           math.Float64frombits(get(d, varint.Uint64)),
		Explanation:     get(d, ord.String),
		FullDescription: get(d, ord.String),
	}
}

// historyEntrySize returns the encoded size of entry. CreatedAt is kept with
// microsecond precision.
func historyEntrySize(entry *core.HistoryEntry) int {
	size := varint.Uint64.Size(uint64(entry.Id)) +
		ord.String.Size(entry.Query) +
		stringsSize(entry.Keywords.ObjectKeywords) +
		stringsSize(entry.Keywords.ContextKeywords) +
		varint.Int.Size(len(entry.Results))
	for i := range entry.Results {
		size += rankedResultSize(&entry.Results[i])
	}
	return size + varint.Int64.Size(entry.CreatedAt.UnixMicro())
}

// MarshalHistoryEntry serializes a HistoryEntry to bytes.
func MarshalHistoryEntry(entry *core.HistoryEntry) []byte {
	e := &encoder{bs: make([]byte, historyEntrySize(entry))}
	put(e, varint.Uint64, uint64(entry.Id))
	put(e, ord.String, entry.Query)
	putStrings(e, entry.Keywords.ObjectKeywords)
	putStrings(e, entry.Keywords.ContextKeywords)
	put(e, varint.Int, len(entry.Results))
	for i := range entry.Results {
		putRankedResult(e, &entry.Results[i])
	}
	put(e, varint.Int64, entry.CreatedAt.UnixMicro())
	return e.bs
}

// UnmarshalHistoryEntry deserializes a HistoryEntry from bytes.
func UnmarshalHistoryEntry(data []byte) (*core.HistoryEntry, error) {
	d := &decoder{bs: data}
	entry := &core.HistoryEntry{
		Id:    core.ID(get(d, varint.Uint64)),
		Query: get(d, ord.String),
	}
	entry.Keywords.ObjectKeywords = getStrings(d)
	entry.Keywords.ContextKeywords = getStrings(d)

	n := d.length()
	entry.Results = make([]core.RankedResult, 0, n)
	for range n {
		r := getRankedResult(d)
		if d.err != nil {
			break
		}
		entry.Results = append(entry.Results, r)
	}
	entry.CreatedAt = time.UnixMicro(get(d, varint.Int64)).UTC()

	if err := d.finish("history entry"); err != nil {
		return nil, err
	}
	return entry, nil
}
