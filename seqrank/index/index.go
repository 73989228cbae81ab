// Copyright © 2023-2024 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package index

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/twotwotwo/sorts"
)

// ErrInvariant means the number of drained records does not match the
// number of added ones. It's a bug, not a problem of the input.
var ErrInvariant = errors.New("rank index: record number mismatch")

// Record is the location and score of a query sequence in the input file.
type Record struct {
	Offset int64 // where the sequence begins in the input file
	Len    int   // length of the sequence, the line terminator is not included
	Score  int   // alignment score against the reference
}

func (r Record) String() string {
	return fmt.Sprintf("offset: %d, len: %d, score: %d", r.Offset, r.Len, r.Score)
}

// Index accumulates records in the order of arrival.
type Index struct {
	records []*Record
	n       int // counted in Add, checked against drained records in Rank
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{records: make([]*Record, 0, 1024)}
}

// Add appends a record and returns it. The score is supposed to be set
// by the caller before the next call of Add.
func (idx *Index) Add(offset int64, length int) *Record {
	r := &Record{Offset: offset, Len: length}
	idx.records = append(idx.records, r)
	idx.n++
	return r
}

// Len returns the number of records.
func (idx *Index) Len() int {
	return idx.n
}

// Rank drains all records into a new slice, sorted by score in descending
// order. Records with the same score are sorted by offset.
// The Index is empty after calling Rank.
// ErrInvariant is returned if the number of drained records differs from
// the number counted in Add.
func (idx *Index) Rank() (Records, error) {
	rs := make(Records, 0, idx.n)
	for _, r := range idx.records {
		rs = append(rs, *r)
	}
	if len(rs) != idx.n {
		return nil, errors.Wrapf(ErrInvariant, "%d records drained, %d expected", len(rs), idx.n)
	}

	idx.records = nil
	idx.n = 0

	sorts.Quicksort(rs)
	return rs, nil
}

// Records is a list of records, sorted by score (descending) and
// then offset (ascending).
type Records []Record

func (s Records) Len() int { return len(s) }
func (s Records) Less(i, j int) bool {
	if s[i].Score == s[j].Score {
		return s[i].Offset < s[j].Offset
	}
	return s[i].Score > s[j].Score
}
func (s Records) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
