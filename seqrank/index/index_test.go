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
	"math"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
)

func TestRank(t *testing.T) {
	idx := NewIndex()

	// offset, len, score
	data := [][3]int{
		{5, 4, 1},
		{10, 4, 4},
		{15, 4, 1},
		{20, 3, 0},
		{24, 4, 4},
	}
	for _, d := range data {
		r := idx.Add(int64(d[0]), d[1])
		r.Score = d[2]
	}
	if idx.Len() != len(data) {
		t.Errorf("expected %d records, returned %d", len(data), idx.Len())
		return
	}

	rs, err := idx.Rank()
	if err != nil {
		t.Error(err)
		return
	}

	expected := []int64{10, 24, 5, 15, 20}
	if len(rs) != len(expected) {
		t.Errorf("expected %d records, returned %d", len(expected), len(rs))
		return
	}
	for i, r := range rs {
		if r.Offset != expected[i] {
			t.Errorf("#%d: expected offset %d, returned %s", i, expected[i], r)
		}
	}

	if idx.Len() != 0 {
		t.Errorf("the index should be empty after ranking, %d records left", idx.Len())
	}
}

func TestRankEmpty(t *testing.T) {
	rs, err := NewIndex().Rank()
	if err != nil {
		t.Error(err)
		return
	}
	if len(rs) != 0 {
		t.Errorf("expected no records, returned %d", len(rs))
	}
}

func TestRankCountMismatch(t *testing.T) {
	idx := NewIndex()
	idx.Add(0, 4).Score = 1
	idx.Add(5, 4).Score = 2
	idx.n++

	_, err := idx.Rank()
	if errors.Cause(err) != ErrInvariant {
		t.Errorf("expected ErrInvariant, returned %v", err)
	}
}

func TestRankOrder(t *testing.T) {
	idx := NewIndex()
	var offset int64
	n := 10000
	for i := 0; i < n; i++ {
		l := rand.Intn(20) + 1
		r := idx.Add(offset, l)
		r.Score = rand.Intn(10)
		offset += int64(l) + 1
	}

	rs, err := idx.Rank()
	if err != nil {
		t.Error(err)
		return
	}
	if len(rs) != n {
		t.Errorf("expected %d records, returned %d", n, len(rs))
		return
	}
	var a, b Record
	for i := 1; i < len(rs); i++ {
		a, b = rs[i-1], rs[i]
		if a.Score > b.Score || (a.Score == b.Score && a.Offset < b.Offset) {
			continue
		}
		t.Errorf("wrong order: #%d (%s) vs #%d (%s)", i-1, a, i, b)
		return
	}
}

func TestSummary(t *testing.T) {
	s := Summary(nil)
	if s.N != 0 || s.Max != 0 || s.Mean != 0 {
		t.Errorf("unexpected stats of empty records: %+v", s)
	}

	rs := Records{{Score: 6}, {Score: 4}, {Score: 2}}
	s = Summary(rs)
	if s.N != 3 || s.Max != 6 || s.Min != 2 {
		t.Errorf("unexpected stats: %+v", s)
	}
	if math.Abs(s.Mean-4) > 1e-9 || math.Abs(s.Stdev-2) > 1e-9 {
		t.Errorf("unexpected mean or stdev: %+v", s)
	}
}
