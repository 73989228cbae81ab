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

package seqio

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/shenwei356/SeqRank/seqrank/index"
	"github.com/shenwei356/bio/seq"
)

func TestParseHeader(t *testing.T) {
	for _, c := range []struct {
		line   string
		header Header
	}{
		{"1,-1,-1,10\n", Header{1, -1, -1, 10}},
		{"2, -3, -1, 100\n", Header{2, -3, -1, 100}},
		{" 2,\t-3,+1, 100 \n", Header{2, -3, 1, 100}},
		{"-0x1F,-1,-1,10\n", Header{-31, -1, -1, 10}},
		{"0x2,-1,0,010\n", Header{2, -1, 0, 8}},
		{"1,-1,-1,10\r\n", Header{1, -1, -1, 10}},
	} {
		r := NewReader(strings.NewReader(c.line))
		h, err := r.ParseHeader()
		if err != nil {
			t.Errorf("%q: %s", c.line, err)
			continue
		}
		if *h != c.header {
			t.Errorf("%q: expected %s, returned %s", c.line, c.header, h)
		}
	}

	for _, line := range []string{
		"",
		"1,-1,-1,10",
		"1,-1,-1\n",
		"1,-1,-1,10,3\n",
		"1,a,-1,10\n",
		"1,-1,-1,-10\n",
		"1;-1;-1;10\n",
		"2 ,-1,-1,10\n",
		"2,-1,-1 ,10\n",
		"1,-1,-1,1_000\n",
		"0b1,-1,-1,10\n",
		"1,-1,-1,0o7\n",
		"1,-0B1,-1,10\n",
		"1,-1,-1,08\n",
		"1,-1,-1,\n",
	} {
		r := NewReader(strings.NewReader(line))
		_, err := r.ParseHeader()
		if errors.Cause(err) != ErrMalformedHeader {
			t.Errorf("%q: expected ErrMalformedHeader, returned %v", line, err)
		}
	}
}

type query struct {
	offset int64
	seq    string
}

func readAll(t *testing.T, input string) (*Reader, []byte, []query, error) {
	r := NewReader(strings.NewReader(input))
	if _, err := r.ParseHeader(); err != nil {
		return r, nil, nil, err
	}
	ref, err := r.Reference()
	if err != nil {
		return r, nil, nil, err
	}

	var qs []query
	var offset int64
	var s []byte
	for {
		offset, s, err = r.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return r, ref, qs, err
		}
		qs = append(qs, query{offset, string(s)})
	}
	return r, ref, qs, nil
}

func TestReader(t *testing.T) {
	input := "1,-1,-1,10\nACGT\nACGT\n\nAGCT\r\n\nTTTT"
	r, ref, qs, err := readAll(t, input)
	if err != nil {
		t.Error(err)
		return
	}

	if string(ref) != "ACGT" {
		t.Errorf("unexpected reference: %s", ref)
	}

	expected := []query{{16, "ACGT"}, {22, "AGCT"}, {29, "TTTT"}}
	if len(qs) != len(expected) {
		t.Errorf("expected %d queries, returned %d", len(expected), len(qs))
		return
	}
	for i, q := range qs {
		if q != expected[i] {
			t.Errorf("#%d: expected %v, returned %v", i, expected[i], q)
		}
		if input[q.offset:q.offset+int64(len(q.seq))] != q.seq {
			t.Errorf("#%d: offset %d does not point to %s", i, q.offset, q.seq)
		}
	}

	if r.Skipped() != 2 {
		t.Errorf("expected 2 skipped lines, returned %d", r.Skipped())
	}
	if r.Offset() != int64(len(input)) {
		t.Errorf("expected %d bytes consumed, returned %d", len(input), r.Offset())
	}
}

func TestReaderNoQueries(t *testing.T) {
	for _, input := range []string{
		"1,-1,-1,10\nACGT\n",
		"1,-1,-1,10\nACGT\n\n\n",
		"1,-1,-1,10\n\n",
	} {
		_, _, qs, err := readAll(t, input)
		if err != nil {
			t.Errorf("%q: %s", input, err)
			continue
		}
		if len(qs) != 0 {
			t.Errorf("%q: expected no queries, returned %d", input, len(qs))
		}
	}

	_, _, _, err := readAll(t, "1,-1,-1,10\n")
	if errors.Cause(err) != ErrMalformedLine {
		t.Errorf("expected ErrMalformedLine for missing reference, returned %v", err)
	}
}

func TestReaderTooLong(t *testing.T) {
	for _, input := range []string{
		"1,-1,-1,4\nACGTA\nACGT\n",
		"1,-1,-1,4\nACGT\nACGTA\n",
		"1,-1,-1,4\nACGT\nACGT\nACGTA",
		"1,-1,-1,0\n\nA\n",
		// longer than the buffer of bufio.Reader
		"1,-1,-1,10\nACGT\n" + strings.Repeat("A", 100<<10) + "\n",
	} {
		_, _, _, err := readAll(t, input)
		if errors.Cause(err) != ErrSeqTooLong {
			t.Errorf("%.40q: expected ErrSeqTooLong, returned %v", input, err)
		}
	}

	// equal to the max length
	_, _, qs, err := readAll(t, "1,-1,-1,4\nACGT\nACGT\r\nAC\n")
	if err != nil {
		t.Error(err)
		return
	}
	if len(qs) != 2 {
		t.Errorf("expected 2 queries, returned %d", len(qs))
	}
}

func TestReaderAlphabet(t *testing.T) {
	r := NewReader(strings.NewReader("1,-1,-1,10\nACGT\nACGN\nACJT\n"))
	r.Alphabet = seq.DNAredundant

	var err error
	if _, err = r.ParseHeader(); err != nil {
		t.Error(err)
		return
	}
	if _, err = r.Reference(); err != nil {
		t.Error(err)
		return
	}
	if _, _, err = r.Next(); err != nil {
		t.Errorf("ACGN should be valid: %s", err)
	}
	if _, _, err = r.Next(); errors.Cause(err) != ErrInvalidSeq {
		t.Errorf("expected ErrInvalidSeq, returned %v", err)
	}
}

func TestReaderOrder(t *testing.T) {
	r := NewReader(strings.NewReader("1,-1,-1,10\nACGT\n"))
	if _, err := r.Reference(); err != ErrNoHeader {
		t.Errorf("expected ErrNoHeader, returned %v", err)
	}
	if _, _, err := r.Next(); err != ErrNoHeader {
		t.Errorf("expected ErrNoHeader, returned %v", err)
	}
}

func TestEmit(t *testing.T) {
	input := "1,-1,-1,10\nACGT\nACGT\nAGCT\nTTTT\n"
	src := strings.NewReader(input)

	records := index.Records{
		{Offset: 26, Len: 4, Score: 1},
		{Offset: 16, Len: 4, Score: 4},
		{Offset: 21, Len: 2, Score: 1},
	}

	var buf bytes.Buffer
	n, err := Emit(records, src, &buf)
	if err != nil {
		t.Error(err)
		return
	}
	if n != len(records) {
		t.Errorf("expected %d sequences written, returned %d", len(records), n)
	}
	if buf.String() != "TTTT\nACGT\nAG\n" {
		t.Errorf("unexpected output: %q", buf.String())
	}

	// nothing to write
	buf.Reset()
	n, err = Emit(nil, src, &buf)
	if err != nil || n != 0 || buf.Len() != 0 {
		t.Errorf("unexpected result for no records: %d, %v, %q", n, err, buf.String())
	}
}

func TestEmitShortRead(t *testing.T) {
	src := strings.NewReader("1,-1,-1,10\nACGT\nACGT\n")
	records := index.Records{
		{Offset: 16, Len: 4},
		{Offset: 18, Len: 10},
	}

	var buf bytes.Buffer
	n, err := Emit(records, src, &buf)
	if errors.Cause(err) != ErrShortRead {
		t.Errorf("expected ErrShortRead, returned %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 sequence written before the error, returned %d", n)
	}
}
