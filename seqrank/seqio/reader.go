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
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"
	"github.com/shenwei356/SeqRank/seqrank/align"
	"github.com/shenwei356/bio/seq"
)

// ErrMalformedHeader means the first line is not four comma-separated integers.
var ErrMalformedHeader = errors.New("seqio: malformed header line")

// ErrMalformedLine means a line is missing or not terminated.
var ErrMalformedLine = errors.New("seqio: malformed line")

// ErrSeqTooLong means a sequence is longer than the maximum length in the header.
var ErrSeqTooLong = errors.New("seqio: sequence too long")

// ErrInvalidSeq means a sequence contains invalid letters.
var ErrInvalidSeq = errors.New("seqio: invalid sequence")

// ErrNoHeader means the header and the reference should be read first.
var ErrNoHeader = errors.New("seqio: header or reference not read yet")

// Header is the first line of the input: the alignment weights
// and the maximum length of sequences.
type Header struct {
	MatchScore    int
	MisMatchScore int
	GapScore      int
	MaxLen        int
}

func (h Header) String() string {
	return fmt.Sprintf("match: %d, mismatch: %d, gap: %d, max length: %d",
		h.MatchScore, h.MisMatchScore, h.GapScore, h.MaxLen)
}

// AlignOptions returns the alignment options with the weights.
func (h *Header) AlignOptions() *align.AlignOptions {
	return &align.AlignOptions{
		MatchScore:    h.MatchScore,
		MisMatchScore: h.MisMatchScore,
		GapScore:      h.GapScore,
	}
}

// Reader reads the header, the reference and query sequences, one per line.
//
// Input format:
//
//	w_match,w_mismatch,w_gap,max_length
//	reference
//	query 1
//	query 2
//	...
//
// Empty query lines are skipped.
type Reader struct {
	// Alphabet is used to check sequences if not nil.
	Alphabet *seq.Alphabet

	br     *bufio.Reader
	offset int64 // number of bytes consumed

	header  *Header
	ref     []byte
	skipped int

	buf []byte // reused for every line
}

// NewReader creates a Reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		br:  bufio.NewReaderSize(r, 64<<10),
		buf: make([]byte, 0, 1024),
	}
}

// ParseHeader parses the first line.
// Integers are decimal, hexadecimal with the prefix 0x,
// or octal with a leading 0.
func (r *Reader) ParseHeader() (*Header, error) {
	line, terminated, err := r.readLine(-1)
	if err != nil {
		if err == io.EOF {
			return nil, errors.Wrap(ErrMalformedHeader, "empty input")
		}
		return nil, err
	}
	if !terminated {
		return nil, errors.Wrapf(ErrMalformedHeader, "no line terminator: %q", line)
	}

	items := bytes.Split(line, []byte{','})
	if len(items) != 4 {
		return nil, errors.Wrapf(ErrMalformedHeader, "four comma-separated integers expected: %q", line)
	}
	var vals [4]int
	var s []byte
	for i, item := range items {
		// blanks are allowed before numbers, and after the last one.
		s = bytes.TrimLeft(item, " \t")
		if i == 3 {
			s = bytes.TrimRight(s, " \t")
		}
		vals[i], err = parseInt(s)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedHeader, "invalid integer: %q", item)
		}
	}
	if vals[3] < 0 {
		return nil, errors.Wrapf(ErrMalformedHeader, "negative max length: %d", vals[3])
	}

	r.header = &Header{
		MatchScore:    vals[0],
		MisMatchScore: vals[1],
		GapScore:      vals[2],
		MaxLen:        vals[3],
	}
	return r.header, nil
}

// Reference reads the reference sequence in the second line.
// The returned sequence is a copy, and it could be empty.
func (r *Reader) Reference() ([]byte, error) {
	if r.header == nil {
		return nil, ErrNoHeader
	}
	line, _, err := r.readLine(r.header.MaxLen)
	if err != nil {
		if err == io.EOF {
			return nil, errors.Wrap(ErrMalformedLine, "reference sequence missing")
		}
		return nil, errors.Wrap(err, "reference")
	}
	if err = r.check(line); err != nil {
		return nil, errors.Wrap(err, "reference")
	}

	r.ref = append(make([]byte, 0, len(line)), line...)
	return r.ref, nil
}

// Next returns the next non-empty query sequence and the offset where it
// begins. It returns io.EOF when no more sequences.
// The returned sequence is only valid before the next call of Next.
func (r *Reader) Next() (int64, []byte, error) {
	if r.ref == nil {
		return 0, nil, ErrNoHeader
	}
	var offset int64
	var line []byte
	var err error
	for {
		offset = r.offset
		line, _, err = r.readLine(r.header.MaxLen)
		if err != nil {
			if err == io.EOF {
				return 0, nil, io.EOF
			}
			return 0, nil, errors.Wrapf(err, "offset %d", offset)
		}
		if len(line) == 0 {
			r.skipped++
			continue
		}
		if err = r.check(line); err != nil {
			return 0, nil, errors.Wrapf(err, "offset %d", offset)
		}
		return offset, line, nil
	}
}

// Skipped returns the number of skipped empty query lines.
func (r *Reader) Skipped() int {
	return r.skipped
}

// Offset returns the number of bytes consumed.
func (r *Reader) Offset() int64 {
	return r.offset
}

func (r *Reader) check(s []byte) error {
	if len(s) > r.header.MaxLen {
		return errors.Wrapf(ErrSeqTooLong, "%d > %d", len(s), r.header.MaxLen)
	}
	if r.Alphabet != nil {
		if err := r.Alphabet.IsValid(s); err != nil {
			return errors.Wrap(ErrInvalidSeq, err.Error())
		}
	}
	return nil
}

// readLine reads a line, with the line terminator (\n or \r\n) removed.
// A line without a terminator is only possible at the end of the input.
// If maxLen >= 0, it stops reading once the line is longer than maxLen.
func (r *Reader) readLine(maxLen int) ([]byte, bool, error) {
	r.buf = r.buf[:0]
	var data []byte
	var err error
	for {
		data, err = r.br.ReadSlice('\n')
		r.offset += int64(len(data))
		r.buf = append(r.buf, data...)

		if err == bufio.ErrBufferFull {
			// 2 for \r\n
			if maxLen >= 0 && len(r.buf) > maxLen+2 {
				return nil, false, errors.Wrapf(ErrSeqTooLong, "> %d", maxLen)
			}
			continue
		}
		if err == io.EOF {
			if len(r.buf) == 0 {
				return nil, false, io.EOF
			}
			return dropCR(r.buf), false, nil
		}
		if err != nil {
			return nil, false, err
		}

		return dropCR(r.buf[:len(r.buf)-1]), true, nil
	}
}

// parseInt parses a decimal, hexadecimal (0x) or octal (0) integer
// with an optional sign. Go-only forms like 0b101, 0o7 and 1_000 are rejected.
func parseInt(s []byte) (int, error) {
	if bytes.IndexByte(s, '_') >= 0 {
		return 0, strconv.ErrSyntax
	}
	digits := s
	if len(digits) > 0 && (digits[0] == '+' || digits[0] == '-') {
		digits = digits[1:]
	}
	if len(digits) > 1 && digits[0] == '0' {
		switch digits[1] {
		case 'b', 'B', 'o', 'O':
			return 0, strconv.ErrSyntax
		}
	}

	v, err := strconv.ParseInt(string(s), 0, strconv.IntSize)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

func dropCR(s []byte) []byte {
	if len(s) > 0 && s[len(s)-1] == '\r' {
		return s[:len(s)-1]
	}
	return s
}
