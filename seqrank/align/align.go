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

package align

import (
	"bytes"
	"fmt"
)

// Aligner computes local alignment scores with a Smith-Waterman style
// recurrence. Note that the score is the value of the bottom-right cell of
// the matrix, i.e., the best local alignment ending at the last bases of
// both sequences, not the maximum of the whole matrix.
//
// An Aligner is not safe for concurrent use.
type Aligner struct {
	Options *AlignOptions

	// reusable rows, only the previous row is needed.
	// Values are overwritten for every query, only the capacity is kept.
	prev []int
	curr []int

	// full matrix, only used when SaveMatrix is true
	scores []int
	buf    bytes.Buffer
}

// AlignOptions contains all alignment options.
type AlignOptions struct {
	MatchScore    int // score for a match
	MisMatchScore int // score for a mismatch
	GapScore      int // score for a gap

	// save matrix in the bytes buffer, only for debugging.
	SaveMatrix bool
}

// DefaultAlignOptions is the default AlignOptions.
var DefaultAlignOptions = AlignOptions{
	MatchScore:    1,
	MisMatchScore: -1,
	GapScore:      -1,

	SaveMatrix: false,
}

// NewAligner returns an aligner.
func NewAligner(options *AlignOptions) *Aligner {
	return &Aligner{
		Options: options,
		prev:    make([]int, 0, 1024),
		curr:    make([]int, 0, 1024),
	}
}

// Score returns the local alignment score of a query against a reference.
// The score is never negative, and it is 0 if either sequence is empty.
func (alg *Aligner) Score(ref, query []byte) int {
	if alg.Options.SaveMatrix {
		return alg.scoreWithMatrix(ref, query)
	}

	w := len(query) + 1 // width of the matrix

	// row 0 is all zeros.
	prev := resize(alg.prev, w)
	curr := resize(alg.curr, w)
	clear(prev)

	match := alg.Options.MatchScore
	mismatch := alg.Options.MisMatchScore
	gap := alg.Options.GapScore

	var i, j int
	var max, s int
	var a byte
	for i = 1; i <= len(ref); i++ {
		a = ref[i-1]
		curr[0] = 0 // column 0
		for j = 1; j < w; j++ {
			// restart here
			max = 0

			// diagonal
			if a == query[j-1] {
				s = prev[j-1] + match
			} else {
				s = prev[j-1] + mismatch
			}
			if s > max {
				max = s
			}
			// left
			if s = curr[j-1] + gap; s > max {
				max = s
			}
			// top
			if s = prev[j] + gap; s > max {
				max = s
			}

			curr[j] = max
		}
		prev, curr = curr, prev
	}

	// keep the (maybe grown) rows for the next query
	alg.prev, alg.curr = prev, curr

	// after the last swap, prev holds the last row
	return prev[w-1]
}

// scoreWithMatrix fills the whole matrix, so it can be printed.
func (alg *Aligner) scoreWithMatrix(ref, query []byte) int {
	h := len(ref) + 1   // height of the matrix
	w := len(query) + 1 // width of the matrix

	scores := resize(alg.scores, h*w)
	clear(scores)
	alg.scores = scores

	match := alg.Options.MatchScore
	mismatch := alg.Options.MisMatchScore
	gap := alg.Options.GapScore

	var i, j int
	var max, matchMismatch, sTop, sLeft int
	for i = 1; i < h; i++ {
		for j = 1; j < w; j++ {
			matchMismatch = mismatch
			if ref[i-1] == query[j-1] {
				matchMismatch = match
			}

			max = scores[idx(i-1, j-1, w)] + matchMismatch
			sTop = scores[idx(i-1, j, w)] + gap
			sLeft = scores[idx(i, j-1, w)] + gap

			if sTop > max {
				max = sTop
			}
			if sLeft > max {
				max = sLeft
			}
			if max < 0 {
				max = 0
			}

			scores[idx(i, j, w)] = max
		}
	}

	alg.printMatrix(ref, query, scores)

	return scores[idx(h-1, w-1, w)]
}

// Matrix returns the text of the matrix filled in the last call of Score,
// only available when SaveMatrix is true.
// The returned data is reused by the next call.
func (alg *Aligner) Matrix() []byte {
	return alg.buf.Bytes()
}

func (alg *Aligner) printMatrix(a, b []byte, scores []int) {
	h := len(a) + 1
	w := len(b) + 1
	var i, j int
	buf := &alg.buf

	buf.Reset()

	// b
	buf.WriteString(fmt.Sprintf("%c  %3s", ' ', " "))
	for j = 0; j < len(b); j++ {
		buf.WriteString(fmt.Sprintf("  %3c", b[j]))
	}
	buf.WriteByte('\n')

	for i = 0; i < h; i++ {
		if i == 0 {
			buf.WriteByte(' ')
		} else {
			buf.WriteByte(a[i-1])
		}

		for j = 0; j < w; j++ {
			buf.WriteString(fmt.Sprintf("  %3d", scores[idx(i, j, w)]))
		}
		buf.WriteByte('\n')
	}
}

func idx(i, j, w int) int {
	return (i * w) + j
}

// resize returns a slice of length n, reusing the capacity of s.
func resize(s []int, n int) []int {
	if n <= cap(s) {
		return s[:n]
	}
	return make([]int, n, n+(n>>2))
}
