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
	"gonum.org/v1/gonum/stat"
)

// Stats is the summary of scores.
type Stats struct {
	N     int
	Min   int
	Max   int
	Mean  float64
	Stdev float64
}

// Summary computes the statistics of scores of ranked records.
// Records must be sorted by Rank().
func Summary(rs Records) Stats {
	var s Stats
	s.N = len(rs)
	if s.N == 0 {
		return s
	}

	s.Max = rs[0].Score
	s.Min = rs[s.N-1].Score

	scores := Scores(rs)
	if s.N == 1 {
		s.Mean = scores[0]
		return s
	}
	s.Mean, s.Stdev = stat.MeanStdDev(scores, nil)

	return s
}

// Scores returns the scores of records, in the same order.
func Scores(rs Records) []float64 {
	scores := make([]float64, len(rs))
	for i, r := range rs {
		scores[i] = float64(r.Score)
	}
	return scores
}
