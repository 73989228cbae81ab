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

package cmd

import (
	"fmt"
	"math"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/shenwei356/SeqRank/seqrank/index"
	"github.com/shenwei356/xopen"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// RunInfo is the summary of a run, saved in TOML format.
type RunInfo struct {
	Version string `toml:"version" comment:"SeqRank version"`
	Input   string `toml:"input" comment:"Input file"`

	MatchScore    int `toml:"match-score" comment:"Alignment weights"`
	MisMatchScore int `toml:"mismatch-score"`
	GapScore      int `toml:"gap-score"`
	MaxLen        int `toml:"max-len" comment:"Maximum length of sequences"`

	RefLen     int `toml:"ref-len" comment:"Length of the reference"`
	Queries    int `toml:"queries" comment:"Number of ranked query sequences"`
	EmptyLines int `toml:"empty-lines" comment:"Number of skipped empty lines"`

	MinScore   int     `toml:"min-score" comment:"Statistics of scores"`
	MaxScore   int     `toml:"max-score"`
	MeanScore  float64 `toml:"mean-score"`
	StdevScore float64 `toml:"stdev-score"`
}

func newRunInfo(input string, res *RankResult) *RunInfo {
	s := index.Summary(res.Records)
	return &RunInfo{
		Version: VERSION,
		Input:   input,

		MatchScore:    res.Header.MatchScore,
		MisMatchScore: res.Header.MisMatchScore,
		GapScore:      res.Header.GapScore,
		MaxLen:        res.Header.MaxLen,

		RefLen:     res.RefLen,
		Queries:    s.N,
		EmptyLines: res.Skipped,

		MinScore:   s.Min,
		MaxScore:   s.Max,
		MeanScore:  math.Round(s.Mean*1000) / 1000,
		StdevScore: math.Round(s.Stdev*1000) / 1000,
	}
}

// writeRunInfo writes the summary to a file, optional with file extension of .gz, .xz, .zst, .bz2.
func writeRunInfo(file string, info *RunInfo) error {
	outfh, err := xopen.Wopen(file)
	if err != nil {
		return err
	}

	if err = toml.NewEncoder(outfh).Encode(info); err != nil {
		outfh.Close()
		return errors.Wrap(err, file)
	}
	return outfh.Close()
}

// plotScoreHist plots a histogram of scores.
// The number of bins is the square root of the number of records if bins <= 0.
// The image format is decided by the file extension.
func plotScoreHist(records index.Records, bins int, file string) error {
	values := plotter.Values(index.Scores(records))
	if len(values) == 0 {
		return errors.New("score histogram: no scores")
	}
	bins = histBins(len(values), bins)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Alignment scores of %d queries", len(values))
	p.X.Label.Text = "Score"
	p.Y.Label.Text = "Queries"

	h, err := plotter.NewHist(values, bins)
	if err != nil {
		return errors.Wrap(err, "score histogram")
	}
	p.Add(h)

	if err = p.Save(6*vg.Inch, 4*vg.Inch, file); err != nil {
		return errors.Wrap(err, file)
	}
	return nil
}

func histBins(n, bins int) int {
	if bins > 0 {
		return bins
	}
	bins = int(math.Ceil(math.Sqrt(float64(n))))
	if bins < 1 {
		bins = 1
	}
	return bins
}
