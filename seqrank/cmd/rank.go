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
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/shenwei356/SeqRank/seqrank/align"
	"github.com/shenwei356/SeqRank/seqrank/index"
	"github.com/shenwei356/SeqRank/seqrank/seqio"
	"github.com/shenwei356/bio/seq"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// RankOptions contains the options for ranking.
type RankOptions struct {
	Verbose     bool // show a progress bar
	ValidateSeq bool // check the alphabet of sequences
}

// RankResult is the result of a run, used for the summary.
type RankResult struct {
	Header  seqio.Header
	RefLen  int
	Skipped int // empty query lines
	Written int // written query sequences

	Records index.Records
}

// source is the input file. Sequences are read again via ReadAt in output.
type source interface {
	io.Reader
	io.ReaderAt
}

// rankSeqs scores all query sequences in the input against the reference,
// and writes them to out in descending order of scores.
// size is the size of the input, only for the progress bar.
func rankSeqs(opt *RankOptions, in source, size int64, out io.Writer) (*RankResult, error) {
	rdr := seqio.NewReader(in)
	if opt.ValidateSeq {
		rdr.Alphabet = seq.DNAredundant
	}

	header, err := rdr.ParseHeader()
	if err != nil {
		return nil, err
	}
	ref, err := rdr.Reference()
	if err != nil {
		return nil, err
	}

	if opt.Verbose {
		log.Infof("weights: %s", header)
		log.Infof("reference length: %d", len(ref))
		log.Info()
		log.Info("scoring query sequences ...")
	}

	// process bar
	var pbs *mpb.Progress
	var bar *mpb.Bar
	if opt.Verbose && size > 0 {
		pbs = mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
		bar = pbs.AddBar(size,
			mpb.PrependDecorators(
				decor.Name("processed bytes: ", decor.WC{W: len("processed bytes: "), C: decor.DindentRight}),
				decor.Name("", decor.WCSyncSpaceR),
				decor.CountersKibiByte("% .2f / % .2f", decor.WCSyncWidth),
			),
			mpb.AppendDecorators(
				decor.Name("ETA: ", decor.WC{W: len("ETA: ")}),
				decor.AverageETA(decor.ET_STYLE_GO),
				decor.OnComplete(decor.Name(""), ". done"),
			),
		)
	}
	finishBar := func(done bool) {
		if bar == nil {
			return
		}
		if done {
			bar.SetTotal(-1, true)
		} else {
			bar.Abort(false)
		}
		pbs.Wait()
	}

	alg := align.NewAligner(header.AlignOptions())
	idx := index.NewIndex()

	var offset int64
	var s []byte
	var r *index.Record
	for {
		offset, s, err = rdr.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			finishBar(false)
			return nil, err
		}

		r = idx.Add(offset, len(s))
		r.Score = alg.Score(ref, s)

		if bar != nil {
			bar.SetCurrent(rdr.Offset())
		}
	}
	finishBar(true)

	if opt.Verbose {
		log.Infof("%d query sequences scored", idx.Len())
		log.Info("sorting and writing ...")
	}

	records, err := idx.Rank()
	if err != nil {
		return nil, err
	}

	n, err := seqio.Emit(records, in, out)
	if err != nil {
		return nil, errors.Wrap(err, "writing sequences")
	}

	return &RankResult{
		Header:  *header,
		RefLen:  len(ref),
		Skipped: rdr.Skipped(),
		Written: n,
		Records: records,
	}, nil
}
