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
	"io"

	"github.com/pkg/errors"
	"github.com/shenwei356/SeqRank/seqrank/index"
)

// ErrShortRead means fewer bytes than expected are read from the source,
// the file might be truncated or modified after ranking.
var ErrShortRead = errors.New("seqio: short read")

// Emit writes sequences of the records in the given order, one per line.
// Sequences are read again from the source with the offsets and lengths,
// instead of being kept in memory.
// It returns the number of written sequences.
func Emit(records index.Records, src io.ReaderAt, w io.Writer) (int, error) {
	var maxLen int
	for _, r := range records {
		if r.Len > maxLen {
			maxLen = r.Len
		}
	}
	buf := make([]byte, maxLen+1)

	var n int
	var err error
	var s []byte
	for i, r := range records {
		s = buf[:r.Len]
		n, err = src.ReadAt(s, r.Offset)
		if n < r.Len {
			if err == nil || err == io.EOF {
				err = ErrShortRead
			}
			return i, errors.Wrapf(err, "%d of %d bytes read at offset %d", n, r.Len, r.Offset)
		}

		s = buf[:r.Len+1]
		s[r.Len] = '\n'
		if _, err = w.Write(s); err != nil {
			return i, err
		}
	}
	return len(records), nil
}
