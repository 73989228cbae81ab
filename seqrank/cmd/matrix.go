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
	"os"

	"github.com/shenwei356/SeqRank/seqrank/align"
	"github.com/spf13/cobra"
)

var matrixCmd = &cobra.Command{
	Use:   "matrix",
	Short: "Print the score matrix of two sequences",
	Long: `Print the score matrix of two sequences

The reference is placed in rows and the query in columns.
The score of the query is the value of the bottom-right cell.

Example:

    $ seqrank utils matrix ACGT AGCT
              A    G    C    T
         0    0    0    0    0
    A    0    1    0    0    0
    C    0    0    0    1    0
    G    0    0    1    0    0
    T    0    0    0    0    1
    score: 1

`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		opt := &align.AlignOptions{
			MatchScore:    getFlagInt(cmd, "match"),
			MisMatchScore: getFlagInt(cmd, "mismatch"),
			GapScore:      getFlagInt(cmd, "gap"),
			SaveMatrix:    true,
		}

		alg := align.NewAligner(opt)
		score := alg.Score([]byte(args[0]), []byte(args[1]))

		os.Stdout.Write(alg.Matrix())
		fmt.Printf("score: %d\n", score)
	},
}

func init() {
	utilsCmd.AddCommand(matrixCmd)

	matrixCmd.Flags().IntP("match", "m", align.DefaultAlignOptions.MatchScore,
		formatFlagUsage("Score for a match."))
	matrixCmd.Flags().IntP("mismatch", "x", align.DefaultAlignOptions.MisMatchScore,
		formatFlagUsage("Score for a mismatch."))
	matrixCmd.Flags().IntP("gap", "g", align.DefaultAlignOptions.GapScore,
		formatFlagUsage("Score for a gap."))

	matrixCmd.SetUsageTemplate(usageTemplate("<reference> <query>"))
}
