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
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/pgzip"
	"github.com/shenwei356/util/pathutil"
	"github.com/spf13/cobra"
)

// VERSION is the version
var VERSION = "0.1.0"

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "seqrank <input> [<output>]",
	Short: "Rank sequences by local alignment scores against a reference",
	Long: fmt.Sprintf(`SeqRank: rank sequences by local alignment scores against a reference

Version: v%s

Input format:
  1. The first line contains four comma-separated integers:
       match score, mismatch score, gap score, max length of sequences
  2. The second line is the reference sequence.
  3. Other lines are query sequences, one per line. Empty lines are skipped.

Output:
  Query sequences sorted by alignment scores in descending order, one per line.
  Sequences with the same score are kept in their original order.
  Output is written to stdout if <output> is not given, and an output file
  with the ".gz" suffix is gzip-compressed.

Scoring:
  A Smith-Waterman style matrix is filled, with all cells floored at 0,
  and the score is the value of the bottom-right cell, i.e., the best local
  alignment ending at the last bases of both the reference and the query.

Sub-commands:
  An input file named as a sub-command in the current directory,
  e.g., "version", is ranked rather than running the sub-command.
  Use "./version" or another path to be explicit.

Exit status:
  0 for success, 1 for wrong number of arguments, 2 for failing to open
  the input or output file, and 255 for malformed input.

`, VERSION),
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if !validArgs(args) {
			printUsage(os.Stdout, cmd.Root().Name())
			os.Exit(exitUsage)
		}

		opt := getOptions(cmd)
		setLogLevel(opt.Verbose)

		var fhLog *os.File
		if opt.Log2File {
			fhLog = addLog(opt.LogFile, opt.Verbose)
		}
		timeStart := time.Now()
		defer func() {
			if opt.Verbose || opt.Log2File {
				log.Info()
				log.Infof("elapsed time: %s", time.Since(timeStart))
				log.Info()
			}
			if opt.Log2File {
				fhLog.Close()
			}
		}()

		validate := getFlagBool(cmd, "validate-seq")
		statsFile := getFlagString(cmd, "stats-file")
		histFile := getFlagString(cmd, "score-hist")
		histBins := getFlagNonNegativeInt(cmd, "hist-bins")

		if opt.CompressionLevel < pgzip.DefaultCompression || opt.CompressionLevel > pgzip.BestCompression {
			checkError(fmt.Errorf("the value of flag --compress-level should be in range of [%d, %d]",
				pgzip.DefaultCompression, pgzip.BestCompression))
		}

		// ---------------------------------------------------------------
		// open files. No messages are shown for failures of opening files.

		files, code := openFiles(cmd.Root().Name(), args, opt.CompressionLevel, os.Stdout)
		if code != exitOK {
			os.Exit(code)
		}
		defer files.in.Close()
		inFile, outFile := files.inFile, files.outFile
		fh, outfh := files.in, files.out

		var size int64
		if info, err := fh.Stat(); err == nil {
			size = info.Size()
		}

		if opt.Verbose {
			log.Infof("SeqRank v%s", VERSION)
			log.Info()
			log.Infof("input file: %s (%s)", inFile, humanize.Bytes(uint64(size)))
		}

		// ---------------------------------------------------------------
		// rank

		ropt := &RankOptions{
			Verbose:     opt.Verbose,
			ValidateSeq: validate,
		}
		res, err := rankSeqs(ropt, fh, size, outfh)
		checkError(err)

		checkError(files.closeOutput())

		if opt.Verbose {
			log.Infof("%s queries ranked and written to %s", humanize.Comma(int64(res.Written)), outFile)
			if res.Skipped > 0 {
				log.Infof("%s empty lines skipped", humanize.Comma(int64(res.Skipped)))
			}
		}

		// ---------------------------------------------------------------
		// summary

		if statsFile != "" {
			statsFile, err = expandPath(statsFile)
			checkError(err)
			checkError(writeRunInfo(statsFile, newRunInfo(filepath.Base(inFile), res)))
			if opt.Verbose {
				log.Infof("run summary saved to %s", statsFile)
			}
		}

		if histFile != "" {
			histFile, err = expandPath(histFile)
			checkError(err)
			if len(res.Records) == 0 {
				log.Warningf("no queries, skip plotting the score histogram")
			} else {
				checkError(plotScoreHist(res.Records, histBins, histFile))
				if opt.Verbose {
					log.Infof("score histogram saved to %s", histFile)
				}
			}
		}
	},
}

// exit status
const (
	exitOK    = 0
	exitUsage = 1 // wrong number of arguments
	exitOpen  = 2 // failed to open the input or output file
)

func validArgs(args []string) bool {
	return len(args) == 1 || len(args) == 2
}

func printUsage(w io.Writer, name string) {
	fmt.Fprintf(w, "Usage: %s <input> [<output>]\n", name)
}

// rankFiles holds the input file and the output stream.
type rankFiles struct {
	inFile  string
	outFile string

	in  *os.File
	out *bufio.Writer
	gw  io.WriteCloser // gzip writer, nil for plain text
	w   *os.File
}

// closeOutput flushes and closes the output stream.
func (f *rankFiles) closeOutput() error {
	if err := f.out.Flush(); err != nil {
		return err
	}
	if f.gw != nil {
		if err := f.gw.Close(); err != nil {
			return err
		}
	}
	if !isStdout(f.outFile) {
		return f.w.Close()
	}
	return nil
}

// openFiles checks the arguments and opens the input and output files.
// The usage is written to stdout for a wrong number of arguments.
// The input file is closed if the output file can not be created.
// It returns the exit status, and files are only valid for exitOK.
func openFiles(name string, args []string, level int, stdout io.Writer) (*rankFiles, int) {
	if !validArgs(args) {
		printUsage(stdout, name)
		return nil, exitUsage
	}

	inFile, err := expandPath(args[0])
	if err != nil || isStdin(inFile) {
		// sequences are read again from the input file, so it must be seekable
		return nil, exitOpen
	}
	if isDir, _ := pathutil.DirExists(inFile); isDir {
		return nil, exitOpen
	}
	fh, err := os.Open(inFile)
	if err != nil {
		return nil, exitOpen
	}

	outFile := "-"
	if len(args) == 2 {
		outFile, err = expandPath(args[1])
		if err != nil {
			fh.Close()
			return nil, exitOpen
		}
	}
	outfh, gw, w, err := outStream(outFile, strings.HasSuffix(strings.ToLower(outFile), ".gz"), level)
	if err != nil {
		fh.Close()
		return nil, exitOpen
	}

	return &rankFiles{
		inFile:  inFile,
		outFile: outFile,
		in:      fh,
		out:     outfh,
		gw:      gw,
		w:       w,
	}, exitOK
}

// Execute adds all child commands to the root command sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	RootCmd.SetArgs(fileArgs(RootCmd, os.Args[1:]))
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// fileArgs prefixes "./" to the first argument if it's an existing file
// with the name of a sub-command, so the file is ranked.
func fileArgs(root *cobra.Command, args []string) []string {
	if len(args) == 0 {
		return args
	}
	name := args[0]
	if strings.HasPrefix(name, "-") || strings.ContainsRune(name, filepath.Separator) {
		return args
	}

	root.InitDefaultHelpCmd()
	c, _, err := root.Find(args)
	if err != nil || c == root {
		return args
	}
	if info, err := os.Stat(name); err != nil || info.IsDir() {
		return args
	}

	args2 := make([]string, len(args))
	copy(args2, args)
	args2[0] = "." + string(filepath.Separator) + name
	return args2
}

func init() {
	RootCmd.PersistentFlags().IntP("threads", "j", 0,
		formatFlagUsage("Number of CPUs to use for sorting. 0 for all available CPUs."))
	RootCmd.PersistentFlags().Bool("verbose", false,
		formatFlagUsage("Print verbose information and a progress bar to stderr."))
	RootCmd.PersistentFlags().StringP("log", "", "",
		formatFlagUsage("Log file."))

	RootCmd.Flags().IntP("compress-level", "", 5,
		formatFlagUsage(`Compression level for the output file with a ".gz" suffix.`))
	RootCmd.Flags().BoolP("validate-seq", "V", false,
		formatFlagUsage("Check that sequences only contain DNA letters with IUPAC codes and gaps."))
	RootCmd.Flags().StringP("stats-file", "s", "",
		formatFlagUsage("Save a summary of the run in TOML format to this file."))
	RootCmd.Flags().StringP("score-hist", "H", "",
		formatFlagUsage(`Plot a histogram of scores to this file, supported formats: .png, .jpg, .svg, .pdf, .eps.`))
	RootCmd.Flags().IntP("hist-bins", "", 0,
		formatFlagUsage("Number of bins of the score histogram. 0 for the square root of the number of queries."))

	RootCmd.CompletionOptions.DisableDefaultCmd = true
	RootCmd.SetUsageTemplate(usageTemplate("<input> [<output>]"))
}
