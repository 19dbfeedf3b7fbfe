package main

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/orangesignal/lzss"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
)

var cmdStats = &cobra.Command{
	Use:   "stats [flags] FILE...",
	Short: "Report the tokens produced by the match finders",
	Long: `
The "stats" command encodes every file with every selected match finder and
prints the number of literals and matches, the estimated compressed size and
the time required. The files are encoded concurrently.

EXIT STATUS
===========

Exit status is 0 if the command was successful, and non-zero if there was any error.
`,
	DisableAutoGenTag: true,
	Args:              cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStats(cmd.Context(), statsOptions, args, os.Stdout)
	},
}

// StatsOptions bundles all options for the stats command.
type StatsOptions struct {
	EncodeOptions
	Baseline bool
	Jobs     int
}

var statsOptions StatsOptions

func init() {
	cmdRoot.AddCommand(cmdStats)

	statsOptions.addFlags(cmdStats)
	f := cmdStats.Flags()
	f.BoolVar(&statsOptions.Baseline, "baseline", false, "add the size of the file compressed with zstd")
	f.IntVarP(&statsOptions.Jobs, "jobs", "j", runtime.NumCPU(), "run `n` encoders concurrently")
}

type statsResult struct {
	file    string
	finder  lzss.FinderType
	size    int64
	stats   lzss.Stats
	elapsed time.Duration
}

type baselineResult struct {
	file string
	size int64
	zstd int64
}

func runStats(ctx context.Context, opts StatsOptions, files []string, w io.Writer) error {
	cfgs, err := opts.configs()
	if err != nil {
		return err
	}

	results := make([]statsResult, len(files)*len(cfgs))
	var baselines []baselineResult
	if opts.Baseline {
		baselines = make([]baselineResult, len(files))
	}

	wg, wgCtx := errgroup.WithContext(ctx)
	if opts.Jobs > 0 {
		wg.SetLimit(opts.Jobs)
	}
	for i, file := range files {
		file := file
		for j, cfg := range cfgs {
			cfg := cfg
			r := &results[i*len(cfgs)+j]
			r.file, r.finder = file, cfg.Finder
			wg.Go(func() error {
				if err := wgCtx.Err(); err != nil {
					return err
				}
				start := time.Now()
				if err := encodeFile(file, cfg, opts.Greedy, &r.stats); err != nil {
					return err
				}
				r.elapsed = time.Since(start)
				r.size = r.stats.Bytes()
				log.Debugf("%s %v: %d bytes in %v", file, cfg.Finder,
					r.size, r.elapsed)
				return nil
			})
		}
		if opts.Baseline {
			b := &baselines[i]
			b.file = file
			wg.Go(func() error {
				var err error
				b.size, b.zstd, err = zstdSize(file)
				return err
			})
		}
	}
	if err = wg.Wait(); err != nil {
		return err
	}

	slices.SortStableFunc(results, func(x, y statsResult) int {
		if c := strings.Compare(x.file, y.file); c != 0 {
			return c
		}
		return cmp.Compare(x.stats.EstimatedSize(), y.stats.EstimatedSize())
	})

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "file\tfinder\tsize\tliterals\tmatches\testimated\tratio\ttime\t")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%v\t%d\t%d\t%d\t%d\t%s\t%v\t\n",
			r.file, r.finder, r.size, r.stats.Literals, r.stats.Matches,
			r.stats.EstimatedSize(), ratio(r.stats.EstimatedSize(), r.size),
			r.elapsed.Round(time.Millisecond))
	}
	for _, b := range baselines {
		fmt.Fprintf(tw, "%s\t%s\t%d\t\t\t%d\t%s\t\t\n",
			b.file, "zstd", b.size, b.zstd, ratio(b.zstd, b.size))
	}
	return tw.Flush()
}

func ratio(compressed, size int64) string {
	if size == 0 {
		return "-"
	}
	return fmt.Sprintf("%.3f", float64(compressed)/float64(size))
}

// countingWriter counts the bytes written to it.
type countingWriter struct {
	n int64
}

func (w *countingWriter) Write(p []byte) (n int, err error) {
	w.n += int64(len(p))
	return len(p), nil
}

// zstdSize compresses the file with zstd at the default level and returns
// the size of the file and the size of the compressed stream.
func zstdSize(name string) (size, compressed int64, err error) {
	f, err := os.Open(name)
	if err != nil {
		return 0, 0, errors.Wrap(err, "Open")
	}
	defer f.Close()

	var cw countingWriter
	enc, err := zstd.NewWriter(&cw,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
		zstd.WithEncoderConcurrency(1))
	if err != nil {
		return 0, 0, errors.Wrap(err, "zstd.NewWriter")
	}
	size, err = io.Copy(enc, f)
	if err != nil {
		enc.Close()
		return 0, 0, errors.Wrapf(err, "zstd %s", name)
	}
	if err = enc.Close(); err != nil {
		return 0, 0, errors.Wrap(err, "zstd Close")
	}
	return size, cw.n, nil
}
