package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/minio/sha256-simd"
	"github.com/orangesignal/lzss"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var cmdVerify = &cobra.Command{
	Use:   "verify [flags] FILE...",
	Short: "Check that encoded files decode to the original",
	Long: `
The "verify" command encodes every file with every selected match finder,
decodes the tokens again and compares the SHA-256 digests of the original and
the decoded data.

EXIT STATUS
===========

Exit status is 0 if all files have been reproduced, and non-zero if there was
any error or mismatch.
`,
	DisableAutoGenTag: true,
	Args:              cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerify(cmd.Context(), verifyOptions, args, os.Stdout)
	},
}

// VerifyOptions bundles all options for the verify command.
type VerifyOptions struct {
	EncodeOptions
}

var verifyOptions VerifyOptions

func init() {
	cmdRoot.AddCommand(cmdVerify)

	verifyOptions.addFlags(cmdVerify)
}

// ErrMismatch reports a decoded file that differs from the original.
var ErrMismatch = errors.New("decoded data differs from the original")

func runVerify(ctx context.Context, opts VerifyOptions, files []string, w io.Writer) error {
	cfgs, err := opts.configs()
	if err != nil {
		return err
	}
	wg, wgCtx := errgroup.WithContext(ctx)
	for _, file := range files {
		file := file
		wg.Go(func() error {
			want, err := fileDigest(file)
			if err != nil {
				return err
			}
			for _, cfg := range cfgs {
				if err := wgCtx.Err(); err != nil {
					return err
				}
				got, err := roundTripDigest(file, cfg, opts.Greedy)
				if err != nil {
					return err
				}
				if !bytes.Equal(got, want) {
					return errors.Wrapf(ErrMismatch, "%s with %v", file, cfg.Finder)
				}
				log.Debugf("%s %v: ok", file, cfg.Finder)
			}
			return nil
		})
	}
	if err = wg.Wait(); err != nil {
		return err
	}
	fmt.Fprintf(w, "%d files verified with %d finders\n", len(files), len(cfgs))
	return nil
}

func fileDigest(name string) ([]byte, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "Open")
	}
	defer f.Close()
	h := sha256.New()
	if _, err = io.Copy(h, f); err != nil {
		return nil, errors.Wrapf(err, "read %s", name)
	}
	return h.Sum(nil), nil
}

// roundTripDigest encodes the file and feeds the tokens directly into a
// decoder. It returns the digest of the decoded data.
func roundTripDigest(name string, cfg lzss.Config, greedy bool) ([]byte, error) {
	h := sha256.New()
	dec, err := lzss.NewDecoder(h, cfg.DictionarySize)
	if err != nil {
		return nil, errors.Wrap(err, "NewDecoder")
	}
	if err = encodeFile(name, cfg, greedy, dec); err != nil {
		return nil, err
	}
	if err = dec.Close(); err != nil {
		return nil, errors.Wrap(err, "decode")
	}
	return h.Sum(nil), nil
}
