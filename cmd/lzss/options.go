package main

import (
	"io"
	"os"

	"github.com/orangesignal/lzss"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// EncodeOptions bundles the options selecting the encoder configurations.
type EncodeOptions struct {
	Method string
	Finder string
	Greedy bool
}

func (opts *EncodeOptions) addFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&opts.Method, "method", "m", "-lh5-", "LHA compression `method`")
	f.StringVarP(&opts.Finder, "finder", "f", "all",
		"match `finder`: all, BinaryTree, HashBinaryTree, HashChain or TwoLevelHash")
	f.BoolVar(&opts.Greedy, "greedy", false, "disable lazy matching")
}

// configs returns the encoder configurations selected by the options.
func (opts *EncodeOptions) configs() ([]lzss.Config, error) {
	m, err := lzss.LookupMethod(opts.Method)
	if err != nil {
		return nil, err
	}
	finders := lzss.FinderTypes
	if opts.Finder != "all" {
		var ft lzss.FinderType
		if err = ft.UnmarshalText([]byte(opts.Finder)); err != nil {
			return nil, err
		}
		finders = []lzss.FinderType{ft}
	}
	cfgs := make([]lzss.Config, 0, len(finders))
	for _, ft := range finders {
		cfgs = append(cfgs, m.Config(ft))
	}
	return cfgs, nil
}

// encodeFile streams the file through an encoder writing to w.
func encodeFile(name string, cfg lzss.Config, greedy bool, w lzss.TokenWriter) error {
	f, err := os.Open(name)
	if err != nil {
		return errors.Wrap(err, "Open")
	}
	defer f.Close()

	enc, err := lzss.NewEncoder(w, cfg)
	if err != nil {
		return errors.Wrap(err, "NewEncoder")
	}
	enc.Greedy = greedy
	if _, err = io.Copy(enc, f); err != nil {
		return errors.Wrapf(err, "encode %s", name)
	}
	if err = enc.Close(); err != nil {
		return errors.Wrapf(err, "encode %s", name)
	}
	return nil
}
