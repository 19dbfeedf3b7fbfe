package lzss

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"
)

// ErrUnknownMethod is returned by LookupMethod for unsupported method
// identifiers.
var ErrUnknownMethod = errors.New("lzss: unknown compression method")

// Method describes the LZSS parameters of an LHA compression method.
type Method struct {
	// ID is the method identifier as stored in the archive headers, for
	// instance "-lh5-".
	ID             string
	DictionarySize int
	MaxMatch       int
	Threshold      int
}

var methods = map[string]Method{
	"-lh1-": {"-lh1-", 4 * 1024, 60, 3},
	"-lh2-": {"-lh2-", 8 * 1024, 256, 3},
	"-lh3-": {"-lh3-", 8 * 1024, 256, 3},
	"-lh4-": {"-lh4-", 4 * 1024, 256, 3},
	"-lh5-": {"-lh5-", 8 * 1024, 256, 3},
	"-lh6-": {"-lh6-", 32 * 1024, 256, 3},
	"-lh7-": {"-lh7-", 64 * 1024, 256, 3},
	"-lzs-": {"-lzs-", 2 * 1024, 17, 2},
	"-lz5-": {"-lz5-", 4 * 1024, 18, 3},
}

// LookupMethod returns the method for the identifier. The dashes may be
// omitted: "lh5" and "-lh5-" select the same method.
func LookupMethod(id string) (Method, error) {
	if len(id) == 3 {
		id = "-" + id + "-"
	}
	m, ok := methods[id]
	if !ok {
		return Method{}, fmt.Errorf("%w %q", ErrUnknownMethod, id)
	}
	return m, nil
}

// Methods returns all supported methods sorted by identifier.
func Methods() []Method {
	a := make([]Method, 0, len(methods))
	for _, m := range methods {
		a = append(a, m)
	}
	slices.SortFunc(a, func(x, y Method) int {
		switch {
		case x.ID < y.ID:
			return -1
		case x.ID > y.ID:
			return 1
		}
		return 0
	})
	return a
}

// Config returns the finder configuration for the method. The other fields
// get their defaults.
func (m Method) Config(ft FinderType) Config {
	cfg := Config{
		DictionarySize: m.DictionarySize,
		MaxMatch:       m.MaxMatch,
		Threshold:      m.Threshold,
		Finder:         ft,
	}
	cfg.ApplyDefaults()
	return cfg
}

func (m Method) String() string { return m.ID }
