package lzss

import (
	"errors"
	"fmt"
	"math"
)

// ErrConfig is wrapped by all errors reporting an invalid configuration.
var ErrConfig = errors.New("lzss: invalid configuration")

// FinderType selects the match finder strategy.
type FinderType int

// Supported finders.
const (
	// BinaryTree uses a single binary tree over all positions of the
	// dictionary window. It always finds the longest match.
	BinaryTree FinderType = 1 + iota
	// HashBinaryTree uses a binary tree for every hash bucket.
	HashBinaryTree
	// HashChain walks chains of positions with the same hash. The walk
	// is cut off after SearchLimit nodes.
	HashChain
	// TwoLevelHash refines every primary hash bucket with a secondary
	// hash table that grows and shrinks with the load of the bucket.
	TwoLevelHash
)

func (ft FinderType) String() string {
	b, err := ft.MarshalText()
	if err != nil {
		return fmt.Sprintf("FinderType(%d)", int(ft))
	}
	return string(b)
}

// MarshalText supports the encoding of the finder type in JSON.
func (ft FinderType) MarshalText() ([]byte, error) {
	switch ft {
	case BinaryTree:
		return []byte("BinaryTree"), nil
	case HashBinaryTree:
		return []byte("HashBinaryTree"), nil
	case HashChain:
		return []byte("HashChain"), nil
	case TwoLevelHash:
		return []byte("TwoLevelHash"), nil
	default:
		return nil, fmt.Errorf("lzss: unknown FinderType %d", ft)
	}
}

// UnmarshalText parses the name of a finder type.
func (ft *FinderType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "BinaryTree":
		*ft = BinaryTree
	case "HashBinaryTree":
		*ft = HashBinaryTree
	case "HashChain":
		*ft = HashChain
	case "TwoLevelHash":
		*ft = TwoLevelHash
	default:
		return fmt.Errorf("lzss: unknown FinderType %q", text)
	}
	return nil
}

// FinderTypes lists all supported finders.
var FinderTypes = []FinderType{BinaryTree, HashBinaryTree, HashChain, TwoLevelHash}

// maxDictSize is the largest supported dictionary size.
const maxDictSize = 1 << 28

// Config describes a match finder. The zero value is valid after
// ApplyDefaults has been called and selects the parameters of the -lh5-
// method with the binary tree finder.
type Config struct {
	// DictionarySize is the size of the sliding window. It must be a
	// power of two.
	DictionarySize int `json:",omitzero"`
	// MaxMatch is the maximum length of a match.
	MaxMatch int `json:",omitzero"`
	// Threshold is the minimum length of a match.
	Threshold int `json:",omitzero"`

	Finder FinderType `json:",omitzero"`
	// Hash configures the hash function of the hash based finders.
	Hash HashConfig `json:",omitzero"`

	// SearchLimit is the maximum number of chain nodes visited by a
	// single lookup of the HashChain finder.
	SearchLimit int `json:",omitzero"`

	// Options for TwoLevelHash. A region is split if more than
	// GrowLoad positions per bucket have been added during one
	// dictionary pass and merged if less than ShrinkLoad would have been
	// added per bucket at the lower level.
	MaxLevel   int `json:",omitzero"`
	GrowLoad   int `json:",omitzero"`
	ShrinkLoad int `json:",omitzero"`
}

// ApplyDefaults sets all zero fields to their default values.
func (cfg *Config) ApplyDefaults() {
	if cfg.DictionarySize == 0 {
		cfg.DictionarySize = 8 * 1024
	}
	if cfg.MaxMatch == 0 {
		cfg.MaxMatch = 256
	}
	if cfg.Threshold == 0 {
		cfg.Threshold = 3
	}
	if cfg.Finder == 0 {
		cfg.Finder = BinaryTree
	}
	cfg.Hash.ApplyDefaults()
	if cfg.SearchLimit == 0 {
		cfg.SearchLimit = 256
	}
	if cfg.MaxLevel == 0 {
		cfg.MaxLevel = 2
	}
	if cfg.GrowLoad == 0 {
		cfg.GrowLoad = 32
	}
	if cfg.ShrinkLoad == 0 {
		cfg.ShrinkLoad = 8
	}
}

// Verify checks the configuration. Call ApplyDefaults before, because zero
// values are not supported. All errors wrap ErrConfig.
func (cfg *Config) Verify() error {
	if err := cfg.verify(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return nil
}

func (cfg *Config) verify() error {
	if !(2 <= cfg.DictionarySize && cfg.DictionarySize <= maxDictSize) ||
		!isPowerOfTwo(cfg.DictionarySize) {
		return fmt.Errorf(
			"DictionarySize=%d; must be a power of two in range [2,%d]",
			cfg.DictionarySize, maxDictSize)
	}
	if !(2 <= cfg.Threshold && cfg.Threshold <= cfg.MaxMatch) {
		return fmt.Errorf(
			"Threshold=%d; must be in range [2,MaxMatch=%d]",
			cfg.Threshold, cfg.MaxMatch)
	}
	if int64(TextSize(cfg.DictionarySize, cfg.MaxMatch)) > math.MaxInt32 {
		return fmt.Errorf(
			"MaxMatch=%d; text buffer size exceeds %d",
			cfg.MaxMatch, math.MaxInt32)
	}
	if err := cfg.Hash.Verify(); err != nil {
		return err
	}
	switch cfg.Finder {
	case BinaryTree:
	case HashBinaryTree:
		if r := cfg.Hash.requires(); r > cfg.MaxMatch {
			return fmt.Errorf(
				"hash input %d; must be <= MaxMatch=%d",
				r, cfg.MaxMatch)
		}
	case HashChain:
		if r := cfg.Hash.requires(); r > cfg.MaxMatch {
			return fmt.Errorf(
				"hash input %d; must be <= MaxMatch=%d",
				r, cfg.MaxMatch)
		}
		if cfg.SearchLimit < 1 {
			return fmt.Errorf("SearchLimit=%d; must be >= 1",
				cfg.SearchLimit)
		}
	case TwoLevelHash:
		if !(1 <= cfg.MaxLevel && cfg.MaxLevel <= 4) {
			return fmt.Errorf("MaxLevel=%d; must be in range [1,4]",
				cfg.MaxLevel)
		}
		if r := cfg.Hash.requires(); r+cfg.MaxLevel > cfg.MaxMatch {
			return fmt.Errorf(
				"hash input %d + MaxLevel=%d; must be <= MaxMatch=%d",
				r, cfg.MaxLevel, cfg.MaxMatch)
		}
		if cfg.GrowLoad < 1 {
			return fmt.Errorf("GrowLoad=%d; must be >= 1",
				cfg.GrowLoad)
		}
		if cfg.ShrinkLoad < 0 {
			return fmt.Errorf("ShrinkLoad=%d; must be >= 0",
				cfg.ShrinkLoad)
		}
	default:
		return fmt.Errorf("unknown FinderType %d", cfg.Finder)
	}
	return nil
}

// TextSize returns the minimum size of the text buffer for the dictionary
// size and the maximum match length.
func TextSize(dictSize, maxMatch int) int {
	return 2*dictSize + maxMatch
}

// NewFinder creates the configured finder operating on the text buffer. The
// buffer must have at least TextSize bytes.
func (cfg Config) NewFinder(text []byte) (Finder, error) {
	cfg.ApplyDefaults()
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	if n := TextSize(cfg.DictionarySize, cfg.MaxMatch); len(text) < n {
		return nil, fmt.Errorf(
			"%w: text buffer length %d; must be >= %d",
			ErrConfig, len(text), n)
	}
	p, err := newParams(text, cfg.DictionarySize, cfg.MaxMatch,
		cfg.Threshold)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if cfg.Finder == BinaryTree {
		return newBinaryTree(p), nil
	}
	h, err := cfg.Hash.NewHasher(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	var f Finder
	switch cfg.Finder {
	case HashBinaryTree:
		f = newHashBinaryTree(p, h)
	case HashChain:
		f, err = newHashChain(p, h, cfg.SearchLimit)
	case TwoLevelHash:
		f, err = newTwoLevelHash(p, h, cfg.MaxLevel, cfg.GrowLoad,
			cfg.ShrinkLoad)
	default:
		panic("unreachable")
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return f, nil
}
