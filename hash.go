package lzss

import "fmt"

// Hasher maps the bytes at a position of the text buffer to a bucket of a
// hash table.
type Hasher interface {
	// Hash returns the bucket for the bytes starting at pos.
	Hash(pos int) int
	// TableSize returns the number of buckets.
	TableSize() int
	// Requires returns the number of bytes read by Hash.
	Requires() int
}

// HashType selects a hash function.
type HashType int

// Supported hash functions.
const (
	// LHAHash hashes 3 bytes into 15 bits using shifts and xor like the
	// classic LHa encoders.
	LHAHash HashType = 1 + iota
	// ShortHash uses the 2 bytes at the position directly as bucket.
	ShortHash
	// PrimeHash multiplies InputLen bytes with a large prime and uses the
	// top HashBits bits.
	PrimeHash
)

var hashTypeNames = map[HashType]string{
	LHAHash:   "LHA",
	ShortHash: "Short",
	PrimeHash: "Prime",
}

func (ht HashType) String() string {
	if s, ok := hashTypeNames[ht]; ok {
		return s
	}
	return fmt.Sprintf("HashType(%d)", int(ht))
}

// MarshalText supports the encoding of the hash type in JSON.
func (ht HashType) MarshalText() ([]byte, error) {
	s, ok := hashTypeNames[ht]
	if !ok {
		return nil, fmt.Errorf("lzss: unknown HashType %d", ht)
	}
	return []byte(s), nil
}

// UnmarshalText parses the name of a hash type.
func (ht *HashType) UnmarshalText(text []byte) error {
	for k, s := range hashTypeNames {
		if s == string(text) {
			*ht = k
			return nil
		}
	}
	return fmt.Errorf("lzss: unknown HashType %q", text)
}

// HashConfig selects and parameterizes the hash function used by the hash
// based finders. InputLen and HashBits are only used by PrimeHash.
type HashConfig struct {
	Type     HashType `json:",omitzero"`
	InputLen int      `json:",omitzero"`
	HashBits int      `json:",omitzero"`
}

// ApplyDefaults sets zero fields to their defaults. The default is LHAHash;
// PrimeHash defaults to 3 input bytes and 15 hash bits.
func (cfg *HashConfig) ApplyDefaults() {
	if cfg.Type == 0 {
		cfg.Type = LHAHash
	}
	if cfg.Type != PrimeHash {
		return
	}
	if cfg.InputLen == 0 {
		cfg.InputLen = 3
	}
	if cfg.HashBits == 0 {
		cfg.HashBits = 15
	}
}

// Verify checks the hash configuration.
func (cfg *HashConfig) Verify() error {
	switch cfg.Type {
	case LHAHash, ShortHash:
		return nil
	case PrimeHash:
		if !(2 <= cfg.InputLen && cfg.InputLen <= 8) {
			return fmt.Errorf(
				"lzss: InputLen=%d; must be in range [2,8]",
				cfg.InputLen)
		}
		maxHashBits := 24
		if t := 8 * cfg.InputLen; t < maxHashBits {
			maxHashBits = t
		}
		if !(4 <= cfg.HashBits && cfg.HashBits <= maxHashBits) {
			return fmt.Errorf(
				"lzss: HashBits=%d; must be in range [4,%d]",
				cfg.HashBits, maxHashBits)
		}
		return nil
	default:
		return fmt.Errorf("lzss: unknown HashType %d", cfg.Type)
	}
}

// requires returns the number of bytes the configured hash reads.
func (cfg *HashConfig) requires() int {
	switch cfg.Type {
	case ShortHash:
		return 2
	case PrimeHash:
		return cfg.InputLen
	default:
		return 3
	}
}

// NewHasher creates the hash function for the text buffer.
func (cfg HashConfig) NewHasher(text []byte) (Hasher, error) {
	cfg.ApplyDefaults()
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	switch cfg.Type {
	case LHAHash:
		return &lhaHash{text: text}, nil
	case ShortHash:
		return &shortHash{text: text}, nil
	case PrimeHash:
		return newPrimeHash(text, cfg.InputLen, cfg.HashBits), nil
	}
	panic("unreachable")
}

const lhaHashBits = 15

type lhaHash struct {
	text []byte
}

func (h *lhaHash) Hash(pos int) int {
	p := h.text[pos : pos+3]
	x := (int(p[0])<<5^int(p[1]))<<5 ^ int(p[2])
	return x & (1<<lhaHashBits - 1)
}

func (h *lhaHash) TableSize() int { return 1 << lhaHashBits }
func (h *lhaHash) Requires() int  { return 3 }

type shortHash struct {
	text []byte
}

func (h *shortHash) Hash(pos int) int {
	p := h.text[pos : pos+2]
	return int(p[0])<<8 | int(p[1])
}

func (h *shortHash) TableSize() int { return 1 << 16 }
func (h *shortHash) Requires() int  { return 2 }

// prime is used for hashing
const prime = 9920624304325388887

type primeHash struct {
	text     []byte
	mask     uint64
	shift    uint
	inputLen int
}

func newPrimeHash(text []byte, inputLen, hashBits int) *primeHash {
	return &primeHash{
		text:     text,
		mask:     1<<(uint(inputLen)*8) - 1,
		shift:    64 - uint(hashBits),
		inputLen: inputLen,
	}
}

func (h *primeHash) Hash(pos int) int {
	x := getLE64(h.text[pos:pos+h.inputLen]) & h.mask
	return int((x * prime) >> h.shift)
}

func (h *primeHash) TableSize() int { return 1 << (64 - h.shift) }
func (h *primeHash) Requires() int  { return h.inputLen }
