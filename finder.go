package lzss

import (
	"fmt"
	"math"
)

// Link values stored in the index arrays of the finders. A link is either
// unused, marks the root of a tree or holds a position. Positions are never
// negative, so the three cases cannot be confused.
const (
	linkUnused int32 = -1
	linkRoot   int32 = -2
)

// maxPos is the largest position that can be stored in a link.
const maxPos = math.MaxInt32

// Match describes a back reference found by a [Finder]. Pos is the position
// in the text buffer where the matching bytes start. A Match with a zero Len
// is [NoMatch].
type Match struct {
	Len int
	Pos int
}

// NoMatch is returned by a finder if no match of at least the threshold
// length could be found.
var NoMatch = Match{}

// Found reports whether m is an actual match.
func (m Match) Found() bool { return m.Len > 0 }

// Distance returns the distance of the match as encoded by the LHA formats
// for a match found at position pos.
func (m Match) Distance(pos int) int { return pos - m.Pos - 1 }

// Finder finds matches in the dictionary window that precedes a position in
// the text buffer. Finders only read the text buffer; it is owned and
// written by the driver.
//
// All implementations share the following contract.
type Finder interface {
	// PutRequires returns the number of bytes that must be available in
	// the text buffer starting at pos before Put or SearchAndPut may be
	// called.
	PutRequires() int

	// Put evicts the node that left the dictionary window and adds pos to
	// the index. Positions must be put in consecutive order.
	Put(pos int)

	// SearchAndPut works like Put but returns the best match found while
	// adding the position. The match starts less than the dictionary size
	// before pos. On equal length the most recent position wins.
	SearchAndPut(pos int) Match

	// Search returns the best match for pos without changing the index.
	// The match starts at most the dictionary size before pos. Positions
	// in the range (lastPut, pos) haven't been indexed yet and are checked
	// by a linear scan. The tree finders guarantee the longest match only
	// for lastPut == pos-1; otherwise positions that left the window may
	// hide it.
	Search(pos, lastPut int) Match

	// Slide subtracts the dictionary size from all stored positions. It
	// must be called after the driver moved the text buffer content down
	// by the dictionary size and all positions below the dictionary size
	// have been evicted.
	Slide()
}

// CandidateFinder is implemented by finders that can report a match for
// every achievable length, so that callers can trade length against
// distance.
type CandidateFinder interface {
	Finder

	// SearchAndPutCandidates works like SearchAndPut, but appends to dst
	// one match for every length from the threshold up to the longest
	// match found. The match for a given length has the nearest position
	// found achieving at least that length. Only the candidates visited
	// by the search are considered, so a nearer position may exist.
	SearchAndPutCandidates(pos int, dst []Match) []Match
}

// params holds the parameters shared by all finders.
type params struct {
	// text buffer owned by the driver
	text []byte

	dictSize  int
	mask      int
	maxMatch  int
	threshold int
}

func newParams(text []byte, dictSize, maxMatch, threshold int) (params, error) {
	if !isPowerOfTwo(dictSize) {
		return params{}, fmt.Errorf(
			"lzss: DictionarySize=%d; must be a power of two",
			dictSize)
	}
	if !(2 <= threshold && threshold <= maxMatch) {
		return params{}, fmt.Errorf(
			"lzss: Threshold=%d; must be in range [2..MaxMatch=%d]",
			threshold, maxMatch)
	}
	if int64(len(text)) > maxPos {
		return params{}, fmt.Errorf(
			"lzss: text buffer length %d exceeds maximum position %d",
			len(text), maxPos)
	}
	if len(text) < maxMatch {
		return params{}, fmt.Errorf(
			"lzss: text buffer length %d; must be >= MaxMatch=%d",
			len(text), maxMatch)
	}
	return params{
		text:      text,
		dictSize:  dictSize,
		mask:      dictSize - 1,
		maxMatch:  maxMatch,
		threshold: threshold,
	}, nil
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func (p *params) slot(pos int) int {
	return pos & p.mask
}

// low returns the smallest position a match found by SearchAndPut may start
// at. The position pos-dictSize is excluded because pos reuses its slot.
func (p *params) low(pos int) int {
	return max(pos-p.dictSize+1, 0)
}

// searchLow returns the smallest position accepted by Search.
func (p *params) searchLow(pos int) int {
	return max(pos-p.dictSize, 0)
}

// limit returns the maximum match length that can be checked at pos.
func (p *params) limit(pos int) int {
	return min(p.maxMatch, len(p.text)-pos)
}

// matchLen returns the length of the common prefix of the text at positions
// pos and c, but not more than n.
func (p *params) matchLen(pos, c, n int) int {
	return lcp(p.text[pos:pos+n], p.text[c:c+n])
}

// better returns the match of length k at c if it improves on m.
func (p *params) better(m Match, k, c int) Match {
	if k < p.threshold {
		return m
	}
	if k > m.Len || (k == m.Len && c > m.Pos) {
		return Match{Len: k, Pos: c}
	}
	return m
}

// scan checks the positions in the range (lastPut, pos) that are in the
// dictionary window but have not been added to the index yet.
func (p *params) scan(m Match, pos, lastPut int) Match {
	n := p.limit(pos)
	a := max(lastPut+1, p.searchLow(pos))
	for c := pos - 1; c >= a; c-- {
		m = p.better(m, p.matchLen(pos, c, n), c)
	}
	return m
}

// renormalize subtracts delta from all positions in links. Positions that
// would become negative are marked unused.
func renormalize(links []int32, delta int32) {
	for i, v := range links {
		switch {
		case v < 0:
			// sentinel
		case v < delta:
			links[i] = linkUnused
		default:
			links[i] = v - delta
		}
	}
}

func fill(links []int32, v int32) {
	for i := range links {
		links[i] = v
	}
}
