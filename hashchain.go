package lzss

import "fmt"

// hashChain links all positions with the same hash value into a list, most
// recent position first. A walk through a chain visits at most searchLimit
// nodes. Buckets whose walks have been cut off are marked as overloaded;
// lookups for them use the hash of the bytes at an offset into the pattern,
// which usually selects a shorter chain.
type hashChain struct {
	params

	hash  Hasher
	heads []int32
	prev  []int32

	overloaded  bitset
	searchLimit int

	// walked counts the chain nodes visited.
	walked int
}

func newHashChain(p params, h Hasher, limit int) (*hashChain, error) {
	if limit < 1 {
		return nil, fmt.Errorf("lzss: SearchLimit=%d; must be >= 1", limit)
	}
	hc := &hashChain{
		params:      p,
		hash:        h,
		heads:       make([]int32, h.TableSize()),
		prev:        make([]int32, p.dictSize),
		searchLimit: limit,
	}
	fill(hc.heads, linkUnused)
	fill(hc.prev, linkUnused)
	hc.overloaded.init(h.TableSize())
	return hc, nil
}

func (hc *hashChain) PutRequires() int { return hc.hash.Requires() }

// add links pos into the chain of bucket h. Writing the slot of pos
// overwrites the node that left the dictionary window; walks stop before
// they reach it.
func (hc *hashChain) add(h, pos int) {
	hc.prev[hc.slot(pos)] = hc.heads[h]
	hc.heads[h] = int32(pos)
}

func (hc *hashChain) Put(pos int) {
	hc.add(hc.hash.Hash(pos), pos)
}

// walk searches the chain of bucket h for matches at pos starting at lo or
// later. The chain holds the positions hashed at offset off, so the
// candidate matches start off bytes earlier. Only matches up to length lim
// are checked. The function f is called for every candidate of at least the
// threshold length, if it is not nil. The boolean result reports whether the
// walk was stopped by the search limit.
func (hc *hashChain) walk(m Match, h, pos, lo, off, lim int, f func(k, c int)) (Match, bool) {
	d := int(hc.heads[h])
	for i := 0; d >= 0; i++ {
		c := d - off
		if c < lo {
			return m, false
		}
		if i == hc.searchLimit {
			return m, true
		}
		hc.walked++
		if c < pos && (m.Len >= lim || hc.text[c+m.Len] == hc.text[pos+m.Len]) {
			k := hc.matchLen(pos, c, lim)
			if f != nil && k >= hc.threshold {
				f(k, c)
			}
			// Candidates are visited in decreasing order; the
			// first match of a length is the most recent.
			if k > m.Len && k >= hc.threshold {
				m = Match{Len: k, Pos: c}
				if k == lim {
					return m, false
				}
			}
		}
		next := int(hc.prev[hc.slot(d)])
		if next >= d {
			return m, false
		}
		d = next
	}
	return m, false
}

// find searches for the best match at pos. If update is set the overload
// flags are maintained and pos is going to be put.
func (hc *hashChain) find(pos int, update bool, f func(k, c int)) Match {
	lo := hc.searchLow(pos)
	if update {
		lo = hc.low(pos)
	}
	req := hc.hash.Requires()
	lim := hc.limit(pos)
	if pos+req > len(hc.text) {
		return NoMatch
	}
	h0 := hc.hash.Hash(pos)
	h, off := h0, 0
	if hc.overloaded.isMember(h0) {
		maxOff := min(hc.maxMatch-hc.threshold, lim-req+1)
		for off = 1; off < maxOff; off++ {
			h = hc.hash.Hash(pos + off)
			if !hc.overloaded.isMember(h) {
				break
			}
		}
		if off >= maxOff {
			h, off = h0, 0
		}
	}
	m, truncated := hc.walk(NoMatch, h, pos, lo, off, lim, f)
	if update {
		hc.overloaded.assign(h, truncated)
	}
	if off == 0 {
		return m
	}
	// Matches longer than the floor must include the hashed bytes at
	// the offset and have been found. Shorter ones are searched in the
	// primary chain, unless the floor has been reached already.
	floor := off + req - 1
	if m.Len >= floor {
		return m
	}
	m, truncated = hc.walk(m, h0, pos, lo, 0, floor, f)
	if update {
		hc.overloaded.assign(h0, truncated)
	}
	return m
}

func (hc *hashChain) SearchAndPut(pos int) Match {
	m := hc.find(pos, true, nil)
	hc.Put(pos)
	return m
}

func (hc *hashChain) Search(pos, lastPut int) Match {
	m := hc.find(pos, false, nil)
	return hc.scan(m, pos, lastPut)
}

func (hc *hashChain) SearchAndPutCandidates(pos int, dst []Match) []Match {
	n := len(dst)
	hc.find(pos, true, func(k, c int) {
		for l := hc.threshold + len(dst) - n; l <= k; l++ {
			dst = append(dst, Match{Len: l, Pos: c})
		}
	})
	hc.Put(pos)
	return dst
}

func (hc *hashChain) Slide() {
	d := int32(hc.dictSize)
	renormalize(hc.heads, d)
	renormalize(hc.prev, d)
}

var _ CandidateFinder = (*hashChain)(nil)
