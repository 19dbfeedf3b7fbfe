package lzss

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// maxTwoLevelHeads limits the size of the secondary bucket table.
const maxTwoLevelHeads = 1 << 24

// twoLevelHash uses the primary hash to select a region of secondary
// buckets. A region at level L has 4^L buckets; the bucket is selected by L
// 2-bit groups computed from the bytes following the primary hash input.
// Every bucket is a chain of positions, most recent first.
//
// The level of a region adapts to the number of positions added during the
// last dictionary pass. Regions are split or merged only in Slide.
type twoLevelHash struct {
	params

	hash Hasher
	// number of bytes read by hash
	req int

	maxLevel int
	// heads is a sequence of regions with 4^maxLevel heads each
	heads []int32
	prev  []int32
	level []uint8
	count []int32
	// last position put
	last int

	growLoad   int
	shrinkLoad int
}

func newTwoLevelHash(p params, h Hasher, maxLevel, growLoad, shrinkLoad int) (*twoLevelHash, error) {
	if !(1 <= maxLevel && maxLevel <= 4) {
		return nil, fmt.Errorf(
			"lzss: MaxLevel=%d; must be in range [1,4]", maxLevel)
	}
	if h.Requires()+maxLevel > p.maxMatch {
		return nil, fmt.Errorf(
			"lzss: hash input %d + MaxLevel=%d; must be <= MaxMatch=%d",
			h.Requires(), maxLevel, p.maxMatch)
	}
	n := int64(h.TableSize()) << (2 * uint(maxLevel))
	if n > maxTwoLevelHeads {
		return nil, fmt.Errorf(
			"lzss: two-level table with %d heads; must not exceed %d",
			n, maxTwoLevelHeads)
	}
	if growLoad < 1 || shrinkLoad < 0 {
		return nil, fmt.Errorf(
			"lzss: GrowLoad=%d, ShrinkLoad=%d; must be >= 1 and >= 0",
			growLoad, shrinkLoad)
	}
	th := &twoLevelHash{
		params:     p,
		hash:       h,
		req:        h.Requires(),
		maxLevel:   maxLevel,
		heads:      make([]int32, n),
		prev:       make([]int32, p.dictSize),
		level:      make([]uint8, h.TableSize()),
		count:      make([]int32, h.TableSize()),
		growLoad:   growLoad,
		shrinkLoad: shrinkLoad,
		last:       -1,
	}
	fill(th.heads, linkUnused)
	fill(th.prev, linkUnused)
	return th, nil
}

// PutRequires returns the number of bytes for the primary hash plus the
// bytes used for the secondary codes.
func (th *twoLevelHash) PutRequires() int { return th.req + th.maxLevel }

// group folds the byte into 2 bits.
func group(b byte) int {
	return int(b^b>>2^b>>4^b>>6) & 3
}

// code computes the secondary code for pos at level l.
func (th *twoLevelHash) code(pos, l int) int {
	p := th.text[pos+th.req : pos+th.req+l]
	c := 0
	for i, b := range p {
		c |= group(b) << (2 * uint(i))
	}
	return c
}

// base returns the index of the first head of region r.
func (th *twoLevelHash) base(r int) int {
	return r << (2 * uint(th.maxLevel))
}

func (th *twoLevelHash) Put(pos int) {
	r := th.hash.Hash(pos)
	b := th.base(r) + th.code(pos, int(th.level[r]))
	th.prev[th.slot(pos)] = th.heads[b]
	th.heads[b] = int32(pos)
	th.count[r]++
	th.last = pos
}

// walk searches the chain starting at head b for matches at lo or later.
// Chains are ordered by decreasing position, so the first match of a length
// is the most recent. Matches of the same length in other chains replace m
// if they are more recent.
func (th *twoLevelHash) walk(m Match, b, pos, lo, lim int) Match {
	c := int(th.heads[b])
	for c >= lo {
		if c < pos {
			k := th.matchLen(pos, c, lim)
			m = th.better(m, k, c)
			if k == lim {
				return m
			}
		}
		next := int(th.prev[th.slot(c)])
		if next >= c {
			break
		}
		c = next
	}
	return m
}

// find searches the bucket of pos and then the sibling buckets level by
// level. A sibling at level l shares the first l groups with pos but not
// group l, so its positions cannot match more than req+l bytes.
func (th *twoLevelHash) find(pos, lo int) Match {
	lim := th.limit(pos)
	r := th.hash.Hash(pos)
	L := int(th.level[r])
	if lim < th.req+L {
		return NoMatch
	}
	base := th.base(r)
	code := th.code(pos, L)
	m := th.walk(NoMatch, base+code, pos, lo, lim)
	for l := L - 1; l >= 0; l-- {
		if m.Len > th.req+l {
			break
		}
		low := code & (1<<(2*uint(l)) - 1)
		g := (code >> (2 * uint(l))) & 3
		for hi := 0; hi < 1<<(2*uint(L-l-1)); hi++ {
			for j := 0; j < 4; j++ {
				if j == g {
					continue
				}
				c := low | j<<(2*uint(l)) | hi<<(2*uint(l+1))
				m = th.walk(m, base+c, pos, lo, lim)
			}
		}
	}
	return m
}

func (th *twoLevelHash) SearchAndPut(pos int) Match {
	m := th.find(pos, th.low(pos))
	th.Put(pos)
	return m
}

func (th *twoLevelHash) Search(pos, lastPut int) Match {
	m := NoMatch
	if pos+th.req+th.maxLevel <= len(th.text) {
		m = th.find(pos, th.searchLow(pos))
	}
	return th.scan(m, pos, lastPut)
}

// Slide renormalizes the positions and adapts the levels of the regions to
// the number of positions added since the last slide.
func (th *twoLevelHash) Slide() {
	d := int32(th.dictSize)
	renormalize(th.heads, d)
	renormalize(th.prev, d)
	th.last -= th.dictSize
	for r, n := range th.count {
		L := int(th.level[r])
		w := 1 << (2 * uint(L))
		switch {
		case L < th.maxLevel && int(n) > th.growLoad*w:
			th.split(r)
			log.Debugf("lzss: two-level region %d split to %d buckets (load %d)",
				r, 4*w, n)
		case L > 0 && int(n) < th.shrinkLoad*(w>>2):
			th.merge(r)
			log.Debugf("lzss: two-level region %d merged to %d buckets (load %d)",
				r, w>>2, n)
		}
		th.count[r] = 0
	}
}

// split distributes the chains of region r to four times as many buckets
// using the next 2-bit group. The order of the positions is preserved.
func (th *twoLevelHash) split(r int) {
	L := int(th.level[r])
	base := th.base(r)
	shift := 2 * uint(L)
	var tails [4]int32
	for c := 0; c < 1<<shift; c++ {
		p := th.head(base + c)
		for j := range tails {
			tails[j] = linkUnused
			th.heads[base+(c|j<<shift)] = linkUnused
		}
		for p >= 0 {
			next := th.next(p)
			j := group(th.text[int(p)+th.req+L])
			if tails[j] == linkUnused {
				th.heads[base+(c|j<<shift)] = p
			} else {
				th.prev[th.slot(int(tails[j]))] = p
			}
			tails[j] = p
			p = next
		}
		for _, t := range tails {
			if t != linkUnused {
				th.prev[th.slot(int(t))] = linkUnused
			}
		}
	}
	th.level[r] = uint8(L + 1)
}

// merge combines every four sibling chains of region r into one by merging
// them in decreasing position order.
func (th *twoLevelHash) merge(r int) {
	L := int(th.level[r]) - 1
	base := th.base(r)
	shift := 2 * uint(L)
	var heads [4]int32
	for c := 0; c < 1<<shift; c++ {
		for j := range heads {
			b := base + (c | j<<shift)
			heads[j] = th.head(b)
			th.heads[b] = linkUnused
		}
		tail := linkUnused
		for {
			j := -1
			for i, h := range heads {
				if h >= 0 && (j < 0 || h > heads[j]) {
					j = i
				}
			}
			if j < 0 {
				break
			}
			p := heads[j]
			heads[j] = th.next(p)
			if tail == linkUnused {
				th.heads[base+c] = p
			} else {
				th.prev[th.slot(int(tail))] = p
			}
			tail = p
		}
		if tail != linkUnused {
			th.prev[th.slot(int(tail))] = linkUnused
		}
	}
	th.level[r] = uint8(L)
}

// The slots of positions that are not in the dictionary window of the next
// position may have been reused. Chains are cut off before them.

// head returns the first position of the chain at b or linkUnused.
func (th *twoLevelHash) head(b int) int32 {
	p := th.heads[b]
	if int(p) < th.searchLow(th.last+1) {
		return linkUnused
	}
	return p
}

// next returns the position following p in its chain or linkUnused.
func (th *twoLevelHash) next(p int32) int32 {
	q := th.prev[th.slot(int(p))]
	if q >= p || int(q) < th.searchLow(th.last+1) {
		return linkUnused
	}
	return q
}

var _ Finder = (*twoLevelHash)(nil)
