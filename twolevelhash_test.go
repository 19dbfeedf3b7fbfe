package lzss

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// chain returns the positions of the chain at head b.
func (th *twoLevelHash) chain(b int) []int32 {
	var a []int32
	for p := th.head(b); p >= 0; p = th.next(p) {
		a = append(a, p)
	}
	return a
}

// region returns the chains of all buckets of region r.
func (th *twoLevelHash) region(r int) [][]int32 {
	base := th.base(r)
	n := 1 << (2 * uint(th.level[r]))
	chains := make([][]int32, n)
	for c := range chains {
		chains[c] = th.chain(base + c)
	}
	return chains
}

func TestTwoLevelSplitMerge(t *testing.T) {
	cfg := Config{
		DictionarySize: 256,
		MaxMatch:       16,
		Finder:         TwoLevelHash,
		MaxLevel:       3,
	}
	text := testData(21, TextSize(cfg.DictionarySize, cfg.MaxMatch))
	for _, p := range []int{40, 100, 170, 230} {
		copy(text[p:], text[:6])
	}
	th := newTestFinder(t, cfg, text).(*twoLevelHash)
	for pos := 0; pos < cfg.DictionarySize; pos++ {
		th.Put(pos)
	}
	r := th.hash.Hash(0)
	before := th.region(r)[0]
	if len(before) < 2 {
		t.Fatalf("region %d has %d positions; want at least 2",
			r, len(before))
	}

	for L := 0; L < cfg.MaxLevel; L++ {
		th.split(r)
		if int(th.level[r]) != L+1 {
			t.Fatalf("level %d after split; want %d", th.level[r], L+1)
		}
		n := 0
		for c, chain := range th.region(r) {
			for i, p := range chain {
				if code := th.code(int(p), L+1); code != c {
					t.Fatalf("level %d: position %d in bucket %d; want %d",
						L+1, p, c, code)
				}
				if i > 0 && p >= chain[i-1] {
					t.Fatalf("level %d: chain %v not ordered", L+1, chain)
				}
			}
			n += len(chain)
		}
		if n != len(before) {
			t.Fatalf("level %d: %d positions; want %d", L+1, n, len(before))
		}
	}

	for L := cfg.MaxLevel; L > 0; L-- {
		th.merge(r)
		if int(th.level[r]) != L-1 {
			t.Fatalf("level %d after merge; want %d", th.level[r], L-1)
		}
	}
	after := th.region(r)[0]
	if diff := cmp.Diff(before, after); diff != "" {
		t.Fatalf("chain after split and merge (-want +got):\n%s", diff)
	}
}

func TestTwoLevelAdapts(t *testing.T) {
	cfg := testConfig(TwoLevelHash)
	// a repetitive phase makes the regions grow, a random phase lets
	// them shrink again
	data := testData(31, 10*cfg.DictionarySize)
	for i := 0; i < 4*cfg.DictionarySize; i++ {
		data = append(data, "abcd"[i%4])
	}
	data = append(data, testData(32, 10*cfg.DictionarySize)...)

	var splits, merges int
	levels := make(map[int]uint8)
	onSlide := func(f Finder) {
		th := f.(*twoLevelHash)
		for r, l := range th.level {
			switch old := levels[r]; {
			case l > old:
				splits++
			case l < old:
				merges++
			}
			levels[r] = l
		}
	}
	got := runSliding(t, cfg, data, onSlide)
	if splits == 0 || merges == 0 {
		t.Fatalf("%d splits and %d merges; want both", splits, merges)
	}

	// An unlimited hash chain is the single bucket version of the
	// two-level hash.
	hcCfg := cfg
	hcCfg.Finder = HashChain
	hcCfg.SearchLimit = cfg.DictionarySize + 1
	want := runSliding(t, hcCfg, data, nil)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("two-level hash differs from hash chain (-want +got):\n%s",
			diff)
	}
}

func TestTwoLevelConfig(t *testing.T) {
	text := make([]byte, TextSize(64, 4))
	p, err := newParams(text, 64, 4, 3)
	if err != nil {
		t.Fatalf("newParams error %s", err)
	}
	h, err := HashConfig{}.NewHasher(text)
	if err != nil {
		t.Fatalf("NewHasher error %s", err)
	}
	if _, err = newTwoLevelHash(p, h, 2, 1, 1); err == nil {
		t.Fatalf("newTwoLevelHash with hash input 3 + level 2 > 4 succeeded")
	}
	if _, err = newTwoLevelHash(p, h, 0, 1, 1); err == nil {
		t.Fatalf("newTwoLevelHash with MaxLevel 0 succeeded")
	}
	if _, err = newTwoLevelHash(p, h, 1, 0, 1); err == nil {
		t.Fatalf("newTwoLevelHash with GrowLoad 0 succeeded")
	}
	th, err := newTwoLevelHash(p, h, 1, 1, 1)
	if err != nil {
		t.Fatalf("newTwoLevelHash error %s", err)
	}
	if n := th.PutRequires(); n != 4 {
		t.Fatalf("PutRequires() = %d; want %d", n, 4)
	}
}
