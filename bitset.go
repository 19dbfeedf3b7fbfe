package lzss

const bsMask = 1<<6 - 1

// bitset is a packed set of small integers. The hash chain finder uses it
// to mark overloaded buckets.
type bitset struct {
	a []uint64
}

func (b *bitset) init(n int) {
	k := (n + 63) / 64
	if k <= cap(b.a) {
		b.a = b.a[:k]
		b.clear()
	} else {
		b.a = make([]uint64, k)
	}
}

func (b *bitset) clear() {
	for i := range b.a {
		b.a[i] = 0
	}
}

func (b *bitset) insert(i int) {
	b.a[i>>6] |= 1 << uint(i&bsMask)
}

func (b *bitset) remove(i int) {
	b.a[i>>6] &^= 1 << uint(i&bsMask)
}

// assign inserts i if f is true and removes it otherwise.
func (b *bitset) assign(i int, f bool) {
	if f {
		b.insert(i)
	} else {
		b.remove(i)
	}
}

func (b *bitset) isMember(i int) bool {
	return (b.a[i>>6] & (1 << uint(i&bsMask))) != 0
}
