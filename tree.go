package lzss

// tree is a binary search tree over the positions of the text buffer, sorted
// by the first maxMatch bytes at each position. The nodes are stored in the
// parallel link arrays parent, small and large indexed by the slot of the
// position. The arrays store positions or the sentinels linkUnused and
// linkRoot.
//
// The hashed binary tree finder uses a single tree value as work tree and
// swaps the root in and out of its bucket table.
type tree struct {
	params

	parent []int32
	small  []int32
	large  []int32
	root   int32
}

func (t *tree) init(p params) {
	t.params = p
	t.parent = make([]int32, p.dictSize)
	t.small = make([]int32, p.dictSize)
	t.large = make([]int32, p.dictSize)
	fill(t.parent, linkUnused)
	fill(t.small, linkUnused)
	fill(t.large, linkUnused)
	t.root = linkUnused
}

// isLive reports whether the position n is currently a node of the tree.
func (t *tree) isLive(n int) bool {
	if n < 0 {
		return false
	}
	p := t.parent[t.slot(n)]
	switch p {
	case linkUnused:
		return false
	case linkRoot:
		return t.root == int32(n)
	}
	s := t.slot(int(p))
	return t.small[s] == int32(n) || t.large[s] == int32(n)
}

// setParentOf sets the parent link of node n, if n is not unused.
func (t *tree) setParentOf(n, p int32) {
	if n != linkUnused {
		t.parent[t.slot(int(n))] = p
	}
}

// relink replaces node n by r in the link of the parent of n. The parent of
// r is updated; r may be unused.
func (t *tree) relink(n, r int32) {
	p := t.parent[t.slot(int(n))]
	t.setParentOf(r, p)
	if p == linkRoot {
		t.root = r
		return
	}
	s := t.slot(int(p))
	if t.small[s] == n {
		t.small[s] = r
	} else {
		t.large[s] = r
	}
}

// replace puts the node r at the place of node n, which is removed from the
// tree. Node r must not be part of the tree.
func (t *tree) replace(n, r int32) {
	s, rs := t.slot(int(n)), t.slot(int(r))
	t.small[rs] = t.small[s]
	t.large[rs] = t.large[s]
	t.setParentOf(t.small[rs], r)
	t.setParentOf(t.large[rs], r)
	t.relink(n, r)
	t.parent[s] = linkUnused
}

// remove deletes the node n from the tree. Nothing happens if n is not
// live.
func (t *tree) remove(n int) {
	if !t.isLive(n) {
		return
	}
	s := t.slot(n)
	var r int32
	switch {
	case t.small[s] == linkUnused:
		r = t.large[s]
	case t.large[s] == linkUnused:
		r = t.small[s]
	default:
		// Find the largest node of the small subtree. It has no large
		// child and will take over the place of n.
		r = t.small[s]
		rs := t.slot(int(r))
		if t.large[rs] != linkUnused {
			for t.large[rs] != linkUnused {
				r = t.large[rs]
				rs = t.slot(int(r))
			}
			// splice r out
			rp := t.parent[rs]
			t.large[t.slot(int(rp))] = t.small[rs]
			t.setParentOf(t.small[rs], rp)
			t.small[rs] = t.small[s]
			t.setParentOf(t.small[rs], r)
		}
		t.large[rs] = t.large[s]
		t.setParentOf(t.large[rs], r)
	}
	t.relink(int32(n), r)
	t.parent[s] = linkUnused
	t.small[s] = linkUnused
	t.large[s] = linkUnused
}

// insert adds pos to the tree and returns the best match found on the path
// from the root to the insertion point. The caller must have evicted the
// node occupying the slot of pos before.
func (t *tree) insert(pos int) Match {
	s := t.slot(pos)
	t.small[s] = linkUnused
	t.large[s] = linkUnused
	if t.root == linkUnused {
		t.root = int32(pos)
		t.parent[s] = linkRoot
		return NoMatch
	}

	m := NoMatch
	lim := t.limit(pos)
	lo := t.low(pos)
	// The nodes in the current subtree share at least min(lenSmall,
	// lenLarge) bytes with pos.
	var lenSmall, lenLarge int
	n := int(t.root)
	for {
		k := min(lenSmall, lenLarge)
		k += t.matchLen(pos+k, n+k, lim-k)
		if n >= lo {
			m = t.better(m, k, n)
		}
		if k == lim {
			t.replace(int32(n), int32(pos))
			return m
		}
		ns := t.slot(n)
		var next *int32
		if t.text[pos+k] > t.text[n+k] {
			lenSmall = k
			next = &t.large[ns]
		} else {
			lenLarge = k
			next = &t.small[ns]
		}
		if *next == linkUnused {
			*next = int32(pos)
			t.parent[s] = int32(n)
			return m
		}
		n = int(*next)
	}
}

// search walks the tree like insert but doesn't modify it. Only nodes at
// most dictSize positions before pos are accepted as matches.
func (t *tree) search(m Match, pos int) Match {
	if t.root == linkUnused {
		return m
	}
	lim := t.limit(pos)
	lo := t.searchLow(pos)
	var lenSmall, lenLarge int
	n := int(t.root)
	for {
		k := min(lenSmall, lenLarge)
		k += t.matchLen(pos+k, n+k, lim-k)
		if lo <= n && n < pos {
			m = t.better(m, k, n)
		}
		if k == lim {
			return m
		}
		var next int32
		if t.text[pos+k] > t.text[n+k] {
			lenSmall = k
			next = t.large[t.slot(n)]
		} else {
			lenLarge = k
			next = t.small[t.slot(n)]
		}
		if next == linkUnused {
			return m
		}
		n = int(next)
	}
}

// slide renormalizes the link arrays and the root.
func (t *tree) slide() {
	d := int32(t.dictSize)
	renormalize(t.parent, d)
	renormalize(t.small, d)
	renormalize(t.large, d)
	t.root = shiftLink(t.root, d)
}

// shiftLink subtracts delta from a single link.
func shiftLink(v, delta int32) int32 {
	switch {
	case v < 0:
		return v
	case v < delta:
		return linkUnused
	default:
		return v - delta
	}
}
