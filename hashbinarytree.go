package lzss

// hashBinaryTree keeps a binary tree for every bucket of a hash table. The
// trees are smaller than the single tree of binaryTree, but only matches of
// at least the hash input length can be found.
type hashBinaryTree struct {
	// work tree; its root is swapped with the bucket root for every
	// operation
	workTree tree

	roots []int32
	hash  Hasher
}

func newHashBinaryTree(p params, h Hasher) *hashBinaryTree {
	ht := &hashBinaryTree{
		roots: make([]int32, h.TableSize()),
		hash:  h,
	}
	ht.workTree.init(p)
	fill(ht.roots, linkUnused)
	return ht
}

func (ht *hashBinaryTree) PutRequires() int { return ht.workTree.maxMatch }

// evict removes the node that leaves the dictionary window when pos is
// added. The root of its tree is found by recomputing its hash.
func (ht *hashBinaryTree) evict(pos int) {
	n := pos - ht.workTree.dictSize
	if n < 0 {
		return
	}
	proot := &ht.roots[ht.hash.Hash(n)]
	ht.workTree.root = *proot
	ht.workTree.remove(n)
	*proot = ht.workTree.root
}

func (ht *hashBinaryTree) Put(pos int) {
	ht.SearchAndPut(pos)
}

func (ht *hashBinaryTree) SearchAndPut(pos int) Match {
	ht.evict(pos)
	proot := &ht.roots[ht.hash.Hash(pos)]
	ht.workTree.root = *proot
	m := ht.workTree.insert(pos)
	*proot = ht.workTree.root
	return m
}

func (ht *hashBinaryTree) Search(pos, lastPut int) Match {
	t := &ht.workTree
	m := t.scan(NoMatch, pos, lastPut)
	if pos+ht.hash.Requires() > len(t.text) {
		return m
	}
	t.root = ht.roots[ht.hash.Hash(pos)]
	return t.search(m, pos)
}

func (ht *hashBinaryTree) Slide() {
	d := int32(ht.workTree.dictSize)
	ht.workTree.root = linkUnused
	ht.workTree.slide()
	renormalize(ht.roots, d)
}

var _ Finder = (*hashBinaryTree)(nil)
