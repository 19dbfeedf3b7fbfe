package lzss

// binaryTree finds the longest match using a single binary tree over all
// positions in the dictionary window.
type binaryTree struct {
	tree
}

func newBinaryTree(p params) *binaryTree {
	bt := new(binaryTree)
	bt.tree.init(p)
	return bt
}

// PutRequires returns MaxMatch, because the tree is ordered by the first
// MaxMatch bytes.
func (bt *binaryTree) PutRequires() int { return bt.maxMatch }

func (bt *binaryTree) Put(pos int) {
	bt.remove(pos - bt.dictSize)
	bt.insert(pos)
}

func (bt *binaryTree) SearchAndPut(pos int) Match {
	bt.remove(pos - bt.dictSize)
	return bt.insert(pos)
}

func (bt *binaryTree) Search(pos, lastPut int) Match {
	m := bt.scan(NoMatch, pos, lastPut)
	return bt.search(m, pos)
}

func (bt *binaryTree) Slide() {
	bt.slide()
}

var _ Finder = (*binaryTree)(nil)
