package lzss

import (
	"bytes"
	"fmt"
	"testing"
)

// verifyTree checks the links and the order of the tree and returns the
// positions in order.
func verifyTree(t *tree) ([]int, error) {
	var nodes []int
	var walk func(n, parent int32) error
	walk = func(n, parent int32) error {
		if n == linkUnused {
			return nil
		}
		s := t.slot(int(n))
		if p := t.parent[s]; p != parent {
			return fmt.Errorf("node %d has parent %d; want %d", n, p, parent)
		}
		if err := walk(t.small[s], n); err != nil {
			return err
		}
		nodes = append(nodes, int(n))
		return walk(t.large[s], n)
	}
	if err := walk(t.root, linkRoot); err != nil {
		return nil, err
	}
	for i := 1; i < len(nodes); i++ {
		p, q := nodes[i-1], nodes[i]
		a := t.text[p : p+t.maxMatch]
		b := t.text[q : q+t.maxMatch]
		if bytes.Compare(a, b) >= 0 {
			return nil, fmt.Errorf("nodes %d %q and %d %q out of order",
				p, a, q, b)
		}
	}
	return nodes, nil
}

func TestTreeInvariant(t *testing.T) {
	for seed := int64(1); seed <= 3; seed++ {
		cfg := testConfig(BinaryTree)
		text := testData(seed, 8*cfg.DictionarySize)
		f := newTestFinder(t, cfg, text)
		bt := f.(*binaryTree)
		for pos := 0; pos+cfg.MaxMatch <= len(text); pos++ {
			bt.Put(pos)
			nodes, err := verifyTree(&bt.tree)
			if err != nil {
				t.Fatalf("seed %d pos %d: %s", seed, pos, err)
			}
			lo := pos - cfg.DictionarySize + 1
			for _, n := range nodes {
				if !(lo <= n && n <= pos) {
					t.Fatalf("seed %d pos %d: node %d outside window",
						seed, pos, n)
				}
				if !bt.isLive(n) {
					t.Fatalf("seed %d pos %d: node %d not live",
						seed, pos, n)
				}
			}
			if !bt.isLive(pos) {
				t.Fatalf("seed %d: pos %d not live after Put", seed, pos)
			}
		}
	}
}

func TestTreeRemove(t *testing.T) {
	text := []byte("mnbvcxzlkjhgfdsapoiuytrewqmnbvcxzlkjhgfdsa")
	p, err := newParams(text, 32, 4, 2)
	if err != nil {
		t.Fatalf("newParams error %s", err)
	}
	var tr tree
	tr.init(p)
	for pos := 0; pos < 20; pos++ {
		tr.insert(pos)
	}
	// remove nodes in an order that hits leaves, nodes with one child
	// and nodes with two children
	for _, n := range []int{10, 0, 19, 5, 5, 3, 15, 1} {
		tr.remove(n)
		if tr.isLive(n) {
			t.Fatalf("node %d live after remove", n)
		}
		if _, err := verifyTree(&tr); err != nil {
			t.Fatalf("after remove(%d): %s", n, err)
		}
	}
	nodes, err := verifyTree(&tr)
	if err != nil {
		t.Fatalf("verifyTree error %s", err)
	}
	if len(nodes) != 13 {
		t.Fatalf("tree has %d nodes; want %d", len(nodes), 13)
	}
}

func TestTreeFullMatchReplace(t *testing.T) {
	text := []byte("abcdabcdabcdxxxxxxxx")
	p, err := newParams(text, 8, 4, 2)
	if err != nil {
		t.Fatalf("newParams error %s", err)
	}
	var tr tree
	tr.init(p)
	tr.insert(0)
	m := tr.insert(4)
	if m != (Match{Len: 4, Pos: 0}) {
		t.Fatalf("insert(4) = %+v; want %+v", m, Match{Len: 4, Pos: 0})
	}
	if tr.isLive(0) {
		t.Fatalf("node 0 still live after full match")
	}
	if tr.root != 4 {
		t.Fatalf("root is %d; want %d", tr.root, 4)
	}
}
