package cache

import "github.com/hupe1980/odtree/core"

// trieNode is one node of the itemset trie. Children are kept unsorted and
// scanned linearly: branching factors at a single trie level stay small in
// practice, and linear scans beat map overhead there.
type trieNode struct {
	// item labels the edge from the parent and is fixed at creation.
	// Lookups must never depend on entry state, which callers mutate freely.
	item     core.Item
	entry    Entry
	children []*trieNode
}

func (n *trieNode) child(it core.Item) *trieNode {
	for _, c := range n.children {
		if c.item == it {
			return c
		}
	}
	return nil
}

// Trie stores entries keyed by the sorted item sequence, sharing prefixes
// across itemsets. An optional node arena absorbs allocations when the
// caller can bound the cache size up front.
type Trie struct {
	root  *trieNode
	arena []trieNode
	size  int
}

var _ Caching = (*Trie)(nil)

// NewTrie creates an empty trie that allocates nodes on demand.
func NewTrie() *Trie {
	t := &Trie{}
	t.Reset()
	return t
}

// NewTrieWithCapacity creates a trie with a preallocated node arena. Nodes
// beyond the capacity fall back to individual allocation.
func NewTrieWithCapacity(capacity int) *Trie {
	t := &Trie{arena: make([]trieNode, 0, capacity)}
	t.Reset()
	return t
}

func (t *Trie) alloc(it core.Item) *trieNode {
	if len(t.arena) < cap(t.arena) {
		t.arena = t.arena[:len(t.arena)+1]
		n := &t.arena[len(t.arena)-1]
		*n = trieNode{item: it, entry: NewEntry()}
		return n
	}
	return &trieNode{item: it, entry: NewEntry()}
}

// Root implements Caching.
func (t *Trie) Root() *Entry { return &t.root.entry }

// GetOrCreate implements Caching.
func (t *Trie) GetOrCreate(items []core.Item) (*Entry, bool) {
	node := t.root
	created := false
	for _, it := range items {
		child := node.child(it)
		if child == nil {
			child = t.alloc(it)
			node.children = append(node.children, child)
			t.size++
			created = true
		}
		node = child
	}
	return &node.entry, created
}

// Find implements Caching.
func (t *Trie) Find(items []core.Item) *Entry {
	node := t.root
	for _, it := range items {
		if node = node.child(it); node == nil {
			return nil
		}
	}
	return &node.entry
}

// Len implements Caching.
func (t *Trie) Len() int { return t.size }

// Reset implements Caching.
func (t *Trie) Reset() {
	t.arena = t.arena[:0]
	t.root = &trieNode{entry: NewEntry()}
	t.size = 1
}
