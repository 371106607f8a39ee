// Package tree holds the decision trees produced by the search: an
// array-backed binary tree of test nodes and class leaves, with prediction
// and export helpers.
package tree

import (
	"math"

	"github.com/hupe1980/odtree/core"
)

// Node is one tree node. Index 0 is the root; a Left or Right of zero means
// the child is absent.
type Node struct {
	// Test is the splitting attribute, core.NoAttribute for leaves.
	Test int `json:"test"`

	// Error is the training error of the subtree rooted here.
	Error float64 `json:"error"`

	// Target is the predicted class, meaningful for leaves.
	Target int `json:"target"`

	// Leaf marks terminal nodes.
	Leaf bool `json:"leaf"`

	Left  int `json:"left"`
	Right int `json:"right"`
}

// NewLeaf returns a leaf node.
func NewLeaf(target int, err float64) Node {
	return Node{Test: core.NoAttribute, Target: target, Error: err, Leaf: true}
}

// NewInternal returns an internal node testing the given attribute.
func NewInternal(test int, err float64) Node {
	return Node{Test: test, Error: err}
}

// Tree is an array-backed binary decision tree. The zero value is an empty
// tree.
type Tree struct {
	nodes []Node
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{}
}

// NewSkeleton returns a complete binary tree of the given depth with
// unresolved nodes (infinite error, no test). The depth-2 specializer fills
// skeletons in place while comparing candidate splits.
func NewSkeleton(depth int) *Tree {
	t := New()
	root := t.AddRoot(Node{Test: core.NoAttribute, Error: math.Inf(1)})
	t.grow(root, depth)
	return t
}

func (t *Tree) grow(parent, depth int) {
	if depth == 0 {
		return
	}
	left := t.AddNode(parent, true, Node{Test: core.NoAttribute, Error: math.Inf(1)})
	right := t.AddNode(parent, false, Node{Test: core.NoAttribute, Error: math.Inf(1)})
	t.grow(left, depth-1)
	t.grow(right, depth-1)
}

// IsEmpty reports whether the tree has no nodes.
func (t *Tree) IsEmpty() bool { return len(t.nodes) == 0 }

// Len returns the number of allocated nodes, including unused skeleton
// slots.
func (t *Tree) Len() int { return len(t.nodes) }

// Root returns the root index.
func (t *Tree) Root() int { return 0 }

// Node returns a mutable reference to node i, nil if out of range.
func (t *Tree) Node(i int) *Node {
	if i < 0 || i >= len(t.nodes) {
		return nil
	}
	return &t.nodes[i]
}

// AddRoot adds the root node and returns its index. Only valid on an empty
// tree.
func (t *Tree) AddRoot(n Node) int {
	t.nodes = append(t.nodes[:0], n)
	return 0
}

// AddNode appends a node as the left or right child of parent and returns
// its index.
func (t *Tree) AddNode(parent int, left bool, n Node) int {
	t.nodes = append(t.nodes, n)
	i := len(t.nodes) - 1
	if left {
		t.nodes[parent].Left = i
	} else {
		t.nodes[parent].Right = i
	}
	return i
}

// RootError returns the training error of the whole tree, +Inf for an empty
// or unresolved tree.
func (t *Tree) RootError() float64 {
	if t.IsEmpty() {
		return math.Inf(1)
	}
	return t.nodes[0].Error
}

// Size returns the number of nodes reachable from the root. A skeleton slot
// whose parent was turned into a leaf is not counted.
func (t *Tree) Size() int {
	if t.IsEmpty() {
		return 0
	}
	return t.size(0)
}

func (t *Tree) size(i int) int {
	n := &t.nodes[i]
	count := 1
	if n.Leaf {
		return count
	}
	if n.Left != 0 {
		count += t.size(n.Left)
	}
	if n.Right != 0 {
		count += t.size(n.Right)
	}
	return count
}

// Depth returns the length of the longest root-to-leaf path, 0 for a single
// leaf.
func (t *Tree) Depth() int {
	if t.IsEmpty() {
		return 0
	}
	return t.depth(0)
}

func (t *Tree) depth(i int) int {
	n := &t.nodes[i]
	if n.Leaf || (n.Left == 0 && n.Right == 0) {
		return 0
	}
	d := 0
	if n.Left != 0 {
		d = t.depth(n.Left)
	}
	if n.Right != 0 {
		if rd := t.depth(n.Right); rd > d {
			d = rd
		}
	}
	return d + 1
}

// Predict classifies one instance. The callback reports whether the given
// attribute is set for the instance. Traversal goes left when the attribute
// is absent, right when present; an unresolved node predicts its subtree
// target.
func (t *Tree) Predict(has func(attribute int) bool) int {
	if t.IsEmpty() {
		return 0
	}
	i := 0
	for {
		n := &t.nodes[i]
		if n.Leaf || n.Test == core.NoAttribute {
			return n.Target
		}
		if has(n.Test) {
			i = n.Right
		} else {
			i = n.Left
		}
		if i == 0 {
			return n.Target
		}
	}
}

// Graft copies the subtree of src rooted at srcIdx over node dstIdx,
// creating child nodes as needed.
func (t *Tree) Graft(dstIdx int, src *Tree, srcIdx int) {
	srcNode := src.Node(srcIdx)
	if srcNode == nil {
		return
	}

	dst := t.Node(dstIdx)
	left, right := dst.Left, dst.Right
	*dst = *srcNode
	dst.Left, dst.Right = left, right

	if srcNode.Leaf {
		dst.Left, dst.Right = 0, 0
		return
	}
	if srcNode.Left != 0 {
		if dst.Left == 0 {
			t.AddNode(dstIdx, true, Node{})
		}
		t.Graft(t.nodes[dstIdx].Left, src, srcNode.Left)
	}
	if srcNode.Right != 0 {
		if dst.Right == 0 {
			t.AddNode(dstIdx, false, Node{})
		}
		t.Graft(t.nodes[dstIdx].Right, src, srcNode.Right)
	}
}
