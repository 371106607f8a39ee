package depth2

import (
	"github.com/hupe1980/odtree/core"
	"github.com/hupe1980/odtree/cover"
	"github.com/hupe1980/odtree/tree"
)

// ErrorMinimizer finds the depth-1 or depth-2 subtree with the smallest
// misclassification error, falling back to a single leaf when no split
// improves on it.
type ErrorMinimizer struct {
	Objective core.ErrorFunc
}

// NewErrorMinimizer returns a solver minimizing the given error function.
func NewErrorMinimizer(obj core.ErrorFunc) *ErrorMinimizer {
	return &ErrorMinimizer{Objective: obj}
}

// halfSplit describes one child of the root split: either a leaf or a second
// test with two leaves under it.
type halfSplit struct {
	err      float64
	test     int // core.NoAttribute for a leaf
	target   int // leaf target when test == core.NoAttribute
	leftErr  float64
	leftTgt  int
	rightErr float64
	rightTgt int
}

func (e *ErrorMinimizer) Fit(minSupport, depth int, c *cover.Cover) (*tree.Tree, error) {
	if err := validDepth(depth); err != nil {
		return nil, err
	}

	rootSupports := append([]int(nil), c.ClassSupports()...)
	cands := candidates(c, minSupport)
	if len(cands) == 0 {
		return leafTree(e.Objective, rootSupports), nil
	}

	m := buildPairMatrix(c, cands)

	if depth == 1 {
		return e.fitDepthOne(rootSupports, cands, m), nil
	}
	return e.fitDepthTwo(minSupport, rootSupports, cands, m), nil
}

func (e *ErrorMinimizer) fitDepthOne(rootSupports []int, cands []int, m *pairMatrix) *tree.Tree {
	bestErr, _ := e.Objective.Compute(rootSupports)
	best := -1
	var bestLeft, bestRight halfSplit

	for i := range cands {
		right := m.single(i)
		left := subtract(rootSupports, right)

		le, lt := e.Objective.Compute(left)
		re, rt := e.Objective.Compute(right)
		if le+re < bestErr {
			bestErr = le + re
			best = i
			bestLeft = halfSplit{err: le, test: core.NoAttribute, target: lt}
			bestRight = halfSplit{err: re, test: core.NoAttribute, target: rt}
		}
	}

	if best < 0 {
		return leafTree(e.Objective, rootSupports)
	}
	return buildSplitTree(cands[best], bestErr, bestLeft, bestRight)
}

func (e *ErrorMinimizer) fitDepthTwo(minSupport int, rootSupports []int, cands []int, m *pairMatrix) *tree.Tree {
	bestErr, _ := e.Objective.Compute(rootSupports)
	best := -1
	var bestLeft, bestRight halfSplit

	for i := range cands {
		right := m.single(i)
		left := subtract(rootSupports, right)

		ls := e.bestHalf(minSupport, i, left, cands, m, false)
		if ls.err >= bestErr {
			continue
		}
		rs := e.bestHalf(minSupport, i, right, cands, m, true)
		if ls.err+rs.err < bestErr {
			bestErr = ls.err + rs.err
			best = i
			bestLeft, bestRight = ls, rs
		}
	}

	if best < 0 {
		return leafTree(e.Objective, rootSupports)
	}
	return buildSplitTree(cands[best], bestErr, bestLeft, bestRight)
}

// bestHalf finds the optimal depth-1 subtree for the child of root candidate
// i, taken on the positive side when onRight is true. The class supports of
// every grandchild follow from the pair matrix by subtraction:
// on the right of i, attribute j splits m[i][j] against m[i][i]-m[i][j]; on
// the left, it splits m[j][j]-m[i][j] against the remainder of the child.
func (e *ErrorMinimizer) bestHalf(minSupport, i int, childSupports []int, cands []int, m *pairMatrix, onRight bool) halfSplit {
	leafErr, leafTgt := e.Objective.Compute(childSupports)
	best := halfSplit{err: leafErr, test: core.NoAttribute, target: leafTgt}

	childSupport := sum(childSupports)
	if childSupport < 2*minSupport {
		return best
	}

	for j := range cands {
		if j == i {
			continue
		}
		var jRight []int
		if onRight {
			jRight = m.pair(i, j)
		} else {
			jRight = subtract(m.single(j), m.pair(i, j))
		}
		jLeft := subtract(childSupports, jRight)

		if sum(jLeft) < minSupport || sum(jRight) < minSupport {
			continue
		}

		le, lt := e.Objective.Compute(jLeft)
		re, rt := e.Objective.Compute(jRight)
		if le+re < best.err {
			best = halfSplit{
				err:      le + re,
				test:     cands[j],
				leftErr:  le,
				leftTgt:  lt,
				rightErr: re,
				rightTgt: rt,
			}
		}
	}
	return best
}

// buildSplitTree materializes a root split and its two halves.
func buildSplitTree(rootTest int, rootErr float64, left, right halfSplit) *tree.Tree {
	t := tree.New()
	root := t.AddRoot(tree.NewInternal(rootTest, rootErr))
	addHalf(t, root, true, left)
	addHalf(t, root, false, right)
	return t
}

func addHalf(t *tree.Tree, parent int, isLeft bool, h halfSplit) {
	if h.test == core.NoAttribute {
		t.AddNode(parent, isLeft, tree.NewLeaf(h.target, h.err))
		return
	}
	mid := t.AddNode(parent, isLeft, tree.NewInternal(h.test, h.err))
	t.AddNode(mid, true, tree.NewLeaf(h.leftTgt, h.leftErr))
	t.AddNode(mid, false, tree.NewLeaf(h.rightTgt, h.rightErr))
}
