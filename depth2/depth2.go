// Package depth2 solves the last two levels of the tree in closed form.
// Instead of branching attribute by attribute, it enumerates attribute pairs
// against the current cover and reads every leaf distribution off a pairwise
// class-support matrix. The result is identical to what exhaustive
// branch-and-bound would find for the same cover, only polynomial in the
// number of attributes.
package depth2

import (
	"errors"
	"fmt"

	"github.com/hupe1980/odtree/core"
	"github.com/hupe1980/odtree/cover"
	"github.com/hupe1980/odtree/tree"
)

// ErrInvalidDepth is returned for depths other than 1 or 2.
var ErrInvalidDepth = errors.New("depth2: depth must be 1 or 2")

// Solver finds the optimal subtree of depth at most 1 or 2 for the current
// cover under the minimum support constraint.
type Solver interface {
	Fit(minSupport, depth int, c *cover.Cover) (*tree.Tree, error)
}

// candidates returns the attributes whose both branches satisfy the minimum
// support on the current cover, in ascending attribute order.
func candidates(c *cover.Cover, minSupport int) []int {
	num := c.NumAttributes()
	support := c.Support()
	out := make([]int, 0, num)
	for a := 0; a < num; a++ {
		left := c.CountIfBranch(core.NewItem(a, 0))
		if left >= minSupport && support-left >= minSupport {
			out = append(out, a)
		}
	}
	return out
}

// pairMatrix holds, for a candidate list, the class supports of the cover
// intersected with pairs of attributes taken positively:
// m[i][j] = classSupports(cover AND cand[i]=1 AND cand[j]=1), m[i][i] for the
// single attribute. It is symmetric; every leaf distribution of a depth-2
// tree is a difference of its rows.
type pairMatrix struct {
	supports [][][]int
}

func buildPairMatrix(c *cover.Cover, cands []int) *pairMatrix {
	n := len(cands)
	m := &pairMatrix{supports: make([][][]int, n)}
	for i := range m.supports {
		m.supports[i] = make([][]int, n)
	}

	for i := 0; i < n; i++ {
		c.Branch(core.NewItem(cands[i], 1))
		m.supports[i][i] = append([]int(nil), c.ClassSupports()...)
		for j := i + 1; j < n; j++ {
			c.Branch(core.NewItem(cands[j], 1))
			both := append([]int(nil), c.ClassSupports()...)
			m.supports[i][j] = both
			m.supports[j][i] = both
			c.Revert()
		}
		c.Revert()
	}
	return m
}

func (m *pairMatrix) single(i int) []int  { return m.supports[i][i] }
func (m *pairMatrix) pair(i, j int) []int { return m.supports[i][j] }

// subtract returns parent - child element-wise: the class supports of the
// sibling branch.
func subtract(parent, child []int) []int {
	out := make([]int, len(parent))
	for i := range parent {
		out[i] = parent[i] - child[i]
	}
	return out
}

func sum(counts []int) int {
	total := 0
	for _, v := range counts {
		total += v
	}
	return total
}

func validDepth(depth int) error {
	if depth != 1 && depth != 2 {
		return fmt.Errorf("%w: got %d", ErrInvalidDepth, depth)
	}
	return nil
}

// leafTree returns a single-leaf tree for the given class supports.
func leafTree(obj core.ErrorFunc, classSupports []int) *tree.Tree {
	err, target := obj.Compute(classSupports)
	t := tree.New()
	t.AddRoot(tree.NewLeaf(target, err))
	return t
}
