package depth2

import (
	"github.com/hupe1980/odtree/core"
	"github.com/hupe1980/odtree/cover"
	"github.com/hupe1980/odtree/heuristic"
	"github.com/hupe1980/odtree/tree"
)

// InfoGainMaximizer picks the depth-1 or depth-2 subtree with the largest
// information gain rather than the smallest error. Each child of the root
// split chooses its own second attribute independently. Greedy lookahead
// uses it as a faster, purity-driven alternative to the error minimizer.
type InfoGainMaximizer struct {
	Objective core.ErrorFunc
}

// NewInfoGainMaximizer returns a gain-driven solver scoring leaves with the
// given error function.
func NewInfoGainMaximizer(obj core.ErrorFunc) *InfoGainMaximizer {
	return &InfoGainMaximizer{Objective: obj}
}

func (g *InfoGainMaximizer) Fit(minSupport, depth int, c *cover.Cover) (*tree.Tree, error) {
	if err := validDepth(depth); err != nil {
		return nil, err
	}

	rootSupports := append([]int(nil), c.ClassSupports()...)
	cands := candidates(c, minSupport)
	if len(cands) == 0 {
		return leafTree(g.Objective, rootSupports), nil
	}

	if depth == 1 || len(cands) < 2 || core.FloatIsNull(core.Entropy(rootSupports)) {
		return g.fitDepthOne(c, rootSupports, cands), nil
	}
	return g.fitDepthTwo(rootSupports, cands, buildPairMatrix(c, cands)), nil
}

// fitDepthOne ranks the candidates by information gain and splits on the
// winner.
func (g *InfoGainMaximizer) fitDepthOne(c *cover.Cover, rootSupports []int, cands []int) *tree.Tree {
	ranked := append([]int(nil), cands...)
	heuristic.InformationGain{}.Rank(c, ranked)
	best := ranked[0]

	c.Branch(core.NewItem(best, 1))
	rightSupports := append([]int(nil), c.ClassSupports()...)
	c.Revert()
	leftSupports := subtract(rootSupports, rightSupports)

	le, lt := g.Objective.Compute(leftSupports)
	re, rt := g.Objective.Compute(rightSupports)

	return buildSplitTree(best, le+re,
		halfSplit{err: le, test: core.NoAttribute, target: lt},
		halfSplit{err: re, test: core.NoAttribute, target: rt})
}

// gainHalf is a halfSplit annotated with the gain of its second split.
type gainHalf struct {
	halfSplit
	gain float64
}

func (g *InfoGainMaximizer) fitDepthTwo(rootSupports []int, cands []int, m *pairMatrix) *tree.Tree {
	parentEntropy := core.Entropy(rootSupports)

	bestGain := -1.0
	best := -1
	var bestLeft, bestRight gainHalf

	for i := range cands {
		right := m.single(i)
		left := subtract(rootSupports, right)

		ls := g.bestGainHalf(i, left, rootSupports, parentEntropy, cands, m, false)
		rs := g.bestGainHalf(i, right, rootSupports, parentEntropy, cands, m, true)

		if ls.gain+rs.gain > bestGain {
			bestGain = ls.gain + rs.gain
			best = i
			bestLeft, bestRight = ls, rs
		}
		if core.FloatIsNull(ls.err + rs.err) {
			break
		}
	}

	if best < 0 {
		return leafTree(g.Objective, rootSupports)
	}
	return buildSplitTree(cands[best], bestLeft.err+bestRight.err, bestLeft.halfSplit, bestRight.halfSplit)
}

// bestGainHalf scores every second attribute for one child of root candidate
// i and keeps the one with the largest gain, defaulting to a leaf when no
// split yields any.
func (g *InfoGainMaximizer) bestGainHalf(i int, childSupports, rootSupports []int, parentEntropy float64, cands []int, m *pairMatrix, onRight bool) gainHalf {
	leafErr, leafTgt := g.Objective.Compute(childSupports)
	best := gainHalf{halfSplit: halfSplit{err: leafErr, test: core.NoAttribute, target: leafTgt}}

	total := float64(sum(rootSupports))
	if total == 0 {
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

		gain := parentEntropy -
			(float64(sum(jLeft))*core.Entropy(jLeft)+float64(sum(jRight))*core.Entropy(jRight))/total

		if gain > best.gain {
			le, lt := g.Objective.Compute(jLeft)
			re, rt := g.Objective.Compute(jRight)
			best = gainHalf{
				gain: gain,
				halfSplit: halfSplit{
					err:      le + re,
					test:     cands[j],
					leftErr:  le,
					leftTgt:  lt,
					rightErr: re,
					rightTgt: rt,
				},
			}
		}
	}
	return best
}
