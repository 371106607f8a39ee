// Package heuristic ranks candidate attributes at node expansion so that
// promising branches are visited first: a strong upper bound found early
// makes every later branch prune harder.
package heuristic

import (
	"math"
	"sort"

	"github.com/hupe1980/odtree/core"
	"github.com/hupe1980/odtree/cover"
)

// Ranker reorders candidate attributes in place, best first. Rankers with
// equal scores break ties toward the lowest attribute index, so the returned
// order is deterministic.
type Ranker interface {
	Rank(c *cover.Cover, candidates []int)
}

// NoOrder keeps candidates in their given order.
type NoOrder struct{}

// Rank implements Ranker.
func (NoOrder) Rank(*cover.Cover, []int) {}

type scored struct {
	attribute int
	score     float64
}

// rank sorts candidates by score; higher is better. Ties break toward the
// lowest attribute index.
func rank(candidates []int, scores []scored) {
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].score != scores[j].score {
			return scores[i].score > scores[j].score
		}
		return scores[i].attribute < scores[j].attribute
	})
	for i, s := range scores {
		candidates[i] = s.attribute
	}
}

// branchClassSupports returns the class supports of the left branch
// (attribute absent) of a, and the remainder on the right.
func branchClassSupports(c *cover.Cover, a int, root []int) (left, right []int) {
	c.Branch(core.NewItem(a, 0))
	left = append([]int(nil), c.ClassSupports()...)
	c.Revert()

	right = make([]int, len(root))
	for i := range root {
		right[i] = root[i] - left[i]
	}
	return left, right
}

// InformationGain ranks attributes by the entropy reduction of their split.
// With Ratio set, the gain is divided by the split information (C4.5 gain
// ratio).
type InformationGain struct {
	Ratio bool
}

// Rank implements Ranker.
func (h InformationGain) Rank(c *cover.Cover, candidates []int) {
	root := append([]int(nil), c.ClassSupports()...)
	parentEntropy := core.Entropy(root)

	scores := make([]scored, len(candidates))
	for i, a := range candidates {
		scores[i] = scored{attribute: a, score: informationGain(c, a, root, parentEntropy, h.Ratio)}
	}
	rank(candidates, scores)
}

func informationGain(c *cover.Cover, a int, root []int, parentEntropy float64, ratio bool) float64 {
	left, right := branchClassSupports(c, a, root)

	total, leftSize, rightSize := 0, 0, 0
	for i := range root {
		total += root[i]
		leftSize += left[i]
		rightSize += right[i]
	}
	if total == 0 {
		return 0
	}

	leftWeight := float64(leftSize) / float64(total)
	rightWeight := float64(rightSize) / float64(total)

	gain := parentEntropy - (leftWeight*core.Entropy(left) + rightWeight*core.Entropy(right))
	if !ratio {
		return gain
	}

	splitInfo := 0.0
	if leftWeight > 0 {
		splitInfo -= leftWeight * math.Log2(leftWeight)
	}
	if rightWeight > 0 {
		splitInfo -= rightWeight * math.Log2(rightWeight)
	}
	if core.FloatIsNull(splitInfo) {
		splitInfo = 1
	}
	return gain / splitInfo
}

// GiniIndex ranks attributes by the weighted Gini impurity of their split,
// lowest impurity first.
type GiniIndex struct{}

// Rank implements Ranker.
func (GiniIndex) Rank(c *cover.Cover, candidates []int) {
	root := append([]int(nil), c.ClassSupports()...)

	scores := make([]scored, len(candidates))
	for i, a := range candidates {
		// Negated so that the shared ordering (higher is better) visits the
		// purest splits first.
		scores[i] = scored{attribute: a, score: -giniIndex(c, a, root)}
	}
	rank(candidates, scores)
}

func giniIndex(c *cover.Cover, a int, root []int) float64 {
	left, right := branchClassSupports(c, a, root)

	total, leftSize, rightSize := 0, 0, 0
	for i := range root {
		total += root[i]
		leftSize += left[i]
		rightSize += right[i]
	}
	if total == 0 {
		return 0
	}

	leftGini, rightGini := 0.0, 0.0
	for class := range root {
		if leftSize > 0 {
			p := float64(left[class]) / float64(leftSize)
			leftGini += p * p
		}
		if rightSize > 0 {
			p := float64(right[class]) / float64(rightSize)
			rightGini += p * p
		}
	}
	return (float64(leftSize)*(1-leftGini) + float64(rightSize)*(1-rightGini)) / float64(total)
}
