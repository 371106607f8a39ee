package cover

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/odtree/core"
	"github.com/hupe1980/odtree/dataset"
	"github.com/hupe1980/odtree/testutil"
)

func toyDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.FromMatrix([][]int{
		{1, 0, 1},
		{1, 1, 0},
		{0, 1, 1},
		{0, 0, 0},
		{1, 0, 0},
		{0, 1, 0},
	}, []int{0, 0, 1, 1, 0, 1})
	require.NoError(t, err)
	return ds
}

func TestRootCover(t *testing.T) {
	c := New(toyDataset(t))

	assert.Equal(t, 6, c.Support())
	assert.Equal(t, []int{3, 3}, c.ClassSupports())
	assert.Equal(t, 0, c.Depth())
}

func TestBranch(t *testing.T) {
	c := New(toyDataset(t))

	support := c.Branch(core.NewItem(0, 1))
	assert.Equal(t, 3, support)
	assert.Equal(t, []int{3, 0}, c.ClassSupports())
	assert.Equal(t, 1, c.Depth())

	support = c.Branch(core.NewItem(1, 0))
	assert.Equal(t, 2, support)
	assert.Equal(t, []int{2, 0}, c.ClassSupports())
	assert.Equal(t, []core.Item{core.NewItem(0, 1), core.NewItem(1, 0)}, c.Path())
}

func TestRevertRestoresExactly(t *testing.T) {
	rng := testutil.NewRNG(42)
	ds := testutil.RandomDataset(rng, 300, 8, 3)
	c := New(ds)

	rootSupport := c.Support()
	rootClasses := append([]int(nil), c.ClassSupports()...)
	rootTids := c.Tids()

	// A nested walk that also hits empty covers.
	for a := 0; a < ds.NumAttributes(); a++ {
		c.Branch(core.NewItem(a, rng.Intn(2)))
		for b := 0; b < ds.NumAttributes(); b++ {
			c.Branch(core.NewItem(b, rng.Intn(2)))
			c.Revert()
		}
		c.Revert()

		assert.Equal(t, rootSupport, c.Support())
		assert.Equal(t, rootClasses, c.ClassSupports())
		assert.True(t, rootTids.Equals(c.Tids()))
	}
}

func TestBranchSplitsAreComplementary(t *testing.T) {
	rng := testutil.NewRNG(7)
	ds := testutil.RandomDataset(rng, 200, 6, 2)
	c := New(ds)

	total := c.Support()
	for a := 0; a < ds.NumAttributes(); a++ {
		left := c.Branch(core.NewItem(a, 0))
		c.Revert()
		right := c.Branch(core.NewItem(a, 1))
		c.Revert()

		assert.Equal(t, total, left+right, "attribute %d", a)
		assert.Equal(t, left, c.CountIfBranch(core.NewItem(a, 0)))
		assert.Equal(t, right, c.CountIfBranch(core.NewItem(a, 1)))
	}
}

func TestCountIfBranchDoesNotMutate(t *testing.T) {
	c := New(toyDataset(t))

	c.Branch(core.NewItem(2, 0))
	support := c.Support()
	classes := append([]int(nil), c.ClassSupports()...)

	c.CountIfBranch(core.NewItem(0, 1))

	assert.Equal(t, support, c.Support())
	assert.Equal(t, classes, c.ClassSupports())
	assert.Equal(t, 1, c.Depth())
}

func TestReset(t *testing.T) {
	c := New(toyDataset(t))

	c.Branch(core.NewItem(0, 1))
	c.Branch(core.NewItem(1, 1))
	c.Reset()

	assert.Equal(t, 0, c.Depth())
	assert.Equal(t, 6, c.Support())
}

func TestSimilarityBound(t *testing.T) {
	c := New(toyDataset(t))

	var sim Similarity
	assert.Zero(t, sim.Bound(c))

	// Solve the right branch of attribute 0 with error 1, then ask for a
	// bound on a cover that drops one of its transactions.
	c.Branch(core.NewItem(0, 1))
	sim.Update(1, c)
	assert.Equal(t, 1.0, sim.Bound(c))
	c.Revert()

	c.Branch(core.NewItem(0, 1))
	c.Branch(core.NewItem(1, 0))
	// Losing out transactions relaxes the bound by one each.
	_, out := c.Diff(c.Snapshot(0))
	assert.Zero(t, out)
	bound := sim.Bound(c)
	assert.GreaterOrEqual(t, bound, 0.0)
	assert.LessOrEqual(t, bound, 1.0)
}
