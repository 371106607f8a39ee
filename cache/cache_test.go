package cache

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/odtree/core"
)

func backends(t *testing.T, fn func(t *testing.T, c Caching)) {
	t.Helper()
	t.Run("Trie", func(t *testing.T) { fn(t, NewTrie()) })
	t.Run("TrieWithCapacity", func(t *testing.T) { fn(t, NewTrieWithCapacity(16)) })
	t.Run("Hashmap", func(t *testing.T) { fn(t, NewHashmap()) })
	t.Run("HashmapWithCapacity", func(t *testing.T) { fn(t, NewHashmapWithCapacity(16)) })
}

func TestRoot(t *testing.T) {
	backends(t, func(t *testing.T, c Caching) {
		require.NotNil(t, c.Root())
		assert.Equal(t, 1, c.Len())
		assert.False(t, c.Root().IsResolved())

		// The root is the entry of the empty itemset.
		e, created := c.GetOrCreate(nil)
		assert.False(t, created)
		assert.Same(t, c.Root(), e)
	})
}

func TestGetOrCreate(t *testing.T) {
	backends(t, func(t *testing.T, c Caching) {
		items := []core.Item{core.NewItem(0, 1), core.NewItem(2, 0)}

		e1, created := c.GetOrCreate(items)
		require.True(t, created)
		assert.Equal(t, core.NoAttribute, e1.Test)
		assert.Equal(t, core.MaxError, e1.Error)

		e1.Test = 5
		e2, created := c.GetOrCreate(items)
		assert.False(t, created)
		assert.Same(t, e1, e2)
		assert.Equal(t, 5, e2.Test)

		// At least the target entry exists besides the root; the trie also
		// materializes the path prefix.
		assert.GreaterOrEqual(t, c.Len(), 2)
	})
}

func TestFind(t *testing.T) {
	backends(t, func(t *testing.T, c Caching) {
		items := []core.Item{core.NewItem(1, 0)}

		assert.Nil(t, c.Find(items))

		e, _ := c.GetOrCreate(items)
		assert.Same(t, e, c.Find(items))
		assert.Nil(t, c.Find([]core.Item{core.NewItem(1, 1)}))
	})
}

func TestPrefixesAreDistinctEntries(t *testing.T) {
	backends(t, func(t *testing.T, c Caching) {
		long := []core.Item{core.NewItem(0, 0), core.NewItem(1, 1), core.NewItem(3, 0)}

		deep, _ := c.GetOrCreate(long)
		deep.Error = 3

		short := c.Find(long[:2])
		if short != nil {
			// The trie materializes prefixes; they must not alias the deep
			// entry's state.
			assert.Equal(t, core.MaxError, short.Error)
		}
	})
}

func TestReset(t *testing.T) {
	backends(t, func(t *testing.T, c Caching) {
		c.GetOrCreate([]core.Item{core.NewItem(0, 1)})
		c.Root().Test = 9

		c.Reset()

		assert.Equal(t, 1, c.Len())
		assert.Equal(t, core.NoAttribute, c.Root().Test)
		assert.Nil(t, c.Find([]core.Item{core.NewItem(0, 1)}))
	})
}

func TestLookupSurvivesEntryMutation(t *testing.T) {
	// The search rewrites entry fields in place while frames along the same
	// path are still open. Keys must stay stable regardless, including
	// when the entry is clobbered wholesale.
	backends(t, func(t *testing.T, c Caching) {
		keys := [][]core.Item{
			{core.NewItem(0, 0)},
			{core.NewItem(0, 0), core.NewItem(4, 1)},
			{core.NewItem(0, 0), core.NewItem(4, 1), core.NewItem(7, 1)},
			{core.NewItem(2, 1), core.NewItem(4, 0)},
		}

		entries := make([]*Entry, len(keys))
		for i, items := range keys {
			e, _ := c.GetOrCreate(items)
			entries[i] = e
			*e = Entry{Test: i, Error: float64(i)}
		}

		size := c.Len()
		for i, items := range keys {
			assert.Same(t, entries[i], c.Find(items), "key %v", items)

			e, created := c.GetOrCreate(items)
			assert.False(t, created, "key %v duplicated", items)
			assert.Same(t, entries[i], e)
		}
		assert.Equal(t, size, c.Len())
	})
}

func TestBackendEquivalence(t *testing.T) {
	// Both backends must key by the exact sorted item sequence.
	trie, hashmap := NewTrie(), NewHashmap()

	var itemsets [][]core.Item
	for a := 0; a < 4; a++ {
		for v := 0; v < 2; v++ {
			itemsets = append(itemsets, []core.Item{core.NewItem(a, v)})
			for b := a + 1; b < 4; b++ {
				itemsets = append(itemsets, []core.Item{core.NewItem(a, v), core.NewItem(b, 1)})
			}
		}
	}

	for i, items := range itemsets {
		te, _ := trie.GetOrCreate(items)
		he, _ := hashmap.GetOrCreate(items)
		te.Error = float64(i)
		he.Error = float64(i)
	}

	for i, items := range itemsets {
		te, he := trie.Find(items), hashmap.Find(items)
		require.NotNil(t, te, "itemset %d", i)
		require.NotNil(t, he, "itemset %d", i)
		assert.Equal(t, te.Error, he.Error)
	}
}

func TestItemset(t *testing.T) {
	s := NewItemset(4)

	s.Insert(core.NewItem(2, 1))
	s.Insert(core.NewItem(0, 0))
	s.Insert(core.NewItem(1, 1))

	assert.Equal(t, []core.Item{core.NewItem(0, 0), core.NewItem(1, 1), core.NewItem(2, 1)}, s.Items())
	assert.Equal(t, 3, s.Len())

	// Duplicate insert is a no-op.
	s.Insert(core.NewItem(1, 1))
	assert.Equal(t, 3, s.Len())

	s.Remove(core.NewItem(1, 1))
	assert.Equal(t, []core.Item{core.NewItem(0, 0), core.NewItem(2, 1)}, s.Items())

	// Removing an absent item is a no-op.
	s.Remove(core.NewItem(3, 0))
	assert.Equal(t, 2, s.Len())
}

func TestEntry(t *testing.T) {
	e := NewEntry()

	assert.False(t, e.HasLeafInfo())
	assert.False(t, e.IsResolved())

	e.LeafError = 2
	e.Target = 1
	assert.True(t, e.HasLeafInfo())

	e.ToLeaf()
	assert.True(t, e.Leaf)
	assert.Equal(t, 2.0, e.Error)
}

func TestHashmapKeyPacking(t *testing.T) {
	// Distinct itemsets must never collide, including prefix pairs.
	sets := [][]core.Item{
		{},
		{core.NewItem(0, 0)},
		{core.NewItem(0, 1)},
		{core.NewItem(0, 0), core.NewItem(1, 0)},
		{core.NewItem(64, 1)},
		{core.NewItem(0, 0), core.NewItem(64, 1)},
	}

	seen := map[string][]core.Item{}
	for _, items := range sets {
		key := keyOf(items)
		prev, dup := seen[key]
		require.False(t, dup, "collision between %v and %v", prev, items)
		seen[key] = items
	}
	assert.Len(t, seen, len(sets))
}

func ExampleItemset() {
	s := NewItemset(2)
	s.Insert(core.NewItem(3, 1))
	s.Insert(core.NewItem(1, 0))
	fmt.Println(s.Items())
	// Output: [2 7]
}
