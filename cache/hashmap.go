package cache

import (
	"encoding/binary"

	"github.com/hupe1980/odtree/core"
)

// Hashmap stores entries in a flat map keyed by the packed sorted item
// sequence. No prefix sharing, but constant-time lookups regardless of
// itemset length.
type Hashmap struct {
	entries  map[string]*Entry
	capacity int
}

var _ Caching = (*Hashmap)(nil)

// NewHashmap creates an empty hashmap cache.
func NewHashmap() *Hashmap {
	h := &Hashmap{}
	h.Reset()
	return h
}

// NewHashmapWithCapacity creates a hashmap cache sized for the expected
// number of entries.
func NewHashmapWithCapacity(capacity int) *Hashmap {
	h := &Hashmap{capacity: capacity}
	h.Reset()
	return h
}

// keyOf packs a sorted itemset into a map key. Uvarint packing keeps keys
// short for the low item values that dominate.
func keyOf(items []core.Item) string {
	buf := make([]byte, 0, len(items)*2)
	for _, it := range items {
		buf = binary.AppendUvarint(buf, uint64(it))
	}
	return string(buf)
}

// Root implements Caching.
func (h *Hashmap) Root() *Entry {
	return h.entries[""]
}

// GetOrCreate implements Caching.
func (h *Hashmap) GetOrCreate(items []core.Item) (*Entry, bool) {
	key := keyOf(items)
	if e, ok := h.entries[key]; ok {
		return e, false
	}

	e := new(Entry)
	*e = NewEntry()
	h.entries[key] = e
	return e, true
}

// Find implements Caching.
func (h *Hashmap) Find(items []core.Item) *Entry {
	return h.entries[keyOf(items)]
}

// Len implements Caching.
func (h *Hashmap) Len() int { return len(h.entries) }

// Reset implements Caching.
func (h *Hashmap) Reset() {
	h.entries = make(map[string]*Entry, max(h.capacity, 1))
	root := NewEntry()
	h.entries[""] = &root
}
