// Package core holds the primitive identifiers shared by every search
// component: items, attributes and the numeric conventions used to compare
// errors and bounds.
package core

// An Item encodes an (attribute, branch value) decision as a single integer:
// item = attribute*2 + value. The left branch (attribute absent) has value 0,
// the right branch (attribute present) has value 1. Sorted item sequences are
// the canonical cache keys, so the encoding must be strictly monotonic in
// (attribute, value).
type Item int

// NoAttribute marks a node that has no splitting attribute assigned yet.
const NoAttribute = -1

// NewItem builds the item for branching on attribute with the given value (0 or 1).
func NewItem(attribute, value int) Item {
	return Item(attribute*2 + value)
}

// Attribute returns the attribute the item branches on.
func (it Item) Attribute() int {
	return int(it) / 2
}

// Value returns the branch value of the item (0 for the left branch, 1 for the right).
func (it Item) Value() int {
	return int(it) % 2
}

// Sibling returns the item branching on the same attribute with the opposite value.
func (it Item) Sibling() Item {
	return NewItem(it.Attribute(), (it.Value()+1)%2)
}
