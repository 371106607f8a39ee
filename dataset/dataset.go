// Package dataset loads binarized classification data and builds the
// immutable bit-vector index the search operates on: one bit vector per
// attribute and one per class label, one bit per transaction.
package dataset

import (
	"fmt"

	"github.com/hupe1980/odtree/bitset"
)

// Dataset is the immutable index built once from an input matrix. It is
// read-only for the lifetime of a search session.
type Dataset struct {
	name          string
	attributes    []*bitset.Set
	classes       []*bitset.Set
	labels        []int
	size          int
	numAttributes int
	numClasses    int
}

// FromMatrix builds a dataset index from a binary feature matrix and a label
// vector. Feature values must be 0 or 1 and labels must be non-negative.
func FromMatrix(features [][]int, labels []int) (*Dataset, error) {
	if len(features) == 0 {
		return nil, ErrEmptyDataset
	}
	if len(features) != len(labels) {
		return nil, &ErrDimensionMismatch{Rows: len(features), Labels: len(labels)}
	}

	numAttributes := len(features[0])
	numClasses := 0
	for row, label := range labels {
		if label < 0 {
			return nil, &ErrMalformedRow{Row: row, Reason: fmt.Sprintf("negative class label %d", label)}
		}
		if label+1 > numClasses {
			numClasses = label + 1
		}
	}

	d := &Dataset{
		name:          "matrix",
		labels:        append([]int(nil), labels...),
		size:          len(features),
		numAttributes: numAttributes,
		numClasses:    numClasses,
	}

	d.attributes = make([]*bitset.Set, numAttributes)
	for a := range d.attributes {
		d.attributes[a] = bitset.New(d.size)
	}
	d.classes = make([]*bitset.Set, numClasses)
	for c := range d.classes {
		d.classes[c] = bitset.New(d.size)
	}

	for tid, row := range features {
		if len(row) != numAttributes {
			return nil, &ErrMalformedRow{
				Row:    tid,
				Reason: fmt.Sprintf("expected %d feature values, got %d", numAttributes, len(row)),
			}
		}
		for a, v := range row {
			switch v {
			case 0:
			case 1:
				d.attributes[a].Set(tid)
			default:
				return nil, &ErrMalformedRow{Row: tid, Reason: fmt.Sprintf("non-binary feature value %d", v)}
			}
		}
		d.classes[labels[tid]].Set(tid)
	}

	return d, nil
}

// Name returns the origin of the dataset (file name or "matrix").
func (d *Dataset) Name() string { return d.name }

// Size returns the number of transactions.
func (d *Dataset) Size() int { return d.size }

// NumAttributes returns the number of binary attributes.
func (d *Dataset) NumAttributes() int { return d.numAttributes }

// NumClasses returns the number of class labels.
func (d *Dataset) NumClasses() int { return d.numClasses }

// Attribute returns the indicator bit vector of attribute a.
func (d *Dataset) Attribute(a int) *bitset.Set { return d.attributes[a] }

// Class returns the indicator bit vector of class label c.
func (d *Dataset) Class(c int) *bitset.Set { return d.classes[c] }

// Label returns the class label of transaction tid.
func (d *Dataset) Label(tid int) int { return d.labels[tid] }

// Value returns the binary value of attribute a for transaction tid.
func (d *Dataset) Value(tid, a int) int {
	if d.attributes[a].Test(tid) {
		return 1
	}
	return 0
}

// Select builds a new dataset from a subset of transaction ids. Used for
// train/test splitting; rows keep their order.
func (d *Dataset) Select(tids []int) (*Dataset, error) {
	features := make([][]int, len(tids))
	labels := make([]int, len(tids))
	for i, tid := range tids {
		row := make([]int, d.numAttributes)
		for a := range row {
			row[a] = d.Value(tid, a)
		}
		features[i] = row
		labels[i] = d.labels[tid]
	}
	sub, err := FromMatrix(features, labels)
	if err != nil {
		return nil, err
	}
	// A subset can lose the highest class labels entirely; keep the parent
	// label space so class indices stay comparable.
	sub.growClasses(d.numClasses)
	sub.name = d.name
	return sub, nil
}

func (d *Dataset) growClasses(numClasses int) {
	for len(d.classes) < numClasses {
		d.classes = append(d.classes, bitset.New(d.size))
	}
	d.numClasses = numClasses
}
