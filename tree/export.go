package tree

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hupe1980/odtree/core"
)

// WriteDOT renders the tree in Graphviz DOT format. Internal nodes show the
// tested attribute, leaves show the predicted class and error; left edges
// are labelled 0 and right edges 1.
func (t *Tree) WriteDOT(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "digraph tree {"); err != nil {
		return err
	}
	if !t.IsEmpty() {
		if err := t.writeDOTNode(w, 0); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}

func (t *Tree) writeDOTNode(w io.Writer, i int) error {
	n := &t.nodes[i]
	if n.Leaf || n.Test == core.NoAttribute {
		_, err := fmt.Fprintf(w, "  n%d [shape=box, label=\"class %d\\nerror %.0f\"];\n", i, n.Target, n.Error)
		return err
	}

	if _, err := fmt.Fprintf(w, "  n%d [label=\"feat %d\"];\n", i, n.Test); err != nil {
		return err
	}
	for _, child := range []struct {
		idx   int
		value int
	}{{n.Left, 0}, {n.Right, 1}} {
		if child.idx == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "  n%d -> n%d [label=\"%d\"];\n", i, child.idx, child.value); err != nil {
			return err
		}
		if err := t.writeDOTNode(w, child.idx); err != nil {
			return err
		}
	}
	return nil
}

// MarshalJSON encodes the tree as its node array.
func (t *Tree) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.nodes)
}

// UnmarshalJSON decodes a tree from its node array.
func (t *Tree) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &t.nodes)
}
