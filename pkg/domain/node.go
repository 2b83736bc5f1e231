package domain

import (
	"fmt"
	"strings"
)

// Reserved labels. They never name a user symbol.
const (
	// And labels the document-level conjunction of clauses.
	And = "&"
	// Or labels the disjunction of literals in a clause.
	Or = "|"
	// Not wraps a single negated literal.
	Not = "~"
	// ForAll marks the variables bound by a clause.
	ForAll = "!"
	// Exists marks the function and predicate symbols used by a document.
	Exists = "?"
)

// IsReserved reports whether label is one of the operator or marker tokens.
func IsReserved(label string) bool {
	switch label {
	case And, Or, Not, ForAll, Exists:
		return true
	}
	return false
}

// Node is a labeled tree, the canonical output of a transformation.
// Child order is significant for operators (e.g. the two sides of an equality)
// and carries no meaning inside marker nodes beyond being stable.
type Node struct {
	Label    string  `json:"label" yaml:"label"`
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// Leaf creates a node without children.
func Leaf(label string) *Node {
	return &Node{Label: label}
}

// NewNode creates a node with the given children.
func NewNode(label string, children ...*Node) *Node {
	n := &Node{Label: label}
	if len(children) > 0 {
		n.Children = append([]*Node(nil), children...)
	}
	return n
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Body returns the trailing child of a marker node, or nil.
func (n *Node) Body() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)-1]
}

// Bound returns the labels of the name leaves of a marker node,
// i.e. every child except the trailing body.
func (n *Node) Bound() []string {
	if len(n.Children) == 0 {
		return nil
	}
	names := make([]string, 0, len(n.Children)-1)
	for _, c := range n.Children[:len(n.Children)-1] {
		names = append(names, c.Label)
	}
	return names
}

// Clone returns a deep copy of the tree.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{Label: n.Label}
	if len(n.Children) > 0 {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return c
}

// Equal reports whether two trees have the same labels in the same shape.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.Label != other.Label || len(n.Children) != len(other.Children) {
		return false
	}
	for i := range n.Children {
		if !n.Children[i].Equal(other.Children[i]) {
			return false
		}
	}
	return true
}

// Walk visits the tree depth-first, parents before children.
// Returning false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Size returns the number of nodes in the tree.
func (n *Node) Size() int {
	size := 0
	n.Walk(func(*Node) bool {
		size++
		return true
	})
	return size
}

// Validate checks the arity rules of the reserved labels over the whole tree.
func (n *Node) Validate() error {
	return n.validate("")
}

func (n *Node) validate(path string) error {
	if n == nil {
		return fmt.Errorf("%s: nil node", pathOrRoot(path))
	}
	here := path + "/" + n.Label
	switch n.Label {
	case Not:
		if len(n.Children) != 1 {
			return fmt.Errorf("%s: negation must have exactly one child, got %d", here, len(n.Children))
		}
	case ForAll, Exists:
		if len(n.Children) == 0 {
			return fmt.Errorf("%s: marker node is missing its body", here)
		}
		for _, c := range n.Children[:len(n.Children)-1] {
			if !c.IsLeaf() {
				return fmt.Errorf("%s: marker name %q must be a leaf", here, c.Label)
			}
		}
	}
	for _, c := range n.Children {
		if err := c.validate(here); err != nil {
			return err
		}
	}
	return nil
}

func pathOrRoot(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

// String renders the tree as an S-expression, mainly for test failures and logs.
func (n *Node) String() string {
	var sb strings.Builder
	n.writeTo(&sb)
	return sb.String()
}

func (n *Node) writeTo(sb *strings.Builder) {
	if n == nil {
		sb.WriteString("<nil>")
		return
	}
	if n.IsLeaf() {
		sb.WriteString(n.Label)
		return
	}
	sb.WriteByte('(')
	sb.WriteString(n.Label)
	for _, c := range n.Children {
		sb.WriteByte(' ')
		c.writeTo(sb)
	}
	sb.WriteByte(')')
}

// Leaves returns the leaf nodes of the tree in depth-first order.
func (n *Node) Leaves() []*Node {
	var leaves []*Node
	n.Walk(func(c *Node) bool {
		if c.IsLeaf() {
			leaves = append(leaves, c)
		}
		return true
	})
	return leaves
}
