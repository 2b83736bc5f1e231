package runtime

import (
	"github.com/aretw0/cnftree/pkg/domain"
)

// nameSet is an insertion-ordered set of names. The zero value is empty.
// Values are never mutated once built: union returns a new set.
type nameSet struct {
	order []string
	index map[string]struct{}
}

func newNameSet(names ...string) nameSet {
	var s nameSet
	for _, n := range names {
		s = s.with(n)
	}
	return s
}

func (s nameSet) Len() int { return len(s.order) }

func (s nameSet) Contains(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Names returns a copy of the names in first-occurrence order.
func (s nameSet) Names() []string {
	return append([]string(nil), s.order...)
}

// with returns s plus name. s itself is left untouched.
func (s nameSet) with(name string) nameSet {
	if s.Contains(name) {
		return s
	}
	return s.union(nameSet{order: []string{name}, index: map[string]struct{}{name: {}}})
}

// union returns the names of s followed by the names of other not already in s.
func (s nameSet) union(other nameSet) nameSet {
	if other.Len() == 0 {
		return s
	}
	if s.Len() == 0 {
		return other
	}
	out := nameSet{
		order: make([]string, 0, s.Len()+other.Len()),
		index: make(map[string]struct{}, s.Len()+other.Len()),
	}
	for _, src := range [2][]string{s.order, other.order} {
		for _, n := range src {
			if _, ok := out.index[n]; ok {
				continue
			}
			out.index[n] = struct{}{}
			out.order = append(out.order, n)
		}
	}
	return out
}

// leaves turns every name into a leaf node.
func (s nameSet) leaves() []*domain.Node {
	nodes := make([]*domain.Node, 0, s.Len())
	for _, n := range s.order {
		nodes = append(nodes, domain.Leaf(n))
	}
	return nodes
}

// accumulator pairs a built subtree with the variable and symbol names
// occurring in it. Every operation returns a fresh accumulator.
type accumulator struct {
	node      *domain.Node
	variables nameSet
	symbols   nameSet
}

// compose builds a node labelled label over the children's nodes, in order,
// and unions their name sets.
func compose(label string, children ...accumulator) accumulator {
	acc := accumulator{node: &domain.Node{Label: label}}
	if len(children) > 0 {
		acc.node.Children = make([]*domain.Node, 0, len(children))
	}
	for _, c := range children {
		acc.node.Children = append(acc.node.Children, c.node)
		acc.variables = acc.variables.union(c.variables)
		acc.symbols = acc.symbols.union(c.symbols)
	}
	return acc
}

// symbol is compose plus recording label as a user symbol. The symbol is
// recorded before its arguments' symbols so the set follows preorder.
func symbol(label string, args ...accumulator) accumulator {
	acc := compose(label, args...)
	acc.symbols = newNameSet(label).union(acc.symbols)
	return acc
}

// variable is a leaf recording name as a variable.
func variable(name string) accumulator {
	return accumulator{node: domain.Leaf(name), variables: newNameSet(name)}
}

// atom is a leaf that records nothing.
func atom(token string) accumulator {
	return accumulator{node: domain.Leaf(token)}
}

// quantify wraps body in a marker node listing names, then the body.
func quantify(marker string, names nameSet, body *domain.Node) *domain.Node {
	children := append(names.leaves(), body)
	return &domain.Node{Label: marker, Children: children}
}
