// Package ast defines the parsed shape of a TPTP CNF document.
//
// The variants are closed: Entry, Predicate and Term are sealed interfaces
// implemented only by the types in this package, so consumers can switch over
// them exhaustively.
package ast

// Pos is a 1-based source position. The zero value means unknown.
type Pos struct {
	Line   int `json:"line,omitempty"`
	Column int `json:"column,omitempty"`
}

// Position returns the position itself; embedding Pos satisfies Entry's accessor.
func (p Pos) Position() Pos { return p }

// Document is one parsed problem file.
type Document struct {
	// Name identifies the source, usually its path. Used in error messages.
	Name    string
	Entries []Entry
}

// Clauses returns the clause entries in document order.
func (d *Document) Clauses() []*ClauseEntry {
	var out []*ClauseEntry
	for _, e := range d.Entries {
		if c, ok := e.(*ClauseEntry); ok {
			out = append(out, c)
		}
	}
	return out
}

// Includes returns the include entries in document order.
func (d *Document) Includes() []*IncludeEntry {
	var out []*IncludeEntry
	for _, e := range d.Entries {
		if inc, ok := e.(*IncludeEntry); ok {
			out = append(out, inc)
		}
	}
	return out
}

// Entry is a top-level item: *ClauseEntry or *IncludeEntry.
type Entry interface {
	Position() Pos
	entry()
}

// ClauseEntry is an annotated cnf(name, role, clause) formula.
type ClauseEntry struct {
	Pos
	Name   string
	Role   string
	Clause *Clause
}

// IncludeEntry is an include('path', [names]) directive. A nil Selection
// includes every clause of the file.
type IncludeEntry struct {
	Pos
	Path      string
	Selection []string
}

func (*ClauseEntry) entry()  {}
func (*IncludeEntry) entry() {}

// Clause is a disjunction of literals. An empty clause is allowed.
type Clause struct {
	Literals []Literal
}

// Literal is a possibly negated predicate.
type Literal struct {
	Negated   bool
	Predicate Predicate
}

// Predicate is *Equality, *Application or *Atom.
type Predicate interface {
	predicate()
}

// Equality is an infix equality or disequality between two terms.
type Equality struct {
	Symbol string // "=" or "!="
	Left   Term
	Right  Term
}

// Application is a user predicate applied to zero or more terms.
type Application struct {
	Name string
	Args []Term
}

// Atom is a defined atomic formula token such as $true or $false.
type Atom struct {
	Token string
}

func (*Equality) predicate()    {}
func (*Application) predicate() {}
func (*Atom) predicate()        {}

// Term is *Variable or *Function.
type Term interface {
	term()
}

// Variable is a variable occurrence.
type Variable struct {
	Name string
}

// Function is a function (or constant, with no arguments) application.
type Function struct {
	Name string
	Args []Term
}

func (*Variable) term() {}
func (*Function) term() {}

// Var is shorthand for &Variable{Name: name}.
func Var(name string) *Variable { return &Variable{Name: name} }

// Fn is shorthand for a function term.
func Fn(name string, args ...Term) *Function { return &Function{Name: name, Args: args} }

// Pred is shorthand for an application predicate.
func Pred(name string, args ...Term) *Application { return &Application{Name: name, Args: args} }

// Eq is shorthand for an equality predicate.
func Eq(left, right Term) *Equality { return &Equality{Symbol: "=", Left: left, Right: right} }

// Neq is shorthand for a disequality predicate.
func Neq(left, right Term) *Equality { return &Equality{Symbol: "!=", Left: left, Right: right} }

// PosLit returns a positive literal.
func PosLit(p Predicate) Literal { return Literal{Predicate: p} }

// NegLit returns a negated literal.
func NegLit(p Predicate) Literal { return Literal{Negated: true, Predicate: p} }
