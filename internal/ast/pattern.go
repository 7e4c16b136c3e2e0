package ast

// Pattern is any pattern form (§4.8).
type Pattern interface {
	Node
	patternNode()
}

// WildcardPattern matches anything, binding nothing.
type WildcardPattern struct {
	base
}

func (*WildcardPattern) patternNode() {}

// VariablePattern binds Name to the scrutinee, unless Pin is set, in which
// case it matches by equality against the existing binding of Name (§4.8,
// "Pin").
type VariablePattern struct {
	base
	Name string
	Pin  bool
}

func (*VariablePattern) patternNode() {}

// LiteralPattern matches an exact literal value.
type LiteralPattern struct {
	base
	Kind  LiteralKind
	Value interface{}
}

func (*LiteralPattern) patternNode() {}

// TuplePattern destructures a tuple.
type TuplePattern struct {
	base
	Elements []Pattern
}

func (*TuplePattern) patternNode() {}

// ConstructorPattern matches a nominal constructor application.
type ConstructorPattern struct {
	base
	Name string
	Args []Pattern
}

func (*ConstructorPattern) patternNode() {}

// AllErrorsPattern is the `_err`-style wildcard that matches any effect
// constructor of the scrutinee's carrier state (§4.8).
type AllErrorsPattern struct {
	base
}

func (*AllErrorsPattern) patternNode() {}
