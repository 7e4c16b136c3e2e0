// Package ast defines the input tree the inference core consumes. Parsing
// source text into this tree, and desugaring passes over it, are external
// collaborators (§1) — this package only fixes the contract.
package ast

// NodeID is an opaque, caller-assigned identity for a tree node. Minting ids
// is the parser's job; the core only requires that every id it is given is
// unique within one program and that it can be used as a map key (§6, "Node
// ids must round-trip").
type NodeID string

// Node is the minimal contract every tree node satisfies.
type Node interface {
	ID() NodeID
}

// base is embedded by every concrete node to carry its id.
type base struct {
	Node NodeID
}

func (b base) ID() NodeID { return b.Node }

// Program is the root of one canonicalized, already-desugared input tree
// (§6, "a canonicalized program").
type Program struct {
	base
	Declarations []Decl
}

// Decl is a top-level declaration form (§6): let, type, infectious, infix/prefix.
type Decl interface {
	Node
	declNode()
}

// LetDecl binds a name (or mutually recursive group of names) to a value
// expression, with optional parameter/return annotations folded into Value
// already as an Arrow expression by the desugaring pass.
type LetDecl struct {
	base
	Name        string
	Value       Expr
	Annotation  Type // optional; nil if absent
	Recursive   bool
	MutualGroup []string // names of sibling bindings inferred together (§4.2); empty if not mutual
}

func (*LetDecl) declNode() {}

// PatternLetDecl destructures a pattern against a value at top level.
type PatternLetDecl struct {
	base
	Pattern Pattern
	Value   Expr
}

func (*PatternLetDecl) declNode() {}

// ConstructorSpec names one constructor of a TypeDecl, with the arity
// implied by len(Fields) (for a record-shaped constructor) or len(ArgTypes)
// (for a plain ADT constructor). ValueOrEffect distinguishes carrier roles
// when this TypeDecl IsCarrier (§6, "per-constructor value/effect
// annotations").
type ConstructorSpec struct {
	Name        string
	ArgTypes    []Type
	Fields      []RecordFieldSpec // non-nil for a record-shaped constructor
	CarrierRole CarrierRole
}

// CarrierRole tags a carrier type's constructor as its value or effect arm.
type CarrierRole int

const (
	CarrierRoleNone CarrierRole = iota
	CarrierRoleValue
	CarrierRoleEffect
)

// RecordFieldSpec is one field of a nominal record type.
type RecordFieldSpec struct {
	Name string
	Type Type
}

// TypeDecl declares a nominal ADT or record (§6).
type TypeDecl struct {
	base
	Name         string
	TypeParams   []string
	Constructors []ConstructorSpec
	IsAlias      bool // a structural alias rather than a real ADT
	AliasOf      Type // non-nil iff IsAlias
	IsCarrier    bool // declared with the combined infectious-carrier syntax
	CarrierDomain string
}

func (*TypeDecl) declNode() {}

// InfectiousDecl is the legacy standalone syntax binding a domain label to
// an already-declared type (§6, "standalone infectious (legacy syntax)").
type InfectiousDecl struct {
	base
	Domain   string
	TypeName string
}

func (*InfectiousDecl) declNode() {}

// OperatorDecl binds an infix or prefix operator token to an implementation
// name (§6).
type OperatorDecl struct {
	base
	Symbol   string
	Prefix   bool // false = infix
	ImplName string
}

func (*OperatorDecl) declNode() {}

// Type is a (possibly still-unresolved) type annotation written in source,
// distinct from the inferred types.Type the engine produces — annotations
// are built into types.Type by decl.BuildType before use.
type Type interface {
	Node
	typeNode()
}

type TypeName struct {
	base
	Name string
	Args []Type
}

func (*TypeName) typeNode() {}

type TypeFunc struct {
	base
	From Type
	To   Type
}

func (*TypeFunc) typeNode() {}

type TypeTuple struct {
	base
	Elements []Type
}

func (*TypeTuple) typeNode() {}

type TypeRecord struct {
	base
	Fields []RecordFieldSpec
}

func (*TypeRecord) typeNode() {}
