package ast

// Expr is any expression form (§4.5).
type Expr interface {
	Node
	exprNode()
}

// Identifier references a bound name.
type Identifier struct {
	base
	Name string
}

func (*Identifier) exprNode() {}

// LiteralKind distinguishes the primitive type a Literal carries.
type LiteralKind int

const (
	LitUnit LiteralKind = iota
	LitBool
	LitInt
	LitString
)

// Literal is a primitive constant.
type Literal struct {
	base
	Kind LiteralKind
	// Value holds the literal's Go-side value for pattern/constant-folding
	// purposes (bool for LitBool, int64 for LitInt, string for LitString);
	// unused for LitUnit.
	Value interface{}
}

func (*Literal) exprNode() {}

// Hole is an explicit placeholder expression ("_" or similar) that always
// produces a fresh Unknown (§4.5).
type Hole struct {
	base
}

func (*Hole) exprNode() {}

// ConstructorApp applies a nominal constructor to zero or more arguments.
type ConstructorApp struct {
	base
	Name string
	Args []Expr
}

func (*ConstructorApp) exprNode() {}

// TupleExpr is a tuple literal.
type TupleExpr struct {
	base
	Elements []Expr
}

func (*TupleExpr) exprNode() {}

// RecordField is one field of a record literal.
type RecordField struct {
	Name  string
	Value Expr
}

// RecordLiteral is a record literal (§4.6).
type RecordLiteral struct {
	base
	Fields []RecordField
}

func (*RecordLiteral) exprNode() {}

// FieldAccess is a projection `e.f` (§4.5).
type FieldAccess struct {
	base
	Target Expr
	Field  string
}

func (*FieldAccess) exprNode() {}

// Call applies a callee to zero or more arguments (§4.4, §4.5).
type Call struct {
	base
	Callee Expr
	Args   []Expr
}

func (*Call) exprNode() {}

// Param is one parameter of an Arrow function.
type Param struct {
	Name       string
	Annotation Type // optional
}

// Arrow is a lambda/arrow function (§4.5).
type Arrow struct {
	base
	Params         []Param
	ReturnAnnotation Type // optional
	Body           Expr
}

func (*Arrow) exprNode() {}

// BlockStmt is one statement inside a Block: either a let-binding, a
// pattern-let, or a bare expression evaluated for effect.
type BlockStmt struct {
	Let        *LetDecl
	PatternLet *PatternLetDecl
	ExprOnly   Expr
}

// Block is a sequence of statements with an optional trailing result
// expression (§4.5).
type Block struct {
	base
	Stmts  []BlockStmt
	Result Expr // nil if the block has type Unit
}

func (*Block) exprNode() {}

// BinOp desugars to a call on a reserved operator name at inference time
// (§4.5); it is kept as its own node so the inferencer can special-case
// numeric/boolean constraint emission without the caller having to
// pre-desugar comparisons and logical connectives.
type BinOp struct {
	base
	Op    string
	Left  Expr
	Right Expr
}

func (*BinOp) exprNode() {}

// UnaryOp is a prefix operator application.
type UnaryOp struct {
	base
	Op      string
	Operand Expr
}

func (*UnaryOp) exprNode() {}

// Arm is one arm of a Match: either Pattern+Body, or a reference to a named
// bundle (§4.7, "Bundle reference arm").
type Arm struct {
	Pattern    Pattern // nil if BundleRef is set
	Body       Expr    // nil if BundleRef is set
	BundleRef  string  // non-empty names a match-bundle to defer to
}

// Match covers match, match-fn, and match-bundle-literal forms (§4.5,
// §4.7): Scrutinee is set for a plain match; Params is set for match-fn
// (the match itself becomes a function over those parameters).
type Match struct {
	base
	Scrutinee Expr   // nil for match-fn
	Params    []Param // non-empty for match-fn
	Arms      []Arm
}

func (*Match) exprNode() {}
