package decl

// OperatorTable maps a surface operator symbol to the implementation name
// it desugars to (§4.5, §6 "infix/prefix operator declarations pointing at
// an implementation name").
type OperatorTable struct {
	infix  map[string]string
	prefix map[string]string
}

// NewOperatorTable creates an empty table.
func NewOperatorTable() *OperatorTable {
	return &OperatorTable{infix: map[string]string{}, prefix: map[string]string{}}
}

// Define binds symbol to implName, either as an infix or prefix operator.
func (t *OperatorTable) Define(symbol string, prefix bool, implName string) {
	if prefix {
		t.prefix[symbol] = implName
	} else {
		t.infix[symbol] = implName
	}
}

// Infix resolves a binary operator symbol to its implementation name,
// falling back to the conventional "__op_<symbol>" reserved name if no
// explicit declaration registered one (§4.5).
func (t *OperatorTable) Infix(symbol string) string {
	if impl, ok := t.infix[symbol]; ok {
		return impl
	}
	return "__op_" + symbol
}

// Prefix resolves a unary operator symbol the same way.
func (t *OperatorTable) Prefix(symbol string) string {
	if impl, ok := t.prefix[symbol]; ok {
		return impl
	}
	return "__prefix_" + symbol
}

// comparisonOps are desugared with a numeric-constraint stub and a Bool
// result rather than a plain call (§4.5, "Ordering comparisons emit a
// numeric-constraint stub and produce Bool").
var comparisonOps = map[string]bool{
	"<": true, "<=": true, ">": true, ">=": true,
}

// IsComparison reports whether symbol is one of the built-in ordering
// comparisons.
func IsComparison(symbol string) bool { return comparisonOps[symbol] }

// logicalOps are desugared with a boolean-constraint stub (§4.5, "logical
// ops emit a boolean-constraint stub").
var logicalOps = map[string]bool{
	"&&": true, "||": true,
}

// IsLogical reports whether symbol is one of the built-in logical connectives.
func IsLogical(symbol string) bool { return logicalOps[symbol] }
