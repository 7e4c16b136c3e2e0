// Package stub implements the constraint-stub graph emitted for later,
// out-of-scope phases (§1, §3): this core only records what needs solving,
// never solves it.
package stub

import (
	"github.com/google/uuid"

	"github.com/arbor-lang/infercore/internal/ast"
	"github.com/arbor-lang/infercore/internal/types"
)

// Kind tags the shape of one stub (§3).
type Kind string

const (
	Source     Kind = "source"      // Source(node_id, effect_label)
	Flow       Kind = "flow"        // Flow(from_id, to_id)
	Rewrite    Kind = "rewrite"     // Rewrite(node_id, removes[], adds[])
	Numeric    Kind = "numeric"     // numeric-operator constraint
	Boolean    Kind = "boolean"     // boolean-operator constraint
	Annotation Kind = "annotation"  // explicit type-annotation constraint
	CallSite   Kind = "call"        // call constraint
	Field      Kind = "field"       // field-projection constraint
	BranchJoin Kind = "branch_join" // match-branch-join constraint
)

// Stub is one emitted constraint record (§3). Not every field is meaningful
// for every Kind; each Kind documents which fields it populates.
type Stub struct {
	ID          uuid.UUID
	Kind        Kind
	Node        ast.NodeID   // the node the constraint is about
	EffectLabel string       // Source: the effect constructor label
	From, To    ast.NodeID   // Flow: edge endpoints
	Removes     []string     // Rewrite: labels removed from an effect row
	Adds        []string     // Rewrite: labels added to an effect row
	FieldName   string       // Field: the projected field name
	Type        types.Type   // the type involved, where applicable
}

// Collector accumulates stubs in emission order (§5, deterministic given
// deterministic input).
type Collector struct {
	stubs []*Stub
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector { return &Collector{} }

func (c *Collector) emit(s Stub) {
	s.ID = uuid.New()
	cp := s
	c.stubs = append(c.stubs, &cp)
}

// Source records that node produced effect label (§4.5, constructor
// application carrier refinement).
func (c *Collector) Source(node ast.NodeID, label string) {
	c.emit(Stub{Kind: Source, Node: node, EffectLabel: label})
}

// Flow records a data-flow edge between two nodes.
func (c *Collector) Flow(from, to ast.NodeID) {
	c.emit(Stub{Kind: Flow, From: from, To: to})
}

// Rewrite records a match-discharge rewrite removing/adding effect labels
// on node (§4.7, "emit Rewrite stubs removing the effect label").
func (c *Collector) Rewrite(node ast.NodeID, removes, adds []string) {
	c.emit(Stub{Kind: Rewrite, Node: node, Removes: removes, Adds: adds})
}

// Numeric records a numeric-operator constraint on node's type (§4.5,
// "ordering comparisons emit a numeric-constraint stub").
func (c *Collector) Numeric(node ast.NodeID, t types.Type) {
	c.emit(Stub{Kind: Numeric, Node: node, Type: t})
}

// Boolean records a boolean-operator constraint on node's type.
func (c *Collector) Boolean(node ast.NodeID, t types.Type) {
	c.emit(Stub{Kind: Boolean, Node: node, Type: t})
}

// Annotation records an explicit type-annotation constraint.
func (c *Collector) Annotation(node ast.NodeID, t types.Type) {
	c.emit(Stub{Kind: Annotation, Node: node, Type: t})
}

// Call records a call-site constraint.
func (c *Collector) Call(node ast.NodeID, t types.Type) {
	c.emit(Stub{Kind: CallSite, Node: node, Type: t})
}

// Field records a field-projection constraint (§4.5, "Field constraint is
// emitted as a stub regardless").
func (c *Collector) Field(node ast.NodeID, name string, t types.Type) {
	c.emit(Stub{Kind: Field, Node: node, FieldName: name, Type: t})
}

// BranchJoin records a match-branch-join constraint.
func (c *Collector) BranchJoin(node ast.NodeID, t types.Type) {
	c.emit(Stub{Kind: BranchJoin, Node: node, Type: t})
}

// Stubs returns every emitted stub in emission order.
func (c *Collector) Stubs() []*Stub {
	out := make([]*Stub, len(c.stubs))
	copy(out, c.stubs)
	return out
}
