// Package infer implements expression inference, pattern inference, and the
// match engine (§4.5, §4.7, §4.8): the largest component of the core, tying
// together unification, the carrier abstraction, row algebra, declaration
// registration, environments, marks, and constraint stubs into one inference
// pass over a canonicalized program.
package infer

import (
	"fmt"

	"github.com/arbor-lang/infercore/internal/ast"
	"github.com/arbor-lang/infercore/internal/carrier"
	"github.com/arbor-lang/infercore/internal/decl"
	"github.com/arbor-lang/infercore/internal/mark"
	"github.com/arbor-lang/infercore/internal/rows"
	"github.com/arbor-lang/infercore/internal/stub"
	"github.com/arbor-lang/infercore/internal/types"
	"github.com/arbor-lang/infercore/internal/unify"
)

// HardError signals a genuine contract breach by the caller — a malformed
// input tree rather than an ill-typed program (§7, tier 1). Inference
// functions raise it via panic and the top-level entry point recovers it
// into a returned error, since threading a second error return through
// every mutually-recursive inference function would obscure the (far more
// common) soft-error control flow that marks are built around.
type HardError struct {
	Message string
}

func (e *HardError) Error() string { return e.Message }

func panicHard(format string, args ...interface{}) {
	panic(&HardError{Message: fmt.Sprintf(format, args...)})
}

// Context owns every piece of mutable state touched during one inference
// pass: the fresh-variable counter, the current substitution, the ADT and
// carrier registries, the operator table, the mark/stub recorders, and the
// id -> type node map (§5, "single-threaded cooperative... one inference
// context object").
type Context struct {
	Fresh         *types.Fresh
	Unifier       *unify.Unifier
	AdtEnv        *decl.Env
	Carriers      *carrier.Registry
	Ops           *decl.OperatorTable
	Recorder      *mark.Recorder
	TypeExprMarks *mark.Recorder
	Stubs         *stub.Collector
	Subst         types.Subst
	NodeTypes     map[ast.NodeID]types.Type
}

// NewContext builds a Context over the given pre-populated registries.
func NewContext(fresh *types.Fresh, adtEnv *decl.Env, carriers *carrier.Registry, ops *decl.OperatorTable, recorder *mark.Recorder, stubs *stub.Collector) *Context {
	return &Context{
		Fresh:         fresh,
		Unifier:       unify.New(fresh),
		AdtEnv:        adtEnv,
		Carriers:      carriers,
		Ops:           ops,
		Recorder:      recorder,
		TypeExprMarks: mark.NewRecorder(),
		Stubs:         stubs,
		Subst:         types.Subst{},
		NodeTypes:     map[ast.NodeID]types.Type{},
	}
}

// markTypeExpr records a failure resolving a surface type annotation into a
// types.Type, kept on a recorder separate from the main mark list (§6,
// "typeExprMarks") since annotation resolution happens alongside, not
// instead of, ordinary expression inference.
func (c *Context) markTypeExpr(origin ast.NodeID, name string) {
	c.TypeExprMarks.Add(mark.Mark{Reason: mark.Inconsistent, Origin: origin, Name: name})
}

// tryUnify unifies a and b under the context's current substitution,
// extending it on success. It returns the underlying *unify.Failure
// unchanged on mismatch so callers can decide which mark to raise (§4.1,
// "Failures are returned as a descriptor... the caller decides").
func (c *Context) tryUnify(a, b types.Type) error {
	s, err := c.Unifier.Unify(a, b, c.Subst)
	if err != nil {
		return err
	}
	c.Subst = c.Subst.Compose(s)
	return nil
}

func (c *Context) unifyFn() rows.Unify {
	return func(a, b types.Type) (types.Subst, error) {
		s, err := c.Unifier.Unify(a, b, c.Subst)
		if err != nil {
			return nil, err
		}
		c.Subst = c.Subst.Compose(s)
		return s, nil
	}
}

// record stores t as the resolved type of the node identified by id (§3,
// §6 "nodeTypeById"). The substitution is applied lazily at the end of
// inference, so record stores the type as of the moment it was computed.
func (c *Context) record(id ast.NodeID, t types.Type) types.Type {
	c.NodeTypes[id] = t
	return t
}

// hole mints a fresh Unknown at origin with the given provenance, registers
// it with the recorder, and records it as origin's node type (§3, §4.9).
func (c *Context) hole(origin ast.NodeID, prov types.Provenance) types.Type {
	u := c.Recorder.Hole(origin, prov)
	return c.record(origin, u)
}

// collapseAllDomains canonicalizes t against every registered carrier
// domain (§4.4, "collapse"). Collapse is a no-op for any domain whose
// nominal type doesn't match t, so trying every domain is safe even though
// in practice a value belongs to at most one domain at a time.
func (c *Context) collapseAllDomains(t types.Type) types.Type {
	for _, d := range c.Carriers.Domains() {
		collapsed, err := c.Carriers.Collapse(d, t, c.unifyFn())
		if err == nil {
			t = collapsed
		}
	}
	return t
}

func (c *Context) isCarrierType(t types.Type) bool {
	_, _, _, ok := c.Carriers.AsCarrier(t.Apply(c.Subst))
	return ok
}

// mergeDomainState folds s into domainStates[domain] via row union,
// composing any substitution the union needed into c.Subst (§4.4,
// "accumulates its state into that domain's bucket").
func (c *Context) mergeDomainState(domainStates map[string]types.EffectRow, domain string, s types.EffectRow) {
	existing, ok := domainStates[domain]
	if !ok {
		domainStates[domain] = s
		return
	}
	merged, subst, err := rows.Union(existing, s, c.unifyFn())
	if err != nil {
		return
	}
	c.Subst = c.Subst.Compose(subst)
	domainStates[domain] = merged
}
