// Package unify implements first-order unification over type terms,
// producing a substitution or a Failure descriptor (§4.1). It never panics
// or returns a Go error for an ordinary type mismatch — callers decide
// whether a Failure becomes a mark or a synthesized fallback.
package unify

import (
	"github.com/arbor-lang/infercore/internal/rows"
	"github.com/arbor-lang/infercore/internal/types"
)

// Unifier bundles a Fresh source so row unification can mint shared tail
// variables (§4.3) without reaching back into the inference context.
type Unifier struct {
	fresh *types.Fresh
}

// New builds a Unifier over the given fresh-variable source.
func New(fresh *types.Fresh) *Unifier {
	return &Unifier{fresh: fresh}
}

// Unify attempts to make t1 and t2 equal under subst, following §4.1 steps
// 1-10. It does not mutate subst; the caller composes the result in.
func (u *Unifier) Unify(t1, t2 types.Type, subst types.Subst) (types.Subst, error) {
	t1 = t1.Apply(subst)
	t2 = t2.Apply(subst)

	// Step 2/3: variable on either side.
	if v1, ok := t1.(types.Var); ok {
		if v2, ok := t2.(types.Var); ok && v1.ID == v2.ID {
			return types.Subst{}, nil
		}
		return u.bind(v1, t2)
	}
	if v2, ok := t2.(types.Var); ok {
		return u.bind(v2, t1)
	}

	// Unknown never unifies with anything but itself (§3): same Tag, not
	// just "both happen to be holes".
	if uk1, ok := t1.(types.Unknown); ok {
		if uk2, ok := t2.(types.Unknown); ok && uk1.Tag == uk2.Tag {
			return types.Subst{}, nil
		}
		return nil, mismatch(t1, t2, "hole does not unify")
	}
	if _, ok := t2.(types.Unknown); ok {
		return nil, mismatch(t1, t2, "hole does not unify")
	}

	switch left := t1.(type) {
	case types.Unit:
		if _, ok := t2.(types.Unit); ok {
			return types.Subst{}, nil
		}
		return nil, mismatch(t1, t2, "primitive mismatch")
	case types.Bool:
		if _, ok := t2.(types.Bool); ok {
			return types.Subst{}, nil
		}
		return nil, mismatch(t1, t2, "primitive mismatch")
	case types.Int:
		if _, ok := t2.(types.Int); ok {
			return types.Subst{}, nil
		}
		return nil, mismatch(t1, t2, "primitive mismatch")
	case types.String:
		if _, ok := t2.(types.String); ok {
			return types.Subst{}, nil
		}
		return nil, mismatch(t1, t2, "primitive mismatch")

	case types.Func:
		right, ok := t2.(types.Func)
		if !ok {
			return nil, mismatch(t1, t2, "expected function type")
		}
		s1, err := u.Unify(left.From, right.From, subst)
		if err != nil {
			return nil, err
		}
		s2, err := u.Unify(left.To, right.To, subst.Compose(s1))
		if err != nil {
			return nil, err
		}
		return s1.Compose(s2), nil

	case types.Tuple:
		right, ok := t2.(types.Tuple)
		if !ok {
			return nil, mismatch(t1, t2, "expected tuple type")
		}
		if len(left.Elements) != len(right.Elements) {
			return nil, &Failure{Kind: ArityMismatch, Left: t1, Right: t2, Message: "tuple length mismatch"}
		}
		acc := types.Subst{}
		for i := range left.Elements {
			s, err := u.Unify(left.Elements[i], right.Elements[i], subst.Compose(acc))
			if err != nil {
				return nil, err
			}
			acc = acc.Compose(s)
		}
		return acc, nil

	case types.Constructor:
		right, ok := t2.(types.Constructor)
		if !ok {
			return nil, mismatch(t1, t2, "expected constructor type")
		}
		if left.Name != right.Name {
			return nil, mismatch(t1, t2, "constructor name mismatch")
		}
		if len(left.Args) != len(right.Args) {
			return nil, &Failure{Kind: ArityMismatch, Left: t1, Right: t2, Message: "constructor arity mismatch"}
		}
		acc := types.Subst{}
		for i := range left.Args {
			s, err := u.Unify(left.Args[i], right.Args[i], subst.Compose(acc))
			if err != nil {
				return nil, err
			}
			acc = acc.Compose(s)
		}
		return acc, nil

	case types.Record:
		right, ok := t2.(types.Record)
		if !ok {
			return nil, mismatch(t1, t2, "expected record type")
		}
		if len(left.Fields) != len(right.Fields) {
			return nil, &Failure{Kind: FieldMismatch, Left: t1, Right: t2, Message: "field set size mismatch"}
		}
		acc := types.Subst{}
		for _, f := range left.Fields {
			rv, ok := right.Lookup(f.Name)
			if !ok {
				return nil, &Failure{Kind: FieldMismatch, Left: t1, Right: t2, Message: "missing field " + f.Name}
			}
			s, err := u.Unify(f.Type, rv, subst.Compose(acc))
			if err != nil {
				return nil, err
			}
			acc = acc.Compose(s)
		}
		return acc, nil

	case types.EffectRow:
		right, ok := t2.(types.EffectRow)
		if !ok {
			return nil, mismatch(t1, t2, "expected effect row")
		}
		return u.unifyRows(left, right, subst)

	default:
		return nil, mismatch(t1, t2, "unknown type kind")
	}
}

func (u *Unifier) unifyRows(a, b types.EffectRow, subst types.Subst) (types.Subst, error) {
	unifyFn := func(x, y types.Type) (types.Subst, error) {
		return u.Unify(x, y, subst)
	}
	freshFn := func() types.Var { return u.fresh.Var() }
	s, err := rows.UnifyRows(a, b, unifyFn, freshFn)
	if err != nil {
		return nil, mismatch(a, b, err.Error())
	}
	return s, nil
}

// bind binds a variable, performing the occurs check (§4.1 step 3). The
// occurs check walks FreeVars, which already recurses through Constructor
// args and EffectRow cases/tail, so carrier nesting and row tails are seen
// for free — no special-casing needed.
func (u *Unifier) bind(v types.Var, t types.Type) (types.Subst, error) {
	if tv, ok := t.(types.Var); ok && tv.ID == v.ID {
		return types.Subst{}, nil
	}
	for _, fv := range t.FreeVars() {
		if fv == v.ID {
			return nil, occursFailure(v, t)
		}
	}
	return types.Subst{v.ID: t}, nil
}
