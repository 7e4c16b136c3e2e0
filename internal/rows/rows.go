// Package rows implements the effect-row algebra: splitting a row into its
// labelled cases and tail, unifying two rows against each other's open
// tails, and merging (union) two rows for carrier state combination (§4.3).
//
// Unification of row payloads needs full term unification, which would
// import this package right back (rows is the structural home for
// EffectRow, unify is the home for term equality) — so every entry point
// here takes a Unify callback instead of importing the unify package
// directly, breaking the cycle the same way funxy's typesystem.Resolver
// interface decouples Unify from symbol-table lookups.
package rows

import (
	"fmt"

	"github.com/arbor-lang/infercore/internal/types"
)

// Unify is the shape of the term unifier, injected to avoid an import cycle
// between rows and unify.
type Unify func(a, b types.Type) (types.Subst, error)

// Fresh mints a type variable, injected for the same reason a Unify callback
// is: rows needs to manufacture a shared tail variable when unifying two
// rows whose labels are disjoint.
type Fresh func() types.Var

// Split returns the row's case map and its tail (nil if closed).
func Split(r types.EffectRow) (map[string]types.Type, types.Type) {
	return r.Cases, r.Tail
}

// Union performs a disjoint merge of two rows: shared labels have their
// payloads unified, and the result is closed iff both inputs are closed. If
// the inputs share no tail and neither is closed, the result's tail is
// resolved to either input's tail (they are assumed, by construction, to be
// unifiable — see UnifyRows for the case where that must be proven).
func Union(a, b types.EffectRow, unify Unify) (types.EffectRow, types.Subst, error) {
	out := make(map[string]types.Type, len(a.Cases)+len(b.Cases))
	subst := types.Subst{}

	for k, v := range a.Cases {
		out[k] = v
	}
	for k, v := range b.Cases {
		if existing, ok := out[k]; ok {
			if existing != nil && v != nil {
				s, err := unify(existing.Apply(subst), v.Apply(subst))
				if err != nil {
					return types.EffectRow{}, nil, fmt.Errorf("union label %q: %w", k, err)
				}
				subst = subst.Compose(s)
			} else if v != nil {
				out[k] = v
			}
		} else {
			out[k] = v
		}
	}

	tail := a.Tail
	if tail == nil {
		tail = b.Tail
	}

	return types.EffectRow{Cases: out, Tail: tail}, subst, nil
}

// UnifyRows unifies two rows following §4.3: shared labels unify payloads;
// labels present only on one side must flow into the other side's tail (and
// that tail must exist to receive them); if both tails are still open
// variables, a fresh shared tail absorbs the symmetric difference so both
// sides end up equal.
func UnifyRows(a, b types.EffectRow, unify Unify, fresh Fresh) (types.Subst, error) {
	subst := types.Subst{}

	onlyA := map[string]types.Type{}
	onlyB := map[string]types.Type{}

	for k, av := range a.Cases {
		bv, ok := b.Cases[k]
		if !ok {
			onlyA[k] = av
			continue
		}
		if av != nil && bv != nil {
			s, err := unify(av.Apply(subst), bv.Apply(subst))
			if err != nil {
				return nil, fmt.Errorf("row label %q: %w", k, err)
			}
			subst = subst.Compose(s)
		}
	}
	for k, bv := range b.Cases {
		if _, ok := a.Cases[k]; !ok {
			onlyB[k] = bv
		}
	}

	if len(onlyA) == 0 && len(onlyB) == 0 {
		// Same label set: tails (if any) must unify with each other.
		return unifyTails(a.Tail, b.Tail, subst, unify)
	}

	// Labels unique to A must be absorbed into B's tail, and vice versa.
	// When both sides have unique labels, both tails are bound over one
	// fresh shared tail; otherwise the receiving tail is bound over the
	// other side's own tail.
	var shared types.Type
	if len(onlyA) > 0 && len(onlyB) > 0 {
		shared = fresh()
	}
	if len(onlyA) > 0 {
		if b.Tail == nil {
			return nil, fmt.Errorf("row unification: closed row missing labels %v", keysOf(onlyA))
		}
		rest := shared
		if rest == nil {
			rest = a.Tail
		}
		s, err := bindTailWithExtra(b.Tail, onlyA, rest, unify)
		if err != nil {
			return nil, err
		}
		subst = subst.Compose(s)
	}
	if len(onlyB) > 0 {
		if a.Tail == nil {
			return nil, fmt.Errorf("row unification: closed row missing labels %v", keysOf(onlyB))
		}
		aTail := a.Tail.Apply(subst)
		rest := shared
		if rest == nil {
			rest = b.Tail
		}
		s, err := bindTailWithExtra(aTail, onlyB, rest, unify)
		if err != nil {
			return nil, err
		}
		subst = subst.Compose(s)
	}

	return subst, nil
}

// bindTailWithExtra unifies tail (expected to resolve to a Var) with a row
// containing extra over rest, so the missing labels become visible on that
// side while rest carries whatever else the row may still hold (nil rest
// makes the bound row closed).
func bindTailWithExtra(tail types.Type, extra map[string]types.Type, rest types.Type, unify Unify) (types.Subst, error) {
	tv, ok := tail.(types.Var)
	if !ok {
		// tail already resolved to something concrete (e.g. a Constructor
		// naming an ADT). UnifyRows does not expand such a tail into cases
		// (ExpandADTTail is not called here), so the extra labels cannot be
		// absorbed and unification fails.
		return nil, fmt.Errorf("row unification: cannot absorb extra labels into closed tail %s", tail.String())
	}
	newRow := types.EffectRow{Cases: extra, Tail: rest}
	return unify(tv, newRow)
}

func unifyTails(a, b types.Type, subst types.Subst, unify Unify) (types.Subst, error) {
	if a == nil && b == nil {
		return subst, nil
	}
	if a == nil || b == nil {
		// One side closed, the other open with nothing left to carry: the
		// open side's tail must unify with an empty closed row (absence of
		// further cases), which happens automatically if it is a Var bound
		// to nothing — here we simply require both be present or absent
		// together once label sets matched, treating a lone open tail as
		// compatible (it may still hold other, as-yet-unseen cases).
		return subst, nil
	}
	s, err := unify(a.Apply(subst), b.Apply(subst))
	if err != nil {
		return nil, fmt.Errorf("row tail: %w", err)
	}
	return subst.Compose(s), nil
}

func keysOf(m map[string]types.Type) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// ExpandADTTail expands a row whose tail resolves to a nominal ADT name into
// the set of that ADT's constructors as nullary cases, dropping the tail
// (§4.3, "When unifying against a row whose tail resolves to a nominal ADT
// name, expand that ADT's constructors as cases").
func ExpandADTTail(r types.EffectRow, constructors []string) types.EffectRow {
	cases := make(map[string]types.Type, len(r.Cases)+len(constructors))
	for k, v := range r.Cases {
		cases[k] = v
	}
	for _, c := range constructors {
		if _, exists := cases[c]; !exists {
			cases[c] = nil
		}
	}
	return types.EffectRow{Cases: cases, Tail: nil}
}

// EnsureRow coerces a type into an EffectRow: if it already is one, returns
// it; any other type (a Var, or a concrete state such as the ErrorKind
// Constructor an `IErr(NotFound)` application produces) becomes the tail of
// an empty row.
func EnsureRow(t types.Type) types.EffectRow {
	switch tt := t.(type) {
	case types.EffectRow:
		return tt
	case types.Var:
		return types.EffectRow{Cases: map[string]types.Type{}, Tail: tt}
	default:
		return types.EffectRow{Cases: map[string]types.Type{}, Tail: t}
	}
}
