package carrier

import (
	"github.com/arbor-lang/infercore/internal/rows"
	"github.com/arbor-lang/infercore/internal/types"
)

// Split peels a carrier value into its value/state pair (§4.4). If the value
// component is itself a carrier of the same domain, it recurses and unions
// the two states together — so split always returns a value that is no
// longer (transitively) a same-domain carrier.
func (r *Registry) Split(domain string, t types.Type, unify rows.Unify) (value types.Type, state types.EffectRow, err error) {
	d, ok := r.ByDomain(domain)
	if !ok {
		return t, types.EffectRow{}, nil
	}
	c, ok := t.(types.Constructor)
	if !ok || c.Name != d.TypeName || len(c.Args) != 2 {
		return t, types.EffectRow{}, nil
	}

	innerValue := c.Args[0]
	outerState := rows.EnsureRow(c.Args[1])

	if ic, ok := innerValue.(types.Constructor); !ok || ic.Name != d.TypeName || len(ic.Args) != 2 {
		// innerValue is not itself a same-domain carrier.
		return innerValue, outerState, nil
	}
	nested, nestedState, err := r.Split(domain, innerValue, unify)
	if err != nil {
		return nil, types.EffectRow{}, err
	}

	merged, subst, err := rows.Union(nestedState, outerState, unify)
	if err != nil {
		return nil, types.EffectRow{}, err
	}
	return nested.Apply(subst), merged, nil
}

// Join reconstructs C<V, ensureRow(S)> for the named domain (§4.4, "join").
func (r *Registry) Join(domain string, value types.Type, state types.Type) types.Type {
	d, ok := r.ByDomain(domain)
	if !ok {
		return value
	}
	return types.Constructor{Name: d.TypeName, Args: []types.Type{value, rows.EnsureRow(state)}}
}

// UnionStates merges two states of the same domain via row union (§4.4).
func (r *Registry) UnionStates(a, b types.EffectRow, unify rows.Unify) (types.EffectRow, types.Subst, error) {
	return rows.Union(a, b, unify)
}

// Collapse iteratively splits t, recursively collapses the resulting value,
// and rejoins — canonicalizing nested same-domain carriers into a single
// application (§4.4, "collapse"). It is idempotent: collapsing an already
// collapsed type returns it unchanged.
func (r *Registry) Collapse(domain string, t types.Type, unify rows.Unify) (types.Type, error) {
	d, ok := r.ByDomain(domain)
	if !ok {
		return t, nil
	}
	c, ok := t.(types.Constructor)
	if !ok || c.Name != d.TypeName || len(c.Args) != 2 {
		return t, nil
	}

	value, state, err := r.Split(domain, t, unify)
	if err != nil {
		return nil, err
	}
	collapsedValue, err := r.Collapse(domain, value, unify)
	if err != nil {
		return nil, err
	}
	return r.Join(domain, collapsedValue, state), nil
}
