package types

// Subst is a finite mapping from type-variable id to type term, extended
// monotonically during inference (§3).
type Subst map[VarID]Type

// Compose combines two substitutions so that applying the result equals
// applying s1 then s2: every binding in s1 has s2 applied to its right-hand
// side, and s2's own bindings are layered underneath.
func (s1 Subst) Compose(s2 Subst) Subst {
	out := make(Subst, len(s1)+len(s2))
	for k, v := range s2 {
		out[k] = v
	}
	for k, v := range s1 {
		out[k] = v.Apply(s2)
	}
	return out
}

// Extend returns a copy of s with id bound to t.
func (s Subst) Extend(id VarID, t Type) Subst {
	out := make(Subst, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	out[id] = t
	return out
}
