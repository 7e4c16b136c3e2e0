package tyenv

import "github.com/arbor-lang/infercore/internal/types"

// Generalize turns body into a scheme, quantifying over every variable that
// is free in body but not free in the surrounding environment and not in
// nonGen, the non-generalizable set of variables that escaped through a
// match-branch join (§4.2, §4.7 "non-generalizable set").
func Generalize(body types.Type, env *Env, subst types.Subst, nonGen map[types.VarID]bool) types.Scheme {
	applied := body.Apply(subst)
	envVars := FreeVars(env, subst)

	var quantified []types.VarID
	seen := map[types.VarID]bool{}
	for _, v := range applied.FreeVars() {
		if seen[v] {
			continue
		}
		seen[v] = true
		if envVars[v] {
			continue
		}
		if nonGen[v] {
			continue
		}
		quantified = append(quantified, v)
	}

	return types.Scheme{Vars: quantified, Body: applied}
}

// Instantiate copies a scheme's body with fresh variables for each
// quantifier (§4.2). Exposed here too (in addition to Scheme.Instantiate)
// so callers that only import tyenv don't need to reach into types directly
// for this operation.
func Instantiate(scheme types.Scheme, fresh *types.Fresh) types.Type {
	return scheme.Instantiate(fresh)
}

// NonGenSet is the mutable non-generalizable set threaded through a single
// top-level declaration's inference (§4.2, §4.7). It is reset per
// declaration, never across declarations, matching the teacher's pattern of
// per-binding inference state owned by one context object (§5).
type NonGenSet struct {
	vars map[types.VarID]bool
}

// NewNonGenSet creates an empty set.
func NewNonGenSet() *NonGenSet {
	return &NonGenSet{vars: map[types.VarID]bool{}}
}

// Add marks vars as escaped/non-generalizable.
func (s *NonGenSet) Add(vars ...types.VarID) {
	for _, v := range vars {
		s.vars[v] = true
	}
}

// Snapshot returns the current set as a plain map, suitable for passing to
// Generalize.
func (s *NonGenSet) Snapshot() map[types.VarID]bool {
	out := make(map[types.VarID]bool, len(s.vars))
	for k, v := range s.vars {
		out[k] = v
	}
	return out
}
