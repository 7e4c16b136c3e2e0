// Package tyenv implements the scoped binding environment, generalization,
// and instantiation (§3 "Environment", §4.2).
package tyenv

import "github.com/arbor-lang/infercore/internal/types"

// Env is one scope frame in a stack of (name -> scheme) maps with
// last-write-wins lookup through outer scopes (§3).
type Env struct {
	vars  map[string]types.Scheme
	outer *Env
	all   *map[string]types.Scheme // shared across the whole chain, rooted once
}

// NewRoot creates a fresh top-level environment (the prelude scope).
func NewRoot() *Env {
	all := make(map[string]types.Scheme)
	return &Env{vars: make(map[string]types.Scheme), all: &all}
}

// Push opens a new child scope (e.g. entering a lambda body or match arm).
func (e *Env) Push() *Env {
	return &Env{vars: make(map[string]types.Scheme), outer: e, all: e.all}
}

// Define binds name to scheme in this scope and records it in the
// accumulating all-bindings map (§3, "parallel all-bindings map accumulates
// every name ever bound for later lookup by downstream phases").
func (e *Env) Define(name string, scheme types.Scheme) {
	e.vars[name] = scheme
	(*e.all)[name] = scheme
}

// Lookup searches this scope then each outer scope in turn.
func (e *Env) Lookup(name string) (types.Scheme, bool) {
	for scope := e; scope != nil; scope = scope.outer {
		if s, ok := scope.vars[name]; ok {
			return s, true
		}
	}
	return types.Scheme{}, false
}

// LookupLocal searches only this scope, without walking outward.
func (e *Env) LookupLocal(name string) (types.Scheme, bool) {
	s, ok := e.vars[name]
	return s, ok
}

// AllBindings returns the accumulated name -> scheme map across the whole
// inference, irrespective of scope (§6, "allBindings").
func (e *Env) AllBindings() map[string]types.Scheme {
	out := make(map[string]types.Scheme, len(*e.all))
	for k, v := range *e.all {
		out[k] = v
	}
	return out
}

// Names returns this scope's own bindings (not outer scopes), for snapshotting
// the final top-level environment (§6, "env").
func (e *Env) Names() map[string]types.Scheme {
	out := make(map[string]types.Scheme, len(e.vars))
	for k, v := range e.vars {
		out[k] = v
	}
	return out
}

// ApplySubst rewrites every scheme bound anywhere in the chain by applying s
// to its body, used once at the end of inference to produce the final
// substitution-applied environment (§6).
func (e *Env) ApplySubst(s types.Subst) {
	for scope := e; scope != nil; scope = scope.outer {
		for name, scheme := range scope.vars {
			scope.vars[name] = types.Scheme{Vars: scheme.Vars, Body: scheme.Body.Apply(s)}
		}
	}
	for name, scheme := range *e.all {
		(*e.all)[name] = types.Scheme{Vars: scheme.Vars, Body: scheme.Body.Apply(s)}
	}
}

// FreeVars computes the free type variables of every scheme visible from e
// (this scope and every outer scope), used by Generalize to know which
// variables are still "live" in the surrounding environment and therefore
// must not be quantified (§4.2).
func FreeVars(e *Env, subst types.Subst) map[types.VarID]bool {
	out := map[types.VarID]bool{}
	for scope := e; scope != nil; scope = scope.outer {
		for _, scheme := range scope.vars {
			applied := types.Scheme{Vars: scheme.Vars, Body: scheme.Body.Apply(subst)}
			for _, v := range applied.FreeVars() {
				out[v] = true
			}
		}
	}
	return out
}
