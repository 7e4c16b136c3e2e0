// Package decl implements declaration registration: two-pass ADT/record
// registration and infix/prefix operator binding (§4, "Declaration
// registration").
package decl

import "github.com/arbor-lang/infercore/internal/types"

// Kind distinguishes a structural alias from a real nominal ADT (§3, "ADT/record info").
type Kind int

const (
	KindADT Kind = iota
	KindAlias
)

// CtorInfo is one constructor of an ADT (§3).
type CtorInfo struct {
	Name  string
	Arity int
	// ArgTypes gives each positional argument's type, parameterized over
	// the owning TypeInfo's TypeParams — instantiate via Scheme before use.
	ArgTypes []types.Type
}

// TypeInfo is the per-nominal-type registration record (§3, "ADT/record
// info"): kind, type parameters, constructor list, and — for records — an
// ordered field-name to argument-index mapping plus an optional structural
// alias.
type TypeInfo struct {
	Name        string
	Kind        Kind
	TypeParams  []types.VarID
	Constructors []CtorInfo
	// FieldIndex is non-nil for a nominal record: field name -> argument
	// index into its single constructor's ArgTypes, in declaration order.
	FieldOrder []string
	FieldIndex map[string]int
	// AliasOf is the structural type a KindAlias resolves to.
	AliasOf types.Type
}

// IsRecord reports whether t has exactly one constructor with a known field
// mapping (§3).
func (t *TypeInfo) IsRecord() bool {
	return len(t.Constructors) == 1 && t.FieldIndex != nil
}

// ConstructorNames returns every constructor name, in declaration order —
// used by match exhaustiveness (§4.7) to compute missing constructors.
func (t *TypeInfo) ConstructorNames() []string {
	out := make([]string, len(t.Constructors))
	for i, c := range t.Constructors {
		out[i] = c.Name
	}
	return out
}

// Env is the registry of every nominal type and its constructors, built by
// Register and consulted throughout inference.
type Env struct {
	types       map[string]*TypeInfo
	ctorOwner   map[string]*TypeInfo // constructor name -> owning TypeInfo
	ctorScheme  map[string]types.Scheme
}

// NewEnv creates an empty Env; entries are added with Seed (§6,
// "initialAdtEnv") or Define.
func NewEnv() *Env {
	return &Env{
		types:      map[string]*TypeInfo{},
		ctorOwner:  map[string]*TypeInfo{},
		ctorScheme: map[string]types.Scheme{},
	}
}

// Seed copies every entry of seed into e — used to apply the caller-supplied
// initialAdtEnv option (§6) before registration runs.
func (e *Env) Seed(seed *Env) {
	for k, v := range seed.types {
		e.types[k] = v
	}
	for k, v := range seed.ctorOwner {
		e.ctorOwner[k] = v
	}
	for k, v := range seed.ctorScheme {
		e.ctorScheme[k] = v
	}
}

// Define registers (or overwrites) a TypeInfo.
func (e *Env) Define(info *TypeInfo) {
	e.types[info.Name] = info
	for _, c := range info.Constructors {
		e.ctorOwner[c.Name] = info
	}
}

// DefineConstructorScheme records the instantiatable scheme for a single
// constructor, built once its owning type's parameters are known.
func (e *Env) DefineConstructorScheme(ctorName string, scheme types.Scheme) {
	e.ctorScheme[ctorName] = scheme
}

// Lookup finds a TypeInfo by nominal name.
func (e *Env) Lookup(name string) (*TypeInfo, bool) {
	info, ok := e.types[name]
	return info, ok
}

// OwnerOf finds the TypeInfo owning a constructor name.
func (e *Env) OwnerOf(ctorName string) (*TypeInfo, bool) {
	info, ok := e.ctorOwner[ctorName]
	return info, ok
}

// ConstructorScheme returns the instantiatable scheme for a constructor
// (its curried function type ending in the owning nominal type).
func (e *Env) ConstructorScheme(ctorName string) (types.Scheme, bool) {
	s, ok := e.ctorScheme[ctorName]
	return s, ok
}

// FindRecordsWithField returns the names of every nominal record type whose
// field set contains field — used to resolve an ambiguous `.field`
// projection on a type variable (§4.5, §4.6).
func (e *Env) FindRecordsWithField(field string) []string {
	var out []string
	for name, info := range e.types {
		if !info.IsRecord() {
			continue
		}
		if _, ok := info.FieldIndex[field]; ok {
			out = append(out, name)
		}
	}
	return out
}

// WithoutAliases returns a copy of e containing only real ADTs, matching the
// §6 output contract ("adtEnv: ADT info excluding aliases").
func (e *Env) WithoutAliases() map[string]*TypeInfo {
	out := make(map[string]*TypeInfo, len(e.types))
	for name, info := range e.types {
		if info.Kind != KindAlias {
			out[name] = info
		}
	}
	return out
}

// All returns every registered type, aliases included, for internal lookups.
func (e *Env) All() map[string]*TypeInfo {
	out := make(map[string]*TypeInfo, len(e.types))
	for k, v := range e.types {
		out[k] = v
	}
	return out
}
