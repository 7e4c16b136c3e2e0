// Package types defines the term representation used throughout inference:
// type variables, primitives, functions, tuples, nominal constructors,
// structural records, effect rows, and the typed-hole sentinel.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the interface implemented by every term in the type language.
type Type interface {
	String() string
	Apply(Subst) Type
	FreeVars() []VarID
}

// VarID identifies a type variable. Ids are minted by a Fresh source and are
// never reused within the lifetime of that source (§3, "Var ids are
// monotonically generated from a fresh counter").
type VarID int64

// Var is an unbound (or substitution-bound) type variable.
type Var struct {
	ID VarID
}

func (v Var) String() string { return fmt.Sprintf("t%d", v.ID) }

func (v Var) Apply(s Subst) Type {
	return applyChasing(v, s, map[VarID]bool{})
}

func (v Var) FreeVars() []VarID { return []VarID{v.ID} }

// applyChasing walks a substitution binding, breaking cycles the same way a
// malformed or partially-applied substitution would otherwise loop forever.
// A bound variable that resolves back to itself (directly or through a
// chain already under consideration) is left as-is instead of recursing.
func applyChasing(t Type, s Subst, visiting map[VarID]bool) Type {
	switch tt := t.(type) {
	case Var:
		if visiting[tt.ID] {
			return tt
		}
		repl, ok := s[tt.ID]
		if !ok {
			return tt
		}
		if rv, ok := repl.(Var); ok && rv.ID == tt.ID {
			return tt
		}
		next := map[VarID]bool{tt.ID: true}
		for k := range visiting {
			next[k] = true
		}
		return applyChasing(repl, s, next)
	default:
		return t.Apply(s)
	}
}

// primitive is embedded by nullary primitive types so they don't each need
// their own FreeVars boilerplate (they have none). Each type still defines
// its own String and Apply.
type primitive struct{}

func (primitive) FreeVars() []VarID { return nil }

// Unit is the type of values carrying no information.
type Unit struct{ primitive }

func (Unit) String() string   { return "Unit" }
func (u Unit) Apply(Subst) Type { return u }

// Bool is the boolean primitive type.
type Bool struct{ primitive }

func (Bool) String() string    { return "Bool" }
func (b Bool) Apply(Subst) Type { return b }

// Int is the integer primitive type.
type Int struct{ primitive }

func (Int) String() string    { return "Int" }
func (i Int) Apply(Subst) Type { return i }

// String is the string primitive type.
type String struct{ primitive }

func (String) String() string    { return "String" }
func (s String) Apply(Subst) Type { return s }

// Func is a function type. Multi-parameter bindings are lowered into a
// right-associative chain of single-argument Funcs before inference ever
// sees them (§3, "Func is right-associative when reduced from
// multi-parameter bindings").
type Func struct {
	From Type
	To   Type
}

func (f Func) String() string {
	return fmt.Sprintf("(%s -> %s)", f.From.String(), f.To.String())
}

func (f Func) Apply(s Subst) Type {
	return Func{From: f.From.Apply(s), To: f.To.Apply(s)}
}

func (f Func) FreeVars() []VarID {
	return dedupVars(append(f.From.FreeVars(), f.To.FreeVars()...))
}

// Tuple is a fixed-arity product type.
type Tuple struct {
	Elements []Type
}

func (t Tuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}

func (t Tuple) Apply(s Subst) Type {
	out := make([]Type, len(t.Elements))
	for i, e := range t.Elements {
		out[i] = e.Apply(s)
	}
	return Tuple{Elements: out}
}

func (t Tuple) FreeVars() []VarID {
	var vars []VarID
	for _, e := range t.Elements {
		vars = append(vars, e.FreeVars()...)
	}
	return dedupVars(vars)
}

// Constructor is a nominal type: an ADT, a nominal record, or a carrier
// application (e.g. Constructor{Name: "IResult", Args: []Type{V, S}}).
type Constructor struct {
	Name string
	Args []Type
}

func (c Constructor) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", c.Name, strings.Join(parts, ", "))
}

func (c Constructor) Apply(s Subst) Type {
	out := make([]Type, len(c.Args))
	for i, a := range c.Args {
		out[i] = a.Apply(s)
	}
	return Constructor{Name: c.Name, Args: out}
}

func (c Constructor) FreeVars() []VarID {
	var vars []VarID
	for _, a := range c.Args {
		vars = append(vars, a.FreeVars()...)
	}
	return dedupVars(vars)
}

// Field is one entry of an ordered Record.
type Field struct {
	Name string
	Type Type
}

// Record is a structural record type: an ordered field list, preserving
// declaration/literal order for diagnostics, plus a lookup index.
type Record struct {
	Fields []Field
}

// Lookup returns the type of field name and whether it is present.
func (r Record) Lookup(name string) (Type, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}

// FieldNames returns field names in declaration order.
func (r Record) FieldNames() []string {
	out := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		out[i] = f.Name
	}
	return out
}

func (r Record) String() string {
	parts := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Name, f.Type.String())
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}

func (r Record) Apply(s Subst) Type {
	out := make([]Field, len(r.Fields))
	for i, f := range r.Fields {
		out[i] = Field{Name: f.Name, Type: f.Type.Apply(s)}
	}
	return Record{Fields: out}
}

func (r Record) FreeVars() []VarID {
	var vars []VarID
	for _, f := range r.Fields {
		vars = append(vars, f.Type.FreeVars()...)
	}
	return dedupVars(vars)
}

// EffectRow is an open or closed record over constructor labels (§4.3).
// Cases maps a constructor label to its (currently always nullary, see
// DESIGN.md) optional payload. Tail is nil for a closed row; otherwise it is
// a Var (open row) or a Constructor naming an ADT still to be expanded.
type EffectRow struct {
	Cases map[string]Type // value may be nil: nullary case
	Tail  Type
}

func (r EffectRow) String() string {
	keys := make([]string, 0, len(r.Cases))
	for k := range r.Cases {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if payload := r.Cases[k]; payload != nil {
			parts = append(parts, fmt.Sprintf("%s(%s)", k, payload.String()))
		} else {
			parts = append(parts, k)
		}
	}
	body := strings.Join(parts, ", ")
	if r.Tail != nil {
		if body == "" {
			return fmt.Sprintf("{%s}", r.Tail.String())
		}
		return fmt.Sprintf("{%s; %s}", body, r.Tail.String())
	}
	return fmt.Sprintf("{%s}", body)
}

func (r EffectRow) Apply(s Subst) Type {
	cases := make(map[string]Type, len(r.Cases))
	for k, v := range r.Cases {
		if v != nil {
			cases[k] = v.Apply(s)
		} else {
			cases[k] = nil
		}
	}
	var tail Type
	if r.Tail != nil {
		tail = r.Tail.Apply(s)
	}
	return EffectRow{Cases: cases, Tail: tail}
}

func (r EffectRow) FreeVars() []VarID {
	var vars []VarID
	for _, v := range r.Cases {
		if v != nil {
			vars = append(vars, v.FreeVars()...)
		}
	}
	if r.Tail != nil {
		vars = append(vars, r.Tail.FreeVars()...)
	}
	return dedupVars(vars)
}

// IsClosed reports whether the row has no tail.
func (r EffectRow) IsClosed() bool { return r.Tail == nil }

// Provenance tags the origin of an Unknown typed hole (§3).
type Provenance string

const (
	ProvExprHole       Provenance = "expr_hole"
	ProvFreeVariable   Provenance = "free_variable"
	ProvNotFunction    Provenance = "not_function"
	ProvInconsistent   Provenance = "inconsistent"
	ProvOccursCheck    Provenance = "occurs_check"
	ProvUnsupportedExpr Provenance = "unsupported_expr"
	ProvPattern        Provenance = "pattern"
	ProvAmbiguousRecord Provenance = "ambiguous_record"
	ProvMissingField   Provenance = "missing_field"
	ProvNotRecord      Provenance = "not_record"
)

// Unknown is the typed-hole type: it never unifies with anything except
// itself (§3), and its creation is what registers a hole at the origin —
// callers construct it via hole-tracking helpers in the infer package rather
// than directly, so every Unknown in a final tree has a recorded origin.
type Unknown struct {
	Provenance Provenance
	// Tag disambiguates otherwise-identical Unknowns (e.g. two free-variable
	// holes for the same name at different call sites) so they are never
	// mistaken for each other by reflect.DeepEqual-style comparisons.
	Tag int64
}

func (u Unknown) String() string { return fmt.Sprintf("?<%s>", u.Provenance) }

func (u Unknown) Apply(Subst) Type { return u }

func (u Unknown) FreeVars() []VarID { return nil }

func dedupVars(vars []VarID) []VarID {
	if len(vars) == 0 {
		return nil
	}
	seen := make(map[VarID]bool, len(vars))
	out := make([]VarID, 0, len(vars))
	for _, v := range vars {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
