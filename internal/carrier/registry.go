// Package carrier implements the infectious carrier abstraction: a
// two-argument nominal type C<V, S> whose state S (an effect row)
// auto-propagates through function application (§3, §4.4).
//
// The registry is process-wide state by contract (§5): all carrier
// declarations for a program must be registered before any expression of
// that program is inferred. Per the design note in §9 ("prefer an explicit
// context-owned registry to enable nested or parallel inferences"), Registry
// is a plain value type rather than package globals — callers that want the
// legacy process-wide behavior hold one Registry across inferences via
// Default; callers that want isolation construct their own with New.
package carrier

import "github.com/arbor-lang/infercore/internal/types"

// Descriptor is a registered carrier's static description (§3, "Carrier
// descriptor").
type Descriptor struct {
	Domain      string   // e.g. "effect"
	TypeName    string   // the nominal type name, e.g. "IResult"
	ValueCtor   string   // the Ok-like constructor name, e.g. "IOk"
	EffectCtors []string // the Err-like constructor names, e.g. ["IErr"]
}

// IsEffectCtor reports whether name is one of this carrier's error-like
// constructors.
func (d *Descriptor) IsEffectCtor(name string) bool {
	for _, c := range d.EffectCtors {
		if c == name {
			return true
		}
	}
	return false
}

// Registry holds every carrier registered for a program, keyed by domain
// label and by nominal type name (a carrier is addressable either way:
// declaration registration knows the domain, inference more often has the
// concrete type in hand).
type Registry struct {
	byDomain   map[string]*Descriptor
	byTypeName map[string]*Descriptor
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		byDomain:   map[string]*Descriptor{},
		byTypeName: map[string]*Descriptor{},
	}
}

// Default is the process-wide registry used when a caller does not construct
// its own — matching the legacy global-state contract of §5 for programs
// that share a process without resetting between inferences.
var Default = New()

// Register adds (or replaces) a carrier descriptor. Redefining a carrier
// mid-inference is unspecified by §5; Register simply overwrites.
func (r *Registry) Register(d *Descriptor) {
	r.byDomain[d.Domain] = d
	r.byTypeName[d.TypeName] = d
}

// Reset clears every registered carrier, for callers that share a process
// across multiple independent programs (§5).
func (r *Registry) Reset() {
	r.byDomain = map[string]*Descriptor{}
	r.byTypeName = map[string]*Descriptor{}
}

// Domains returns every registered domain label, used by callers that must
// try collapsing a type against each known carrier domain in turn (§4.4).
func (r *Registry) Domains() []string {
	out := make([]string, 0, len(r.byDomain))
	for d := range r.byDomain {
		out = append(out, d)
	}
	return out
}

// ByDomain looks up a carrier by its domain label.
func (r *Registry) ByDomain(domain string) (*Descriptor, bool) {
	d, ok := r.byDomain[domain]
	return d, ok
}

// ByTypeName looks up a carrier by its nominal type name.
func (r *Registry) ByTypeName(name string) (*Descriptor, bool) {
	d, ok := r.byTypeName[name]
	return d, ok
}

// ForConstructor returns the carrier (if any) whose value or effect
// constructor set includes ctorName — used when an expression or pattern
// constructor application needs to know if it belongs to a carrier domain.
func (r *Registry) ForConstructor(ctorName string) (*Descriptor, bool) {
	for _, d := range r.byDomain {
		if d.ValueCtor == ctorName || d.IsEffectCtor(ctorName) {
			return d, true
		}
	}
	return nil, false
}

// AsCarrier reports whether t is an application of some registered
// carrier's nominal type, returning its descriptor, value type and state
// type (§4.4, "split").
func (r *Registry) AsCarrier(t types.Type) (*Descriptor, types.Type, types.Type, bool) {
	c, ok := t.(types.Constructor)
	if !ok || len(c.Args) != 2 {
		return nil, nil, nil, false
	}
	d, ok := r.ByTypeName(c.Name)
	if !ok {
		return nil, nil, nil, false
	}
	return d, c.Args[0], c.Args[1], true
}
