// Package mark implements the project's non-fatal error strategy (§4.9,
// §7): soft failures become a Mark plus a typed Unknown hole at the
// offending node, and inference continues. It mirrors the teacher's
// diagnostics package — a plain struct record, deduplicated by identity and
// appended in visitation order — generalized from "dedupe by line:col:code"
// (we have no lexer/token positions; parsing is out of scope, §1) to
// "dedupe by origin node + reason + subject name".
package mark

import (
	"github.com/google/uuid"

	"github.com/arbor-lang/infercore/internal/ast"
	"github.com/arbor-lang/infercore/internal/types"
)

// Reason is a stable diagnostic reason code (§7).
type Reason string

const (
	FreeVariable         Reason = "free_variable"
	NotFunction          Reason = "not_function"
	Inconsistent         Reason = "inconsistent"
	OccursCheck          Reason = "occurs_check"
	NonExhaustive        Reason = "non_exhaustive"
	UnsupportedExpr      Reason = "unsupported_expr"
	DuplicateRecordField Reason = "duplicate_record_field"
	MissingField         Reason = "missing_field"
	AmbiguousRecord      Reason = "ambiguous_record"
	NotRecord            Reason = "not_record"

	// Pattern-level reasons (§7).
	BindingRequired        Reason = "binding_required"
	DuplicateVariable      Reason = "duplicate_variable"
	WrongConstructor       Reason = "wrong_constructor"
	LiteralUnifyFailed     Reason = "literal_unify_failed"
	TupleArity             Reason = "tuple_arity"
	UnsupportedPatternKind Reason = "unsupported_pattern_kind"

	// Match-level reasons (§7).
	AllErrorsOutsideResult Reason = "all_errors_outside_result"
	ErrorRowPartialCoverage Reason = "error_row_partial_coverage"
	TypeMismatch           Reason = "type_mismatch"

	// Top-level reasons (§3, "top-level marks for duplicate type declarations").
	DuplicateTypeDecl Reason = "duplicate_type_decl"
)

// Mark is a single non-fatal error record (§3, §4.9). It carries enough
// materialized subject information for a downstream renderer to produce a
// diagnostic without re-inferring: the offending name, the expected/actual
// pair, and the missing-constructor list, as applicable to Reason.
type Mark struct {
	ID       uuid.UUID
	Reason   Reason
	Origin   ast.NodeID
	Name     string
	Expected types.Type
	Actual   types.Type
	Missing  []string // non-exhaustive constructors, or partial error-row coverage
	Hint     string   // e.g. the "_" suggestion for equality-only coverage
}

// Recorder accumulates marks and typed holes over one inference pass (§5,
// "single-threaded cooperative": one Recorder, one context, no concurrent
// access).
type Recorder struct {
	marks   []*Mark
	seen    map[dedupeKey]bool
	holes   map[ast.NodeID][]types.Unknown
	nextTag int64
}

type dedupeKey struct {
	origin ast.NodeID
	reason Reason
	name   string
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		seen:  map[dedupeKey]bool{},
		holes: map[ast.NodeID][]types.Unknown{},
	}
}

// Hole mints a fresh Unknown typed hole tagged with provenance and records
// it in the hole registry keyed by origin (§3, §6 "holes"). Unknown never
// unifies with anything but itself, so each hole gets a distinct Tag even
// when multiple holes share an origin and provenance.
func (r *Recorder) Hole(origin ast.NodeID, prov types.Provenance) types.Unknown {
	r.nextTag++
	hole := types.Unknown{Provenance: prov, Tag: r.nextTag}
	r.holes[origin] = append(r.holes[origin], hole)
	return hole
}

// Add records m, deduplicating on (origin, reason, name) the way the
// teacher dedupes on (line, col, code) — same node failing the same way
// with the same subject is recorded once.
func (r *Recorder) Add(m Mark) {
	key := dedupeKey{origin: m.Origin, reason: m.Reason, name: m.Name}
	if r.seen[key] {
		return
	}
	r.seen[key] = true
	m.ID = uuid.New()
	r.marks = append(r.marks, &m)
}

// Marks returns every recorded mark in visitation (append) order, which is
// deterministic for deterministic input (§5).
func (r *Recorder) Marks() []*Mark {
	out := make([]*Mark, len(r.marks))
	copy(out, r.marks)
	return out
}

// Holes returns the origin -> holes registry (§6).
func (r *Recorder) Holes() map[ast.NodeID][]types.Unknown {
	out := make(map[ast.NodeID][]types.Unknown, len(r.holes))
	for k, v := range r.holes {
		cp := make([]types.Unknown, len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out
}
