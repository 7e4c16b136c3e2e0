package unify

import (
	"fmt"

	"github.com/arbor-lang/infercore/internal/types"
)

// FailureKind classifies why unification failed, so callers can decide
// between producing a mark or synthesizing a fallback (§4.1).
type FailureKind string

const (
	Mismatch      FailureKind = "mismatch"
	OccursCheck   FailureKind = "occurs_check"
	ArityMismatch FailureKind = "arity_mismatch"
	FieldMismatch FailureKind = "field_mismatch"
	RowTailClosed FailureKind = "row_tail_closed"
)

// Failure is the non-exception unification failure descriptor (§4.1,
// "Failures are returned as a descriptor (not an exception)").
type Failure struct {
	Kind    FailureKind
	Left    types.Type
	Right   types.Type
	Message string
}

func (f *Failure) Error() string {
	if f.Left == nil || f.Right == nil {
		return fmt.Sprintf("%s: %s", f.Kind, f.Message)
	}
	return fmt.Sprintf("%s: cannot unify %s with %s (%s)", f.Kind, f.Left.String(), f.Right.String(), f.Message)
}

func mismatch(l, r types.Type, why string) *Failure {
	return &Failure{Kind: Mismatch, Left: l, Right: r, Message: why}
}

func occursFailure(l, r types.Type) *Failure {
	return &Failure{Kind: OccursCheck, Left: l, Right: r, Message: "type variable occurs in its own binding"}
}
