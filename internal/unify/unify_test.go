package unify

import (
	"testing"

	"github.com/arbor-lang/infercore/internal/types"
)

func newUnifier() (*Unifier, *types.Fresh) {
	fresh := types.NewFresh(0)
	return New(fresh), fresh
}

func TestUnifyVarWithPrimitive(t *testing.T) {
	u, fresh := newUnifier()
	v := fresh.Var()
	s, err := u.Unify(v, types.Int{}, types.Subst{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := v.Apply(s); got.String() != "Int" {
		t.Fatalf("expected Int, got %s", got.String())
	}
}

func TestUnifyOccursCheck(t *testing.T) {
	u, fresh := newUnifier()
	v := fresh.Var()
	_, err := u.Unify(v, types.Tuple{Elements: []types.Type{v}}, types.Subst{})
	if err == nil {
		t.Fatalf("expected occurs check failure")
	}
	fail, ok := err.(*Failure)
	if !ok || fail.Kind != OccursCheck {
		t.Fatalf("expected OccursCheck failure, got %v", err)
	}
}

func TestUnifyFuncParamsAndReturn(t *testing.T) {
	u, fresh := newUnifier()
	a := fresh.Var()
	f1 := types.Func{From: a, To: types.Int{}}
	f2 := types.Func{From: types.Bool{}, To: types.Int{}}
	s, err := u.Unify(f1, f2, types.Subst{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := a.Apply(s); got.String() != "Bool" {
		t.Fatalf("expected Bool, got %s", got.String())
	}
}

func TestUnifyConstructorArityMismatch(t *testing.T) {
	u, _ := newUnifier()
	left := types.Constructor{Name: "Pair", Args: []types.Type{types.Int{}}}
	right := types.Constructor{Name: "Pair", Args: []types.Type{types.Int{}, types.Bool{}}}
	_, err := u.Unify(left, right, types.Subst{})
	if err == nil {
		t.Fatalf("expected arity mismatch")
	}
	if fail := err.(*Failure); fail.Kind != ArityMismatch {
		t.Fatalf("expected ArityMismatch, got %v", fail.Kind)
	}
}

func TestUnifyRecordMissingField(t *testing.T) {
	u, _ := newUnifier()
	left := types.Record{Fields: []types.Field{{Name: "x", Type: types.Int{}}}}
	right := types.Record{Fields: []types.Field{{Name: "y", Type: types.Int{}}}}
	_, err := u.Unify(left, right, types.Subst{})
	if err == nil {
		t.Fatalf("expected field mismatch")
	}
}

func TestUnifyEffectRowsSharedLabels(t *testing.T) {
	u, fresh := newUnifier()
	tailA := fresh.Var()
	tailB := fresh.Var()
	a := types.EffectRow{Cases: map[string]types.Type{"NotFound": nil}, Tail: tailA}
	b := types.EffectRow{Cases: map[string]types.Type{"NotFound": nil, "Other": nil}, Tail: tailB}

	s, err := u.Unify(a, b, types.Subst{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resolved := a.Apply(s).(types.EffectRow)
	if _, ok := resolved.Cases["Other"]; !ok {
		// Other is absorbed via tailA binding; check substitution directly.
		boundTail, ok := s[tailA.ID]
		if !ok {
			t.Fatalf("expected tailA to be bound to absorb Other")
		}
		row, ok := boundTail.(types.EffectRow)
		if !ok {
			t.Fatalf("expected tailA bound to a row, got %T", boundTail)
		}
		if _, ok := row.Cases["Other"]; !ok {
			t.Fatalf("expected Other absorbed into tailA's row")
		}
	}
}

func TestUnifyClosedRowMissingLabelFails(t *testing.T) {
	u, _ := newUnifier()
	a := types.EffectRow{Cases: map[string]types.Type{"NotFound": nil}}
	b := types.EffectRow{Cases: map[string]types.Type{"NotFound": nil, "Other": nil}}
	_, err := u.Unify(a, b, types.Subst{})
	if err == nil {
		t.Fatalf("expected failure: closed row cannot absorb Other")
	}
}

func TestUnknownDoesNotUnifyWithPrimitive(t *testing.T) {
	u, _ := newUnifier()
	hole := types.Unknown{Provenance: types.ProvExprHole, Tag: 1}
	_, err := u.Unify(hole, types.Int{}, types.Subst{})
	if err == nil {
		t.Fatalf("expected failure: an Unknown hole unifies only with itself, not with Int")
	}
}
