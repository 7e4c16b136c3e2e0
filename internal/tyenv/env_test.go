package tyenv

import (
	"testing"

	"github.com/arbor-lang/infercore/internal/types"
)

func TestLastWriteWinsAcrossScopes(t *testing.T) {
	root := NewRoot()
	root.Define("x", types.Monotype(types.Int{}))

	child := root.Push()
	child.Define("x", types.Monotype(types.Bool{}))

	got, ok := child.Lookup("x")
	if !ok || got.Body.String() != "Bool" {
		t.Fatalf("expected inner x: Bool to shadow outer, got %v", got)
	}

	outerLookup, ok := root.Lookup("x")
	if !ok || outerLookup.Body.String() != "Int" {
		t.Fatalf("expected outer scope unaffected, got %v", outerLookup)
	}
}

func TestAllBindingsAccumulatesAcrossScopes(t *testing.T) {
	root := NewRoot()
	root.Define("f", types.Monotype(types.Int{}))
	child := root.Push()
	child.Define("g", types.Monotype(types.Bool{}))

	all := root.AllBindings()
	if _, ok := all["f"]; !ok {
		t.Fatalf("expected f in all-bindings")
	}
	if _, ok := all["g"]; !ok {
		t.Fatalf("expected g in all-bindings even though bound in a child scope")
	}
}

func TestGeneralizeExcludesEnvAndNonGenVars(t *testing.T) {
	fresh := types.NewFresh(0)
	root := NewRoot()
	envVar := fresh.Var()
	root.Define("leaked", types.Monotype(envVar))

	bodyVar := fresh.Var()
	escapedVar := fresh.Var()
	body := types.Func{From: bodyVar, To: types.Func{From: envVar, To: escapedVar}}

	nonGen := NewNonGenSet()
	nonGen.Add(escapedVar.ID)

	scheme := Generalize(body, root, types.Subst{}, nonGen.Snapshot())

	for _, v := range scheme.Vars {
		if v == envVar.ID {
			t.Fatalf("should not generalize a variable free in the environment")
		}
		if v == escapedVar.ID {
			t.Fatalf("should not generalize a non-generalizable (escaped) variable")
		}
	}
	if len(scheme.Vars) != 1 || scheme.Vars[0] != bodyVar.ID {
		t.Fatalf("expected exactly bodyVar quantified, got %v", scheme.Vars)
	}
}

func TestInstantiateProducesFreshVarsEachTime(t *testing.T) {
	fresh := types.NewFresh(0)
	v := fresh.Var()
	scheme := types.Scheme{Vars: []types.VarID{v.ID}, Body: types.Func{From: v, To: v}}

	i1 := Instantiate(scheme, fresh).(types.Func)
	i2 := Instantiate(scheme, fresh).(types.Func)

	if i1.From.(types.Var).ID == i2.From.(types.Var).ID {
		t.Fatalf("expected distinct fresh vars per instantiation")
	}
}
