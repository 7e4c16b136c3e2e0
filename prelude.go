package infercore

import (
	"github.com/arbor-lang/infercore/internal/carrier"
	"github.com/arbor-lang/infercore/internal/decl"
	"github.com/arbor-lang/infercore/internal/tyenv"
	"github.com/arbor-lang/infercore/internal/types"
)

// registerPreludeTypes seeds the ADT env and carrier registry with the
// built-in result/option carriers every program can reach for without
// declaring its own (§6, "registerPrelude: populate built-in types and
// operators").
func registerPreludeTypes(adtEnv *decl.Env, carriers *carrier.Registry) {
	v := types.Var{ID: preludeValueVar}
	s := types.Var{ID: preludeStateVar}

	resultType := types.Constructor{Name: "Result", Args: []types.Type{v, s}}
	adtEnv.Define(&decl.TypeInfo{
		Name:       "Result",
		TypeParams: []types.VarID{preludeValueVar, preludeStateVar},
		Constructors: []decl.CtorInfo{
			{Name: "Ok", Arity: 1, ArgTypes: []types.Type{v}},
			{Name: "Err", Arity: 1, ArgTypes: []types.Type{s}},
		},
	})
	adtEnv.DefineConstructorScheme("Ok", types.Scheme{Vars: []types.VarID{preludeValueVar, preludeStateVar}, Body: types.Func{From: v, To: resultType}})
	adtEnv.DefineConstructorScheme("Err", types.Scheme{Vars: []types.VarID{preludeValueVar, preludeStateVar}, Body: types.Func{From: s, To: resultType}})
	carriers.Register(&carrier.Descriptor{Domain: "effect", TypeName: "Result", ValueCtor: "Ok", EffectCtors: []string{"Err"}})

	optionType := types.Constructor{Name: "Option", Args: []types.Type{v, s}}
	adtEnv.Define(&decl.TypeInfo{
		Name:       "Option",
		TypeParams: []types.VarID{preludeValueVar, preludeStateVar},
		Constructors: []decl.CtorInfo{
			{Name: "Some", Arity: 1, ArgTypes: []types.Type{v}},
			{Name: "None", Arity: 1, ArgTypes: []types.Type{s}},
		},
	})
	adtEnv.DefineConstructorScheme("Some", types.Scheme{Vars: []types.VarID{preludeValueVar, preludeStateVar}, Body: types.Func{From: v, To: optionType}})
	adtEnv.DefineConstructorScheme("None", types.Scheme{Vars: []types.VarID{preludeValueVar, preludeStateVar}, Body: types.Func{From: s, To: optionType}})
	carriers.Register(&carrier.Descriptor{Domain: "option", TypeName: "Option", ValueCtor: "Some", EffectCtors: []string{"None"}})
}

// Reserved negative variable ids for the prelude's own type parameters.
// Fresh counts upward from its non-negative start, so program-level fresh
// vars never collide with them.
const (
	preludeValueVar types.VarID = -1
	preludeStateVar types.VarID = -2
)

// registerPreludeOperators binds the arithmetic infix symbols to their
// conventional "__op_<symbol>" implementation names, matching
// decl.OperatorTable.Infix's fallback so no explicit infix declaration is
// required for a program to use them (§4.5, §6).
func registerPreludeOperators(ops *decl.OperatorTable) {
	for _, sym := range []string{"+", "-", "*", "/"} {
		ops.Define(sym, false, "__op_"+sym)
	}
	ops.Define("==", false, "__op_==")
	ops.Define("!=", false, "__op_!=")
	ops.Define("-", true, "__prefix_-")
}

// registerPreludeBindings defines the implementation functions registerPreludeOperators
// points at, plus the constructors already registered by registerPreludeTypes
// are reachable through the ADT env's own constructor schemes and need no
// separate env entry.
func registerPreludeBindings(env *tyenv.Env, adtEnv *decl.Env) {
	arith := types.Func{From: types.Int{}, To: types.Func{From: types.Int{}, To: types.Int{}}}
	env.Define("__op_+", types.Monotype(arith))
	env.Define("__op_-", types.Monotype(arith))
	env.Define("__op_*", types.Monotype(arith))
	env.Define("__op_/", types.Monotype(arith))
	env.Define("__prefix_-", types.Monotype(types.Func{From: types.Int{}, To: types.Int{}}))

	eqVar := types.Var{ID: preludeEqVar}
	eq := types.Func{From: eqVar, To: types.Func{From: eqVar, To: types.Bool{}}}
	env.Define("__op_==", types.Scheme{Vars: []types.VarID{preludeEqVar}, Body: eq})
	env.Define("__op_!=", types.Scheme{Vars: []types.VarID{preludeEqVar}, Body: eq})
}

const preludeEqVar types.VarID = -3
