package infer

import (
	"os"
	"sort"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/arbor-lang/infercore/internal/ast"
	"github.com/arbor-lang/infercore/internal/decl"
	"github.com/arbor-lang/infercore/internal/mark"
	"github.com/arbor-lang/infercore/internal/tyenv"
	"github.com/arbor-lang/infercore/internal/types"
)

// fixtureFile is the shape of testdata/scenarios.yaml: each scenario names a
// runner registered in scenarioRunners and the outcome that runner must
// produce, so the expected values for the §8 end-to-end scenarios live as
// data rather than buried in Go assertions (SPEC_FULL.md E.1).
type fixtureFile struct {
	Scenarios []fixtureScenario `yaml:"scenarios"`
}

type fixtureScenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Expect      fixtureExpect `yaml:"expect"`
}

type fixtureExpect struct {
	SchemeVarCount           *int          `yaml:"schemeVarCount,omitempty"`
	SchemeVarCountAtLeast    *int          `yaml:"schemeVarCountAtLeast,omitempty"`
	Results                  []fixtureType `yaml:"results,omitempty"`
	ResultKind               string        `yaml:"resultKind,omitempty"`
	ResultIsStructuralRecord bool          `yaml:"resultIsStructuralRecord,omitempty"`
	EffectLabels             []string      `yaml:"effectLabels,omitempty"`
	Marks                    []fixtureMark `yaml:"marks,omitempty"`
	MarksAbsent              []string      `yaml:"marksAbsent,omitempty"`
}

type fixtureType struct {
	Kind string `yaml:"kind"`
}

type fixtureMark struct {
	Reason  string   `yaml:"reason"`
	Name    string   `yaml:"name,omitempty"`
	Missing []string `yaml:"missing,omitempty"`
}

// goldenOutcome is what a scenario runner reports back for comparison against
// a fixtureExpect. Var-carrying types are reduced to a stable "kind" string
// (kindOf) rather than compared by String(), since fresh-variable ids vary
// run to run depending on construction order.
type goldenOutcome struct {
	schemeVarCount int
	resultKinds    []string
	effectLabels   []string
	marks          []*mark.Mark
}

func kindOf(t types.Type) string {
	switch tt := t.(type) {
	case types.Constructor:
		return tt.Name
	case types.Int:
		return "Int"
	case types.String:
		return "String"
	case types.Bool:
		return "Bool"
	case types.Unit:
		return "Unit"
	case types.Record:
		return "Record"
	case types.Func:
		return "Func"
	case types.Tuple:
		return "Tuple"
	case types.Var:
		return "Var"
	case types.Unknown:
		return "Unknown"
	default:
		return "?"
	}
}

var scenarioRunners = map[string]func() goldenOutcome{
	"identity_generalizes":          runIdentityGeneralizes,
	"mutual_recursion_free_variable": runMutualRecursionFreeVariable,
	"carrier_infection":             runCarrierInfection,
	"match_discharge":               runMatchDischarge,
	"match_partial_coverage":        runMatchPartialCoverage,
	"record_nominal_unique":         runRecordNominalUnique,
	"record_nominal_ambiguous":      runRecordNominalAmbiguous,
	"bool_non_exhaustive":           runBoolNonExhaustive,
	"bool_exhaustive":               runBoolExhaustive,
}

func runIdentityGeneralizes() goldenOutcome {
	ctx, _ := newTestContext()
	env := tyenv.NewRoot()

	idArrow := arrow([]string{"x"}, ident("x"))
	nonGen := tyenv.NewNonGenSet()
	bodyType := ctx.InferExpr(env, nonGen, idArrow)
	scheme := tyenv.Generalize(bodyType, env, ctx.Subst, nonGen.Snapshot())
	env.Define("id", scheme)

	intResult := ctx.InferExpr(env, tyenv.NewNonGenSet(), call(ident("id"), lit(ast.LitInt, int64(1))))
	strResult := ctx.InferExpr(env, tyenv.NewNonGenSet(), call(ident("id"), lit(ast.LitString, "a")))

	return goldenOutcome{
		schemeVarCount: len(scheme.Vars),
		resultKinds:    []string{kindOf(intResult.Apply(ctx.Subst)), kindOf(strResult.Apply(ctx.Subst))},
	}
}

func runMutualRecursionFreeVariable() goldenOutcome {
	ctx, _ := newTestContext()
	env := tyenv.NewRoot()

	evenBody := call(ident("odd"), ident("n"))
	evenArrow := arrow([]string{"n"}, evenBody)
	nonGen := tyenv.NewNonGenSet()
	bodyType := ctx.InferExpr(env, nonGen, evenArrow)
	scheme := tyenv.Generalize(bodyType, env, ctx.Subst, nonGen.Snapshot())

	return goldenOutcome{schemeVarCount: len(scheme.Vars), marks: ctx.Recorder.Marks()}
}

func runCarrierInfection() goldenOutcome {
	ctx, adtEnv := newTestContext()
	setupResultCarrier(adtEnv, ctx.Carriers)
	env := tyenv.NewRoot()

	fBody := ctorApp("IErr", ctorApp("NotFound"))
	fScheme := tyenv.Generalize(ctx.InferExpr(env, tyenv.NewNonGenSet(), arrow([]string{"x"}, fBody)), env, ctx.Subst, nil)
	env.Define("f", fScheme)
	env.Define("__op_+", types.Monotype(types.Func{From: types.Int{}, To: types.Func{From: types.Int{}, To: types.Int{}}}))

	gBody := &ast.BinOp{Op: "+", Left: call(ident("f"), ident("x")), Right: lit(ast.LitInt, int64(1))}
	gBody.Node = nid()
	gType := ctx.InferExpr(env, tyenv.NewNonGenSet(), arrow([]string{"x"}, gBody))

	fn, _ := gType.Apply(ctx.Subst).(types.Func)
	resultCarrier, _ := fn.To.Apply(ctx.Subst).(types.Constructor)
	var labels []string
	if len(resultCarrier.Args) == 2 {
		if row, ok := resultCarrier.Args[1].Apply(ctx.Subst).(types.EffectRow); ok {
			for label := range row.Cases {
				labels = append(labels, label)
			}
		}
	}
	sort.Strings(labels)

	return goldenOutcome{resultKinds: []string{kindOf(resultCarrier)}, effectLabels: labels}
}

func runMatchDischarge() goldenOutcome {
	ctx, adtEnv := newTestContext()
	setupResultCarrier(adtEnv, ctx.Carriers)
	env := tyenv.NewRoot()

	scrutineeType := types.Constructor{Name: "IResult", Args: []types.Type{types.Int{}, types.EffectRow{Cases: map[string]types.Type{"NotFound": nil}}}}
	env.Define("r", types.Monotype(scrutineeType))

	m := dischargeMatch()
	result := ctx.InferExpr(env, tyenv.NewNonGenSet(), m)

	return goldenOutcome{resultKinds: []string{kindOf(result.Apply(ctx.Subst))}, marks: ctx.Recorder.Marks()}
}

func runMatchPartialCoverage() goldenOutcome {
	ctx, adtEnv := newTestContext()
	setupResultCarrier(adtEnv, ctx.Carriers)
	env := tyenv.NewRoot()

	scrutineeType := types.Constructor{Name: "IResult", Args: []types.Type{types.Int{}, types.EffectRow{Cases: map[string]types.Type{"NotFound": nil, "Other": nil}}}}
	env.Define("r", types.Monotype(scrutineeType))

	m := dischargeMatch()
	result := ctx.InferExpr(env, tyenv.NewNonGenSet(), m)

	return goldenOutcome{resultKinds: []string{kindOf(result.Apply(ctx.Subst))}, marks: ctx.Recorder.Marks()}
}

// dischargeMatch builds `match r { IOk(v) => v, IErr(NotFound) => 0 }`,
// shared by both the discharging and partial-coverage scenarios since only
// the scrutinee's row differs between them.
func dischargeMatch() *ast.Match {
	okPattern := ctorPattern("IOk", varPattern("v"))
	errPattern := ctorPattern("IErr", ctorPattern("NotFound"))
	m := &ast.Match{
		Scrutinee: ident("r"),
		Arms: []ast.Arm{
			{Pattern: okPattern, Body: ident("v")},
			{Pattern: errPattern, Body: lit(ast.LitInt, int64(0))},
		},
	}
	m.Node = nid()
	return m
}

func pointFields() []ast.RecordField {
	return []ast.RecordField{
		{Name: "x", Value: lit(ast.LitInt, int64(1))},
		{Name: "y", Value: lit(ast.LitInt, int64(2))},
	}
}

func runRecordNominalUnique() goldenOutcome {
	ctx, adtEnv := newTestContext()
	env := tyenv.NewRoot()

	defineNominalRecord(adtEnv, "Point")

	rl := &ast.RecordLiteral{Fields: pointFields()}
	rl.Node = nid()
	result := ctx.InferExpr(env, tyenv.NewNonGenSet(), rl)

	return goldenOutcome{resultKinds: []string{kindOf(result.Apply(ctx.Subst))}, marks: ctx.Recorder.Marks()}
}

func runRecordNominalAmbiguous() goldenOutcome {
	ctx, adtEnv := newTestContext()
	env := tyenv.NewRoot()

	defineNominalRecord(adtEnv, "Point")
	defineNominalRecord(adtEnv, "Coord")

	rl := &ast.RecordLiteral{Fields: pointFields()}
	rl.Node = nid()
	result := ctx.InferExpr(env, tyenv.NewNonGenSet(), rl)

	return goldenOutcome{resultKinds: []string{kindOf(result.Apply(ctx.Subst))}, marks: ctx.Recorder.Marks()}
}

func runBoolNonExhaustive() goldenOutcome {
	ctx, _ := newTestContext()
	env := tyenv.NewRoot()

	truePattern := &ast.LiteralPattern{Kind: ast.LitBool, Value: true}
	truePattern.Node = nid()
	m := &ast.Match{
		Scrutinee: lit(ast.LitBool, true),
		Arms:      []ast.Arm{{Pattern: truePattern, Body: lit(ast.LitInt, int64(1))}},
	}
	m.Node = nid()

	result := ctx.InferExpr(env, tyenv.NewNonGenSet(), m)
	return goldenOutcome{resultKinds: []string{kindOf(result.Apply(ctx.Subst))}, marks: ctx.Recorder.Marks()}
}

func runBoolExhaustive() goldenOutcome {
	ctx, _ := newTestContext()
	env := tyenv.NewRoot()

	truePattern := &ast.LiteralPattern{Kind: ast.LitBool, Value: true}
	truePattern.Node = nid()
	falsePattern := &ast.LiteralPattern{Kind: ast.LitBool, Value: false}
	falsePattern.Node = nid()
	m := &ast.Match{
		Scrutinee: lit(ast.LitBool, true),
		Arms: []ast.Arm{
			{Pattern: truePattern, Body: lit(ast.LitInt, int64(1))},
			{Pattern: falsePattern, Body: lit(ast.LitInt, int64(2))},
		},
	}
	m.Node = nid()

	result := ctx.InferExpr(env, tyenv.NewNonGenSet(), m)
	return goldenOutcome{resultKinds: []string{kindOf(result.Apply(ctx.Subst))}, marks: ctx.Recorder.Marks()}
}

func TestGoldenScenarios(t *testing.T) {
	raw, err := os.ReadFile("testdata/scenarios.yaml")
	if err != nil {
		t.Fatalf("reading fixtures: %v", err)
	}
	var fixtures fixtureFile
	if err := yaml.Unmarshal(raw, &fixtures); err != nil {
		t.Fatalf("parsing fixtures: %v", err)
	}
	if len(fixtures.Scenarios) == 0 {
		t.Fatalf("no scenarios loaded from testdata/scenarios.yaml")
	}

	for _, sc := range fixtures.Scenarios {
		sc := sc
		t.Run(sc.Name, func(t *testing.T) {
			runner, ok := scenarioRunners[sc.Name]
			if !ok {
				t.Fatalf("no runner registered for scenario %q", sc.Name)
			}
			outcome := runner()
			checkExpectation(t, sc.Expect, outcome)
		})
	}
}

func checkExpectation(t *testing.T, exp fixtureExpect, outcome goldenOutcome) {
	t.Helper()

	if exp.SchemeVarCount != nil && outcome.schemeVarCount != *exp.SchemeVarCount {
		t.Errorf("schemeVarCount: want %d, got %d", *exp.SchemeVarCount, outcome.schemeVarCount)
	}
	if exp.SchemeVarCountAtLeast != nil && outcome.schemeVarCount < *exp.SchemeVarCountAtLeast {
		t.Errorf("schemeVarCount: want at least %d, got %d", *exp.SchemeVarCountAtLeast, outcome.schemeVarCount)
	}
	for i, want := range exp.Results {
		if i >= len(outcome.resultKinds) {
			t.Errorf("results[%d]: want kind %q, got none", i, want.Kind)
			continue
		}
		if outcome.resultKinds[i] != want.Kind {
			t.Errorf("results[%d]: want kind %q, got %q", i, want.Kind, outcome.resultKinds[i])
		}
	}
	if exp.ResultKind != "" {
		if len(outcome.resultKinds) == 0 || outcome.resultKinds[0] != exp.ResultKind {
			t.Errorf("resultKind: want %q, got %v", exp.ResultKind, outcome.resultKinds)
		}
	}
	if exp.ResultIsStructuralRecord {
		if len(outcome.resultKinds) == 0 || outcome.resultKinds[0] != "Record" {
			t.Errorf("resultIsStructuralRecord: got kinds %v", outcome.resultKinds)
		}
	}
	if len(exp.EffectLabels) > 0 && !equalStrings(outcome.effectLabels, exp.EffectLabels) {
		t.Errorf("effectLabels: want %v, got %v", exp.EffectLabels, outcome.effectLabels)
	}
	for _, want := range exp.Marks {
		if !hasMark(outcome.marks, want) {
			t.Errorf("expected a mark matching %+v, got %v", want, outcome.marks)
		}
	}
	for _, reason := range exp.MarksAbsent {
		if hasMarkReason(outcome.marks, mark.Reason(reason)) {
			t.Errorf("did not expect a %q mark, got %v", reason, outcome.marks)
		}
	}
}

func hasMark(marks []*mark.Mark, want fixtureMark) bool {
	for _, m := range marks {
		if string(m.Reason) != want.Reason {
			continue
		}
		if want.Name != "" && m.Name != want.Name {
			continue
		}
		if len(want.Missing) > 0 && !equalStrings(m.Missing, want.Missing) {
			continue
		}
		return true
	}
	return false
}

func hasMarkReason(marks []*mark.Mark, reason mark.Reason) bool {
	for _, m := range marks {
		if m.Reason == reason {
			return true
		}
	}
	return false
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	sort.Strings(a)
	sort.Strings(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func defineNominalRecord(adtEnv *decl.Env, name string) {
	adtEnv.Define(&decl.TypeInfo{
		Name:       name,
		FieldOrder: []string{"x", "y"},
		FieldIndex: map[string]int{"x": 0, "y": 1},
		Constructors: []decl.CtorInfo{
			{Name: name, Arity: 2, ArgTypes: []types.Type{types.Int{}, types.Int{}}},
		},
	})
	adtEnv.DefineConstructorScheme(name, types.Monotype(types.Func{From: types.Int{}, To: types.Func{From: types.Int{}, To: types.Constructor{Name: name}}}))
}
