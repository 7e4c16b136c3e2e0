// Package infercore is the public entry point to the Hindley-Milner
// inference engine: it wires together declaration registration, the
// inference context, and the top-level program pass behind one Infer call.
package infercore

import (
	"github.com/arbor-lang/infercore/internal/ast"
	"github.com/arbor-lang/infercore/internal/carrier"
	"github.com/arbor-lang/infercore/internal/decl"
	"github.com/arbor-lang/infercore/internal/infer"
	"github.com/arbor-lang/infercore/internal/mark"
	"github.com/arbor-lang/infercore/internal/stub"
	"github.com/arbor-lang/infercore/internal/tyenv"
	"github.com/arbor-lang/infercore/internal/types"
)

// Options configures one Infer call.
type Options struct {
	// InitialEnv seeds the starting name -> scheme map. Its entries are
	// defined after the prelude (if registered), so they replace prelude
	// entries of the same name; the program's own top-level bindings are
	// layered over both.
	InitialEnv map[string]types.Scheme
	// InitialAdtEnv seeds the starting ADT info map.
	InitialAdtEnv map[string]*decl.TypeInfo
	// RegisterPrelude populates built-in types and operators. Defaults to
	// true from DefaultOptions; the zero Options{} leaves it false, since
	// Go gives every bool field false as its zero value — construct via
	// DefaultOptions to get the documented default.
	RegisterPrelude bool
	// ResetCounter resets the fresh-variable id counter for this call,
	// rather than continuing a process-wide monotonic sequence.
	ResetCounter bool
	// Source is optional source text, carried through only for caller-side
	// debugging; inference never inspects it.
	Source string
}

// InferResult is everything one Infer call produces (§6).
type InferResult struct {
	Env               map[string]types.Scheme
	AdtEnv            map[string]*decl.TypeInfo
	Summaries         []infer.Summary
	AllBindings       map[string]types.Scheme
	MarkedProgram     *ast.Program
	Marks             []*mark.Mark
	TypeExprMarks     []*mark.Mark
	Layer1Diagnostics []Diagnostic
	Holes             map[ast.NodeID][]types.Unknown
	ConstraintStubs   []*stub.Stub
	NodeTypeByID      map[ast.NodeID]types.Type
}

// sharedFresh is the process-wide fresh-variable counter used whenever a
// caller does not request ResetCounter (§5, "the fresh-var counter is
// per-context if resetCounter is requested... else process-wide
// monotonic").
var sharedFresh = types.NewFresh(0)

// Diagnostic is a renderer-ready projection of a Mark: a stable reason code
// plus the contextual data needed to produce a message without re-inferring
// (§7, "every soft error yields a diagnostic with a stable reason code plus
// contextual data").
type Diagnostic struct {
	Reason  mark.Reason
	Origin  ast.NodeID
	Name    string
	Missing []string
	Hint    string
}

// DefaultOptions returns an Options with RegisterPrelude set true, matching
// the documented default (§6).
func DefaultOptions() Options {
	return Options{RegisterPrelude: true}
}

// Infer runs one inference pass over prog and returns the fully annotated
// result. A HardError — a malformed input tree rather than an ill-typed
// program — is recovered here and returned as an error; every other failure
// mode is a soft mark and never aborts the pass.
func Infer(prog *ast.Program, opts Options) (result *InferResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			if he, ok := r.(*infer.HardError); ok {
				result = nil
				err = he
				return
			}
			panic(r)
		}
	}()

	adtEnv := decl.NewEnv()
	if opts.InitialAdtEnv != nil {
		for _, info := range opts.InitialAdtEnv {
			adtEnv.Define(info)
		}
	}

	carriers := carrier.Default
	if opts.RegisterPrelude {
		registerPreludeTypes(adtEnv, carriers)
	}

	var fresh *types.Fresh
	if opts.ResetCounter {
		fresh = types.NewFresh(0)
	} else {
		fresh = sharedFresh
	}

	recorder := mark.NewRecorder()
	ops := decl.Register(prog, adtEnv, carriers, fresh, recorder)
	if opts.RegisterPrelude {
		registerPreludeOperators(ops)
	}

	stubs := stub.NewCollector()
	ctx := infer.NewContext(fresh, adtEnv, carriers, ops, recorder, stubs)

	env := tyenv.NewRoot()
	if opts.RegisterPrelude {
		registerPreludeBindings(env, adtEnv)
	}
	for name, scheme := range opts.InitialEnv {
		env.Define(name, scheme)
	}

	summaries := ctx.InferProgram(env, prog)

	finalEnv := map[string]types.Scheme{}
	for name, scheme := range env.AllBindings() {
		finalEnv[name] = applySchemeSubst(scheme, ctx.Subst)
	}

	nodeTypes := map[ast.NodeID]types.Type{}
	for id, t := range ctx.NodeTypes {
		nodeTypes[id] = t.Apply(ctx.Subst)
	}

	finalSummaries := make([]infer.Summary, len(summaries))
	for i, s := range summaries {
		finalSummaries[i] = infer.Summary{Name: s.Name, Scheme: applySchemeSubst(s.Scheme, ctx.Subst)}
	}

	return &InferResult{
		Env:               finalEnv,
		AdtEnv:            adtEnv.WithoutAliases(),
		Summaries:         finalSummaries,
		AllBindings:       finalEnv,
		MarkedProgram:     prog,
		Marks:             recorder.Marks(),
		TypeExprMarks:     ctx.TypeExprMarks.Marks(),
		Layer1Diagnostics: diagnosticsFrom(recorder.Marks()),
		Holes:             recorder.Holes(),
		ConstraintStubs:   stubs.Stubs(),
		NodeTypeByID:      nodeTypes,
	}, nil
}

func applySchemeSubst(scheme types.Scheme, subst types.Subst) types.Scheme {
	return types.Scheme{Vars: scheme.Vars, Body: scheme.Body.Apply(subst)}
}

func diagnosticsFrom(marks []*mark.Mark) []Diagnostic {
	out := make([]Diagnostic, len(marks))
	for i, m := range marks {
		out[i] = Diagnostic{Reason: m.Reason, Origin: m.Origin, Name: m.Name, Missing: m.Missing, Hint: m.Hint}
	}
	return out
}
