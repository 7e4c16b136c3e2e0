package infer

import (
	"github.com/arbor-lang/infercore/internal/ast"
	"github.com/arbor-lang/infercore/internal/mark"
	"github.com/arbor-lang/infercore/internal/tyenv"
	"github.com/arbor-lang/infercore/internal/types"
)

// Coverage classifies what a pattern proves about its target's value space,
// consumed by match exhaustiveness checking (§4.7, §4.8).
type Coverage string

const (
	CoverWildcard   Coverage = "wildcard"
	CoverConstructor Coverage = "constructor"
	CoverBool       Coverage = "bool"
	CoverAllErrors  Coverage = "all_errors"
	CoverNone       Coverage = "none"
)

// PatternResult is what pattern inference returns for one pattern: its
// resolved type, any variable bindings it introduces, and its coverage
// classification (§4.8).
type PatternResult struct {
	Type            types.Type
	Bindings        map[string]types.Type
	Coverage        Coverage
	ConstructorName string
	BoolValue       *bool
	// EffectInner is set when this is a constructor pattern matching one of
	// a carrier's effect constructors whose single argument is itself a
	// constructor pattern — the inner constructor's name becomes a covered
	// effect label for discharge purposes (§4.7, §4.8).
	EffectInner string
}

// InferPattern infers pattern against target, returning its bindings and
// coverage class (§4.8). Every failure mode records a pattern-level mark
// and an Unknown hole rather than aborting.
func (c *Context) InferPattern(env *tyenv.Env, target types.Type, p ast.Pattern) PatternResult {
	switch pt := p.(type) {
	case *ast.WildcardPattern:
		return PatternResult{Type: target, Bindings: map[string]types.Type{}, Coverage: CoverWildcard}

	case *ast.VariablePattern:
		return c.inferVariablePattern(env, target, pt)

	case *ast.LiteralPattern:
		return c.inferLiteralPattern(target, pt)

	case *ast.TuplePattern:
		return c.inferTuplePattern(env, target, pt)

	case *ast.ConstructorPattern:
		return c.inferConstructorPattern(env, target, pt)

	case *ast.AllErrorsPattern:
		return PatternResult{Type: target, Bindings: map[string]types.Type{}, Coverage: CoverAllErrors}

	default:
		panicHard("infer: unsupported pattern node %T", p)
		return PatternResult{}
	}
}

func (c *Context) inferVariablePattern(env *tyenv.Env, target types.Type, p *ast.VariablePattern) PatternResult {
	if !p.Pin {
		return PatternResult{Type: target, Bindings: map[string]types.Type{p.Name: target}, Coverage: CoverNone}
	}
	scheme, ok := env.Lookup(p.Name)
	if !ok {
		c.Recorder.Add(mark.Mark{Reason: mark.BindingRequired, Origin: p.ID(), Name: p.Name})
		return PatternResult{Type: c.hole(p.ID(), types.ProvPattern), Bindings: map[string]types.Type{}, Coverage: CoverNone}
	}
	inst := scheme.Instantiate(c.Fresh)
	if err := c.tryUnify(target, inst); err != nil {
		c.Recorder.Add(mark.Mark{Reason: mark.LiteralUnifyFailed, Origin: p.ID(), Name: p.Name})
		return PatternResult{Type: c.hole(p.ID(), types.ProvPattern), Bindings: map[string]types.Type{}, Coverage: CoverNone}
	}
	return PatternResult{Type: inst, Bindings: map[string]types.Type{}, Coverage: CoverNone}
}

func (c *Context) inferLiteralPattern(target types.Type, p *ast.LiteralPattern) PatternResult {
	var litType types.Type
	var coverage Coverage = CoverNone
	var boolVal *bool
	switch p.Kind {
	case ast.LitUnit:
		litType = types.Unit{}
	case ast.LitBool:
		litType = types.Bool{}
		coverage = CoverBool
		if b, ok := p.Value.(bool); ok {
			boolVal = &b
		}
	case ast.LitInt:
		litType = types.Int{}
	case ast.LitString:
		litType = types.String{}
	default:
		panicHard("infer: unsupported literal pattern kind %v", p.Kind)
	}
	if err := c.tryUnify(target, litType); err != nil {
		c.Recorder.Add(mark.Mark{Reason: mark.LiteralUnifyFailed, Origin: p.ID()})
		return PatternResult{Type: c.hole(p.ID(), types.ProvPattern), Bindings: map[string]types.Type{}, Coverage: CoverNone}
	}
	return PatternResult{Type: litType, Bindings: map[string]types.Type{}, Coverage: coverage, BoolValue: boolVal}
}

func (c *Context) inferTuplePattern(env *tyenv.Env, target types.Type, p *ast.TuplePattern) PatternResult {
	elemVars := make([]types.Type, len(p.Elements))
	for i := range elemVars {
		elemVars[i] = c.Fresh.Var()
	}
	if err := c.tryUnify(target, types.Tuple{Elements: elemVars}); err != nil {
		c.Recorder.Add(mark.Mark{Reason: mark.TupleArity, Origin: p.ID()})
		return PatternResult{Type: c.hole(p.ID(), types.ProvPattern), Bindings: map[string]types.Type{}, Coverage: CoverNone}
	}

	bindings := map[string]types.Type{}
	elemTypes := make([]types.Type, len(p.Elements))
	for i, sub := range p.Elements {
		sr := c.InferPattern(env, elemVars[i].Apply(c.Subst), sub)
		elemTypes[i] = sr.Type
		c.mergeBindings(p.ID(), bindings, sr.Bindings)
	}
	return PatternResult{Type: types.Tuple{Elements: elemTypes}, Bindings: bindings, Coverage: CoverNone}
}

// mergeBindings folds src into dst, marking a DuplicateVariable pattern
// error at origin for any name already present (§4.8, "duplicate binding
// names within the pattern mark the offending sub-pattern as bad").
func (c *Context) mergeBindings(origin ast.NodeID, dst, src map[string]types.Type) {
	for name, t := range src {
		if _, exists := dst[name]; exists {
			c.Recorder.Add(mark.Mark{Reason: mark.DuplicateVariable, Origin: origin, Name: name})
			continue
		}
		dst[name] = t
	}
}

func (c *Context) inferConstructorPattern(env *tyenv.Env, target types.Type, p *ast.ConstructorPattern) PatternResult {
	scheme, ok := c.AdtEnv.ConstructorScheme(p.Name)
	if !ok {
		c.Recorder.Add(mark.Mark{Reason: mark.WrongConstructor, Origin: p.ID(), Name: p.Name})
		return PatternResult{Type: c.hole(p.ID(), types.ProvPattern), Bindings: map[string]types.Type{}, Coverage: CoverNone}
	}

	cur := scheme.Instantiate(c.Fresh)
	bindings := map[string]types.Type{}
	for _, sub := range p.Args {
		fn, ok := cur.Apply(c.Subst).(types.Func)
		if !ok {
			c.Recorder.Add(mark.Mark{Reason: mark.WrongConstructor, Origin: p.ID(), Name: p.Name})
			return PatternResult{Type: c.hole(p.ID(), types.ProvPattern), Bindings: bindings, Coverage: CoverNone}
		}
		sr := c.InferPattern(env, fn.From, sub)
		c.mergeBindings(p.ID(), bindings, sr.Bindings)
		cur = fn.To
	}

	result := cur.Apply(c.Subst)
	if err := c.tryUnify(target, result); err != nil {
		c.Recorder.Add(mark.Mark{Reason: mark.WrongConstructor, Origin: p.ID(), Name: p.Name})
		return PatternResult{Type: c.hole(p.ID(), types.ProvPattern), Bindings: bindings, Coverage: CoverNone}
	}

	pr := PatternResult{Type: target.Apply(c.Subst), Bindings: bindings, Coverage: CoverConstructor, ConstructorName: p.Name}

	if d, ok := c.Carriers.ForConstructor(p.Name); ok && d.IsEffectCtor(p.Name) && len(p.Args) == 1 {
		if innerCtor, ok := p.Args[0].(*ast.ConstructorPattern); ok {
			pr.EffectInner = innerCtor.Name
		}
	}
	return pr
}
