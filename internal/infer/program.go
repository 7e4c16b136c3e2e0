package infer

import (
	"github.com/arbor-lang/infercore/internal/ast"
	"github.com/arbor-lang/infercore/internal/mark"
	"github.com/arbor-lang/infercore/internal/tyenv"
	"github.com/arbor-lang/infercore/internal/types"
)

// Summary is one top-level let binding's final, generalized scheme (§6,
// "summaries: the sequence of top-level let bindings with their final
// schemes").
type Summary struct {
	Name   string
	Scheme types.Scheme
}

// InferProgram infers every let/pattern-let declaration in prog in source
// order against env, which must already have every type/carrier/operator
// declaration registered (decl.Register runs before this). Type, infectious,
// and operator declarations are skipped here — they carry no runtime value
// binding to infer.
func (c *Context) InferProgram(env *tyenv.Env, prog *ast.Program) []Summary {
	var summaries []Summary
	processed := map[string]bool{}

	for _, d := range prog.Declarations {
		ld, ok := d.(*ast.LetDecl)
		if !ok {
			if pl, ok := d.(*ast.PatternLetDecl); ok {
				c.inferTopLevelPatternLet(env, pl)
			}
			continue
		}
		if processed[ld.Name] {
			continue
		}

		if len(ld.MutualGroup) > 0 {
			group := c.collectMutualGroup(prog, ld, processed)
			summaries = append(summaries, c.inferMutualGroup(env, group)...)
			continue
		}

		nonGen := tyenv.NewNonGenSet()
		bodyType := c.inferLetBinding(env, nonGen, ld)
		scheme := tyenv.Generalize(bodyType, env, c.Subst, nonGen.Snapshot())
		env.Define(ld.Name, scheme)
		processed[ld.Name] = true
		summaries = append(summaries, Summary{Name: ld.Name, Scheme: scheme})
	}

	return summaries
}

// collectMutualGroup gathers every not-yet-processed top-level LetDecl
// named in ld's MutualGroup, in declaration order, alongside ld itself.
func (c *Context) collectMutualGroup(prog *ast.Program, ld *ast.LetDecl, processed map[string]bool) []*ast.LetDecl {
	names := map[string]bool{ld.Name: true}
	for _, n := range ld.MutualGroup {
		names[n] = true
	}
	var group []*ast.LetDecl
	for _, d := range prog.Declarations {
		other, ok := d.(*ast.LetDecl)
		if !ok || processed[other.Name] || !names[other.Name] {
			continue
		}
		group = append(group, other)
	}
	return group
}

// inferMutualGroup implements §4.2's mutual-recursion rule: every sibling is
// pre-bound to a fresh variable, each body is inferred against a scope
// carrying all the pre-bindings, each body is unified with its own
// pre-binding, and only then are the bindings generalized — against the
// *outer* env, which never saw the pre-bindings, so none of the group's own
// variables are captured as "free in the environment".
func (c *Context) inferMutualGroup(outerEnv *tyenv.Env, group []*ast.LetDecl) []Summary {
	groupEnv := outerEnv.Push()
	preVars := make(map[string]types.Type, len(group))
	for _, ld := range group {
		v := c.Fresh.Var()
		preVars[ld.Name] = v
		groupEnv.Define(ld.Name, types.Monotype(v))
	}

	bodyTypes := make(map[string]types.Type, len(group))
	for _, ld := range group {
		nonGen := tyenv.NewNonGenSet()
		bodyType := c.InferExpr(groupEnv, nonGen, ld.Value)
		if err := c.tryUnify(preVars[ld.Name], bodyType); err != nil {
			c.Recorder.Add(mark.Mark{Reason: mark.Inconsistent, Origin: ld.ID(), Name: ld.Name})
		}
		bodyTypes[ld.Name] = bodyType
	}

	var summaries []Summary
	for _, ld := range group {
		scheme := tyenv.Generalize(preVars[ld.Name], outerEnv, c.Subst, map[types.VarID]bool{})
		outerEnv.Define(ld.Name, scheme)
		summaries = append(summaries, Summary{Name: ld.Name, Scheme: scheme})
	}
	return summaries
}

func (c *Context) inferTopLevelPatternLet(env *tyenv.Env, pl *ast.PatternLetDecl) {
	nonGen := tyenv.NewNonGenSet()
	valueType := c.InferExpr(env, nonGen, pl.Value)
	pr := c.InferPattern(env, valueType, pl.Pattern)
	for name, t := range pr.Bindings {
		env.Define(name, tyenv.Generalize(t, env, c.Subst, nonGen.Snapshot()))
	}
}
