package infer

import (
	"github.com/arbor-lang/infercore/internal/ast"
	"github.com/arbor-lang/infercore/internal/decl"
	"github.com/arbor-lang/infercore/internal/mark"
	"github.com/arbor-lang/infercore/internal/tyenv"
	"github.com/arbor-lang/infercore/internal/types"
)

// inferArrow infers a lambda (§4.5): unannotated parameters get fresh
// variables, the body is inferred in a scope extended with them, and the
// result is the right-folded Func chain. A zero-parameter arrow becomes
// Unit -> body.
func (c *Context) inferArrow(env *tyenv.Env, nonGen *tyenv.NonGenSet, a *ast.Arrow) types.Type {
	bodyEnv := env.Push()

	paramTypes := make([]types.Type, len(a.Params))
	for i, p := range a.Params {
		var pt types.Type
		if p.Annotation != nil {
			bt, err := decl.BuildType(p.Annotation, decl.TypeParamScope{}, c.AdtEnv)
			if err != nil {
				c.markTypeExpr(a.ID(), p.Name)
				pt = c.Fresh.Var()
			} else {
				pt = bt
			}
		} else {
			pt = c.Fresh.Var()
		}
		paramTypes[i] = pt
		if p.Name != "" {
			bodyEnv.Define(p.Name, types.Monotype(pt))
		}
	}

	bodyType := c.InferExpr(bodyEnv, nonGen, a.Body)

	if a.ReturnAnnotation != nil {
		rt, err := decl.BuildType(a.ReturnAnnotation, decl.TypeParamScope{}, c.AdtEnv)
		if err != nil {
			c.markTypeExpr(a.ID(), "return")
		} else if uerr := c.tryUnify(bodyType, rt); uerr != nil {
			c.Recorder.Add(mark.Mark{Reason: mark.Inconsistent, Origin: a.ID()})
		}
	}

	result := bodyType
	if len(paramTypes) == 0 {
		result = types.Func{From: types.Unit{}, To: result}
	} else {
		for i := len(paramTypes) - 1; i >= 0; i-- {
			result = types.Func{From: paramTypes[i], To: result}
		}
	}
	return c.record(a.ID(), result)
}

// inferBlock infers a statement sequence (§4.5): a block without a trailing
// result expression has type Unit.
func (c *Context) inferBlock(env *tyenv.Env, nonGen *tyenv.NonGenSet, b *ast.Block) types.Type {
	blockEnv := env.Push()
	for _, stmt := range b.Stmts {
		switch {
		case stmt.Let != nil:
			c.inferLetInBlock(blockEnv, nonGen, stmt.Let)
		case stmt.PatternLet != nil:
			c.inferPatternLetInBlock(blockEnv, nonGen, stmt.PatternLet)
		case stmt.ExprOnly != nil:
			c.InferExpr(blockEnv, nonGen, stmt.ExprOnly)
		}
	}
	if b.Result == nil {
		return c.record(b.ID(), types.Unit{})
	}
	return c.record(b.ID(), c.InferExpr(blockEnv, nonGen, b.Result))
}

func (c *Context) inferLetInBlock(env *tyenv.Env, nonGen *tyenv.NonGenSet, ld *ast.LetDecl) {
	bodyType := c.inferLetBinding(env, nonGen, ld)
	scheme := tyenv.Generalize(bodyType, env, c.Subst, nonGen.Snapshot())
	env.Define(ld.Name, scheme)
}

func (c *Context) inferPatternLetInBlock(env *tyenv.Env, nonGen *tyenv.NonGenSet, pl *ast.PatternLetDecl) {
	valueType := c.InferExpr(env, nonGen, pl.Value)
	pr := c.InferPattern(env, valueType, pl.Pattern)
	for name, t := range pr.Bindings {
		env.Define(name, tyenv.Generalize(t, env, c.Subst, nonGen.Snapshot()))
	}
}

// inferLetBinding infers a single (non-mutual) let's value expression,
// unifying against its annotation if present, without generalizing —
// generalization is the caller's responsibility once the binding's own
// scope no longer shadows the name being defined (§4.2).
func (c *Context) inferLetBinding(env *tyenv.Env, nonGen *tyenv.NonGenSet, ld *ast.LetDecl) types.Type {
	var selfVar types.Type
	letEnv := env
	if ld.Recursive {
		letEnv = env.Push()
		selfVar = c.Fresh.Var()
		letEnv.Define(ld.Name, types.Monotype(selfVar))
	}
	bodyType := c.InferExpr(letEnv, nonGen, ld.Value)
	if ld.Recursive {
		if err := c.tryUnify(selfVar, bodyType); err != nil {
			c.Recorder.Add(mark.Mark{Reason: mark.Inconsistent, Origin: ld.ID(), Name: ld.Name})
		}
	}
	if ld.Annotation != nil {
		at, err := decl.BuildType(ld.Annotation, decl.TypeParamScope{}, c.AdtEnv)
		if err != nil {
			c.markTypeExpr(ld.ID(), ld.Name)
		} else if uerr := c.tryUnify(bodyType, at); uerr != nil {
			c.Recorder.Add(mark.Mark{Reason: mark.Inconsistent, Origin: ld.ID(), Name: ld.Name})
		}
	}
	return bodyType
}

func (c *Context) inferBinOp(env *tyenv.Env, nonGen *tyenv.NonGenSet, b *ast.BinOp) types.Type {
	leftType := c.InferExpr(env, nonGen, b.Left)
	rightType := c.InferExpr(env, nonGen, b.Right)

	switch {
	case decl.IsComparison(b.Op):
		c.Stubs.Numeric(b.ID(), leftType)
		if err := c.tryUnify(leftType, rightType); err != nil {
			c.Recorder.Add(mark.Mark{Reason: mark.Inconsistent, Origin: b.ID(), Name: b.Op})
		}
		return c.record(b.ID(), types.Bool{})
	case decl.IsLogical(b.Op):
		c.Stubs.Boolean(b.ID(), types.Bool{})
		if err := c.tryUnify(leftType, types.Bool{}); err != nil {
			c.Recorder.Add(mark.Mark{Reason: mark.Inconsistent, Origin: b.ID(), Name: b.Op})
		}
		if err := c.tryUnify(rightType, types.Bool{}); err != nil {
			c.Recorder.Add(mark.Mark{Reason: mark.Inconsistent, Origin: b.ID(), Name: b.Op})
		}
		return c.record(b.ID(), types.Bool{})
	default:
		implName := c.Ops.Infix(b.Op)
		scheme, ok := env.Lookup(implName)
		if !ok {
			c.Recorder.Add(mark.Mark{Reason: mark.FreeVariable, Origin: b.ID(), Name: implName})
			return c.hole(b.ID(), types.ProvFreeVariable)
		}
		fnType := scheme.Instantiate(c.Fresh)
		result := c.applyCarrierAware(b.ID(), fnType, []types.Type{leftType, rightType})
		return c.record(b.ID(), result)
	}
}

func (c *Context) inferUnaryOp(env *tyenv.Env, nonGen *tyenv.NonGenSet, u *ast.UnaryOp) types.Type {
	operandType := c.InferExpr(env, nonGen, u.Operand)
	implName := c.Ops.Prefix(u.Op)
	scheme, ok := env.Lookup(implName)
	if !ok {
		c.Recorder.Add(mark.Mark{Reason: mark.FreeVariable, Origin: u.ID(), Name: implName})
		return c.hole(u.ID(), types.ProvFreeVariable)
	}
	fnType := scheme.Instantiate(c.Fresh)
	result := c.applyCarrierAware(u.ID(), fnType, []types.Type{operandType})
	return c.record(u.ID(), result)
}
