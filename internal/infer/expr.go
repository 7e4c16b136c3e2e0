package infer

import (
	"github.com/arbor-lang/infercore/internal/ast"
	"github.com/arbor-lang/infercore/internal/decl"
	"github.com/arbor-lang/infercore/internal/mark"
	"github.com/arbor-lang/infercore/internal/rows"
	"github.com/arbor-lang/infercore/internal/tyenv"
	"github.com/arbor-lang/infercore/internal/types"
)

// InferExpr dispatches on the expression's concrete form and returns its
// resolved type, recording it in the node map along the way (§4.5). Soft
// failures never abort: they record a mark and return an Unknown hole so
// the rest of the program keeps getting useful types.
func (c *Context) InferExpr(env *tyenv.Env, nonGen *tyenv.NonGenSet, e ast.Expr) types.Type {
	switch ex := e.(type) {
	case *ast.Identifier:
		return c.inferIdentifier(env, ex)
	case *ast.Literal:
		return c.inferLiteral(ex)
	case *ast.Hole:
		return c.hole(ex.ID(), types.ProvExprHole)
	case *ast.ConstructorApp:
		return c.inferConstructorApp(env, nonGen, ex)
	case *ast.TupleExpr:
		return c.inferTupleExpr(env, nonGen, ex)
	case *ast.RecordLiteral:
		return c.inferRecordLiteral(env, nonGen, ex)
	case *ast.FieldAccess:
		return c.inferFieldAccess(env, nonGen, ex)
	case *ast.Call:
		return c.inferCall(env, nonGen, ex)
	case *ast.Arrow:
		return c.inferArrow(env, nonGen, ex)
	case *ast.Block:
		return c.inferBlock(env, nonGen, ex)
	case *ast.BinOp:
		return c.inferBinOp(env, nonGen, ex)
	case *ast.UnaryOp:
		return c.inferUnaryOp(env, nonGen, ex)
	case *ast.Match:
		return c.InferMatch(env, nonGen, ex)
	default:
		panicHard("infer: unsupported expression node %T", e)
		return nil // unreachable
	}
}

func (c *Context) inferIdentifier(env *tyenv.Env, id *ast.Identifier) types.Type {
	scheme, ok := env.Lookup(id.Name)
	if !ok {
		c.Recorder.Add(mark.Mark{Reason: mark.FreeVariable, Origin: id.ID(), Name: id.Name})
		return c.hole(id.ID(), types.ProvFreeVariable)
	}
	return c.record(id.ID(), scheme.Instantiate(c.Fresh))
}

func (c *Context) inferLiteral(lit *ast.Literal) types.Type {
	switch lit.Kind {
	case ast.LitUnit:
		return c.record(lit.ID(), types.Unit{})
	case ast.LitBool:
		return c.record(lit.ID(), types.Bool{})
	case ast.LitInt:
		return c.record(lit.ID(), types.Int{})
	case ast.LitString:
		return c.record(lit.ID(), types.String{})
	default:
		panicHard("infer: unsupported literal kind %v", lit.Kind)
		return nil
	}
}

// inferConstructorApp instantiates the named constructor's scheme, folds
// argument unification over it, and — when the constructor is an effect
// carrier's own effect constructor applied to another constructor
// expression — refines the resulting state row with that inner
// constructor's name as a new effect label (§4.5, "Infectious refinement").
func (c *Context) inferConstructorApp(env *tyenv.Env, nonGen *tyenv.NonGenSet, ca *ast.ConstructorApp) types.Type {
	scheme, ok := c.AdtEnv.ConstructorScheme(ca.Name)
	if !ok {
		c.Recorder.Add(mark.Mark{Reason: mark.FreeVariable, Origin: ca.ID(), Name: ca.Name})
		return c.hole(ca.ID(), types.ProvFreeVariable)
	}

	cur := scheme.Instantiate(c.Fresh)
	for _, argExpr := range ca.Args {
		argType := c.InferExpr(env, nonGen, argExpr)
		resultVar := c.Fresh.Var()
		if err := c.tryUnify(cur, types.Func{From: argType, To: resultVar}); err != nil {
			c.Recorder.Add(mark.Mark{Reason: mark.Inconsistent, Origin: ca.ID(), Name: ca.Name})
			return c.hole(ca.ID(), types.ProvInconsistent)
		}
		cur = resultVar
	}

	result := cur.Apply(c.Subst)
	if _, isFunc := result.(types.Func); isFunc {
		c.Recorder.Add(mark.Mark{Reason: mark.NotFunction, Origin: ca.ID(), Name: ca.Name})
		return c.hole(ca.ID(), types.ProvNotFunction)
	}

	if d, ok := c.Carriers.ForConstructor(ca.Name); ok && d.IsEffectCtor(ca.Name) && len(ca.Args) == 1 {
		if innerCa, ok := ca.Args[0].(*ast.ConstructorApp); ok {
			if cTor, ok := result.(types.Constructor); ok && cTor.Name == d.TypeName && len(cTor.Args) == 2 {
				value, state, err := c.Carriers.Split(d.Domain, result, c.unifyFn())
				if err == nil {
					row := rows.EnsureRow(state)
					cases := make(map[string]types.Type, len(row.Cases)+1)
					for k, v := range row.Cases {
						cases[k] = v
					}
					if _, exists := cases[innerCa.Name]; !exists {
						cases[innerCa.Name] = nil
					}
					result = c.Carriers.Join(d.Domain, value, types.EffectRow{Cases: cases, Tail: row.Tail})
					c.Stubs.Source(ca.ID(), innerCa.Name)
				}
			}
		}
	}

	return c.record(ca.ID(), result)
}

func (c *Context) inferTupleExpr(env *tyenv.Env, nonGen *tyenv.NonGenSet, t *ast.TupleExpr) types.Type {
	elems := make([]types.Type, len(t.Elements))
	for i, e := range t.Elements {
		elems[i] = c.InferExpr(env, nonGen, e)
	}
	return c.record(t.ID(), types.Tuple{Elements: elems})
}

// inferRecordLiteral searches for a unique nominal record type whose field
// set is a superset of the literal's fields (§4.6). Missing fields on the
// matched type become Unknown holes. An ambiguous match records an
// AmbiguousRecord mark and falls back to a structural record; no match falls
// back to a structural record without recording a mark.
func (c *Context) inferRecordLiteral(env *tyenv.Env, nonGen *tyenv.NonGenSet, rl *ast.RecordLiteral) types.Type {
	fieldTypes := map[string]types.Type{}
	order := make([]string, 0, len(rl.Fields))
	seen := map[string]bool{}
	for _, f := range rl.Fields {
		if seen[f.Name] {
			c.Recorder.Add(mark.Mark{Reason: mark.DuplicateRecordField, Origin: rl.ID(), Name: f.Name})
			continue
		}
		seen[f.Name] = true
		order = append(order, f.Name)
		fieldTypes[f.Name] = c.InferExpr(env, nonGen, f.Value)
	}

	candidates := c.candidateRecordsFor(order)
	switch len(candidates) {
	case 1:
		info := candidates[0]
		argTypes := make([]types.Type, len(info.FieldOrder))
		for i, name := range info.FieldOrder {
			if v, ok := fieldTypes[name]; ok {
				argTypes[i] = v
			} else {
				argTypes[i] = c.hole(rl.ID(), types.ProvMissingField)
			}
		}
		ctorName := info.Constructors[0].Name
		scheme, ok := c.AdtEnv.ConstructorScheme(ctorName)
		if !ok {
			break
		}
		cur := scheme.Instantiate(c.Fresh)
		for _, at := range argTypes {
			resultVar := c.Fresh.Var()
			if err := c.tryUnify(cur, types.Func{From: at, To: resultVar}); err != nil {
				c.Recorder.Add(mark.Mark{Reason: mark.Inconsistent, Origin: rl.ID(), Name: ctorName})
				return c.hole(rl.ID(), types.ProvInconsistent)
			}
			cur = resultVar
		}
		return c.record(rl.ID(), cur)
	case 0:
		// no match — fall through to structural
	default:
		c.Recorder.Add(mark.Mark{Reason: mark.AmbiguousRecord, Origin: rl.ID()})
	}

	fields := make([]types.Field, len(order))
	for i, name := range order {
		fields[i] = types.Field{Name: name, Type: fieldTypes[name]}
	}
	return c.record(rl.ID(), types.Record{Fields: fields})
}

// candidateRecordsFor returns every registered nominal record type whose
// field set is a superset of fieldNames.
func (c *Context) candidateRecordsFor(fieldNames []string) []*decl.TypeInfo {
	var out []*decl.TypeInfo
	for _, info := range c.AdtEnv.All() {
		if !info.IsRecord() {
			continue
		}
		ok := true
		for _, f := range fieldNames {
			if _, has := info.FieldIndex[f]; !has {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, info)
		}
	}
	return out
}
