package infer

import (
	"github.com/arbor-lang/infercore/internal/ast"
	"github.com/arbor-lang/infercore/internal/mark"
	"github.com/arbor-lang/infercore/internal/tyenv"
	"github.com/arbor-lang/infercore/internal/types"
)

// inferFieldAccess resolves `e.f` (§4.5, §4.6). The target is first peeled
// of any carrier wrapping it; what's left must be a nominal record, a
// structural record, or a type variable with exactly one nominal-record
// candidate in scope.
func (c *Context) inferFieldAccess(env *tyenv.Env, nonGen *tyenv.NonGenSet, fa *ast.FieldAccess) types.Type {
	targetType := c.InferExpr(env, nonGen, fa.Target)
	targetType = c.collapseAllDomains(targetType)

	var carrierDomain string
	var carrierState types.Type
	if d, v, s, ok := c.Carriers.AsCarrier(targetType.Apply(c.Subst)); ok {
		carrierDomain = d.Domain
		carrierState = s
		targetType = v
	}

	resolved := targetType.Apply(c.Subst)

	var fieldType types.Type
	switch rt := resolved.(type) {
	case types.Constructor:
		info, ok := c.AdtEnv.Lookup(rt.Name)
		if !ok || !info.IsRecord() {
			c.Recorder.Add(mark.Mark{Reason: mark.NotRecord, Origin: fa.ID(), Name: fa.Field})
			return c.hole(fa.ID(), types.ProvNotRecord)
		}
		idx, ok := info.FieldIndex[fa.Field]
		if !ok {
			c.Recorder.Add(mark.Mark{Reason: mark.MissingField, Origin: fa.ID(), Name: fa.Field})
			return c.hole(fa.ID(), types.ProvMissingField)
		}
		scheme, ok := c.AdtEnv.ConstructorScheme(info.Constructors[0].Name)
		if ok {
			inst := scheme.Instantiate(c.Fresh)
			recordType := stripToResult(inst, len(info.Constructors[0].ArgTypes))
			if err := c.tryUnify(recordType, rt); err == nil {
				fieldType = argTypeAt(inst, idx)
			}
		}
		if fieldType == nil {
			fieldType = info.Constructors[0].ArgTypes[idx]
		}
	case types.Record:
		ft, ok := rt.Lookup(fa.Field)
		if !ok {
			c.Recorder.Add(mark.Mark{Reason: mark.MissingField, Origin: fa.ID(), Name: fa.Field})
			return c.hole(fa.ID(), types.ProvMissingField)
		}
		fieldType = ft
	case types.Var:
		candidates := c.AdtEnv.FindRecordsWithField(fa.Field)
		switch len(candidates) {
		case 1:
			info, _ := c.AdtEnv.Lookup(candidates[0])
			scheme, _ := c.AdtEnv.ConstructorScheme(info.Constructors[0].Name)
			inst := scheme.Instantiate(c.Fresh)
			recordType := stripToResult(inst, len(info.Constructors[0].ArgTypes))
			if err := c.tryUnify(resolved, recordType); err != nil {
				c.Recorder.Add(mark.Mark{Reason: mark.Inconsistent, Origin: fa.ID(), Name: fa.Field})
				return c.hole(fa.ID(), types.ProvInconsistent)
			}
			fieldType = argTypeAt(inst, info.FieldIndex[fa.Field])
		case 0:
			c.Recorder.Add(mark.Mark{Reason: mark.MissingField, Origin: fa.ID(), Name: fa.Field})
			return c.hole(fa.ID(), types.ProvMissingField)
		default:
			c.Recorder.Add(mark.Mark{Reason: mark.AmbiguousRecord, Origin: fa.ID(), Name: fa.Field})
			return c.hole(fa.ID(), types.ProvAmbiguousRecord)
		}
	default:
		c.Recorder.Add(mark.Mark{Reason: mark.NotRecord, Origin: fa.ID(), Name: fa.Field})
		return c.hole(fa.ID(), types.ProvNotRecord)
	}

	c.Stubs.Field(fa.ID(), fa.Field, fieldType)

	if carrierDomain != "" {
		fieldType = c.Carriers.Join(carrierDomain, fieldType, carrierState)
	}
	return c.record(fa.ID(), fieldType)
}

// stripToResult walks a curried Func chain arity levels deep and returns
// what remains — the constructor's result type, used to unify a record
// type's instantiated shape against the concrete type being projected on.
func stripToResult(t types.Type, arity int) types.Type {
	cur := t
	for i := 0; i < arity; i++ {
		fn, ok := cur.(types.Func)
		if !ok {
			return cur
		}
		cur = fn.To
	}
	return cur
}

// argTypeAt returns the idx'th parameter type of a curried Func chain.
func argTypeAt(t types.Type, idx int) types.Type {
	cur := t
	for i := 0; i < idx; i++ {
		fn, ok := cur.(types.Func)
		if !ok {
			return cur
		}
		cur = fn.To
	}
	fn, ok := cur.(types.Func)
	if !ok {
		return cur
	}
	return fn.From
}
