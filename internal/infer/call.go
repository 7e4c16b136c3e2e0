package infer

import (
	"github.com/arbor-lang/infercore/internal/ast"
	"github.com/arbor-lang/infercore/internal/mark"
	"github.com/arbor-lang/infercore/internal/rows"
	"github.com/arbor-lang/infercore/internal/tyenv"
	"github.com/arbor-lang/infercore/internal/types"
)

// inferCall implements carrier-aware application (§4.4): the callee and
// each argument are collapsed, carriers that the callee's parameter doesn't
// itself expect are stripped and their state accumulated per domain, and
// once every argument is consumed the raw result is re-wrapped with each
// accumulated domain's merged state.
func (c *Context) inferCall(env *tyenv.Env, nonGen *tyenv.NonGenSet, call *ast.Call) types.Type {
	calleeType := c.InferExpr(env, nonGen, call.Callee)

	if len(call.Args) == 0 {
		resultVar := c.Fresh.Var()
		if err := c.tryUnify(calleeType, types.Func{From: types.Unit{}, To: resultVar}); err != nil {
			c.Recorder.Add(mark.Mark{Reason: mark.NotFunction, Origin: call.ID()})
			return c.hole(call.ID(), types.ProvNotFunction)
		}
		return c.record(call.ID(), resultVar.Apply(c.Subst))
	}

	argTypes := make([]types.Type, len(call.Args))
	for i, argExpr := range call.Args {
		argTypes[i] = c.InferExpr(env, nonGen, argExpr)
	}

	final := c.applyCarrierAware(call.ID(), calleeType, argTypes)
	c.Stubs.Call(call.ID(), final)
	return c.record(call.ID(), final)
}

// applyCarrierAware drives the carrier-threading algorithm of §4.4 over an
// already-resolved callee type and already-inferred argument types. inferCall
// uses it for an explicit call; the binary/unary operator path (§4.5,
// "desugar to a call on a reserved name") drives it directly with its
// already-inferred operand types so an operator composed with a
// carrier-returning call infects the result the same way an explicit call
// would.
func (c *Context) applyCarrierAware(origin ast.NodeID, calleeType types.Type, argTypes []types.Type) types.Type {
	domainStates := map[string]types.EffectRow{}

	calleeType = c.collapseAllDomains(calleeType)
	if d, v, s, ok := c.Carriers.AsCarrier(calleeType.Apply(c.Subst)); ok {
		c.mergeDomainState(domainStates, d.Domain, s)
		calleeType = v
	}

	cur := calleeType
	for _, argType := range argTypes {
		argType = c.collapseAllDomains(argType)

		paramExpectsCarrier := false
		if fn, ok := cur.Apply(c.Subst).(types.Func); ok {
			paramExpectsCarrier = c.isCarrierType(fn.From)
		}

		strippedArg := argType
		var strippedDomain string
		var strippedState types.EffectRow
		var hadCarrier bool
		if d, v, s, ok := c.Carriers.AsCarrier(argType.Apply(c.Subst)); ok {
			hadCarrier = true
			strippedDomain, strippedState = d.Domain, rows.EnsureRow(s)
			if !paramExpectsCarrier {
				strippedArg = v
			}
		}

		resultVar := c.Fresh.Var()
		err := c.tryUnify(cur, types.Func{From: strippedArg, To: resultVar})
		if err != nil && paramExpectsCarrier && hadCarrier {
			// Retry stripped as a fallback (§4.4 step 3).
			d, v, _, _ := c.Carriers.AsCarrier(argType.Apply(c.Subst))
			resultVar2 := c.Fresh.Var()
			if err2 := c.tryUnify(cur, types.Func{From: v, To: resultVar2}); err2 == nil {
				c.mergeDomainState(domainStates, d.Domain, strippedState)
				cur = resultVar2
				continue
			}
		}
		if err != nil {
			c.Recorder.Add(mark.Mark{Reason: mark.NotFunction, Origin: origin})
			cur = c.hole(origin, types.ProvNotFunction)
			continue
		}
		if hadCarrier && !paramExpectsCarrier {
			c.mergeDomainState(domainStates, strippedDomain, strippedState)
		}
		cur = resultVar
	}

	final := cur.Apply(c.Subst)
	for domain, state := range domainStates {
		if d, v, existing, ok := c.Carriers.AsCarrier(final); ok && d.Domain == domain {
			merged, s, err := c.Carriers.UnionStates(existing, state, c.unifyFn())
			if err == nil {
				c.Subst = c.Subst.Compose(s)
				final = c.Carriers.Join(domain, v, merged)
			}
		} else {
			final = c.Carriers.Join(domain, final, state)
		}
	}

	return final
}
