package infer

import (
	"github.com/arbor-lang/infercore/internal/ast"
	"github.com/arbor-lang/infercore/internal/decl"
	"github.com/arbor-lang/infercore/internal/mark"
	"github.com/arbor-lang/infercore/internal/rows"
	"github.com/arbor-lang/infercore/internal/tyenv"
	"github.com/arbor-lang/infercore/internal/types"
)

type branchClass string

const (
	branchOk        branchClass = "ok"
	branchErr       branchClass = "err"
	branchAllErrors branchClass = "all_errors"
	branchOther     branchClass = "other"
)

// InferMatch covers match, match-fn, and match-bundle-literal forms (§4.5,
// §4.7). A match-fn (non-empty Params) folds the match itself into a
// function over those parameters; a plain match infers its scrutinee
// directly.
func (c *Context) InferMatch(env *tyenv.Env, nonGen *tyenv.NonGenSet, m *ast.Match) types.Type {
	if len(m.Params) > 0 {
		return c.inferMatchFn(env, nonGen, m)
	}

	scrutineeType := c.InferExpr(env, nonGen, m.Scrutinee)
	result := c.inferMatchArms(env, nonGen, m, scrutineeType)
	return c.record(m.ID(), result)
}

func (c *Context) inferMatchFn(env *tyenv.Env, nonGen *tyenv.NonGenSet, m *ast.Match) types.Type {
	paramEnv := env.Push()
	paramTypes := make([]types.Type, len(m.Params))
	for i, p := range m.Params {
		var pt types.Type
		if p.Annotation != nil {
			bt, err := decl.BuildType(p.Annotation, decl.TypeParamScope{}, c.AdtEnv)
			if err != nil {
				c.markTypeExpr(m.ID(), p.Name)
			} else {
				pt = bt
			}
		}
		if pt == nil {
			pt = c.Fresh.Var()
		}
		paramTypes[i] = pt
		if p.Name != "" {
			paramEnv.Define(p.Name, types.Monotype(pt))
		}
	}

	var scrutineeType types.Type
	if len(paramTypes) == 1 {
		scrutineeType = paramTypes[0]
	} else {
		scrutineeType = types.Tuple{Elements: paramTypes}
	}

	resultType := c.inferMatchArms(paramEnv, nonGen, m, scrutineeType)

	fn := resultType
	for i := len(paramTypes) - 1; i >= 0; i-- {
		fn = types.Func{From: paramTypes[i], To: fn}
	}
	return c.record(m.ID(), fn)
}

// inferMatchArms runs the per-arm processing, exhaustiveness checking, and
// effect-row discharge described in §4.7 and returns the joined result type.
func (c *Context) inferMatchArms(env *tyenv.Env, nonGen *tyenv.NonGenSet, m *ast.Match, scrutineeType types.Type) types.Type {
	var resultType types.Type
	first := true

	sawWildcard := false
	sawAllErrors := false
	equalityOnly := true
	seenCtors := map[string]bool{}
	seenBoolTrue, seenBoolFalse := false, false
	var explicitErrLabels []string
	okBranchOrigins := []ast.NodeID{}

	for _, arm := range m.Arms {
		armEnv := env.Push()
		var branchType types.Type
		var coverage Coverage
		var ctorName string
		var effectInner string
		var armOrigin ast.NodeID

		if arm.BundleRef != "" {
			scheme, ok := env.Lookup(arm.BundleRef)
			if !ok {
				c.Recorder.Add(mark.Mark{Reason: mark.FreeVariable, Origin: m.ID(), Name: arm.BundleRef})
				branchType = c.hole(m.ID(), types.ProvFreeVariable)
			} else {
				inst := scheme.Instantiate(c.Fresh)
				resultVar := c.Fresh.Var()
				if err := c.tryUnify(inst, types.Func{From: scrutineeType, To: resultVar}); err != nil {
					c.Recorder.Add(mark.Mark{Reason: mark.Inconsistent, Origin: m.ID(), Name: arm.BundleRef})
					branchType = c.hole(m.ID(), types.ProvInconsistent)
				} else {
					branchType = resultVar.Apply(c.Subst)
				}
			}
			coverage = CoverWildcard // a bundle reference covers everything (§4.7)
			armOrigin = m.ID()
		} else {
			pr := c.InferPattern(armEnv, scrutineeType, arm.Pattern)
			for name, t := range pr.Bindings {
				armEnv.Define(name, types.Monotype(t))
			}
			branchType = c.InferExpr(armEnv, nonGen, arm.Body)
			coverage = pr.Coverage
			ctorName = pr.ConstructorName
			effectInner = pr.EffectInner
			armOrigin = arm.Pattern.ID()
		}

		class := c.classifyBranch(scrutineeType, ctorName, coverage)
		skip := (class == branchErr || class == branchAllErrors) && isStatementOnlyBlock(arm.Body)

		if !skip {
			if first {
				resultType = branchType
				first = false
			} else if err := c.tryUnify(resultType, branchType); err != nil {
				c.Recorder.Add(mark.Mark{Reason: mark.TypeMismatch, Origin: armOrigin})
			}
		}

		switch coverage {
		case CoverWildcard:
			sawWildcard = true
		case CoverAllErrors:
			sawAllErrors = true
		case CoverConstructor:
			seenCtors[ctorName] = true
			equalityOnly = false
		case CoverBool:
			equalityOnly = false
			// true/false coverage is tracked below by inspecting the
			// literal pattern's value.
		}
		if lp, ok := arm.Pattern.(*ast.LiteralPattern); ok && lp.Kind == ast.LitBool {
			if b, ok := lp.Value.(bool); ok {
				if b {
					seenBoolTrue = true
				} else {
					seenBoolFalse = true
				}
			}
		}

		if class == branchErr {
			explicitErrLabels = append(explicitErrLabels, ctorName)
			if effectInner != "" {
				explicitErrLabels = append(explicitErrLabels, effectInner)
			}
		}
		if class == branchOk {
			okBranchOrigins = append(okBranchOrigins, armOrigin)
		}
	}

	if resultType == nil {
		resultType = c.Fresh.Var()
	}

	c.checkExhaustiveness(m, scrutineeType, sawWildcard, sawAllErrors, equalityOnly, seenCtors, seenBoolTrue, seenBoolFalse)

	resultType = c.dischargeEffectRow(m, scrutineeType, resultType, sawAllErrors, explicitErrLabels, okBranchOrigins)

	c.trackNonGeneralizable(nonGen, scrutineeType, resultType)

	return resultType
}

func (c *Context) classifyBranch(scrutineeType types.Type, ctorName string, coverage Coverage) branchClass {
	if coverage == CoverAllErrors {
		return branchAllErrors
	}
	if coverage != CoverConstructor || ctorName == "" {
		return branchOther
	}
	d, _, _, ok := c.Carriers.AsCarrier(scrutineeType.Apply(c.Subst))
	if !ok {
		return branchOther
	}
	if d.ValueCtor == ctorName {
		return branchOk
	}
	if d.IsEffectCtor(ctorName) {
		return branchErr
	}
	return branchOther
}

// isStatementOnlyBlock reports whether body is a Block with no trailing
// result expression — such branches (used for side-effecting error logging,
// say) are excluded from the result-type join (§4.7).
func isStatementOnlyBlock(body ast.Expr) bool {
	blk, ok := body.(*ast.Block)
	return ok && blk.Result == nil
}

func (c *Context) checkExhaustiveness(m *ast.Match, scrutineeType types.Type, sawWildcard, sawAllErrors, equalityOnly bool, seenCtors map[string]bool, seenTrue, seenFalse bool) {
	if sawWildcard || sawAllErrors {
		return
	}
	resolved := scrutineeType.Apply(c.Subst)
	if _, ok := resolved.(types.Bool); ok {
		var missing []string
		if !seenTrue {
			missing = append(missing, "true")
		}
		if !seenFalse {
			missing = append(missing, "false")
		}
		if len(missing) > 0 {
			c.Recorder.Add(mark.Mark{Reason: mark.NonExhaustive, Origin: m.ID(), Missing: missing})
		}
		return
	}
	if ctor, ok := resolved.(types.Constructor); ok {
		if info, ok := c.AdtEnv.Lookup(ctor.Name); ok && !info.IsRecord() {
			var missing []string
			for _, name := range info.ConstructorNames() {
				if !seenCtors[name] {
					missing = append(missing, name)
				}
			}
			if len(missing) > 0 {
				c.Recorder.Add(mark.Mark{Reason: mark.NonExhaustive, Origin: m.ID(), Missing: missing})
			}
			return
		}
	}
	if equalityOnly {
		c.Recorder.Add(mark.Mark{Reason: mark.NonExhaustive, Origin: m.ID(), Hint: "_"})
	}
}

// dischargeEffectRow implements §4.7's effect-row discharge: if the
// scrutinee is a carrier, an all-errors branch (or exact explicit coverage)
// collapses the result to its bare value and rewrites ok branches to drop
// the label; partial explicit coverage records a diagnostic and re-wraps the
// result with only the unhandled labels; otherwise the result is
// carrier-threaded with the scrutinee's row.
func (c *Context) dischargeEffectRow(m *ast.Match, scrutineeType, resultType types.Type, sawAllErrors bool, explicitErrLabels []string, okOrigins []ast.NodeID) types.Type {
	d, _, state, ok := c.Carriers.AsCarrier(scrutineeType.Apply(c.Subst))
	if !ok {
		return resultType
	}
	row := rows.EnsureRow(state)
	resultIsSameCarrier := func() bool {
		_, _, _, ok := c.Carriers.AsCarrier(resultType.Apply(c.Subst))
		return ok
	}

	if sawAllErrors && !resultIsSameCarrier() {
		removed := make([]string, 0, len(row.Cases))
		for label := range row.Cases {
			removed = append(removed, label)
		}
		for _, origin := range okOrigins {
			c.Stubs.Rewrite(origin, removed, nil)
		}
		return resultType
	}

	if len(explicitErrLabels) > 0 {
		covered := map[string]bool{}
		for _, l := range explicitErrLabels {
			covered[l] = true
		}
		missing := []string{}
		for label := range row.Cases {
			if !covered[label] {
				missing = append(missing, label)
			}
		}
		if len(missing) == 0 && row.IsClosed() {
			for _, origin := range okOrigins {
				c.Stubs.Rewrite(origin, explicitErrLabels, nil)
			}
			return resultType
		}
		if len(missing) > 0 {
			c.Recorder.Add(mark.Mark{Reason: mark.ErrorRowPartialCoverage, Origin: m.ID(), Missing: missing})
			remaining := make(map[string]types.Type, len(missing))
			for _, label := range missing {
				remaining[label] = row.Cases[label]
			}
			row = types.EffectRow{Cases: remaining, Tail: row.Tail}
		}
	}

	// No discharge: carrier-thread the result with the (remaining) state.
	if existingD, v, existingState, ok := c.Carriers.AsCarrier(resultType.Apply(c.Subst)); ok && existingD.Domain == d.Domain {
		merged, s, err := c.Carriers.UnionStates(existingState, row, c.unifyFn())
		if err == nil {
			c.Subst = c.Subst.Compose(s)
			return c.Carriers.Join(d.Domain, v, merged)
		}
	}
	return c.Carriers.Join(d.Domain, resultType, row)
}

// trackNonGeneralizable adds every free variable of the result that doesn't
// appear in the scrutinee to the non-generalizable set, preventing
// premature generalization over variables that leaked through branch
// joining (§4.2, §4.7).
func (c *Context) trackNonGeneralizable(nonGen *tyenv.NonGenSet, scrutineeType, resultType types.Type) {
	scrutSet := map[types.VarID]bool{}
	for _, v := range scrutineeType.Apply(c.Subst).FreeVars() {
		scrutSet[v] = true
	}
	var escaped []types.VarID
	for _, v := range resultType.Apply(c.Subst).FreeVars() {
		if !scrutSet[v] {
			escaped = append(escaped, v)
		}
	}
	nonGen.Add(escaped...)
}
