package decl

import (
	"github.com/arbor-lang/infercore/internal/ast"
	"github.com/arbor-lang/infercore/internal/carrier"
	"github.com/arbor-lang/infercore/internal/mark"
	"github.com/arbor-lang/infercore/internal/types"
)

// Register runs the three ordered declaration sub-passes (§2, §4): register
// infectious carriers, then type names (so mutually recursive ADTs can
// reference each other), then constructors. It also builds the operator
// table from infix/prefix declarations. Duplicate type names produce a
// top-level DuplicateTypeDecl mark rather than aborting (§3, "top-level
// marks for duplicate type declarations").
func Register(prog *ast.Program, adtEnv *Env, carriers *carrier.Registry, fresh *types.Fresh, recorder *mark.Recorder) *OperatorTable {
	ops := NewOperatorTable()

	// Pass 1: infectious carriers. Combined syntax tags roles directly on
	// the TypeDecl's constructors, so only constructor *names* are needed —
	// no type-building dependency on later passes.
	for _, d := range prog.Declarations {
		switch td := d.(type) {
		case *ast.TypeDecl:
			if td.IsCarrier {
				registerCombinedCarrier(td, carriers)
			}
		case *ast.InfectiousDecl:
			registerLegacyCarrier(td, adtEnv, carriers)
		}
	}

	// Pass 2: type names, so forward/mutual references resolve during pass 3.
	seenNames := map[string]bool{}
	firstDecl := map[string]*ast.TypeDecl{}
	var typeDecls []*ast.TypeDecl
	for _, d := range prog.Declarations {
		td, ok := d.(*ast.TypeDecl)
		if !ok {
			continue
		}
		typeDecls = append(typeDecls, td)
		if seenNames[td.Name] {
			recorder.Add(mark.Mark{Reason: mark.DuplicateTypeDecl, Origin: td.ID(), Name: td.Name})
			continue
		}
		seenNames[td.Name] = true
		firstDecl[td.Name] = td

		kind := KindADT
		if td.IsAlias {
			kind = KindAlias
		}
		params := make([]types.VarID, len(td.TypeParams))
		scope := TypeParamScope{}
		for i, p := range td.TypeParams {
			v := fresh.Var()
			params[i] = v.ID
			scope[p] = v
		}
		adtEnv.Define(&TypeInfo{Name: td.Name, Kind: kind, TypeParams: params})
	}

	// Pass 3: constructors (and alias bodies), now that every name resolves.
	for _, td := range typeDecls {
		if firstDecl[td.Name] != td {
			continue // duplicate, already marked; keep the first registration
		}
		info, _ := adtEnv.Lookup(td.Name)
		if info == nil || len(info.Constructors) > 0 || info.AliasOf != nil {
			continue // already filled in by an earlier (first) declaration of this name
		}
		scope := TypeParamScope{}
		for i, p := range td.TypeParams {
			scope[p] = types.Var{ID: info.TypeParams[i]}
		}

		if td.IsAlias {
			body, err := BuildType(td.AliasOf, scope, adtEnv)
			if err == nil {
				info.AliasOf = body
			}
			continue
		}

		resultArgs := make([]types.Type, len(info.TypeParams))
		for i, id := range info.TypeParams {
			resultArgs[i] = types.Var{ID: id}
		}
		resultType := types.Type(types.Constructor{Name: td.Name, Args: resultArgs})
		if len(resultArgs) == 0 {
			resultType = types.Constructor{Name: td.Name}
		}

		registerConstructors(td, info, scope, resultType, adtEnv)
	}

	// Operator declarations.
	for _, d := range prog.Declarations {
		if od, ok := d.(*ast.OperatorDecl); ok {
			ops.Define(od.Symbol, od.Prefix, od.ImplName)
		}
	}

	return ops
}

func registerCombinedCarrier(td *ast.TypeDecl, carriers *carrier.Registry) {
	d := &carrier.Descriptor{Domain: td.CarrierDomain, TypeName: td.Name}
	for _, c := range td.Constructors {
		switch c.CarrierRole {
		case ast.CarrierRoleValue:
			d.ValueCtor = c.Name
		case ast.CarrierRoleEffect:
			d.EffectCtors = append(d.EffectCtors, c.Name)
		}
	}
	carriers.Register(d)
}

// registerLegacyCarrier canonicalizes the standalone `infectious` syntax
// into the same registration path as the combined syntax (§9, "a port
// should canonicalize at parse time and have one registration path" — we
// canonicalize here instead, since parsing itself is out of scope). The
// legacy form names an already-declared type, so its constructor roles are
// inferred positionally: its first constructor is the value arm, every
// other constructor is an effect arm. This only works for types seeded via
// initialAdtEnv/the prelude (already fully registered before this program's
// own pass 2/3 run) — a legacy declaration naming one of *this* program's
// own types is a degenerate case the combined syntax exists to avoid.
func registerLegacyCarrier(id *ast.InfectiousDecl, adtEnv *Env, carriers *carrier.Registry) {
	info, ok := adtEnv.Lookup(id.TypeName)
	if !ok || len(info.Constructors) == 0 {
		return
	}
	d := &carrier.Descriptor{Domain: id.Domain, TypeName: id.TypeName, ValueCtor: info.Constructors[0].Name}
	for _, c := range info.Constructors[1:] {
		d.EffectCtors = append(d.EffectCtors, c.Name)
	}
	carriers.Register(d)
}

func registerConstructors(td *ast.TypeDecl, info *TypeInfo, scope TypeParamScope, resultType types.Type, adtEnv *Env) {
	if len(td.Constructors) == 1 && td.Constructors[0].Fields != nil {
		registerRecord(td, info, scope, resultType, adtEnv)
		return
	}
	for _, c := range td.Constructors {
		argTypes := make([]types.Type, len(c.ArgTypes))
		for i, a := range c.ArgTypes {
			bt, err := BuildType(a, scope, adtEnv)
			if err != nil {
				continue
			}
			argTypes[i] = bt
		}
		info.Constructors = append(info.Constructors, CtorInfo{Name: c.Name, Arity: len(argTypes), ArgTypes: argTypes})

		body := resultType
		for i := len(argTypes) - 1; i >= 0; i-- {
			body = types.Func{From: argTypes[i], To: body}
		}
		adtEnv.DefineConstructorScheme(c.Name, types.Scheme{Vars: info.TypeParams, Body: body})
	}
	adtEnv.Define(info)
}

func registerRecord(td *ast.TypeDecl, info *TypeInfo, scope TypeParamScope, resultType types.Type, adtEnv *Env) {
	c := td.Constructors[0]
	argTypes := make([]types.Type, len(c.Fields))
	order := make([]string, len(c.Fields))
	index := make(map[string]int, len(c.Fields))
	for i, f := range c.Fields {
		bt, err := BuildType(f.Type, scope, adtEnv)
		if err != nil {
			continue
		}
		argTypes[i] = bt
		order[i] = f.Name
		index[f.Name] = i
	}
	ctorName := c.Name
	if ctorName == "" {
		ctorName = td.Name
	}
	info.Constructors = append(info.Constructors, CtorInfo{Name: ctorName, Arity: len(argTypes), ArgTypes: argTypes})
	info.FieldOrder = order
	info.FieldIndex = index

	body := resultType
	for i := len(argTypes) - 1; i >= 0; i-- {
		body = types.Func{From: argTypes[i], To: body}
	}
	adtEnv.DefineConstructorScheme(ctorName, types.Scheme{Vars: info.TypeParams, Body: body})
	adtEnv.Define(info)
}
