package decl

import (
	"fmt"

	"github.com/arbor-lang/infercore/internal/ast"
	"github.com/arbor-lang/infercore/internal/types"
)

// TypeParamScope maps a declaration's in-source type parameter names to the
// fresh Vars standing in for them while building its constructors/annotations.
type TypeParamScope map[string]types.Var

// BuildType lowers a surface type annotation into a types.Type, resolving
// bare names against the primitive set, the given parameter scope, and
// finally the ADT env for nominal references. Unresolvable names produce an
// error rather than a mark — an unknown type name in an annotation is a
// parser/desugarer contract breach (§7, hard-error tier), since a
// well-formed input tree never names an undeclared type.
func BuildType(t ast.Type, scope TypeParamScope, env *Env) (types.Type, error) {
	switch tt := t.(type) {
	case nil:
		return nil, nil
	case *ast.TypeName:
		return buildTypeName(tt, scope, env)
	case *ast.TypeFunc:
		from, err := BuildType(tt.From, scope, env)
		if err != nil {
			return nil, err
		}
		to, err := BuildType(tt.To, scope, env)
		if err != nil {
			return nil, err
		}
		return types.Func{From: from, To: to}, nil
	case *ast.TypeTuple:
		elems := make([]types.Type, len(tt.Elements))
		for i, e := range tt.Elements {
			el, err := BuildType(e, scope, env)
			if err != nil {
				return nil, err
			}
			elems[i] = el
		}
		return types.Tuple{Elements: elems}, nil
	case *ast.TypeRecord:
		fields := make([]types.Field, len(tt.Fields))
		for i, f := range tt.Fields {
			ft, err := BuildType(f.Type, scope, env)
			if err != nil {
				return nil, err
			}
			fields[i] = types.Field{Name: f.Name, Type: ft}
		}
		return types.Record{Fields: fields}, nil
	default:
		return nil, fmt.Errorf("decl: unsupported type annotation node %T", t)
	}
}

func buildTypeName(tt *ast.TypeName, scope TypeParamScope, env *Env) (types.Type, error) {
	if v, ok := scope[tt.Name]; ok {
		return v, nil
	}
	switch tt.Name {
	case "Unit":
		return types.Unit{}, nil
	case "Bool":
		return types.Bool{}, nil
	case "Int":
		return types.Int{}, nil
	case "String":
		return types.String{}, nil
	}
	if _, ok := env.Lookup(tt.Name); !ok {
		return nil, fmt.Errorf("decl: reference to undeclared type %q", tt.Name)
	}
	args := make([]types.Type, len(tt.Args))
	for i, a := range tt.Args {
		at, err := BuildType(a, scope, env)
		if err != nil {
			return nil, err
		}
		args[i] = at
	}
	return types.Constructor{Name: tt.Name, Args: args}, nil
}
