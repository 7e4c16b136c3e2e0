package decl

import (
	"testing"

	"github.com/arbor-lang/infercore/internal/ast"
	"github.com/arbor-lang/infercore/internal/carrier"
	"github.com/arbor-lang/infercore/internal/mark"
	"github.com/arbor-lang/infercore/internal/types"
)

func idNode(id string) ast.NodeID { return ast.NodeID(id) }

type fakeBase struct{ id ast.NodeID }

func (f fakeBase) ID() ast.NodeID { return f.id }

func typeDecl(id, name string, ctors []ast.ConstructorSpec) *ast.TypeDecl {
	td := &ast.TypeDecl{Name: name, Constructors: ctors}
	td.Node = idNode(id)
	return td
}

func TestRegisterPlainADTConstructors(t *testing.T) {
	prog := &ast.Program{Declarations: []ast.Decl{
		typeDecl("t1", "Option", []ast.ConstructorSpec{
			{Name: "Some", ArgTypes: []ast.Type{&ast.TypeName{Name: "Int"}}},
			{Name: "None"},
		}),
	}}
	env := NewEnv()
	carriers := carrier.New()
	fresh := types.NewFresh(0)
	rec := mark.NewRecorder()

	Register(prog, env, carriers, fresh, rec)

	info, ok := env.Lookup("Option")
	if !ok {
		t.Fatalf("Option not registered")
	}
	if len(info.Constructors) != 2 {
		t.Fatalf("expected 2 constructors, got %d", len(info.Constructors))
	}
	owner, ok := env.OwnerOf("Some")
	if !ok || owner.Name != "Option" {
		t.Fatalf("Some not owned by Option")
	}
	scheme, ok := env.ConstructorScheme("Some")
	if !ok {
		t.Fatalf("missing scheme for Some")
	}
	if _, isFunc := scheme.Body.(types.Func); !isFunc {
		t.Fatalf("Some scheme body should be a function, got %T", scheme.Body)
	}
	if len(rec.Marks()) != 0 {
		t.Fatalf("expected no marks, got %v", rec.Marks())
	}
}

func TestRegisterRecordType(t *testing.T) {
	prog := &ast.Program{Declarations: []ast.Decl{
		typeDecl("t1", "Point", []ast.ConstructorSpec{
			{Fields: []ast.RecordFieldSpec{
				{Name: "x", Type: &ast.TypeName{Name: "Int"}},
				{Name: "y", Type: &ast.TypeName{Name: "Int"}},
			}},
		}),
	}}
	env := NewEnv()
	Register(prog, env, carrier.New(), types.NewFresh(0), mark.NewRecorder())

	info, ok := env.Lookup("Point")
	if !ok || !info.IsRecord() {
		t.Fatalf("Point not registered as a record")
	}
	if info.FieldIndex["y"] != 1 {
		t.Fatalf("expected y at index 1, got %d", info.FieldIndex["y"])
	}
}

func TestRegisterDuplicateTypeNameMarks(t *testing.T) {
	first := typeDecl("t1", "Dup", []ast.ConstructorSpec{{Name: "A"}})
	second := typeDecl("t2", "Dup", []ast.ConstructorSpec{{Name: "B"}})
	prog := &ast.Program{Declarations: []ast.Decl{first, second}}

	env := NewEnv()
	rec := mark.NewRecorder()
	Register(prog, env, carrier.New(), types.NewFresh(0), rec)

	marks := rec.Marks()
	if len(marks) != 1 || marks[0].Reason != mark.DuplicateTypeDecl {
		t.Fatalf("expected one DuplicateTypeDecl mark, got %v", marks)
	}
	info, _ := env.Lookup("Dup")
	if len(info.Constructors) != 1 || info.Constructors[0].Name != "A" {
		t.Fatalf("expected the first declaration to win, got %+v", info.Constructors)
	}
}

func TestRegisterCombinedCarrierSyntax(t *testing.T) {
	td := typeDecl("t1", "IResult", []ast.ConstructorSpec{
		{Name: "IOk", ArgTypes: []ast.Type{&ast.TypeName{Name: "Int"}}, CarrierRole: ast.CarrierRoleValue},
		{Name: "IErr", ArgTypes: []ast.Type{&ast.TypeName{Name: "String"}}, CarrierRole: ast.CarrierRoleEffect},
	})
	td.IsCarrier = true
	td.CarrierDomain = "effect"
	prog := &ast.Program{Declarations: []ast.Decl{td}}

	carriers := carrier.New()
	Register(prog, NewEnv(), carriers, types.NewFresh(0), mark.NewRecorder())

	d, ok := carriers.ByDomain("effect")
	if !ok {
		t.Fatalf("effect carrier not registered")
	}
	if d.ValueCtor != "IOk" || !d.IsEffectCtor("IErr") {
		t.Fatalf("carrier descriptor wrong: %+v", d)
	}
}

func TestRegisterLegacyCarrierFromSeededEnv(t *testing.T) {
	seed := NewEnv()
	seed.Define(&TypeInfo{Name: "Result", Constructors: []CtorInfo{{Name: "Ok"}, {Name: "Err"}}})

	env := NewEnv()
	env.Seed(seed)

	legacy := &ast.InfectiousDecl{Domain: "effect", TypeName: "Result"}
	legacy.Node = idNode("t1")
	prog := &ast.Program{Declarations: []ast.Decl{legacy}}

	carriers := carrier.New()
	Register(prog, env, carriers, types.NewFresh(0), mark.NewRecorder())

	d, ok := carriers.ByDomain("effect")
	if !ok {
		t.Fatalf("legacy carrier not registered")
	}
	if d.ValueCtor != "Ok" || !d.IsEffectCtor("Err") {
		t.Fatalf("legacy carrier descriptor wrong: %+v", d)
	}
}

func TestRegisterOperatorDeclarations(t *testing.T) {
	prog := &ast.Program{Declarations: []ast.Decl{
		&ast.OperatorDecl{Symbol: "+", Prefix: false, ImplName: "add"},
		&ast.OperatorDecl{Symbol: "-", Prefix: true, ImplName: "negate"},
	}}
	ops := Register(prog, NewEnv(), carrier.New(), types.NewFresh(0), mark.NewRecorder())

	if ops.Infix("+") != "add" {
		t.Fatalf("expected + -> add, got %s", ops.Infix("+"))
	}
	if ops.Prefix("-") != "negate" {
		t.Fatalf("expected - -> negate, got %s", ops.Prefix("-"))
	}
	if ops.Infix("*") != "__op_*" {
		t.Fatalf("expected fallback name, got %s", ops.Infix("*"))
	}
}

func TestRegisterMutualRecursiveTypeReferences(t *testing.T) {
	even := typeDecl("t1", "EvenList", []ast.ConstructorSpec{
		{Name: "ENil"},
		{Name: "ECons", ArgTypes: []ast.Type{&ast.TypeName{Name: "Int"}, &ast.TypeName{Name: "OddList"}}},
	})
	odd := typeDecl("t2", "OddList", []ast.ConstructorSpec{
		{Name: "OCons", ArgTypes: []ast.Type{&ast.TypeName{Name: "Int"}, &ast.TypeName{Name: "EvenList"}}},
	})
	prog := &ast.Program{Declarations: []ast.Decl{even, odd}}

	env := NewEnv()
	Register(prog, env, carrier.New(), types.NewFresh(0), mark.NewRecorder())

	scheme, ok := env.ConstructorScheme("ECons")
	if !ok {
		t.Fatalf("ECons scheme missing")
	}
	fn, ok := scheme.Body.(types.Func)
	if !ok {
		t.Fatalf("ECons body should be a function")
	}
	fn2, ok := fn.To.(types.Func)
	if !ok {
		t.Fatalf("ECons should be 2-arity")
	}
	if _, ok := fn2.From.(types.Constructor); !ok {
		t.Fatalf("ECons second argument should reference OddList, got %T", fn2.From)
	}
}
