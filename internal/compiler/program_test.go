package compiler

import (
	"testing"

	"github.com/larkscript/jsc/internal/ast"
	"github.com/larkscript/jsc/internal/bytecode"
	"github.com/larkscript/jsc/internal/config"
)

func mustIdent(name string) *ast.Identifier { return ast.NewIdentifier(0, name) }

func TestCompileTopLevelVarDeclaration(t *testing.T) {
	decl := &ast.VariableDeclaration{
		Base:    ast.NewBase(ast.KindVariableDeclaration, 0),
		VarKind: ast.VarVar,
		Declarators: []*ast.VariableDeclarator{
			{Base: ast.NewBase(ast.KindVariableDeclarator, 0), ID: mustIdent("x"), Init: ast.NewLiteral(0, 1.0)},
		},
	}
	prog := ast.NewProgram(0, []ast.Node{decl}, 0)

	out := Compile(prog, config.Default())
	if out.Top == nil {
		t.Fatal("expected a non-nil top-level chunk")
	}
	if len(out.Top.Code) == 0 {
		t.Fatal("expected some bytecode to be emitted for a top-level declaration")
	}
	if len(out.Subs) != 0 {
		t.Fatalf("expected no nested function scopes, got %d", len(out.Subs))
	}
}

func TestCompileNestedFunctionProducesItsOwnChunk(t *testing.T) {
	fn := &ast.FunctionDeclaration{
		Base: ast.NewBase(ast.KindFunctionDeclaration, 0),
		Name: "f",
		Params: []ast.Param{{Pattern: mustIdent("a")}},
		Body: &ast.BlockStatement{
			Base: ast.NewBase(ast.KindBlockStatement, 0),
			Body: []ast.Node{
				&ast.ReturnStatement{Base: ast.NewBase(ast.KindReturnStatement, 0), Argument: mustIdent("a")},
			},
		},
	}
	prog := ast.NewProgram(0, []ast.Node{fn}, 0)

	out := Compile(prog, config.Default())
	if len(out.Subs) != 1 {
		t.Fatalf("expected exactly one nested chunk, got %d", len(out.Subs))
	}
	if fn.CodeBlock != 0 {
		t.Fatalf("expected fn.CodeBlock == 0, got %d", fn.CodeBlock)
	}
	sub := out.Subs[fn.CodeBlock]
	if len(sub.Code) == 0 {
		t.Fatal("expected the function body to emit bytecode")
	}
	if sub.PeekOpcode(0) != bytecode.OpGetParameter {
		t.Fatalf("expected the parameter-binding prologue to open with get_parameter, got %v", sub.PeekOpcode(0))
	}
}

func TestCompileDoublyNestedFunctionChainsEnclosing(t *testing.T) {
	inner := &ast.FunctionDeclaration{
		Base: ast.NewBase(ast.KindFunctionDeclaration, 0),
		Name: "inner",
		Body: &ast.BlockStatement{
			Base: ast.NewBase(ast.KindBlockStatement, 0),
			Body: []ast.Node{
				&ast.ReturnStatement{Base: ast.NewBase(ast.KindReturnStatement, 0), Argument: mustIdent("captured")},
			},
		},
	}
	outer := &ast.FunctionDeclaration{
		Base: ast.NewBase(ast.KindFunctionDeclaration, 0),
		Name: "outer",
		Body: &ast.BlockStatement{
			Base: ast.NewBase(ast.KindBlockStatement, 0),
			Body: []ast.Node{
				&ast.VariableDeclaration{
					Base:    ast.NewBase(ast.KindVariableDeclaration, 0),
					VarKind: ast.VarVar,
					Declarators: []*ast.VariableDeclarator{
						{Base: ast.NewBase(ast.KindVariableDeclarator, 0), ID: mustIdent("captured"), Init: nil},
					},
				},
				inner,
			},
		},
	}
	prog := ast.NewProgram(0, []ast.Node{outer}, 0)

	out := Compile(prog, config.Default())
	if len(out.Subs) != 2 {
		t.Fatalf("expected two nested chunks (outer, inner), got %d", len(out.Subs))
	}

	innerChunk := out.Subs[inner.CodeBlock]
	if innerChunk.PeekOpcode(0) != bytecode.OpLoadByHeapIndex {
		t.Fatalf("expected inner's read of captured to resolve through load_by_heap_index, got %v", innerChunk.PeekOpcode(0))
	}
}
