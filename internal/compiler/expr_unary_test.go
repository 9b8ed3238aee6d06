package compiler

import (
	"testing"

	"github.com/larkscript/jsc/internal/ast"
	"github.com/larkscript/jsc/internal/bytecode"
)

func TestEmitDeleteMemberExpressionEmitsUnaryDeleteWithEvaluatedOperands(t *testing.T) {
	c := newCompiler()
	dst := c.regs.GetRegister()
	depth := c.regs.Depth()

	n := &ast.UnaryExpression{
		Base:     ast.NewBase(ast.KindUnaryExpression, 0),
		Operator: ast.UnaryDelete,
		Argument: &ast.MemberExpression{Base: ast.NewBase(ast.KindMemberExpression, 0), Object: ast.NewIdentifier(0, "o"), Property: ast.NewIdentifier(0, "p")},
	}
	c.emitDelete(n, dst)

	if c.regs.Depth() != depth {
		t.Fatalf("expected balanced registers after delete o.p, before=%d after=%d", depth, c.regs.Depth())
	}
	found := false
	for off := 0; off < c.Chunk().CurrentSize(); off++ {
		if c.Chunk().PeekOpcode(off) == bytecode.OpUnaryDelete {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected OpUnaryDelete for delete o.p")
	}
}

func TestEmitDeleteSuperPropertyThrowsStatic(t *testing.T) {
	c := newCompiler()
	dst := c.regs.GetRegister()

	n := &ast.UnaryExpression{
		Base:     ast.NewBase(ast.KindUnaryExpression, 0),
		Operator: ast.UnaryDelete,
		Argument: &ast.MemberExpression{Base: ast.NewBase(ast.KindMemberExpression, 0), Object: &ast.SuperExpression{Base: ast.NewBase(ast.KindSuperExpression, 0)}, Property: ast.NewIdentifier(0, "p")},
	}
	c.emitDelete(n, dst)

	if c.Chunk().PeekOpcode(0) != bytecode.OpThrowStaticErrorOperation {
		t.Fatalf("expected a static throw for delete super.p, got %v", c.Chunk().PeekOpcode(0))
	}
}

func TestEmitDeleteBareIdentifierIsAlwaysDynamic(t *testing.T) {
	c := newCompiler()
	dst := c.regs.GetRegister()
	depth := c.regs.Depth()

	n := &ast.UnaryExpression{Base: ast.NewBase(ast.KindUnaryExpression, 0), Operator: ast.UnaryDelete, Argument: ast.NewIdentifier(0, "x")}
	c.emitDelete(n, dst)

	if c.regs.Depth() != depth {
		t.Fatalf("expected balanced registers after delete x, before=%d after=%d", depth, c.regs.Depth())
	}
	found := false
	for off := 0; off < c.Chunk().CurrentSize(); off++ {
		if c.Chunk().PeekOpcode(off) == bytecode.OpUnaryDelete {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected OpUnaryDelete for delete x")
	}
}

func TestEmitDeleteOtherExpressionAlwaysYieldsTrue(t *testing.T) {
	c := newCompiler()
	dst := c.regs.GetRegister()
	depth := c.regs.Depth()

	n := &ast.UnaryExpression{Base: ast.NewBase(ast.KindUnaryExpression, 0), Operator: ast.UnaryDelete, Argument: ast.NewLiteral(0, 1.0)}
	c.emitDelete(n, dst)

	if c.regs.Depth() != depth {
		t.Fatalf("expected balanced registers after delete 1, before=%d after=%d", depth, c.regs.Depth())
	}
	found := false
	for off := 0; off < c.Chunk().CurrentSize(); off++ {
		if c.Chunk().PeekOpcode(off) == bytecode.OpLoadLiteral {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an OpLoadLiteral(true) for delete on a non-reference expression")
	}
}
