package compiler

import (
	"testing"

	"github.com/larkscript/jsc/internal/ast"
	"github.com/larkscript/jsc/internal/codeblock"
	"github.com/larkscript/jsc/internal/config"
)

func newCompiler() *Compiler {
	return New(codeblock.New("top", nil), config.Default())
}

func TestEmitWhileStatementBalancesRegistersAndLoopStack(t *testing.T) {
	c := newCompiler()
	n := &ast.WhileStatement{
		Base: ast.NewBase(ast.KindWhileStatement, 0),
		Test: ast.NewLiteral(0, true),
		Body: ast.NewExpressionStatement(0, ast.NewLiteral(0, 1.0)),
	}
	c.emitWhileStatement(n, "")

	if len(c.loopStack) != 0 {
		t.Fatalf("expected loop stack popped after while emission, got depth %d", len(c.loopStack))
	}
	if c.regs.Depth() != 0 {
		t.Fatalf("expected balanced registers after while emission, got depth %d", c.regs.Depth())
	}
}

func TestEmitWhileStatementResolvesBreakPastLoop(t *testing.T) {
	c := newCompiler()
	body := &ast.BreakStatement{Base: ast.NewBase(ast.KindBreakStatement, 0)}
	n := &ast.WhileStatement{
		Base: ast.NewBase(ast.KindWhileStatement, 0),
		Test: ast.NewLiteral(0, true),
		Body: body,
	}
	c.emitWhileStatement(n, "")

	if c.regs.Depth() != 0 {
		t.Fatalf("expected balanced registers, got depth %d", c.regs.Depth())
	}
}

func TestEmitDoWhileStatementBalancesRegistersAndLoopStack(t *testing.T) {
	c := newCompiler()
	n := &ast.DoWhileStatement{
		Base: ast.NewBase(ast.KindDoWhileStatement, 0),
		Test: ast.NewLiteral(0, true),
		Body: ast.NewExpressionStatement(0, ast.NewLiteral(0, 1.0)),
	}
	c.emitDoWhileStatement(n, "")

	if len(c.loopStack) != 0 {
		t.Fatalf("expected loop stack popped after do-while emission")
	}
	if c.regs.Depth() != 0 {
		t.Fatalf("expected balanced registers after do-while emission, got depth %d", c.regs.Depth())
	}
}

func TestEmitForStatementWithFullClausesBalances(t *testing.T) {
	c := newCompiler()
	init := ast.NewVariableDeclaration(0, ast.VarLet, ast.NewVariableDeclarator(0, ast.NewIdentifier(0, "i"), ast.NewLiteral(0, 0.0)))
	n := &ast.ForStatement{
		Base:   ast.NewBase(ast.KindForStatement, 0),
		Init:   &ast.ForInit{Declaration: init},
		Test:   ast.NewLiteral(0, true),
		Update: ast.NewLiteral(0, 1.0),
		Body:   ast.NewExpressionStatement(0, ast.NewLiteral(0, 2.0)),
	}
	c.emitForStatement(n, "")

	if len(c.loopStack) != 0 {
		t.Fatalf("expected loop stack popped after for-statement emission")
	}
	if c.regs.Depth() != 0 {
		t.Fatalf("expected balanced registers after for-statement emission, got depth %d", c.regs.Depth())
	}
}

func TestEmitForStatementWithAllClausesAbsent(t *testing.T) {
	c := newCompiler()
	n := &ast.ForStatement{
		Base: ast.NewBase(ast.KindForStatement, 0),
		Body: &ast.BreakStatement{Base: ast.NewBase(ast.KindBreakStatement, 0)},
	}
	c.emitForStatement(n, "")

	if c.regs.Depth() != 0 {
		t.Fatalf("expected balanced registers for a clause-less for loop with a break body, got depth %d", c.regs.Depth())
	}
}

func TestEmitForInStatementBindsExistingTargetAndBalances(t *testing.T) {
	c := newCompiler()
	n := &ast.ForInStatement{
		Base:  ast.NewBase(ast.KindForInStatement, 0),
		Left:  ast.ForBinding{Target: ast.NewIdentifier(0, "k")},
		Right: ast.NewIdentifier(0, "obj"),
		Body:  ast.NewExpressionStatement(0, ast.NewLiteral(0, 1.0)),
	}
	c.emitForInStatement(n, "")

	if len(c.loopStack) != 0 {
		t.Fatalf("expected loop stack popped after for-in emission")
	}
	if c.regs.Depth() != 0 {
		t.Fatalf("expected balanced registers after for-in emission, got depth %d", c.regs.Depth())
	}
}

func TestEmitForOfStatementClosesIteratorAndBalances(t *testing.T) {
	c := newCompiler()
	n := &ast.ForOfStatement{
		Base:  ast.NewBase(ast.KindForOfStatement, 0),
		Left:  ast.ForBinding{Target: ast.NewIdentifier(0, "v")},
		Right: ast.NewIdentifier(0, "iterable"),
		Body:  ast.NewExpressionStatement(0, ast.NewLiteral(0, 1.0)),
	}
	c.emitForOfStatement(n, "")

	if len(c.loopStack) != 0 {
		t.Fatalf("expected loop stack popped after for-of emission")
	}
	if c.regs.Depth() != 0 {
		t.Fatalf("expected balanced registers after for-of emission, got depth %d", c.regs.Depth())
	}
}

func TestEmitForOfStatementAwaitInsertsExecutionPause(t *testing.T) {
	c := newCompiler()
	n := &ast.ForOfStatement{
		Base:  ast.NewBase(ast.KindForOfStatement, 0),
		Left:  ast.ForBinding{Target: ast.NewIdentifier(0, "v")},
		Right: ast.NewIdentifier(0, "iterable"),
		Body:  ast.NewExpressionStatement(0, ast.NewLiteral(0, 1.0)),
		Await: true,
	}
	c.emitForOfStatement(n, "")

	if c.regs.Depth() != 0 {
		t.Fatalf("expected balanced registers for a for-await-of loop, got depth %d", c.regs.Depth())
	}
}

func TestEmitSwitchStatementFallsThroughToDefault(t *testing.T) {
	c := newCompiler()
	n := &ast.SwitchStatement{
		Base:         ast.NewBase(ast.KindSwitchStatement, 0),
		Discriminant: ast.NewIdentifier(0, "x"),
		Cases: []*ast.SwitchCase{
			{Base: ast.NewBase(ast.KindSwitchCase, 0), Test: ast.NewLiteral(0, 1.0), Consequent: []ast.Node{ast.NewExpressionStatement(0, ast.NewLiteral(0, 1.0))}},
			{Base: ast.NewBase(ast.KindSwitchCase, 0), Test: nil, Consequent: []ast.Node{ast.NewExpressionStatement(0, ast.NewLiteral(0, 2.0))}},
		},
	}
	c.emitSwitchStatement(n)

	if len(c.loopStack) != 0 {
		t.Fatalf("expected loop stack popped after switch emission")
	}
	if c.regs.Depth() != 0 {
		t.Fatalf("expected balanced registers after switch emission, got depth %d", c.regs.Depth())
	}
}

func TestEmitSwitchStatementWithoutDefaultSkipsToEnd(t *testing.T) {
	c := newCompiler()
	n := &ast.SwitchStatement{
		Base:         ast.NewBase(ast.KindSwitchStatement, 0),
		Discriminant: ast.NewIdentifier(0, "x"),
		Cases: []*ast.SwitchCase{
			{Base: ast.NewBase(ast.KindSwitchCase, 0), Test: ast.NewLiteral(0, 1.0), Consequent: []ast.Node{ast.NewExpressionStatement(0, ast.NewLiteral(0, 1.0))}},
		},
	}
	c.emitSwitchStatement(n)

	if c.regs.Depth() != 0 {
		t.Fatalf("expected balanced registers for a default-less switch, got depth %d", c.regs.Depth())
	}
}
