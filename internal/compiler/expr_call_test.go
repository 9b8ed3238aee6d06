package compiler

import (
	"testing"

	"github.com/larkscript/jsc/internal/ast"
	"github.com/larkscript/jsc/internal/bytecode"
)

func TestEmitArgumentsAllocatesContiguousRunAndReportsSpread(t *testing.T) {
	c := newCompiler()
	depth := c.regs.Depth()

	args := []ast.CallArgument{
		{Value: ast.NewLiteral(0, 1.0), Kind: ast.CallArgPlain},
		{Value: ast.NewIdentifier(0, "rest"), Kind: ast.CallArgSpread},
	}
	base, count, hasSpread := c.emitArguments(args)

	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
	if !hasSpread {
		t.Fatalf("expected hasSpread true when an argument spreads")
	}
	c.regs.FreeContiguous(count)
	if c.regs.Depth() != depth {
		t.Fatalf("expected balanced registers after freeing the argument run, before=%d after=%d", depth, c.regs.Depth())
	}
	_ = base
}

func TestEmitArgumentsEmptyReturnsZeroWithoutAllocating(t *testing.T) {
	c := newCompiler()
	depth := c.regs.Depth()

	_, count, hasSpread := c.emitArguments(nil)

	if count != 0 || hasSpread {
		t.Fatalf("expected count 0 and hasSpread false for no arguments")
	}
	if c.regs.Depth() != depth {
		t.Fatalf("expected no registers consumed for an empty argument list")
	}
}

func TestEmitCallExpressionPlainCalleeBalancesRegisters(t *testing.T) {
	c := newCompiler()
	dst := c.regs.GetRegister()
	depth := c.regs.Depth()

	n := &ast.CallExpression{Base: ast.NewBase(ast.KindCallExpression, 0), Callee: ast.NewIdentifier(0, "f"), Arguments: []ast.CallArgument{{Value: ast.NewLiteral(0, 1.0)}}}
	c.emitCallExpression(n, dst)

	if c.regs.Depth() != depth {
		t.Fatalf("expected balanced registers after a plain call, before=%d after=%d", depth, c.regs.Depth())
	}
	found := false
	for off := 0; off < c.Chunk().CurrentSize(); off++ {
		if c.Chunk().PeekOpcode(off) == bytecode.OpCall {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected OpCall for a plain call")
	}
}

func TestEmitCallExpressionDirectEvalUsesComplexCall(t *testing.T) {
	c := newCompiler()
	dst := c.regs.GetRegister()
	depth := c.regs.Depth()

	n := &ast.CallExpression{Base: ast.NewBase(ast.KindCallExpression, 0), Callee: ast.NewIdentifier(0, "eval"), Arguments: []ast.CallArgument{{Value: ast.NewLiteral(0, "1")}}}
	c.emitCallExpression(n, dst)

	if c.regs.Depth() != depth {
		t.Fatalf("expected balanced registers after a direct eval call, before=%d after=%d", depth, c.regs.Depth())
	}
	found := false
	for off := 0; off < c.Chunk().CurrentSize(); off++ {
		if c.Chunk().PeekOpcode(off) == bytecode.OpCallComplex {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected OpCallComplex for a direct eval() call")
	}
}

func TestEmitCallExpressionSpreadArgumentUsesComplexCall(t *testing.T) {
	c := newCompiler()
	dst := c.regs.GetRegister()
	depth := c.regs.Depth()

	n := &ast.CallExpression{
		Base:      ast.NewBase(ast.KindCallExpression, 0),
		Callee:    ast.NewIdentifier(0, "f"),
		Arguments: []ast.CallArgument{{Value: ast.NewIdentifier(0, "xs"), Kind: ast.CallArgSpread}},
	}
	c.emitCallExpression(n, dst)

	if c.regs.Depth() != depth {
		t.Fatalf("expected balanced registers after a spread-argument call, before=%d after=%d", depth, c.regs.Depth())
	}
}

func TestEmitCallExpressionSuperCallUsesComplexCall(t *testing.T) {
	c := newCompiler()
	dst := c.regs.GetRegister()
	depth := c.regs.Depth()

	n := &ast.CallExpression{Base: ast.NewBase(ast.KindCallExpression, 0), Callee: &ast.SuperExpression{Base: ast.NewBase(ast.KindSuperExpression, 0), IsCall: true}}
	c.emitCallExpression(n, dst)

	if c.regs.Depth() != depth {
		t.Fatalf("expected balanced registers after a super() call, before=%d after=%d", depth, c.regs.Depth())
	}
}

func TestEmitCallExpressionMethodCallUsesCallWithReceiver(t *testing.T) {
	c := newCompiler()
	dst := c.regs.GetRegister()
	depth := c.regs.Depth()

	n := &ast.CallExpression{
		Base:   ast.NewBase(ast.KindCallExpression, 0),
		Callee: &ast.MemberExpression{Base: ast.NewBase(ast.KindMemberExpression, 0), Object: ast.NewIdentifier(0, "o"), Property: ast.NewIdentifier(0, "m")},
	}
	c.emitCallExpression(n, dst)

	if c.regs.Depth() != depth {
		t.Fatalf("expected balanced registers after a method call, before=%d after=%d", depth, c.regs.Depth())
	}
	found := false
	for off := 0; off < c.Chunk().CurrentSize(); off++ {
		if c.Chunk().PeekOpcode(off) == bytecode.OpCallWithReceiver {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected OpCallWithReceiver for o.m()")
	}
}

func TestEmitCallExpressionOptionalCallShortCircuits(t *testing.T) {
	c := newCompiler()
	dst := c.regs.GetRegister()
	depth := c.regs.Depth()

	n := &ast.CallExpression{Base: ast.NewBase(ast.KindCallExpression, 0), Callee: ast.NewIdentifier(0, "f"), Optional: true}
	c.emitCallExpression(n, dst)

	if c.regs.Depth() != depth {
		t.Fatalf("expected balanced registers after an optional call, before=%d after=%d", depth, c.regs.Depth())
	}
	found := false
	for off := 0; off < c.Chunk().CurrentSize(); off++ {
		if c.Chunk().PeekOpcode(off) == bytecode.OpJumpIfUndefinedOrNull {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected OpJumpIfUndefinedOrNull to guard an optional call")
	}
}

func TestEmitNewExpressionWithoutSpreadUsesNewOperation(t *testing.T) {
	c := newCompiler()
	dst := c.regs.GetRegister()
	depth := c.regs.Depth()

	n := &ast.NewExpression{Base: ast.NewBase(ast.KindNewExpression, 0), Callee: ast.NewIdentifier(0, "C"), Arguments: []ast.CallArgument{{Value: ast.NewLiteral(0, 1.0)}}}
	c.emitNewExpression(n, dst)

	if c.regs.Depth() != depth {
		t.Fatalf("expected balanced registers after new C(1), before=%d after=%d", depth, c.regs.Depth())
	}
	found := false
	for off := 0; off < c.Chunk().CurrentSize(); off++ {
		if c.Chunk().PeekOpcode(off) == bytecode.OpNewOperation {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected OpNewOperation for new C(1)")
	}
}

func TestEmitNewExpressionWithSpreadUsesNewOperationWithSpread(t *testing.T) {
	c := newCompiler()
	dst := c.regs.GetRegister()
	depth := c.regs.Depth()

	n := &ast.NewExpression{
		Base:      ast.NewBase(ast.KindNewExpression, 0),
		Callee:    ast.NewIdentifier(0, "C"),
		Arguments: []ast.CallArgument{{Value: ast.NewIdentifier(0, "xs"), Kind: ast.CallArgSpread}},
	}
	c.emitNewExpression(n, dst)

	if c.regs.Depth() != depth {
		t.Fatalf("expected balanced registers after new C(...xs), before=%d after=%d", depth, c.regs.Depth())
	}
	found := false
	for off := 0; off < c.Chunk().CurrentSize(); off++ {
		if c.Chunk().PeekOpcode(off) == bytecode.OpNewOperationWithSpread {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected OpNewOperationWithSpread for new C(...xs)")
	}
}

func TestIsDirectEvalTrueOnlyForBareEvalIdentifier(t *testing.T) {
	if !isDirectEval(ast.NewIdentifier(0, "eval")) {
		t.Fatalf("expected isDirectEval true for a bare `eval` identifier")
	}
	if isDirectEval(ast.NewIdentifier(0, "notEval")) {
		t.Fatalf("expected isDirectEval false for any other identifier")
	}
	if isDirectEval(ast.NewLiteral(0, 1.0)) {
		t.Fatalf("expected isDirectEval false for a non-identifier callee")
	}
}

func TestHasSpreadArgDetectsAnySpreadElement(t *testing.T) {
	if hasSpreadArg(nil) {
		t.Fatalf("expected hasSpreadArg false for no arguments")
	}
	if hasSpreadArg([]ast.CallArgument{{Value: ast.NewLiteral(0, 1.0), Kind: ast.CallArgPlain}}) {
		t.Fatalf("expected hasSpreadArg false when no argument spreads")
	}
	if !hasSpreadArg([]ast.CallArgument{{Value: ast.NewIdentifier(0, "xs"), Kind: ast.CallArgSpread}}) {
		t.Fatalf("expected hasSpreadArg true when an argument spreads")
	}
}
