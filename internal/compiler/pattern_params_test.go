package compiler

import (
	"testing"

	"github.com/larkscript/jsc/internal/ast"
	"github.com/larkscript/jsc/internal/bytecode"
	"github.com/larkscript/jsc/internal/codeblock"
	"github.com/larkscript/jsc/internal/config"
)

func TestEmitParameterBindingsSimpleParamMarksInitialized(t *testing.T) {
	cb := codeblock.New("top", nil)
	cb.Declare("a", &codeblock.IdentifierInfo{Storage: codeblock.StorageStack, StackSlot: 0, Mutable: true, IsParameter: true})
	c := New(cb, config.Default())

	c.emitParameterBindings([]ast.Param{{Pattern: ast.NewIdentifier(0, "a")}}, 0)

	if !c.initializedParams["a"] {
		t.Fatalf("expected parameter a to be marked initialized")
	}
	if c.regs.Depth() != 0 {
		t.Fatalf("expected balanced registers after parameter binding, got depth %d", c.regs.Depth())
	}
}

func TestEmitParameterBindingsWithDefaultChecksMissingArgument(t *testing.T) {
	cb := codeblock.New("top", nil)
	cb.Declare("a", &codeblock.IdentifierInfo{Storage: codeblock.StorageStack, StackSlot: 0, Mutable: true, IsParameter: true})
	c := New(cb, config.Default())

	params := []ast.Param{{Pattern: ast.NewIdentifier(0, "a"), Default: ast.NewLiteral(0, 1.0)}}
	c.emitParameterBindings(params, 0)

	if c.regs.Depth() != 0 {
		t.Fatalf("expected balanced registers after a defaulted parameter, got depth %d", c.regs.Depth())
	}
}

func TestEmitParameterBindingsRestParameterUsesIndex(t *testing.T) {
	cb := codeblock.New("top", nil)
	cb.Declare("a", &codeblock.IdentifierInfo{Storage: codeblock.StorageStack, StackSlot: 0, Mutable: true, IsParameter: true})
	cb.Declare("rest", &codeblock.IdentifierInfo{Storage: codeblock.StorageStack, StackSlot: 1, Mutable: true, IsParameter: true})
	c := New(cb, config.Default())

	params := []ast.Param{
		{Pattern: ast.NewIdentifier(0, "a")},
		{Pattern: ast.NewIdentifier(0, "rest"), Rest: true},
	}
	c.emitParameterBindings(params, 0)

	if !c.initializedParams["rest"] {
		t.Fatalf("expected the rest parameter to be marked initialized")
	}
	if c.regs.Depth() != 0 {
		t.Fatalf("expected balanced registers after a rest parameter, got depth %d", c.regs.Depth())
	}
}

func TestCheckNoForwardParameterReferenceThrowsOnLaterParamName(t *testing.T) {
	c := newCompiler()
	params := []ast.Param{
		{Pattern: ast.NewIdentifier(0, "a"), Default: ast.NewIdentifier(0, "b")},
		{Pattern: ast.NewIdentifier(0, "b")},
	}
	c.checkNoForwardParameterReference(params[0].Default, 0, params)

	if c.Chunk().PeekOpcode(0) != bytecode.OpThrowStaticErrorOperation {
		t.Fatalf("expected a static throw for a forward parameter reference, got %v", c.Chunk().PeekOpcode(0))
	}
}

func TestCheckNoForwardParameterReferenceSilentForEarlierParamName(t *testing.T) {
	c := newCompiler()
	params := []ast.Param{
		{Pattern: ast.NewIdentifier(0, "a")},
		{Pattern: ast.NewIdentifier(0, "b"), Default: ast.NewIdentifier(0, "a")},
	}
	c.checkNoForwardParameterReference(params[1].Default, 1, params)

	if c.Chunk().CurrentSize() != 0 {
		t.Fatalf("expected no throw when a default references an earlier parameter")
	}
}

func TestWalkIdentifiersVisitsNestedBinaryOperands(t *testing.T) {
	seen := map[string]bool{}
	expr := &ast.BinaryExpression{
		Base:  ast.NewBase(ast.KindBinaryExpression, 0),
		Left:  ast.NewIdentifier(0, "x"),
		Right: ast.NewIdentifier(0, "y"),
	}
	walkIdentifiers(expr, func(name string) { seen[name] = true })

	if !seen["x"] || !seen["y"] {
		t.Fatalf("expected both operands visited, got %v", seen)
	}
}

func TestWalkIdentifiersHandlesNilNodeWithoutPanicking(t *testing.T) {
	walkIdentifiers(nil, func(name string) { t.Fatalf("unexpected visit for nil node") })
}
