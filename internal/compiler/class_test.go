package compiler

import (
	"testing"

	"github.com/larkscript/jsc/internal/ast"
	"github.com/larkscript/jsc/internal/bytecode"
)

func methodElement(name string, static bool) *ast.ClassElement {
	fn := &ast.FunctionExpression{Base: ast.NewBase(ast.KindFunctionExpression, 0), Body: &ast.BlockStatement{Base: ast.NewBase(ast.KindBlockStatement, 0)}, CodeBlock: -1}
	return &ast.ClassElement{
		Base:   ast.NewBase(ast.KindClassElement, 0),
		Key:    ast.NewIdentifier(0, name),
		Value:  fn,
		Kind:   ast.ElementMethod,
		Static: static,
	}
}

func TestEmitClassWithoutSuperclassBalancesRegisters(t *testing.T) {
	c := newCompiler()
	dst := c.regs.GetRegister()
	depth := c.regs.Depth()

	body := &ast.ClassBody{Base: ast.NewBase(ast.KindClassBody, 0), Elements: []*ast.ClassElement{methodElement("m", false)}}
	c.emitClass("C", nil, body, dst, 0)

	if c.regs.Depth() != depth {
		t.Fatalf("expected balanced registers after emitting a class, before=%d after=%d", depth, c.regs.Depth())
	}
	if len(c.classStack) != 0 {
		t.Fatalf("expected classStack popped after class emission")
	}
	if c.Chunk().PeekOpcode(0) != bytecode.OpCreateClass {
		t.Fatalf("expected OpCreateClass as the first emitted instruction, got %v", c.Chunk().PeekOpcode(0))
	}
}

func TestEmitClassWithSuperclassEvaluatesSuperFirst(t *testing.T) {
	c := newCompiler()
	dst := c.regs.GetRegister()
	depth := c.regs.Depth()

	body := &ast.ClassBody{Base: ast.NewBase(ast.KindClassBody, 0)}
	c.emitClass("C", ast.NewIdentifier(0, "Base"), body, dst, 0)

	if c.regs.Depth() != depth {
		t.Fatalf("expected balanced registers after a class with a superclass, before=%d after=%d", depth, c.regs.Depth())
	}
}

func TestEmitClassInstallsMethodsBeforeFieldsAndInitializes(t *testing.T) {
	c := newCompiler()
	dst := c.regs.GetRegister()

	field := &ast.ClassElement{
		Base: ast.NewBase(ast.KindClassElement, 0), Key: ast.NewIdentifier(0, "f"), Kind: ast.ElementField,
	}
	body := &ast.ClassBody{Base: ast.NewBase(ast.KindClassBody, 0), Elements: []*ast.ClassElement{methodElement("m", false), field}}
	c.emitClass("C", nil, body, dst, 0)

	foundInit := false
	for off := 0; off < c.Chunk().CurrentSize(); off++ {
		if c.Chunk().PeekOpcode(off) == bytecode.OpInitializeClass {
			foundInit = true
		}
	}
	if !foundInit {
		t.Fatalf("expected at least one OpInitializeClass emitted for field/static setup")
	}
}

func TestEmitClassMethodStaticTargetsClassRegister(t *testing.T) {
	c := newCompiler()
	classReg := c.regs.GetRegister()
	prototype := c.regs.GetRegister()
	depth := c.regs.Depth()

	el := methodElement("m", true)
	c.emitClassMethod(el, classReg, prototype, 0)

	if c.regs.Depth() != depth {
		t.Fatalf("expected balanced registers after a static class method, before=%d after=%d", depth, c.regs.Depth())
	}
}

func TestEmitClassMethodGetterUsesDefineGetterSetter(t *testing.T) {
	c := newCompiler()
	classReg := c.regs.GetRegister()
	prototype := c.regs.GetRegister()

	el := methodElement("g", false)
	el.Kind = ast.ElementGet
	c.emitClassMethod(el, classReg, prototype, 0)

	found := false
	for off := 0; off < c.Chunk().CurrentSize(); off++ {
		if c.Chunk().PeekOpcode(off) == bytecode.OpObjectDefineGetterSetter {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected OpObjectDefineGetterSetter for a getter class element")
	}
}

func TestEmitClassFieldDescriptorWithoutInitializer(t *testing.T) {
	c := newCompiler()
	classReg := c.regs.GetRegister()
	depth := c.regs.Depth()

	el := &ast.ClassElement{Base: ast.NewBase(ast.KindClassElement, 0), Key: ast.NewIdentifier(0, "f"), Kind: ast.ElementField}
	c.emitClassFieldDescriptor(el, classReg, 0)

	if c.regs.Depth() != depth {
		t.Fatalf("expected balanced registers for a field with no initializer, before=%d after=%d", depth, c.regs.Depth())
	}
}

func TestWrapFieldInitializerReturnsCodeBlockIndex(t *testing.T) {
	fn := &ast.FunctionExpression{Base: ast.NewBase(ast.KindFunctionExpression, 0), CodeBlock: 7}
	el := &ast.ClassElement{Base: ast.NewBase(ast.KindClassElement, 0), Value: fn}

	if got := wrapFieldInitializer(el); got != 7 {
		t.Fatalf("expected wrapFieldInitializer to return the FunctionExpression's CodeBlock index 7, got %d", got)
	}
}

func TestWrapFieldInitializerReturnsNegativeOneForNonFunctionValue(t *testing.T) {
	el := &ast.ClassElement{Base: ast.NewBase(ast.KindClassElement, 0), Value: ast.NewLiteral(0, 1.0)}

	if got := wrapFieldInitializer(el); got != -1 {
		t.Fatalf("expected -1 for a field whose value isn't a FunctionExpression, got %d", got)
	}
}
