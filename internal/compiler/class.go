package compiler

import (
	"github.com/larkscript/jsc/internal/ast"
	"github.com/larkscript/jsc/internal/bytecode"
)

// emitClass lowers a class expression/declaration per spec.md §4.8: the
// superclass expression (if any) evaluates first, create_class produces
// the constructor/prototype pair bound to it, then each element installs
// in two passes — methods and accessors first (so they see every sibling's
// final descriptor), instance/static field initializers second, mirroring
// the source's two-pass ClassNode::generateBytecode.
func (c *Compiler) emitClass(name string, superClass ast.Node, body *ast.ClassBody, dst int, pos int) {
	superReg := NoRegister
	if superClass != nil {
		superReg = c.regs.GetRegister()
		c.emitExpression(superClass, superReg, superClass.Pos())
	}

	prototype := c.regs.GetRegister()
	c.emit(bytecode.OpCreateClass, pos)
	c.emitReg(dst)
	c.emitReg(superReg)
	c.emitReg(prototype)
	c.emitConstIndex(c.chunk.AddStringLiteral(name))

	info := &classInfo{constructorReg: dst, prototypeReg: prototype, superReg: superReg, hasSuper: superClass != nil}
	c.classStack = append(c.classStack, info)

	for _, el := range body.Elements {
		if el.Kind == ast.ElementMethod || el.Kind == ast.ElementGet || el.Kind == ast.ElementSet {
			c.emitClassMethod(el, dst, prototype, pos)
		}
	}
	for _, el := range body.Elements {
		if el.Kind == ast.ElementField {
			c.emitClassFieldDescriptor(el, dst, pos)
		}
	}

	c.emit(bytecode.OpInitializeClass, pos)
	c.emitFlags(byte(bytecode.ClassInitRunStaticInitializers))
	c.emitReg(dst)
	c.emitCount(0)

	c.classStack = c.classStack[:len(c.classStack)-1]
	if superReg != NoRegister {
		c.regs.GiveUpRegister()
	}
	c.regs.GiveUpRegister()
}

func (c *Compiler) emitClassMethod(el *ast.ClassElement, classReg, prototype, pos int) {
	target := prototype
	if el.Static {
		target = classReg
	}

	fn := c.regs.GetRegister()
	c.emitExpression(el.Value, fn, el.Value.Pos())

	if el.Private != ast.NotPrivate {
		mode := bytecode.ClassInitPrivateField
		c.emit(bytecode.OpInitializeClass, pos)
		c.emitFlags(byte(mode))
		c.emitReg(target)
		c.emitCount(privateSlotIndex(el))
		c.regs.GiveUpRegister()
		return
	}

	name := propertyKeyName(el.Key)
	switch el.Kind {
	case ast.ElementGet, ast.ElementSet:
		flags := byte(0)
		if el.Kind == ast.ElementSet {
			flags = 1
		}
		c.emit(bytecode.OpObjectDefineGetterSetter, pos)
		c.emitReg(target)
		c.emitConstIndex(c.chunk.AddStringLiteral(name))
		c.emitReg(fn)
		c.emitFlags(flags)
	default:
		c.emit(bytecode.OpObjectDefineOwnPropertyWithName, pos)
		c.emitReg(target)
		c.emitConstIndex(c.chunk.AddStringLiteral(name))
		c.emitReg(fn)
	}
	c.regs.GiveUpRegister()
}

// emitClassFieldDescriptor records a field's initializer as data the
// runtime replays per instance (instance fields) or once (static fields) —
// set_field_data / set_static_field_data / set_private_field_data — rather
// than evaluating it here, since instance field initializers run once per
// `new`, inside the constructor, with `this` bound to the fresh instance.
func (c *Compiler) emitClassFieldDescriptor(el *ast.ClassElement, classReg, pos int) {
	initReg := NoRegister
	if el.Value != nil {
		initReg = c.regs.GetRegister()
		c.emitFunctionExpression(wrapFieldInitializer(el), initReg, pos)
	}

	mode := bytecode.ClassInitSetFieldData
	switch {
	case el.Private != ast.NotPrivate:
		mode = bytecode.ClassInitSetPrivateFieldData
	case el.Static:
		mode = bytecode.ClassInitSetStaticFieldData
	}

	c.emit(bytecode.OpInitializeClass, pos)
	c.emitFlags(byte(mode))
	c.emitReg(classReg)
	c.emitCount(fieldSlotIndex(el))
	if initReg != NoRegister {
		c.regs.GiveUpRegister()
	}
}

// wrapFieldInitializer returns the CodeBlock index of a field whose
// initializer is itself a FunctionExpression (the index the scope pre-pass
// assigned it), and -1 for any other initializer. The pre-pass does not
// wrap other initializers in a function, so they have no CodeBlock.
func wrapFieldInitializer(el *ast.ClassElement) int {
	if fn, ok := el.Value.(*ast.FunctionExpression); ok {
		return fn.CodeBlock
	}
	return -1
}

func privateSlotIndex(el *ast.ClassElement) int {
	return classElementSlot(el)
}

func fieldSlotIndex(el *ast.ClassElement) int {
	return classElementSlot(el)
}

// classElementSlot derives a stable per-class slot number from the
// element's source position. No pass assigns dense slot numbers, so this is
// the slot every private member and field gets.
func classElementSlot(el *ast.ClassElement) int {
	return el.Pos()
}
