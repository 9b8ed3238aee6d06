package compiler

import (
	"github.com/larkscript/jsc/internal/ast"
	"github.com/larkscript/jsc/internal/bytecode"
	"github.com/larkscript/jsc/internal/diagnostics"
)

// emitDelete lowers the four shapes `delete` can target per spec.md §4.5:
// a computed/non-computed member property (runtime unary_delete), a bare
// identifier (always resolved dynamically, since a statically resolved
// binding is never deletable), and `delete super.x`, which the source
// always rejects at runtime — there is no object for `delete` to act on
// once `super` has been rewritten to `this`'s prototype chain.
func (c *Compiler) emitDelete(n *ast.UnaryExpression, dst int) {
	switch target := n.Argument.(type) {
	case *ast.MemberExpression:
		if _, isSuper := target.Object.(*ast.SuperExpression); isSuper {
			c.throwStatic(n.Pos(), diagnostics.ReferenceError, diagnostics.MsgDeleteSuperProperty, "")
			return
		}
		obj := c.regs.GetRegister()
		c.emitExpression(target.Object, obj, target.Object.Pos())
		prop := c.regs.GetRegister()
		c.emitPropertyKeyRead(target, prop)
		c.emit(bytecode.OpUnaryDelete, n.Pos())
		c.emitReg(dst)
		c.emitReg(obj)
		c.emitReg(prop)
		c.emitFlags(0)
		c.regs.GiveUpRegister()
		c.regs.GiveUpRegister()

	case *ast.Identifier:
		// Deleting a bare identifier is always false in strict mode and,
		// for non-strict code, only ever succeeds against a configurable
		// global property resolved dynamically by name; a statically
		// resolved stack/heap binding can never be deleted. flags=1 tells
		// the runtime to treat the name register as a global-object
		// property key rather than a pre-evaluated object/property pair.
		name := c.regs.GetRegister()
		c.emitLoadLiteral(name, target.Name, n.Pos())
		c.emit(bytecode.OpUnaryDelete, n.Pos())
		c.emitReg(dst)
		c.emitReg(NoRegister)
		c.emitReg(name)
		c.emitFlags(1)
		c.regs.GiveUpRegister()

	default:
		// delete on anything else (a call result, a literal, ...)
		// evaluates its operand for side effects and always yields true.
		tmp := c.regs.GetRegister()
		c.emitExpression(n.Argument, tmp, n.Argument.Pos())
		c.emitLoadLiteral(dst, true, n.Pos())
		c.regs.GiveUpRegister()
	}
}
