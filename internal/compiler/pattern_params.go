package compiler

import (
	"github.com/larkscript/jsc/internal/ast"
	"github.com/larkscript/jsc/internal/bytecode"
	"github.com/larkscript/jsc/internal/diagnostics"
)

// emitParameterBindings lowers a function's formal parameter list into
// get_parameter/destructure pairs per spec.md §4.7: each parameter reads
// its positional argument, applies its own default when that argument is
// undefined (a missing argument reads as undefined), and forward
// references to a later parameter from
// an earlier parameter's default produce a static ReferenceError rather
// than silently reading an uninitialized slot.
func (c *Compiler) emitParameterBindings(params []ast.Param, pos int) {
	for i, p := range params {
		if p.Rest {
			c.emitRestParameter(p, i, pos)
			continue
		}

		arg := c.regs.GetRegister()
		c.emit(bytecode.OpGetParameter, pos)
		c.emitReg(arg)
		c.emitCount(i)

		if p.Default != nil {
			c.checkNoForwardParameterReference(p.Default, i, params)
			undef := c.regs.GetRegister()
			c.emitLoadLiteral(undef, nil, pos)
			isUndef := c.regs.GetRegister()
			c.emit(bytecode.OpBinaryStrictEqual, pos)
			c.emitReg(isUndef)
			c.emitReg(arg)
			c.emitReg(undef)
			skip := c.emitJumpIf(bytecode.OpJumpIfFalse, isUndef, pos, false)
			c.regs.GiveUpRegister() // isUndef
			c.regs.GiveUpRegister() // undef
			c.emitExpression(p.Default, arg, p.Default.Pos())
			c.patchJump(skip)
		}

		c.emitDestructuringDeclare(p.Pattern, arg, pos)
		c.regs.GiveUpRegister()
		c.markParamInitialized(p.Pattern)
	}
}

func (c *Compiler) emitRestParameter(p ast.Param, index int, pos int) {
	rest := c.regs.GetRegister()
	c.emit(bytecode.OpCreateRestElement, pos)
	c.emitReg(rest)
	c.emitCount(index)
	c.emitDestructuringDeclare(p.Pattern, rest, pos)
	c.regs.GiveUpRegister()
	c.markParamInitialized(p.Pattern)
}

func (c *Compiler) markParamInitialized(pattern ast.Node) {
	if id, ok := pattern.(*ast.Identifier); ok {
		c.initializedParams[id.Name] = true
	}
}

// checkNoForwardParameterReference walks defaultExpr for identifiers that
// name a later parameter in the same list (or the same parameter,
// recursively), emitting a static ReferenceError per spec.md §4.7 — a
// parameter's default may only see parameters declared strictly before it.
func (c *Compiler) checkNoForwardParameterReference(defaultExpr ast.Node, atIndex int, params []ast.Param) {
	later := make(map[string]bool)
	for i := atIndex; i < len(params); i++ {
		if id, ok := params[i].Pattern.(*ast.Identifier); ok {
			later[id.Name] = true
		}
	}
	if len(later) == 0 {
		return
	}
	walkIdentifiers(defaultExpr, func(name string) {
		if later[name] {
			c.throwStatic(defaultExpr.Pos(), diagnostics.ReferenceError, diagnostics.MsgForwardParameterReference, name)
		}
	})
}

// walkIdentifiers visits every Identifier reachable from n's expression
// sub-tree without descending into nested function bodies (their own
// parameter scope is independent).
func walkIdentifiers(n ast.Node, visit func(name string)) {
	switch v := n.(type) {
	case nil:
	case *ast.Identifier:
		visit(v.Name)
	case *ast.BinaryExpression:
		walkIdentifiers(v.Left, visit)
		walkIdentifiers(v.Right, visit)
	case *ast.UnaryExpression:
		walkIdentifiers(v.Argument, visit)
	case *ast.ConditionalExpression:
		walkIdentifiers(v.Test, visit)
		walkIdentifiers(v.Consequent, visit)
		walkIdentifiers(v.Alternate, visit)
	case *ast.MemberExpression:
		walkIdentifiers(v.Object, visit)
		if v.Computed {
			walkIdentifiers(v.Property, visit)
		}
	case *ast.CallExpression:
		walkIdentifiers(v.Callee, visit)
		for _, a := range v.Arguments {
			walkIdentifiers(a.Value, visit)
		}
	case *ast.ArrayExpression:
		for _, el := range v.Elements {
			if el.Value != nil {
				walkIdentifiers(el.Value, visit)
			}
		}
	case *ast.ObjectExpression:
		for _, p := range v.Properties {
			if p.Computed {
				walkIdentifiers(p.Key, visit)
			}
			walkIdentifiers(p.Value, visit)
		}
	case *ast.SequenceExpression:
		for _, e := range v.Expressions {
			walkIdentifiers(e, visit)
		}
	case *ast.AssignmentExpression:
		walkIdentifiers(v.Right, visit)
	}
}
