package compiler

import (
	"github.com/larkscript/jsc/internal/ast"
	"github.com/larkscript/jsc/internal/bytecode"
)

// emitExpression lowers node into dst, implementing §3.1's
// emit_expression(dst) capability via kind dispatch (the source's virtual
// dispatch collapses to a Go switch per spec.md §9's tagged-enum note).
// Invariant §8.1.1: the register-LIFO depth after this call equals the
// depth before it; the result lives in dst, which the caller owns.
func (c *Compiler) emitExpression(node ast.Node, dst int, pos int) {
	switch n := node.(type) {
	case *ast.Literal:
		c.emitLoadLiteral(dst, n.Value, n.Pos())

	case *ast.Identifier:
		c.emitIdentifierRead(n.Name, dst, n.Pos())

	case *ast.ThisExpression:
		c.emit(bytecode.OpLoadThisBinding, n.Pos())
		c.emitReg(dst)

	case *ast.SuperExpression:
		c.emit(bytecode.OpLoadThisBinding, n.Pos())
		c.emitReg(dst)

	case *ast.MetaProperty:
		c.emitMetaProperty(n, dst)

	case *ast.RegisterReference:
		c.emitMove(dst, n.Register, n.Pos())

	case *ast.UnaryExpression:
		c.emitUnaryExpression(n, dst)

	case *ast.UpdateExpression:
		c.emitUpdateExpression(n, dst)

	case *ast.BinaryExpression:
		c.emitBinaryExpression(n, dst)

	case *ast.ConditionalExpression:
		c.emitConditionalExpression(n, dst)

	case *ast.SequenceExpression:
		for i, e := range n.Expressions {
			if i == len(n.Expressions)-1 {
				c.emitExpression(e, dst, e.Pos())
			} else {
				tmp := c.regs.GetRegister()
				c.emitExpression(e, tmp, e.Pos())
				c.regs.GiveUpRegister()
			}
		}

	case *ast.AssignmentExpression:
		c.emitAssignmentExpression(n, dst)

	case *ast.MemberExpression:
		c.emitMemberRead(n, dst)

	case *ast.CallExpression:
		c.emitCallExpression(n, dst)

	case *ast.NewExpression:
		c.emitNewExpression(n, dst)

	case *ast.ArrayExpression:
		c.emitArrayExpression(n, dst)

	case *ast.ObjectExpression:
		c.emitObjectExpression(n, dst)

	case *ast.TemplateLiteral:
		c.emitTemplateLiteral(n, dst)

	case *ast.FunctionExpression:
		c.emitFunctionExpression(n.CodeBlock, dst, n.Pos())

	case *ast.ArrowFunctionExpression:
		c.emitFunctionExpression(n.CodeBlock, dst, n.Pos())

	case *ast.ClassExpression:
		c.emitClass(n.Name, n.SuperClass, n.Body, dst, n.Pos())

	case *ast.YieldExpression:
		c.emitYieldExpression(n, dst)

	case *ast.AwaitExpression:
		c.emitAwaitExpression(n, dst)

	case *ast.SpreadElement:
		// A bare spread outside a call/array/object context; evaluate for
		// its side effects only (callers that understand spread handle it
		// before reaching here).
		c.emitExpression(n.Argument, dst, n.Pos())

	default:
		panic("compiler: unhandled expression node")
	}
}

func (c *Compiler) emitFunctionExpression(codeBlockIndex, dst, pos int) {
	c.emit(bytecode.OpCreateFunctionExpression, pos)
	c.emitReg(dst)
	c.emitConstIndex(codeBlockIndex)
	c.emitFlags(0)
}

// --- unary / update --------------------------------------------------------

func (c *Compiler) emitUnaryExpression(n *ast.UnaryExpression, dst int) {
	if n.Operator == ast.UnaryDelete {
		c.emitDelete(n, dst)
		return
	}

	arg := c.regs.GetRegister()
	c.emitExpression(n.Argument, arg, n.Argument.Pos())

	switch n.Operator {
	case ast.UnaryPlus:
		c.emit(bytecode.OpToNumber, n.Pos())
		c.emitReg(dst)
		c.emitReg(arg)
	case ast.UnaryMinus:
		c.emit(bytecode.OpUnaryMinus, n.Pos())
		c.emitReg(dst)
		c.emitReg(arg)
	case ast.UnaryNot:
		c.emit(bytecode.OpUnaryLogicalNot, n.Pos())
		c.emitReg(dst)
		c.emitReg(arg)
	case ast.UnaryBitwiseNot:
		c.emit(bytecode.OpUnaryBitwiseNot, n.Pos())
		c.emitReg(dst)
		c.emitReg(arg)
	case ast.UnaryTypeof:
		c.emit(bytecode.OpUnaryTypeof, n.Pos())
		c.emitReg(dst)
		c.emitReg(arg)
	case ast.UnaryVoid:
		c.emitLoadLiteral(dst, nil, n.Pos())
	}
	c.regs.GiveUpRegister()
}

func (c *Compiler) emitUpdateExpression(n *ast.UpdateExpression, dst int) {
	old := c.regs.GetRegister()
	c.emitExpression(n.Argument, old, n.Argument.Pos())

	newVal := c.regs.GetRegister()
	op := bytecode.OpIncrement
	if n.Operator == ast.UpdateDecrement {
		op = bytecode.OpDecrement
	}
	c.emit(op, n.Pos())
	c.emitReg(newVal)
	c.emitReg(old)

	if n.Prefix {
		c.emitMove(dst, newVal, n.Pos())
	} else {
		c.emitMove(dst, old, n.Pos())
	}
	c.emitStoreTarget(n.Argument, newVal, n.Pos())

	c.regs.GiveUpRegister()
	c.regs.GiveUpRegister()
}

// emitStoreTarget stores src through an assignable expression (identifier
// or member expression), the common store path shared by update and
// assignment expressions.
func (c *Compiler) emitStoreTarget(target ast.Node, src int, pos int) {
	switch t := target.(type) {
	case *ast.Identifier:
		c.emitIdentifierWrite(t.Name, src, pos, false)
	case *ast.MemberExpression:
		c.emitMemberStore(t, src)
	default:
		panic("compiler: invalid assignment target")
	}
}

// --- binary / short-circuit -------------------------------------------------

var binaryOpcodes = map[ast.BinaryOp]bytecode.Opcode{
	ast.BinAdd:               bytecode.OpBinaryPlus,
	ast.BinSub:                bytecode.OpBinaryMinus,
	ast.BinMul:                bytecode.OpBinaryMultiply,
	ast.BinDiv:                bytecode.OpBinaryDivision,
	ast.BinMod:                bytecode.OpBinaryMod,
	ast.BinExp:                bytecode.OpBinaryExponentiation,
	ast.BinShl:                bytecode.OpBinaryLeftShift,
	ast.BinSar:                bytecode.OpBinarySignedRightShift,
	ast.BinShr:                bytecode.OpBinaryUnsignedRightShift,
	ast.BinBitAnd:             bytecode.OpBinaryBitwiseAnd,
	ast.BinBitOr:              bytecode.OpBinaryBitwiseOr,
	ast.BinBitXor:             bytecode.OpBinaryBitwiseXor,
	ast.BinEqual:              bytecode.OpBinaryEqual,
	ast.BinNotEqual:           bytecode.OpBinaryNotEqual,
	ast.BinStrictEqual:        bytecode.OpBinaryStrictEqual,
	ast.BinNotStrictEqual:     bytecode.OpBinaryNotStrictEqual,
	ast.BinLessThan:           bytecode.OpBinaryLessThan,
	ast.BinLessThanEqual:      bytecode.OpBinaryLessThanOrEqual,
	ast.BinGreaterThan:        bytecode.OpBinaryGreaterThan,
	ast.BinGreaterThanEqual:   bytecode.OpBinaryGreaterThanOrEqual,
	ast.BinIn:                 bytecode.OpBinaryIn,
	ast.BinInstanceOf:         bytecode.OpBinaryInstanceOf,
}

func isShortCircuit(op ast.BinaryOp) bool {
	return op == ast.BinLogicalAnd || op == ast.BinLogicalOr || op == ast.BinNullishCoalesce
}

func (c *Compiler) emitBinaryExpression(n *ast.BinaryExpression, dst int) {
	if isShortCircuit(n.Operator) {
		c.emitShortCircuit(n, dst)
		return
	}

	left := c.regs.GetRegister()
	c.emitExpression(n.Left, left, n.Left.Pos())
	right := c.regs.GetRegister()
	c.emitExpression(n.Right, right, n.Right.Pos())

	op, ok := binaryOpcodes[n.Operator]
	if !ok {
		panic("compiler: unknown binary operator")
	}
	c.emit(op, n.Pos())
	c.emitReg(dst)
	c.emitReg(left)
	c.emitReg(right)

	c.regs.GiveUpRegister()
	c.regs.GiveUpRegister()
}

// emitShortCircuit lowers &&, ||, ?? per spec.md §4.5: left into dst, a
// conditional jump over the right operand, then right into dst, patched to
// land just past it.
func (c *Compiler) emitShortCircuit(n *ast.BinaryExpression, dst int) {
	c.emitExpression(n.Left, dst, n.Left.Pos())

	if n.Operator == ast.BinNullishCoalesce {
		// jump_if_undefined_or_null branches when the left side IS
		// nullish, the opposite sense needed here (skip the right side
		// when the left is NOT nullish), so this inverts via an extra
		// unconditional hop rather than a dedicated "jump if not nullish"
		// opcode.
		isNullish := c.emitJumpIf(bytecode.OpJumpIfUndefinedOrNull, dst, n.Pos(), false)
		skipRight := c.emitJumpTargetUnconditional(n.Pos())
		c.patchJump(isNullish)
		c.emitExpression(n.Right, dst, n.Right.Pos())
		c.patchJump(skipRight)
		return
	}

	jumpOp := bytecode.OpJumpIfFalse
	if n.Operator == ast.BinLogicalOr {
		jumpOp = bytecode.OpJumpIfTrue
	}
	skip := c.emitJumpIf(jumpOp, dst, n.Pos(), false)
	c.emitExpression(n.Right, dst, n.Right.Pos())
	c.patchJump(skip)
}

// emitJumpIf emits a conditional jump testing reg and returns the patch
// offset. invert is unused: no caller passes true, and the jump is emitted
// the same either way.
func (c *Compiler) emitJumpIf(op bytecode.Opcode, reg int, pos int, invert bool) int {
	c.emit(op, pos)
	c.emitReg(reg)
	return c.emitJumpTarget()
}

func (c *Compiler) emitConditionalExpression(n *ast.ConditionalExpression, dst int) {
	test := c.regs.GetRegister()
	c.emitExpression(n.Test, test, n.Test.Pos())
	toAlt := c.emitJumpIf(bytecode.OpJumpIfFalse, test, n.Pos(), false)
	c.regs.GiveUpRegister()

	c.emitExpression(n.Consequent, dst, n.Consequent.Pos())
	toJoin := c.emitJumpTargetUnconditional(n.Pos())
	c.patchJump(toAlt)
	c.emitExpression(n.Alternate, dst, n.Alternate.Pos())
	c.patchJump(toJoin)
}

func (c *Compiler) emitJumpTargetUnconditional(pos int) int {
	c.emit(bytecode.OpJump, pos)
	return c.emitJumpTarget()
}

// --- member expressions ----------------------------------------------------

func (c *Compiler) emitMemberRead(n *ast.MemberExpression, dst int) {
	if _, isSuper := n.Object.(*ast.SuperExpression); isSuper {
		prop := c.regs.GetRegister()
		c.emitPropertyKeyRead(n, prop)
		c.emit(bytecode.OpSuperGetObject, n.Pos())
		c.emitReg(dst)
		c.emitReg(prop)
		c.regs.GiveUpRegister()
		return
	}

	obj := c.regs.GetRegister()
	c.emitExpression(n.Object, obj, n.Object.Pos())

	if n.Optional {
		c.emitLoadLiteral(dst, nil, n.Pos())
		skip := c.emitJumpIf(bytecode.OpJumpIfUndefinedOrNull, obj, n.Pos(), false)
		c.emitMemberReadFrom(n, obj, dst)
		c.patchJump(skip)
		c.regs.GiveUpRegister()
		return
	}

	c.emitMemberReadFrom(n, obj, dst)
	c.regs.GiveUpRegister()
}

func (c *Compiler) emitMemberReadFrom(n *ast.MemberExpression, obj, dst int) {
	if !n.Computed {
		name := n.Property.(*ast.Identifier).Name
		if name == "Infinity" || name == "-Infinity" {
			nameReg := c.regs.GetRegister()
			c.emitLoadLiteral(nameReg, name, n.Pos())
			c.emit(bytecode.OpGetObject, n.Pos())
			c.emitReg(dst)
			c.emitReg(obj)
			c.emitReg(nameReg)
			c.regs.GiveUpRegister()
			return
		}
		c.emit(bytecode.OpGetObjectPrecomputedCase, n.Pos())
		c.emitReg(dst)
		c.emitConstIndex(c.chunk.AddStringLiteral(name))
		c.emitReg(obj)
		return
	}
	prop := c.regs.GetRegister()
	c.emitPropertyKeyRead(n, prop)
	c.emit(bytecode.OpGetObject, n.Pos())
	c.emitReg(dst)
	c.emitReg(obj)
	c.emitReg(prop)
	c.regs.GiveUpRegister()
}

func (c *Compiler) emitPropertyKeyRead(n *ast.MemberExpression, dst int) {
	if n.Computed {
		c.emitExpression(n.Property, dst, n.Property.Pos())
		return
	}
	name := n.Property.(*ast.Identifier).Name
	c.emitLoadLiteral(dst, name, n.Pos())
}

func (c *Compiler) emitMemberStore(n *ast.MemberExpression, src int) {
	if _, isSuper := n.Object.(*ast.SuperExpression); isSuper {
		prop := c.regs.GetRegister()
		c.emitPropertyKeyRead(n, prop)
		c.emit(bytecode.OpSuperSetObject, n.Pos())
		c.emitReg(prop)
		c.emitReg(src)
		c.regs.GiveUpRegister()
		return
	}
	obj := c.regs.GetRegister()
	c.emitExpression(n.Object, obj, n.Object.Pos())
	if !n.Computed {
		name := n.Property.(*ast.Identifier).Name
		c.emit(bytecode.OpSetObjectPrecomputedCase, n.Pos())
		c.emitReg(obj)
		c.emitConstIndex(c.chunk.AddStringLiteral(name))
		c.emitReg(src)
		c.regs.GiveUpRegister()
		return
	}
	prop := c.regs.GetRegister()
	c.emitPropertyKeyRead(n, prop)
	c.emit(bytecode.OpSetObject, n.Pos())
	c.emitReg(obj)
	c.emitReg(prop)
	c.emitReg(src)
	c.regs.GiveUpRegister()
	c.regs.GiveUpRegister()
}

// --- array / object literals -----------------------------------------------

const arrayDefineMergeCount = 8

func (c *Compiler) emitArrayExpression(n *ast.ArrayExpression, dst int) {
	c.emit(bytecode.OpCreateArray, n.Pos())
	c.emitReg(dst)

	hasSpread := false
	for _, el := range n.Elements {
		if el.Spread {
			hasSpread = true
			break
		}
	}

	if hasSpread {
		for _, el := range n.Elements {
			v := c.regs.GetRegister()
			if el.Value != nil {
				c.emitExpression(el.Value, v, el.Value.Pos())
			} else {
				c.emitLoadLiteral(v, nil, n.Pos())
			}
			c.emit(bytecode.OpArrayDefineOwnPropertyBySpread, n.Pos())
			c.emitReg(dst)
			c.emitCount(boolToInt(el.Spread))
			c.emitReg(v)
			c.regs.GiveUpRegister()
		}
		return
	}

	for i := 0; i < len(n.Elements); i += arrayDefineMergeCount {
		end := i + arrayDefineMergeCount
		if end > len(n.Elements) {
			end = len(n.Elements)
		}
		group := n.Elements[i:end]
		regs := make([]int, len(group))
		for j, el := range group {
			regs[j] = c.regs.GetRegister()
			if el.Value != nil {
				c.emitExpression(el.Value, regs[j], n.Pos())
			} else {
				c.emitLoadLiteral(regs[j], nil, n.Pos())
			}
		}
		c.emit(bytecode.OpArrayDefineOwnProperty, n.Pos())
		c.emitReg(dst)
		c.emitCount(i)
		c.emitCount(len(group))
		for range group {
			c.regs.GiveUpRegister()
		}
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (c *Compiler) emitObjectExpression(n *ast.ObjectExpression, dst int) {
	c.emit(bytecode.OpCreateObject, n.Pos())
	c.emitReg(dst)

	for _, p := range n.Properties {
		switch p.Kind {
		case ast.PropertySpread:
			c.emitObjectSpread(p, dst, n.Pos())
		case ast.PropertyGet, ast.PropertySet:
			c.emitAccessorProperty(p, dst, n.Pos())
		default:
			c.emitDataProperty(p, dst, n.Pos())
		}
	}
}

func (c *Compiler) emitDataProperty(p ast.ObjectProperty, dst int, pos int) {
	v := c.regs.GetRegister()
	c.emitExpression(p.Value, v, p.Value.Pos())
	if !p.Computed {
		name := propertyKeyName(p.Key)
		c.emit(bytecode.OpObjectDefineOwnPropertyWithName, pos)
		c.emitReg(dst)
		c.emitConstIndex(c.chunk.AddStringLiteral(name))
		c.emitReg(v)
		c.regs.GiveUpRegister()
		return
	}
	k := c.regs.GetRegister()
	c.emitExpression(p.Key, k, p.Key.Pos())
	c.emit(bytecode.OpObjectDefineOwnProperty, pos)
	c.emitReg(dst)
	c.emitReg(k)
	c.emitReg(v)
	c.regs.GiveUpRegister()
	c.regs.GiveUpRegister()
}

func (c *Compiler) emitAccessorProperty(p ast.ObjectProperty, dst int, pos int) {
	fn := c.regs.GetRegister()
	c.emitExpression(p.Value, fn, p.Value.Pos())
	name := propertyKeyName(p.Key)
	flags := byte(0)
	if p.Kind == ast.PropertySet {
		flags = 1
	}
	c.emit(bytecode.OpObjectDefineGetterSetter, pos)
	c.emitReg(dst)
	c.emitConstIndex(c.chunk.AddStringLiteral(name))
	c.emitReg(fn)
	c.emitFlags(flags)
	c.regs.GiveUpRegister()
}

func (c *Compiler) emitObjectSpread(p ast.ObjectProperty, dst int, pos int) {
	src := c.regs.GetRegister()
	c.emitExpression(p.Value, src, p.Value.Pos())

	enum := c.regs.GetRegister()
	c.emit(bytecode.OpCreateEnumerateObject, pos)
	c.emitReg(src)
	c.emitReg(enum)
	c.emitFlags(0)

	loopStart := c.chunk.CurrentSize()
	exit := c.emitJumpIf(bytecode.OpCheckLastEnumerateKey, enum, pos, false)

	key := c.regs.GetRegister()
	c.emit(bytecode.OpGetEnumerateKey, pos)
	c.emitReg(enum)
	c.emitReg(key)

	val := c.regs.GetRegister()
	c.emit(bytecode.OpGetObject, pos)
	c.emitReg(val)
	c.emitReg(src)
	c.emitReg(key)

	c.emit(bytecode.OpObjectDefineOwnProperty, pos)
	c.emitReg(dst)
	c.emitReg(key)
	c.emitReg(val)

	c.regs.GiveUpRegister() // val
	c.regs.GiveUpRegister() // key
	c.emitJumpTargetUnconditionalTo(loopStart, pos)
	c.patchJump(exit)

	c.regs.GiveUpRegister() // enum
	c.regs.GiveUpRegister() // src
}

// emitJumpTargetUnconditionalTo emits an unconditional jump back to target
// (a backward jump). It closes every loop back-edge: the while, for,
// for-in and for-of statements, and the loops the compiler generates
// itself for object spread, object rest and yield*.
func (c *Compiler) emitJumpTargetUnconditionalTo(target int, pos int) {
	c.emit(bytecode.OpJump, pos)
	offset := c.emitJumpTarget()
	c.patchJumpTo(offset, target)
}

func propertyKeyName(key ast.Node) string {
	switch k := key.(type) {
	case *ast.Identifier:
		return k.Name
	case *ast.Literal:
		if s, ok := k.Value.(string); ok {
			return s
		}
	}
	return ""
}

// --- template literals ------------------------------------------------------

func (c *Compiler) emitTemplateLiteral(n *ast.TemplateLiteral, dst int) {
	c.emitLoadLiteral(dst, n.Quasis[0], n.Pos())
	for i, expr := range n.Expressions {
		e := c.regs.GetRegister()
		c.emitExpression(expr, e, expr.Pos())
		c.emit(bytecode.OpTemplateOperation, expr.Pos())
		c.emitReg(dst)
		c.emitReg(e)
		c.emitReg(dst)
		c.regs.GiveUpRegister()

		if i+1 < len(n.Quasis) && n.Quasis[i+1] != "" {
			part := c.regs.GetRegister()
			c.emitLoadLiteral(part, n.Quasis[i+1], n.Pos())
			c.emit(bytecode.OpTemplateOperation, n.Pos())
			c.emitReg(dst)
			c.emitReg(part)
			c.emitReg(dst)
			c.regs.GiveUpRegister()
		}
	}
}
