package compiler

import (
	"github.com/larkscript/jsc/internal/ast"
	"github.com/larkscript/jsc/internal/bytecode"
)

// emitArguments evaluates each call argument into a contiguous run of
// scratch registers (spec.md §3.4's contiguous-allocation fast path) and
// returns the base register and count. When any argument spreads, the
// caller must route through call_complex instead; this helper still lays
// the plain arguments down contiguously for that case's leading operands.
func (c *Compiler) emitArguments(args []ast.CallArgument) (base, count int, hasSpread bool) {
	count = len(args)
	if count == 0 {
		return 0, 0, false
	}
	base = c.regs.AllocContiguous(count)
	for i, a := range args {
		if a.Kind == ast.CallArgSpread {
			hasSpread = true
		}
		c.emitExpression(a.Value, base+i, a.Value.Pos())
	}
	return base, count, hasSpread
}

func (c *Compiler) emitCallExpression(n *ast.CallExpression, dst int) {
	if isDirectEval(n.Callee) {
		c.emitComplexCall(n, dst, bytecode.CallComplexEval)
		return
	}
	if sup, ok := n.Callee.(*ast.SuperExpression); ok && sup.IsCall {
		c.emitComplexCall(n, dst, bytecode.CallComplexSuper)
		return
	}
	if hasSpreadArg(n.Arguments) {
		c.emitComplexCall(n, dst, bytecode.CallComplexWithSpreadElement)
		return
	}

	if member, ok := n.Callee.(*ast.MemberExpression); ok {
		c.emitMethodCall(n, member, dst)
		return
	}

	callee := c.regs.GetRegister()
	c.emitExpression(n.Callee, callee, n.Callee.Pos())

	if n.Optional {
		c.emitLoadLiteral(dst, nil, n.Pos())
		skip := c.emitJumpIf(bytecode.OpJumpIfUndefinedOrNull, callee, n.Pos(), false)
		c.emitPlainCall(n, callee, dst)
		c.patchJump(skip)
	} else {
		c.emitPlainCall(n, callee, dst)
	}
	c.regs.GiveUpRegister()
}

func (c *Compiler) emitPlainCall(n *ast.CallExpression, callee, dst int) {
	base, count, _ := c.emitArguments(n.Arguments)
	if c.opts.TailCallOptimization && c.isTailPosition && !c.inTailSuppressingScope() {
		c.emit(bytecode.OpTailRecursion, n.Pos())
		c.emitReg(callee)
		c.emitReg(base)
		c.emitCount(count)
	} else {
		c.emit(bytecode.OpCall, n.Pos())
		c.emitReg(dst)
		c.emitReg(callee)
		c.emitCount(count)
		c.emitReg(base)
	}
	c.regs.FreeContiguous(count)
}

func (c *Compiler) emitMethodCall(n *ast.CallExpression, member *ast.MemberExpression, dst int) {
	if _, isSuper := member.Object.(*ast.SuperExpression); isSuper {
		c.emitComplexCall(n, dst, bytecode.CallComplexSuper)
		return
	}

	receiver := c.regs.GetRegister()
	c.emitExpression(member.Object, receiver, member.Object.Pos())

	if member.Optional || n.Optional {
		c.emitLoadLiteral(dst, nil, n.Pos())
		skip := c.emitJumpIf(bytecode.OpJumpIfUndefinedOrNull, receiver, n.Pos(), false)
		c.emitMethodCallFrom(n, member, receiver, dst)
		c.patchJump(skip)
	} else {
		c.emitMethodCallFrom(n, member, receiver, dst)
	}
	c.regs.GiveUpRegister()
}

func (c *Compiler) emitMethodCallFrom(n *ast.CallExpression, member *ast.MemberExpression, receiver, dst int) {
	callee := c.regs.GetRegister()
	c.emitMemberReadFrom(member, receiver, callee)

	base, count, _ := c.emitArguments(n.Arguments)
	if c.opts.TailCallOptimization && c.isTailPosition && !c.inTailSuppressingScope() {
		c.emit(bytecode.OpTailRecursionWithReceiver, n.Pos())
		c.emitReg(receiver)
		c.emitReg(callee)
		c.emitReg(base)
		c.emitCount(count)
	} else {
		c.emit(bytecode.OpCallWithReceiver, n.Pos())
		c.emitReg(dst)
		c.emitReg(receiver)
		c.emitReg(callee)
		c.emitCount(count)
		c.emitReg(base)
	}
	c.regs.FreeContiguous(count)
	c.regs.GiveUpRegister()
}

// emitComplexCall routes eval/super/spread-argument calls through
// call_complex, whose leading flags operand selects the interpretation of
// the remaining operands (spec.md §6.3's Calls category).
func (c *Compiler) emitComplexCall(n *ast.CallExpression, dst int, mode bytecode.CallComplexMode) {
	var receiver int
	switch mode {
	case bytecode.CallComplexSuper:
		receiver = c.regs.GetRegister()
		c.emit(bytecode.OpLoadThisBinding, n.Pos())
		c.emitReg(receiver)
	default:
		receiver = NoRegister
	}

	callee := c.regs.GetRegister()
	switch mode {
	case bytecode.CallComplexEval:
		c.emitExpression(n.Callee, callee, n.Callee.Pos())
	case bytecode.CallComplexSuper:
		// callee resolved by the runtime from the active class's
		// superclass binding; left unset here.
	default:
		c.emitExpression(n.Callee, callee, n.Callee.Pos())
	}

	base, count, _ := c.emitArguments(n.Arguments)

	c.emit(bytecode.OpCallComplex, n.Pos())
	c.emitFlags(byte(mode))
	c.emitReg(dst)
	c.emitReg(callee)
	c.emitCount(count)
	c.emitReg(base)

	c.regs.FreeContiguous(count)
	c.regs.GiveUpRegister()
	if mode == bytecode.CallComplexSuper {
		c.regs.GiveUpRegister()
	}
}

func isDirectEval(callee ast.Node) bool {
	id, ok := callee.(*ast.Identifier)
	return ok && id.Name == "eval"
}

func hasSpreadArg(args []ast.CallArgument) bool {
	for _, a := range args {
		if a.Kind == ast.CallArgSpread {
			return true
		}
	}
	return false
}

func (c *Compiler) emitNewExpression(n *ast.NewExpression, dst int) {
	callee := c.regs.GetRegister()
	c.emitExpression(n.Callee, callee, n.Callee.Pos())

	if hasSpreadArg(n.Arguments) {
		spread := c.regs.GetRegister()
		c.emitSpreadArrayFrom(n.Arguments, spread, n.Pos())
		c.emit(bytecode.OpNewOperationWithSpread, n.Pos())
		c.emitReg(dst)
		c.emitCount(0)
		c.emitReg(spread)
		c.regs.GiveUpRegister()
		c.regs.GiveUpRegister()
		return
	}

	base, count, _ := c.emitArguments(n.Arguments)
	c.emit(bytecode.OpNewOperation, n.Pos())
	c.emitReg(dst)
	c.emitCount(count)
	c.emitReg(base)
	c.regs.FreeContiguous(count)
	c.regs.GiveUpRegister()
}

// emitSpreadArrayFrom materializes a new-expression argument list
// containing one or more spreads into a single array value, built the way
// an array literal with spread elements is, for new_operation_with_spread
// to consume. call_complex does not take this array: a spread call passes
// its arguments through emitArguments.
func (c *Compiler) emitSpreadArrayFrom(args []ast.CallArgument, dst int, pos int) {
	elems := make([]ast.ArrayElement, len(args))
	for i, a := range args {
		elems[i] = ast.ArrayElement{Value: a.Value, Spread: a.Kind == ast.CallArgSpread}
	}
	c.emitArrayExpression(&ast.ArrayExpression{Base: ast.NewBase(ast.KindArrayExpression, pos), Elements: elems}, dst)
}
