package compiler

import (
	"github.com/larkscript/jsc/internal/ast"
	"github.com/larkscript/jsc/internal/bytecode"
)

// compoundBinaryOp maps a compound assignment operator onto the plain
// binary operator it desugars to per spec.md §4.5 ("x op= y" reads x,
// applies the binary op against y, writes the result back through x's
// assignable target).
var compoundBinaryOp = map[ast.AssignmentOp]ast.BinaryOp{
	ast.AssignAdd:    ast.BinAdd,
	ast.AssignSub:    ast.BinSub,
	ast.AssignMul:    ast.BinMul,
	ast.AssignDiv:    ast.BinDiv,
	ast.AssignMod:    ast.BinMod,
	ast.AssignExp:    ast.BinExp,
	ast.AssignShl:    ast.BinShl,
	ast.AssignSar:    ast.BinSar,
	ast.AssignShr:    ast.BinShr,
	ast.AssignBitAnd: ast.BinBitAnd,
	ast.AssignBitOr:  ast.BinBitOr,
	ast.AssignBitXor: ast.BinBitXor,
}

func isLogicalAssign(op ast.AssignmentOp) bool {
	return op == ast.AssignLogicalAnd || op == ast.AssignLogicalOr || op == ast.AssignNullishCoalesce
}

// emitAssignmentExpression lowers `=` and all fifteen compound forms per
// spec.md §4.5. Plain identifier targets use the fast read-modify-write
// path; targets that might alias (member expressions, or bare identifiers
// under an open `with`/`eval`) fall to the slow mode that pre-resolves the
// target's address once, per spec.md §4.4's "with and eval interference".
func (c *Compiler) emitAssignmentExpression(n *ast.AssignmentExpression, dst int) {
	if n.Operator == ast.AssignSimple {
		c.emitSimpleAssignment(n, dst)
		return
	}
	if isLogicalAssign(n.Operator) {
		c.emitLogicalAssignment(n, dst)
		return
	}
	c.emitCompoundAssignment(n, dst)
}

func (c *Compiler) emitSimpleAssignment(n *ast.AssignmentExpression, dst int) {
	switch target := n.Left.(type) {
	case *ast.ArrayPattern, *ast.ObjectPattern:
		c.emitExpression(n.Right, dst, n.Right.Pos())
		c.emitDestructuringAssign(target, dst, n.Pos())
	default:
		prevSkip := c.canSkipCopyToRegister
		c.canSkipCopyToRegister = !assignmentTargetsMayAlias(n.Left, n.Right)
		c.emitExpression(n.Right, dst, n.Right.Pos())
		c.canSkipCopyToRegister = prevSkip
		c.emitStoreTarget(n.Left, dst, n.Pos())
	}
}

func (c *Compiler) emitCompoundAssignment(n *ast.AssignmentExpression, dst int) {
	binOp, ok := compoundBinaryOp[n.Operator]
	if !ok {
		panic("compiler: unknown compound assignment operator")
	}

	if ident, isIdent := n.Left.(*ast.Identifier); isIdent && c.needsAddressResolution(ident.Name) {
		addr := c.emitResolveAddress(ident.Name, n.Pos())
		cur := c.regs.GetRegister()
		c.emitIdentifierRead(ident.Name, cur, n.Pos())
		rhs := c.regs.GetRegister()
		c.emitExpression(n.Right, rhs, n.Right.Pos())
		op := binaryOpcodes[binOp]
		c.emit(op, n.Pos())
		c.emitReg(dst)
		c.emitReg(cur)
		c.emitReg(rhs)
		c.emitStoreByNameWithAddress(addr, dst, n.Pos())
		c.regs.GiveUpRegister()
		c.regs.GiveUpRegister()
		c.regs.GiveUpRegister()
		return
	}

	cur := c.regs.GetRegister()
	c.emitExpression(n.Left, cur, n.Left.Pos())
	rhs := c.regs.GetRegister()
	c.emitExpression(n.Right, rhs, n.Right.Pos())
	op := binaryOpcodes[binOp]
	c.emit(op, n.Pos())
	c.emitReg(dst)
	c.emitReg(cur)
	c.emitReg(rhs)
	c.emitStoreTarget(n.Left, dst, n.Pos())
	c.regs.GiveUpRegister()
	c.regs.GiveUpRegister()
}

// assignmentTargetsMayAlias reports whether evaluating rhs could observe or
// mutate the binding that left names before the store happens, in which
// case the stack-slot skip-copy fast path (spec.md §4.2) must be disabled
// for this assignment so the read captures rhs's value, not a live alias of
// the slot being overwritten. The source's conservative rule: any
// identifier mentioned in rhs that refers to the exact same stack slot as
// left forces the slow path; member-expression targets always force it
// since an arbitrary getter could run.
func assignmentTargetsMayAlias(left, rhs ast.Node) bool {
	ident, ok := left.(*ast.Identifier)
	if !ok {
		return true
	}
	return identifierAppearsIn(rhs, ident.Name)
}

func identifierAppearsIn(n ast.Node, name string) bool {
	switch v := n.(type) {
	case nil:
		return false
	case *ast.Identifier:
		return v.Name == name
	case *ast.BinaryExpression:
		return identifierAppearsIn(v.Left, name) || identifierAppearsIn(v.Right, name)
	case *ast.UnaryExpression:
		return identifierAppearsIn(v.Argument, name)
	case *ast.ConditionalExpression:
		return identifierAppearsIn(v.Test, name) || identifierAppearsIn(v.Consequent, name) || identifierAppearsIn(v.Alternate, name)
	case *ast.MemberExpression:
		return identifierAppearsIn(v.Object, name) || (v.Computed && identifierAppearsIn(v.Property, name))
	case *ast.CallExpression:
		if identifierAppearsIn(v.Callee, name) {
			return true
		}
		for _, a := range v.Arguments {
			if identifierAppearsIn(a.Value, name) {
				return true
			}
		}
		return false
	case *ast.SequenceExpression:
		for _, e := range v.Expressions {
			if identifierAppearsIn(e, name) {
				return true
			}
		}
		return false
	default:
		// Conservatively assume no aliasing for node kinds with no
		// embedded sub-expression that could reference an outer binding
		// (literals, this, etc.) and for kinds not worth tracking further.
		return false
	}
}

// emitLogicalAssignment lowers &&=, ||=, ??= : read the target, short
// circuit around the assignment entirely when the logical test fails to
// authorize a write (the right-hand side and the store are both skipped,
// matching the source semantics of not re-evaluating or rebinding a
// target the logical test rejects).
func (c *Compiler) emitLogicalAssignment(n *ast.AssignmentExpression, dst int) {
	c.emitExpression(n.Left, dst, n.Left.Pos())

	switch n.Operator {
	case ast.AssignLogicalAnd:
		skip := c.emitJumpIf(bytecode.OpJumpIfFalse, dst, n.Pos(), false)
		c.emitExpression(n.Right, dst, n.Right.Pos())
		c.emitStoreTarget(n.Left, dst, n.Pos())
		c.patchJump(skip)

	case ast.AssignLogicalOr:
		skip := c.emitJumpIf(bytecode.OpJumpIfTrue, dst, n.Pos(), false)
		c.emitExpression(n.Right, dst, n.Right.Pos())
		c.emitStoreTarget(n.Left, dst, n.Pos())
		c.patchJump(skip)

	default: // AssignNullishCoalesce
		// Only proceed when the current value is nullish: probe with
		// jump_if_undefined_or_null, and when it is NOT nullish, skip past
		// the assignment entirely via an unconditional hop.
		isNullish := c.emitJumpIf(bytecode.OpJumpIfUndefinedOrNull, dst, n.Pos(), false)
		skipAll := c.emitJumpTargetUnconditional(n.Pos())
		c.patchJump(isNullish)
		c.emitExpression(n.Right, dst, n.Right.Pos())
		c.emitStoreTarget(n.Left, dst, n.Pos())
		c.patchJump(skipAll)
	}
}
