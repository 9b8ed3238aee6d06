package compiler

import (
	"github.com/larkscript/jsc/internal/ast"
	"github.com/larkscript/jsc/internal/bytecode"
)

// emitStatement lowers node per spec.md §4.6's emit_statement dispatch.
// Register-stack balance (§8.1.1) must hold on return: anything it
// allocates for its own bookkeeping it also gives back up.
func (c *Compiler) emitStatement(node ast.Node) {
	switch n := node.(type) {
	case *ast.BlockStatement:
		c.emitBlockStatement(n)

	case *ast.ExpressionStatement:
		tmp := c.regs.GetRegister()
		wasTail := c.isTailPosition
		c.emitExpression(n.Expression, tmp, n.Expression.Pos())
		c.isTailPosition = wasTail
		c.regs.GiveUpRegister()

	case *ast.EmptyStatement, *ast.DebuggerStatement, *ast.Directive:
		// No bytecode.

	case *ast.VariableDeclaration:
		c.emitVariableDeclaration(n)

	case *ast.FunctionDeclaration:
		// Function declarations are hoisted and materialized by the
		// scope pre-pass directly into their binding's heap/global slot
		// at block entry; nothing to emit at the statement's own position.

	case *ast.ClassDeclaration:
		dst := c.regs.GetRegister()
		c.emitClass(n.Name, n.SuperClass, n.Body, dst, n.Pos())
		c.emitIdentifierWrite(n.Name, dst, n.Pos(), true)
		c.regs.GiveUpRegister()

	case *ast.IfStatement:
		c.emitIfStatement(n)

	case *ast.SwitchStatement:
		c.emitSwitchStatement(n)

	case *ast.WhileStatement:
		c.emitWhileStatement(n, "")

	case *ast.DoWhileStatement:
		c.emitDoWhileStatement(n, "")

	case *ast.ForStatement:
		c.emitForStatement(n, "")

	case *ast.ForInStatement:
		c.emitForInStatement(n, "")

	case *ast.ForOfStatement:
		c.emitForOfStatement(n, "")

	case *ast.BreakStatement:
		c.emitBreak(n.Label, n.Pos())

	case *ast.ContinueStatement:
		c.emitContinue(n.Label, n.Pos())

	case *ast.ReturnStatement:
		c.emitReturn(n)

	case *ast.ThrowStatement:
		arg := c.regs.GetRegister()
		c.emitExpression(n.Argument, arg, n.Argument.Pos())
		c.emit(bytecode.OpThrowOperation, n.Pos())
		c.emitReg(arg)
		c.regs.GiveUpRegister()

	case *ast.TryStatement:
		c.emitTryStatement(n)

	case *ast.WithStatement:
		c.emitWithStatement(n)

	case *ast.LabeledStatement:
		c.emitLabeledStatement(n)

	default:
		panic("compiler: unhandled statement node")
	}
}

func (c *Compiler) emitBlockStatement(n *ast.BlockStatement) {
	c.emit(bytecode.OpOpenLexicalEnvironment, n.Pos())
	c.emitFlags(byte(bytecode.LexicalEnvBlock))
	c.emitReg(NoRegister)

	prevBlock := c.blockIndex
	c.blockIndex = c.code.AddBlock(prevBlock)
	outerLexicals := c.initializedLexicals
	c.initializedLexicals = make(map[string]bool, len(outerLexicals))
	for name := range outerLexicals {
		c.initializedLexicals[name] = true
	}
	for i, stmt := range n.Body {
		c.isTailPosition = i == len(n.Body)-1
		c.emitStatement(stmt)
	}
	c.blockIndex = prevBlock
	c.initializedLexicals = outerLexicals

	c.emit(bytecode.OpCloseLexicalEnvironment, n.Pos())
}

func (c *Compiler) emitVariableDeclaration(n *ast.VariableDeclaration) {
	for _, d := range n.Declarators {
		if d.Init == nil {
			if n.VarKind != ast.VarVar {
				undef := c.regs.GetRegister()
				c.emitLoadLiteral(undef, nil, n.Pos())
				c.emitDestructuringDeclare(d.ID, undef, n.Pos())
				c.regs.GiveUpRegister()
			}
			continue
		}
		val := c.regs.GetRegister()
		c.emitExpression(d.Init, val, d.Init.Pos())
		c.emitDestructuringDeclare(d.ID, val, n.Pos())
		c.regs.GiveUpRegister()
	}
}

func (c *Compiler) emitIfStatement(n *ast.IfStatement) {
	test := c.regs.GetRegister()
	c.emitExpression(n.Test, test, n.Test.Pos())
	toElse := c.emitJumpIf(bytecode.OpJumpIfFalse, test, n.Pos(), false)
	c.regs.GiveUpRegister()

	wasTail := c.isTailPosition
	c.emitStatement(n.Consequent)
	if n.Alternate == nil {
		c.patchJump(toElse)
		return
	}
	toJoin := c.emitJumpTargetUnconditional(n.Pos())
	c.patchJump(toElse)
	c.isTailPosition = wasTail
	c.emitStatement(n.Alternate)
	c.patchJump(toJoin)
}

func (c *Compiler) emitReturn(n *ast.ReturnStatement) {
	if n.Argument == nil {
		undef := c.regs.GetRegister()
		c.emitLoadLiteral(undef, nil, n.Pos())
		c.emit(bytecode.OpEnd, n.Pos())
		c.emitReg(undef)
		c.regs.GiveUpRegister()
		return
	}
	val := c.regs.GetRegister()
	wasTail := c.isTailPosition
	c.isTailPosition = true
	c.emitExpression(n.Argument, val, n.Argument.Pos())
	c.isTailPosition = wasTail
	if c.tryDepth > 0 {
		c.emit(bytecode.OpReturnFunctionSlowCase, n.Pos())
	} else {
		c.emit(bytecode.OpEnd, n.Pos())
	}
	c.emitReg(val)
	c.regs.GiveUpRegister()
}

func (c *Compiler) emitWithStatement(n *ast.WithStatement) {
	obj := c.regs.GetRegister()
	c.emitExpression(n.Object, obj, n.Object.Pos())
	c.emit(bytecode.OpOpenLexicalEnvironment, n.Pos())
	c.emitFlags(byte(bytecode.LexicalEnvWith))
	c.emitReg(obj)
	c.regs.GiveUpRegister()

	c.withDepth++
	c.emitStatement(n.Body)
	c.withDepth--

	c.emit(bytecode.OpCloseLexicalEnvironment, n.Pos())
}
