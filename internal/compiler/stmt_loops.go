package compiler

import (
	"github.com/larkscript/jsc/internal/ast"
	"github.com/larkscript/jsc/internal/bytecode"
)

func (c *Compiler) emitWhileStatement(n *ast.WhileStatement, label string) {
	lc := &loopContext{label: label}
	c.pushLoop(lc)

	testPos := c.chunk.CurrentSize()
	test := c.regs.GetRegister()
	c.emitExpression(n.Test, test, n.Test.Pos())
	exit := c.emitJumpIf(bytecode.OpJumpIfFalse, test, n.Pos(), false)
	c.regs.GiveUpRegister()

	c.emitStatement(n.Body)
	c.emitJumpTargetUnconditionalTo(testPos, n.Pos())
	c.patchJump(exit)

	c.resolvePendingContinues(lc, testPos)
	c.popLoop()
	c.resolvePendingBreaks(lc, c.chunk.CurrentSize())
}

func (c *Compiler) emitDoWhileStatement(n *ast.DoWhileStatement, label string) {
	lc := &loopContext{label: label}
	c.pushLoop(lc)

	bodyPos := c.chunk.CurrentSize()
	c.emitStatement(n.Body)

	continueTarget := c.chunk.CurrentSize()
	test := c.regs.GetRegister()
	c.emitExpression(n.Test, test, n.Test.Pos())
	c.emit(bytecode.OpJumpIfTrue, n.Pos())
	c.emitReg(test)
	offset := c.emitJumpTarget()
	c.patchJumpTo(offset, bodyPos)
	c.regs.GiveUpRegister()

	c.resolvePendingContinues(lc, continueTarget)
	c.popLoop()
	c.resolvePendingBreaks(lc, c.chunk.CurrentSize())
}

func (c *Compiler) emitForStatement(n *ast.ForStatement, label string) {
	c.emit(bytecode.OpOpenLexicalEnvironment, n.Pos())
	c.emitFlags(byte(bytecode.LexicalEnvBlock))
	c.emitReg(NoRegister)

	if n.Init != nil {
		if n.Init.Declaration != nil {
			c.emitVariableDeclaration(n.Init.Declaration)
		} else {
			tmp := c.regs.GetRegister()
			c.emitExpression(n.Init.Expression, tmp, n.Init.Expression.Pos())
			c.regs.GiveUpRegister()
		}
	}

	lc := &loopContext{label: label}
	c.pushLoop(lc)

	testPos := c.chunk.CurrentSize()
	exit := -1
	if n.Test != nil {
		test := c.regs.GetRegister()
		c.emitExpression(n.Test, test, n.Test.Pos())
		exit = c.emitJumpIf(bytecode.OpJumpIfFalse, test, n.Pos(), false)
		c.regs.GiveUpRegister()
	}

	c.emitStatement(n.Body)

	continueTarget := c.chunk.CurrentSize()
	if n.Update != nil {
		tmp := c.regs.GetRegister()
		c.emitExpression(n.Update, tmp, n.Update.Pos())
		c.regs.GiveUpRegister()
	}
	c.emitJumpTargetUnconditionalTo(testPos, n.Pos())
	if exit != -1 {
		c.patchJump(exit)
	}

	c.resolvePendingContinues(lc, continueTarget)
	c.popLoop()
	c.resolvePendingBreaks(lc, c.chunk.CurrentSize())

	c.emit(bytecode.OpCloseLexicalEnvironment, n.Pos())
}

// emitForInStatement lowers for-in via create_enumerate_object's key
// iterator per spec.md §4.6, skipping deleted/shadowed keys through the
// runtime's own enumerate-object bookkeeping.
func (c *Compiler) emitForInStatement(n *ast.ForInStatement, label string) {
	obj := c.regs.GetRegister()
	c.emitExpression(n.Right, obj, n.Right.Pos())
	enum := c.regs.GetRegister()
	c.emit(bytecode.OpCreateEnumerateObject, n.Pos())
	c.emitReg(obj)
	c.emitReg(enum)
	c.emitFlags(0)
	c.regs.GiveUpRegister() // obj

	lc := &loopContext{label: label}
	c.pushLoop(lc)

	loopStart := c.chunk.CurrentSize()
	exit := c.emitJumpIf(bytecode.OpCheckLastEnumerateKey, enum, n.Pos(), false)

	key := c.regs.GetRegister()
	c.emit(bytecode.OpGetEnumerateKey, n.Pos())
	c.emitReg(enum)
	c.emitReg(key)
	c.bindForTarget(n.Left, key, n.Pos())
	c.regs.GiveUpRegister()

	c.emitStatement(n.Body)

	continueTarget := c.chunk.CurrentSize()
	c.emitJumpTargetUnconditionalTo(loopStart, n.Pos())
	c.patchJump(exit)

	c.resolvePendingContinues(lc, continueTarget)
	c.popLoop()
	c.resolvePendingBreaks(lc, c.chunk.CurrentSize())
	c.regs.GiveUpRegister() // enum
}

// emitForOfStatement lowers for-of (and for-await-of) through the
// iterator protocol. Normal exhaustion (done==true) never closes the
// iterator, since it already reported its own completion; break routes
// through a shared close sequence instead, matching iterator_close's
// abrupt-completion-only contract.
func (c *Compiler) emitForOfStatement(n *ast.ForOfStatement, label string) {
	src := c.regs.GetRegister()
	c.emitExpression(n.Right, src, n.Right.Pos())
	iter := c.regs.GetRegister()
	c.emit(bytecode.OpIteratorOperation, n.Pos())
	c.emitFlags(byte(bytecode.IteratorGetIterator))
	c.emitReg(src)
	c.emitReg(iter)
	c.regs.GiveUpRegister() // src

	lc := &loopContext{label: label}
	c.pushLoop(lc)

	loopStart := c.chunk.CurrentSize()
	item := c.regs.GetRegister()
	c.emit(bytecode.OpIteratorOperation, n.Pos())
	c.emitFlags(byte(bytecode.IteratorNext))
	c.emitReg(iter)
	c.emitReg(item)

	if n.Await {
		paused := c.regs.GetRegister()
		c.emit(bytecode.OpExecutionPause, n.Pos())
		c.emitFlags(byte(bytecode.PauseAwait))
		c.emitReg(paused)
		c.emitReg(item)
		c.emitCount(c.chunk.AppendPauseExtraData(nil))
		c.emitMove(item, paused, n.Pos())
		c.regs.GiveUpRegister()
	}

	done := c.regs.GetRegister()
	c.emit(bytecode.OpIteratorOperation, n.Pos())
	c.emitFlags(byte(bytecode.IteratorTestDone))
	c.emitReg(item)
	c.emitReg(done)
	exit := c.emitJumpIf(bytecode.OpJumpIfTrue, done, n.Pos(), false)
	c.regs.GiveUpRegister() // done

	value := c.regs.GetRegister()
	c.emit(bytecode.OpIteratorOperation, n.Pos())
	c.emitFlags(byte(bytecode.IteratorValue))
	c.emitReg(item)
	c.emitReg(value)
	c.regs.GiveUpRegister() // item
	c.bindForTarget(n.Left, value, n.Pos())
	c.regs.GiveUpRegister() // value

	c.emitStatement(n.Body)

	continueTarget := c.chunk.CurrentSize()
	c.emitJumpTargetUnconditionalTo(loopStart, n.Pos())

	// done==true is a normal iterator exhaustion, which never runs
	// iterator_close (the iterator already reported its own completion);
	// only an abrupt exit (break) needs to close it, so break targets the
	// close sequence below while the done==true path jumps past it.
	closeOnBreak := c.chunk.CurrentSize()
	c.emit(bytecode.OpIteratorOperation, n.Pos())
	c.emitFlags(byte(bytecode.IteratorClose))
	c.emitReg(iter)
	c.emitReg(NoRegister)

	afterLoop := c.chunk.CurrentSize()
	c.patchJumpTo(exit, afterLoop)

	c.resolvePendingContinues(lc, continueTarget)
	c.popLoop()
	c.resolvePendingBreaks(lc, closeOnBreak)
	c.regs.GiveUpRegister() // iter
}

// bindForTarget stores val through a for-in/for-of binding target, which
// is either a fresh var/let/const declarator or a pre-existing assignment
// target.
func (c *Compiler) bindForTarget(left ast.ForBinding, val int, pos int) {
	if left.Declaration != nil {
		c.emitDestructuringDeclare(left.Declaration.Declarators[0].ID, val, pos)
		return
	}
	c.emitStoreTarget(left.Target, val, pos)
}

// emitSwitchStatement lowers switch per spec.md §4.6: the discriminant
// evaluates once, each case's test is compared left-to-right with
// strict-equal short circuiting to that case's body on the first match
// (falling through subsequent bodies exactly as the source does since
// each case's Consequent is just a statement run, not wrapped in its own
// jump-past), and an unmatched discriminant falls to `default` if present
// or past the whole statement otherwise.
func (c *Compiler) emitSwitchStatement(n *ast.SwitchStatement) {
	disc := c.regs.GetRegister()
	c.emitExpression(n.Discriminant, disc, n.Discriminant.Pos())

	lc := &loopContext{isSwitch: true}
	c.pushLoop(lc)

	bodyTargets := make([]int, len(n.Cases))
	defaultIndex := -1
	var testJumps []int
	for i, cs := range n.Cases {
		if cs.Test == nil {
			defaultIndex = i
			continue
		}
		val := c.regs.GetRegister()
		c.emitExpression(cs.Test, val, cs.Test.Pos())
		eq := c.regs.GetRegister()
		c.emit(bytecode.OpBinaryStrictEqual, cs.Pos())
		c.emitReg(eq)
		c.emitReg(disc)
		c.emitReg(val)
		c.regs.GiveUpRegister()
		c.regs.GiveUpRegister()
		testJumps = append(testJumps, c.emitJumpIf(bytecode.OpJumpIfTrue, eq, cs.Pos(), false))
	}
	c.regs.GiveUpRegister() // disc

	toDefaultOrEnd := c.emitJumpTargetUnconditional(n.Pos())

	testIdx := 0
	for i, cs := range n.Cases {
		bodyTargets[i] = c.chunk.CurrentSize()
		if cs.Test != nil {
			c.patchJump(testJumps[testIdx])
			testIdx++
		}
		for _, stmt := range cs.Consequent {
			c.emitStatement(stmt)
		}
	}

	if defaultIndex != -1 {
		c.patchJumpTo(toDefaultOrEnd, bodyTargets[defaultIndex])
	} else {
		c.patchJump(toDefaultOrEnd)
	}

	c.popLoop()
	c.resolvePendingBreaks(lc, c.chunk.CurrentSize())
}
