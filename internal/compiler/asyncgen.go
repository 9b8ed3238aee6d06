package compiler

import (
	"github.com/larkscript/jsc/internal/ast"
	"github.com/larkscript/jsc/internal/bytecode"
)

// emitAwaitExpression lowers `await expr` to an execution_pause(Await) per
// spec.md §4.9: the argument evaluates into a scratch, execution_pause
// suspends the generator-backed coroutine and resumes dst with either the
// settled value or a re-thrown rejection.
func (c *Compiler) emitAwaitExpression(n *ast.AwaitExpression, dst int) {
	arg := c.regs.GetRegister()
	c.emitExpression(n.Argument, arg, n.Argument.Pos())
	c.emit(bytecode.OpExecutionPause, n.Pos())
	c.emitFlags(byte(bytecode.PauseAwait))
	c.emitReg(dst)
	c.emitReg(arg)
	c.emitCount(c.chunk.AppendPauseExtraData(nil))
	c.regs.GiveUpRegister()
}

// emitYieldExpression lowers `yield expr` and `yield* expr` per spec.md
// §4.9. A plain yield pauses once, handing the argument to the consumer
// and resuming dst with whatever value/exception is sent back in. A
// delegating `yield*` instead calls the argument iterator's next until it
// reports done, forwarding every intermediate value through its own pause
// site and leaving the final value in dst. The value each of those pauses
// resumes with is not passed on to the inner iterator, throw and return
// resumptions are not forwarded to it, and no iterator_close is emitted.
func (c *Compiler) emitYieldExpression(n *ast.YieldExpression, dst int) {
	if n.Delegate {
		c.emitYieldDelegate(n, dst)
		return
	}

	arg := NoRegister
	if n.Argument != nil {
		arg = c.regs.GetRegister()
		c.emitExpression(n.Argument, arg, n.Argument.Pos())
	}
	c.emit(bytecode.OpExecutionPause, n.Pos())
	c.emitFlags(byte(bytecode.PauseYield))
	c.emitReg(dst)
	c.emitReg(arg)
	c.emitCount(c.chunk.AppendPauseExtraData(nil))
	if arg != NoRegister {
		c.regs.GiveUpRegister()
	}
}

func (c *Compiler) emitYieldDelegate(n *ast.YieldExpression, dst int) {
	src := c.regs.GetRegister()
	c.emitExpression(n.Argument, src, n.Argument.Pos())

	iter := c.regs.GetRegister()
	c.emit(bytecode.OpIteratorOperation, n.Pos())
	c.emitFlags(byte(bytecode.IteratorGetIterator))
	c.emitReg(src)
	c.emitReg(iter)

	loopStart := c.chunk.CurrentSize()
	item := c.regs.GetRegister()
	c.emit(bytecode.OpIteratorOperation, n.Pos())
	c.emitFlags(byte(bytecode.IteratorNext))
	c.emitReg(iter)
	c.emitReg(item)

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

	c.emit(bytecode.OpExecutionPause, n.Pos())
	c.emitFlags(byte(bytecode.PauseYield))
	c.emitReg(value)
	c.emitReg(value)
	c.emitCount(c.chunk.AppendPauseExtraData(nil))
	c.regs.GiveUpRegister() // value

	c.emitJumpTargetUnconditionalTo(loopStart, n.Pos())
	c.patchJump(exit)

	c.emit(bytecode.OpIteratorOperation, n.Pos())
	c.emitFlags(byte(bytecode.IteratorValue))
	c.emitReg(item)
	c.emitReg(dst)
	c.regs.GiveUpRegister() // item

	c.regs.GiveUpRegister() // iter
	c.regs.GiveUpRegister() // src
}
