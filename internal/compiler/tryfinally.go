package compiler

import (
	"github.com/larkscript/jsc/internal/ast"
	"github.com/larkscript/jsc/internal/bytecode"
)

// emitTryStatement lowers try/catch/finally per spec.md §4.6. The
// protected range is recorded in the chunk's exception-handler table
// rather than as inline branch bytecode (patch-in-place against the
// table, not the instruction stream, since an exception can surface at
// any point inside the block rather than at one compiler-known jump
// site). A finally clause is duplicated onto both the normal-exit path and
// the handler path, the same "inline the finally body twice" strategy the
// source uses rather than a callable finally thunk, keeping break/continue/
// return crossing a finally simple to reason about at the bytecode level.
func (c *Compiler) emitTryStatement(n *ast.TryStatement) {
	tryStart := c.chunk.CurrentSize()
	c.tryDepth++
	c.emitStatement(n.Block)
	c.tryDepth--
	tryEnd := c.chunk.CurrentSize()

	if n.Finally != nil {
		prevInFinally := c.inFinallyBlock
		c.inFinallyBlock = false
		wasTail := c.isTailPosition
		c.isTailPosition = false
		c.emitStatement(n.Finally)
		c.isTailPosition = wasTail
		c.inFinallyBlock = prevInFinally
	}
	afterNormalExit := c.emitJumpTargetUnconditional(n.Pos())

	if n.Handler != nil {
		catchStart := c.chunk.CurrentSize()
		c.chunk.AddExceptionHandler(bytecode.ExceptionHandler{
			TryStart: tryStart, TryEnd: tryEnd, HandlerStart: catchStart, Kind: bytecode.TryHandlerCatch,
		})

		c.emit(bytecode.OpOpenLexicalEnvironment, n.Pos())
		c.emitFlags(byte(bytecode.LexicalEnvCatch))
		c.emitReg(NoRegister)

		exc := c.regs.GetRegister()
		c.emit(bytecode.OpGetParameter, n.Pos())
		c.emitReg(exc)
		c.emitCount(0)
		if n.Handler.Param != nil {
			c.emitDestructuringDeclare(n.Handler.Param, exc, n.Pos())
		}
		c.regs.GiveUpRegister()

		c.emitStatement(n.Handler.Body)
		c.emit(bytecode.OpCloseLexicalEnvironment, n.Pos())

		if n.Finally != nil {
			prevInFinally := c.inFinallyBlock
			c.inFinallyBlock = true
			c.emitStatement(n.Finally)
			c.inFinallyBlock = prevInFinally
		}
	}

	if n.Finally != nil && n.Handler == nil {
		// A bare try/finally (no catch) still needs a handler row so an
		// exception propagating through the protected range runs the
		// finally before continuing to unwind.
		finallyOnThrow := c.chunk.CurrentSize()
		c.chunk.AddExceptionHandler(bytecode.ExceptionHandler{
			TryStart: tryStart, TryEnd: tryEnd, HandlerStart: finallyOnThrow, Kind: bytecode.TryHandlerFinally,
		})
		exc := c.regs.GetRegister()
		c.emit(bytecode.OpGetParameter, n.Pos())
		c.emitReg(exc)
		c.emitCount(0)

		prevInFinally := c.inFinallyBlock
		c.inFinallyBlock = true
		c.emitStatement(n.Finally)
		c.inFinallyBlock = prevInFinally

		c.emit(bytecode.OpThrowOperation, n.Pos())
		c.emitReg(exc)
		c.regs.GiveUpRegister()
	}

	c.patchJump(afterNormalExit)
}
