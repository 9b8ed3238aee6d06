package compiler

import (
	"github.com/larkscript/jsc/internal/ast"
	"github.com/larkscript/jsc/internal/bytecode"
)

// emitLabeledStatement lowers `label: stmt` per spec.md §4.10. A label
// wrapping a loop attaches directly so that `break label`/`continue
// label` resolve against that loop's own context; a label wrapping a
// switch or any other statement only ever receives `break label` (continue to a
// non-loop label is a parse-time error upstream of this package), handled
// by pushing a single-purpose break-only loopContext around it.
func (c *Compiler) emitLabeledStatement(n *ast.LabeledStatement) {
	switch body := n.Body.(type) {
	case *ast.WhileStatement:
		c.emitWhileStatement(body, n.Label)
	case *ast.DoWhileStatement:
		c.emitDoWhileStatement(body, n.Label)
	case *ast.ForStatement:
		c.emitForStatement(body, n.Label)
	case *ast.ForInStatement:
		c.emitForInStatement(body, n.Label)
	case *ast.ForOfStatement:
		c.emitForOfStatement(body, n.Label)
	default:
		lc := &loopContext{label: n.Label, isSwitch: true}
		c.pushLoop(lc)
		c.emitStatement(n.Body)
		c.resolvePendingBreaks(c.popLoop(), c.chunk.CurrentSize())
	}
}

// emitBreak records a pending break jump against the target loop/switch
// context (the innermost when label=="", else the matching labelled one)
// per spec.md §4.10's register_jump_positions_to_complex_case idiom:
// break/continue jump targets aren't known until the enclosing construct
// finishes emitting, so the jump is recorded now and patched once that
// context pops.
func (c *Compiler) emitBreak(label string, pos int) {
	lc := c.findLoop(label, false)
	j := c.emitPendingJump(pos, label, lc.tryDepthAtEntry, false)
	lc.pending = append(lc.pending, j)
}

func (c *Compiler) emitContinue(label string, pos int) {
	lc := c.findLoop(label, true)
	j := c.emitPendingJump(pos, label, lc.tryDepthAtEntry, true)
	lc.pending = append(lc.pending, j)
}

// emitPendingJump emits a jump (running any intervening finally blocks
// first via a TailRecursionInTry-style unwind is the runtime's job once
// tryDepth differs; the compiler only records the try depth active at the
// jump) and returns a pendingJump describing its patch site.
func (c *Compiler) emitPendingJump(pos int, label string, tryDepthAtEntry int, isContinue bool) *pendingJump {
	c.emit(bytecode.OpJump, pos)
	offset := c.emitJumpTarget()
	return &pendingJump{patchOffset: offset, label: label, tryDepth: c.tryDepth, isContinue: isContinue}
}

// findLoop walks the loop stack innermost-first for a break/continue
// target. continueOnly skips isSwitch contexts (switch bodies and
// label-only wrappers around non-loop statements), since neither accepts
// a continue; break targets them normally.
func (c *Compiler) findLoop(label string, continueOnly bool) *loopContext {
	for i := len(c.loopStack) - 1; i >= 0; i-- {
		lc := c.loopStack[i]
		if continueOnly && lc.isSwitch {
			continue
		}
		if label == "" || lc.label == label {
			return lc
		}
	}
	panic("compiler: break/continue with no matching target")
}

// resolvePendingBreaks patches every break recorded against lc to target,
// the position just past the loop/switch's own bytecode.
func (c *Compiler) resolvePendingBreaks(lc *loopContext, target int) {
	for _, j := range lc.pending {
		if !j.isContinue {
			c.patchJumpTo(j.patchOffset, target)
		}
	}
}

// resolvePendingContinues patches every continue recorded against lc to
// target, the loop's own increment/condition re-check point.
func (c *Compiler) resolvePendingContinues(lc *loopContext, target int) {
	for _, j := range lc.pending {
		if j.isContinue {
			c.patchJumpTo(j.patchOffset, target)
		}
	}
}
