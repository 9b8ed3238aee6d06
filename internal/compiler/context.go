// Package compiler lowers an arena-allocated AST (internal/ast) plus its
// precomputed scope analysis (internal/codeblock) into a linear bytecode
// stream (internal/bytecode). It is the AST-to-bytecode compiler core:
// register allocation, control-flow lowering, destructuring/class/iterator
// lowering, all gathered around a per-function CodegenContext exactly as
// spec.md §2 describes.
package compiler

import (
	"fmt"

	"github.com/larkscript/jsc/internal/bytecode"
	"github.com/larkscript/jsc/internal/codeblock"
	"github.com/larkscript/jsc/internal/config"
	"github.com/larkscript/jsc/internal/diagnostics"
)

// pendingJump is one recorded break/continue awaiting resolution, keyed by
// an optional label and the try-depth active at the point it was emitted
// (spec.md §4.10).
type pendingJump struct {
	patchOffset int
	label       string // "" for unlabelled
	tryDepth    int
	isContinue  bool
}

// loopContext tracks one active loop/switch's break/continue bookkeeping.
type loopContext struct {
	label         string // the loop's own label, if immediately labelled
	continueTarget int   // resolved lazily; -1 until known (for-of etc. patch later)
	isSwitch      bool
	pending       []*pendingJump
	tryDepthAtEntry int
}

// classInfo carries the current constructor/prototype/super registers for
// nested class/method bodies (spec.md §2, §4.8).
type classInfo struct {
	constructorReg int
	prototypeReg   int
	superReg       int
	hasSuper       bool
}

// Compiler is the CodegenContext: the mutable state threaded through one
// function's AST traversal: the register LIFO, lexical-scope state,
// control-flow state, classinfo, and async/generator pause-site
// bookkeeping. One Compiler exists per function body being compiled;
// nested functions get their own via NewFunctionCompiler, chained through
// enclosing.
type Compiler struct {
	chunk *bytecode.Chunk
	code  *codeblock.CodeBlock
	regs  *RegisterAllocator
	opts  config.Options

	enclosing *Compiler

	loopStack  []*loopContext
	classStack []*classInfo

	// tryDepth counts open try statements, with or without a finalizer, for
	// tail-call suppression and labelled-jump routing through finalizers.
	tryDepth int
	// withDepth counts open `with` scopes; per spec.md §9's Open Question
	// resolution, treated identically to a finally-bearing try for
	// tail-call suppression.
	withDepth int
	inFinallyBlock bool

	// canSkipCopyToRegister gates the stack-slot-bypass fast path
	// (spec.md §4.2); cleared for the duration of an emission whenever the
	// right-hand side could alias an identifier being written on the left.
	canSkipCopyToRegister bool

	// initializedLexicals tracks, per currently open lexical block (by
	// name; a nested block starts from a copy of the enclosing block's set,
	// and the enclosing set is restored when the block closes), which
	// let/const bindings have had their first initializing store —
	// the static half of the TDZ check (spec.md §4.4).
	initializedLexicals map[string]bool

	// initializedParams tracks which parameters have completed their own
	// default-value initialization, so a later parameter's default may
	// reference an earlier one but not vice versa (spec.md §4.7).
	initializedParams map[string]bool

	blockIndex int // current lexical block index within code

	isTailPosition bool // whether the node currently being emitted sits in tail position
}

// New returns a Compiler for a fresh top-level (or function) CodeBlock.
func New(cb *codeblock.CodeBlock, opts config.Options) *Compiler {
	return &Compiler{
		chunk:               bytecode.NewChunk(),
		code:                cb,
		regs:                NewRegisterAllocator(),
		opts:                opts,
		initializedLexicals: make(map[string]bool),
		initializedParams:   make(map[string]bool),
	}
}

// NewFunctionCompiler returns a Compiler for a nested function, chained to
// its enclosing compiler so identifier resolution can walk outward.
func NewFunctionCompiler(enclosing *Compiler, cb *codeblock.CodeBlock) *Compiler {
	c := New(cb, enclosing.opts)
	c.enclosing = enclosing
	return c
}

// Chunk exposes the in-progress bytecode buffer (for tests and cmd/jscdump).
func (c *Compiler) Chunk() *bytecode.Chunk {
	return c.chunk
}

// --- low-level emission helpers ------------------------------------------

func (c *Compiler) emit(op bytecode.Opcode, pos int) int {
	return c.chunk.PushOpcode(op, pos)
}

func (c *Compiler) emitReg(r int) {
	c.chunk.WriteRegister(r)
}

func (c *Compiler) emitConstIndex(i int) {
	c.chunk.WriteConstIndex(i)
}

func (c *Compiler) emitCount(n int) {
	c.chunk.WriteCount(n)
}

func (c *Compiler) emitFlags(f byte) {
	c.chunk.WriteFlags(f)
}

// emitJumpTarget writes a placeholder jump-target operand after whatever
// opcode and operands the caller already emitted, returning its patch
// offset.
func (c *Compiler) emitJumpTarget() int {
	return c.chunk.WriteJumpTarget()
}

func (c *Compiler) patchJump(offset int) {
	c.chunk.PatchJumpTarget(offset, c.chunk.CurrentSize())
}

func (c *Compiler) patchJumpTo(offset, target int) {
	c.chunk.PatchJumpTarget(offset, target)
}

// emitMove emits a register-to-register copy unless src already is dst.
func (c *Compiler) emitMove(dst, src, pos int) {
	if dst == src {
		return
	}
	c.emit(bytecode.OpMove, pos)
	c.emitReg(dst)
	c.emitReg(src)
}

// emitLoadLiteral emits a load of a boxed primitive value into dst,
// keeping numeral literals in numeral_literal_data (spec.md §3.4) rather
// than flattening every value into the string table.
func (c *Compiler) emitLoadLiteral(dst int, value any, pos int) {
	if f, ok := value.(float64); ok {
		if reg, hit := c.regs.LookupCachedNumeral(f); hit && c.canSkipCopyToRegister {
			c.regs.PushRegister(reg)
			return
		}
		idx := c.chunk.AddNumeralLiteral(f)
		c.emit(bytecode.OpLoadLiteral, pos)
		c.emitReg(dst)
		c.emitConstIndex(idx)
		return
	}

	var token string
	switch v := value.(type) {
	case nil:
		token = "undefined"
	case bool:
		if v {
			token = "true"
		} else {
			token = "false"
		}
	case string:
		token = v
	default:
		token = fmt.Sprintf("%v", v)
	}
	idx := c.chunk.AddStringLiteral(token)
	c.emit(bytecode.OpLoadLiteral, pos)
	c.emitReg(dst)
	c.emitConstIndex(idx)
}

func (c *Compiler) throwStatic(pos int, kind diagnostics.Kind, template, arg string) {
	argIdx := c.chunk.AddStringLiteral(arg)
	tmplIdx := c.chunk.AddStringLiteral(template)
	c.emit(bytecode.OpThrowStaticErrorOperation, pos)
	c.emitFlags(byte(errKindToOpcode(kind)))
	c.emitConstIndex(tmplIdx)
	c.emitConstIndex(argIdx)
}

func errKindToOpcode(k diagnostics.Kind) bytecode.ErrorKind {
	switch k {
	case diagnostics.TypeError:
		return bytecode.ErrorType
	case diagnostics.RangeError:
		return bytecode.ErrorRange
	case diagnostics.SyntaxError:
		return bytecode.ErrorSyntax
	case diagnostics.URIError:
		return bytecode.ErrorURI
	default:
		return bytecode.ErrorReference
	}
}

// inTailSuppressingScope reports whether any currently open try statement
// (with or without a finalizer) or with scope should disable tail-call
// emission (spec.md §4.5's
// tail-call hint and §9's Open Question resolution treating `with`
// identically to a finally-bearing try).
func (c *Compiler) inTailSuppressingScope() bool {
	return c.tryDepth > 0 || c.withDepth > 0
}

// currentLoop returns the innermost active loop/switch context, or nil.
func (c *Compiler) currentLoop() *loopContext {
	if len(c.loopStack) == 0 {
		return nil
	}
	return c.loopStack[len(c.loopStack)-1]
}

func (c *Compiler) pushLoop(lc *loopContext) {
	lc.tryDepthAtEntry = c.tryDepth
	c.loopStack = append(c.loopStack, lc)
}

func (c *Compiler) popLoop() *loopContext {
	n := len(c.loopStack)
	lc := c.loopStack[n-1]
	c.loopStack = c.loopStack[:n-1]
	return lc
}

func (c *Compiler) currentClass() *classInfo {
	if len(c.classStack) == 0 {
		return nil
	}
	return c.classStack[len(c.classStack)-1]
}
