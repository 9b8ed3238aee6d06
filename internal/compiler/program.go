package compiler

import (
	"github.com/larkscript/jsc/internal/ast"
	"github.com/larkscript/jsc/internal/bytecode"
	"github.com/larkscript/jsc/internal/codeblock"
	"github.com/larkscript/jsc/internal/config"
	"github.com/larkscript/jsc/internal/scope"
)

// CompiledProgram is the full output of Compile: one Chunk per CodeBlock,
// indexed identically to internal/scope's flattened CodeBlock list (and
// therefore identically to every FunctionExpression/FunctionDeclaration/
// ArrowFunctionExpression node's own CodeBlock field), plus the top-level
// program's own Chunk.
type CompiledProgram struct {
	Top  *bytecode.Chunk
	Subs []*bytecode.Chunk
}

// Compile runs the scope pre-pass over program, then recursively lowers
// the program body and every nested function body into its own Chunk,
// mirroring how a real engine compiles each function lazily but here done
// eagerly and up front per spec.md §2's description of the compiler as a
// single AST-to-bytecode pass per function. Each entry of the returned
// Subs slice corresponds by index to the same function literal's own
// CodeBlock int field, since internal/scope assigns both from the same
// counter.
func Compile(program *ast.Program, opts config.Options) *CompiledProgram {
	resolved := scope.Resolve(program)

	top := New(resolved.Program, opts)
	top.emitProgramBody(program.Body)
	top.chunk.RequiredRegisterFileSizeInValueSize = top.regs.RequiredRegisterFileSize()

	// compilerOf maps a CodeBlock to the Compiler instance built for it, so
	// a doubly-nested function chains its enclosing pointer to its actual
	// immediate parent rather than always to the top level — resolved.Flat
	// is pre-order (a function's entry precedes its own nested functions'),
	// so the parent's Compiler always already exists by the time a child is
	// reached.
	compilerOf := map[*codeblock.CodeBlock]*Compiler{resolved.Program: top}

	subs := make([]*bytecode.Chunk, len(resolved.Flat))
	for i, fs := range resolved.Flat {
		enclosing := compilerOf[fs.Code.Parent]
		fc := NewFunctionCompiler(enclosing, fs.Code)
		fc.emitFunctionBody(fs.Params, fs.Body, fs.ExprBody)
		fc.chunk.RequiredRegisterFileSizeInValueSize = fc.regs.RequiredRegisterFileSize()
		compilerOf[fs.Code] = fc
		subs[i] = fc.Chunk()
	}

	return &CompiledProgram{Top: top.Chunk(), Subs: subs}
}

// emitProgramBody lowers the top-level program the same way a function
// body is lowered, minus the parameter-binding prologue.
func (c *Compiler) emitProgramBody(body []ast.Node) {
	for i, stmt := range body {
		c.isTailPosition = i == len(body)-1
		c.emitStatement(stmt)
	}
}

// emitFunctionBody lowers one function's parameter-binding prologue
// followed by its body, or (for a concise-bodied arrow) its single
// expression used as an implicit return value.
func (c *Compiler) emitFunctionBody(params []ast.Param, body []ast.Node, exprBody ast.Node) {
	c.emitParameterBindings(params, 0)

	if exprBody != nil {
		val := c.regs.GetRegister()
		c.isTailPosition = true
		c.emitExpression(exprBody, val, exprBody.Pos())
		c.emit(bytecode.OpEnd, exprBody.Pos())
		c.emitReg(val)
		c.regs.GiveUpRegister()
		return
	}

	for i, stmt := range body {
		c.isTailPosition = i == len(body)-1
		c.emitStatement(stmt)
	}

	undef := c.regs.GetRegister()
	c.emitLoadLiteral(undef, nil, 0)
	c.emit(bytecode.OpEnd, 0)
	c.emitReg(undef)
	c.regs.GiveUpRegister()
}
