package compiler

import (
	"github.com/larkscript/jsc/internal/bytecode"
	"github.com/larkscript/jsc/internal/codeblock"
	"github.com/larkscript/jsc/internal/diagnostics"
)

// resolveIdentifier walks outward from this function's CodeBlock, then
// through enclosing Compilers' CodeBlocks, implementing
// indexedIdentifierInfo's cross-function walk (spec.md §3.5). It returns
// nil when no static resolution exists (the dynamic-by-name case).
func (c *Compiler) resolveIdentifier(name string) (*codeblock.IdentifierInfo, *Compiler) {
	for owner := c; owner != nil; owner = owner.enclosing {
		if info, ok := owner.code.Resolve(name); ok {
			return info, owner
		}
	}
	return nil, nil
}

// framesUp counts how many enclosing-function hops separate c from owner.
func framesUp(c, owner *Compiler) int {
	n := 0
	for cur := c; cur != owner; cur = cur.enclosing {
		n++
	}
	return n
}

// emitIdentifierRead lowers a read of name into dst, per the Read column of
// spec.md §4.4's table.
func (c *Compiler) emitIdentifierRead(name string, dst int, pos int) {
	if name == "arguments" && c.code.UsesArgumentsObject && !c.code.IsArrowFunctionExpression {
		c.emit(bytecode.OpEnsureArgumentsObject, pos)
	}

	info, owner := c.resolveIdentifier(name)
	if info == nil {
		c.emit(bytecode.OpLoadByName, pos)
		c.emitReg(dst)
		c.emitConstIndex(c.chunk.AddStringLiteral(name))
		return
	}

	switch info.Storage {
	case codeblock.StorageStack:
		c.checkTDZRead(name, info, pos)
		if c.canSkipCopyToRegister && owner == c {
			c.regs.PushRegister(info.StackSlot)
			return
		}
		c.emitMove(dst, info.StackSlot, pos)

	case codeblock.StorageHeap:
		up := framesUp(c, owner)
		c.emit(bytecode.OpLoadByHeapIndex, pos)
		c.emitCount(up)
		c.emitCount(info.HeapSlot)
		c.emitReg(dst)

	case codeblock.StorageGlobal:
		c.emit(bytecode.OpGetGlobalVariable, pos)
		c.emitReg(dst)
		c.emitCount(info.GlobalCacheSlot)

	default: // StorageDynamic
		c.emit(bytecode.OpLoadByName, pos)
		c.emitReg(dst)
		c.emitConstIndex(c.chunk.AddStringLiteral(name))
	}
}

// emitIdentifierWrite lowers a store of src into name, per the Write
// column of spec.md §4.4's table. isInit marks the first (initializing)
// store through a let/const/global-lexical binding.
func (c *Compiler) emitIdentifierWrite(name string, src int, pos int, isInit bool) {
	info, owner := c.resolveIdentifier(name)
	if info == nil {
		c.emit(bytecode.OpStoreByName, pos)
		c.emitConstIndex(c.chunk.AddStringLiteral(name))
		c.emitReg(src)
		return
	}

	switch info.Storage {
	case codeblock.StorageStack:
		if !info.Mutable && !isInit {
			c.throwStatic(pos, diagnostics.TypeError, diagnostics.MsgAssignmentToConstant, name)
			return
		}
		c.emitMove(info.StackSlot, src, pos)
		if info.IsLexicallyDeclared {
			c.initializedLexicals[name] = true
		}

	case codeblock.StorageHeap:
		up := framesUp(c, owner)
		if up == 0 && isInit {
			c.emit(bytecode.OpInitializeByHeapIndex, pos)
			c.emitReg(src)
			c.emitCount(info.HeapSlot)
		} else {
			c.emit(bytecode.OpStoreByHeapIndex, pos)
			c.emitReg(src)
			c.emitCount(up)
			c.emitCount(info.HeapSlot)
		}
		if info.IsLexicallyDeclared {
			c.initializedLexicals[name] = true
		}

	case codeblock.StorageGlobal:
		if isInit {
			c.emit(bytecode.OpInitializeGlobalVariable, pos)
		} else {
			c.emit(bytecode.OpSetGlobalVariable, pos)
		}
		c.emitReg(src)
		c.emitCount(info.GlobalCacheSlot)

	default: // StorageDynamic
		if isInit {
			c.emit(bytecode.OpInitializeByName, pos)
		} else {
			c.emit(bytecode.OpStoreByName, pos)
		}
		c.emitConstIndex(c.chunk.AddStringLiteral(name))
		c.emitReg(src)
	}
}

// checkTDZRead emits the static ReferenceError throw_static_error_operation
// when a let/const stack-allocated binding is read before its first
// initializing store along the compile-time-known path (spec.md §4.4's TDZ
// check, invariant §8.1.4). Heap-allocated lexical bindings rely on a
// runtime check folded into load_by_heap_index instead, so this only fires
// for the stack-slot case.
func (c *Compiler) checkTDZRead(name string, info *codeblock.IdentifierInfo, pos int) {
	if !info.IsLexicallyDeclared {
		return
	}
	if c.initializedLexicals[name] {
		return
	}
	c.throwStatic(pos, diagnostics.ReferenceError, diagnostics.MsgIdentifierNotInitialized, name)
}

// emitResolveAddress pre-resolves a dynamic identifier's address into a
// fresh scratch register, for compound assignment under `with`/`eval`
// interference (spec.md §4.4's "with and eval interference").
func (c *Compiler) emitResolveAddress(name string, pos int) int {
	addr := c.regs.GetRegister()
	c.emit(bytecode.OpResolveNameAddress, pos)
	c.emitConstIndex(c.chunk.AddStringLiteral(name))
	c.emitReg(addr)
	return addr
}

func (c *Compiler) emitStoreByNameWithAddress(addr, src int, pos int) {
	c.emit(bytecode.OpStoreByNameWithAddress, pos)
	c.emitReg(addr)
	c.emitReg(src)
}

// needsAddressResolution reports whether compound assignment to a bare
// identifier must pre-resolve its address rather than reading-then-storing
// directly, because eval or an open with-scope could rebind it between the
// read and the write.
func (c *Compiler) needsAddressResolution(name string) bool {
	if c.code.HasEval {
		return true
	}
	info, _ := c.resolveIdentifier(name)
	return info == nil && c.withDepth > 0
}
