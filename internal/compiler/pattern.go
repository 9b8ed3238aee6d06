package compiler

import (
	"github.com/larkscript/jsc/internal/ast"
	"github.com/larkscript/jsc/internal/bytecode"
)

// emitDestructuringAssign stores src through an array or object pattern
// target per spec.md §4.7, as a plain assignment (isInit=false, isDecl=
// false) rather than a declaration's first store.
func (c *Compiler) emitDestructuringAssign(pattern ast.Node, src int, pos int) {
	c.emitDestructure(pattern, src, pos, false)
}

// emitDestructuringDeclare stores src through pattern as a declaration's
// initializing store (let/const/var/catch-parameter/parameter binding).
func (c *Compiler) emitDestructuringDeclare(pattern ast.Node, src int, pos int) {
	c.emitDestructure(pattern, src, pos, true)
}

func (c *Compiler) emitDestructure(pattern ast.Node, src int, pos int, isInit bool) {
	switch p := pattern.(type) {
	case *ast.Identifier:
		c.emitIdentifierWrite(p.Name, src, pos, isInit)

	case *ast.MemberExpression:
		c.emitMemberStore(p, src)

	case *ast.AssignmentPattern:
		c.emitDefaultedBinding(p, src, pos, isInit)

	case *ast.ArrayPattern:
		c.emitArrayDestructure(p, src, pos, isInit)

	case *ast.ObjectPattern:
		c.emitObjectDestructure(p, src, pos, isInit)

	case *ast.RestElement:
		c.emitDestructure(p.Argument, src, pos, isInit)

	default:
		panic("compiler: unsupported destructuring target")
	}
}

// emitDefaultedBinding applies pattern = default: if src is undefined,
// evaluate Default into a fresh register and bind that instead.
func (c *Compiler) emitDefaultedBinding(p *ast.AssignmentPattern, src int, pos int, isInit bool) {
	val := c.regs.GetRegister()
	c.emitMove(val, src, pos)
	undef := c.regs.GetRegister()
	c.emitLoadLiteral(undef, nil, pos)
	isUndef := c.regs.GetRegister()
	c.emit(bytecode.OpBinaryStrictEqual, pos)
	c.emitReg(isUndef)
	c.emitReg(val)
	c.emitReg(undef)
	skipDefault := c.emitJumpIf(bytecode.OpJumpIfFalse, isUndef, pos, false)
	c.regs.GiveUpRegister() // isUndef
	c.regs.GiveUpRegister() // undef
	c.emitExpression(p.Default, val, p.Default.Pos())
	c.patchJump(skipDefault)
	c.emitDestructure(p.Left, val, pos, isInit)
	c.regs.GiveUpRegister()
}

// emitArrayDestructure lowers `[a, , b = 1, ...rest] = src` via the
// iterator protocol (spec.md §4.7): src is iterated once, each non-hole
// element binds the next iterator result (applying its own default), and a
// trailing rest element collects whatever remains.
func (c *Compiler) emitArrayDestructure(p *ast.ArrayPattern, src int, pos int, isInit bool) {
	iter := c.regs.GetRegister()
	c.emit(bytecode.OpIteratorOperation, pos)
	c.emitFlags(byte(bytecode.IteratorGetIterator))
	c.emitReg(src)
	c.emitReg(iter)

	for _, el := range p.Elements {
		item := c.regs.GetRegister()
		c.emit(bytecode.OpIteratorOperation, pos)
		c.emitFlags(byte(bytecode.IteratorNext))
		c.emitReg(iter)
		c.emitReg(item)
		c.emit(bytecode.OpIteratorOperation, pos)
		c.emitFlags(byte(bytecode.IteratorValue))
		c.emitReg(item)
		c.emitReg(item)
		if el.Element != nil {
			c.emitDestructure(el.Element, item, pos, isInit)
		}
		c.regs.GiveUpRegister()
	}

	if p.Rest != nil {
		restArr := c.regs.GetRegister()
		c.emit(bytecode.OpCreateRestElement, pos)
		c.emitReg(restArr)
		c.emitCount(0)
		c.emit(bytecode.OpBindingRestElement, pos)
		c.emitReg(iter)
		c.emitReg(restArr)
		c.emitDestructure(p.Rest, restArr, pos, isInit)
		c.regs.GiveUpRegister()
	} else {
		c.emit(bytecode.OpIteratorOperation, pos)
		c.emitFlags(byte(bytecode.IteratorClose))
		c.emitReg(iter)
		c.emitReg(NoRegister)
	}

	c.regs.GiveUpRegister()
}

// emitObjectDestructure lowers `{a, b: c = 1, ...rest} = src` (spec.md
// §4.7): each named property reads directly off src (no iterator
// protocol), and a trailing rest collects own enumerable properties not
// already consumed.
func (c *Compiler) emitObjectDestructure(p *ast.ObjectPattern, src int, pos int, isInit bool) {
	consumed := make([]string, 0, len(p.Properties))
	for _, prop := range p.Properties {
		val := c.regs.GetRegister()
		if !prop.Computed {
			name := propertyKeyName(prop.Key)
			consumed = append(consumed, name)
			c.emit(bytecode.OpGetObjectPrecomputedCase, pos)
			c.emitReg(val)
			c.emitConstIndex(c.chunk.AddStringLiteral(name))
			c.emitReg(src)
		} else {
			key := c.regs.GetRegister()
			c.emitExpression(prop.Key, key, prop.Key.Pos())
			c.emit(bytecode.OpGetObject, pos)
			c.emitReg(val)
			c.emitReg(src)
			c.emitReg(key)
			c.regs.GiveUpRegister()
		}
		c.emitDestructure(prop.Value, val, pos, isInit)
		c.regs.GiveUpRegister()
	}

	if p.Rest != nil {
		restObj := c.regs.GetRegister()
		c.emit(bytecode.OpCreateObject, pos)
		c.emitReg(restObj)

		enum := c.regs.GetRegister()
		c.emit(bytecode.OpCreateEnumerateObject, pos)
		c.emitReg(src)
		c.emitReg(enum)
		c.emitFlags(0)

		loopStart := c.chunk.CurrentSize()
		exit := c.emitJumpIf(bytecode.OpCheckLastEnumerateKey, enum, pos, false)

		key := c.regs.GetRegister()
		c.emit(bytecode.OpGetEnumerateKey, pos)
		c.emitReg(enum)
		c.emitReg(key)

		if len(consumed) > 0 {
			skips := c.emitSkipIfKeyConsumed(key, consumed, pos)
			c.emitRestObjectCopy(restObj, src, key, pos)
			for _, s := range skips {
				c.patchJump(s)
			}
		} else {
			c.emitRestObjectCopy(restObj, src, key, pos)
		}

		c.regs.GiveUpRegister() // key
		c.emitJumpTargetUnconditionalTo(loopStart, pos)
		c.patchJump(exit)
		c.regs.GiveUpRegister() // enum

		c.emitDestructure(p.Rest, restObj, pos, isInit)
		c.regs.GiveUpRegister() // restObj
	}
}

func (c *Compiler) emitRestObjectCopy(restObj, src, key, pos int) {
	val := c.regs.GetRegister()
	c.emit(bytecode.OpGetObject, pos)
	c.emitReg(val)
	c.emitReg(src)
	c.emitReg(key)
	c.emit(bytecode.OpObjectDefineOwnProperty, pos)
	c.emitReg(restObj)
	c.emitReg(key)
	c.emitReg(val)
	c.regs.GiveUpRegister()
}

// emitSkipIfKeyConsumed emits one equality test per already-destructured
// name and returns a jump-patch offset per name, all meant to be patched to
// land just past the rest-copy body — so `{...rest}` excludes any name
// already bound earlier in the same pattern, as the source requires.
func (c *Compiler) emitSkipIfKeyConsumed(key int, consumed []string, pos int) []int {
	skips := make([]int, 0, len(consumed))
	for _, name := range consumed {
		lit := c.regs.GetRegister()
		c.emitLoadLiteral(lit, name, pos)
		eq := c.regs.GetRegister()
		c.emit(bytecode.OpBinaryStrictEqual, pos)
		c.emitReg(eq)
		c.emitReg(key)
		c.emitReg(lit)
		c.regs.GiveUpRegister()
		skips = append(skips, c.emitJumpIf(bytecode.OpJumpIfTrue, eq, pos, false))
		c.regs.GiveUpRegister()
	}
	return skips
}
