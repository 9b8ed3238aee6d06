package ast

// NewRegisterReference builds a synthetic node splicing an already-computed
// register into an expression position. The compiler uses this to desugar
// for-of/for-in/destructuring intermediates without re-evaluating them.
func NewRegisterReference(pos, register int) *RegisterReference {
	return &RegisterReference{Base: NewBase(KindRegisterReference, pos), Register: register}
}

// NewBlockStatement builds a block from a pre-assembled statement list.
func NewBlockStatement(pos int, body []Node) *BlockStatement {
	return &BlockStatement{Base: NewBase(KindBlockStatement, pos), Body: body}
}

// NewVariableDeclarator builds a single `id = init` binding.
func NewVariableDeclarator(pos int, id, init Node) *VariableDeclarator {
	return &VariableDeclarator{Base: NewBase(KindVariableDeclarator, pos), ID: id, Init: init}
}

// NewVariableDeclaration builds a var/let/const declaration with the given
// declarators, used by the compiler to synthesize bindings such as the
// `$iterable`/`$index` helpers a desugared for-of loop needs.
func NewVariableDeclaration(pos int, kind VariableKind, decls ...*VariableDeclarator) *VariableDeclaration {
	return &VariableDeclaration{Base: NewBase(KindVariableDeclaration, pos), VarKind: kind, Declarators: decls}
}

// NewAssignmentPattern builds a `left = default` destructuring default.
func NewAssignmentPattern(pos int, left, def Node) *AssignmentPattern {
	return &AssignmentPattern{Base: NewBase(KindAssignmentPattern, pos), Left: left, Default: def}
}

// NewRestElement builds a `...argument` pattern element.
func NewRestElement(pos int, argument Node) *RestElement {
	return &RestElement{Base: NewBase(KindRestElement, pos), Argument: argument}
}

// NewTryStatement builds a synthetic try/catch/finally, used by the
// compiler to wrap for-of/destructuring bodies for IteratorClose.
func NewTryStatement(pos int, block *BlockStatement, handler *CatchClause, finally *BlockStatement) *TryStatement {
	return &TryStatement{Base: NewBase(KindTryStatement, pos), Block: block, Handler: handler, Finally: finally}
}

// NewIfStatement builds a conditional statement.
func NewIfStatement(pos int, test, consequent, alternate Node) *IfStatement {
	return &IfStatement{Base: NewBase(KindIfStatement, pos), Test: test, Consequent: consequent, Alternate: alternate}
}

// NewExpressionStatement wraps an expression as a statement.
func NewExpressionStatement(pos int, expr Node) *ExpressionStatement {
	return &ExpressionStatement{Base: NewBase(KindExpressionStatement, pos), Expression: expr}
}

// NewBreakStatement builds a (possibly labelled) break.
func NewBreakStatement(pos int, label string) *BreakStatement {
	return &BreakStatement{Base: NewBase(KindBreakStatement, pos), Label: label}
}

// NewInitializeParameterExpression wraps pattern as the i-th formal
// parameter's binding step.
func NewInitializeParameterExpression(pos int, pattern Node, index int) *InitializeParameterExpression {
	return &InitializeParameterExpression{Base: NewBase(KindInitializeParameterExpression, pos), Pattern: pattern, ParamIndex: index}
}
